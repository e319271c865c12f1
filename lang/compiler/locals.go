package compiler

// local tracks one declared local variable's name and the scope depth it
// was declared at. depth is -1 between declaration and definition, the
// window during which a variable may not legally reference itself in its
// own initializer.
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef records one free-variable capture a nested function makes:
// either directly off the enclosing function's locals (isLocal) or by
// forwarding one of the enclosing function's own upvalues.
type upvalueRef struct {
	index   uint8
	isLocal bool
}

const maxLocals = 1 << 24 // bounded by the u24 long-operand encoding

// functionType distinguishes the handful of ways a function body can be
// entered, since each has slightly different rules for slot 0 and for
// implicit returns.
type functionType int

const (
	typeFunction functionType = iota
	typeMethod
	typeInitializer
	typeScript
)

// declareLocal registers name as a new local in the current scope. It
// returns false (and lets the caller report the error) if name shadows
// another local already declared in this exact scope, per spec.md's
// redeclaration rule.
func (fc *funcCompiler) declareLocal(name string) bool {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		l := fc.locals[i]
		if l.depth != -1 && l.depth < fc.scopeDepth {
			break
		}
		if l.name == name {
			return false
		}
	}
	fc.locals = append(fc.locals, local{name: name, depth: -1})
	return true
}

// markInitialized marks the most recently declared local as usable, once
// its initializer expression has finished compiling.
func (fc *funcCompiler) markInitialized() {
	if fc.scopeDepth == 0 {
		return
	}
	fc.locals[len(fc.locals)-1].depth = fc.scopeDepth
}

// resolveLocal returns the slot index of name among fc's own locals, or -1
// if name is not a local here.
func (fc *funcCompiler) resolveLocal(name string) int {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue resolves name as a captured free variable of fc, walking
// up through enclosing functions as needed and recording one upvalueRef per
// function on the way back down. It returns -1 if name is not found in any
// enclosing scope (the caller then treats it as a global).
func (fc *funcCompiler) resolveUpvalue(name string) int {
	if fc.enclosing == nil {
		return -1
	}
	if slot := fc.enclosing.resolveLocal(name); slot != -1 {
		fc.enclosing.locals[slot].isCaptured = true
		return fc.addUpvalue(uint8(slot), true)
	}
	if up := fc.enclosing.resolveUpvalue(name); up != -1 {
		return fc.addUpvalue(uint8(up), false)
	}
	return -1
}

// addUpvalue dedupes upvalue captures by (isLocal, index): two nested
// closures' captures of the same enclosing variable must resolve to the
// same upvalue slot so that they observe each other's writes through it.
func (fc *funcCompiler) addUpvalue(index uint8, isLocal bool) int {
	for i, uv := range fc.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return i
		}
	}
	fc.upvalues = append(fc.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fc.function.Upvalues = len(fc.upvalues)
	return len(fc.upvalues) - 1
}
