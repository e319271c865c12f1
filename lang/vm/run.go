package vm

import (
	"context"
	"fmt"

	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/value"
)

// run is the dispatch loop: fetch-decode-execute over the current frame's
// chunk until a Return instruction unwinds the last frame, a runtime error
// occurs, or ctx is cancelled. Cancellation is checked once per loop
// iteration — between instructions, never mid-instruction — so the VM never
// leaves the stack in a torn state.
func (vm *VM) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return vm.runtimeError("%s", ctx.Err().Error())
		default:
		}

		fr := vm.currentFrame()
		code := fr.closure.Function.Chunk.Code
		op := bytecode.OpCode(code[fr.ip])
		fr.ip++

		switch op {
		case bytecode.Constant:
			if err := vm.push(vm.readConstant(fr, false)); err != nil {
				return err
			}
		case bytecode.ConstantLong:
			if err := vm.push(vm.readConstant(fr, true)); err != nil {
				return err
			}

		case bytecode.Nil:
			if err := vm.push(value.Nil); err != nil {
				return err
			}
		case bytecode.True:
			if err := vm.push(value.Bool(true)); err != nil {
				return err
			}
		case bytecode.False:
			if err := vm.push(value.Bool(false)); err != nil {
				return err
			}

		case bytecode.Pop:
			vm.pop()
		case bytecode.PopN:
			vm.popN(int(vm.readByte(fr)))
		case bytecode.PopNLong:
			vm.popN(int(vm.readU24(fr)))

		case bytecode.DefineGlobal, bytecode.DefineGlobalLong:
			name := vm.readGlobalName(fr, op == bytecode.DefineGlobalLong)
			vm.setGlobalSlot(vm.symtab.Intern(name), vm.pop())

		case bytecode.GetGlobal, bytecode.GetGlobalLong:
			name := vm.readGlobalName(fr, op == bytecode.GetGlobalLong)
			slot, ok := vm.symtab.Lookup(name)
			var v value.Value
			if ok && slot < len(vm.globals) {
				v = vm.globals[slot]
			}
			if v == nil {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			if err := vm.push(v); err != nil {
				return err
			}

		case bytecode.SetGlobal, bytecode.SetGlobalLong:
			name := vm.readGlobalName(fr, op == bytecode.SetGlobalLong)
			slot, ok := vm.symtab.Lookup(name)
			if !ok || slot >= len(vm.globals) || vm.globals[slot] == nil {
				return vm.runtimeError("Undefined variable '%s'.", name)
			}
			vm.globals[slot] = vm.peek(0)

		case bytecode.GetLocal:
			if err := vm.push(vm.stack[fr.stackBase+int(vm.readByte(fr))]); err != nil {
				return err
			}
		case bytecode.GetLocalLong:
			if err := vm.push(vm.stack[fr.stackBase+int(vm.readU24(fr))]); err != nil {
				return err
			}
		case bytecode.SetLocal:
			vm.stack[fr.stackBase+int(vm.readByte(fr))] = vm.peek(0)
		case bytecode.SetLocalLong:
			vm.stack[fr.stackBase+int(vm.readU24(fr))] = vm.peek(0)

		case bytecode.GetUpvalue:
			idx := vm.readByte(fr)
			if err := vm.push(fr.closure.Upvalues[idx].Get()); err != nil {
				return err
			}
		case bytecode.SetUpvalue:
			idx := vm.readByte(fr)
			fr.closure.Upvalues[idx].Set(vm.peek(0))
		case bytecode.CloseUpvalue:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case bytecode.GetProperty, bytecode.GetPropertyLong:
			if err := vm.execGetProperty(fr, op == bytecode.GetPropertyLong); err != nil {
				return err
			}
		case bytecode.SetProperty, bytecode.SetPropertyLong:
			if err := vm.execSetProperty(fr, op == bytecode.SetPropertyLong); err != nil {
				return err
			}
		case bytecode.GetSuper, bytecode.GetSuperLong:
			if err := vm.execGetSuper(fr, op == bytecode.GetSuperLong); err != nil {
				return err
			}

		case bytecode.Equal:
			b, a := vm.pop(), vm.pop()
			if err := vm.push(value.Bool(value.Equal(a, b))); err != nil {
				return err
			}
		case bytecode.NotEqual:
			b, a := vm.pop(), vm.pop()
			if err := vm.push(value.Bool(!value.Equal(a, b))); err != nil {
				return err
			}
		case bytecode.Greater, bytecode.GreaterEqual, bytecode.Less, bytecode.LessEqual:
			if err := vm.execCompare(op); err != nil {
				return err
			}

		case bytecode.Add:
			if err := vm.execAdd(); err != nil {
				return err
			}
		case bytecode.Subtract, bytecode.Multiply, bytecode.Divide:
			if err := vm.execArith(op); err != nil {
				return err
			}
		case bytecode.Not:
			v := value.Bool(!value.IsTruthy(vm.pop()))
			if err := vm.push(v); err != nil {
				return err
			}
		case bytecode.Negate:
			n, ok := vm.peek(0).(value.Number)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.pop()
			if err := vm.push(-n); err != nil {
				return err
			}

		// Ternary pops all three operands eagerly (both branches are always
		// compiled and evaluated, unlike if/else) and replaces them with
		// whichever branch the predicate selected.
		case bytecode.Ternary:
			elseVal := vm.pop()
			thenVal := vm.pop()
			pred := vm.pop()
			selected := elseVal
			if value.IsTruthy(pred) {
				selected = thenVal
			}
			if err := vm.push(selected); err != nil {
				return err
			}

		case bytecode.Print:
			fmt.Fprintln(vm.stdout(), vm.pop().String())

		case bytecode.Jump:
			fr.ip += int(vm.readU16(fr))
		case bytecode.JumpIfFalse:
			offset := vm.readU16(fr)
			if !value.IsTruthy(vm.peek(0)) {
				fr.ip += int(offset)
			}
		case bytecode.JumpIfTrue:
			offset := vm.readU16(fr)
			if value.IsTruthy(vm.peek(0)) {
				fr.ip += int(offset)
			}
		case bytecode.Loop:
			fr.ip -= int(vm.readU16(fr))

		case bytecode.Call:
			argCount := int(vm.readByte(fr))
			if err := vm.callValue(vm.peek(argCount), argCount); err != nil {
				return err
			}

		case bytecode.Invoke, bytecode.InvokeLong:
			name := vm.readGlobalName(fr, op == bytecode.InvokeLong)
			argCount := int(vm.readByte(fr))
			if err := vm.invoke(name, argCount); err != nil {
				return err
			}

		case bytecode.SuperInvoke, bytecode.SuperInvokeLong:
			name := vm.readGlobalName(fr, op == bytecode.SuperInvokeLong)
			argCount := int(vm.readByte(fr))
			superclass := vm.pop().(*object.ObjClass)
			if err := vm.invokeFromClass(superclass, name, argCount); err != nil {
				return err
			}

		case bytecode.Closure, bytecode.ClosureLong:
			if err := vm.execClosure(fr, op == bytecode.ClosureLong); err != nil {
				return err
			}

		case bytecode.Return:
			result := vm.pop()
			base := fr.stackBase
			vm.closeUpvalues(base)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				return nil
			}
			vm.stack = vm.stack[:base]
			if err := vm.push(result); err != nil {
				return err
			}

		case bytecode.Class:
			nameConst := vm.readByte(fr)
			name := fr.closure.Function.Chunk.Constants[nameConst].(*object.ObjString)
			if err := vm.push(vm.heap.NewClass(name)); err != nil {
				return err
			}

		case bytecode.Inherit:
			superVal := vm.peek(1)
			superclass, ok := superVal.(*object.ObjClass)
			if !ok {
				return vm.runtimeError("Superclass must be a class.")
			}
			subclass := vm.peek(0).(*object.ObjClass)
			subclass.Superclass = superclass
			superclass.Methods.Iter(func(name string, m *object.ObjClosure) bool {
				subclass.Methods.Put(name, m)
				return false
			})
			vm.pop() // subclass popped; superclass stays as the `super` local

		case bytecode.Method, bytecode.MethodLong:
			vm.execMethod(fr, op == bytecode.MethodLong)

		default:
			return vm.runtimeError("Unknown opcode %d.", op)
		}

		vm.maybeCollect()
	}
}

func (vm *VM) readByte(fr *frame) byte {
	b := fr.closure.Function.Chunk.Code[fr.ip]
	fr.ip++
	return b
}

func (vm *VM) readU16(fr *frame) uint16 {
	v := bytecode.ReadU16(fr.closure.Function.Chunk.Code, fr.ip)
	fr.ip += 2
	return v
}

func (vm *VM) readU24(fr *frame) uint32 {
	v := bytecode.ReadU24(fr.closure.Function.Chunk.Code, fr.ip)
	fr.ip += 3
	return v
}

func (vm *VM) readConstant(fr *frame, long bool) value.Value {
	if long {
		return fr.closure.Function.Chunk.Constants[vm.readU24(fr)]
	}
	return fr.closure.Function.Chunk.Constants[vm.readByte(fr)]
}

func (vm *VM) readGlobalName(fr *frame, long bool) string {
	return vm.readConstant(fr, long).(*object.ObjString).Str
}

func (vm *VM) execCompare(op bytecode.OpCode) error {
	b, ok1 := vm.peek(0).(value.Number)
	a, ok2 := vm.peek(1).(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	var result bool
	switch op {
	case bytecode.Greater:
		result = a > b
	case bytecode.GreaterEqual:
		result = a >= b
	case bytecode.Less:
		result = a < b
	case bytecode.LessEqual:
		result = a <= b
	}
	return vm.push(value.Bool(result))
}

func (vm *VM) execArith(op bytecode.OpCode) error {
	b, ok1 := vm.peek(0).(value.Number)
	a, ok2 := vm.peek(1).(value.Number)
	if !ok1 || !ok2 {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	switch op {
	case bytecode.Subtract:
		return vm.push(a - b)
	case bytecode.Multiply:
		return vm.push(a * b)
	case bytecode.Divide:
		if b == 0 {
			return vm.runtimeError("Division by zero.")
		}
		return vm.push(a / b)
	}
	return nil
}

// execAdd overloads + for numbers and strings, per spec.md: number+number
// adds, string+string concatenates (through the intern table, so the
// result participates in identity equality like any other string), any
// other combination is a runtime error.
func (vm *VM) execAdd() error {
	bv, av := vm.peek(0), vm.peek(1)
	switch b := bv.(type) {
	case value.Number:
		a, ok := av.(value.Number)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		return vm.push(a + b)
	case *object.ObjString:
		a, ok := av.(*object.ObjString)
		if !ok {
			return vm.runtimeError("Operands must be two numbers or two strings.")
		}
		vm.pop()
		vm.pop()
		return vm.push(vm.intern.Get(a.Str + b.Str))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) execGetProperty(fr *frame, long bool) error {
	instance, ok := vm.peek(0).(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have properties.")
	}
	name := vm.readGlobalName(fr, long)
	if v, ok := instance.Fields.Get(name); ok {
		vm.pop()
		return vm.push(v)
	}
	return vm.bindMethod(instance.Class, instance, name)
}

func (vm *VM) execSetProperty(fr *frame, long bool) error {
	instance, ok := vm.peek(1).(*object.ObjInstance)
	if !ok {
		return vm.runtimeError("Only instances have fields.")
	}
	name := vm.readGlobalName(fr, long)
	v := vm.pop()
	instance.Fields.Put(name, v)
	vm.pop() // instance
	return vm.push(v)
}

func (vm *VM) execGetSuper(fr *frame, long bool) error {
	name := vm.readGlobalName(fr, long)
	superclass := vm.pop().(*object.ObjClass)
	instance := vm.peek(0).(*object.ObjInstance)
	return vm.bindMethod(superclass, instance, name)
}

func (vm *VM) execClosure(fr *frame, long bool) error {
	fn := vm.readConstant(fr, long).(*object.ObjFunction)
	closure := vm.heap.NewClosure(fn, fn.Upvalues)
	for i := range closure.Upvalues {
		isLocal := vm.readByte(fr)
		index := vm.readByte(fr)
		if isLocal != 0 {
			closure.Upvalues[i] = vm.captureUpvalue(fr.stackBase + int(index))
		} else {
			closure.Upvalues[i] = fr.closure.Upvalues[index]
		}
	}
	return vm.push(closure)
}

func (vm *VM) execMethod(fr *frame, long bool) {
	name := vm.readGlobalName(fr, long)
	method := vm.pop().(*object.ObjClosure)
	class := vm.peek(0).(*object.ObjClass)
	class.Methods.Put(name, method)
}
