package compiler

import (
	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/token"
)

// declaration compiles one top-level-or-block declaration: a class, fun,
// var declaration, or a fallthrough to statement. A syntax error anywhere
// inside triggers synchronize so the rest of the file can still be checked.
func (c *compiler) declaration() {
	switch {
	case c.match(token.CLASS):
		c.classDeclaration()
	case c.match(token.FUN):
		c.funDeclaration()
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *compiler) identifierConstant(name string) int {
	return c.makeConstant(c.intern.Get(name))
}

// declareVariable registers the identifier just consumed as a local if
// we're inside a block scope, leaving globals to be resolved by name at
// runtime instead.
func (c *compiler) declareVariable(name string) {
	if c.fc.scopeDepth == 0 {
		return
	}
	if !c.fc.declareLocal(name) {
		c.error("Already a variable with this name in this scope.")
	}
}

// parseVariable consumes an identifier token and returns the constant pool
// index for its name, used by globals; for locals the return value is
// unused by defineVariable.
func (c *compiler) parseVariable(errMsg string) int {
	c.consume(token.IDENT, errMsg)
	name := c.previous.Lexeme
	c.declareVariable(name)
	if c.fc.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(name)
}

func (c *compiler) defineVariable(global int) {
	if c.fc.scopeDepth > 0 {
		c.fc.markInitialized()
		return
	}
	c.emitIndexed(bytecode.DefineGlobal, global)
}

func (c *compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.EQUAL) {
		c.expression()
	} else {
		c.emitOp(bytecode.Nil)
	}
	c.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	c.fc.markInitialized()
	c.function(typeFunction)
	c.defineVariable(global)
}

// function compiles a function's parameter list and body, pushing a new
// funcCompiler for its duration and wrapping the result in an OP_CLOSURE
// instruction with one (isLocal, index) descriptor pair per upvalue it
// captures, per spec.md's closure-creation contract.
func (c *compiler) function(typ functionType) {
	enclosingFC := c.fc
	fn := c.gc.NewFunction()
	if typ != typeScript {
		fn.Name = c.previous.Lexeme
	}
	c.fc = &funcCompiler{enclosing: enclosingFC, function: fn, typ: typ}
	// Slot 0: `this` for methods/initializers, otherwise unused.
	recv := ""
	if typ == typeMethod || typ == typeInitializer {
		recv = "this"
	}
	c.fc.locals = append(c.fc.locals, local{name: recv, depth: 0})

	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after function name.")
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.fc.function.Arity++
			if c.fc.function.Arity > 255 {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			paramConst := c.parseVariable("Expect parameter name.")
			c.defineVariable(paramConst)
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	c.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	c.block()
	c.emitReturn()

	compiled := c.fc
	c.fc = enclosingFC

	idx := c.makeConstant(compiled.function)
	c.emitIndexed(bytecode.Closure, idx)
	for _, uv := range compiled.upvalues {
		isLocal := byte(0)
		if uv.isLocal {
			isLocal = 1
		}
		c.emitByte(isLocal)
		c.emitByte(uv.index)
	}
}

func (c *compiler) classDeclaration() {
	c.consume(token.IDENT, "Expect class name.")
	className := c.previous
	nameConst := c.identifierConstant(className.Lexeme)
	c.declareVariable(className.Lexeme)

	c.emitIndexed(bytecode.Class, nameConst)
	c.defineVariable(nameConst)

	cc := &classCompiler{enclosing: c.cc}
	c.cc = cc

	if c.match(token.LESS) {
		c.consume(token.IDENT, "Expect superclass name.")
		c.variable(false) // pushes the superclass
		if className.Lexeme == c.previous.Lexeme {
			c.error("A class can't inherit from itself.")
		}

		c.beginScope()
		c.fc.declareLocal("super")
		c.fc.markInitialized()

		c.namedVariable(className, false) // subclass
		c.emitOp(bytecode.Inherit)
		cc.hasSuperclass = true
	}

	c.namedVariable(className, false) // push class for method binding
	c.consume(token.LEFT_BRACE, "Expect '{' before class body.")
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after class body.")
	c.emitOp(bytecode.Pop) // the class value pushed for method binding

	if cc.hasSuperclass {
		c.endScope()
	}
	c.cc = cc.enclosing
}

func (c *compiler) method() {
	c.consume(token.IDENT, "Expect method name.")
	name := c.previous.Lexeme
	nameConst := c.identifierConstant(name)

	typ := typeMethod
	if name == "init" {
		typ = typeInitializer
	}
	c.function(typ)
	c.emitIndexed(bytecode.Method, nameConst)
}
