package compiler

import (
	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/token"
)

func (c *compiler) statement() {
	switch {
	case c.match(token.PRINT):
		c.printStatement()
	case c.match(token.IF):
		c.ifStatement()
	case c.match(token.WHILE):
		c.whileStatement()
	case c.match(token.FOR):
		c.forStatement()
	case c.match(token.RETURN):
		c.returnStatement()
	case c.match(token.BREAK):
		c.breakStatement()
	case c.match(token.CONTINUE):
		c.continueStatement()
	case c.match(token.LEFT_BRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

// block compiles declarations until the matching closing brace. The opening
// brace must already have been consumed by the caller.
func (c *compiler) block() {
	for !c.check(token.RIGHT_BRACE) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RIGHT_BRACE, "Expect '}' after block.")
}

func (c *compiler) printStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after value.")
	c.emitOp(bytecode.Print)
}

func (c *compiler) expressionStatement() {
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after expression.")
	c.emitOp(bytecode.Pop)
}

func (c *compiler) ifStatement() {
	c.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.JumpIfFalse)
	c.emitOp(bytecode.Pop)
	c.statement()

	elseJump := c.emitJump(bytecode.Jump)
	c.patchJump(thenJump)
	c.emitOp(bytecode.Pop)

	if c.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *compiler) pushLoop() *loopState {
	l := &loopState{enclosing: c.loop, scopeDepth: c.fc.scopeDepth}
	c.loop = l
	return l
}

func (c *compiler) popLoop() {
	for _, jump := range c.loop.breakJumps {
		c.patchJump(jump)
	}
	c.loop = c.loop.enclosing
}

func (c *compiler) whileStatement() {
	l := c.pushLoop()
	loopStart := len(c.chunk().Code)
	l.continueTarget = loopStart

	c.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.JumpIfFalse)
	c.emitOp(bytecode.Pop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.Pop)
	c.popLoop()
}

// forStatement desugars to a while loop: the initializer runs once before
// the loop, the condition and increment compile the same as in a while
// loop except the increment is threaded in after the body and before the
// back edge, and `continue` targets the increment rather than the
// condition so it still runs on every iteration.
func (c *compiler) forStatement() {
	c.beginScope()
	c.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	switch {
	case c.match(token.SEMICOLON):
		// no initializer
	case c.match(token.VAR):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	l := c.pushLoop()
	loopStart := len(c.chunk().Code)
	l.continueTarget = loopStart

	exitJump := -1
	if !c.match(token.SEMICOLON) {
		c.expression()
		c.consume(token.SEMICOLON, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.JumpIfFalse)
		c.emitOp(bytecode.Pop)
	}

	if !c.match(token.RIGHT_PAREN) {
		bodyJump := c.emitJump(bytecode.Jump)
		incrementStart := len(c.chunk().Code)
		c.expression()
		c.emitOp(bytecode.Pop)
		c.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		l.continueTarget = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.Pop)
	}
	c.popLoop()
	c.endScope()
}

func (c *compiler) breakStatement() {
	if c.loop == nil {
		c.error("Can't use 'break' outside of a loop.")
		c.consume(token.SEMICOLON, "Expect ';' after 'break'.")
		return
	}
	c.popLocalsToLoop(c.loop.scopeDepth)
	jump := c.emitJump(bytecode.Jump)
	c.loop.breakJumps = append(c.loop.breakJumps, jump)
	c.consume(token.SEMICOLON, "Expect ';' after 'break'.")
}

func (c *compiler) continueStatement() {
	if c.loop == nil {
		c.error("Can't use 'continue' outside of a loop.")
		c.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
		return
	}
	c.popLocalsToLoop(c.loop.scopeDepth)
	c.emitLoop(c.loop.continueTarget)
	c.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
}

// popLocalsToLoop pops every local declared more deeply than the loop's own
// scope, without touching funcCompiler.locals itself: break/continue jump
// past endScope's bookkeeping, so the stack must be balanced by hand here.
func (c *compiler) popLocalsToLoop(loopDepth int) {
	n := 0
	for i := len(c.fc.locals) - 1; i >= 0 && c.fc.locals[i].depth > loopDepth; i-- {
		if c.fc.locals[i].isCaptured {
			if n > 0 {
				c.emitPopN(n)
				n = 0
			}
			c.emitOp(bytecode.CloseUpvalue)
		} else {
			n++
		}
	}
	if n > 0 {
		c.emitPopN(n)
	}
}

func (c *compiler) returnStatement() {
	if c.fc.typ == typeScript {
		c.error("Can't return from top-level code.")
	}
	if c.match(token.SEMICOLON) {
		c.emitReturn()
		return
	}
	if c.fc.typ == typeInitializer {
		c.error("Can't return a value from an initializer.")
	}
	c.expression()
	c.consume(token.SEMICOLON, "Expect ';' after return value.")
	c.emitOp(bytecode.Return)
}
