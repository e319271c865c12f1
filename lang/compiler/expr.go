package compiler

import (
	"github.com/Valkyrja-Design/holo/lang/bytecode"
	"github.com/Valkyrja-Design/holo/lang/token"
	"github.com/Valkyrja-Design/holo/lang/value"
)

func (c *compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt parser's core loop: it consumes the prefix
// token's parse function, then keeps consuming infix operators whose
// precedence is at least minPrec, left-associating by looping rather than
// recursing at the same precedence level.
func (c *compiler) parsePrecedence(minPrec Precedence) {
	c.advance()
	rule := getRule(c.previous.Tok)
	if rule.prefix == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := minPrec <= PrecAssignment
	rule.prefix(c, canAssign)

	for minPrec <= getRule(c.current.Tok).precedence {
		c.advance()
		infix := getRule(c.previous.Tok).infix
		infix(c, canAssign)
	}

	if canAssign && c.match(token.EQUAL) {
		c.error("Invalid assignment target.")
	}
}

func (c *compiler) number(_ bool) {
	c.emitConstant(value.Number(c.previous.Num))
}

func (c *compiler) string(_ bool) {
	c.emitConstant(c.intern.Get(c.previous.Lexeme))
}

func (c *compiler) literal(_ bool) {
	switch c.previous.Tok {
	case token.FALSE:
		c.emitOp(bytecode.False)
	case token.TRUE:
		c.emitOp(bytecode.True)
	case token.NIL:
		c.emitOp(bytecode.Nil)
	}
}

func (c *compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

func (c *compiler) unary(_ bool) {
	op := c.previous.Tok
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.MINUS:
		c.emitOp(bytecode.Negate)
	case token.BANG:
		c.emitOp(bytecode.Not)
	}
}

func (c *compiler) binary(_ bool) {
	op := c.previous.Tok
	rule := getRule(op)
	c.parsePrecedence(rule.precedence.next())

	switch op {
	case token.PLUS:
		c.emitOp(bytecode.Add)
	case token.MINUS:
		c.emitOp(bytecode.Subtract)
	case token.STAR:
		c.emitOp(bytecode.Multiply)
	case token.SLASH:
		c.emitOp(bytecode.Divide)
	case token.EQUAL_EQUAL:
		c.emitOp(bytecode.Equal)
	case token.BANG_EQUAL:
		c.emitOp(bytecode.NotEqual)
	case token.GREATER:
		c.emitOp(bytecode.Greater)
	case token.GREATER_EQUAL:
		c.emitOp(bytecode.GreaterEqual)
	case token.LESS:
		c.emitOp(bytecode.Less)
	case token.LESS_EQUAL:
		c.emitOp(bytecode.LessEqual)
	}
}

// ternary compiles `cond ? then : else`. The predicate is already on the
// stack when this fires (it is the left operand of the `?` infix use); both
// branches are compiled unconditionally, in order, and OP_TERNARY itself
// picks one of them at runtime. Right-associative: the else-branch is
// parsed at the same precedence as the then-branch so a nested
// `a ? b : c ? d : e` groups as `a ? b : (c ? d : e)`.
func (c *compiler) ternary(_ bool) {
	c.parsePrecedence(PrecTernary)
	c.consume(token.COLON, "Expect ':' after then-branch of ternary expression.")
	c.parsePrecedence(PrecTernary)
	c.emitOp(bytecode.Ternary)
}

// and short-circuits: if the left operand is falsy, its value is left on
// the stack and the right operand is skipped entirely.
func (c *compiler) and(_ bool) {
	endJump := c.emitJump(bytecode.JumpIfFalse)
	c.emitOp(bytecode.Pop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or short-circuits the opposite way: a truthy left operand short-circuits
// past the right operand.
func (c *compiler) or(_ bool) {
	endJump := c.emitJump(bytecode.JumpIfTrue)
	c.emitOp(bytecode.Pop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// namedVariable resolves name as a local, then an upvalue, then finally a
// global, and emits the matching get/set pair. Only a syntactic assignment
// target (`= ...` immediately following, and only when the surrounding
// expression context allows assignment) compiles to the set form.
func (c *compiler) namedVariable(name token.Value, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	var idx int

	if slot := c.fc.resolveLocal(name.Lexeme); slot != -1 {
		if c.fc.locals[slot].depth == -1 {
			c.error("Can't read local variable in its own initializer.")
		}
		getOp, setOp, idx = bytecode.GetLocal, bytecode.SetLocal, slot
	} else if slot := c.fc.resolveUpvalue(name.Lexeme); slot != -1 {
		if canAssign && c.match(token.EQUAL) {
			c.expression()
			c.emitOp(bytecode.SetUpvalue)
			c.emitByte(byte(slot))
			return
		}
		c.emitOp(bytecode.GetUpvalue)
		c.emitByte(byte(slot))
		return
	} else {
		getOp, setOp, idx = bytecode.GetGlobal, bytecode.SetGlobal, c.identifierConstant(name.Lexeme)
	}

	if canAssign && c.match(token.EQUAL) {
		c.expression()
		c.emitIndexed(setOp, idx)
		return
	}
	c.emitIndexed(getOp, idx)
}

func (c *compiler) this(_ bool) {
	if c.cc == nil {
		c.error("Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

func (c *compiler) super(_ bool) {
	if c.cc == nil {
		c.error("Can't use 'super' outside of a class.")
	} else if !c.cc.hasSuperclass {
		c.error("Can't use 'super' in a class with no superclass.")
	}

	c.consume(token.DOT, "Expect '.' after 'super'.")
	c.consume(token.IDENT, "Expect superclass method name.")
	nameConst := c.identifierConstant(c.previous.Lexeme)

	c.namedVariable(token.Value{Tok: token.IDENT, Lexeme: "this"}, false)
	if c.match(token.LEFT_PAREN) {
		argCount := c.argumentList()
		c.namedVariable(token.Value{Tok: token.IDENT, Lexeme: "super"}, false)
		c.emitSuperInvoke(nameConst, argCount)
		return
	}
	c.namedVariable(token.Value{Tok: token.IDENT, Lexeme: "super"}, false)
	c.emitIndexed(bytecode.GetSuper, nameConst)
}

func (c *compiler) emitSuperInvoke(nameConst, argCount int) {
	if nameConst < 256 {
		c.emitOp(bytecode.SuperInvoke)
		c.emitByte(byte(nameConst))
		c.emitByte(byte(argCount))
		return
	}
	c.emitOp(bytecode.SuperInvokeLong)
	c.chunk().WriteU24(uint32(nameConst), c.line())
	c.emitByte(byte(argCount))
}

func (c *compiler) dot(canAssign bool) {
	c.consume(token.IDENT, "Expect property name after '.'.")
	nameConst := c.identifierConstant(c.previous.Lexeme)

	switch {
	case canAssign && c.match(token.EQUAL):
		c.expression()
		c.emitIndexed(bytecode.SetProperty, nameConst)
	case c.match(token.LEFT_PAREN):
		argCount := c.argumentList()
		c.emitInvoke(nameConst, argCount)
	default:
		c.emitIndexed(bytecode.GetProperty, nameConst)
	}
}

func (c *compiler) emitInvoke(nameConst, argCount int) {
	if nameConst < 256 {
		c.emitOp(bytecode.Invoke)
		c.emitByte(byte(nameConst))
		c.emitByte(byte(argCount))
		return
	}
	c.emitOp(bytecode.InvokeLong)
	c.chunk().WriteU24(uint32(nameConst), c.line())
	c.emitByte(byte(argCount))
}

func (c *compiler) call(_ bool) {
	argCount := c.argumentList()
	c.emitOp(bytecode.Call)
	c.emitByte(byte(argCount))
}

func (c *compiler) argumentList() int {
	argCount := 0
	if !c.check(token.RIGHT_PAREN) {
		for {
			c.expression()
			if argCount == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.match(token.COMMA) {
				break
			}
		}
	}
	c.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return argCount
}
