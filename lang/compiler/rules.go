package compiler

import "github.com/Valkyrja-Design/holo/lang/token"

// Precedence orders binary operators from loosest to tightest binding, the
// same ladder a Pratt parser climbs one rung at a time.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecTernary               // ?:
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type (
	prefixParseFn func(c *compiler, canAssign bool)
	infixParseFn  func(c *compiler, canAssign bool)
)

// parseRule associates a token kind with the function that parses it as a
// prefix expression, the function that parses it as an infix/postfix
// operator, and the precedence of that infix use.
type parseRule struct {
	prefix     prefixParseFn
	infix      infixParseFn
	precedence Precedence
}

var rules map[token.Token]parseRule

func init() {
	rules = map[token.Token]parseRule{
		token.LEFT_PAREN:    {prefix: (*compiler).grouping, infix: (*compiler).call, precedence: PrecCall},
		token.DOT:           {infix: (*compiler).dot, precedence: PrecCall},
		token.MINUS:         {prefix: (*compiler).unary, infix: (*compiler).binary, precedence: PrecTerm},
		token.PLUS:          {infix: (*compiler).binary, precedence: PrecTerm},
		token.SLASH:         {infix: (*compiler).binary, precedence: PrecFactor},
		token.STAR:          {infix: (*compiler).binary, precedence: PrecFactor},
		token.BANG:          {prefix: (*compiler).unary},
		token.BANG_EQUAL:    {infix: (*compiler).binary, precedence: PrecEquality},
		token.EQUAL_EQUAL:   {infix: (*compiler).binary, precedence: PrecEquality},
		token.GREATER:       {infix: (*compiler).binary, precedence: PrecComparison},
		token.GREATER_EQUAL: {infix: (*compiler).binary, precedence: PrecComparison},
		token.LESS:          {infix: (*compiler).binary, precedence: PrecComparison},
		token.LESS_EQUAL:    {infix: (*compiler).binary, precedence: PrecComparison},
		token.IDENT:         {prefix: (*compiler).variable},
		token.STRING:        {prefix: (*compiler).string},
		token.NUMBER:        {prefix: (*compiler).number},
		token.AND:           {infix: (*compiler).and, precedence: PrecAnd},
		token.OR:            {infix: (*compiler).or, precedence: PrecOr},
		token.QUESTION:      {infix: (*compiler).ternary, precedence: PrecTernary},
		token.FALSE:         {prefix: (*compiler).literal},
		token.TRUE:          {prefix: (*compiler).literal},
		token.NIL:           {prefix: (*compiler).literal},
		token.THIS:          {prefix: (*compiler).this},
		token.SUPER:         {prefix: (*compiler).super},
	}
}

func getRule(tok token.Token) parseRule {
	return rules[tok]
}

func (p Precedence) next() Precedence {
	if p == PrecPrimary {
		return PrecPrimary
	}
	return p + 1
}
