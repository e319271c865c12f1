// Package compiler implements holo's single-pass compiler: a Pratt parser
// that walks the token stream exactly once, emitting bytecode directly as
// it recognizes each expression and statement, with no intermediate AST.
//
// The overall shape — a hand-written recursive-descent/precedence-climbing
// parser holding its own scanner and error list — follows the same pattern
// the example corpus's resolver and compiler packages use, adapted here
// into one pass instead of resolver-then-compiler.
package compiler

import (
	gotoken "go/token"

	"github.com/Valkyrja-Design/holo/lang/gc"
	"github.com/Valkyrja-Design/holo/lang/object"
	"github.com/Valkyrja-Design/holo/lang/scanner"
	"github.com/Valkyrja-Design/holo/lang/token"
)

// funcCompiler holds the state specific to compiling one function body:
// its locals, its upvalue captures, and its current lexical scope depth.
// Compiling a nested function pushes a new funcCompiler onto compiler.fc,
// chained to its enclosing one via the enclosing field so upvalue
// resolution can walk outward.
type funcCompiler struct {
	enclosing *funcCompiler
	function  *object.ObjFunction
	typ       functionType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// classCompiler tracks whether the class body currently being compiled has
// a superclass, so `super` expressions can be rejected outside one.
type classCompiler struct {
	enclosing     *classCompiler
	hasSuperclass bool
}

// loopState tracks the innermost enclosing loop's continue target and the
// list of not-yet-patched break jumps, so `break`/`continue` can be
// compiled before the loop's own back edge is known.
type loopState struct {
	enclosing      *loopState
	continueTarget int
	scopeDepth     int
	breakJumps     []int
}

// compiler is the top-level parser/emitter state, analogous to clox's
// Parser: one scanner, one current/previous token pair, and the stack of
// funcCompiler/classCompiler/loopState frames nested function, class and
// loop bodies push and pop as they're entered and left.
type compiler struct {
	scanner  *scanner.Scanner
	filename string

	previous token.Value
	current  token.Value

	hadError  bool
	panicMode bool
	errs      scanner.ErrorList

	gc     *gc.GC
	intern *gc.Intern
	symtab *gc.SymTab

	fc   *funcCompiler
	cc   *classCompiler
	loop *loopState
}

// Compile compiles the complete source text of one file into a top-level
// function representing the script body. On a scan or syntax error it
// returns a non-nil error (a scanner.ErrorList) alongside a nil function; holo does
// not attempt partial execution of a program that failed to compile.
func Compile(heap *gc.GC, intern *gc.Intern, symtab *gc.SymTab, filename string, src []byte) (*object.ObjFunction, error) {
	c := &compiler{
		gc:       heap,
		intern:   intern,
		symtab:   symtab,
		filename: filename,
	}

	sc := &scanner.Scanner{}
	sc.Init(filename, src, c.scanError)
	c.scanner = sc

	fn := heap.NewFunction()
	c.fc = &funcCompiler{function: fn, typ: typeScript}
	// Slot 0 is reserved: for methods it holds the receiver (`this`), for
	// plain functions and the script body it is simply unnamed and unused.
	c.fc.locals = append(c.fc.locals, local{name: "", depth: 0})

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	c.emitReturn()

	if c.hadError {
		return nil, c.errs.Err()
	}
	return fn, nil
}

// --- token stream plumbing ---

func (c *compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Scan()
		if c.current.Tok != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *compiler) check(tok token.Token) bool { return c.current.Tok == tok }

func (c *compiler) match(tok token.Token) bool {
	if !c.check(tok) {
		return false
	}
	c.advance()
	return true
}

func (c *compiler) consume(tok token.Token, msg string) {
	if c.current.Tok == tok {
		c.advance()
		return
	}
	c.errorAtCurrent(msg)
}

func (c *compiler) scanError(pos gotoken.Position, msg string) {
	c.hadError = true
	c.errs.Add(pos, msg)
}

func (c *compiler) position(tv token.Value) gotoken.Position {
	return gotoken.Position{Filename: c.filename, Line: tv.Line, Column: tv.Col}
}

func (c *compiler) errorAt(tv token.Value, msg string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	where := "'" + tv.Lexeme + "'"
	if tv.Tok == token.EOF {
		where = "end of file"
	}
	c.errs.Add(c.position(tv), "Error at "+where+": "+msg)
}

func (c *compiler) errorAtCurrent(msg string) { c.errorAt(c.current, msg) }
func (c *compiler) error(msg string)          { c.errorAt(c.previous, msg) }

// synchronize discards tokens after a syntax error until it reaches a point
// likely to begin a new statement, so one mistake is reported once instead
// of cascading into dozens of spurious follow-on errors.
func (c *compiler) synchronize() {
	c.panicMode = false
	for c.current.Tok != token.EOF {
		if c.previous.Tok == token.SEMICOLON {
			return
		}
		switch c.current.Tok {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		c.advance()
	}
}
