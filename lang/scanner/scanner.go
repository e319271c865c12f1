// Package scanner implements the lexical scanner for holo source text. It is
// the one component spec.md treats as an external collaborator: a stateful
// producer of token.Value tokens over a fixed C-family taxonomy.
//
// The error-collection plumbing is adapted from the Go standard library's
// go/scanner package, the same reuse trick the example corpus's own scanner
// applies (aliasing scanner.ErrorList instead of hand-rolling a multi-error
// collector).
package scanner

import (
	"fmt"
	"go/scanner"
	stdtoken "go/token"
	"io"
	"strconv"

	"github.com/Valkyrja-Design/holo/lang/token"
)

type (
	// Error is a single scan or compile error, tied to a source position.
	Error = scanner.Error
	// ErrorList is a sortable collection of Errors implementing Unwrap()
	// []error.
	ErrorList = scanner.ErrorList
)

// PrintError prints err, which may be a single error, an ErrorList, or any
// other error value, to w (one error per line). Positioned errors are
// printed as "[line L] <message>"; any other error prints its text alone.
func PrintError(w io.Writer, err error) {
	switch e := err.(type) {
	case ErrorList:
		for _, ee := range e {
			fmt.Fprintf(w, "[line %d] %s\n", ee.Pos.Line, ee.Msg)
		}
	case *Error:
		fmt.Fprintf(w, "[line %d] %s\n", e.Pos.Line, e.Msg)
	case nil:
	default:
		fmt.Fprintf(w, "%s\n", err)
	}
}

// Scanner tokenizes a single source file for the compiler to consume. It
// knows nothing about file sets: holo compiles exactly one file per run.
type Scanner struct {
	filename string
	src      []byte
	err      func(pos stdtoken.Position, msg string)

	start int // byte offset of the start of the current lexeme
	cur   int // byte offset of the next unread byte
	line  int
	col   int // column of src[cur]

	startLine, startCol int
}

// Init prepares s to scan src, attributing positions to filename and
// reporting scan errors (illegal characters, unterminated strings/comments)
// through errHandler.
func (s *Scanner) Init(filename string, src []byte, errHandler func(pos stdtoken.Position, msg string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler
	s.start = 0
	s.cur = 0
	s.line = 1
	s.col = 1
}

func (s *Scanner) atEnd() bool { return s.cur >= len(s.src) }

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.cur]
}

func (s *Scanner) peekNext() byte {
	if s.cur+1 >= len(s.src) {
		return 0
	}
	return s.src[s.cur+1]
}

func (s *Scanner) advance() byte {
	b := s.src[s.cur]
	s.cur++
	if b == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return b
}

func (s *Scanner) match(want byte) bool {
	if s.atEnd() || s.src[s.cur] != want {
		return false
	}
	s.advance()
	return true
}

func (s *Scanner) errAt(line, col int, msg string) {
	if s.err != nil {
		s.err(stdtoken.Position{Filename: s.filename, Line: line, Column: col}, msg)
	}
}

// Scan returns the next token in the source. After the end of input it keeps
// returning token.EOF indefinitely, as spec.md's scanner contract requires.
func (s *Scanner) Scan() token.Value {
	s.skipWhitespaceAndComments()

	s.start = s.cur
	s.startLine, s.startCol = s.line, s.col

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.identifier()
	case isDigit(c):
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LEFT_PAREN)
	case ')':
		return s.make(token.RIGHT_PAREN)
	case '{':
		return s.make(token.LEFT_BRACE)
	case '}':
		return s.make(token.RIGHT_BRACE)
	case ',':
		return s.make(token.COMMA)
	case '.':
		return s.make(token.DOT)
	case '-':
		return s.make(token.MINUS)
	case '+':
		return s.make(token.PLUS)
	case ';':
		return s.make(token.SEMICOLON)
	case '*':
		return s.make(token.STAR)
	case '?':
		return s.make(token.QUESTION)
	case ':':
		return s.make(token.COLON)
	case '!':
		if s.match('=') {
			return s.make(token.BANG_EQUAL)
		}
		return s.make(token.BANG)
	case '=':
		if s.match('=') {
			return s.make(token.EQUAL_EQUAL)
		}
		return s.make(token.EQUAL)
	case '<':
		if s.match('=') {
			return s.make(token.LESS_EQUAL)
		}
		return s.make(token.LESS)
	case '>':
		if s.match('=') {
			return s.make(token.GREATER_EQUAL)
		}
		return s.make(token.GREATER)
	case '/':
		// line and block comments are consumed by skipWhitespaceAndComments;
		// reaching here means a bare division operator.
		return s.make(token.SLASH)
	case '"':
		return s.string()
	}

	s.errAt(s.startLine, s.startCol, "Unexpected character '"+string(c)+"'")
	return s.errorToken("Unexpected character")
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.advance()
		case '/':
			switch s.peekNext() {
			case '/':
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			case '*':
				s.skipBlockComment()
			default:
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) skipBlockComment() {
	startLine, startCol := s.line, s.col
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.atEnd() {
			s.errAt(startLine, startCol, "Unterminated block comment")
			return
		}
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func (s *Scanner) identifier() token.Value {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	lit := string(s.src[s.start:s.cur])
	return s.make(token.LookupKw(lit))
}

func (s *Scanner) number() token.Value {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	v := s.make(token.NUMBER)
	v.Num, _ = strconv.ParseFloat(v.Lexeme, 64)
	return v
}

func (s *Scanner) string() token.Value {
	startLine, startCol := s.line, s.col
	for s.peek() != '"' && !s.atEnd() {
		s.advance()
	}
	if s.atEnd() {
		s.errAt(startLine, startCol, "Unterminated string")
		return s.errorToken("Unterminated string")
	}
	s.advance() // closing quote
	v := s.make(token.STRING)
	// Trim the surrounding quotes; no escape processing, per spec.
	v.Lexeme = string(s.src[s.start+1 : s.cur-1])
	return v
}

func (s *Scanner) make(tok token.Token) token.Value {
	return token.Value{
		Tok:    tok,
		Lexeme: string(s.src[s.start:s.cur]),
		Line:   s.startLine,
		Col:    s.startCol,
	}
}

func (s *Scanner) errorToken(msg string) token.Value {
	return token.Value{
		Tok:    token.ERROR,
		Lexeme: msg,
		Line:   s.startLine,
		Col:    s.startCol,
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
