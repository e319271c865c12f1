package scanner_test

import (
	stdtoken "go/token"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/scanner"
	"github.com/Valkyrja-Design/holo/lang/token"
)

func scanAll(t *testing.T, src string) ([]token.Value, []stdtoken.Position) {
	t.Helper()
	var s scanner.Scanner
	var errs []stdtoken.Position
	s.Init("test.holo", []byte(src), func(pos stdtoken.Position, msg string) {
		errs = append(errs, pos)
	})
	var toks []token.Value
	for {
		v := s.Scan()
		toks = append(toks, v)
		if v.Tok == token.EOF {
			break
		}
	}
	return toks, errs
}

func kinds(toks []token.Value) []token.Token {
	out := make([]token.Token, len(toks))
	for i, v := range toks {
		out[i] = v.Tok
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, errs := scanAll(t, "(){},.-+;*?:! != = == < <= > >=")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.QUESTION, token.COLON, token.BANG, token.BANG_EQUAL, token.EQUAL,
		token.EQUAL_EQUAL, token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
		token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, errs := scanAll(t, "and break class continue else false for fun if nil or print return super this true var while foo")
	require.Empty(t, errs)
	want := []token.Token{
		token.AND, token.BREAK, token.CLASS, token.CONTINUE, token.ELSE, token.FALSE,
		token.FOR, token.FUN, token.IF, token.NIL, token.OR, token.PRINT, token.RETURN,
		token.SUPER, token.THIS, token.TRUE, token.VAR, token.WHILE, token.IDENT, token.EOF,
	}
	require.Equal(t, want, kinds(toks))
}

func TestScanNumbers(t *testing.T) {
	toks, errs := scanAll(t, "123 1.5 0.25")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.NUMBER, token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, 123.0, toks[0].Num)
	require.Equal(t, 1.5, toks[1].Num)
	require.Equal(t, 0.25, toks[2].Num)
}

func TestScanString(t *testing.T) {
	toks, errs := scanAll(t, `"hello world"`)
	require.Empty(t, errs)
	require.Equal(t, token.STRING, toks[0].Tok)
	require.Equal(t, "hello world", toks[0].Lexeme)
}

func TestScanStringNoEscapeProcessing(t *testing.T) {
	// spec.md: string escapes are not processed.
	toks, errs := scanAll(t, `"a\nb"`)
	require.Empty(t, errs)
	require.Equal(t, `a\nb`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	toks, errs := scanAll(t, `"never closed`)
	require.Len(t, errs, 1)
	require.Equal(t, token.ERROR, toks[0].Tok)
}

func TestScanComments(t *testing.T) {
	toks, errs := scanAll(t, "1 // line comment\n2 /* block\ncomment */ 3")
	require.Empty(t, errs)
	require.Equal(t, []token.Token{token.NUMBER, token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
	require.Equal(t, 1.0, toks[0].Num)
	require.Equal(t, 2.0, toks[1].Num)
	require.Equal(t, 3.0, toks[2].Num)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, errs := scanAll(t, "1 /* never closed")
	require.Len(t, errs, 1)
}

func TestScanEOFIsSticky(t *testing.T) {
	var s scanner.Scanner
	s.Init("test.holo", []byte("1"), nil)
	s.Scan()
	for i := 0; i < 3; i++ {
		require.Equal(t, token.EOF, s.Scan().Tok)
	}
}

func TestScanLineTracking(t *testing.T) {
	toks, errs := scanAll(t, "1\n2\n\n3")
	require.Empty(t, errs)
	require.Equal(t, 1, toks[0].Line)
	require.Equal(t, 2, toks[1].Line)
	require.Equal(t, 4, toks[2].Line)
}
