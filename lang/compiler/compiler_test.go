package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Valkyrja-Design/holo/lang/compiler"
	"github.com/Valkyrja-Design/holo/lang/gc"
)

func compileSrc(t *testing.T, src string) (*gc.GC, error) {
	t.Helper()
	heap := gc.New()
	intern := gc.NewIntern(heap)
	symtab := gc.NewSymTab()
	_, err := compiler.Compile(heap, intern, symtab, "test.holo", []byte(src))
	return heap, err
}

func TestCompileArithmeticExpression(t *testing.T) {
	_, err := compileSrc(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
}

func TestCompileClassWithInheritanceAndSuper(t *testing.T) {
	src := `
class A { greet() { return "A"; } }
class B < A { greet() { return super.greet() + "B"; } }
print B().greet();
`
	_, err := compileSrc(t, src)
	require.NoError(t, err)
}

func TestCompileClosure(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var counter = makeCounter();
print counter();
`
	_, err := compileSrc(t, src)
	require.NoError(t, err)
}

func TestCompileSyntaxErrorReported(t *testing.T) {
	_, err := compileSrc(t, `var x = ;`)
	require.Error(t, err)
}

func TestCompileSelfReferenceInInitializerIsError(t *testing.T) {
	_, err := compileSrc(t, `{ var a = a; }`)
	require.Error(t, err) // a block-scoped local cannot read itself in its own initializer
}

func TestCompileLocalSelfReferenceInInitializerIsError(t *testing.T) {
	_, err := compileSrc(t, `fun f() { var a = a; }`)
	require.Error(t, err)
}

func TestCompileBreakOutsideLoopIsError(t *testing.T) {
	_, err := compileSrc(t, `break;`)
	require.Error(t, err)
}

func TestCompileThisOutsideClassIsError(t *testing.T) {
	_, err := compileSrc(t, `print this;`)
	require.Error(t, err)
}

func TestCompileReturnFromTopLevelIsError(t *testing.T) {
	_, err := compileSrc(t, `return 1;`)
	require.Error(t, err)
}

func TestCompileForLoopWithBreakAndContinue(t *testing.T) {
	src := `
for (var i = 0; i < 10; i = i + 1) {
  if (i == 2) continue;
  if (i == 5) break;
  print i;
}
`
	_, err := compileSrc(t, src)
	require.NoError(t, err)
}
