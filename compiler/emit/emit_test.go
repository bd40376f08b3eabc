package emit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/lexer"
	"github.com/quasar-lang/quasar/compiler/parser"
	"github.com/quasar-lang/quasar/compiler/semantic"
)

// compileToPython runs src through lex, parse, and analyze, then emits it,
// failing the test on any diagnostic since these fixtures are meant to be
// fully valid programs.
func compileToPython(t *testing.T, src string) string {
	t.Helper()
	ctx := context.Background()

	toks, lexDiags := lexer.Lex(ctx, "t.qsr", []byte(src))
	require.False(t, lexDiags.HasErrors(), "lex diagnostics: %v", lexDiags)

	p := parser.New(toks)
	prog := p.ParseProgram(ctx)

	prog, diags := semantic.Analyze(ctx, "t.qsr", prog, nil, nil, nil)
	require.False(t, diags.HasErrors(), "analysis diagnostics: %v", diags)

	out, err := Emit(ctx, prog)
	require.NoError(t, err)
	return out
}

func TestEmitSimpleFunction(t *testing.T) {
	got := compileToPython(t, `
fn add(a: int, b: int) -> int {
	return a + b
}
`)
	want := "def add(a, b):\n    return (a + b)\n"
	require.Equal(t, want, got)
}

func TestEmitEmptyBodyBecomesPass(t *testing.T) {
	got := compileToPython(t, `
fn f() -> int {
	if true {
	}
	return 0
}
`)
	want := "def f():\n    if True:\n        pass\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitIfElse(t *testing.T) {
	got := compileToPython(t, `
fn sign(x: int) -> int {
	if x < 0 {
		return 0 - 1
	} else {
		return 1
	}
}
`)
	want := "def sign(x):\n    if (x < 0):\n        return (0 - 1)\n    else:\n        return 1\n"
	require.Equal(t, want, got)
}

func TestEmitWhileLoop(t *testing.T) {
	got := compileToPython(t, `
fn countdown(n: int) -> int {
	while n > 0 {
		n = n - 1
	}
	return n
}
`)
	want := "def countdown(n):\n    while (n > 0):\n        n = (n - 1)\n    return n\n"
	require.Equal(t, want, got)
}

func TestEmitForRangeBecomesRangeCall(t *testing.T) {
	got := compileToPython(t, `
fn f() -> int {
	for i in 0..10 {
		print(i)
	}
	return 0
}
`)
	want := "def f():\n    for i in range(0, 10):\n        print(i)\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitForListIteration(t *testing.T) {
	got := compileToPython(t, `
fn f(xs: List[int]) -> int {
	for x in xs {
		print(x)
	}
	return 0
}
`)
	want := "def f(xs):\n    for x in xs:\n        print(x)\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitStructDeclIsDataclass(t *testing.T) {
	got := compileToPython(t, `
struct Point {
	x: int,
	y: int
}

fn origin() -> Point {
	return Point{x: 0, y: 0}
}
`)
	want := "from dataclasses import dataclass\n\n" +
		"@dataclass\nclass Point:\n    x: int\n    y: int\n\n" +
		"def origin():\n    return Point(x=0, y=0)\n"
	require.Equal(t, want, got)
}

func TestEmitEnumDeclIsPythonEnum(t *testing.T) {
	got := compileToPython(t, `
enum Color { Red, Green, Blue }

fn f() -> Color {
	return Color.Red
}
`)
	want := "from enum import Enum\n\n" +
		"class Color(Enum):\n    Red = \"Red\"\n    Green = \"Green\"\n    Blue = \"Blue\"\n\n" +
		"def f():\n    return Color.Red\n"
	require.Equal(t, want, got)
}

func TestEmitListAndDictLiterals(t *testing.T) {
	got := compileToPython(t, `
fn f() -> int {
	let xs: List[int] = [1, 2, 3]
	let d: Dict[str, int] = {"a": 1, "b": 2}
	return 0
}
`)
	want := "def f():\n    xs = [1, 2, 3]\n    d = {\"a\": 1, \"b\": 2}\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitPrintPlainArgsWithSepAndEnd(t *testing.T) {
	got := compileToPython(t, `
fn f() -> int {
	print(1, 2, sep=", ", end="!")
	return 0
}
`)
	want := "def f():\n    print(1, 2, sep=\", \", end=\"!\")\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitPrintFormatMode(t *testing.T) {
	got := compileToPython(t, `
fn f(name: str) -> int {
	print("hello, {}", name)
	return 0
}
`)
	want := "def f(name):\n    print(\"hello, {}\".format(name))\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitPushBecomesAppend(t *testing.T) {
	got := compileToPython(t, `
fn f() -> int {
	let xs: List[int] = [1]
	push(xs, 2)
	xs.push(3)
	return 0
}
`)
	want := "def f():\n    xs = [1]\n    xs.append(2)\n    xs.append(3)\n    return 0\n"
	require.Equal(t, want, got)
}

func TestEmitStringMethods(t *testing.T) {
	got := compileToPython(t, `
fn f(s: str) -> str {
	return s.trim()
}
`)
	want := "def f(s):\n    return s.strip()\n"
	require.Equal(t, want, got)
}

func TestEmitDictMethods(t *testing.T) {
	got := compileToPython(t, `
fn f(d: Dict[str, int]) -> bool {
	return d.has_key("x")
}
`)
	want := "def f(d):\n    return (\"x\" in d)\n"
	require.Equal(t, want, got)
}

func TestEmitUnaryAndLogical(t *testing.T) {
	got := compileToPython(t, `
fn f(a: bool, b: bool) -> bool {
	return !a && b
}
`)
	want := "def f(a, b):\n    return ((not a) and b)\n"
	require.Equal(t, want, got)
}

func TestEmitFloatLiteralKeepsTrailingDot(t *testing.T) {
	got := compileToPython(t, `
fn f() -> float {
	return 2.0
}
`)
	want := "def f():\n    return 2.0\n"
	require.Equal(t, want, got)
}

// stubResolver hands back fixed source text for any local import path,
// keyed by nothing more than its relative path turned into a fake
// canonical one; good enough for a single, non-recursive import in a test.
type stubResolver struct {
	text []byte
}

func (r stubResolver) Resolve(baseDir, relPath string) (text []byte, canonical string, err error) {
	return r.text, "/abs/" + relPath, nil
}

func TestEmitLocalImportUsesPathStem(t *testing.T) {
	ctx := context.Background()
	resolver := stubResolver{text: []byte("fn helper() -> int {\n\treturn 1\n}\n")}

	var compile semantic.ModuleCompiler
	compile = func(ctx context.Context, file string, text []byte, guard *semantic.ImportGuard) (*ast.Program, diag.Diagnostics) {
		toks, lexDiags := lexer.Lex(ctx, file, text)
		if lexDiags.HasErrors() {
			return nil, lexDiags
		}
		p := parser.New(toks)
		prog := p.ParseProgram(ctx)
		return semantic.Analyze(ctx, file, prog, resolver, compile, guard)
	}

	toks, lexDiags := lexer.Lex(ctx, "main.qsr", []byte(`
import "./helpers.qsr"

fn f() -> int {
	return 0
}
`))
	require.False(t, lexDiags.HasErrors())

	p := parser.New(toks)
	prog := p.ParseProgram(ctx)

	prog, diags := semantic.Analyze(ctx, "main.qsr", prog, resolver, compile, semantic.NewImportGuard())
	require.False(t, diags.HasErrors(), "analysis diagnostics: %v", diags)

	out, err := Emit(ctx, prog)
	require.NoError(t, err)
	require.Contains(t, out, "import helpers\n")
}
