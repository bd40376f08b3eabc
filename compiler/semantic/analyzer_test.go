package semantic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/lexer"
	"github.com/quasar-lang/quasar/compiler/parser"
	"github.com/quasar-lang/quasar/compiler/types"
)

// analyze lexes, parses, and analyzes src with no import resolver: tests in
// this file exercise single-file semantics and must not reach a local
// import.
func analyze(t *testing.T, src string) (*ast.Program, diag.Diagnostics) {
	t.Helper()
	toks, lexDiags := lexer.Lex(context.Background(), "t.qsr", []byte(src))
	require.False(t, lexDiags.HasErrors(), "lex diagnostics: %v", lexDiags)

	p := parser.New(toks)
	prog := p.ParseProgram(context.Background())

	return Analyze(context.Background(), "t.qsr", prog, nil, nil, nil)
}

func codes(diags diag.Diagnostics) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestAnalyzeValidFunctionProducesNoDiagnostics(t *testing.T) {
	_, diags := analyze(t, `
fn add(a: int, b: int) -> int {
	return a + b
}
`)
	assert.Empty(t, codes(diags))
}

func TestAnalyzeMissingReturnPath(t *testing.T) {
	_, diags := analyze(t, `
fn f(x: int) -> int {
	if x {
		return 1
	}
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EMissingReturn)
}

func TestAnalyzeIfElseBothReturningSatisfiesReturnPath(t *testing.T) {
	_, diags := analyze(t, `
fn f(x: bool) -> int {
	if x {
		return 1
	} else {
		return 0
	}
}
`)
	assert.Empty(t, codes(diags))
}

func TestAnalyzeUndeclaredIdentifier(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	return y
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EUnknownIdent)
}

func TestAnalyzeTypeMismatchOnVarDecl(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let x: int = "not an int"
	return x
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.ETypeMismatch)
}

func TestAnalyzeConstReassignmentRejected(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	const x: int = 1
	x = 2
	return x
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EConstRebind)
}

func TestAnalyzeLoopVariableReassignmentRejected(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	for i in 0..10 {
		i = 5
	}
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.ELoopVarReassigned)
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	break
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EBreakOutsideLoop)
}

func TestAnalyzeBreakInsideLoopIsFine(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	while true {
		break
	}
	return 0
}
`)
	assert.Empty(t, codes(diags))
}

func TestAnalyzeEmptyListLiteralNeedsContext(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	print([])
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EEmptyListNoType)
}

func TestAnalyzeEmptyListLiteralInferredFromVarDecl(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let xs: List[int] = []
	return len(xs)
}
`)
	assert.Empty(t, codes(diags))
}

func TestAnalyzeDictKeyMustBeHashable(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let d: Dict[float, int] = {1.0: 1}
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EDictKeyType)
}

func TestAnalyzeDictTypeAnnotationRejectsNonHashableKey(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let d: Dict[float, int] = {}
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EDictKeyType)
}

func TestAnalyzeListHeterogeneousElements(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let xs: List[int] = [1, "two", 3]
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EListHeterogeneous)
}

func TestAnalyzeStructFieldsAndInitializer(t *testing.T) {
	prog, diags := analyze(t, `
struct Point {
	x: int,
	y: int
}

fn origin() -> Point {
	return Point{x: 0, y: 0}
}
`)
	assert.Empty(t, codes(diags))

	fn := prog.Items[1].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	structInit := ret.Value.(*ast.StructInitExpr)
	if _, ok := structInit.Type.(types.Struct); !ok {
		t.Errorf("resolved type = %T, want types.Struct", structInit.Type)
	}
}

func TestAnalyzeStructInitMissingField(t *testing.T) {
	_, diags := analyze(t, `
struct Point {
	x: int,
	y: int
}

fn origin() -> Point {
	return Point{x: 0}
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EStructFieldSet)
}

func TestAnalyzeStructInitUnknownField(t *testing.T) {
	_, diags := analyze(t, `
struct Point {
	x: int,
	y: int
}

fn origin() -> Point {
	return Point{x: 0, y: 0, z: 0}
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EUnknownField)
}

func TestAnalyzeEnumVariantAccess(t *testing.T) {
	prog, diags := analyze(t, `
enum Color { Red, Green, Blue }

fn f() -> Color {
	return Color.Red
}
`)
	assert.Empty(t, codes(diags))

	fn := prog.Items[1].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	access, ok := ret.Value.(*ast.EnumAccessExpr)
	require.True(t, ok, "return value reclassified to EnumAccessExpr, got %T", ret.Value)
	assert.Equal(t, "Color", access.EnumName)
	assert.Equal(t, "Red", access.Variant)
}

func TestAnalyzeEnumUnknownVariant(t *testing.T) {
	_, diags := analyze(t, `
enum Color { Red, Green, Blue }

fn f() -> Color {
	return Color.Purple
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EUnknownVariant)
}

func TestAnalyzeEnumEqualityAcrossDistinctEnumsRejected(t *testing.T) {
	_, diags := analyze(t, `
enum Color { Red, Green }
enum Size { Small, Large }

fn f() -> bool {
	return Color.Red == Size.Small
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EEnumMismatch)
}

func TestAnalyzeBuiltinLenAcceptsListDictStr(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let xs: List[int] = [1, 2, 3]
	return len(xs) + len("abc")
}
`)
	assert.Empty(t, codes(diags))
}

func TestAnalyzeBuiltinPushArgTypeMismatch(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	let xs: List[int] = [1, 2, 3]
	push(xs, "nope")
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EMethodArgType)
}

func TestAnalyzeFunctionCallArgCountMismatch(t *testing.T) {
	_, diags := analyze(t, `
fn add(a: int, b: int) -> int {
	return a + b
}

fn f() -> int {
	return add(1)
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EMethodArgCount)
}

func TestAnalyzePrintFormatPlaceholderCountMismatch(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	print("{} and {}", 1)
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EFormatTooFew)
}

func TestAnalyzePrintRequiresAtLeastOneArg(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	print(sep=", ")
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EPrintNoArgs)
}

func TestAnalyzeForRangeAndListIterationVarTypes(t *testing.T) {
	prog, diags := analyze(t, `
fn f(xs: List[int]) -> int {
	for i in 0..10 {
		print(i)
	}
	for x in xs {
		print(x)
	}
	return 0
}
`)
	assert.Empty(t, codes(diags))

	fn := prog.Items[0].(*ast.FuncDecl)
	rangeFor := fn.Body.Stmts[0].(*ast.ForStmt)
	assert.Equal(t, types.Int, rangeFor.VarType)

	listFor := fn.Body.Stmts[1].(*ast.ForStmt)
	assert.Equal(t, types.Int, listFor.VarType)
}

func TestAnalyzeForOverNonIterableRejected(t *testing.T) {
	_, diags := analyze(t, `
fn f() -> int {
	for x in 5 {
		print(x)
	}
	return 0
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.ENotIterable)
}

func TestAnalyzeDuplicateStructDeclaration(t *testing.T) {
	_, diags := analyze(t, `
struct Point { x: int }
struct Point { y: int }
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EStructRedeclared)
}

func TestAnalyzeLocalImportWithoutResolverReportsNotFound(t *testing.T) {
	_, diags := analyze(t, `import "./other.qsr"`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EImportNotFound)
}

// selfImportResolver hands back a fixed source text for one canonical
// path, for a file that imports itself.
type selfImportResolver struct {
	canonical string
	text      []byte
}

func (r selfImportResolver) Resolve(baseDir, relPath string) (text []byte, canonical string, err error) {
	return r.text, r.canonical, nil
}

// TestAnalyzeCircularImportDetectedAcrossRecursiveCompile guards against a
// regression where each recursively-compiled import got its own fresh
// ImportGuard: without a guard shared across the whole top-level
// compilation, a self-import (or any deeper cycle) is never seen as
// in-flight by the re-entrant Analyzer and recurses without bound instead
// of reporting E0902.
func TestAnalyzeCircularImportDetectedAcrossRecursiveCompile(t *testing.T) {
	src := `import "./self.qsr"`
	resolver := selfImportResolver{canonical: "./self.qsr", text: []byte(src)}

	var compile ModuleCompiler
	compile = func(ctx context.Context, file string, text []byte, guard *ImportGuard) (*ast.Program, diag.Diagnostics) {
		toks, lexDiags := lexer.Lex(ctx, file, text)
		if lexDiags.HasErrors() {
			return nil, lexDiags
		}
		p := parser.New(toks)
		prog := p.ParseProgram(ctx)
		return Analyze(ctx, file, prog, resolver, compile, guard)
	}

	toks, lexDiags := lexer.Lex(context.Background(), "root.qsr", []byte(src))
	require.False(t, lexDiags.HasErrors())
	p := parser.New(toks)
	prog := p.ParseProgram(context.Background())

	_, diags := Analyze(context.Background(), "root.qsr", prog, resolver, compile, NewImportGuard())
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.ECircularImport)
}

func TestAnalyzeStringMethodCallResolvesGenericResult(t *testing.T) {
	prog, diags := analyze(t, `
fn f(s: str) -> List[str] {
	return s.split(",")
}
`)
	assert.Empty(t, codes(diags))

	fn := prog.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.MethodCallExpr)
	listType, ok := call.Type.(types.List)
	require.True(t, ok, "call type = %T, want types.List", call.Type)
	assert.Equal(t, types.Str, listType.Elem)
}

func TestAnalyzeUnknownMethodOnReceiver(t *testing.T) {
	_, diags := analyze(t, `
fn f(s: str) -> str {
	return s.frobnicate()
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EUnknownMethod)
}

func TestAnalyzeListPopResolvesElementType(t *testing.T) {
	prog, diags := analyze(t, `
fn f(xs: List[int]) -> int {
	return xs.pop()
}
`)
	assert.Empty(t, codes(diags))

	fn := prog.Items[0].(*ast.FuncDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Value.(*ast.MethodCallExpr)
	assert.Equal(t, types.Int, call.Type)
}

func TestAnalyzeJoinRequiresStringList(t *testing.T) {
	_, diags := analyze(t, `
fn f(xs: List[int]) -> str {
	return xs.join(",")
}
`)
	require.NotEmpty(t, diags)
	assert.Contains(t, codes(diags), diag.EJoinNotStringList)
}
