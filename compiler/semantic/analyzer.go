// Package semantic implements Quasar's validation stage: scope and type
// checking over a parsed tree, annotating every expression with its
// resolved type and emitting diagnostics with stable codes. Its traversal
// shape — one context struct threaded through recursive per-node-kind
// methods, diagnostics accumulated rather than returned early — follows the
// teacher's compiler/analyze.Analyze, generalized from a single-node
// dispatch into the full recursive-descent walk a typed surface language
// needs (spec.md §4.3).
package semantic

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// ImportResolver is the CLI-provided abstraction the analyzer uses to read
// local-file imports without touching the filesystem directly (spec.md
// §6: "an abstraction the CLI implements; the analyzer invokes it with a
// base directory and a relative path").
type ImportResolver interface {
	// Resolve returns the source text of the file at relPath, resolved
	// against baseDir, plus a canonical path suitable for de-duplication
	// and cycle detection.
	Resolve(baseDir, relPath string) (text []byte, canonical string, err error)
}

// ModuleCompiler recompiles a local-file import: lex, parse, and
// recursively analyze it, returning its validated tree and any
// diagnostics. It is supplied by the caller (compiler.go's facade) to
// avoid an import cycle between semantic and parser: semantic only needs
// to ask "give me the analyzed tree for this file", not perform lexing and
// parsing itself. guard is the same ImportGuard the caller's Analyzer is
// using, threaded through so the re-entrant compilation shares one
// per-top-level-compilation cycle-detection set rather than starting a
// fresh, blind one.
type ModuleCompiler func(ctx context.Context, file string, text []byte, guard *ImportGuard) (*ast.Program, diag.Diagnostics)

// ImportGuard tracks, across every file pulled in by one top-level
// compilation, which canonical paths are mid-analysis (import cycle guard)
// and which have already been fully analyzed (so a diamond-shaped import
// graph compiles each file once). A single ImportGuard must be shared by
// the top-level Analyzer and every Analyzer recursively created for its
// local imports — spec.md §5's "per-compilation set of canonicalized
// absolute paths guards against re-entry" only holds if that set outlives
// any single Analyzer.
type ImportGuard struct {
	inFlight  map[string]bool
	completed map[string]*ast.Program
}

// NewImportGuard creates an empty guard for one top-level compilation.
func NewImportGuard() *ImportGuard {
	return &ImportGuard{inFlight: map[string]bool{}, completed: map[string]*ast.Program{}}
}

// Analyzer holds the mutable state threaded through a single compilation
// unit's traversal: the top-level registries, the current scope stack, and
// the handful of per-function/per-loop flags spec.md §9 asks to be modeled
// as one struct rather than process-wide state.
type Analyzer struct {
	file string

	diags diag.Diagnostics

	structs map[string]*symbol
	enums   map[string]*symbol
	funcs   map[string]*symbol
	modules map[string]*symbol

	scope *scope

	// currentReturn is the enclosing function's declared return type, or
	// nil outside any function body (used for E0304).
	currentReturn types.Type
	loopDepth     int

	importer ImportResolver
	compile  ModuleCompiler
	baseDir  string
	guard    *ImportGuard
}

// New creates an Analyzer for a single file. importer and compile may both
// be nil if the file is known to contain no local-file imports (e.g. in
// tests); a local-file import encountered against a nil importer is
// reported as E0901. guard may be nil, in which case a fresh one is created — correct
// only when the file has no imports of its own or is being analyzed in
// isolation (e.g. in tests); a real multi-file compilation must pass the
// same guard to every recursively-created Analyzer, which is what
// ModuleCompiler does.
func New(file string, importer ImportResolver, compile ModuleCompiler, guard *ImportGuard) *Analyzer {
	if guard == nil {
		guard = NewImportGuard()
	}
	return &Analyzer{
		file:     file,
		baseDir:  filepath.Dir(file),
		structs:  map[string]*symbol{},
		enums:    map[string]*symbol{},
		funcs:    map[string]*symbol{},
		modules:  map[string]*symbol{},
		scope:    newScope(nil),
		importer: importer,
		compile:  compile,
		guard:    guard,
	}
}

// Analyze validates prog in place, annotating every expression node with
// its resolved type, and matches spec.md's `analyze(tree, importer) ->
// (AnnotatedTree, Diagnostics)` facade operation. guard is the shared
// cycle/completion tracker for the whole top-level compilation; pass nil
// only for a file known to need none (see New).
func Analyze(ctx context.Context, file string, prog *ast.Program, importer ImportResolver, compile ModuleCompiler, guard *ImportGuard) (*ast.Program, diag.Diagnostics) {
	a := New(file, importer, compile, guard)
	a.Run(ctx, prog)
	return prog, a.diags
}

// Run performs the full two-pass analysis: first every top-level
// declaration's signature is registered, struct and enum names before
// function signatures and imports (so mutually or forward referencing
// functions/structs/enums resolve regardless of textual order), then every
// struct's fields are resolved, and then the remaining bodies are checked.
func (a *Analyzer) Run(ctx context.Context, prog *ast.Program) {
	for _, item := range prog.Items {
		switch item.(type) {
		case *ast.StructDecl, *ast.EnumDecl:
			a.registerTopLevel(ctx, item)
		}
	}
	for _, item := range prog.Items {
		switch item.(type) {
		case *ast.StructDecl, *ast.EnumDecl:
		default:
			a.registerTopLevel(ctx, item)
		}
	}

	for _, item := range prog.Items {
		if _, ok := item.(*ast.StructDecl); ok {
			a.analyzeTopLevel(ctx, item)
		}
	}
	for _, item := range prog.Items {
		if _, ok := item.(*ast.StructDecl); !ok {
			a.analyzeTopLevel(ctx, item)
		}
	}

	tlog.SpanFromContext(ctx).Printw("analyze done", "file", a.file, "errors", len(a.diags))
}

func (a *Analyzer) registerTopLevel(ctx context.Context, item ast.Node) {
	switch d := item.(type) {
	case *ast.StructDecl:
		a.registerStruct(d)
	case *ast.EnumDecl:
		a.registerEnum(d)
	case *ast.FuncDecl:
		a.registerFuncSignature(d)
	case *ast.ImportDecl:
		a.registerImport(ctx, d)
	}
}

func (a *Analyzer) analyzeTopLevel(ctx context.Context, item ast.Node) {
	switch d := item.(type) {
	case *ast.StructDecl:
		a.analyzeStructFields(d)
	case *ast.EnumDecl:
		// Fully handled at registration time: an enum has no nested
		// type annotations to resolve.
	case *ast.FuncDecl:
		a.analyzeFuncBody(ctx, d)
	case *ast.ImportDecl:
		// Fully handled at registration time.
	case ast.Stmt:
		a.analyzeStmt(ctx, d)
	default:
		// Every Program item is a Decl or a Stmt; this is the parser
		// handing the analyzer a node shape it never produces at top
		// level, which is a parser/analyzer mismatch bug rather than
		// anything a caller can act on.
		tlog.SpanFromContext(ctx).Printw("unreachable top-level node", "type", tlog.FormatNext("%T"), d, "from", loc.Callers(1, 3))
	}
}

func (a *Analyzer) registerStruct(d *ast.StructDecl) {
	if _, exists := a.structs[d.Name]; exists {
		a.diags.Add(diag.EStructRedeclared, d.Span(), "struct %q already declared", d.Name)
		return
	}
	if _, exists := a.enums[d.Name]; exists {
		a.diags.Add(diag.EStructRedeclared, d.Span(), "%q already declared as an enum", d.Name)
		return
	}

	sym := &symbol{kind: symStruct, typ: types.Struct{Name: d.Name}, fields: map[string]types.Type{}}
	for _, f := range d.Fields {
		sym.order = append(sym.order, f.Name)
	}
	a.structs[d.Name] = sym
}

func (a *Analyzer) analyzeStructFields(d *ast.StructDecl) {
	sym := a.structs[d.Name]
	if sym == nil {
		return // redeclaration already reported
	}
	seen := map[string]bool{}
	for _, f := range d.Fields {
		if seen[f.Name] {
			a.diags.Add(diag.EStructFieldSet, d.Span(), "duplicate field %q in struct %q", f.Name, d.Name)
			continue
		}
		seen[f.Name] = true
		sym.fields[f.Name] = a.resolveTypeExpr(f.Type)
	}
}

func (a *Analyzer) registerEnum(d *ast.EnumDecl) {
	if _, exists := a.enums[d.Name]; exists {
		a.diags.Add(diag.EEnumRedeclared, d.Span(), "enum %q already declared", d.Name)
		return
	}
	if _, exists := a.structs[d.Name]; exists {
		a.diags.Add(diag.EEnumRedeclared, d.Span(), "%q already declared as a struct", d.Name)
		return
	}

	sym := &symbol{kind: symEnum, typ: types.Enum{Name: d.Name}, variants: map[string]bool{}}
	for _, v := range d.Variants {
		if sym.variants[v] {
			a.diags.Add(diag.EEnumDupVariant, d.Span(), "duplicate variant %q in enum %q", v, d.Name)
			continue
		}
		sym.variants[v] = true
		sym.order = append(sym.order, v)
	}
	a.enums[d.Name] = sym
}

func (a *Analyzer) registerFuncSignature(d *ast.FuncDecl) {
	if _, exists := a.funcs[d.Name]; exists {
		a.diags.Add(diag.EDuplicateDecl, d.Span(), "function %q already declared", d.Name)
		return
	}

	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		t := a.resolveTypeExpr(p.Type)
		params[i] = t
		d.ParamTypes = append(d.ParamTypes, t)
	}
	result := a.resolveTypeExpr(d.ReturnType)
	d.ResultType = result

	a.funcs[d.Name] = &symbol{kind: symFunc, typ: types.Function{Params: params, Result: result}}
}

// registerImport handles both `import ident` (opaque Python module) and
// `import "./path.qsr"` (recursive local compilation), per spec.md §4.3.
func (a *Analyzer) registerImport(ctx context.Context, d *ast.ImportDecl) {
	name := d.Name
	if !d.Python {
		name = moduleStem(d.Path)
	}

	if _, exists := a.modules[name]; exists {
		a.diags.Add(diag.EDuplicateImport, d.Span(), "module %q already imported", name)
		return
	}

	if d.Python {
		a.modules[name] = &symbol{kind: symModule, typ: types.Module{Name: name}}
		return
	}

	sym := &symbol{kind: symModule, typ: types.Module{Name: name}, fields: map[string]types.Type{}}
	a.modules[name] = sym

	if a.importer == nil {
		a.diags.Add(diag.EImportNotFound, d.Span(), "cannot resolve local import %q: no import resolver configured", d.Path)
		return
	}

	text, canonical, err := a.importer.Resolve(a.baseDir, d.Path)
	if err != nil {
		a.diags.Add(diag.EImportNotFound, d.Span(), "import %q: %v", d.Path, err)
		return
	}

	if a.guard.inFlight[canonical] {
		a.diags.Add(diag.ECircularImport, d.Span(), "circular import of %q", d.Path)
		return
	}

	if prog, ok := a.guard.completed[canonical]; ok {
		a.bindModuleExports(sym, prog)
		return
	}

	a.guard.inFlight[canonical] = true
	prog, subDiags := a.compile(ctx, canonical, text, a.guard)
	delete(a.guard.inFlight, canonical)

	for _, sd := range subDiags {
		// Imported-file diagnostics surface under the importing
		// declaration's span so a single top-level batch still pins
		// the reader to the statement that pulled in the failure,
		// while the message itself keeps the original file:line.
		a.diags.Add(sd.Code, d.Span(), "%s: %s", sd.Span, sd.Message)
	}

	if prog != nil {
		a.guard.completed[canonical] = prog
		a.bindModuleExports(sym, prog)
	}
}

func (a *Analyzer) bindModuleExports(sym *symbol, prog *ast.Program) {
	for _, item := range prog.Items {
		switch d := item.(type) {
		case *ast.FuncDecl:
			sym.fields[d.Name] = types.Function{Params: d.ParamTypes, Result: d.ResultType}
		case *ast.StructDecl:
			sym.fields[d.Name] = types.Struct{Name: d.Name}
		case *ast.EnumDecl:
			sym.fields[d.Name] = types.Enum{Name: d.Name}
		}
	}
}

func moduleStem(relPath string) string {
	base := path.Base(filepath.ToSlash(relPath))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
