// Package emit implements Quasar's final pipeline stage: a validated tree
// in, Python 3.10+ source text out. Its tree-walk and allocation style —
// append into a growing []byte with hfmt.Appendf rather than build a
// string through fmt.Sprintf concatenation — follows the teacher's
// compiler/format.Format, generalized from Go source back out to its own
// target dialect (spec.md §4.4).
package emit

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/tlog"

	"github.com/quasar-lang/quasar/compiler/ast"
)

const indentUnit = "    "

// Emit renders prog as Python source text, matching spec.md's
// `emit(tree) -> String` facade operation. prog must already be validated
// by compiler/semantic: every expression node is expected to carry its
// resolved type.
func Emit(ctx context.Context, prog *ast.Program) (string, error) {
	b, err := emitProgram(ctx, nil, prog)
	if err != nil {
		return "", errors.Wrap(err, "emit")
	}

	tlog.SpanFromContext(ctx).Printw("emit done", "bytes", len(b))

	return string(b), nil
}

func emitProgram(ctx context.Context, b []byte, prog *ast.Program) ([]byte, error) {
	hasStruct, hasEnum := false, false
	for _, item := range prog.Items {
		switch item.(type) {
		case *ast.StructDecl:
			hasStruct = true
		case *ast.EnumDecl:
			hasEnum = true
		}
	}

	if hasStruct {
		b = app(b, 0, "from dataclasses import dataclass\n")
	}
	if hasEnum {
		b = app(b, 0, "from enum import Enum\n")
	}

	for _, item := range prog.Items {
		if imp, ok := item.(*ast.ImportDecl); ok {
			b = emitImport(b, imp)
		}
	}

	if hasStruct || hasEnum {
		b = append(b, '\n')
	}

	first := true
	for _, item := range prog.Items {
		if _, ok := item.(*ast.ImportDecl); ok {
			continue
		}

		if !first {
			b = append(b, '\n')
		}
		first = false

		var err error
		b, err = emitTopLevel(ctx, b, item)
		if err != nil {
			return nil, errors.Wrap(err, "top level")
		}
	}

	return b, nil
}

// emitImport renders both import forms identically in Python: a bare
// `import name`. For a local file import, name is the path's stem — "x"
// for "./x.qsr" — never the quoted relative path (spec.md §4.4's preamble
// rule).
func emitImport(b []byte, d *ast.ImportDecl) []byte {
	name := d.Name
	if !d.Python {
		name = pathStem(d.Path)
	}
	return app(b, 0, "import %s\n", name)
}

func pathStem(relPath string) string {
	base := relPath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			return base[:i]
		}
	}
	return base
}

func emitTopLevel(ctx context.Context, b []byte, item ast.Node) ([]byte, error) {
	switch d := item.(type) {
	case *ast.FuncDecl:
		return emitFuncDecl(ctx, b, d)
	case *ast.StructDecl:
		return emitStructDecl(b, d), nil
	case *ast.EnumDecl:
		return emitEnumDecl(b, d), nil
	case ast.Stmt:
		return emitStmt(ctx, b, d, 0)
	default:
		return nil, errors.New("unsupported top-level node: %T", d)
	}
}

func emitFuncDecl(ctx context.Context, b []byte, d *ast.FuncDecl) ([]byte, error) {
	b = app(b, 0, "def %s(", d.Name)
	for i, p := range d.Params {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = append(b, p.Name...)
	}
	b = append(b, "):\n"...)

	var err error
	b, err = emitBlockBody(ctx, b, d.Body, 1)
	if err != nil {
		return nil, errors.Wrap(err, "func %s", d.Name)
	}
	return b, nil
}

func emitStructDecl(b []byte, d *ast.StructDecl) []byte {
	b = app(b, 0, "@dataclass\nclass %s:\n", d.Name)
	if len(d.Fields) == 0 {
		return app(b, 1, "pass\n")
	}
	for _, f := range d.Fields {
		b = app(b, 1, "%s: %s\n", f.Name, pyAnnotation(f.Type))
	}
	return b
}

// pyAnnotation renders a type annotation's Python spelling: the four
// primitive keywords translate to their Python names, List/Dict become
// the builtin generic aliases Python 3.9+ supports, and a user-declared
// struct or enum name is emitted bare (spec.md §4.4).
func pyAnnotation(te ast.TypeExpr) string {
	switch t := te.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "int", "float", "bool", "str":
			return t.Name
		default:
			return t.Name
		}
	case *ast.ListTypeExpr:
		return fmt.Sprintf("list[%s]", pyAnnotation(t.Elem))
	case *ast.DictTypeExpr:
		return fmt.Sprintf("dict[%s, %s]", pyAnnotation(t.Key), pyAnnotation(t.Value))
	default:
		return "object"
	}
}

func emitEnumDecl(b []byte, d *ast.EnumDecl) []byte {
	b = app(b, 0, "class %s(Enum):\n", d.Name)
	if len(d.Variants) == 0 {
		return app(b, 1, "pass\n")
	}
	for _, v := range d.Variants {
		b = app(b, 1, "%s = %q\n", v, v)
	}
	return b
}

// emitBlockBody emits a block's statements at depth d, substituting `pass`
// for an empty body (spec.md §4.4: "Blocks never emit empty bodies").
func emitBlockBody(ctx context.Context, b []byte, blk *ast.Block, d int) ([]byte, error) {
	if len(blk.Stmts) == 0 {
		return app(b, d, "pass\n"), nil
	}

	var err error
	for _, s := range blk.Stmts {
		b, err = emitStmt(ctx, b, s, d)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func emitStmt(ctx context.Context, b []byte, s ast.Stmt, d int) ([]byte, error) {
	switch n := s.(type) {
	case *ast.VarDecl:
		b = app(b, d, "%s = ", n.Name)
		b = emitExpr(b, n.Init)
		return append(b, '\n'), nil
	case *ast.AssignStmt:
		b = app(b, d, "")
		b = emitExpr(b, n.Target)
		b = append(b, " = "...)
		b = emitExpr(b, n.Value)
		return append(b, '\n'), nil
	case *ast.ExprStmt:
		b = app(b, d, "")
		b = emitExpr(b, n.X)
		return append(b, '\n'), nil
	case *ast.PrintStmt:
		return emitPrint(b, n, d), nil
	case *ast.IfStmt:
		return emitIf(ctx, b, n, d)
	case *ast.WhileStmt:
		b = app(b, d, "while ")
		b = emitExpr(b, n.Cond)
		b = append(b, ":\n"...)
		return emitBlockBody(ctx, b, n.Body, d+1)
	case *ast.ForStmt:
		return emitFor(ctx, b, n, d)
	case *ast.BreakStmt:
		return app(b, d, "break\n"), nil
	case *ast.ContinueStmt:
		return app(b, d, "continue\n"), nil
	case *ast.ReturnStmt:
		b = app(b, d, "return ")
		b = emitExpr(b, n.Value)
		return append(b, '\n'), nil
	default:
		return nil, errors.New("unsupported statement: %T", s)
	}
}

func emitIf(ctx context.Context, b []byte, n *ast.IfStmt, d int) ([]byte, error) {
	b = app(b, d, "if ")
	b = emitExpr(b, n.Cond)
	b = append(b, ":\n"...)

	var err error
	b, err = emitBlockBody(ctx, b, n.Then, d+1)
	if err != nil {
		return nil, err
	}

	if n.Else != nil {
		b = app(b, d, "else:\n")
		b, err = emitBlockBody(ctx, b, n.Else, d+1)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func emitFor(ctx context.Context, b []byte, n *ast.ForStmt, d int) ([]byte, error) {
	if rng, ok := n.Iterable.(*ast.RangeExpr); ok {
		b = app(b, d, "for %s in range(", n.Var)
		b = emitExpr(b, rng.Start)
		b = append(b, ", "...)
		b = emitExpr(b, rng.End)
		b = append(b, "):\n"...)
	} else {
		b = app(b, d, "for %s in ", n.Var)
		b = emitExpr(b, n.Iterable)
		b = append(b, ":\n"...)
	}
	return emitBlockBody(ctx, b, n.Body, d+1)
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, indentUnit...)
	}
	return hfmt.Appendf(b, f, args...)
}

func boolLit(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
