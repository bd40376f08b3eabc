package semantic

import (
	"context"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// analyzeCall resolves `callee(args)`. Only a bare-identifier callee is
// callable: a builtin (intercepted here rather than looked up as a symbol)
// or a user-declared function; any other callee expression is reported as
// not callable. Qualified calls (`mod.f(...)`, `list.push(...)`) parse
// directly as MethodCallExpr.
func (a *Analyzer) analyzeCall(ctx context.Context, n *ast.CallExpr) ast.Expr {
	ident, ok := n.Callee.(*ast.Ident)
	if !ok {
		a.diags.Add(diag.EUnknownIdent, n.Span(), "expression is not callable")
		for i, arg := range n.Args {
			n.Args[i] = a.analyzeExpr(ctx, arg)
		}
		n.Type = types.Any
		return n
	}

	if builtinFuncs[ident.Name] {
		return a.analyzeBuiltinCall(ctx, n, ident.Name)
	}

	sym, ok := a.funcs[ident.Name]
	if !ok {
		a.diags.Add(diag.EUnknownIdent, n.Span(), "undeclared function %q", ident.Name)
		for i, arg := range n.Args {
			n.Args[i] = a.analyzeExpr(ctx, arg)
		}
		n.Type = types.Any
		return n
	}

	fn := sym.typ.(types.Function)
	if len(n.Args) != len(fn.Params) {
		a.diags.Add(diag.EMethodArgCount, n.Span(), "%s expects %d argument(s), got %d", ident.Name, len(fn.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		var expect types.Type
		if i < len(fn.Params) {
			expect = fn.Params[i]
		}
		arg = a.analyzeExprExpect(ctx, arg, expect)
		n.Args[i] = arg
		if i >= len(fn.Params) {
			continue
		}
		if at := exprType(arg); !types.Equal(at, fn.Params[i]) {
			a.diags.Add(diag.EMethodArgType, arg.Span(), "argument %d of %q expects %s, got %s", i+1, ident.Name, fn.Params[i], at)
		}
	}
	n.Type = fn.Result
	return n
}

// analyzeBuiltinCall handles the nine global functions spec.md §4.3
// intercepts by name rather than treating as ordinary symbols: len, push,
// keys, values, input, and the four casts.
func (a *Analyzer) analyzeBuiltinCall(ctx context.Context, n *ast.CallExpr, name string) ast.Expr {
	for i, arg := range n.Args {
		n.Args[i] = a.analyzeExpr(ctx, arg)
	}

	argType := func(i int) types.Type {
		if i < len(n.Args) {
			return exprType(n.Args[i])
		}
		return types.Any
	}

	switch name {
	case "len":
		if len(n.Args) != 1 {
			a.diags.Add(diag.EMethodArgCount, n.Span(), "len expects 1 argument, got %d", len(n.Args))
		}
		switch argType(0).(type) {
		case types.List, types.Dict:
		default:
			if at := argType(0); !types.Equal(at, types.Str) && !isAnyPair(at, at) {
				a.diags.Add(diag.EMethodArgType, n.Span(), "len expects a list, dict, or str, got %s", at)
			}
		}
		n.Type = types.Int
	case "push":
		if len(n.Args) != 2 {
			a.diags.Add(diag.EMethodArgCount, n.Span(), "push expects 2 arguments, got %d", len(n.Args))
			n.Type = types.Void
			return n
		}
		lt, ok := argType(0).(types.List)
		if !ok {
			a.diags.Add(diag.EMethodArgType, n.Span(), "push expects a list receiver, got %s", argType(0))
			n.Type = types.Void
			return n
		}
		if at := argType(1); !types.Equal(at, lt.Elem) {
			a.diags.Add(diag.EMethodArgType, n.Span(), "push expects %s, got %s", lt.Elem, at)
		}
		n.Type = types.Void
	case "keys":
		dt, ok := argType(0).(types.Dict)
		if !ok {
			a.diags.Add(diag.EMethodArgType, n.Span(), "keys expects a dict, got %s", argType(0))
			n.Type = types.Any
			return n
		}
		n.Type = types.List{Elem: dt.Key}
	case "values":
		dt, ok := argType(0).(types.Dict)
		if !ok {
			a.diags.Add(diag.EMethodArgType, n.Span(), "values expects a dict, got %s", argType(0))
			n.Type = types.Any
			return n
		}
		n.Type = types.List{Elem: dt.Value}
	case "input":
		if len(n.Args) > 1 {
			a.diags.Add(diag.EInputArgCount, n.Span(), "input expects 0 or 1 argument, got %d", len(n.Args))
		}
		if len(n.Args) == 1 {
			if at := argType(0); !types.Equal(at, types.Str) {
				a.diags.Add(diag.EInputArgType, n.Span(), "input's prompt must be Str, got %s", at)
			}
		}
		n.Type = types.Str
	case "int", "float", "str", "bool":
		if len(n.Args) != 1 {
			a.diags.Add(diag.ECastArgCount, n.Span(), "%s expects exactly 1 argument, got %d", name, len(n.Args))
		} else if at := argType(0); !types.IsPrintable(at) && !isAnyPair(at, at) {
			a.diags.Add(diag.EMethodArgType, n.Span(), "%s expects a printable argument, got %s", name, at)
		}
		switch name {
		case "int":
			n.Type = types.Int
		case "float":
			n.Type = types.Float
		case "str":
			n.Type = types.Str
		case "bool":
			n.Type = types.Bool
		}
	}
	return n
}
