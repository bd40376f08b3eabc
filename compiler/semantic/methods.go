package semantic

import (
	"context"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// methodSig is one entry in the primitive method dispatch registry: a
// family (Str/List/Dict), a fixed argument count, and a way to resolve its
// parameter and result types against the receiver's actual type
// parameters (spec.md §4.3, "generic parameters T, K, V... substituted
// with the receiver's actual type parameters at the call site").
type methodSig struct {
	params func(recv types.Type) []types.Type
	result func(recv types.Type) types.Type
}

var strMethods = map[string]methodSig{
	"len":         {params: noParams, result: constResult(types.Int)},
	"upper":       {params: noParams, result: constResult(types.Str)},
	"lower":       {params: noParams, result: constResult(types.Str)},
	"trim":        {params: noParams, result: constResult(types.Str)},
	"trim_start":  {params: noParams, result: constResult(types.Str)},
	"trim_end":    {params: noParams, result: constResult(types.Str)},
	"split":       {params: constParams(types.Str), result: constResult(types.List{Elem: types.Str})},
	"replace":     {params: constParams(types.Str, types.Str), result: constResult(types.Str)},
	"contains":    {params: constParams(types.Str), result: constResult(types.Bool)},
	"starts_with": {params: constParams(types.Str), result: constResult(types.Bool)},
	"ends_with":   {params: constParams(types.Str), result: constResult(types.Bool)},
	"to_int":      {params: noParams, result: constResult(types.Int)},
	"to_float":    {params: noParams, result: constResult(types.Float)},
}

var listMethods = map[string]methodSig{
	"len": {params: noParams, result: constResult(types.Int)},
	"push": {
		params: func(recv types.Type) []types.Type { return []types.Type{recv.(types.List).Elem} },
		result: constResult(types.Void),
	},
	"pop": {
		params: noParams,
		result: func(recv types.Type) types.Type { return recv.(types.List).Elem },
	},
	"contains": {
		params: func(recv types.Type) []types.Type { return []types.Type{recv.(types.List).Elem} },
		result: constResult(types.Bool),
	},
	"join":    {params: constParams(types.Str), result: constResult(types.Str)},
	"reverse": {params: noParams, result: constResult(types.Void)},
	"clear":   {params: noParams, result: constResult(types.Void)},
}

var dictMethods = map[string]methodSig{
	"len": {params: noParams, result: constResult(types.Int)},
	"has_key": {
		params: func(recv types.Type) []types.Type { return []types.Type{recv.(types.Dict).Key} },
		result: constResult(types.Bool),
	},
	"get": {
		params: func(recv types.Type) []types.Type {
			d := recv.(types.Dict)
			return []types.Type{d.Key, d.Value}
		},
		result: func(recv types.Type) types.Type { return recv.(types.Dict).Value },
	},
	"keys": {
		params: noParams,
		result: func(recv types.Type) types.Type { return types.List{Elem: recv.(types.Dict).Key} },
	},
	"values": {
		params: noParams,
		result: func(recv types.Type) types.Type { return types.List{Elem: recv.(types.Dict).Value} },
	},
	"remove": {
		params: func(recv types.Type) []types.Type { return []types.Type{recv.(types.Dict).Key} },
		result: constResult(types.Void),
	},
	"clear": {params: noParams, result: constResult(types.Void)},
}

func noParams(types.Type) []types.Type { return nil }

func constResult(t types.Type) func(types.Type) types.Type {
	return func(types.Type) types.Type { return t }
}

func constParams(ts ...types.Type) func(types.Type) []types.Type {
	return func(types.Type) []types.Type { return ts }
}

// analyzeMethodCall resolves `receiver.method(args)`. A receiver that is a
// bare identifier naming an imported local module is a qualified function
// call, not a primitive method call — the grammar shares one production
// for both (spec.md §9, "method-call vs member-access").
func (a *Analyzer) analyzeMethodCall(ctx context.Context, n *ast.MethodCallExpr) ast.Expr {
	if recv, ok := n.Receiver.(*ast.Ident); ok {
		if _, shadowed := a.scope.lookup(recv.Name); !shadowed {
			if modSym, ok := a.modules[recv.Name]; ok {
				return a.analyzeModuleCall(ctx, n, modSym)
			}
		}
	}

	n.Receiver = a.analyzeExpr(ctx, n.Receiver)
	recvType := exprType(n.Receiver)

	var table map[string]methodSig
	switch recvType.(type) {
	case types.Primitive:
		if p := recvType.(types.Primitive); p == types.Str {
			table = strMethods
		} else if p == types.Any {
			for i, arg := range n.Args {
				n.Args[i] = a.analyzeExpr(ctx, arg)
			}
			n.Type = types.Any
			return n
		}
	case types.List:
		table = listMethods
	case types.Dict:
		table = dictMethods
	}

	if table == nil {
		a.diags.Add(diag.EUnknownMethod, n.Span(), "%s has no method %q", recvType, n.Method)
		for i, arg := range n.Args {
			n.Args[i] = a.analyzeExpr(ctx, arg)
		}
		n.Type = types.Any
		return n
	}

	sig, ok := table[n.Method]
	if !ok {
		a.diags.Add(diag.EUnknownMethod, n.Span(), "%s has no method %q", recvType, n.Method)
		for i, arg := range n.Args {
			n.Args[i] = a.analyzeExpr(ctx, arg)
		}
		n.Type = types.Any
		return n
	}

	if n.Method == "join" {
		if lt, ok := recvType.(types.List); !ok || !types.Equal(lt.Elem, types.Str) {
			a.diags.Add(diag.EJoinNotStringList, n.Span(), "join requires a List[Str] receiver, got %s", recvType)
		}
	}

	wantParams := sig.params(recvType)
	if len(n.Args) != len(wantParams) {
		a.diags.Add(diag.EMethodArgCount, n.Span(), "%s.%s expects %d argument(s), got %d", recvType, n.Method, len(wantParams), len(n.Args))
	}
	for i, arg := range n.Args {
		var expect types.Type
		if i < len(wantParams) {
			expect = wantParams[i]
		}
		arg = a.analyzeExprExpect(ctx, arg, expect)
		n.Args[i] = arg
		if i >= len(wantParams) {
			continue
		}
		at := exprType(arg)
		if !types.Equal(at, wantParams[i]) {
			a.diags.Add(diag.EMethodArgType, arg.Span(), "%s.%s argument %d expects %s, got %s", recvType, n.Method, i+1, wantParams[i], at)
		}
	}

	n.Type = sig.result(recvType)
	return n
}

func (a *Analyzer) analyzeModuleCall(ctx context.Context, n *ast.MethodCallExpr, modSym *symbol) ast.Expr {
	for i, arg := range n.Args {
		n.Args[i] = a.analyzeExpr(ctx, arg)
	}

	if modSym.fields == nil {
		// Opaque Python module: any call accepts any arguments and
		// returns Any.
		n.Type = types.Any
		return n
	}

	ft, ok := modSym.fields[n.Method]
	if !ok {
		a.diags.Add(diag.EUnknownField, n.Span(), "module has no exported function %q", n.Method)
		n.Type = types.Any
		return n
	}
	fn, ok := ft.(types.Function)
	if !ok {
		a.diags.Add(diag.EUnknownField, n.Span(), "module member %q is not a function", n.Method)
		n.Type = types.Any
		return n
	}
	if len(n.Args) != len(fn.Params) {
		a.diags.Add(diag.EMethodArgCount, n.Span(), "%s expects %d argument(s), got %d", n.Method, len(fn.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		if i >= len(fn.Params) {
			break
		}
		if at := exprType(arg); !types.Equal(at, fn.Params[i]) {
			a.diags.Add(diag.EMethodArgType, arg.Span(), "argument %d of %q expects %s, got %s", i+1, n.Method, fn.Params[i], at)
		}
	}
	n.Type = fn.Result
	return n
}
