package semantic

import (
	"context"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// builtinFuncs are intercepted during call analysis rather than looked up
// as ordinary function symbols (spec.md §4.3, "Built-in functions").
var builtinFuncs = map[string]bool{
	"len": true, "push": true, "keys": true, "values": true,
	"input": true, "int": true, "float": true, "str": true, "bool": true,
}

// analyzeExpr checks e, annotates it (or its replacement — member access on
// a declared enum is reclassified into an EnumAccessExpr here) with its
// resolved type, and returns the node that should occupy e's slot in the
// tree from now on.
func (a *Analyzer) analyzeExpr(ctx context.Context, e ast.Expr) ast.Expr {
	return a.analyzeExprExpect(ctx, e, nil)
}

// analyzeExprExpect is analyzeExpr with an optional expected type, used
// only to resolve an empty list/dict literal's element type from context
// (spec.md's resolution of the empty-collection Open Question).
func (a *Analyzer) analyzeExprExpect(ctx context.Context, e ast.Expr, expected types.Type) ast.Expr {
	switch n := e.(type) {
	case *ast.IntLit:
		n.Type = types.Int
		return n
	case *ast.FloatLit:
		n.Type = types.Float
		return n
	case *ast.BoolLit:
		n.Type = types.Bool
		return n
	case *ast.StringLit:
		n.Type = types.Str
		return n
	case *ast.Ident:
		return a.analyzeIdent(n)
	case *ast.ListLit:
		return a.analyzeListLit(ctx, n, expected)
	case *ast.DictLit:
		return a.analyzeDictLit(ctx, n, expected)
	case *ast.RangeExpr:
		a.diags.Add(diag.ERangeOutsideFor, n.Span(), "range expression only allowed as a for-loop's iterable")
		n.Start = a.analyzeExpr(ctx, n.Start)
		n.End = a.analyzeExpr(ctx, n.End)
		n.Type = types.Int
		return n
	case *ast.BinaryExpr:
		return a.analyzeBinary(ctx, n)
	case *ast.UnaryExpr:
		return a.analyzeUnary(ctx, n)
	case *ast.CallExpr:
		return a.analyzeCall(ctx, n)
	case *ast.MethodCallExpr:
		return a.analyzeMethodCall(ctx, n)
	case *ast.MemberExpr:
		return a.analyzeMember(ctx, n)
	case *ast.IndexExpr:
		return a.analyzeIndex(ctx, n)
	case *ast.StructInitExpr:
		return a.analyzeStructInit(ctx, n)
	case *ast.EnumAccessExpr:
		if sym, ok := a.enums[n.EnumName]; ok {
			n.Type = sym.typ
		} else {
			n.Type = types.Any
		}
		return n
	default:
		return n
	}
}

func (a *Analyzer) analyzeIdent(n *ast.Ident) ast.Expr {
	if sym, ok := a.scope.lookup(n.Name); ok {
		n.Type = sym.typ
		return n
	}
	a.diags.Add(diag.EUnknownIdent, n.Span(), "undeclared identifier %q", n.Name)
	n.Type = types.Any
	return n
}

func (a *Analyzer) analyzeListLit(ctx context.Context, n *ast.ListLit, expected types.Type) ast.Expr {
	expElem, hasExpected := types.Type(nil), false
	if lt, ok := expected.(types.List); ok {
		expElem, hasExpected = lt.Elem, true
	}

	if len(n.Elems) == 0 {
		if hasExpected {
			n.Type = types.List{Elem: expElem}
		} else {
			a.diags.Add(diag.EEmptyListNoType, n.Span(), "empty list literal requires an explicit element type from context")
			n.Type = types.List{Elem: types.Any}
		}
		return n
	}

	var elemType types.Type
	for i, el := range n.Elems {
		el = a.analyzeExprExpect(ctx, el, expElem)
		n.Elems[i] = el
		et := exprType(el)
		if i == 0 {
			elemType = et
			continue
		}
		if !types.Equal(elemType, et) {
			a.diags.Add(diag.EListHeterogeneous, el.Span(), "list elements must share a type: found %s after %s", et, elemType)
		}
	}
	n.Type = types.List{Elem: elemType}
	return n
}

func (a *Analyzer) analyzeDictLit(ctx context.Context, n *ast.DictLit, expected types.Type) ast.Expr {
	expKey, expVal, hasExpected := types.Type(nil), types.Type(nil), false
	if dt, ok := expected.(types.Dict); ok {
		expKey, expVal, hasExpected = dt.Key, dt.Value, true
	}

	if len(n.Pairs) == 0 {
		if hasExpected {
			n.Type = types.Dict{Key: expKey, Value: expVal}
		} else {
			a.diags.Add(diag.EEmptyListNoType, n.Span(), "empty dict literal requires an explicit key/value type from context")
			n.Type = types.Dict{Key: types.Any, Value: types.Any}
		}
		return n
	}

	var keyType, valType types.Type
	for i := range n.Pairs {
		k := a.analyzeExprExpect(ctx, n.Pairs[i].Key, expKey)
		n.Pairs[i].Key = k
		v := a.analyzeExprExpect(ctx, n.Pairs[i].Value, expVal)
		n.Pairs[i].Value = v

		kt, vt := exprType(k), exprType(v)
		if !types.IsHashable(kt) {
			a.diags.Add(diag.EDictKeyType, k.Span(), "dict key type must be int, str, or bool, got %s", kt)
		}
		if i == 0 {
			keyType, valType = kt, vt
			continue
		}
		if !types.Equal(keyType, kt) || !types.Equal(valType, vt) {
			a.diags.Add(diag.EDictHeterogeneous, n.Pairs[i].Key.Span(), "dict entries must share key/value types")
		}
	}
	n.Type = types.Dict{Key: keyType, Value: valType}
	return n
}

func (a *Analyzer) analyzeBinary(ctx context.Context, n *ast.BinaryExpr) ast.Expr {
	n.Left = a.analyzeExpr(ctx, n.Left)
	n.Right = a.analyzeExpr(ctx, n.Right)
	lt, rt := exprType(n.Left), exprType(n.Right)

	if n.Op != ast.EqOp && n.Op != ast.NotEqOp && (isEnumType(lt) || isEnumType(rt)) {
		a.diags.Add(diag.EEnumNonEquality, n.Span(), "enum operands only support == and !=, got %s and %s", lt, rt)
		n.Type = types.Any
		return n
	}

	switch n.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div, ast.Mod:
		if n.Op == ast.Add && types.Equal(lt, types.Str) && types.Equal(rt, types.Str) {
			n.Type = types.Str
			return n
		}
		if types.IsNumeric(lt) && types.Equal(lt, rt) {
			n.Type = lt
			return n
		}
		if !isAnyPair(lt, rt) {
			a.diags.Add(diag.EArithMismatch, n.Span(), "arithmetic requires matching Int or Float operands, got %s and %s", lt, rt)
		}
		n.Type = lt
		return n
	case ast.EqOp, ast.NotEqOp:
		if isEnumType(lt) || isEnumType(rt) {
			if !types.Equal(lt, rt) {
				a.diags.Add(diag.EEnumMismatch, n.Span(), "cannot compare distinct enums %s and %s", lt, rt)
			}
		} else if !types.Equal(lt, rt) {
			a.diags.Add(diag.ETypeMismatch, n.Span(), "equality requires matching operand types, got %s and %s", lt, rt)
		}
		n.Type = types.Bool
		return n
	case ast.Lt, ast.Gt, ast.Le, ast.Ge:
		if !((types.Equal(lt, types.Int) && types.Equal(rt, types.Int)) ||
			(types.Equal(lt, types.Float) && types.Equal(rt, types.Float)) ||
			isAnyPair(lt, rt)) {
			a.diags.Add(diag.EOrderMismatch, n.Span(), "ordering requires matching Int or Float operands, got %s and %s", lt, rt)
		}
		n.Type = types.Bool
		return n
	case ast.LogAnd, ast.LogOr:
		if !types.Equal(lt, types.Bool) || !types.Equal(rt, types.Bool) {
			a.diags.Add(diag.ELogicalMismatch, n.Span(), "logical operators require Bool operands, got %s and %s", lt, rt)
		}
		n.Type = types.Bool
		return n
	default:
		n.Type = types.Any
		return n
	}
}

func isAnyPair(a, b types.Type) bool {
	ap, aok := a.(types.Primitive)
	bp, bok := b.(types.Primitive)
	return (aok && ap == types.Any) || (bok && bp == types.Any)
}

func isEnumType(t types.Type) bool {
	_, ok := t.(types.Enum)
	return ok
}

func (a *Analyzer) analyzeUnary(ctx context.Context, n *ast.UnaryExpr) ast.Expr {
	n.Operand = a.analyzeExpr(ctx, n.Operand)
	ot := exprType(n.Operand)

	switch n.Op {
	case ast.Neg:
		if !types.IsNumeric(ot) && !isAnyPair(ot, ot) {
			a.diags.Add(diag.EArithMismatch, n.Span(), "unary - requires Int or Float, got %s", ot)
		}
		n.Type = ot
	case ast.LogNot:
		if !types.Equal(ot, types.Bool) {
			a.diags.Add(diag.ELogicalMismatch, n.Span(), "unary ! requires Bool, got %s", ot)
		}
		n.Type = types.Bool
	}
	return n
}

func (a *Analyzer) analyzeIndex(ctx context.Context, n *ast.IndexExpr) ast.Expr {
	n.Receiver = a.analyzeExpr(ctx, n.Receiver)
	n.Index = a.analyzeExpr(ctx, n.Index)
	rt := exprType(n.Receiver)
	it := exprType(n.Index)

	switch recv := rt.(type) {
	case types.List:
		if !types.Equal(it, types.Int) {
			a.diags.Add(diag.EIndexType, n.Index.Span(), "list index must be Int, got %s", it)
		}
		n.Type = recv.Elem
	case types.Dict:
		if !types.Equal(it, recv.Key) {
			a.diags.Add(diag.EIndexType, n.Index.Span(), "dict key must be %s, got %s", recv.Key, it)
		}
		n.Type = recv.Value
	case types.Primitive:
		if recv == types.Any {
			n.Type = types.Any
			return n
		}
		a.diags.Add(diag.ENotIndexable, n.Span(), "%s is not indexable", rt)
		n.Type = types.Any
	default:
		a.diags.Add(diag.ENotIndexable, n.Span(), "%s is not indexable", rt)
		n.Type = types.Any
	}
	return n
}

// analyzeMember resolves `receiver.field`. When the receiver is a bare
// identifier naming a declared enum, the access is reclassified into an
// EnumAccessExpr (spec.md §4.3: "parsed as member access, reclassified
// during analysis when the receiver names an enum").
func (a *Analyzer) analyzeMember(ctx context.Context, n *ast.MemberExpr) ast.Expr {
	if recv, ok := n.Receiver.(*ast.Ident); ok {
		if _, shadowed := a.scope.lookup(recv.Name); !shadowed {
			if enumSym, ok := a.enums[recv.Name]; ok {
				if !enumSym.variants[n.Field] {
					a.diags.Add(diag.EUnknownVariant, n.Span(), "enum %q has no variant %q", recv.Name, n.Field)
				}
				ea := &ast.EnumAccessExpr{ExprBase: n.ExprBase, EnumName: recv.Name, Variant: n.Field}
				ea.Type = enumSym.typ
				return ea
			}
			if modSym, ok := a.modules[recv.Name]; ok {
				return a.analyzeModuleMember(n, modSym)
			}
		}
	}

	n.Receiver = a.analyzeExpr(ctx, n.Receiver)
	rt := exprType(n.Receiver)

	st, ok := rt.(types.Struct)
	if !ok {
		if p, ok := rt.(types.Primitive); ok && p == types.Any {
			n.Type = types.Any
			return n
		}
		a.diags.Add(diag.EUnknownField, n.Span(), "%s has no field %q", rt, n.Field)
		n.Type = types.Any
		return n
	}

	structSym := a.structs[st.Name]
	ft, ok := structSym.fields[n.Field]
	if !ok {
		a.diags.Add(diag.EUnknownField, n.Span(), "struct %q has no field %q", st.Name, n.Field)
		n.Type = types.Any
		return n
	}
	n.Type = ft
	return n
}

func (a *Analyzer) analyzeModuleMember(n *ast.MemberExpr, modSym *symbol) ast.Expr {
	if modSym.fields == nil {
		// Opaque Python module: any member access returns Any.
		n.Type = types.Any
		return n
	}
	t, ok := modSym.fields[n.Field]
	if !ok {
		a.diags.Add(diag.EUnknownField, n.Span(), "module has no exported member %q", n.Field)
		n.Type = types.Any
		return n
	}
	n.Type = t
	return n
}

func (a *Analyzer) analyzeStructInit(ctx context.Context, n *ast.StructInitExpr) ast.Expr {
	structSym, ok := a.structs[n.TypeName]
	if !ok {
		a.diags.Add(diag.EUnknownType, n.Span(), "unknown struct %q", n.TypeName)
		n.Type = types.Any
		for i := range n.Fields {
			n.Fields[i].Value = a.analyzeExpr(ctx, n.Fields[i].Value)
		}
		return n
	}

	given := map[string]bool{}
	for i := range n.Fields {
		f := &n.Fields[i]
		ft, declared := structSym.fields[f.Name]
		if !declared {
			a.diags.Add(diag.EUnknownField, n.Span(), "struct %q has no field %q", n.TypeName, f.Name)
			f.Value = a.analyzeExpr(ctx, f.Value)
			continue
		}
		if given[f.Name] {
			a.diags.Add(diag.EStructFieldSet, n.Span(), "duplicate field %q in initializer", f.Name)
		}
		given[f.Name] = true

		f.Value = a.analyzeExprExpect(ctx, f.Value, ft)
		vt := exprType(f.Value)
		if !types.Equal(vt, ft) {
			a.diags.Add(diag.EStructFieldType, f.Value.Span(), "field %q expects %s, got %s", f.Name, ft, vt)
		}
	}

	for _, name := range structSym.order {
		if !given[name] {
			a.diags.Add(diag.EStructFieldSet, n.Span(), "missing field %q in initializer for %q", name, n.TypeName)
		}
	}

	n.Type = structSym.typ
	return n
}

// exprType reads back an already-analyzed expression's resolved type. It
// never panics: before analysis the type is nil, and a node kind not
// listed here reads as Any.
func exprType(e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Type
	case *ast.FloatLit:
		return n.Type
	case *ast.StringLit:
		return n.Type
	case *ast.BoolLit:
		return n.Type
	case *ast.Ident:
		return n.Type
	case *ast.ListLit:
		return n.Type
	case *ast.DictLit:
		return n.Type
	case *ast.RangeExpr:
		return n.Type
	case *ast.BinaryExpr:
		return n.Type
	case *ast.UnaryExpr:
		return n.Type
	case *ast.CallExpr:
		return n.Type
	case *ast.MethodCallExpr:
		return n.Type
	case *ast.MemberExpr:
		return n.Type
	case *ast.IndexExpr:
		return n.Type
	case *ast.StructInitExpr:
		return n.Type
	case *ast.EnumAccessExpr:
		return n.Type
	default:
		return types.Any
	}
}

