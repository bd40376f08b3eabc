package semantic

import (
	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// resolveTypeExpr converts a syntactic type annotation into a resolved
// types.Type. A bare identifier is looked up in the enum registry first,
// then the struct registry, uniformly at every annotation site (spec.md
// §4.3, "User-defined type resolution").
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "int":
			return types.Int
		case "float":
			return types.Float
		case "bool":
			return types.Bool
		case "str":
			return types.Str
		}
		if sym, ok := a.enums[t.Name]; ok {
			return sym.typ
		}
		if sym, ok := a.structs[t.Name]; ok {
			return sym.typ
		}
		a.diags.Add(diag.EUnknownType, t.Span(), "unknown type %q", t.Name)
		return types.Any
	case *ast.ListTypeExpr:
		return types.List{Elem: a.resolveTypeExpr(t.Elem)}
	case *ast.DictTypeExpr:
		key := a.resolveTypeExpr(t.Key)
		if !types.IsHashable(key) {
			a.diags.Add(diag.EDictKeyType, t.Key.Span(), "dict key type must be int, str, or bool, got %s", key)
		}
		return types.Dict{Key: key, Value: a.resolveTypeExpr(t.Value)}
	default:
		return types.Any
	}
}
