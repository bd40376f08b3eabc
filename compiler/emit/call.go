package emit

import "github.com/quasar-lang/quasar/compiler/ast"

// emitCall renders a bare-identifier call: one of the nine intercepted
// builtins, or an ordinary user function (spec.md §4.4's mapping table —
// len/int/float/str/bool/input emit identically; push/keys/values take
// their own shape).
func emitCall(b []byte, n *ast.CallExpr) []byte {
	ident, ok := n.Callee.(*ast.Ident)
	if !ok {
		b = emitExpr(b, n.Callee)
		return emitArgs(b, n.Args)
	}

	switch ident.Name {
	case "push":
		b = emitExpr(b, n.Args[0])
		b = append(b, ".append("...)
		b = emitExpr(b, n.Args[1])
		return append(b, ')')
	case "keys":
		b = append(b, "list("...)
		b = emitExpr(b, n.Args[0])
		b = append(b, ".keys())"...)
		return b
	case "values":
		b = append(b, "list("...)
		b = emitExpr(b, n.Args[0])
		b = append(b, ".values())"...)
		return b
	default:
		// len, input, int, float, str, bool, and ordinary user
		// functions all emit as an identical call expression.
		b = append(b, ident.Name...)
		return emitArgs(b, n.Args)
	}
}

func emitArgs(b []byte, args []ast.Expr) []byte {
	b = append(b, '(')
	for i, a := range args {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = emitExpr(b, a)
	}
	return append(b, ')')
}

// pySimpleMethods renames a Quasar method to its Python equivalent when the
// call otherwise carries straight over: receiver.Method(args) becomes
// receiver.pyName(args) with no other reshaping.
var pySimpleMethods = map[string]string{
	"upper": "upper", "lower": "lower",
	"trim": "strip", "trim_start": "lstrip", "trim_end": "rstrip",
	"split": "split", "replace": "replace",
	"starts_with": "startswith", "ends_with": "endswith",
	"get": "get", "reverse": "reverse", "clear": "clear",
}

// emitMethodCall renders `receiver.method(args)`. Most primitive methods
// reshape the call entirely (contains, join, has_key, remove, keys,
// values, len, to_int, to_float); everything else — including a qualified
// call into an imported module, which shares this node shape — passes
// through as a plain dotted call (spec.md §4.4).
func emitMethodCall(b []byte, n *ast.MethodCallExpr) []byte {
	switch n.Method {
	case "len":
		b = append(b, "len("...)
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	case "push":
		b = emitExpr(b, n.Receiver)
		b = append(b, ".append("...)
		b = emitExpr(b, n.Args[0])
		return append(b, ')')
	case "contains":
		b = append(b, '(')
		b = emitExpr(b, n.Args[0])
		b = append(b, " in "...)
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	case "has_key":
		b = append(b, '(')
		b = emitExpr(b, n.Args[0])
		b = append(b, " in "...)
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	case "join":
		b = emitExpr(b, n.Args[0])
		b = append(b, '.', 'j', 'o', 'i', 'n', '(')
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	case "remove":
		b = emitExpr(b, n.Receiver)
		b = append(b, ".pop("...)
		b = emitExpr(b, n.Args[0])
		return append(b, ", None)"...)
	case "keys":
		b = append(b, "list("...)
		b = emitExpr(b, n.Receiver)
		return append(b, ".keys())"...)
	case "values":
		b = append(b, "list("...)
		b = emitExpr(b, n.Receiver)
		return append(b, ".values())"...)
	case "to_int":
		b = append(b, "int("...)
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	case "to_float":
		b = append(b, "float("...)
		b = emitExpr(b, n.Receiver)
		return append(b, ')')
	}

	pyName := n.Method
	if mapped, ok := pySimpleMethods[n.Method]; ok {
		pyName = mapped
	}

	b = emitExpr(b, n.Receiver)
	b = append(b, '.')
	b = append(b, pyName...)
	return emitArgs(b, n.Args)
}
