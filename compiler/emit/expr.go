package emit

import (
	"strconv"
	"strings"

	"github.com/quasar-lang/quasar/compiler/ast"
)

// emitExpr renders e as a single Python expression. Every binary
// expression is wrapped in parentheses regardless of its operands, a
// defensive choice that keeps the target's precedence independent of the
// source's (spec.md §4.4, "Defensive parenthesization").
func emitExpr(b []byte, e ast.Expr) []byte {
	switch n := e.(type) {
	case *ast.IntLit:
		return strconv.AppendInt(b, n.Value, 10)
	case *ast.FloatLit:
		return append(b, formatFloat(n.Value)...)
	case *ast.StringLit:
		return append(b, strconv.Quote(n.Value)...)
	case *ast.BoolLit:
		return append(b, boolLit(n.Value)...)
	case *ast.Ident:
		return append(b, n.Name...)
	case *ast.ListLit:
		return emitListLit(b, n)
	case *ast.DictLit:
		return emitDictLit(b, n)
	case *ast.RangeExpr:
		b = append(b, "range("...)
		b = emitExpr(b, n.Start)
		b = append(b, ", "...)
		b = emitExpr(b, n.End)
		return append(b, ')')
	case *ast.BinaryExpr:
		return emitBinary(b, n)
	case *ast.UnaryExpr:
		return emitUnary(b, n)
	case *ast.CallExpr:
		return emitCall(b, n)
	case *ast.MethodCallExpr:
		return emitMethodCall(b, n)
	case *ast.MemberExpr:
		b = emitExpr(b, n.Receiver)
		return append(append(b, '.'), n.Field...)
	case *ast.IndexExpr:
		b = emitExpr(b, n.Receiver)
		b = append(b, '[')
		b = emitExpr(b, n.Index)
		return append(b, ']')
	case *ast.StructInitExpr:
		return emitStructInit(b, n)
	case *ast.EnumAccessExpr:
		return append(append(append(b, n.EnumName...), '.'), n.Variant...)
	default:
		return b
	}
}

// formatFloat keeps a trailing ".0" on whole-valued floats so the emitted
// literal stays unambiguously a Python float.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func emitListLit(b []byte, n *ast.ListLit) []byte {
	b = append(b, '[')
	for i, el := range n.Elems {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = emitExpr(b, el)
	}
	return append(b, ']')
}

func emitDictLit(b []byte, n *ast.DictLit) []byte {
	b = append(b, '{')
	for i, p := range n.Pairs {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = emitExpr(b, p.Key)
		b = append(b, ": "...)
		b = emitExpr(b, p.Value)
	}
	return append(b, '}')
}

var binOpText = map[ast.BinOp]string{
	ast.Add: "+", ast.Sub: "-", ast.Mul: "*", ast.Div: "/", ast.Mod: "%",
	ast.EqOp: "==", ast.NotEqOp: "!=",
	ast.Lt: "<", ast.Gt: ">", ast.Le: "<=", ast.Ge: ">=",
	ast.LogAnd: "and", ast.LogOr: "or",
}

func emitBinary(b []byte, n *ast.BinaryExpr) []byte {
	b = append(b, '(')
	b = emitExpr(b, n.Left)
	b = append(b, ' ')
	b = append(b, binOpText[n.Op]...)
	b = append(b, ' ')
	b = emitExpr(b, n.Right)
	return append(b, ')')
}

func emitUnary(b []byte, n *ast.UnaryExpr) []byte {
	b = append(b, '(')
	if n.Op == ast.LogNot {
		b = append(b, "not "...)
	} else {
		b = append(b, '-')
	}
	b = emitExpr(b, n.Operand)
	return append(b, ')')
}

func emitStructInit(b []byte, n *ast.StructInitExpr) []byte {
	b = append(b, n.TypeName...)
	b = append(b, '(')
	for i, f := range n.Fields {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = append(b, f.Name...)
		b = append(b, '=')
		b = emitExpr(b, f.Value)
	}
	return append(b, ')')
}
