package emit

import "github.com/quasar-lang/quasar/compiler/ast"

// emitPrint renders a print statement. In format mode — the first
// positional argument is a string literal containing unescaped `{}`
// placeholders — the call becomes `print(fmt.format(rest...))`; sep has no
// effect on a single formatted argument and is dropped, while end still
// applies (spec.md §4.4).
func emitPrint(b []byte, n *ast.PrintStmt, d int) []byte {
	b = app(b, d, "print(")

	if isFormatMode(n) {
		lit := n.Args[0].(*ast.StringLit)
		b = emitExpr(b, lit)
		b = append(b, ".format("...)
		for i, arg := range n.Args[1:] {
			if i != 0 {
				b = append(b, ", "...)
			}
			b = emitExpr(b, arg)
		}
		b = append(b, ')')
		if n.End != nil {
			b = append(b, ", end="...)
			b = emitExpr(b, n.End)
		}
		return append(b, ")\n"...)
	}

	for i, arg := range n.Args {
		if i != 0 {
			b = append(b, ", "...)
		}
		b = emitExpr(b, arg)
	}
	if n.Sep != nil {
		b = append(b, ", sep="...)
		b = emitExpr(b, n.Sep)
	}
	if n.End != nil {
		b = append(b, ", end="...)
		b = emitExpr(b, n.End)
	}
	return append(b, ")\n"...)
}

func isFormatMode(n *ast.PrintStmt) bool {
	if !n.FirstIsFormat || len(n.Args) == 0 {
		return false
	}
	lit, ok := n.Args[0].(*ast.StringLit)
	return ok && ast.ScanPlaceholders(lit.Value) > 0
}
