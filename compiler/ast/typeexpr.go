package ast

// TypeExpr is the syntactic form of a type annotation as written by the
// user, before the analyzer resolves named types against the enum/struct
// registries (spec.md §4.3, "user-defined type resolution").
type TypeExpr interface {
	Node
	typeExprNode()
}

type (
	// NamedType covers every bare-identifier annotation: the four
	// primitive keywords (int/float/bool/str — Void and Any are never
	// written by a user) and any struct or enum name.
	NamedType struct {
		Base
		Name string
	}

	ListTypeExpr struct {
		Base
		Elem TypeExpr
	}

	DictTypeExpr struct {
		Base
		Key   TypeExpr
		Value TypeExpr
	}
)

func (*NamedType) typeExprNode()    {}
func (*ListTypeExpr) typeExprNode() {}
func (*DictTypeExpr) typeExprNode() {}
