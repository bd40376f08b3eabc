package ast

// Program is an ordered list of top-level declarations and statements.
// Order matters: it is also emission order, and a later declaration may
// reference an earlier one (spec.md's data model, "A Program is an
// ordered list of top-level declarations and statements").
type Program struct {
	Items []Node
}
