// Package ast defines the tree produced by the parser: a sum of
// expressions, statements, and declarations, each carrying a source span.
// Node kinds are closed — the parser never produces, and no later stage
// ever needs, a node kind outside this file set. Dispatch throughout the
// semantic analyzer and the emitter is a plain Go type switch, replacing
// the teacher's by-type-name visitor convention (`_analyze_X`/`_generate_X`
// dynamic dispatch) with an exhaustive match per spec.md §9's guidance.
package ast

import (
	"github.com/quasar-lang/quasar/compiler/source"
	"github.com/quasar-lang/quasar/compiler/types"
)

// Node is implemented by every tree node: expressions, statements,
// declarations, blocks, and type expressions.
type Node interface {
	Span() source.Span
}

// Expr is implemented by every expression node. Each carries its resolved
// Type once semantic analysis completes; Type is the zero value (nil)
// beforehand.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node, including the `let`/`const`
// variable declaration forms (they are syntactically statements: they may
// appear inside a block body or at top level).
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by the four declaration forms that may only appear
// at the top level of a compilation unit: function, struct, enum, import.
type Decl interface {
	Node
	declNode()
}

// Base carries the span common to every node. Embedding it gives a node
// its Span() method for free.
type Base struct {
	Sp source.Span
}

func (b Base) Span() source.Span { return b.Sp }

// ExprBase is Base plus the slot every expression has for its resolved
// type. The semantic analyzer fills Type in; the parser leaves it nil.
type ExprBase struct {
	Base
	Type types.Type
}
