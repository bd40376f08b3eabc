package ast

import "github.com/quasar-lang/quasar/compiler/types"

type (
	Block struct {
		Base
		Stmts []Stmt
	}

	ExprStmt struct {
		Base
		X Expr
	}

	// PrintStmt covers both plain and format-mode print. FirstIsFormat
	// is set by the parser whenever the first positional argument is a
	// string literal (the analyzer decides, from its placeholder count,
	// whether format mode actually applies).
	PrintStmt struct {
		Base
		Args          []Expr
		Sep           Expr // nil if absent
		End           Expr // nil if absent
		FirstIsFormat bool
	}

	// AssignStmt's Target is an Ident, IndexExpr, or MemberExpr —
	// enforced by the parser, re-checked by the analyzer.
	AssignStmt struct {
		Base
		Target Expr
		Value  Expr
	}

	IfStmt struct {
		Base
		Cond Expr
		Then *Block
		Else *Block // nil if no else-block
	}

	WhileStmt struct {
		Base
		Cond Expr
		Body *Block
	}

	ForStmt struct {
		Base
		Var      string
		Iterable Expr
		Body     *Block
		VarType  types.Type // filled in by the analyzer
	}

	BreakStmt struct {
		Base
	}

	ContinueStmt struct {
		Base
	}

	ReturnStmt struct {
		Base
		Value Expr
	}

	// VarDecl covers both `let` and `const` bindings; Const distinguishes
	// them. It implements Stmt because the grammar allows it inside any
	// block as well as at the top level.
	VarDecl struct {
		Base
		Name         string
		DeclaredType TypeExpr
		Init         Expr
		Const        bool
		ResolvedType types.Type // filled in by the analyzer
	}
)

func (*Block) stmtNode()        {}
func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}
func (*VarDecl) stmtNode()      {}
