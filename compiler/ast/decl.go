package ast

import "github.com/quasar-lang/quasar/compiler/types"

type (
	Param struct {
		Name string
		Type TypeExpr
	}

	FuncDecl struct {
		Base
		Name       string
		Params     []Param
		ReturnType TypeExpr
		Body       *Block

		ParamTypes []types.Type // filled in by the analyzer
		ResultType types.Type   // filled in by the analyzer
	}

	FieldDecl struct {
		Name string
		Type TypeExpr
	}

	StructDecl struct {
		Base
		Name   string
		Fields []FieldDecl
	}

	EnumDecl struct {
		Base
		Name     string
		Variants []string
	}

	// ImportDecl covers both `import ident` (an opaque Python module) and
	// `import "./path.qsr"` (a local file, recursively compiled). Python
	// is true for the former.
	ImportDecl struct {
		Base
		Python bool
		Name   string // the bound module symbol name
		Path   string // the quoted relative path, only set when !Python
	}
)

func (*FuncDecl) declNode()   {}
func (*StructDecl) declNode() {}
func (*EnumDecl) declNode()   {}
func (*ImportDecl) declNode() {}
