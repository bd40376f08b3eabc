// Package token defines the closed set of lexical token kinds produced by
// the lexer and consumed by the parser.
package token

import "github.com/quasar-lang/quasar/compiler/source"

// Kind is the closed set of token kinds. It is never extended at runtime.
type Kind int

const (
	Illegal Kind = iota
	Eof

	Identifier
	IntLit
	FloatLit
	StringLit

	// Keywords
	Let
	Const
	Fn
	If
	Else
	While
	For
	In
	Return
	Break
	Continue
	Struct
	Enum
	Import
	Print
	True
	False

	// Type keywords
	KwInt
	KwFloat
	KwBool
	KwStr
	KwDict

	// Named pseudo-parameters
	Sep
	End

	// Punctuation
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Colon
	Dot
	Assign
	Arrow
	DotDot

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	Eq
	NotEq
	Lt
	Gt
	Le
	Ge
	And
	Or
	Not
)

var names = map[Kind]string{
	Illegal:    "illegal",
	Eof:        "eof",
	Identifier: "identifier",
	IntLit:     "int literal",
	FloatLit:   "float literal",
	StringLit:  "string literal",
	Let:        "let",
	Const:      "const",
	Fn:         "fn",
	If:         "if",
	Else:       "else",
	While:      "while",
	For:        "for",
	In:         "in",
	Return:     "return",
	Break:      "break",
	Continue:   "continue",
	Struct:     "struct",
	Enum:       "enum",
	Import:     "import",
	Print:      "print",
	True:       "true",
	False:      "false",
	KwInt:      "int",
	KwFloat:    "float",
	KwBool:     "bool",
	KwStr:      "str",
	KwDict:     "Dict",
	Sep:        "sep",
	End:        "end",
	LBrace:     "{",
	RBrace:     "}",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	Comma:      ",",
	Colon:      ":",
	Dot:        ".",
	Assign:     "=",
	Arrow:      "->",
	DotDot:     "..",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	Slash:      "/",
	Percent:    "%",
	Eq:         "==",
	NotEq:      "!=",
	Lt:         "<",
	Gt:         ">",
	Le:         "<=",
	Ge:         ">=",
	And:        "&&",
	Or:         "||",
	Not:        "!",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}

	return "unknown"
}

// Keywords maps identifier spelling to its keyword Kind. Dict is included
// here even though it reads like a type name rather than a classical
// keyword: the lexer recognizes it by identifier match same as any other
// keyword (spec.md §4.1).
var Keywords = map[string]Kind{
	"let":      Let,
	"const":    Const,
	"fn":       Fn,
	"if":       If,
	"else":     Else,
	"while":    While,
	"for":      For,
	"in":       In,
	"return":   Return,
	"break":    Break,
	"continue": Continue,
	"struct":   Struct,
	"enum":     Enum,
	"import":   Import,
	"print":    Print,
	"true":     True,
	"false":    False,
	"int":      KwInt,
	"float":    KwFloat,
	"bool":     KwBool,
	"str":      KwStr,
	"Dict":     KwDict,
	"sep":      Sep,
	"end":      End,
}

// Token is the lexer's output unit: a kind, the exact source substring, an
// optional decoded literal value, and the span it occupied.
type Token struct {
	Kind   Kind
	Lexeme string
	Value  any // int64, float64, string, or bool for literal kinds
	Span   source.Span
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return t.Lexeme
	}

	return t.Kind.String()
}
