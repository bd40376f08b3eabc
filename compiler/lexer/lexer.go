// Package lexer implements Quasar's lexical analysis stage: source text in,
// a token stream and a diagnostics batch out. The scanning style — switch
// on the current byte, explicit skip-helpers for idents/numbers/spaces —
// follows the teacher's compiler/front.State.next and compiler/parse
// tokenizers, generalized from on-demand single-token lookahead to a full
// upfront token stream (spec.md's facade expects `lex(source) -> (Tokens,
// Diagnostics)` as a complete batch before parsing ever starts).
package lexer

import (
	"context"
	"strconv"
	"strings"

	"tlog.app/go/tlog"

	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/source"
	"github.com/quasar-lang/quasar/compiler/token"
)

// Lexer converts a single file's source text into a token stream.
type Lexer struct {
	file string
	src  []byte

	pos  int
	line int
	col  int

	tokens []token.Token
	diags  diag.Diagnostics
}

// New creates a Lexer over text, attributing every span to file.
func New(file string, text []byte) *Lexer {
	return &Lexer{
		file: file,
		src:  text,
		line: 1,
		col:  1,
	}
}

// Lex tokenizes source text in a single pass, matching spec.md's
// `lex(source) -> (Tokens, Diagnostics)` facade operation.
func Lex(ctx context.Context, file string, text []byte) ([]token.Token, diag.Diagnostics) {
	l := New(file, text)
	toks := l.Run(ctx)
	return toks, l.diags
}

// Run tokenizes the entire source, always terminating the stream with an
// Eof token, and returns the collected tokens. Use Diagnostics to retrieve
// any lexical errors found along the way.
func (l *Lexer) Run(ctx context.Context) []token.Token {
	for !l.atEnd() {
		l.skipSpacesAndComments()
		if l.atEnd() {
			break
		}

		l.scanToken()
	}

	l.tokens = append(l.tokens, token.Token{
		Kind: token.Eof,
		Span: l.spanAt(l.line, l.col, l.line, l.col),
	})

	tlog.SpanFromContext(ctx).Printw("lex done", "file", l.file, "tokens", len(l.tokens), "errors", len(l.diags))

	return l.tokens
}

// Diagnostics returns the lexical diagnostics accumulated by Run.
func (l *Lexer) Diagnostics() diag.Diagnostics { return l.diags }

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) spanAt(startLine, startCol, endLine, endCol int) source.Span {
	return source.Span{
		File:      l.file,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   endLine,
		EndCol:    endCol,
	}
}

func (l *Lexer) skipSpacesAndComments() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '/':
			if l.peekAt(1) == '/' {
				for !l.atEnd() && l.peek() != '\n' {
					l.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

// resync skips forward to the next whitespace after a lex error, so the
// lexer can keep gathering independent diagnostics instead of stopping at
// the first malformed lexeme (spec.md §4.1, §7).
func (l *Lexer) resync() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			return
		}
		l.advance()
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *Lexer) scanToken() {
	startLine, startCol := l.line, l.col
	c := l.peek()

	switch {
	case isIdentStart(c):
		l.scanIdent(startLine, startCol)
		return
	case isDigit(c):
		l.scanNumber(startLine, startCol)
		return
	case c == '"':
		l.scanString(startLine, startCol)
		return
	}

	// Two-character operators are greedy: prefer them whenever the
	// second character matches (spec.md §4.1).
	two := l.peekAt(0)
	twoNext := l.peekAt(1)
	if kind, ok := twoCharOps[[2]byte{two, twoNext}]; ok {
		l.advance()
		l.advance()
		l.emit(kind, startLine, startCol)
		return
	}

	if kind, ok := oneCharOps[c]; ok {
		l.advance()
		l.emit(kind, startLine, startCol)
		return
	}

	if c == ';' {
		l.advance()
		l.diags.Add(diag.EIllegalChar, l.spanAt(startLine, startCol, l.line, l.col),
			"semicolons are not part of Quasar")
		l.resync()
		return
	}

	l.advance()
	l.diags.Add(diag.EIllegalChar, l.spanAt(startLine, startCol, l.line, l.col),
		"unrecognized character %q", c)
	l.resync()
}

var twoCharOps = map[[2]byte]token.Kind{
	{'=', '='}: token.Eq,
	{'!', '='}: token.NotEq,
	{'<', '='}: token.Le,
	{'>', '='}: token.Ge,
	{'&', '&'}: token.And,
	{'|', '|'}: token.Or,
	{'-', '>'}: token.Arrow,
	{'.', '.'}: token.DotDot,
}

var oneCharOps = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	':': token.Colon,
	'.': token.Dot,
	'=': token.Assign,
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Not,
}

func (l *Lexer) emit(kind token.Kind, startLine, startCol int) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Lexeme: kind.String(),
		Span:   l.spanAt(startLine, startCol, l.line, l.col),
	})
}

func (l *Lexer) scanIdent(startLine, startCol int) {
	start := l.pos
	for !l.atEnd() && isIdentCont(l.peek()) {
		l.advance()
	}

	lexeme := string(l.src[start:l.pos])
	span := l.spanAt(startLine, startCol, l.line, l.col)

	if kw, ok := token.Keywords[lexeme]; ok {
		switch kw {
		case token.True:
			l.tokens = append(l.tokens, token.Token{Kind: token.True, Lexeme: lexeme, Value: true, Span: span})
		case token.False:
			l.tokens = append(l.tokens, token.Token{Kind: token.False, Lexeme: lexeme, Value: false, Span: span})
		default:
			l.tokens = append(l.tokens, token.Token{Kind: kw, Lexeme: lexeme, Span: span})
		}
		return
	}

	l.tokens = append(l.tokens, token.Token{Kind: token.Identifier, Lexeme: lexeme, Value: lexeme, Span: span})
}

// scanNumber reads an integer literal, promoting to a float literal when a
// '.' is immediately followed by a digit. A leading '-' is never part of
// the literal (negation is a unary operator handled by the parser).
func (l *Lexer) scanNumber(startLine, startCol int) {
	start := l.pos
	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance() // '.'
		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	lexeme := string(l.src[start:l.pos])
	span := l.spanAt(startLine, startCol, l.line, l.col)

	if isFloat {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			l.diags.Add(diag.EIllegalChar, span, "malformed float literal %q", lexeme)
			return
		}
		l.tokens = append(l.tokens, token.Token{Kind: token.FloatLit, Lexeme: lexeme, Value: v, Span: span})
		return
	}

	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		l.diags.Add(diag.EIllegalChar, span, "malformed integer literal %q", lexeme)
		return
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.IntLit, Lexeme: lexeme, Value: v, Span: span})
}

// scanString reads a "..."-delimited string literal, decoding \n \t \" \\
// while keeping the original lexeme (including quotes and escapes)
// alongside the decoded value.
func (l *Lexer) scanString(startLine, startCol int) {
	start := l.pos
	l.advance() // opening quote

	var decoded strings.Builder
	closed := false

	for !l.atEnd() {
		c := l.peek()
		if c == '"' {
			l.advance()
			closed = true
			break
		}
		if c == '\n' {
			break // unterminated: newline ends the attempt
		}
		if c == '\\' {
			l.advance()
			if l.atEnd() {
				break
			}
			esc := l.advance()
			switch esc {
			case 'n':
				decoded.WriteByte('\n')
			case 't':
				decoded.WriteByte('\t')
			case '"':
				decoded.WriteByte('"')
			case '\\':
				decoded.WriteByte('\\')
			default:
				decoded.WriteByte('\\')
				decoded.WriteByte(esc)
			}
			continue
		}
		decoded.WriteByte(l.advance())
	}

	span := l.spanAt(startLine, startCol, l.line, l.col)

	if !closed {
		l.diags.Add(diag.EUnterminated, span, "unterminated string literal")
		l.resync()
		return
	}

	raw := string(l.src[start:l.pos])
	l.tokens = append(l.tokens, token.Token{
		Kind:   token.StringLit,
		Lexeme: raw,
		Value:  decoded.String(),
		Span:   span,
	})
}
