package lexer

import (
	"context"
	"testing"

	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v\ngot:  %v\nwant: %v", i, got[i], want[i], got, want)
		}
	}
}

func TestLexIdentifiersAndKeywords(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("let x fn foo"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.Let, token.Identifier, token.Fn, token.Identifier, token.Eof)

	if toks[1].Value != "x" {
		t.Errorf("ident value = %v, want %q", toks[1].Value, "x")
	}
}

func TestLexTrueFalseCarryBoolValue(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("true false"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.True, token.False, token.Eof)

	if toks[0].Value != true {
		t.Errorf("true literal value = %v, want true", toks[0].Value)
	}
	if toks[1].Value != false {
		t.Errorf("false literal value = %v, want false", toks[1].Value)
	}
}

func TestLexIntAndFloatLiterals(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("42 3.14 0"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.IntLit, token.FloatLit, token.IntLit, token.Eof)

	if toks[0].Value != int64(42) {
		t.Errorf("int literal value = %v, want 42", toks[0].Value)
	}
	if toks[1].Value != 3.14 {
		t.Errorf("float literal value = %v, want 3.14", toks[1].Value)
	}
}

func TestLexDotDotIsNotTwoFloats(t *testing.T) {
	// "1..10" must not be parsed as a malformed float: the range operator
	// is only recognized once the scanner confirms the '.' isn't followed
	// by a digit.
	toks, diags := Lex(context.Background(), "t.qsr", []byte("1..10"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.IntLit, token.DotDot, token.IntLit, token.Eof)
}

func TestLexStringLiteralDecodesEscapes(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte(`"hello\nworld\t\"x\""`))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.StringLit, token.Eof)

	want := "hello\nworld\t\"x\""
	if toks[0].Value != want {
		t.Errorf("decoded string = %q, want %q", toks[0].Value, want)
	}
	if toks[0].Lexeme != `"hello\nworld\t\"x\""` {
		t.Errorf("raw lexeme = %q, lost original escapes", toks[0].Lexeme)
	}
}

func TestLexUnterminatedStringReportsDiagnostic(t *testing.T) {
	_, diags := Lex(context.Background(), "t.qsr", []byte(`"abc`))
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for unterminated string")
	}
	if diags[0].Code != diag.EUnterminated {
		t.Errorf("code = %v, want %v", diags[0].Code, diag.EUnterminated)
	}
}

func TestLexUnterminatedStringStopsAtNewline(t *testing.T) {
	_, diags := Lex(context.Background(), "t.qsr", []byte("\"abc\ndef\""))
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for unterminated string")
	}
	if diags[0].Code != diag.EUnterminated {
		t.Errorf("code = %v, want %v", diags[0].Code, diag.EUnterminated)
	}
}

func TestLexIllegalCharacterResyncsAndContinues(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("let x `$ = 1"))
	if len(diags) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	for _, d := range diags {
		if d.Code != diag.EIllegalChar {
			t.Errorf("code = %v, want %v", d.Code, diag.EIllegalChar)
		}
	}

	// Lexing must recover and keep producing tokens after the illegal run.
	assertKinds(t, kinds(toks), token.Let, token.Identifier, token.Assign, token.IntLit, token.Eof)
}

func TestLexSemicolonIsCalledOutExplicitly(t *testing.T) {
	_, diags := Lex(context.Background(), "t.qsr", []byte("x;"))
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", diags)
	}
	if diags[0].Code != diag.EIllegalChar {
		t.Errorf("code = %v, want %v", diags[0].Code, diag.EIllegalChar)
	}
}

func TestLexLineComment(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("let x = 1 // trailing comment\nlet y = 2"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks),
		token.Let, token.Identifier, token.Assign, token.IntLit,
		token.Let, token.Identifier, token.Assign, token.IntLit,
		token.Eof,
	)
}

func TestLexTwoCharOperatorsPreferredOverOneChar(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("a == b != c <= d >= e && f || !g -> Dict"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks),
		token.Identifier, token.Eq, token.Identifier, token.NotEq, token.Identifier,
		token.Le, token.Identifier, token.Ge, token.Identifier, token.And, token.Identifier,
		token.Or, token.Not, token.Identifier, token.Arrow, token.KwDict,
		token.Eof,
	)
}

func TestLexSpanTracksLineAndColumn(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte("let x\n    = 1"))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	// "x" is on line 1, column 5.
	x := toks[1]
	if x.Span.StartLine != 1 || x.Span.StartCol != 5 {
		t.Errorf("x span = %+v, want line 1 col 5", x.Span)
	}

	// "=" is on line 2, column 5 (after four leading spaces).
	assign := toks[2]
	if assign.Span.StartLine != 2 || assign.Span.StartCol != 5 {
		t.Errorf("= span = %+v, want line 2 col 5", assign.Span)
	}
}

func TestLexEmptySourceYieldsOnlyEof(t *testing.T) {
	toks, diags := Lex(context.Background(), "t.qsr", []byte(""))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	assertKinds(t, kinds(toks), token.Eof)
}
