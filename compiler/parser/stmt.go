package parser

import (
	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/token"
)

// parseStmt parses a single statement, recovering to the next statement
// boundary on error.
func (p *Parser) parseStmt() (stmt ast.Node) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bail); !ok {
				panic(r)
			}
			p.synchronizeStmt()
			stmt = nil
		}
	}()

	switch p.curKind() {
	case token.Let, token.Const:
		return p.parseVarDecl()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Return:
		return p.parseReturn()
	case token.Break:
		t := p.advance()
		return &ast.BreakStmt{Base: ast.Base{Sp: t.Span}}
	case token.Continue:
		t := p.advance()
		return &ast.ContinueStmt{Base: ast.Base{Sp: t.Span}}
	case token.Print:
		return p.parsePrint()
	case token.LBrace:
		return p.parseBraceStmt()
	default:
		return p.parseAssignOrExprStmt()
	}
}

// synchronizeStmt skips to the next token that could plausibly start a new
// statement, the closest-boundary recovery spec.md §7 asks for.
func (p *Parser) synchronizeStmt() {
	for !p.at(token.Eof) {
		switch p.curKind() {
		case token.Let, token.Const, token.If, token.While, token.For,
			token.Return, token.Break, token.Continue, token.Print, token.RBrace:
			return
		}
		p.advance()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace)

	b := &ast.Block{Base: ast.Base{Sp: start.Span}}
	for !p.at(token.RBrace) && !p.at(token.Eof) {
		s := p.parseStmt()
		if s == nil {
			continue
		}
		stmt, ok := s.(ast.Stmt)
		if !ok {
			continue
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	end := p.expect(token.RBrace)
	b.Sp = start.Span.Join(end.Span)

	return b
}

// parseBraceStmt disambiguates a statement beginning with `{`: a dict
// literal used as an expression statement, or a nested block. Per spec.md
// §4.2, it is a dict literal exactly when the first element after `{` is
// followed by `:` (and is not immediately `}`); otherwise it is a block.
func (p *Parser) parseBraceStmt() ast.Node {
	if p.dictLiteralAhead() {
		x := p.parseDictLit()
		return &ast.ExprStmt{Base: ast.Base{Sp: x.Span()}, X: x}
	}
	return p.parseBlock()
}

func (p *Parser) dictLiteralAhead() bool {
	// p.cur() is '{'.
	next := p.toks[p.pos+1]
	if next.Kind == token.RBrace {
		return false // empty braces default to an empty block
	}
	// Scan forward for the token right after the first element: if it's
	// ':' before a ',' or '}' at this nesting depth, it's a dict.
	i := p.pos + 1
	depth := 0
	for i < len(p.toks) {
		switch p.toks[i].Kind {
		case token.LBrace, token.LParen, token.LBracket:
			depth++
		case token.RBrace, token.RParen, token.RBracket:
			if depth == 0 {
				return false
			}
			depth--
		case token.Colon:
			if depth == 0 {
				return true
			}
		case token.Comma:
			if depth == 0 {
				return false
			}
		case token.Let, token.Const, token.If, token.While, token.For,
			token.Return, token.Break, token.Continue, token.Print, token.Assign:
			// statement-only tokens never occur inside a dict key, so a
			// later ':' (e.g. a `let x: T` annotation) belongs to a block
			if depth == 0 {
				return false
			}
		case token.Eof:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseVarDecl() ast.Node {
	isConst := p.curKind() == token.Const
	start := p.advance()

	nameTok := p.expect(token.Identifier)
	p.expect(token.Colon)
	typ := p.parseTypeExpr()
	p.expect(token.Assign)
	init := p.parseExpr()

	return &ast.VarDecl{
		Base:         ast.Base{Sp: start.Span.Join(init.Span())},
		Name:         nameTok.Lexeme,
		DeclaredType: typ,
		Init:         init,
		Const:        isConst,
	}
}

func (p *Parser) parseIf() ast.Node {
	start := p.expect(token.If)

	p.noStructLit = true
	cond := p.parseExpr()
	p.noStructLit = false

	then := p.parseBlock()

	var els *ast.Block
	if p.at(token.Else) {
		p.advance()
		if p.at(token.If) {
			inner := p.parseIf().(ast.Stmt)
			els = &ast.Block{Base: ast.Base{Sp: inner.Span()}, Stmts: []ast.Stmt{inner}}
		} else {
			els = p.parseBlock()
		}
	}

	end := then.Span()
	if els != nil {
		end = els.Span()
	}

	return &ast.IfStmt{
		Base: ast.Base{Sp: start.Span.Join(end)},
		Cond: cond,
		Then: then,
		Else: els,
	}
}

func (p *Parser) parseWhile() ast.Node {
	start := p.expect(token.While)

	p.noStructLit = true
	cond := p.parseExpr()
	p.noStructLit = false

	body := p.parseBlock()

	return &ast.WhileStmt{
		Base: ast.Base{Sp: start.Span.Join(body.Span())},
		Cond: cond,
		Body: body,
	}
}

func (p *Parser) parseFor() ast.Node {
	start := p.expect(token.For)
	nameTok := p.expect(token.Identifier)
	p.expect(token.In)

	p.noStructLit = true
	iterable := p.parseExpr()
	p.noStructLit = false

	body := p.parseBlock()

	return &ast.ForStmt{
		Base:     ast.Base{Sp: start.Span.Join(body.Span())},
		Var:      nameTok.Lexeme,
		Iterable: iterable,
		Body:     body,
	}
}

func (p *Parser) parseReturn() ast.Node {
	start := p.expect(token.Return)
	value := p.parseExpr()

	return &ast.ReturnStmt{
		Base:  ast.Base{Sp: start.Span.Join(value.Span())},
		Value: value,
	}
}

// parsePrint parses `print(args..., sep=EXPR?, end=EXPR?)`. The grammar
// permits zero positional arguments when sep/end are present; the analyzer
// rejects that case as E0406.
func (p *Parser) parsePrint() ast.Node {
	start := p.expect(token.Print)
	p.expect(token.LParen)

	stmt := &ast.PrintStmt{Base: ast.Base{Sp: start.Span}}

	for !p.at(token.RParen) && !p.at(token.Sep) && !p.at(token.End) {
		arg := p.parseExpr()
		if len(stmt.Args) == 0 {
			if _, ok := arg.(*ast.StringLit); ok {
				stmt.FirstIsFormat = true
			}
		}
		stmt.Args = append(stmt.Args, arg)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	sawSep, sawEnd := false, false
	for p.at(token.Comma) || p.at(token.Sep) || p.at(token.End) {
		if p.at(token.Comma) {
			p.advance()
			continue
		}

		isSep := p.at(token.Sep)
		kwTok := p.advance()
		p.expect(token.Assign)
		val := p.parseExpr()

		if isSep {
			if sawSep {
				p.diags.Add(diagCode, kwTok.Span, "sep may only be given once")
			}
			sawSep = true
			stmt.Sep = val
		} else {
			if sawEnd {
				p.diags.Add(diagCode, kwTok.Span, "end may only be given once")
			}
			sawEnd = true
			stmt.End = val
		}
	}

	end := p.expect(token.RParen)
	stmt.Sp = start.Span.Join(end.Span)

	return stmt
}

// parseAssignOrExprStmt parses a full expression, then decides whether the
// statement is an assignment (next token is `=`) or a bare expression
// statement. This subsumes spec.md §4.2's "begins with an identifier
// followed by =, [, or ." rule: parsing the postfix chain first already
// produces an Ident/IndexExpr/MemberExpr/method-call naturally, and
// checking for a trailing `=` afterward avoids misclassifying a statement
// like `x.push(1)` (identifier followed by `.`, but not an assignment) as
// an assignment target.
func (p *Parser) parseAssignOrExprStmt() ast.Node {
	expr := p.parseExpr()

	if p.at(token.Assign) {
		p.advance()
		value := p.parseExpr()

		switch expr.(type) {
		case *ast.Ident, *ast.IndexExpr, *ast.MemberExpr:
		default:
			p.diags.Add(diagCode, expr.Span(), "invalid assignment target")
		}

		return &ast.AssignStmt{
			Base:   ast.Base{Sp: expr.Span().Join(value.Span())},
			Target: expr,
			Value:  value,
		}
	}

	return &ast.ExprStmt{Base: ast.Base{Sp: expr.Span()}, X: expr}
}
