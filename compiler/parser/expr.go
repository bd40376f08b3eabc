package parser

import (
	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/token"
)

// parseExpr is the grammar's entry point, descending through all nine
// precedence levels spec.md §4.2 defines, lowest first.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.at(token.Or) {
		start := p.cur()
		p.advance()
		right := p.parseAnd()
		left = &ast.BinaryExpr{
			ExprBase: ast.ExprBase{Base: ast.Base{Sp: left.Span().Join(right.Span())}},
			Op:       ast.LogOr,
			Left:     left,
			Right:    right,
		}
		_ = start
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.at(token.And) {
		p.advance()
		right := p.parseEquality()
		left = binExpr(ast.LogAnd, left, right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for p.at(token.Eq) || p.at(token.NotEq) {
		op := ast.EqOp
		if p.curKind() == token.NotEq {
			op = ast.NotEqOp
		}
		p.advance()
		right := p.parseComparison()
		left = binExpr(op, left, right)
	}
	return left
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseRange()
	for {
		var op ast.BinOp
		switch p.curKind() {
		case token.Lt:
			op = ast.Lt
		case token.Gt:
			op = ast.Gt
		case token.Le:
			op = ast.Le
		case token.Ge:
			op = ast.Ge
		default:
			return left
		}
		p.advance()
		right := p.parseRange()
		left = binExpr(op, left, right)
	}
}

// parseRange handles `..`, which is non-associative: at most one appears
// in a chain, and the grammar only expects it inside a `for ... in`
// iterable clause. Elsewhere, a RangeExpr reaching the analyzer is
// rejected as E0507.
func (p *Parser) parseRange() ast.Expr {
	left := p.parseAdditive()
	if p.at(token.DotDot) {
		p.advance()
		right := p.parseAdditive()
		return &ast.RangeExpr{
			ExprBase: ast.ExprBase{Base: ast.Base{Sp: left.Span().Join(right.Span())}},
			Start:    left,
			End:      right,
		}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.Plus) || p.at(token.Minus) {
		op := ast.Add
		if p.curKind() == token.Minus {
			op = ast.Sub
		}
		p.advance()
		right := p.parseMultiplicative()
		left = binExpr(op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		var op ast.BinOp
		switch p.curKind() {
		case token.Star:
			op = ast.Mul
		case token.Slash:
			op = ast.Div
		default:
			op = ast.Mod
		}
		p.advance()
		right := p.parseUnary()
		left = binExpr(op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(token.Minus) || p.at(token.Not) {
		start := p.cur()
		op := ast.Neg
		if p.curKind() == token.Not {
			op = ast.LogNot
		}
		p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span.Join(operand.Span())}},
			Op:       op,
			Operand:  operand,
		}
	}
	return p.parsePostfix()
}

func binExpr(op ast.BinOp, left, right ast.Expr) ast.Expr {
	return &ast.BinaryExpr{
		ExprBase: ast.ExprBase{Base: ast.Base{Sp: left.Span().Join(right.Span())}},
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

// parsePostfix parses a primary expression followed by zero or more of:
// call, index, member access, method call.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()

	for {
		switch p.curKind() {
		case token.LParen:
			start := p.cur()
			p.advance()
			args := p.parseArgList(token.RParen)
			end := p.expect(token.RParen)
			x = &ast.CallExpr{
				ExprBase: ast.ExprBase{Base: ast.Base{Sp: x.Span().Join(end.Span)}},
				Callee:   x,
				Args:     args,
			}
			_ = start
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			end := p.expect(token.RBracket)
			x = &ast.IndexExpr{
				ExprBase: ast.ExprBase{Base: ast.Base{Sp: x.Span().Join(end.Span)}},
				Receiver: x,
				Index:    idx,
			}
		case token.Dot:
			p.advance()
			nameTok := p.expect(token.Identifier)
			name := nameTok.Lexeme
			if p.at(token.LParen) {
				p.advance()
				args := p.parseArgList(token.RParen)
				end := p.expect(token.RParen)
				x = &ast.MethodCallExpr{
					ExprBase: ast.ExprBase{Base: ast.Base{Sp: x.Span().Join(end.Span)}},
					Receiver: x,
					Method:   name,
					Args:     args,
				}
			} else {
				x = &ast.MemberExpr{
					ExprBase: ast.ExprBase{Base: ast.Base{Sp: x.Span().Join(nameTok.Span)}},
					Receiver: x,
					Field:    name,
				}
			}
		default:
			return x
		}
	}
}

func (p *Parser) parseArgList(closing token.Kind) []ast.Expr {
	var args []ast.Expr
	if p.at(closing) {
		return args
	}
	args = append(args, p.parseExpr())
	for p.at(token.Comma) {
		p.advance()
		args = append(args, p.parseExpr())
	}
	return args
}

// parsePrimary parses literals, identifiers, parenthesized expressions,
// list literals, dict literals, and (when noStructLit is clear) struct
// initializers.
func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur()

	switch start.Kind {
	case token.IntLit:
		p.advance()
		return &ast.IntLit{ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span}}, Value: start.Value.(int64)}
	case token.FloatLit:
		p.advance()
		return &ast.FloatLit{ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span}}, Value: start.Value.(float64)}
	case token.StringLit:
		p.advance()
		return &ast.StringLit{ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span}}, Value: start.Value.(string), Raw: start.Lexeme}
	case token.True, token.False:
		p.advance()
		return &ast.BoolLit{ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span}}, Value: start.Value.(bool)}
	case token.Identifier:
		p.advance()
		ident := &ast.Ident{ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span}}, Name: start.Lexeme}
		if !p.noStructLit && p.at(token.LBrace) && p.looksLikeStructInit() {
			return p.parseStructInit(start, ident.Name)
		}
		return ident
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen)
		return inner
	case token.LBracket:
		return p.parseListLit()
	case token.LBrace:
		return p.parseDictLit()
	default:
		p.errorf("expected expression, got %s", start)
		panic(bail{})
	}
}

// looksLikeStructInit peeks past the `{` to decide whether it opens a
// struct initializer (`IDENT { field: expr, ... }` or an empty `{}`) as
// opposed to some other use of a following brace. Only called when the
// parser is already in expression position for the preceding identifier,
// so the only real ambiguity is the "field shaped IDENT: EXPR" check
// spec.md §4.2 describes; an empty `{}` is accepted as a (possibly
// zero-field) struct initializer in that same position.
func (p *Parser) looksLikeStructInit() bool {
	// p.cur() is the '{'.
	next := p.toks[p.pos+1]
	if next.Kind == token.RBrace {
		return true
	}
	if next.Kind != token.Identifier {
		return false
	}
	after := p.toks[p.pos+2]
	return after.Kind == token.Colon
}

func (p *Parser) parseStructInit(startTok token.Token, typeName string) ast.Expr {
	p.expect(token.LBrace)

	var fields []ast.FieldInit
	for !p.at(token.RBrace) {
		nameTok := p.expect(token.Identifier)
		p.expect(token.Colon)
		val := p.parseExpr()
		fields = append(fields, ast.FieldInit{Name: nameTok.Lexeme, Value: val})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)

	return &ast.StructInitExpr{
		ExprBase: ast.ExprBase{Base: ast.Base{Sp: startTok.Span.Join(end.Span)}},
		TypeName: typeName,
		Fields:   fields,
	}
}

func (p *Parser) parseListLit() ast.Expr {
	start := p.expect(token.LBracket)

	var elems []ast.Expr
	for !p.at(token.RBracket) {
		elems = append(elems, p.parseExpr())
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBracket)

	return &ast.ListLit{
		ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span.Join(end.Span)}},
		Elems:    elems,
	}
}

// parseDictLit parses `{ key: value, ... }`. Callers only reach here once
// the `{` has already been confirmed to open a dict literal rather than a
// block statement (see (*Parser).parseStmt's disambiguation).
func (p *Parser) parseDictLit() ast.Expr {
	start := p.expect(token.LBrace)

	var pairs []ast.DictPair
	for !p.at(token.RBrace) {
		key := p.parseExpr()
		p.expect(token.Colon)
		val := p.parseExpr()
		pairs = append(pairs, ast.DictPair{Key: key, Value: val})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)

	return &ast.DictLit{
		ExprBase: ast.ExprBase{Base: ast.Base{Sp: start.Span.Join(end.Span)}},
		Pairs:    pairs,
	}
}
