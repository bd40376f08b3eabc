package parser

import (
	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/token"
)

// parseTypeExpr parses a type annotation: a primitive keyword, `List[T]`,
// `Dict[K,V]`, or a bare identifier naming a struct or enum (resolved during
// semantic analysis, not here — spec.md §4.2 "When a type annotation is a
// bare identifier...").
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur()

	switch start.Kind {
	case token.KwInt, token.KwFloat, token.KwBool, token.KwStr:
		p.advance()
		return &ast.NamedType{Base: ast.Base{Sp: start.Span}, Name: start.Lexeme}
	case token.Identifier:
		p.advance()
		if start.Lexeme == "List" && p.at(token.LBracket) {
			p.advance()
			elem := p.parseTypeExpr()
			end := p.expect(token.RBracket)
			return &ast.ListTypeExpr{Base: ast.Base{Sp: start.Span.Join(end.Span)}, Elem: elem}
		}
		return &ast.NamedType{Base: ast.Base{Sp: start.Span}, Name: start.Lexeme}
	case token.KwDict:
		p.advance()
		p.expect(token.LBracket)
		key := p.parseTypeExpr()
		p.expect(token.Comma)
		val := p.parseTypeExpr()
		end := p.expect(token.RBracket)
		return &ast.DictTypeExpr{Base: ast.Base{Sp: start.Span.Join(end.Span)}, Key: key, Value: val}
	default:
		p.errorf("expected type, got %s", start)
		panic(bail{})
	}
}

// parseFuncDecl parses `fn IDENT ( PARAM,... ) -> TYPE BLOCK`; the return
// type is mandatory, and every parameter carries an explicit type
// (spec.md §4.2).
func (p *Parser) parseFuncDecl() ast.Node {
	start := p.expect(token.Fn)
	nameTok := p.expect(token.Identifier)

	p.expect(token.LParen)
	var params []ast.Param
	for !p.at(token.RParen) {
		pname := p.expect(token.Identifier)
		p.expect(token.Colon)
		ptyp := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname.Lexeme, Type: ptyp})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RParen)
	p.expect(token.Arrow)
	retType := p.parseTypeExpr()

	body := p.parseBlock()

	return &ast.FuncDecl{
		Base:       ast.Base{Sp: start.Span.Join(body.Span())},
		Name:       nameTok.Lexeme,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

// parseStructDecl parses `struct IDENT { field: type, ... }`.
func (p *Parser) parseStructDecl() ast.Node {
	start := p.expect(token.Struct)
	nameTok := p.expect(token.Identifier)

	p.expect(token.LBrace)
	var fields []ast.FieldDecl
	for !p.at(token.RBrace) {
		fname := p.expect(token.Identifier)
		p.expect(token.Colon)
		ftyp := p.parseTypeExpr()
		fields = append(fields, ast.FieldDecl{Name: fname.Lexeme, Type: ftyp})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)

	return &ast.StructDecl{
		Base:   ast.Base{Sp: start.Span.Join(end.Span)},
		Name:   nameTok.Lexeme,
		Fields: fields,
	}
}

// parseEnumDecl parses `enum IDENT { Variant, ... }`.
func (p *Parser) parseEnumDecl() ast.Node {
	start := p.expect(token.Enum)
	nameTok := p.expect(token.Identifier)

	p.expect(token.LBrace)
	var variants []string
	for !p.at(token.RBrace) {
		vTok := p.expect(token.Identifier)
		variants = append(variants, vTok.Lexeme)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.expect(token.RBrace)

	return &ast.EnumDecl{
		Base:     ast.Base{Sp: start.Span.Join(end.Span)},
		Name:     nameTok.Lexeme,
		Variants: variants,
	}
}

// parseImportDecl parses `import IDENT` (opaque Python module) or
// `import "./path.qsr"` (local file, resolved relative to the importing
// file's directory during semantic analysis).
func (p *Parser) parseImportDecl() ast.Node {
	start := p.expect(token.Import)

	if p.at(token.StringLit) {
		pathTok := p.advance()
		path := pathTok.Value.(string)
		return &ast.ImportDecl{
			Base:   ast.Base{Sp: start.Span.Join(pathTok.Span)},
			Python: false,
			Path:   path,
		}
	}

	nameTok := p.expect(token.Identifier)
	return &ast.ImportDecl{
		Base:   ast.Base{Sp: start.Span.Join(nameTok.Span)},
		Python: true,
		Name:   nameTok.Lexeme,
	}
}
