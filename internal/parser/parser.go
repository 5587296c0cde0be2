// Package parser builds the syntax tree from a token stream by recursive
// descent. The returned root is a Block whose statements are the file's
// top-level definitions.
package parser

import (
	"strconv"

	"github.com/hanmindev/blastfurnace-workspaces/internal/ast"
	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/lexer"
	"github.com/hanmindev/blastfurnace-workspaces/internal/token"
)

type Parser struct {
	cursor *cursor
}

func New(tokens []token.Token) *Parser {
	return &Parser{cursor: newCursor(tokens)}
}

// ParseFile lexes and parses a whole source file.
func ParseFile(filename, src string) (*ast.Block, error) {
	tokens, err := lexer.New(filename, src).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens).Parse()
}

// Parse consumes the stream up to EOF. Only definitions may appear at the
// top level.
func (p *Parser) Parse() (*ast.Block, error) {
	file := &ast.Block{}
	for p.cursor.peek().Kind != token.EOF {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		file.Stmts = append(file.Stmts, ast.Statement{Kind: def})
	}
	return file, nil
}

func (p *Parser) parseDefinition() (*ast.Definition, error) {
	switch p.cursor.peek().Kind {
	case token.STRUCT:
		return p.parseStructDef()
	case token.FN, token.REC, token.CONST:
		return p.parseFnDef()
	}
	return nil, p.unexpected("definition")
}

func (p *Parser) parseStructDef() (*ast.Definition, error) {
	p.cursor.next() // struct

	name, ok := p.cursor.accept(token.IDENT)
	if !ok {
		return nil, p.unexpected("struct name")
	}
	if _, ok := p.cursor.accept(token.OPEN_CURLY); !ok {
		return nil, p.unexpected("{")
	}

	s := &ast.Struct{}
	for p.cursor.peek().Kind != token.CLOSE_CURLY {
		field, ok := p.cursor.accept(token.IDENT)
		if !ok {
			return nil, p.unexpected("field name")
		}
		if _, ok := p.cursor.accept(token.COLON); !ok {
			return nil, p.unexpected(":")
		}
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		s.Fields = append(s.Fields, ast.StructField{Ident: ast.Ident(field.Lexeme), Ty: ty})

		if _, ok := p.cursor.accept(token.COMMA); !ok {
			break
		}
	}
	if _, ok := p.cursor.accept(token.CLOSE_CURLY); !ok {
		return nil, p.unexpected("}")
	}

	return &ast.Definition{Ident: ast.Ident(name.Lexeme), Kind: s}, nil
}

func (p *Parser) parseFnDef() (*ast.Definition, error) {
	header := ast.FnHeader{}
	for {
		if _, ok := p.cursor.accept(token.REC); ok {
			header.Rec = true
			continue
		}
		if _, ok := p.cursor.accept(token.CONST); ok {
			header.Constness = true
			continue
		}
		break
	}

	if _, ok := p.cursor.accept(token.FN); !ok {
		return nil, p.unexpected("fn")
	}
	name, ok := p.cursor.accept(token.IDENT)
	if !ok {
		return nil, p.unexpected("function name")
	}

	decl, err := p.parseFnDecl()
	if err != nil {
		return nil, err
	}

	fn := &ast.Fn{Sig: ast.FnSig{Header: header, Decl: decl}}

	// A trailing semicolon makes this a declaration without a body.
	if _, ok := p.cursor.accept(token.SEMICOLON); !ok {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Body = body
	}

	return &ast.Definition{Ident: ast.Ident(name.Lexeme), Kind: fn}, nil
}

func (p *Parser) parseFnDecl() (*ast.FnDecl, error) {
	if _, ok := p.cursor.accept(token.OPEN_PAREN); !ok {
		return nil, p.unexpected("(")
	}

	decl := &ast.FnDecl{Output: ast.Ty{Kind: ast.TyVoid}}
	for p.cursor.peek().Kind != token.CLOSE_PAREN {
		if _, ok := p.cursor.accept(token.IDENT); !ok {
			return nil, p.unexpected("parameter name")
		}
		if _, ok := p.cursor.accept(token.COLON); !ok {
			return nil, p.unexpected(":")
		}
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		decl.Inputs = append(decl.Inputs, ast.Param{Ty: ty})

		if _, ok := p.cursor.accept(token.COMMA); !ok {
			break
		}
	}
	if _, ok := p.cursor.accept(token.CLOSE_PAREN); !ok {
		return nil, p.unexpected(")")
	}

	if _, ok := p.cursor.accept(token.ARROW); ok {
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		decl.Output = *ty
	}

	return decl, nil
}

func (p *Parser) parseTy() (*ast.Ty, error) {
	switch p.cursor.peek().Kind {
	case token.VOID_TYPE:
		p.cursor.next()
		return &ast.Ty{Kind: ast.TyVoid}, nil
	case token.INT_TYPE:
		p.cursor.next()
		return &ast.Ty{Kind: ast.TyInt}, nil
	case token.FLOAT_TYPE:
		p.cursor.next()
		return &ast.Ty{Kind: ast.TyFloat}, nil
	case token.BOOL_TYPE:
		p.cursor.next()
		return &ast.Ty{Kind: ast.TyBool}, nil
	case token.STRING_TYPE:
		p.cursor.next()
		return &ast.Ty{Kind: ast.TyString}, nil
	case token.IDENT:
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return &ast.Ty{Kind: ast.TyPath, Path: path}, nil
	}
	return nil, p.unexpected("type")
}

func (p *Parser) parsePath() (*ast.Path, error) {
	first, ok := p.cursor.accept(token.IDENT)
	if !ok {
		return nil, p.unexpected("path segment")
	}

	path := &ast.Path{Segments: []ast.PathSegment{{Ident: ast.Ident(first.Lexeme)}}}
	for {
		if _, ok := p.cursor.accept(token.COLON_COLON); !ok {
			return path, nil
		}
		seg, ok := p.cursor.accept(token.IDENT)
		if !ok {
			return nil, p.unexpected("path segment")
		}
		path.Segments = append(path.Segments, ast.PathSegment{Ident: ast.Ident(seg.Lexeme)})
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, ok := p.cursor.accept(token.OPEN_CURLY); !ok {
		return nil, p.unexpected("{")
	}

	block := &ast.Block{}
	for p.cursor.peek().Kind != token.CLOSE_CURLY {
		if p.cursor.peek().Kind == token.EOF {
			return nil, p.unexpected("}")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.cursor.next() // }
	return block, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cursor.peek().Kind {
	case token.LET:
		bind, err := p.parseLocalBind()
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{Kind: bind}, nil
	case token.STRUCT, token.FN, token.REC, token.CONST:
		def, err := p.parseDefinition()
		if err != nil {
			return ast.Statement{}, err
		}
		return ast.Statement{Kind: def}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return ast.Statement{}, err
	}
	if _, ok := p.cursor.accept(token.SEMICOLON); !ok {
		return ast.Statement{}, p.unexpected(";")
	}
	return ast.Statement{Kind: expr}, nil
}

func (p *Parser) parseLocalBind() (*ast.LocalBind, error) {
	p.cursor.next() // let

	name, ok := p.cursor.accept(token.IDENT)
	if !ok {
		return nil, p.unexpected("binding name")
	}
	bind := &ast.LocalBind{Ident: ast.Ident(name.Lexeme)}

	if _, ok := p.cursor.accept(token.COLON); ok {
		ty, err := p.parseTy()
		if err != nil {
			return nil, err
		}
		bind.Ty = ty
	}

	if _, ok := p.cursor.accept(token.EQUAL); ok {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		bind.Init = expr
	}

	if _, ok := p.cursor.accept(token.SEMICOLON); !ok {
		return nil, p.unexpected(";")
	}
	return bind, nil
}

func (p *Parser) parseExpr() (*ast.Expr, error) {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.INT_LIT:
		p.cursor.next()
		value, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseError, "invalid integer literal").
				At(tok.Pos.Filename, tok.Pos.Line, tok.Pos.Column)
		}
		return constExpr(ast.IntConst(value)), nil
	case token.FLOAT_LIT:
		p.cursor.next()
		value, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeParseError, "invalid float literal").
				At(tok.Pos.Filename, tok.Pos.Line, tok.Pos.Column)
		}
		return constExpr(ast.FloatConst(value)), nil
	case token.STRING_LIT:
		p.cursor.next()
		return constExpr(ast.StringConst(tok.Lexeme)), nil
	case token.TRUE:
		p.cursor.next()
		return constExpr(ast.BoolConst(true)), nil
	case token.FALSE:
		p.cursor.next()
		return constExpr(ast.BoolConst(false)), nil
	case token.IDENT:
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: path}, nil
	case token.OPEN_CURLY:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.Expr{Kind: block}, nil
	}
	return nil, p.unexpected("expression")
}

func constExpr(kind ast.ConstantKind) *ast.Expr {
	return &ast.Expr{Kind: &ast.Constant{Kind: kind}}
}

func (p *Parser) unexpected(expected string) error {
	tok := p.cursor.peek()
	return errors.Newf(errors.CodeParseError, "expected %s, found %s", expected, tok.Kind).
		At(tok.Pos.Filename, tok.Pos.Line, tok.Pos.Column)
}
