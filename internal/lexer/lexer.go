// Package lexer turns blastfurnace source text into a token stream.
package lexer

import (
	"strings"
	"unicode"

	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
	"github.com/hanmindev/blastfurnace-workspaces/internal/token"
)

type Lexer struct {
	cursor *cursor
}

func New(filename, src string) *Lexer {
	return &Lexer{cursor: newCursor(filename, src)}
}

// Tokenize consumes the whole input and returns the token stream, always
// terminated by an EOF token.
func (lex *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		lex.skipWhitespaceAndComments()
		if lex.cursor.eof() {
			break
		}

		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, token.New(token.EOF, "", lex.cursor.position()))
	return tokens, nil
}

func (lex *Lexer) skipWhitespaceAndComments() {
	for {
		lex.cursor.readWhile(unicode.IsSpace)
		if lex.cursor.peek() == '/' && lex.cursor.peekAt(1) == '/' {
			lex.cursor.readWhile(func(r rune) bool { return r != '\n' })
			continue
		}
		return
	}
}

func (lex *Lexer) next() (token.Token, error) {
	pos := lex.cursor.position()
	character := lex.cursor.peek()

	switch character {
	case '(':
		lex.cursor.skip()
		return token.New(token.OPEN_PAREN, "(", pos), nil
	case ')':
		lex.cursor.skip()
		return token.New(token.CLOSE_PAREN, ")", pos), nil
	case '{':
		lex.cursor.skip()
		return token.New(token.OPEN_CURLY, "{", pos), nil
	case '}':
		lex.cursor.skip()
		return token.New(token.CLOSE_CURLY, "}", pos), nil
	case ',':
		lex.cursor.skip()
		return token.New(token.COMMA, ",", pos), nil
	case ';':
		lex.cursor.skip()
		return token.New(token.SEMICOLON, ";", pos), nil
	case '=':
		lex.cursor.skip()
		return token.New(token.EQUAL, "=", pos), nil
	case ':':
		lex.cursor.skip()
		if lex.cursor.peek() == ':' {
			lex.cursor.skip()
			return token.New(token.COLON_COLON, "::", pos), nil
		}
		return token.New(token.COLON, ":", pos), nil
	case '-':
		lex.cursor.skip()
		if lex.cursor.peek() == '>' {
			lex.cursor.skip()
			return token.New(token.ARROW, "->", pos), nil
		}
		return token.Token{}, errors.Newf(errors.CodeParseError, "unexpected character '-'").
			At(pos.Filename, pos.Line, pos.Column)
	case '"':
		return lex.stringLiteral(pos)
	}

	if unicode.IsLetter(character) || character == '_' {
		lexeme := lex.cursor.readWhile(func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		})
		if kind, ok := token.Keywords[lexeme]; ok {
			return token.New(kind, lexeme, pos), nil
		}
		return token.New(token.IDENT, lexeme, pos), nil
	}

	if unicode.IsDigit(character) {
		return lex.numberLiteral(pos), nil
	}

	return token.Token{}, errors.Newf(errors.CodeParseError, "invalid character %q", character).
		At(pos.Filename, pos.Line, pos.Column)
}

func (lex *Lexer) numberLiteral(pos token.Position) token.Token {
	digits := lex.cursor.readWhile(unicode.IsDigit)
	if lex.cursor.peek() == '.' && unicode.IsDigit(lex.cursor.peekAt(1)) {
		lex.cursor.skip()
		frac := lex.cursor.readWhile(unicode.IsDigit)
		return token.New(token.FLOAT_LIT, digits+"."+frac, pos)
	}
	return token.New(token.INT_LIT, digits, pos)
}

func (lex *Lexer) stringLiteral(pos token.Position) (token.Token, error) {
	lex.cursor.skip() // opening quote

	var sb strings.Builder
	for {
		if lex.cursor.eof() || lex.cursor.peek() == '\n' {
			return token.Token{}, errors.New(errors.CodeParseError, "unterminated string literal").
				At(pos.Filename, pos.Line, pos.Column)
		}
		if lex.cursor.peek() == '"' {
			lex.cursor.skip()
			return token.New(token.STRING_LIT, sb.String(), pos), nil
		}
		sb.WriteRune(lex.cursor.peek())
		lex.cursor.skip()
	}
}
