package parser

import "github.com/hanmindev/blastfurnace-workspaces/internal/token"

// cursor walks the token stream produced by the lexer. The stream always ends
// with EOF, so peek past the end is safe.
type cursor struct {
	tokens []token.Token
	offset int
}

func newCursor(tokens []token.Token) *cursor {
	return &cursor{tokens: tokens}
}

func (c *cursor) peek() token.Token {
	if c.offset >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[c.offset]
}

func (c *cursor) next() token.Token {
	tok := c.peek()
	if c.offset < len(c.tokens) {
		c.offset++
	}
	return tok
}

func (c *cursor) accept(kind token.Kind) (token.Token, bool) {
	if c.peek().Kind == kind {
		return c.next(), true
	}
	return c.peek(), false
}
