package lexer

import "github.com/hanmindev/blastfurnace-workspaces/internal/token"

// cursor walks a rune slice while tracking source position.
type cursor struct {
	filename string
	src      []rune
	offset   int
	line     int
	column   int
}

func newCursor(filename string, src string) *cursor {
	return &cursor{filename: filename, src: []rune(src), line: 1, column: 1}
}

func (c *cursor) eof() bool {
	return c.offset >= len(c.src)
}

func (c *cursor) peek() rune {
	if c.eof() {
		return 0
	}
	return c.src[c.offset]
}

func (c *cursor) peekAt(ahead int) rune {
	if c.offset+ahead >= len(c.src) {
		return 0
	}
	return c.src[c.offset+ahead]
}

func (c *cursor) skip() {
	if c.eof() {
		return
	}
	if c.src[c.offset] == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	c.offset++
}

func (c *cursor) readWhile(pred func(rune) bool) string {
	start := c.offset
	for !c.eof() && pred(c.peek()) {
		c.skip()
	}
	return string(c.src[start:c.offset])
}

func (c *cursor) position() token.Position {
	return token.Position{Filename: c.filename, Line: c.line, Column: c.column}
}
