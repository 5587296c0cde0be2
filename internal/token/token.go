// Package token defines the lexical vocabulary of the blastfurnace language.
package token

import "fmt"

type Kind int

const (
	EOF Kind = iota
	INVALID

	IDENT
	INT_LIT
	FLOAT_LIT
	STRING_LIT

	// Keywords
	FN
	STRUCT
	LET
	REC
	CONST
	TRUE
	FALSE

	// Primitive type keywords
	VOID_TYPE
	INT_TYPE
	FLOAT_TYPE
	BOOL_TYPE
	STRING_TYPE

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN
	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY
	// ,
	COMMA
	// ;
	SEMICOLON
	// :
	COLON
	// ::
	COLON_COLON
	// ->
	ARROW
	// =
	EQUAL
)

var Keywords = map[string]Kind{
	"fn":     FN,
	"struct": STRUCT,
	"let":    LET,
	"rec":    REC,
	"const":  CONST,
	"true":   TRUE,
	"false":  FALSE,
	"void":   VOID_TYPE,
	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"bool":   BOOL_TYPE,
	"string": STRING_TYPE,
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case INVALID:
		return "INVALID"
	case IDENT:
		return "identifier"
	case INT_LIT:
		return "integer literal"
	case FLOAT_LIT:
		return "float literal"
	case STRING_LIT:
		return "string literal"
	case FN:
		return "fn"
	case STRUCT:
		return "struct"
	case LET:
		return "let"
	case REC:
		return "rec"
	case CONST:
		return "const"
	case TRUE:
		return "true"
	case FALSE:
		return "false"
	case VOID_TYPE:
		return "void"
	case INT_TYPE:
		return "int"
	case FLOAT_TYPE:
		return "float"
	case BOOL_TYPE:
		return "bool"
	case STRING_TYPE:
		return "string"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case COMMA:
		return ","
	case SEMICOLON:
		return ";"
	case COLON:
		return ":"
	case COLON_COLON:
		return "::"
	case ARROW:
		return "->"
	case EQUAL:
		return "="
	}
	return "unknown"
}

type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

type Token struct {
	Kind   Kind
	Lexeme string
	Pos    Position
}

func New(kind Kind, lexeme string, pos Position) Token {
	return Token{Kind: kind, Lexeme: lexeme, Pos: pos}
}
