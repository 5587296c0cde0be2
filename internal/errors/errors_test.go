package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(CodeUndefinedSymbol, "cannot find symbol")
	if got := err.Error(); got != "[UNDEFINED_SYMBOL] cannot find symbol" {
		t.Errorf("Expected formatted code and message, got %s", got)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := fmt.Errorf("read failed")
	err := Wrap(inner, CodeIOError, "cannot load source")

	if !errors.Is(err, inner) {
		t.Error("Expected wrapped error to unwrap to the inner error")
	}
	if !strings.Contains(err.Error(), "read failed") {
		t.Errorf("Expected inner message in output, got %s", err.Error())
	}
}

func TestIsCode(t *testing.T) {
	err := Newf(CodeTypeMismatch, "expected %s, found %s", "int", "string")
	wrapped := fmt.Errorf("checking: %w", err)

	if !IsCode(wrapped, CodeTypeMismatch) {
		t.Error("Expected IsCode to see through wrapping")
	}
	if IsCode(wrapped, CodeParseError) {
		t.Error("Expected IsCode to reject a different code")
	}
	if IsCode(errors.New("plain"), CodeTypeMismatch) {
		t.Error("Expected IsCode to reject non-compile errors")
	}
}

func TestAtContext(t *testing.T) {
	err := New(CodeParseError, "unexpected token").At("main.bf", 3, 14)

	if err.Context[CtxFile] != "main.bf" {
		t.Errorf("Expected file context main.bf, got %v", err.Context[CtxFile])
	}
	if err.Context[CtxLine] != 3 || err.Context[CtxColumn] != 14 {
		t.Errorf("Expected position 3:14, got %v:%v", err.Context[CtxLine], err.Context[CtxColumn])
	}
}
