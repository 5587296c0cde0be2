package errors

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeParseError      ErrorCode = "PARSE_ERROR"
	CodeUndefinedSymbol ErrorCode = "UNDEFINED_SYMBOL"
	CodeDuplicateSymbol ErrorCode = "DUPLICATE_SYMBOL"
	CodeTypeMismatch    ErrorCode = "TYPE_MISMATCH"
	CodeConfigError     ErrorCode = "CONFIG_ERROR"
	CodeIOError         ErrorCode = "IO_ERROR"
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// CompileError is the error every compiler stage reports. Context carries
// structured position/symbol detail for diagnostics rendering.
type CompileError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]interface{}
}

const (
	CtxFile     = "file"
	CtxLine     = "line"
	CtxColumn   = "column"
	CtxSymbol   = "symbol"
	CtxFunction = "function"
)

func (e *CompileError) WithContext(key string, value interface{}) *CompileError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, msg string) *CompileError {
	return &CompileError{Code: code, Message: msg}
}

func Newf(code ErrorCode, format string, args ...interface{}) *CompileError {
	return &CompileError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code ErrorCode, msg string) *CompileError {
	return &CompileError{Code: code, Message: msg, Err: err}
}

// At attaches file/line/column context in one call.
func (e *CompileError) At(file string, line, column int) *CompileError {
	return e.WithContext(CtxFile, file).
		WithContext(CtxLine, line).
		WithContext(CtxColumn, column)
}

func IsCode(err error, code ErrorCode) bool {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
