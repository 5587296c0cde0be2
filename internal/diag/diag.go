// Package diag renders compiler diagnostics for the terminal.
package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hanmindev/blastfurnace-workspaces/internal/errors"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// Render formats one diagnostic as a single line.
func Render(err *errors.CompileError) string {
	var sb strings.Builder
	sb.WriteString(errorStyle.Render("error"))
	sb.WriteString(codeStyle.Render(fmt.Sprintf("[%s]", err.Code)))
	sb.WriteString(": ")
	sb.WriteString(err.Message)

	if file, ok := err.Context[errors.CtxFile]; ok {
		pos := fmt.Sprintf(" at %v", file)
		if line, ok := err.Context[errors.CtxLine]; ok {
			pos += fmt.Sprintf(":%v", line)
			if col, ok := err.Context[errors.CtxColumn]; ok {
				pos += fmt.Sprintf(":%v", col)
			}
		}
		sb.WriteString(positionStyle.Render(pos))
	}
	return sb.String()
}

// RenderAll formats a batch of diagnostics, one per line.
func RenderAll(diags []*errors.CompileError) string {
	var sb strings.Builder
	for _, d := range diags {
		sb.WriteString(Render(d))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Summary formats the end-of-build line.
func Summary(files, functions, errorCount int) string {
	if errorCount > 0 {
		return errorStyle.Render(fmt.Sprintf("build failed: %d error(s) in %d file(s)", errorCount, files))
	}
	return successStyle.Render(fmt.Sprintf("compiled %d file(s) into %d function(s)", files, functions))
}
