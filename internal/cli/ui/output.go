// Package ui renders lookup results for the terminal.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// Color definitions for terminal output
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	kinColor     = color.New(color.FgHiYellow, color.Bold)
)

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// PrintError prints an error message
func PrintError(w io.Writer, format string, args ...interface{}) {
	errorColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	warningColor.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// PrintInfo prints an info message
func PrintInfo(w io.Writer, format string, args ...interface{}) {
	infoColor.Fprintf(w, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// KinHeadline formats a KIN with its tone and seal.
func KinHeadline(kin, tone, seal int) string {
	return fmt.Sprintf("%s  %s",
		kinColor.Sprintf("KIN %d", kin),
		Styles.Muted.Render(fmt.Sprintf("tone %d · seal %d", tone, seal)),
	)
}

// RenderKinCard boxes a headline above aligned fields.
func RenderKinCard(headline, body string) string {
	if body == "" {
		return Styles.KinBox.Render(headline)
	}
	return Styles.KinBox.Render(headline + "\n\n" + body)
}
