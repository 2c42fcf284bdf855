package main

import (
	"io"

	"html2winapi/cmd/html2winapi/validation"

	"github.com/charmbracelet/lipgloss"
)

// reportStyles colours the validation summary. Output that is not a terminal
// gets plain text.
func reportStyles(w io.Writer) validation.Styles {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	warning := r.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle := r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	ok := r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	return validation.Styles{
		Title:   func(s string) string { return title.Render(s) },
		Warning: func(s string) string { return warning.Render(s) },
		Error:   func(s string) string { return errStyle.Render(s) },
		OK:      func(s string) string { return ok.Render(s) },
	}
}
