// Package validation collects the diagnostics of a single generation run.
package validation

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// FatalError is returned by Report.Fail. Recording it ends the run.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

// Report accumulates warnings, errors and unsupported tag names.
// The zero value is ready to use.
type Report struct {
	warnings    []string
	errors      []string
	unsupported map[string]struct{}
}

// New returns an empty Report.
func New() *Report { return &Report{} }

// Warn records a non-fatal warning.
func (r *Report) Warn(format string, args ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

// Unsupported records a tag outside the supported vocabulary.
func (r *Report) Unsupported(tag string) {
	if r.unsupported == nil {
		r.unsupported = make(map[string]struct{})
	}
	r.unsupported[tag] = struct{}{}
}

// Fail records an error and returns it as a *FatalError. Callers stop
// processing as soon as Fail is called.
func (r *Report) Fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	r.errors = append(r.errors, msg)
	return &FatalError{Msg: msg}
}

// UnsupportedTags returns the distinct unsupported tag names, sorted.
func (r *Report) UnsupportedTags() []string {
	out := make([]string, 0, len(r.unsupported))
	for tag := range r.unsupported {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Warnings returns every warning. Unsupported tags contribute one aggregated
// warning, placed first, however many times they occurred.
func (r *Report) Warnings() []string {
	tags := r.UnsupportedTags()
	if len(tags) == 0 {
		return append([]string(nil), r.warnings...)
	}
	out := make([]string, 0, len(r.warnings)+1)
	out = append(out, unsupportedWarning(tags))
	return append(out, r.warnings...)
}

// Errors returns the recorded errors.
func (r *Report) Errors() []string { return append([]string(nil), r.errors...) }

// Empty reports whether nothing at all was recorded.
func (r *Report) Empty() bool {
	return len(r.warnings) == 0 && len(r.errors) == 0 && len(r.unsupported) == 0
}

func unsupportedWarning(tags []string) string {
	return fmt.Sprintf("Ignored/unsupported HTML elements found: %s. "+
		"Suggestion: use only supported elements: label, input, select, ul (listbox), "+
		"div (groupbox/tabcontrol), progress, button.", strings.Join(tags, ", "))
}

// Styles decorates the sections of a summary. The zero value prints plain text.
type Styles struct {
	Title   func(string) string
	Warning func(string) string
	Error   func(string) string
	OK      func(string) string
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// Summary writes the human-readable report.
func (r *Report) Summary(w io.Writer, st Styles) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, apply(st.Title, "==== Validation Report ===="))
	if warnings := r.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(w, apply(st.Title, "Warnings:"))
		for _, msg := range warnings {
			fmt.Fprintln(w, "  - "+apply(st.Warning, msg))
		}
	}
	if len(r.errors) > 0 {
		fmt.Fprintln(w, apply(st.Title, "Errors:"))
		for _, msg := range r.errors {
			fmt.Fprintln(w, "  - "+apply(st.Error, msg))
		}
	}
	if tags := r.UnsupportedTags(); len(tags) > 0 {
		fmt.Fprintln(w, "Unsupported HTML elements: "+apply(st.Warning, strings.Join(tags, ", ")))
	}
	if r.Empty() {
		fmt.Fprintln(w, apply(st.OK, "No validation issues detected."))
	}
}
