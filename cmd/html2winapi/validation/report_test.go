package validation

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func TestReport_UnsupportedAggregatesToOneWarning(t *testing.T) {
	r := New()
	for _, tag := range []string{"span", "form", "span", "span", "table", "form"} {
		r.Unsupported(tag)
	}
	r.Warn("Container nesting depth 5 exceeds recommended maximum 4")

	warnings := r.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}
	mustContain(t, warnings[0], "form, span, table")
	if strings.Count(warnings[0], "span") != 1 {
		t.Fatalf("tag listed more than once: %q", warnings[0])
	}
	if got := r.UnsupportedTags(); strings.Join(got, ",") != "form,span,table" {
		t.Fatalf("unexpected tags %v", got)
	}
}

func TestReport_Fail(t *testing.T) {
	r := New()
	err := r.Fail("Duplicate ID %d for %s", 101, "b")
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected FatalError, got %T", err)
	}
	if fatal.Msg != "Duplicate ID 101 for b" {
		t.Fatalf("unexpected message %q", fatal.Msg)
	}
	if len(r.Errors()) != 1 || r.Empty() {
		t.Fatal("error not recorded")
	}
}

func TestReport_SummaryNoIssues(t *testing.T) {
	var buf bytes.Buffer
	New().Summary(&buf, Styles{})
	mustContain(t, buf.String(), "==== Validation Report ====", "No validation issues detected.")
}

func TestReport_SummarySections(t *testing.T) {
	r := New()
	r.Warn("Label 'Age' references missing input 'age'")
	r.Unsupported("span")
	_ = r.Fail("Duplicate ID 101 for b")

	var buf bytes.Buffer
	r.Summary(&buf, Styles{Warning: func(s string) string { return "!" + s }})
	out := buf.String()
	mustContain(t, out,
		"Warnings:",
		"  - !Label 'Age' references missing input 'age'",
		"Errors:",
		"  - Duplicate ID 101 for b",
		"Unsupported HTML elements: !span",
	)
	if strings.Contains(out, "No validation issues") {
		t.Fatalf("unexpected ok line in %q", out)
	}
}

func TestReport_ZeroValueUsable(t *testing.T) {
	var r Report
	r.Unsupported("span")
	if len(r.Warnings()) != 1 {
		t.Fatal("expected aggregated warning from zero value")
	}
}
