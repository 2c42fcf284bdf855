// Package autogen splices generated code into the marker region of a
// hand-maintained source file.
package autogen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	DefaultStart = "// AUTOGEN START"
	DefaultEnd   = "// AUTOGEN END"
)

var (
	ErrMarkerMissing = errors.New("missing AUTOGEN marker")
	ErrMarkerOrder   = errors.New("AUTOGEN start marker follows end marker")
	ErrEmptyMarker   = errors.New("empty marker")
	ErrSameMarkers   = errors.New("start and end markers are identical")
)

// MarkerError reports a target file whose marker region cannot be located.
type MarkerError struct {
	Path    string
	Markers Markers
	Err     error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("missing or altered AUTOGEN markers in %s (%q ... %q): %v. Aborting regeneration",
		e.Path, e.Markers.Start, e.Markers.End, e.Err)
}

func (e *MarkerError) Unwrap() error { return e.Err }

// Markers are the two sentinel lines delimiting the generated region.
// A line matches a marker when it equals it after trimming surrounding blanks,
// so indented markers are found.
type Markers struct {
	Start string
	End   string
}

// Default returns the // AUTOGEN START / // AUTOGEN END pair.
func Default() Markers {
	return Markers{Start: DefaultStart, End: DefaultEnd}
}

// Validate checks that the markers can delimit a region.
func (m Markers) Validate() error {
	if strings.TrimSpace(m.Start) == "" || strings.TrimSpace(m.End) == "" {
		return ErrEmptyMarker
	}
	if strings.TrimSpace(m.Start) == strings.TrimSpace(m.End) {
		return ErrSameMarkers
	}
	return nil
}

// region locates the marker lines in content. bodyStart is the offset just
// past the start marker line, bodyEnd the offset of the end marker line.
type region struct {
	bodyStart int
	bodyEnd   int
	eol       string
}

func (m Markers) locate(content []byte) (region, error) {
	start, end := strings.TrimSpace(m.Start), strings.TrimSpace(m.End)
	startIdx, endIdx := -1, -1
	var r region
	offset := 0
	for offset < len(content) {
		lineEnd := bytes.IndexByte(content[offset:], '\n')
		next := len(content)
		if lineEnd >= 0 {
			next = offset + lineEnd + 1
		}
		trimmed := string(bytes.TrimSpace(content[offset:next]))
		if startIdx == -1 && trimmed == start {
			startIdx = offset
			r.bodyStart = next
			r.eol = "\n"
			if bytes.HasSuffix(content[offset:next], []byte("\r\n")) {
				r.eol = "\r\n"
			}
		}
		if endIdx == -1 && trimmed == end {
			endIdx = offset
			r.bodyEnd = offset
		}
		if startIdx != -1 && endIdx != -1 {
			break
		}
		offset = next
	}
	if startIdx == -1 || endIdx == -1 {
		return region{}, ErrMarkerMissing
	}
	if startIdx > endIdx {
		return region{}, ErrMarkerOrder
	}
	// A start marker on the last line without a newline cannot precede an
	// end marker, so bodyStart <= bodyEnd holds here.
	return r, nil
}

// body normalizes generated text to eol-terminated lines.
func body(text, eol string) string {
	text = strings.TrimRight(text, "\r\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return strings.Join(lines, eol) + eol
}

// Splice replaces everything strictly between the marker lines of content with
// text. Bytes before the start marker line's newline and from the end marker
// line onward are preserved.
func (m Markers) Splice(content []byte, text string) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	r, err := m.locate(content)
	if err != nil {
		return nil, err
	}
	b := body(text, r.eol)
	out := make([]byte, 0, r.bodyStart+len(b)+len(content)-r.bodyEnd)
	out = append(out, content[:r.bodyStart]...)
	out = append(out, b...)
	out = append(out, content[r.bodyEnd:]...)
	return out, nil
}

// New returns the content of a fresh file holding only the marker region.
func (m Markers) New(text string) []byte {
	return []byte(m.Start + "\n" + body(text, "\n") + m.End + "\n")
}

// Check verifies that path either does not exist or carries a well-formed
// marker region. It never writes.
func (m Markers) Check(path string) error {
	if err := m.Validate(); err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if _, err := m.locate(content); err != nil {
		return &MarkerError{Path: path, Markers: m, Err: err}
	}
	return nil
}

// Write merges text into the marker region of path, creating the file when it
// does not exist. Returns true if the file was created or modified. A file
// with missing or reversed markers is left untouched and a *MarkerError is
// returned.
func (m Markers) Write(path, text string) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.WriteFile(path, m.New(text), 0o644); err != nil {
			return false, fmt.Errorf("writing %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	updated, err := m.Splice(existing, text)
	if err != nil {
		if errors.Is(err, ErrMarkerMissing) || errors.Is(err, ErrMarkerOrder) {
			return false, &MarkerError{Path: path, Markers: m, Err: err}
		}
		return false, err
	}
	if bytes.Equal(updated, existing) {
		return false, nil
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, updated, mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
