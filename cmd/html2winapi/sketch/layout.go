package sketch

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Defaults are the layout values used when a sketch element does not carry
// data-x, data-y, data-width or data-height.
type Defaults struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Step is the vertical distance between stacked controls.
	Step int `yaml:"step"`
}

// DefaultLayout returns the stock layout: controls 200x24 at x=10, stacked
// every 30 pixels from y=10.
func DefaultLayout() Defaults {
	return Defaults{X: 10, Y: 10, Width: 200, Height: 24, Step: 30}
}

// gap is the vertical space left below a control.
func (d Defaults) gap() int {
	if g := d.Step - d.Height; g > 0 {
		return g
	}
	return 0
}

// Box is the resolved position and size of a control.
type Box struct {
	X, Y, W, H int
}

func (b Box) String() string {
	return fmt.Sprintf("%d, %d, %d, %d", b.X, b.Y, b.W, b.H)
}

// Cursor is the running vertical position at which the next control is placed
// unless the sketch positions it explicitly.
type Cursor struct {
	Y int
}

// Layout attribute names.
const (
	attrX      = "data-x"
	attrY      = "data-y"
	attrWidth  = "data-width"
	attrHeight = "data-height"
)

// resolveBox computes the box of n from its layout attributes, the kind's
// default size and the cursor. It returns the cursor advanced past the
// control and one message per malformed attribute.
func resolveBox(n *html.Node, d Defaults, k kind, cur Cursor) (Box, Cursor, []string) {
	var diags []string
	num := func(name string, def int) int {
		v, msg := intAttr(n, name, def)
		if msg != "" {
			diags = append(diags, msg)
		}
		return v
	}
	w, h := d.Width, d.Height
	if k.width > 0 {
		w = k.width
	}
	if k.height > 0 {
		h = k.height
	}
	b := Box{
		X: num(attrX, d.X),
		Y: num(attrY, cur.Y),
		W: num(attrWidth, w),
		H: num(attrHeight, h),
	}
	advance := d.Step
	if k.advance > 0 {
		advance = k.advance
	}
	return b, Cursor{Y: b.Y + advance}, diags
}

// intAttr parses an integer attribute. A missing attribute yields def; a
// malformed one yields def and a warning message.
func intAttr(n *html.Node, name string, def int) (int, string) {
	raw, ok := lookupAttr(n, name)
	if !ok {
		return def, ""
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Sprintf("Invalid %s=%q on <%s>: using %d", name, raw, n.Data, def)
	}
	return v, ""
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := lookupAttr(n, name)
	return ok
}
