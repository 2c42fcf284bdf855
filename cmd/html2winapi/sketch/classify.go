package sketch

import (
	"strings"

	"golang.org/x/net/html"
)

// Classifiers index the kind table.
const (
	classText     = "input:text"
	classPassword = "input:password"
	classCheckbox = "input:checkbox"
	classRadio    = "input:radio"
	classRange    = "input:range"
	classSelect   = "select"
	classList     = "ul"
	classGroup    = "div:group"
	classTab      = "div:tab"
	classProgress = "progress"
	classButton   = "button"
	classLabel    = "label"
)

// structural tags are transparent: neither controls nor unsupported.
var structural = map[string]bool{
	"html": true,
	"head": true,
	"body": true,
}

var tabClasses = map[string]bool{
	"tabs":        true,
	"tabcontrol":  true,
	"tab-control": true,
}

// classify returns the classifier of n. When n is not supported, ok is false
// and the classifier holds the name to report.
func classify(n *html.Node) (classifier string, ok bool) {
	switch n.Data {
	case "input":
		typ := strings.ToLower(attr(n, "type"))
		if typ == "" {
			typ = "text"
		}
		c := "input:" + typ
		if _, known := kinds[c]; known {
			return c, true
		}
		return "input[type=" + typ + "]", false
	case "div":
		if isTabStrip(n) {
			return classTab, true
		}
		return classGroup, true
	case "select", "ul", "progress", "button", "label":
		return n.Data, true
	}
	return n.Data, false
}

func isTabStrip(n *html.Node) bool {
	switch strings.ToLower(attr(n, "data-type")) {
	case "tabs", "tabcontrol", "tab":
		return true
	case "group", "groupbox":
		return false
	}
	for _, c := range strings.Fields(strings.ToLower(attr(n, "class"))) {
		if tabClasses[c] {
			return true
		}
	}
	return false
}

// walkedChildren returns the children of n that are visited as elements of
// their own. Options, list items and tab pages are consumed by their parent.
func walkedChildren(n *html.Node, classifier string) []*html.Node {
	switch classifier {
	case classSelect, classList:
		return nil
	case classTab:
		var out []*html.Node
		for _, c := range elementChildren(n, "") {
			if c.Data != "button" {
				out = append(out, c)
			}
		}
		return out
	}
	return elementChildren(n, "")
}

// visit calls fn for every supported element in walk order. Structural and
// unsupported elements are transparent; supported ones only expose their
// walked children.
func visit(nodes []*html.Node, fn func(n *html.Node, classifier string)) {
	for _, n := range nodes {
		cls, ok := classify(n)
		if structural[n.Data] || !ok {
			visit(elementChildren(n, ""), fn)
			continue
		}
		fn(n, cls)
		visit(walkedChildren(n, cls), fn)
	}
}
