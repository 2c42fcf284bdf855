package sketch

import (
	"fmt"

	"golang.org/x/net/html"
)

// captions pairs <label for=...> elements with the controls they name.
type captions struct {
	// controls holds the stable keys of every captionable control.
	controls map[string]bool
	// text maps a control key to the first label claiming it.
	text map[string]string
}

// collectCaptions scans the document ahead of generation, using the keys the
// walk will use. It returns one warning per control claimed by more than one
// label.
func collectCaptions(root *html.Node, keys keyTable) (*captions, []string) {
	c := &captions{
		controls: make(map[string]bool),
		text:     make(map[string]string),
	}
	var labels []*html.Node
	visit(elementChildren(root, ""), func(n *html.Node, cls string) {
		switch {
		case kinds[cls].captionable:
			c.controls[keys[n]] = true
		case cls == classLabel:
			labels = append(labels, n)
		}
	})

	var diags []string
	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		ref := attr(l, "for")
		if ref == "" || !c.controls[ref] {
			continue
		}
		if counts[ref] == 0 {
			order = append(order, ref)
			c.text[ref] = textOf(l)
		}
		counts[ref]++
	}
	for _, ref := range order {
		if counts[ref] > 1 {
			diags = append(diags, fmt.Sprintf("Multiple labels reference input '%s'", ref))
		}
	}
	return c, diags
}

// known reports whether key names a captionable control.
func (c *captions) known(key string) bool { return c.controls[key] }

// caption returns the label text paired with key.
func (c *captions) caption(key string) (string, bool) {
	t, ok := c.text[key]
	return t, ok
}
