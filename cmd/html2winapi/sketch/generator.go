// Package sketch turns an HTML UI sketch into C++ statements building the
// equivalent WinAPI controls from GuiElements.hpp.
//
// Supported tags are label, input (text, password, checkbox, radio, range),
// select, ul, div (group box or tab strip), progress and button. Every
// supported element gets a persistent control id from the registry; layout,
// captions and event handler stubs are resolved while walking the document in
// order.
package sketch

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"html2winapi/cmd/html2winapi/registry"
	"html2winapi/cmd/html2winapi/validation"

	"golang.org/x/net/html"
)

// Header lines opening every generated block.
var header = []string{
	"// Auto-generated C++ WinAPI GUI code from HTML sketch",
	"std::vector<GuiElement*> elements;",
}

const (
	DefaultMaxDepth = 4
	// groupPadding is the space between a group box's top edge and its first child.
	groupPadding = 20
)

// Options tune generation.
type Options struct {
	Layout   Defaults
	MaxDepth int
	// UniqueFallbackKeys numbers anonymous elements of the same kind instead
	// of letting them collide on one fallback key.
	UniqueFallbackKeys bool
}

// DefaultOptions returns the stock layout and a maximum nesting depth of 4.
func DefaultOptions() Options {
	return Options{Layout: DefaultLayout(), MaxDepth: DefaultMaxDepth}
}

func (o Options) normalized() Options {
	d := DefaultLayout()
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Layout.Width <= 0 {
		o.Layout.Width = d.Width
	}
	if o.Layout.Height <= 0 {
		o.Layout.Height = d.Height
	}
	if o.Layout.Step <= 0 {
		o.Layout.Step = d.Step
	}
	return o
}

// Result is the output of a successful run.
type Result struct {
	Lines    []string
	Controls []Control
	Events   *Events
}

// Code joins the generated lines.
func (r *Result) Code() string {
	return strings.Join(r.Lines, "\n")
}

// generator carries the state of one walk: the layout cursor, container
// depth, handler owners and the output buffer.
type generator struct {
	opts     Options
	reg      *registry.Registry
	claims   *registry.Claims
	report   *validation.Report
	events   *Events
	keys     keyTable
	captions *captions
	// vars maps each emitted C++ variable name to its control key.
	vars     map[string]string

	cursor   Cursor
	depth    int
	out      []string
	controls []Control
}

// Generate parses the sketch read from r and returns the generated C++ lines.
// New stable keys are added to reg; diagnostics go to report. A duplicate
// control id is fatal: Generate stops at once and returns the
// *validation.FatalError with no result.
func Generate(r io.Reader, reg *registry.Registry, report *validation.Report, opts Options) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing sketch: %w", err)
	}
	return GenerateDocument(doc, reg, report, opts)
}

// GenerateDocument is Generate for an already parsed document.
func GenerateDocument(doc *html.Node, reg *registry.Registry, report *validation.Report, opts Options) (*Result, error) {
	opts = opts.normalized()
	keys := assignKeys(doc, opts.UniqueFallbackKeys)
	caps, diags := collectCaptions(doc, keys)
	g := &generator{
		opts:     opts,
		reg:      reg,
		claims:   registry.NewClaims(),
		report:   report,
		events:   NewEvents(),
		keys:     keys,
		captions: caps,
		vars:     make(map[string]string),
		cursor:   Cursor{Y: opts.Layout.Y},
	}
	g.warnAll(diags)
	g.out = append(g.out, header...)
	if err := g.walk(elementChildren(doc, "")); err != nil {
		return nil, err
	}
	return &Result{Lines: g.out, Controls: g.controls, Events: g.events}, nil
}

func (g *generator) warnAll(diags []string) {
	for _, d := range diags {
		g.report.Warn("%s", d)
	}
}

func (g *generator) walk(nodes []*html.Node) error {
	for _, n := range nodes {
		if err := g.element(n); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) element(n *html.Node) error {
	if structural[n.Data] {
		return g.walk(elementChildren(n, ""))
	}
	cls, ok := classify(n)
	if !ok {
		g.report.Unsupported(cls)
		return g.walk(elementChildren(n, ""))
	}
	k := kinds[cls]

	if cls == classLabel {
		if ref := attr(n, "for"); ref != "" {
			if g.captions.known(ref) {
				// Folded into the referenced control's emission.
				return g.walk(walkedChildren(n, cls))
			}
			g.report.Warn("Label '%s' references missing input '%s'", textOf(n), ref)
		}
	}

	c, ok, err := g.resolve(n, k)
	if err != nil || !ok {
		return err
	}
	if k.container {
		return g.container(n, cls, k, c)
	}
	g.emit(n, k, c)
	return g.walk(walkedChildren(n, cls))
}

// resolve assigns the stable key, control id, box, caption and handlers of n.
// ok is false when the element is skipped because its key was already emitted.
// Handlers already owned by another element are reported and left out; a
// handler named twice on one element is kept once. Keys that sanitize to an
// already emitted variable name get the id appended.
func (g *generator) resolve(n *html.Node, k kind) (c Control, ok bool, err error) {
	key := g.keys[n]
	id := g.reg.GetOrAssign(key)
	if err := g.claims.Claim(id, key); err != nil {
		if errors.Is(err, registry.ErrKeyReused) {
			g.report.Warn("Duplicate key '%s' on <%s>: element skipped, give it a unique id attribute", key, n.Data)
			return Control{}, false, nil
		}
		var dup *registry.DuplicateIDError
		if errors.As(err, &dup) {
			return Control{}, false, g.report.Fail("%s", dup.Error())
		}
		return Control{}, false, err
	}

	box, next, diags := resolveBox(n, g.opts.Layout, k, g.cursor)
	g.warnAll(diags)
	g.cursor = next

	c = Control{
		Key: key,
		ID:  id,
		Var: g.variable(k.prefix+"_"+ident(key), key, id),
		Box: box,
	}
	if k.captionable {
		c.Caption, _ = g.captions.caption(key)
	}
	for _, h := range handlerAttrs(n) {
		if slices.Contains(c.Handlers, h) {
			continue
		}
		if owner, conflict := g.events.Register(h, key); conflict {
			g.report.Warn("Event handler '%s' multiply assigned (previously for %s)", h, owner)
			continue
		}
		c.Handlers = append(c.Handlers, h)
	}
	return c, true, nil
}

// variable reserves a C++ variable name for key, renaming it when another
// control already uses it.
func (g *generator) variable(name, key string, id int) string {
	if owner, taken := g.vars[name]; taken {
		renamed := fmt.Sprintf("%s_%d", name, id)
		g.report.Warn("Controls '%s' and '%s' both map to C++ variable %s: using %s", owner, key, name, renamed)
		name = renamed
	}
	g.vars[name] = key
	return name
}

func (g *generator) emit(n *html.Node, k kind, c Control) {
	if c.Caption != "" {
		g.out = append(g.out, fmt.Sprintf("// Label: %s for %s %s", lineComment(c.Caption), k.label, lineComment(c.Key)))
	}
	lines, diags := k.emit(c, n)
	g.warnAll(diags)
	g.out = append(g.out, lines...)
	for _, h := range c.Handlers {
		g.out = append(g.out, fmt.Sprintf("// Event: %s for %s (stub to be implemented)", lineComment(h), lineComment(c.Key)))
	}
	g.controls = append(g.controls, c)
}

func (g *generator) container(n *html.Node, cls string, k kind, c Control) error {
	g.depth++
	defer func() { g.depth-- }()
	if g.depth > g.opts.MaxDepth {
		g.report.Warn("Container nesting depth %d exceeds recommended maximum %d", g.depth, g.opts.MaxDepth)
	}

	if cls == classTab {
		g.emit(n, k, c)
		return g.walk(walkedChildren(n, cls))
	}

	// A group box is emitted ahead of its children but sized after them.
	outer, slot := g.out, len(g.controls)
	g.out = nil
	g.cursor = Cursor{Y: c.Box.Y + groupPadding}
	if err := g.walk(walkedChildren(n, cls)); err != nil {
		return err
	}
	inner := g.out
	g.out = outer

	if !hasAttr(n, attrHeight) {
		c.Box.H = max(g.cursor.Y-c.Box.Y, g.opts.Layout.Height)
	}
	g.cursor = Cursor{Y: c.Box.Y + c.Box.H + g.opts.Layout.gap()}

	children := slices.Clone(g.controls[slot:])
	g.controls = g.controls[:slot]
	g.emit(n, k, c)
	g.controls = append(g.controls, children...)
	g.out = append(g.out, inner...)
	return nil
}
