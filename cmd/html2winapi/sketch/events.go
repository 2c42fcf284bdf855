package sketch

import "golang.org/x/net/html"

// eventAttrs are the recognised handler attributes, in emission order.
var eventAttrs = []string{"onclick", "onchange", "onselect", "oncheck"}

// Events maps handler names to the key of the element that declared them.
type Events struct {
	owners map[string]string
	order  []string
}

// NewEvents returns an empty handler registry.
func NewEvents() *Events {
	return &Events{owners: make(map[string]string)}
}

// Register records handler for key. When another element already owns the
// handler, the first owner is kept and returned with conflict set.
func (e *Events) Register(handler, key string) (owner string, conflict bool) {
	if prev, ok := e.owners[handler]; ok {
		return prev, prev != key
	}
	e.owners[handler] = key
	e.order = append(e.order, handler)
	return key, false
}

// Owner returns the key that owns handler.
func (e *Events) Owner(handler string) (string, bool) {
	k, ok := e.owners[handler]
	return k, ok
}

// Handlers returns the registered handler names in registration order.
func (e *Events) Handlers() []string {
	return append([]string(nil), e.order...)
}

// handlerAttrs returns the non-empty handler names declared on n.
func handlerAttrs(n *html.Node) []string {
	var out []string
	for _, name := range eventAttrs {
		if h := attr(n, name); h != "" {
			out = append(out, h)
		}
	}
	return out
}
