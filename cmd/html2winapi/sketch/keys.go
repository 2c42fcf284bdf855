package sketch

import (
	"fmt"

	"golang.org/x/net/html"
)

// keyTable holds the stable key of every supported element. It is computed
// once per document so label pairing and the walk see the same keys.
type keyTable map[*html.Node]string

// assignKeys derives the stable keys of a document. An id attribute is the
// key; otherwise the kind's fallback key is used. With unique set, repeated
// fallback keys are numbered "<fallback>_<n>" and never take a key used by an
// explicit id. Controls are numbered before standalone labels, so adding or
// removing labels does not shift control keys.
func assignKeys(root *html.Node, unique bool) keyTable {
	type item struct {
		n *html.Node
		k kind
	}
	var controls, labels []item
	explicit := make(map[string]bool)
	visit(elementChildren(root, ""), func(n *html.Node, cls string) {
		if id := attr(n, "id"); id != "" {
			explicit[id] = true
		}
		it := item{n: n, k: kinds[cls]}
		if cls == classLabel {
			labels = append(labels, it)
		} else {
			controls = append(controls, it)
		}
	})

	kr := &keyer{unique: unique, used: explicit, seen: make(map[string]int)}
	keys := make(keyTable, len(controls)+len(labels))
	for _, it := range append(controls, labels...) {
		if id := attr(it.n, "id"); id != "" {
			keys[it.n] = id
			continue
		}
		keys[it.n] = kr.fallback(it.k.fallbackKey(it.n))
	}
	return keys
}

// keyer numbers fallback keys when unique is set.
type keyer struct {
	unique bool
	used   map[string]bool
	seen   map[string]int
}

func (k *keyer) fallback(base string) string {
	if !k.unique {
		return base
	}
	n := k.seen[base] + 1
	key := base
	if n > 1 {
		key = fmt.Sprintf("%s_%d", base, n)
	}
	for k.used[key] {
		n++
		key = fmt.Sprintf("%s_%d", base, n)
	}
	k.seen[base] = n
	k.used[key] = true
	return key
}
