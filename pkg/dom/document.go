package dom

import (
	"sort"
	"strconv"
	"strings"
)

// MutationObserver receives subtree connection changes for a Document.
// Attached and Detached are called once per node of the affected subtree,
// in document order.
type MutationObserver interface {
	Attached(n *Node)
	Detached(n *Node)
}

// Document is the root of a live node tree.
type Document struct {
	root *Node
	head *Node
	body *Node

	observers []observerEntry
	nextObsID uint64
}

type observerEntry struct {
	id  uint64
	obs MutationObserver
}

// NewDocument creates a document with an empty <html><head/><body/></html> tree.
func NewDocument() *Document {
	d := &Document{
		root: NewElement("html"),
		head: NewElement("head"),
		body: NewElement("body"),
	}
	d.root.doc = d
	d.root.children = []*Node{d.head, d.body}
	d.head.parent = d.root
	d.body.parent = d.root
	return d
}

// Root returns the <html> element.
func (d *Document) Root() *Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *Node { return d.body }

// Contains reports whether n is the body or is attached under it.
func (d *Document) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	return d.body.Contains(n)
}

// Observe registers a mutation observer and returns a function removing it.
func (d *Document) Observe(obs MutationObserver) func() {
	d.nextObsID++
	id := d.nextObsID
	d.observers = append(d.observers, observerEntry{id: id, obs: obs})
	return func() {
		for i, e := range d.observers {
			if e.id == id {
				d.observers = append(d.observers[:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) notifyAttached(n *Node) {
	if len(d.observers) == 0 {
		return
	}
	obs := make([]observerEntry, len(d.observers))
	copy(obs, d.observers)
	n.Walk(func(c *Node) {
		for _, e := range obs {
			e.obs.Attached(c)
		}
	})
}

func (d *Document) notifyDetached(n *Node) {
	if len(d.observers) == 0 {
		return
	}
	obs := make([]observerEntry, len(d.observers))
	copy(obs, d.observers)
	n.Walk(func(c *Node) {
		for _, e := range obs {
			e.obs.Detached(c)
		}
	})
}

// QueryAllByAttribute returns every element under the body carrying the
// named attribute, in document order.
func (d *Document) QueryAllByAttribute(name string) []*Node {
	var out []*Node
	d.body.Walk(func(n *Node) {
		if n.kind == KindElement && n.HasAttribute(name) {
			out = append(out, n)
		}
	})
	return out
}

// NodePath returns the slash-separated child indices leading from the body
// to n, for example "0/2/1". It returns "" for the body itself and false when
// n is not under the body.
func (d *Document) NodePath(n *Node) (string, bool) {
	if !d.Contains(n) {
		return "", false
	}
	idx := pathFromBody(d.body, n)
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "/"), true
}

// NodeAt resolves a path produced by NodePath.
func (d *Document) NodeAt(path string) *Node {
	cur := d.body
	if path == "" {
		return cur
	}
	for _, p := range strings.Split(path, "/") {
		i, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		cur = cur.Child(i)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// SortDocumentOrder sorts connected nodes of d in document order. Nodes not
// under the body sort last, keeping their relative order.
func (d *Document) SortDocumentOrder(nodes []*Node) {
	paths := make(map[*Node][]int, len(nodes))
	for _, n := range nodes {
		if d.Contains(n) {
			paths[n] = pathFromBody(d.body, n)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		pi, iok := paths[nodes[i]]
		pj, jok := paths[nodes[j]]
		if !iok || !jok {
			return iok && !jok
		}
		return comparePaths(pi, pj) < 0
	})
}

func pathFromBody(body, n *Node) []int {
	var rev []int
	for cur := n; cur != nil && cur != body; cur = cur.parent {
		rev = append(rev, cur.IndexInParent())
	}
	out := make([]int, len(rev))
	for i, v := range rev {
		out[len(rev)-1-i] = v
	}
	return out
}

// comparePaths orders ancestors before descendants and siblings by index.
func comparePaths(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}
