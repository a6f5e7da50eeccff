package dom

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindFragment             // Grouping without wrapper, dissolves on insert
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is a live node in a document tree.
type Node struct {
	kind     Kind
	tag      string
	text     string
	attrs    []Attr
	children []*Node
	parent   *Node

	// doc is set only on a document's root element.
	doc *Document

	listeners *listenerSet

	// data holds per-node values attached by libraries, similar to
	// expando properties on browser nodes.
	data map[any]any
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string) *Node {
	return &Node{kind: KindElement, tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{kind: KindText, text: text}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{kind: KindFragment}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag, or "" for text and fragment nodes.
func (n *Node) Tag() string { return n.tag }

// Text returns the data of a text node.
func (n *Node) Text() string { return n.text }

// SetText replaces the data of a text node.
func (n *Node) SetText(text string) { n.text = text }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.kind == KindText {
		return n.text
	}
	var b strings.Builder
	n.walk(func(d *Node) bool {
		if d.kind == KindText {
			b.WriteString(d.text)
		}
		return true
	})
	return b.String()
}

// =============================================================================
// Attributes
// =============================================================================

// SetAttribute sets an attribute, keeping the position of an existing one.
func (n *Node) SetAttribute(name, value string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Name: name, Value: value})
}

// Attribute returns the value of an attribute and whether it is present.
func (n *Node) Attribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// AttributeNames returns attribute names in insertion order.
func (n *Node) AttributeNames() []string {
	names := make([]string, len(n.attrs))
	for i, a := range n.attrs {
		names[i] = a.Name
	}
	return names
}

// Attrs returns a copy of the attribute list.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// SetData attaches a library value to the node. A nil value removes the key.
func (n *Node) SetData(key, value any) {
	if value == nil {
		delete(n.data, key)
		return
	}
	if n.data == nil {
		n.data = make(map[any]any)
	}
	n.data[key] = value
}

// Data returns a value attached with SetData.
func (n *Node) Data(key any) any {
	return n.data[key]
}

// =============================================================================
// Tree mutation
// =============================================================================

// AppendChild appends child, moving it from its current parent if needed.
// Appending a fragment moves the fragment's children.
func (n *Node) AppendChild(child *Node) {
	n.insertAt(len(n.children), child)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		n.AppendChild(child)
		return
	}
	n.insertAt(idx, child)
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	idx := n.indexOf(child)
	if idx < 0 {
		return
	}
	doc := n.connectedDocument()
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	child.parent = nil
	if doc != nil {
		doc.notifyDetached(child)
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceWith puts replacement at n's position in its parent and detaches n.
// It is a no-op when n has no parent.
func (n *Node) ReplaceWith(replacement *Node) {
	parent := n.parent
	if parent == nil || replacement == n {
		return
	}
	idx := parent.indexOf(n)
	parent.RemoveChild(n)
	parent.insertAt(idx, replacement)
}

// IndexInParent returns the position of n among its siblings, or -1.
func (n *Node) IndexInParent() int {
	if n.parent == nil {
		return -1
	}
	return n.parent.indexOf(n)
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// IsConnected reports whether n belongs to a document tree.
func (n *Node) IsConnected() bool {
	return n.connectedDocument() != nil
}

func (n *Node) insertAt(idx int, child *Node) {
	if child == nil {
		return
	}
	if child.kind == KindFragment {
		moved := child.Children()
		for _, c := range moved {
			child.RemoveChild(c)
		}
		for i, c := range moved {
			n.insertAt(idx+i, c)
		}
		return
	}
	if child.Contains(n) {
		// Inserting an ancestor into its own subtree would create a cycle.
		return
	}
	if child.parent != nil {
		old := child.parent
		if old == n && old.indexOf(child) < idx {
			idx--
		}
		old.RemoveChild(child)
	}
	if idx > len(n.children) {
		idx = len(n.children)
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
	child.parent = n
	if doc := n.connectedDocument(); doc != nil {
		doc.notifyAttached(child)
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) connectedDocument() *Document {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root.doc
}

// walk visits n and its descendants in document order. Returning false from
// fn skips the node's subtree.
func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

// Walk visits n and its descendants in document order.
func (n *Node) Walk(fn func(*Node)) {
	n.walk(func(d *Node) bool {
		fn(d)
		return true
	})
}
