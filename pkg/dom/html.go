package dom

import (
	"bufio"
	"io"
	"strings"
)

// IsVoidElement reports whether tag is serialized without a closing tag.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img",
		"input", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// Render writes the HTML serialization of n to w.
func Render(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n)
	return bw.Flush()
}

// OuterHTML returns the HTML serialization of n.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	_ = Render(&b, n)
	return b.String()
}

// InnerHTML returns the serialization of n's children.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		_ = Render(&b, c)
	}
	return b.String()
}

// HTML returns the full document serialization with a doctype.
func (d *Document) HTML() string {
	return "<!DOCTYPE html>" + d.root.OuterHTML()
}

func writeNode(w *bufio.Writer, n *Node) {
	switch n.kind {
	case KindText:
		w.WriteString(escapeHTML(n.text))
	case KindFragment:
		for _, c := range n.children {
			writeNode(w, c)
		}
	case KindElement:
		w.WriteByte('<')
		w.WriteString(n.tag)
		for _, a := range n.attrs {
			w.WriteByte(' ')
			w.WriteString(a.Name)
			if a.Value != "" {
				w.WriteString(`="`)
				w.WriteString(escapeAttr(a.Value))
				w.WriteByte('"')
			}
		}
		w.WriteByte('>')
		if IsVoidElement(n.tag) {
			return
		}
		for _, c := range n.children {
			writeNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(n.tag)
		w.WriteByte('>')
	}
}

// Text content needs only &, < and >; attribute values are always double
// quoted and also escape quotes and the whitespace a parser would normalise.
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;",
		`"`, "&quot;", "'", "&#39;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;",
	)
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
