package dom

import "testing"

type recordingObserver struct {
	attached []*Node
	detached []*Node
}

func (r *recordingObserver) Attached(n *Node) { r.attached = append(r.attached, n) }
func (r *recordingObserver) Detached(n *Node) { r.detached = append(r.detached, n) }

func TestDocumentContains(t *testing.T) {
	doc := NewDocument()
	div := NewElement("div")

	if doc.Contains(div) {
		t.Error("detached node reported as contained")
	}
	doc.Body().AppendChild(div)
	if !doc.Contains(div) || !div.IsConnected() {
		t.Error("attached node not contained")
	}
	if doc.Contains(doc.Head()) {
		t.Error("head is not under body")
	}
	div.Remove()
	if doc.Contains(div) || div.IsConnected() {
		t.Error("removed node still contained")
	}
}

func TestObserverSeesSubtrees(t *testing.T) {
	doc := NewDocument()
	obs := &recordingObserver{}
	stop := doc.Observe(obs)

	outer := NewElement("div")
	inner := NewElement("span")
	outer.AppendChild(inner)

	doc.Body().AppendChild(outer)
	if len(obs.attached) != 2 || obs.attached[0] != outer || obs.attached[1] != inner {
		t.Fatalf("attached = %v", obs.attached)
	}

	// Changes inside a detached tree are not reported.
	loose := NewElement("p")
	loose.AppendChild(NewText("x"))
	if len(obs.attached) != 2 {
		t.Fatalf("detached insert reported")
	}

	replacement := NewElement("section")
	outer.ReplaceWith(replacement)
	if len(obs.detached) != 2 || obs.detached[0] != outer {
		t.Fatalf("detached = %v", obs.detached)
	}
	if obs.attached[len(obs.attached)-1] != replacement {
		t.Error("replacement attach not reported")
	}

	stop()
	replacement.Remove()
	if len(obs.detached) != 2 {
		t.Error("observer still notified after stop")
	}
}

func TestQueryAllByAttribute(t *testing.T) {
	doc := NewDocument()
	a := NewElement("div")
	b := NewElement("div")
	c := NewElement("div")
	a.SetAttribute("x-mark", "")
	c.SetAttribute("x-mark", "")
	b.AppendChild(c)
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)

	got := doc.QueryAllByAttribute("x-mark")
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("QueryAllByAttribute() = %v", got)
	}
}

func TestNodePathRoundTrip(t *testing.T) {
	doc := NewDocument()
	a := NewElement("div")
	b := NewElement("ul")
	li := NewElement("li")
	b.AppendChild(NewText("t"))
	b.AppendChild(li)
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)

	path, ok := doc.NodePath(li)
	if !ok || path != "1/1" {
		t.Fatalf("NodePath() = %q, %v", path, ok)
	}
	if doc.NodeAt(path) != li {
		t.Error("NodeAt() did not resolve path")
	}
	if doc.NodeAt("9") != nil || doc.NodeAt("x") != nil {
		t.Error("invalid paths should resolve to nil")
	}
	if _, ok := doc.NodePath(NewElement("div")); ok {
		t.Error("detached node should have no path")
	}
}

func TestSortDocumentOrder(t *testing.T) {
	doc := NewDocument()
	a := NewElement("div")
	b := NewElement("div")
	inner := NewElement("span")
	a.AppendChild(inner)
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)
	loose := NewElement("p")

	nodes := []*Node{loose, b, inner, a}
	doc.SortDocumentOrder(nodes)

	want := []*Node{a, inner, b, loose}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("position %d = %v, want %v", i, nodes[i].Tag(), want[i].Tag())
		}
	}
}
