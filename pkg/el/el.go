// Package el builds dom trees.
//
// H creates an element from a tag, a props map and children:
//
//	el.H("button", el.Props{"class": "primary", "on:click": inc}, "+1")
//
// Props keyed "on:<event>" (or "onClick" style) whose value is an event
// handler become listeners. Every other prop becomes an attribute.
package el

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
)

// Props are element attributes and listeners.
type Props = ive.Props

// Component is a function producing a node from props.
type Component func(Props) *dom.Node

// H creates an element. Children may be *dom.Node, []*dom.Node, string,
// []any, nil (skipped) or any other value, which is rendered with fmt.Sprint.
func H(tag string, props Props, children ...any) *dom.Node {
	n := dom.NewElement(tag)
	applyProps(n, props)
	appendChildren(n, children)
	return n
}

// C renders a component and returns its node unmodified. Children, if any,
// are passed as props["children"] ([]any) on a copy of props.
func C(c Component, props Props, children ...any) *dom.Node {
	if c == nil {
		return nil
	}
	if len(children) > 0 {
		merged := make(Props, len(props)+1)
		for k, v := range props {
			merged[k] = v
		}
		merged["children"] = children
		props = merged
	}
	return c(props)
}

// Fragment groups children without a wrapping element. The fragment
// dissolves when inserted into a tree.
func Fragment(children ...any) *dom.Node {
	n := dom.NewFragment()
	appendChildren(n, children)
	return n
}

// Text creates a text node.
func Text(s string) *dom.Node {
	return dom.NewText(s)
}

// Textf creates a text node from a format string.
func Textf(format string, args ...any) *dom.Node {
	return dom.NewText(fmt.Sprintf(format, args...))
}

// applyProps sets props in key order so rendered HTML is stable.
func applyProps(n *dom.Node, props Props) {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := props[key]
		if event, ok := eventName(key); ok {
			if fn := listener(value); fn != nil {
				n.AddEventListener(event, fn)
				continue
			}
		}
		switch v := value.(type) {
		case nil:
		case bool:
			if v {
				n.SetAttribute(key, "")
			}
		case string:
			n.SetAttribute(key, v)
		case int:
			n.SetAttribute(key, strconv.Itoa(v))
		case fmt.Stringer:
			n.SetAttribute(key, v.String())
		default:
			n.SetAttribute(key, fmt.Sprint(v))
		}
	}
}

// eventName maps "on:click" and "onClick" to "click".
func eventName(key string) (string, bool) {
	if name, ok := strings.CutPrefix(key, "on:"); ok && name != "" {
		return name, true
	}
	if len(key) < 3 || key[:2] != "on" {
		return "", false
	}
	r := rune(key[2])
	if !unicode.IsUpper(r) {
		return "", false
	}
	return string(unicode.ToLower(r)) + key[3:], true
}

func listener(v any) dom.Listener {
	switch fn := v.(type) {
	case dom.Listener:
		return fn
	case func(*dom.Event):
		return fn
	case func():
		return func(*dom.Event) { fn() }
	default:
		return nil
	}
}

func appendChildren(n *dom.Node, children []any) {
	for _, c := range children {
		switch v := c.(type) {
		case nil:
		case *dom.Node:
			if v != nil {
				n.AppendChild(v)
			}
		case []*dom.Node:
			for _, child := range v {
				if child != nil {
					n.AppendChild(child)
				}
			}
		case []any:
			appendChildren(n, v)
		case string:
			n.AppendChild(dom.NewText(v))
		default:
			n.AppendChild(dom.NewText(fmt.Sprint(v)))
		}
	}
}
