// Package dom provides the live node tree that ive components render into.
//
// It models the small part of a browser that the reactive engine relies on:
// element, text and fragment nodes with ordered attributes and parent links,
// a Document whose body defines what is "mounted", synchronous event dispatch
// with bubbling, and a Window carrying the current location and a session
// history stack.
//
// # Nodes
//
// Nodes are mutable and belong to at most one parent at a time. Inserting a
// node that already has a parent moves it. Inserting a fragment moves the
// fragment's children instead of the fragment itself:
//
//	list := dom.NewElement("ul")
//	item := dom.NewElement("li")
//	item.AppendChild(dom.NewText("one"))
//	list.AppendChild(item)
//	doc.Body().AppendChild(list)
//
// # Mutation observers
//
// A Document notifies registered MutationObservers whenever a subtree becomes
// connected to or disconnected from it. The reactive runtime uses this to keep
// its cell-to-node index exact without scanning the document.
//
// # History
//
// Window.History mirrors the browser history API: PushState and ReplaceState
// change the location without firing events, and Back, Forward and Go fire a
// "popstate" event on the window through its scheduler.
package dom
