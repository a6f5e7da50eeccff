// Package router resolves the window location against a table of path
// patterns and renders the matched page through a reactive page cell.
//
// # Patterns
//
// A pattern is a literal path in which {name} matches one non-empty path
// segment:
//
//	/users/{id}        matches /users/42 with id=42
//	/users/{id}        does not match /users/42/edit
//
// Routes are tried in table order and the first match wins. Patterns with an
// empty, duplicate or non-identifier parameter name never match.
//
// # Handlers
//
//	router.Static(node)   // a prebuilt node
//	router.Func(fn)       // fn(params) is called on each resolution
//	router.Lazy(future)   // the module's Default, once the future resolves
//
// # Mounting
//
//	r := router.New(rt, "/app", routes, router.WithNotFound(notFound))
//	rt.Mount(r.Render())
//
// A location outside the mount prefix resolves to NoMount and leaves the
// page untouched; LastResolution reports it.
//
// # Navigation
//
// RouteTo pushes (or with WithReplace, replaces) a history entry and
// dispatches popstate, so every router on the window re-resolves before it
// returns. Link renders an anchor that does the same on click.
package router
