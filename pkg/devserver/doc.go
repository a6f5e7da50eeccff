// Package devserver serves an ive application for preview.
//
// Every GET request renders a fresh snapshot of the application at the
// requested location. The page connects back to LivePath, where the
// server mounts the application into a runtime of its own and keeps it
// alive for the connection:
//
//	client                      server
//	  |  GET /users/1             |
//	  |<------- snapshot ---------|
//	  |  WS /_ive/live?path=...   |
//	  |<------- init -------------|
//	  |-------- click ----------->|  node.Click() on the loop
//	  |<------- replace ----------|  one per replaced node
//	  |-------- navigate -------->|  router.RouteTo
//	  |<------- navigate ---------|
//
// Inbound messages are rate limited per connection. /metrics exposes the
// engine metrics of every runtime the server created.
package devserver
