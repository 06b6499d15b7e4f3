// Package routing implements the route table and dispatcher at the heart of
// the stub host runtime.
//
// Routes are registered with a method and a path pattern containing {name}
// placeholders. Dispatch walks the table in registration order and picks the
// first route whose method and compiled pattern match, so registration order
// is the tie-break when patterns overlap: register /items/special before
// /items/{id} if the literal route should win.
//
// Dispatch never panics and never returns a Go error: every request produces
// a tagged Outcome (handled, route not found, validation failed, or fault),
// which the embedding server translates to an HTTP response.
package routing
