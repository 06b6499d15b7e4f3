// Package engine runs the stub server: it adapts HTTP requests into
// dispatches against the route table, serves the diagnostics endpoints
// under /__stubd/, and owns the server lifecycle including reloads.
package engine
