package routing

// Request is the normalized request handed to handlers. One is constructed
// per dispatch and discarded after the handler returns.
type Request struct {
	Method string
	Path   string

	// Params maps {name} placeholders to the matched path segments.
	Params map[string]string

	// Query maps parameter names to a string (single value) or []string
	// (repeated parameter). Values a query validator defaulted or coerced
	// are substituted here.
	Query map[string]any

	// Body is the decoded JSON body, or nil when the request had none.
	// When a body validator is configured, this is the validated value.
	Body any

	// Headers maps header names to their first value.
	Headers map[string]string
}
