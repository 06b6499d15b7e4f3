package routing

// Kind classifies how a dispatch concluded.
type Kind string

const (
	// KindHandled means a handler ran to completion and produced the
	// outcome, whatever its status code.
	KindHandled Kind = "handled"

	// KindRouteNotFound means no registered route matched. A normal,
	// expected result, not an error.
	KindRouteNotFound Kind = "route_not_found"

	// KindValidationFailed means a route validator rejected the request
	// before the handler ran.
	KindValidationFailed Kind = "validation_failed"

	// KindFault means the handler panicked; the panic was recovered at
	// the dispatch boundary.
	KindFault Kind = "fault"
)

// Outcome is the tagged result of a dispatch.
type Outcome struct {
	Kind   Kind
	Status int

	// Body is the JSON-marshalable response payload. Nil means no body.
	Body any

	// Headers are extra response headers, set by canned-response routes.
	Headers map[string]string
}

// Responder builds handler outcomes with deterministic status mapping.
// A fresh Responder is handed to every handler invocation.
type Responder struct{}

// Ok returns a 200 outcome with the given payload.
func (Responder) Ok(payload any) Outcome {
	return Outcome{Kind: KindHandled, Status: 200, Body: payload}
}

// Created returns a 201 outcome with the given payload.
func (Responder) Created(payload any) Outcome {
	return Outcome{Kind: KindHandled, Status: 201, Body: payload}
}

// NoContent returns a 204 outcome without a body.
func (Responder) NoContent() Outcome {
	return Outcome{Kind: KindHandled, Status: 204}
}

// BadRequest returns a 400 outcome carrying message.
func (Responder) BadRequest(message string) Outcome {
	return messageOutcome(400, message)
}

// Forbidden returns a 403 outcome carrying message.
func (Responder) Forbidden(message string) Outcome {
	return messageOutcome(403, message)
}

// NotFound returns a 404 outcome carrying message. This is the handler-level
// not-found (e.g. a missing stored object), distinct from the dispatcher's
// route-not-found.
func (Responder) NotFound(message string) Outcome {
	return messageOutcome(404, message)
}

// CustomError returns an outcome with a caller-specified status code.
func (Responder) CustomError(status int, message string) Outcome {
	return messageOutcome(status, message)
}

func messageOutcome(status int, message string) Outcome {
	return Outcome{Kind: KindHandled, Status: status, Body: map[string]any{"message": message}}
}
