// Package metrics tracks dispatch and lifecycle counters for the
// diagnostics endpoint. Counters are plain atomics; a snapshot is taken
// on read so the hot path never blocks.
package metrics

import (
	"sync/atomic"
	"time"
)

// Registry accumulates counters for one server instance.
type Registry struct {
	startedAt time.Time

	dispatchTotal    atomic.Int64
	handled          atomic.Int64
	routeNotFound    atomic.Int64
	validationFailed atomic.Int64
	faults           atomic.Int64

	reloads        atomic.Int64
	reloadFailures atomic.Int64
}

// NewRegistry creates a registry with the uptime clock started now.
func NewRegistry() *Registry {
	return &Registry{startedAt: time.Now()}
}

// RecordDispatch records one dispatched request by outcome kind. Kinds
// the registry does not know are counted in the total only.
func (r *Registry) RecordDispatch(kind string) {
	r.dispatchTotal.Add(1)
	switch kind {
	case "handled":
		r.handled.Add(1)
	case "route_not_found":
		r.routeNotFound.Add(1)
	case "validation_failed":
		r.validationFailed.Add(1)
	case "fault":
		r.faults.Add(1)
	}
}

// RecordReload records a reload attempt.
func (r *Registry) RecordReload(ok bool) {
	r.reloads.Add(1)
	if !ok {
		r.reloadFailures.Add(1)
	}
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	UptimeSeconds    float64 `json:"uptimeSeconds"`
	DispatchTotal    int64   `json:"dispatchTotal"`
	Handled          int64   `json:"handled"`
	RouteNotFound    int64   `json:"routeNotFound"`
	ValidationFailed int64   `json:"validationFailed"`
	Faults           int64   `json:"faults"`
	Reloads          int64   `json:"reloads"`
	ReloadFailures   int64   `json:"reloadFailures"`
}

// Snapshot returns the current counter values.
func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds:    time.Since(r.startedAt).Seconds(),
		DispatchTotal:    r.dispatchTotal.Load(),
		Handled:          r.handled.Load(),
		RouteNotFound:    r.routeNotFound.Load(),
		ValidationFailed: r.validationFailed.Load(),
		Faults:           r.faults.Load(),
		Reloads:          r.reloads.Load(),
		ReloadFailures:   r.reloadFailures.Load(),
	}
}
