package objectstore

import (
	"time"
)

// Reference is a named link from one stored object to another.
type Reference struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// StoredObject is a type+id addressed record.
type StoredObject struct {
	// ID is unique within the object's Type.
	ID string `json:"id"`

	// Type is the object's namespace, e.g. "dashboard" or "index-pattern".
	Type string `json:"type"`

	// Attributes holds the user payload.
	Attributes map[string]any `json:"attributes"`

	// References are ordered links to other objects.
	References []Reference `json:"references"`

	// UpdatedAt is bumped on every update and never decreases.
	UpdatedAt time.Time `json:"updatedAt"`

	// Version is an opaque marker refreshed on every write. Present for
	// interface parity with a real persistence layer; not enforced.
	Version string `json:"version"`
}

// CreateOptions customizes Create.
type CreateOptions struct {
	// ID forces the object ID instead of generating one.
	ID string

	// References sets the initial reference list.
	References []Reference
}

// UpdateOptions customizes Update.
type UpdateOptions struct {
	// References replaces the object's references when non-nil.
	// A nil value leaves the existing references untouched.
	References []Reference
}

// FindOptions filters and paginates a Find call.
type FindOptions struct {
	// Types restricts results to these object types; empty means all types.
	// An object matches when its type equals any entry.
	Types []string

	// Search is a case-insensitive substring looked up in SearchFields.
	// Ignored unless SearchFields is also set.
	Search string

	// SearchFields names the attributes searched for Search.
	SearchFields []string

	// Page is 1-based; zero means page 1.
	Page int

	// PerPage is the page size; zero means 20.
	PerPage int
}

// FindResult is a page of matching objects.
type FindResult struct {
	// Items is the requested page, in insertion order.
	Items []*StoredObject `json:"items"`

	// Total counts all matches before pagination.
	Total int `json:"total"`

	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// BulkCreateItem is one entry of a BulkCreate call.
type BulkCreateItem struct {
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
	ID         string         `json:"id,omitempty"`
	References []Reference    `json:"references,omitempty"`
}

// BulkGetItem identifies one object of a BulkGet call.
type BulkGetItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ItemError describes a per-item failure within a bulk operation.
type ItemError struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// BulkResult is one entry of a bulk response: either Object or Error is set.
// Result order matches request order.
type BulkResult struct {
	Object *StoredObject `json:"object,omitempty"`
	Error  *ItemError    `json:"error,omitempty"`
}
