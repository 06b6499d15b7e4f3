package objectstore

// Store defines the interface for the object store. All implementations must
// be safe for concurrent use.
type Store interface {
	// Create inserts a new object. The ID is generated (type-prefixed)
	// unless forced via options. A forced ID that collides with an
	// existing object returns a ConflictError.
	Create(typ string, attributes map[string]any, opts CreateOptions) (*StoredObject, error)

	// Get retrieves an object; returns a NotFoundError when absent.
	Get(typ, id string) (*StoredObject, error)

	// Find filters objects by type and optional substring search, then
	// paginates the result set in insertion order.
	Find(opts FindOptions) (*FindResult, error)

	// Update shallow-merges attributes into an existing object and bumps
	// UpdatedAt and Version. Returns a NotFoundError when absent.
	Update(typ, id string, attributes map[string]any, opts UpdateOptions) (*StoredObject, error)

	// Delete removes an object; returns a NotFoundError when absent.
	Delete(typ, id string) error

	// BulkCreate applies Create to each item independently; one item's
	// failure never aborts the others.
	BulkCreate(items []BulkCreateItem) []BulkResult

	// BulkGet applies Get to each item, preserving request order and
	// reporting per-item errors inline.
	BulkGet(items []BulkGetItem) []BulkResult

	// Count returns the number of stored objects.
	Count() int

	// Clear removes all stored objects.
	Clear()
}
