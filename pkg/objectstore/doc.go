// Package objectstore provides an in-memory, type+id addressed object store.
//
// It stands in for a real persistence layer during handler testing: objects
// of arbitrary "type" support basic CRUD, a naive substring search with
// pagination, and bulk operations. Everything lives in process memory with
// no durability. The store is shared by all requests without access control;
// concurrent updates to the same object follow last-write-wins. A Version
// field exists for interface parity with a real persistence layer but no
// optimistic-concurrency check is enforced against it.
package objectstore
