package objectstore

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError is returned when no object exists for a (type, id) pair.
type NotFoundError struct {
	Type string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("object %s/%s not found", e.Type, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Check that an object of type %q with ID %q was created first.", e.Type, e.ID)
}

// ConflictError is returned when a forced ID collides with an existing object.
type ConflictError struct {
	Type string
	ID   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("object %s/%s already exists", e.Type, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ConflictError) Hint() string {
	return fmt.Sprintf("Use Update to modify object %q or omit the ID to generate a fresh one.", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// itemError converts err into a per-item bulk error descriptor.
func itemError(typ, id string, err error) *ItemError {
	status := http.StatusInternalServerError
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}
	return &ItemError{Type: typ, ID: id, Message: err.Error(), StatusCode: status}
}
