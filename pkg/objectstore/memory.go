package objectstore

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/getstubd/stubd/internal/id"
)

// InMemoryStore is a thread-safe in-memory implementation of Store.
// Objects are keyed by "type:id"; insertion order is preserved for Find.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*StoredObject
	order   []string
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		objects: make(map[string]*StoredObject),
	}
}

func key(typ, objID string) string {
	return typ + ":" + objID
}

// Create inserts a new object.
func (s *InMemoryStore) Create(typ string, attributes map[string]any, opts CreateOptions) (*StoredObject, error) {
	if typ == "" {
		return nil, fmt.Errorf("object type cannot be empty")
	}

	objID := opts.ID
	if objID == "" {
		objID = id.Prefixed(typ)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(typ, objID)
	if _, exists := s.objects[k]; exists {
		return nil, &ConflictError{Type: typ, ID: objID}
	}

	obj := &StoredObject{
		ID:         objID,
		Type:       typ,
		Attributes: cloneAttributes(attributes),
		References: append([]Reference(nil), opts.References...),
		UpdatedAt:  time.Now().UTC(),
		Version:    id.VersionToken(),
	}
	s.objects[k] = obj
	s.order = append(s.order, k)

	return obj.clone(), nil
}

// Get retrieves an object by type and id.
func (s *InMemoryStore) Get(typ, objID string) (*StoredObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key(typ, objID)]
	if !ok {
		return nil, &NotFoundError{Type: typ, ID: objID}
	}
	return obj.clone(), nil
}

// Find filters and paginates stored objects in insertion order.
func (s *InMemoryStore) Find(opts FindOptions) (*FindResult, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage < 1 {
		perPage = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*StoredObject
	for _, k := range s.order {
		obj := s.objects[k]
		if !matchesType(obj, opts.Types) {
			continue
		}
		if !matchesSearch(obj, opts.Search, opts.SearchFields) {
			continue
		}
		matched = append(matched, obj)
	}

	total := len(matched)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	items := make([]*StoredObject, 0, end-start)
	for _, obj := range matched[start:end] {
		items = append(items, obj.clone())
	}

	return &FindResult{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// Update shallow-merges attributes into an existing object.
func (s *InMemoryStore) Update(typ, objID string, attributes map[string]any, opts UpdateOptions) (*StoredObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[key(typ, objID)]
	if !ok {
		return nil, &NotFoundError{Type: typ, ID: objID}
	}

	for k, v := range attributes {
		obj.Attributes[k] = v
	}
	if opts.References != nil {
		obj.References = append([]Reference(nil), opts.References...)
	}

	// UpdatedAt must never decrease, even across clock adjustments.
	now := time.Now().UTC()
	if now.After(obj.UpdatedAt) {
		obj.UpdatedAt = now
	}
	obj.Version = id.VersionToken()

	return obj.clone(), nil
}

// Delete removes an object.
func (s *InMemoryStore) Delete(typ, objID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(typ, objID)
	if _, ok := s.objects[k]; !ok {
		return &NotFoundError{Type: typ, ID: objID}
	}
	delete(s.objects, k)
	for i, ordered := range s.order {
		if ordered == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// BulkCreate creates each item independently.
func (s *InMemoryStore) BulkCreate(items []BulkCreateItem) []BulkResult {
	results := make([]BulkResult, len(items))
	for i, item := range items {
		obj, err := s.Create(item.Type, item.Attributes, CreateOptions{ID: item.ID, References: item.References})
		if err != nil {
			results[i] = BulkResult{Error: itemError(item.Type, item.ID, err)}
			continue
		}
		results[i] = BulkResult{Object: obj}
	}
	return results
}

// BulkGet retrieves each item, preserving order.
func (s *InMemoryStore) BulkGet(items []BulkGetItem) []BulkResult {
	results := make([]BulkResult, len(items))
	for i, item := range items {
		obj, err := s.Get(item.Type, item.ID)
		if err != nil {
			results[i] = BulkResult{Error: itemError(item.Type, item.ID, err)}
			continue
		}
		results[i] = BulkResult{Object: obj}
	}
	return results
}

// Count returns the number of stored objects.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Clear removes all stored objects.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[string]*StoredObject)
	s.order = nil
}

func matchesType(obj *StoredObject, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if obj.Type == t {
			return true
		}
	}
	return false
}

func matchesSearch(obj *StoredObject, search string, fields []string) bool {
	if search == "" || len(fields) == 0 {
		return true
	}
	needle := strings.ToLower(search)
	for _, field := range fields {
		val, ok := obj.Attributes[field]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprintf("%v", val)), needle) {
			return true
		}
	}
	return false
}

// clone returns a copy safe to hand to callers: the attribute map is copied
// shallowly so callers cannot corrupt stored state through the returned map.
func (o *StoredObject) clone() *StoredObject {
	cp := *o
	cp.Attributes = cloneAttributes(o.Attributes)
	cp.References = append([]Reference(nil), o.References...)
	return &cp
}

func cloneAttributes(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

// Ensure InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)
