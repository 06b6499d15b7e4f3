package objectstore

import (
	"fmt"
	"strings"
	"testing"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	s := NewInMemoryStore()

	created, err := s.Create("item", map[string]any{"a": 1}, CreateOptions{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("generated ID is empty")
	}
	if !strings.HasPrefix(created.ID, "item_") {
		t.Errorf("ID %q not type-prefixed", created.ID)
	}
	if created.Version == "" {
		t.Error("version marker is empty")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("updatedAt not set")
	}

	got, err := s.Get("item", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Attributes["a"] != 1 {
		t.Errorf("attributes.a = %v, want 1", got.Attributes["a"])
	}
}

func TestGetIdempotent(t *testing.T) {
	s := NewInMemoryStore()
	created, _ := s.Create("item", map[string]any{"a": 1}, CreateOptions{})

	first, err := s.Get("item", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := s.Get("item", created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.Attributes["a"] != second.Attributes["a"] || first.Version != second.Version {
		t.Error("two reads without intervening mutation should be equal")
	}
}

func TestGetNotFound(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.Get("item", "missing")
	if !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
	nf := err.(*NotFoundError)
	if nf.Type != "item" || nf.ID != "missing" {
		t.Errorf("error carries %s/%s, want item/missing", nf.Type, nf.ID)
	}
	if nf.StatusCode() != 404 {
		t.Errorf("StatusCode = %d, want 404", nf.StatusCode())
	}
}

func TestCreateExplicitIDConflict(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.Create("item", nil, CreateOptions{ID: "fixed"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := s.Create("item", nil, CreateOptions{ID: "fixed"})
	if !IsConflict(err) {
		t.Fatalf("err = %v, want ConflictError", err)
	}

	// Same ID under a different type is fine: uniqueness is per (type, id).
	if _, err := s.Create("other", nil, CreateOptions{ID: "fixed"}); err != nil {
		t.Errorf("Create with same id, different type: %v", err)
	}
}

func TestUpdateMergesAttributes(t *testing.T) {
	s := NewInMemoryStore()
	created, _ := s.Create("item", map[string]any{"a": 1, "b": 2}, CreateOptions{})

	updated, err := s.Update("item", created.ID, map[string]any{"b": 3}, UpdateOptions{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Attributes["a"] != 1 || updated.Attributes["b"] != 3 {
		t.Errorf("attributes = %v, want a:1 b:3", updated.Attributes)
	}
	if updated.Version == created.Version {
		t.Error("version not bumped on update")
	}

	got, _ := s.Get("item", created.ID)
	if got.Attributes["a"] != 1 || got.Attributes["b"] != 3 {
		t.Errorf("persisted attributes = %v", got.Attributes)
	}
}

func TestUpdateReferences(t *testing.T) {
	s := NewInMemoryStore()
	refs := []Reference{{ID: "x", Type: "dep", Name: "first"}}
	created, _ := s.Create("item", nil, CreateOptions{References: refs})

	// nil references leave existing ones untouched
	updated, _ := s.Update("item", created.ID, map[string]any{"k": "v"}, UpdateOptions{})
	if len(updated.References) != 1 || updated.References[0].ID != "x" {
		t.Errorf("references = %v, want preserved", updated.References)
	}

	// non-nil references replace
	updated, _ = s.Update("item", created.ID, nil, UpdateOptions{
		References: []Reference{{ID: "y", Type: "dep", Name: "second"}},
	})
	if len(updated.References) != 1 || updated.References[0].ID != "y" {
		t.Errorf("references = %v, want replaced", updated.References)
	}
}

func TestUpdatedAtMonotonic(t *testing.T) {
	s := NewInMemoryStore()
	created, _ := s.Create("item", map[string]any{"n": 0}, CreateOptions{})

	prev := created.UpdatedAt
	for i := 1; i <= 5; i++ {
		updated, err := s.Update("item", created.ID, map[string]any{"n": i}, UpdateOptions{})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if updated.UpdatedAt.Before(prev) {
			t.Fatalf("updatedAt went backwards: %v -> %v", prev, updated.UpdatedAt)
		}
		prev = updated.UpdatedAt
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.Update("item", "nope", nil, UpdateOptions{}); !IsNotFound(err) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestDelete(t *testing.T) {
	s := NewInMemoryStore()
	created, _ := s.Create("item", nil, CreateOptions{})

	if err := s.Delete("item", created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("item", created.ID); !IsNotFound(err) {
		t.Fatalf("Get after Delete = %v, want NotFoundError", err)
	}
	if err := s.Delete("item", created.ID); !IsNotFound(err) {
		t.Fatalf("second Delete = %v, want NotFoundError", err)
	}
}

func TestFindPagination(t *testing.T) {
	s := NewInMemoryStore()
	for i := 0; i < 5; i++ {
		_, err := s.Create("doc", map[string]any{"n": i}, CreateOptions{ID: fmt.Sprintf("doc-%d", i)})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	res, err := s.Find(FindOptions{Types: []string{"doc"}, Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if res.Total != 5 {
		t.Errorf("total = %d, want 5", res.Total)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(res.Items))
	}
	// Page 2 of size 2 holds the 3rd and 4th objects in insertion order.
	if res.Items[0].ID != "doc-2" || res.Items[1].ID != "doc-3" {
		t.Errorf("page 2 = [%s, %s], want [doc-2, doc-3]", res.Items[0].ID, res.Items[1].ID)
	}
}

func TestFindDefaultsAndOutOfRange(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("doc", nil, CreateOptions{}) //nolint:errcheck

	res, _ := s.Find(FindOptions{})
	if res.Page != 1 || res.PerPage != 20 {
		t.Errorf("defaults = page %d perPage %d, want 1/20", res.Page, res.PerPage)
	}

	res, _ = s.Find(FindOptions{Page: 99})
	if len(res.Items) != 0 || res.Total != 1 {
		t.Errorf("out-of-range page: items=%d total=%d", len(res.Items), res.Total)
	}
}

func TestFindTypeFilter(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("a", nil, CreateOptions{ID: "1"}) //nolint:errcheck
	s.Create("b", nil, CreateOptions{ID: "2"}) //nolint:errcheck
	s.Create("c", nil, CreateOptions{ID: "3"}) //nolint:errcheck

	res, _ := s.Find(FindOptions{Types: []string{"a", "c"}})
	if res.Total != 2 {
		t.Errorf("total = %d, want 2", res.Total)
	}
	for _, item := range res.Items {
		if item.Type == "b" {
			t.Error("type filter leaked type b")
		}
	}
}

func TestFindSearch(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("doc", map[string]any{"title": "Hello World", "body": "x"}, CreateOptions{ID: "1"}) //nolint:errcheck
	s.Create("doc", map[string]any{"title": "other", "body": "world peace"}, CreateOptions{ID: "2"}) //nolint:errcheck
	s.Create("doc", map[string]any{"title": "nothing"}, CreateOptions{ID: "3"}) //nolint:errcheck
	s.Create("doc", map[string]any{"count": 12345}, CreateOptions{ID: "4"}) //nolint:errcheck

	// Case-insensitive, any field matches.
	res, _ := s.Find(FindOptions{Search: "WORLD", SearchFields: []string{"title", "body"}})
	if res.Total != 2 {
		t.Errorf("total = %d, want 2", res.Total)
	}

	// Non-string attributes are string-coerced before matching.
	res, _ = s.Find(FindOptions{Search: "234", SearchFields: []string{"count"}})
	if res.Total != 1 {
		t.Errorf("coerced search total = %d, want 1", res.Total)
	}

	// Search without fields is a no-op filter.
	res, _ = s.Find(FindOptions{Search: "world"})
	if res.Total != 4 {
		t.Errorf("search without fields total = %d, want 4", res.Total)
	}
}

func TestBulkCreatePartialFailure(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("item", nil, CreateOptions{ID: "taken"}) //nolint:errcheck

	results := s.BulkCreate([]BulkCreateItem{
		{Type: "item", Attributes: map[string]any{"n": 1}},
		{Type: "item", ID: "taken"},
		{Type: "item", Attributes: map[string]any{"n": 3}},
	})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Object == nil || results[2].Object == nil {
		t.Error("items around the failing one must still be created")
	}
	if results[1].Error == nil {
		t.Fatal("duplicate forced ID must fail per-item")
	}
	if results[1].Error.StatusCode != 409 {
		t.Errorf("conflict statusCode = %d, want 409", results[1].Error.StatusCode)
	}
	if s.Count() != 3 {
		t.Errorf("store count = %d, want 3", s.Count())
	}
}

func TestBulkGetPreservesOrder(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("item", map[string]any{"n": 1}, CreateOptions{ID: "a"}) //nolint:errcheck
	s.Create("item", map[string]any{"n": 2}, CreateOptions{ID: "b"}) //nolint:errcheck

	results := s.BulkGet([]BulkGetItem{
		{Type: "item", ID: "b"},
		{Type: "item", ID: "missing"},
		{Type: "item", ID: "a"},
	})

	if results[0].Object == nil || results[0].Object.ID != "b" {
		t.Errorf("results[0] = %+v, want object b", results[0])
	}
	if results[1].Error == nil || results[1].Error.ID != "missing" || results[1].Error.StatusCode != 404 {
		t.Errorf("results[1] = %+v, want not-found descriptor", results[1])
	}
	if results[2].Object == nil || results[2].Object.ID != "a" {
		t.Errorf("results[2] = %+v, want object a", results[2])
	}
}

func TestCallerCannotCorruptStore(t *testing.T) {
	s := NewInMemoryStore()
	created, _ := s.Create("item", map[string]any{"a": 1}, CreateOptions{})

	got, _ := s.Get("item", created.ID)
	got.Attributes["a"] = 999

	again, _ := s.Get("item", created.ID)
	if again.Attributes["a"] != 1 {
		t.Error("mutating a returned object leaked into the store")
	}
}

func TestClear(t *testing.T) {
	s := NewInMemoryStore()
	s.Create("item", nil, CreateOptions{}) //nolint:errcheck
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("count after Clear = %d", s.Count())
	}
	res, _ := s.Find(FindOptions{})
	if res.Total != 0 {
		t.Errorf("find after Clear total = %d", res.Total)
	}
}
