package datastore

import (
	"context"
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:): %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	body := []byte(`{"transceivers": [], "A": [0,0], "B": [1,1]}`)
	rec, err := s.Put(ctx, "empty field", body, 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("Put assigned empty ID")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "empty field" || string(got.Body) != string(body) {
		t.Fatalf("Get = %+v, want stored record back", got)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListAndCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		if _, err := s.Put(ctx, name, []byte(`{}`), 1); err != nil {
			t.Fatalf("Put(%s): %v", name, err)
		}
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("List returned %d records, want 3", len(records))
	}
	for _, rec := range records {
		if rec.Body != nil {
			t.Fatalf("List must not load bodies, got %d bytes for %s", len(rec.Body), rec.ID)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("Count = %d, want 3", n)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec, err := s.Put(ctx, "doomed", []byte(`{}`), 0)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete error = %v, want ErrNotFound", err)
	}
}
