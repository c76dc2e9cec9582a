package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	want := sampleRecord()
	if err := store.Store(ctx, "s1", want); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}

	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Clear() error = %v, want ErrNotFound", err)
	}

	if err := store.Clear(ctx, "never-existed"); err != nil {
		t.Errorf("Clear() on absent session error = %v, want nil", err)
	}
}

func TestMemoryStore_NilRecord(t *testing.T) {
	store := NewMemoryStore()

	if err := store.Store(context.Background(), "s1", nil); err == nil {
		t.Error("Store(nil) error = nil, want error")
	}
}

func TestMemoryStore_CopiesOnStoreAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := sampleRecord()
	if err := store.Store(ctx, "s1", rec); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	// Mutating the caller's record after Store must not affect the stored copy.
	rec.Chunks[0].Text = "mutated"

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Chunks[0].Text == "mutated" {
		t.Error("stored record aliases the caller's chunks")
	}

	// Mutating a returned record must not affect subsequent reads.
	got.Chunks[0].Pages[0] = 99
	again, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Chunks[0].Pages[0] == 99 {
		t.Error("returned record aliases the stored chunks")
	}
}
