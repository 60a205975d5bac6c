package session

import (
	"testing"

	"github.com/google/uuid"
)

func TestCreateAndGet(t *testing.T) {
	store := New()

	created := store.Create()
	got, err := store.Get(created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected ID %s, got %s", created.ID, got.ID)
	}
	if got.InputText != "" || got.LastResult != "" {
		t.Error("fresh session should be empty")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := New()
	created := store.Create()

	got, _ := store.Get(created.ID)
	got.InputText = "mutated locally"

	again, _ := store.Get(created.ID)
	if again.InputText != "" {
		t.Error("mutating a returned session must not affect the stored value")
	}
}

func TestPutUpdates(t *testing.T) {
	store := New()
	sess := store.Create()

	sess.InputText = "some pasted text"
	sess.LastResult = "a summary"
	if err := store.Put(sess); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, _ := store.Get(sess.ID)
	if got.InputText != "some pasted text" || got.LastResult != "a summary" {
		t.Error("Put did not store the updated session")
	}
	if !got.UpdatedAt.After(got.CreatedAt) && !got.UpdatedAt.Equal(got.CreatedAt) {
		t.Error("UpdatedAt should be stamped on Put")
	}
}

func TestPutUnknownSession(t *testing.T) {
	store := New()
	sess := store.Create()
	store.Delete(sess.ID)

	if err := store.Put(sess); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := New()
	sess := store.Create()

	store.Delete(sess.ID)
	if _, err := store.Get(sess.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again (or a random ID) is a no-op
	store.Delete(sess.ID)
	store.Delete(uuid.New())

	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d sessions", store.Len())
	}
}
