package memory

import (
	"errors"
	"testing"

	"github.com/gfranca/userhub/internal/domain/user"
)

func TestPartialUpdateAppliesOnlyPresentFields(t *testing.T) {
	repo := NewUsersRepo()

	u, err := repo.Create(t.Context(), "Ann", "ann@x.com", "hash-1", user.RoleUser)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Anna"
	updated, err := repo.Update(t.Context(), u.ID, user.Patch{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "Anna" {
		t.Errorf("name not applied: %q", updated.Name)
	}
	if updated.Email != "ann@x.com" || updated.PasswordHash != "hash-1" {
		t.Errorf("absent fields were touched: %+v", updated)
	}
	if !updated.UpdatedAt.After(u.UpdatedAt) && !updated.UpdatedAt.Equal(u.UpdatedAt) {
		t.Error("updatedAt went backwards")
	}
}

func TestEmailUniqueness(t *testing.T) {
	repo := NewUsersRepo()

	if _, err := repo.Create(t.Context(), "Ann", "ann@x.com", "h", user.RoleUser); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := repo.Create(t.Context(), "Dup", "ann@x.com", "h", user.RoleUser); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	b, err := repo.Create(t.Context(), "Bob", "bob@x.com", "h", user.RoleUser)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	email := "ann@x.com"
	if _, err := repo.Update(t.Context(), b.ID, user.Patch{Email: &email}); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on update, got %v", err)
	}
}

func TestLookupsRepresentAbsence(t *testing.T) {
	repo := NewUsersRepo()

	if _, err := repo.GetByID(t.Context(), "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("GetByID: expected ErrNotFound, got %v", err)
	}

	if _, err := repo.GetByEmail(t.Context(), "missing@x.com"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("GetByEmail: expected ErrNotFound, got %v", err)
	}

	if _, err := repo.Delete(t.Context(), "missing"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}

	users, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected empty list, got %d", len(users))
	}
}
