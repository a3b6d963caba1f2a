package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"main/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// setupNotesTest connects to the local MongoDB used for integration
// tests. Tests are skipped when no server is reachable so the pure
// unit suites still run everywhere.
func setupNotesTest(t *testing.T) (*NotesRepo, func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	dbName := fmt.Sprintf("notes_test_%s", uuid.New().String()[:8])
	db := client.Database(dbName)
	if err := SetupIndexes(db); err != nil {
		t.Fatalf("Failed to setup indexes: %v", err)
	}

	repo := &NotesRepo{MongoCollection: db.Collection("notes")}

	cleanup := func() {
		if err := db.Drop(context.Background()); err != nil {
			t.Errorf("Failed to drop test database: %v", err)
		}
		if err := client.Disconnect(context.Background()); err != nil {
			t.Errorf("Failed to disconnect from MongoDB: %v", err)
		}
	}

	return repo, cleanup
}

func createTestNote(ownerID, title string) *model.Note {
	return &model.Note{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Title:   title,
		Content: "Test Content",
		Tags:    []string{"test"},
	}
}

func TestCreateNote(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()

	note := createTestNote(uuid.New().String(), "First Note")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if note.Version != 1 {
		t.Errorf("initial version = %d, want 1", note.Version)
	}
	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Error("timestamps not stamped on insert")
	}

	t.Run("Missing Owner Rejected", func(t *testing.T) {
		err := repo.CreateNote(ctx, &model.Note{Title: "orphan"})
		if err == nil {
			t.Error("expected error for note without owner")
		}
	})
}

func TestLifecycleTransitions(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()
	ownerID := uuid.New().String()

	note := createTestNote(ownerID, "Lifecycle Note")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	t.Run("Trash Sets Pair Atomically", func(t *testing.T) {
		trashed, err := repo.MarkTrashed(ctx, ownerID, note.ID)
		if err != nil {
			t.Fatalf("MarkTrashed failed: %v", err)
		}
		if !trashed.IsDeleted || trashed.DeletedAt == nil {
			t.Errorf("trashed note state: is_deleted=%v deleted_at=%v", trashed.IsDeleted, trashed.DeletedAt)
		}
	})

	t.Run("Re-Trash Reports Not Found", func(t *testing.T) {
		if _, err := repo.MarkTrashed(ctx, ownerID, note.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("re-trash = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Trashed Note Hidden From GetNote", func(t *testing.T) {
		if _, err := repo.GetNote(ctx, ownerID, note.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("GetNote on trashed = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Trashed Note Not Updatable", func(t *testing.T) {
		title := "sneaky edit"
		if _, err := repo.ApplyUpdate(ctx, ownerID, note.ID, NoteUpdate{Title: &title}); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("update on trashed = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Restore Clears Pair", func(t *testing.T) {
		restored, err := repo.MarkRestored(ctx, ownerID, note.ID)
		if err != nil {
			t.Fatalf("MarkRestored failed: %v", err)
		}
		if restored.IsDeleted || restored.DeletedAt != nil {
			t.Errorf("restored note state: is_deleted=%v deleted_at=%v", restored.IsDeleted, restored.DeletedAt)
		}
	})

	t.Run("Restore Active Reports Not Found", func(t *testing.T) {
		if _, err := repo.MarkRestored(ctx, ownerID, note.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("restore of active = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Purge Requires Trash", func(t *testing.T) {
		if err := repo.DeleteTrashed(ctx, ownerID, note.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("purge of active = %v, want ErrNoteNotFound", err)
		}
		if _, err := repo.GetNote(ctx, ownerID, note.ID); err != nil {
			t.Errorf("active note damaged by rejected purge: %v", err)
		}

		if _, err := repo.MarkTrashed(ctx, ownerID, note.ID); err != nil {
			t.Fatalf("MarkTrashed failed: %v", err)
		}
		if err := repo.DeleteTrashed(ctx, ownerID, note.ID); err != nil {
			t.Fatalf("DeleteTrashed failed: %v", err)
		}
		if _, err := repo.GetNoteAnyState(ctx, ownerID, note.ID); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("purged note still present: %v", err)
		}
	})
}

func TestApplyUpdateVersioning(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()
	ownerID := uuid.New().String()

	note := createTestNote(ownerID, "Versioned")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	t.Run("Partial Patch Preserves Other Fields", func(t *testing.T) {
		title := "Renamed"
		updated, err := repo.ApplyUpdate(ctx, ownerID, note.ID, NoteUpdate{Title: &title})
		if err != nil {
			t.Fatalf("ApplyUpdate failed: %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("title = %q", updated.Title)
		}
		if updated.Content != "Test Content" {
			t.Errorf("content changed by title-only patch: %q", updated.Content)
		}
		if updated.Version != 2 {
			t.Errorf("version = %d, want 2", updated.Version)
		}
	})

	t.Run("Stale Base Version Misses", func(t *testing.T) {
		content := "overwrite attempt"
		stale := int64(1)
		if _, err := repo.ApplyUpdate(ctx, ownerID, note.ID, NoteUpdate{Content: &content, BaseVersion: &stale}); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("stale update = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Matching Base Version Applies", func(t *testing.T) {
		content := "fresh write"
		base := int64(2)
		updated, err := repo.ApplyUpdate(ctx, ownerID, note.ID, NoteUpdate{Content: &content, BaseVersion: &base})
		if err != nil {
			t.Fatalf("ApplyUpdate failed: %v", err)
		}
		if updated.Version != 3 {
			t.Errorf("version = %d, want 3", updated.Version)
		}
	})
}

func TestOwnershipScoping(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()

	owner := uuid.New().String()
	stranger := uuid.New().String()

	note := createTestNote(owner, "Private")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	if _, err := repo.GetNote(ctx, stranger, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("foreign read = %v, want ErrNoteNotFound", err)
	}
	if _, err := repo.MarkTrashed(ctx, stranger, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("foreign trash = %v, want ErrNoteNotFound", err)
	}
	if err := repo.DeleteTrashed(ctx, stranger, note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("foreign purge = %v, want ErrNoteNotFound", err)
	}
}

func TestSharing(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()
	ownerID := uuid.New().String()

	note := createTestNote(ownerID, "Shared Note")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	t.Run("Set and Resolve", func(t *testing.T) {
		shared, err := repo.SetSharing(ctx, ownerID, note.ID, "tok_abc")
		if err != nil {
			t.Fatalf("SetSharing failed: %v", err)
		}
		if !shared.IsPublic || shared.PublicID != "tok_abc" {
			t.Errorf("shared state: is_public=%v public_id=%q", shared.IsPublic, shared.PublicID)
		}

		resolved, err := repo.FindByPublicID(ctx, "tok_abc")
		if err != nil {
			t.Fatalf("FindByPublicID failed: %v", err)
		}
		if resolved.ID != note.ID {
			t.Errorf("resolved wrong note: %s", resolved.ID)
		}
	})

	t.Run("Trashed Note Not Resolvable", func(t *testing.T) {
		if _, err := repo.MarkTrashed(ctx, ownerID, note.ID); err != nil {
			t.Fatalf("MarkTrashed failed: %v", err)
		}
		if _, err := repo.FindByPublicID(ctx, "tok_abc"); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("trashed resolve = %v, want ErrNoteNotFound", err)
		}
		if _, err := repo.MarkRestored(ctx, ownerID, note.ID); err != nil {
			t.Fatalf("MarkRestored failed: %v", err)
		}
	})

	t.Run("Clear Removes Token", func(t *testing.T) {
		cleared, err := repo.ClearSharing(ctx, ownerID, note.ID)
		if err != nil {
			t.Fatalf("ClearSharing failed: %v", err)
		}
		if cleared.IsPublic || cleared.PublicID != "" {
			t.Errorf("cleared state: is_public=%v public_id=%q", cleared.IsPublic, cleared.PublicID)
		}
		if _, err := repo.FindByPublicID(ctx, "tok_abc"); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("revoked resolve = %v, want ErrNoteNotFound", err)
		}
	})

	t.Run("Unknown Token", func(t *testing.T) {
		if _, err := repo.FindByPublicID(ctx, "no_such_token"); !errors.Is(err, ErrNoteNotFound) {
			t.Errorf("unknown token = %v, want ErrNoteNotFound", err)
		}
	})
}

func TestFindActiveExcludesTrashedAndArchived(t *testing.T) {
	repo, cleanup := setupNotesTest(t)
	defer cleanup()
	ctx := context.Background()
	ownerID := uuid.New().String()

	active := createTestNote(ownerID, "Active")
	trashed := createTestNote(ownerID, "Trashed")
	archived := createTestNote(ownerID, "Archived")
	archived.IsArchived = true

	for _, n := range []*model.Note{active, trashed, archived} {
		if err := repo.CreateNote(ctx, n); err != nil {
			t.Fatalf("CreateNote failed: %v", err)
		}
	}
	if _, err := repo.MarkTrashed(ctx, ownerID, trashed.ID); err != nil {
		t.Fatalf("MarkTrashed failed: %v", err)
	}

	notes, err := repo.FindActive(ctx, ownerID)
	if err != nil {
		t.Fatalf("FindActive failed: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != active.ID {
		t.Errorf("FindActive returned %d notes, want only the active one", len(notes))
	}

	inTrash, err := repo.FindTrashed(ctx, ownerID)
	if err != nil {
		t.Fatalf("FindTrashed failed: %v", err)
	}
	if len(inTrash) != 1 || inTrash[0].ID != trashed.ID {
		t.Errorf("FindTrashed returned %d notes, want only the trashed one", len(inTrash))
	}
}
