package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

const maxUserNotes = 100

type NotesService struct {
	NotesRepo *repository.NotesRepo

	// PublicCache is invalidated whenever a mutation can change what an
	// already-distributed share link resolves to. Optional.
	PublicCache *services.PublicCache
}

// NotePatch is a partial update; nil fields are left untouched.
// BaseVersion, when set, rejects the patch if the note has moved on.
type NotePatch struct {
	Title       *string
	Content     *string
	Tags        *[]string
	IsArchived  *bool
	BaseVersion *int64
}

// NormalizeTitle trims the title and substitutes the default for an
// empty one.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	return title
}

// NormalizeTags trims every tag and drops empties.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

// sortActive imposes the list contract: pinned first, then most
// recently updated, ties broken by ID. The store's native ordering is
// not trusted to be total.
func sortActive(notes []*model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		if !notes[i].UpdatedAt.Equal(notes[j].UpdatedAt) {
			return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
}

// sortTrashed orders by most recently deleted, ties broken by ID.
func sortTrashed(notes []*model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		di, dj := notes[i].DeletedAt, notes[j].DeletedAt
		switch {
		case di == nil && dj == nil:
			return notes[i].ID < notes[j].ID
		case di == nil:
			return false
		case dj == nil:
			return true
		}
		if !di.Equal(*dj) {
			return di.After(*dj)
		}
		return notes[i].ID < notes[j].ID
	})
}

func (svc *NotesService) CreateNote(ctx context.Context, ownerID, title, content string, tags []string) (*model.Note, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID is required")
	}

	count, err := svc.NotesRepo.CountUserNotes(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= maxUserNotes {
		return nil, fmt.Errorf("%w: user has reached maximum note limit", ErrValidation)
	}

	note := &model.Note{
		OwnerID: ownerID,
		Title:   NormalizeTitle(title),
		Content: content,
		Tags:    NormalizeTags(tags),
	}

	if err := svc.NotesRepo.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

func (svc *NotesService) GetNote(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.GetNote(ctx, ownerID, noteID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return note, nil
}

func (svc *NotesService) ListActive(ctx context.Context, ownerID string) ([]*model.Note, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID is required")
	}

	notes, err := svc.NotesRepo.FindActive(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	sortActive(notes)
	return notes, nil
}

func (svc *NotesService) ListTrash(ctx context.Context, ownerID string) ([]*model.Note, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID is required")
	}

	notes, err := svc.NotesRepo.FindTrashed(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trash: %w", err)
	}

	sortTrashed(notes)
	return notes, nil
}

func (svc *NotesService) UpdateNote(ctx context.Context, ownerID, noteID string, patch NotePatch) (*model.Note, error) {
	update := repository.NoteUpdate{
		IsArchived:  patch.IsArchived,
		BaseVersion: patch.BaseVersion,
	}
	if patch.Title != nil {
		title := NormalizeTitle(*patch.Title)
		update.Title = &title
	}
	if patch.Content != nil {
		update.Content = patch.Content
	}
	if patch.Tags != nil {
		tags := NormalizeTags(*patch.Tags)
		update.Tags = &tags
	}

	note, err := svc.NotesRepo.ApplyUpdate(ctx, ownerID, noteID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) && patch.BaseVersion != nil {
			// Distinguish a stale version from a missing note.
			if _, getErr := svc.NotesRepo.GetNote(ctx, ownerID, noteID); getErr == nil {
				return nil, ErrConflict
			}
		}
		return nil, mapRepoError(err)
	}

	utils.TrackNoteOperation("update")
	svc.invalidatePublic(ctx, note)
	return note, nil
}

func (svc *NotesService) TogglePin(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.TogglePin(ctx, ownerID, noteID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	utils.TrackNoteOperation("toggle_pin")
	return note, nil
}

// Trash moves an active note to the trash. A second trash of the same
// note reports not-found: the store enforces the Active precondition.
func (svc *NotesService) Trash(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.MarkTrashed(ctx, ownerID, noteID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	utils.TrackNoteOperation("trash")
	svc.invalidatePublic(ctx, note)
	return note, nil
}

// Restore brings a trashed note back. Restoring an active note reports
// not-found rather than silently succeeding.
func (svc *NotesService) Restore(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.MarkRestored(ctx, ownerID, noteID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	utils.TrackNoteOperation("restore")
	return note, nil
}

// PermanentDelete destroys a trashed note. An active note is left
// intact and reported not-found.
func (svc *NotesService) PermanentDelete(ctx context.Context, ownerID, noteID string) error {
	// Grab the share token before the record disappears so the cache
	// entry can be dropped with it.
	note, err := svc.NotesRepo.GetNoteAnyState(ctx, ownerID, noteID)
	if err != nil {
		return mapRepoError(err)
	}

	if err := svc.NotesRepo.DeleteTrashed(ctx, ownerID, noteID); err != nil {
		return mapRepoError(err)
	}

	utils.TrackNoteOperation("purge")
	svc.invalidatePublic(ctx, note)
	return nil
}

func (svc *NotesService) invalidatePublic(ctx context.Context, note *model.Note) {
	if svc.PublicCache == nil || note == nil || note.PublicID == "" {
		return
	}
	svc.PublicCache.Invalidate(ctx, note.PublicID)
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNoteNotFound) {
		return ErrNotFound
	}
	return err
}
