package usecase

import (
	"context"
	"errors"
	"fmt"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

// ShareService owns the sharing axis of a note: issuing and revoking
// the public token, and resolving tokens for unauthenticated readers.
type ShareService struct {
	NotesRepo   *repository.NotesRepo
	PublicCache *services.PublicCache // optional
}

// Share makes the note publicly readable and returns the share URL.
// A note that is already public keeps its token; a token survives on a
// still-shared note across repeated share calls, and only a note that
// was unshared in between gets a fresh one.
func (svc *ShareService) Share(ctx context.Context, ownerID, noteID string) (*model.Note, string, error) {
	note, err := svc.NotesRepo.GetNoteAnyState(ctx, ownerID, noteID)
	if err != nil {
		return nil, "", mapRepoError(err)
	}

	publicID := note.PublicID
	if publicID == "" {
		publicID, err = services.GenerateShareToken()
		if err != nil {
			return nil, "", fmt.Errorf("failed to mint share token: %w", err)
		}
	}

	updated, err := svc.NotesRepo.SetSharing(ctx, ownerID, noteID, publicID)
	if err != nil {
		return nil, "", mapRepoError(err)
	}

	utils.TrackNoteOperation("share")
	return updated, fmt.Sprintf("%s/share/%s", utils.ShareBaseURL(), publicID), nil
}

// Unshare revokes public access and discards the token, so any link
// handed out so far stops resolving for good. Unsharing an already
// private note is a safe no-op.
func (svc *ShareService) Unshare(ctx context.Context, ownerID, noteID string) error {
	note, err := svc.NotesRepo.GetNoteAnyState(ctx, ownerID, noteID)
	if err != nil {
		return mapRepoError(err)
	}

	if !note.IsPublic && note.PublicID == "" {
		return nil
	}

	if _, err := svc.NotesRepo.ClearSharing(ctx, ownerID, noteID); err != nil {
		return mapRepoError(err)
	}

	if svc.PublicCache != nil && note.PublicID != "" {
		svc.PublicCache.Invalidate(ctx, note.PublicID)
	}

	utils.TrackNoteOperation("unshare")
	return nil
}

// ResolvePublic maps a share token to the read-only projection. Only
// public, non-trashed notes resolve; everything else is not-found.
func (svc *ShareService) ResolvePublic(ctx context.Context, publicID string) (*model.PublicNote, error) {
	if publicID == "" {
		return nil, ErrNotFound
	}

	if svc.PublicCache != nil {
		if cached, ok := svc.PublicCache.Get(ctx, publicID); ok {
			return cached, nil
		}
	}

	note, err := svc.NotesRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	public := note.ToPublic()
	if svc.PublicCache != nil {
		svc.PublicCache.Set(ctx, publicID, public)
	}
	return public, nil
}
