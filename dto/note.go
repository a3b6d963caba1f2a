package dto

import (
	"main/model"
	"time"
)

type CreateNoteRequest struct {
	Title   string   `json:"title" binding:"max=200"`
	Content string   `json:"content" binding:"max=50000"`
	Tags    []string `json:"tags" binding:"max=10"`
}

// UpdateNoteRequest is a partial patch: nil fields are left untouched.
// BaseVersion, when set, makes the update conditional on the note not
// having moved on since the client last read it.
type UpdateNoteRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=200"`
	Content     *string   `json:"content" binding:"omitempty,max=50000"`
	Tags        *[]string `json:"tags" binding:"omitempty,max=10"`
	IsArchived  *bool     `json:"is_archived"`
	BaseVersion *int64    `json:"base_version"`
}

type NoteResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags,omitempty"`
	IsPinned  bool       `json:"is_pinned"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	IsPublic  bool       `json:"is_public"`
	PublicID  string     `json:"public_id,omitempty"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type ShareResponse struct {
	PublicID  string `json:"public_id"`
	PublicURL string `json:"public_url"`
}

type PublicNoteResponse struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToNoteResponse(note *model.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		IsPinned:  note.IsPinned,
		IsDeleted: note.IsDeleted,
		DeletedAt: note.DeletedAt,
		IsPublic:  note.IsPublic,
		PublicID:  note.PublicID,
		Version:   note.Version,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func ToNoteResponses(notes []*model.Note) []NoteResponse {
	responses := make([]NoteResponse, len(notes))
	for i, note := range notes {
		responses[i] = ToNoteResponse(note)
	}
	return responses
}

func ToPublicNoteResponse(note *model.PublicNote) PublicNoteResponse {
	return PublicNoteResponse{
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}
