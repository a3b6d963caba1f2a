package model

import (
	"time"
)

type Note struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	OwnerID    string     `bson:"owner_id" json:"-"`
	Title      string     `bson:"title" json:"title"`
	Content    string     `bson:"content" json:"content"`
	Tags       []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	IsPinned   bool       `bson:"is_pinned" json:"is_pinned"`
	IsArchived bool       `bson:"is_archived" json:"is_archived"`
	IsDeleted  bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	IsPublic   bool       `bson:"is_public" json:"is_public"`
	PublicID   string     `bson:"public_id,omitempty" json:"public_id,omitempty"`
	Version    int64      `bson:"version" json:"version"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// PublicNote is the display-safe projection served to unauthenticated
// readers. It never carries the owner or the internal note ID.
type PublicNote struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n *Note) ToPublic() *PublicNote {
	return &PublicNote{
		Title:     n.Title,
		Content:   n.Content,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
