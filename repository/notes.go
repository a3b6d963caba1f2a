package repository

import (
	"context"
	"errors"
	"os"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoteNotFound is reported for notes that are absent, owned by
// someone else, or in the wrong lifecycle state for the operation.
var ErrNoteNotFound = errors.New("note not found")

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
	}
}

// notDeleted matches active notes. Uses $ne so documents created
// before the soft-delete fields existed still match.
func notDeleted() bson.M {
	return bson.M{"$ne": true}
}

// CreateNote inserts a new note owned by note.OwnerID.
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.OwnerID == "" {
		return errors.New("owner ID is required")
	}
	if note.ID == "" {
		note.ID = utils.GenerateID()
	}

	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now
	note.Version = 1

	_, err := r.MongoCollection.InsertOne(ctx, note)
	return err
}

// FindActive retrieves the owner's active notes, pinned first then by
// most recent update. Ties are re-broken by the lifecycle service.
func (r *NotesRepo) FindActive(ctx context.Context, ownerID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"owner_id":    ownerID,
		"is_deleted":  notDeleted(),
		"is_archived": bson.M{"$ne": true},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "updated_at", Value: -1},
	})

	return r.findNotes(ctx, filter, opts)
}

// FindTrashed retrieves the owner's trashed notes, most recently
// deleted first.
func (r *NotesRepo) FindTrashed(ctx context.Context, ownerID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"owner_id":   ownerID,
		"is_deleted": true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})

	return r.findNotes(ctx, filter, opts)
}

func (r *NotesRepo) findNotes(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Note, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote retrieves one active note for editing. Trashed notes are
// reachable only through FindTrashed and the restore/purge operations.
func (r *NotesRepo) GetNote(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": notDeleted(),
	}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// GetNoteAnyState retrieves a note regardless of retention state. The
// sharing axis is independent of retention, so share/unshare use this.
func (r *NotesRepo) GetNoteAnyState(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{
		"_id":      noteID,
		"owner_id": ownerID,
	}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// NoteUpdate is a partial patch applied to an active note. Nil fields
// are left untouched. BaseVersion, when set, makes the update match
// only while the stored version still equals it.
type NoteUpdate struct {
	Title       *string
	Content     *string
	Tags        *[]string
	IsArchived  *bool
	BaseVersion *int64
}

// ApplyUpdate patches an active note atomically. A version-guarded
// miss is indistinguishable from a missing note here; the lifecycle
// service tells the two apart.
func (r *NotesRepo) ApplyUpdate(ctx context.Context, ownerID, noteID string, patch NoteUpdate) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": notDeleted(),
	}
	if patch.BaseVersion != nil {
		filter["version"] = *patch.BaseVersion
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.IsArchived != nil {
		set["is_archived"] = *patch.IsArchived
	}

	update := bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// TogglePin flips the pin flag on an active note.
func (r *NotesRepo) TogglePin(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	note, err := r.GetNote(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}

	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": notDeleted(),
	}
	update := bson.M{
		"$set": bson.M{
			"is_pinned":  !note.IsPinned,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// MarkTrashed moves an active note to the trash. The filter enforces
// the Active precondition, so trashing an already-trashed note reports
// not-found. is_deleted and deleted_at are only ever written together
// here and in MarkRestored.
func (r *NotesRepo) MarkTrashed(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	filter := bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": notDeleted(),
	}
	update := bson.M{
		"$set": bson.M{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		},
		"$inc": bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// MarkRestored moves a trashed note back to the active state. Requires
// the note to currently be trashed.
func (r *NotesRepo) MarkRestored(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": true,
	}
	update := bson.M{
		"$set": bson.M{
			"is_deleted": false,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"deleted_at": ""},
		"$inc":   bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// DeleteTrashed permanently removes a note, but only from the trash.
// Deleting an active note reports not-found and leaves it intact.
func (r *NotesRepo) DeleteTrashed(ctx context.Context, ownerID, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{
		"_id":        noteID,
		"owner_id":   ownerID,
		"is_deleted": true,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// SetSharing marks a note public under the given token.
func (r *NotesRepo) SetSharing(ctx context.Context, ownerID, noteID, publicID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"is_public":  true,
			"public_id":  publicID,
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// ClearSharing revokes public access. The token is removed, not just
// disabled, so a later share mints a fresh one and old links die.
func (r *NotesRepo) ClearSharing(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID, "owner_id": ownerID}
	update := bson.M{
		"$set": bson.M{
			"is_public":  false,
			"updated_at": time.Now().UTC(),
		},
		"$unset": bson.M{"public_id": ""},
		"$inc":   bson.M{"version": 1},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

// FindByPublicID resolves a share token to its note. Trashed notes are
// excluded even if their is_public flag is still set.
func (r *NotesRepo) FindByPublicID(ctx context.Context, publicID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{
		"public_id":  publicID,
		"is_public":  true,
		"is_deleted": notDeleted(),
	}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

// CountUserNotes counts the notes a user owns, trash included.
func (r *NotesRepo) CountUserNotes(ctx context.Context, ownerID string) (int, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *NotesRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*model.Note, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}
