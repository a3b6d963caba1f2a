// Package editor owns one note's editable working copy and keeps it
// consistent with the server under debounced autosaves, optimistic
// toggles and user-triggered actions. All state lives in an explicit
// state machine transitioned only through the exported methods; at
// most one save request per note is in flight at any moment.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// ErrNotFound must be wrapped by API implementations when the note is
// absent, not owned, or in the wrong lifecycle state.
var ErrNotFound = errors.New("note not found")

var (
	ErrNotReady  = errors.New("editor: note not loaded")
	ErrClosed    = errors.New("editor: editing session closed")
	ErrCancelled = errors.New("editor: action not confirmed")
)

// DefaultDebounce is the quiet period after the last edit before an
// autosave fires.
const DefaultDebounce = 800 * time.Millisecond

// Note is the server representation the controller works against.
type Note struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	IsPinned  bool
	IsPublic  bool
	PublicID  string
	Version   int64
	UpdatedAt time.Time
}

// SavePayload carries the draft fields of one save request.
type SavePayload struct {
	Title   string
	Content string
	Tags    []string
}

// ShareInfo is the result of a share call.
type ShareInfo struct {
	PublicID  string
	PublicURL string
}

// API is the transport the controller drives. Implementations report a
// missing note by wrapping ErrNotFound.
type API interface {
	GetNote(ctx context.Context, id string) (*Note, error)
	SaveNote(ctx context.Context, id string, payload SavePayload) (*Note, error)
	TogglePin(ctx context.Context, id string) (*Note, error)
	TrashNote(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	ShareNote(ctx context.Context, id string) (*ShareInfo, error)
	UnshareNote(ctx context.Context, id string) error
}

// LoadState is the lifecycle of the editing session itself.
type LoadState int

const (
	StateLoading LoadState = iota
	StateReady
	StateNotFound // terminal, no retry
	StateLoadFailed
	StateClosed // note trashed or purged, editing over
)

// SaveStatus is the tri-state autosave projection shown to the user.
type SaveStatus string

const (
	StatusIdle   SaveStatus = ""
	StatusSaving SaveStatus = "saving"
	StatusSaved  SaveStatus = "saved"
	StatusError  SaveStatus = "error"
)

// Draft is the local working copy. The tags field is the raw comma
// separated input; it is parsed at save time.
type Draft struct {
	Title     string
	Content   string
	TagsInput string
	IsPinned  bool
}

// Snapshot is a consistent copy of the displayed state.
type Snapshot struct {
	State     LoadState
	Status    SaveStatus
	Draft     Draft
	PublicURL string
	Version   int64
	LoadErr   error
	SaveErr   error
}

type Options struct {
	// Debounce overrides DefaultDebounce. Mainly for tests.
	Debounce time.Duration

	// ShareBase is the origin public links are built on when the note
	// arrives already shared, e.g. "http://localhost:5173".
	ShareBase string

	// Confirm gates destructive actions. Nil declines everything.
	Confirm func(prompt string) bool

	// OnExit is invoked after a successful trash or permanent delete,
	// when the note can no longer be edited in place.
	OnExit func()
}

type Controller struct {
	api       API
	noteID    string
	debounce  time.Duration
	shareBase string
	confirm   func(string) bool
	onExit    func()

	mu   sync.Mutex
	cond *sync.Cond

	state   LoadState
	loadErr error

	draft     Draft
	version   int64
	publicURL string

	status  SaveStatus
	saveErr error

	editSeq     int64 // bumped on every local edit
	savedSeq    int64 // highest edit sequence durably saved
	inFlightSeq int64 // edit sequence carried by the in-flight save, 0 when none
	inFlight    bool

	timer    *time.Timer
	timerGen int
}

func NewController(api API, noteID string, opts Options) *Controller {
	c := &Controller{
		api:       api,
		noteID:    noteID,
		debounce:  opts.Debounce,
		shareBase: strings.TrimRight(opts.ShareBase, "/"),
		confirm:   opts.Confirm,
		onExit:    opts.OnExit,
		state:     StateLoading,
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.confirm == nil {
		c.confirm = func(string) bool { return false }
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Load fetches the authoritative note. A not-found answer is terminal;
// any other failure leaves the controller retryable. No autosave can
// fire before a successful load.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateNotFound || c.state == StateClosed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.state = StateLoading
	c.mu.Unlock()

	note, err := c.api.GetNote(ctx, c.noteID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.state = StateNotFound
		} else {
			c.state = StateLoadFailed
		}
		c.loadErr = err
		return err
	}

	c.adoptLocked(note)
	c.state = StateReady
	c.loadErr = nil
	c.status = StatusIdle
	c.cond.Broadcast()
	return nil
}

// adoptLocked replaces the working copy with server state.
func (c *Controller) adoptLocked(note *Note) {
	c.draft = Draft{
		Title:     note.Title,
		Content:   note.Content,
		TagsInput: strings.Join(note.Tags, ", "),
		IsPinned:  note.IsPinned,
	}
	c.version = note.Version
	c.setPublicLocked(note.IsPublic, note.PublicID)
}

func (c *Controller) setPublicLocked(isPublic bool, publicID string) {
	if isPublic && publicID != "" {
		c.publicURL = c.shareBase + "/share/" + publicID
	} else {
		c.publicURL = ""
	}
}

// SetTitle records a keystroke-level title change.
func (c *Controller) SetTitle(title string) error {
	return c.edit(func(d *Draft) { d.Title = title })
}

// SetContent records a keystroke-level content change.
func (c *Controller) SetContent(content string) error {
	return c.edit(func(d *Draft) { d.Content = content })
}

// SetTagsInput records the raw comma separated tags field.
func (c *Controller) SetTagsInput(input string) error {
	return c.edit(func(d *Draft) { d.TagsInput = input })
}

// edit applies a local change immediately and re-arms the debounce
// timer. The previous pending timer, if any, is replaced, never
// stacked.
func (c *Controller) edit(apply func(*Draft)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}

	apply(&c.draft)
	c.editSeq++
	c.status = StatusSaving
	c.saveErr = nil
	c.armTimerLocked()
	return nil
}

func (c *Controller) armTimerLocked() {
	c.timerGen++
	gen := c.timerGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.timerFired(gen)
	})
}

func (c *Controller) timerFired(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A newer edit replaced this timer while the callback was pending.
	if gen != c.timerGen || c.state != StateReady {
		return
	}
	c.flushLocked()
}

// SaveNow forces an immediate flush, bypassing the debounce timer but
// not the in-flight serialization rule.
func (c *Controller) SaveNow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return ErrNotReady
	}

	c.stopTimerLocked()
	c.status = StatusSaving
	c.saveErr = nil
	c.flushLocked()
	return nil
}

func (c *Controller) stopTimerLocked() {
	c.timerGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// flushLocked starts a save for the current draft unless one is
// already in flight. When a save is in flight the newest state is
// picked up by that save's completion, so saves never race unordered.
func (c *Controller) flushLocked() {
	if c.inFlight {
		return
	}
	if c.editSeq == c.savedSeq {
		// Nothing new since the last durable save.
		if c.status == StatusSaving {
			c.status = StatusSaved
		}
		c.cond.Broadcast()
		return
	}

	seq := c.editSeq
	payload := SavePayload{
		Title:   c.draft.Title,
		Content: c.draft.Content,
		Tags:    ParseTags(c.draft.TagsInput),
	}
	c.inFlight = true
	c.inFlightSeq = seq

	go c.runSave(seq, payload)
}

func (c *Controller) runSave(seq int64, payload SavePayload) {
	note, err := c.api.SaveNote(context.Background(), c.noteID, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	c.inFlightSeq = 0

	if err != nil {
		// Local edits are retained; the user retries via SaveNow.
		c.status = StatusError
		c.saveErr = err
		c.cond.Broadcast()
		return
	}

	if seq > c.savedSeq {
		c.savedSeq = seq
	}
	if note != nil {
		c.version = note.Version
	}

	if c.editSeq > seq {
		// Edits arrived while this save was in flight: the response is
		// stale, keep reporting saving and flush the newest state now.
		c.status = StatusSaving
		c.flushLocked()
		return
	}

	if c.state == StateReady {
		c.status = StatusSaved
	}
	c.cond.Broadcast()
}

// TogglePin flips the pin optimistically and reconciles with the
// server. On failure the authoritative state is re-fetched; the pin
// flag is never blindly reverted to the prior local value.
func (c *Controller) TogglePin(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.draft.IsPinned = !c.draft.IsPinned
	c.mu.Unlock()

	note, err := c.api.TogglePin(ctx, c.noteID)
	if err == nil {
		c.mu.Lock()
		c.draft.IsPinned = note.IsPinned
		c.version = note.Version
		c.mu.Unlock()
		return nil
	}

	// The server may have moved on for unrelated reasons between the
	// optimistic flip and this failure, so ask it rather than guess.
	fresh, fetchErr := c.api.GetNote(ctx, c.noteID)
	if fetchErr != nil {
		return err
	}

	c.mu.Lock()
	c.draft.IsPinned = fresh.IsPinned
	c.version = fresh.Version
	c.setPublicLocked(fresh.IsPublic, fresh.PublicID)
	c.mu.Unlock()
	return err
}

// Trash moves the note to the trash after explicit confirmation and
// ends the editing session.
func (c *Controller) Trash(ctx context.Context) error {
	return c.destructive(ctx, "Delete this note?", c.api.TrashNote)
}

// PermanentDelete destroys the note after explicit confirmation and
// ends the editing session.
func (c *Controller) PermanentDelete(ctx context.Context) error {
	return c.destructive(ctx, "Permanently delete this note? This cannot be undone.", c.api.PermanentDelete)
}

func (c *Controller) destructive(ctx context.Context, prompt string, action func(context.Context, string) error) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.mu.Unlock()

	if !c.confirm(prompt) {
		return ErrCancelled
	}

	if err := action(ctx, c.noteID); err != nil {
		return err
	}

	c.mu.Lock()
	c.state = StateClosed
	c.stopTimerLocked()
	c.cond.Broadcast()
	c.mu.Unlock()

	if c.onExit != nil {
		c.onExit()
	}
	return nil
}

// Share publishes the note and caches the returned public URL for
// display and copying.
func (c *Controller) Share(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return "", ErrNotReady
	}
	c.mu.Unlock()

	info, err := c.api.ShareNote(ctx, c.noteID)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.publicURL = info.PublicURL
	c.mu.Unlock()
	return info.PublicURL, nil
}

// Unshare revokes public access. The cached URL is cleared before the
// request resolves: keeping a revoked link on screen is the failure
// mode to avoid.
func (c *Controller) Unshare(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.publicURL = ""
	c.mu.Unlock()

	return c.api.UnshareNote(ctx, c.noteID)
}

// Snapshot returns a consistent copy of the displayed state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:     c.state,
		Status:    c.status,
		Draft:     c.draft,
		PublicURL: c.publicURL,
		Version:   c.version,
		LoadErr:   c.loadErr,
		SaveErr:   c.saveErr,
	}
}

// Wait blocks until no save is in flight and no edit is pending, or
// the context ends. Used before leaving the editor and by tests.
func (c *Controller) Wait(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.state == StateReady && (c.inFlight || (c.editSeq != c.savedSeq && c.status == StatusSaving)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.cond.Wait()
	}
	return nil
}

// ParseTags splits a comma separated tags field, trimming whitespace
// and dropping empties.
func ParseTags(input string) []string {
	parts := strings.Split(input, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
