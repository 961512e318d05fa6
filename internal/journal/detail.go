package journal

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Mode is the state of a Detail.
type Mode int

const (
	Viewing Mode = iota
	Editing
	AddingSecondary
	ConfirmingDelete
	Closed
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case AddingSecondary:
		return "adding-secondary"
	case ConfirmingDelete:
		return "confirming-delete"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Draft holds the field values being edited. CreatedAt is the raw date text
// as typed, parsed only on save.
type Draft struct {
	Title            string
	Content          string
	SecondaryContent string
	StateOfMind      Mood
	CreatedAt        string
}

func draftOf(e *Entry) Draft {
	return Draft{
		Title:            e.Title,
		Content:          e.Content,
		SecondaryContent: e.Secondary(),
		StateOfMind:      e.StateOfMind,
		CreatedAt:        string(e.CreatedAt),
	}
}

// DetailListener is told about changes a Detail persisted, so the owning
// list can patch its copy.
type DetailListener interface {
	EntryUpdated(entry *Entry)
	EntryDeleted(id string)
}

// Detail is the view/edit state machine for one open entry. It is safe for
// concurrent use; at most one save or delete is in flight at a time.
type Detail struct {
	store    EntryStore
	clock    Clock
	logger   Logger
	listener DetailListener

	mu      sync.Mutex
	entry   *Entry
	mode    Mode
	draft   Draft
	pending bool
}

// NewDetail opens entry in Viewing mode. listener may be nil.
func NewDetail(entry *Entry, store EntryStore, clock Clock, logger Logger, listener DetailListener) *Detail {
	e := entry.Clone()
	return &Detail{
		store:    store,
		clock:    clock,
		logger:   logger,
		listener: listener,
		entry:    e,
		draft:    draftOf(e),
	}
}

// Mode returns the current mode.
func (d *Detail) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Entry returns a copy of the last persisted values.
func (d *Detail) Entry() *Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entry.Clone()
}

// Draft returns the values currently being edited.
func (d *Detail) Draft() Draft {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// Pending reports whether a save or delete is in flight.
func (d *Detail) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// CanAddSecondary reports whether the counterpart slot offers an "add"
// affordance: only while viewing and only when it has not been written.
func (d *Detail) CanAddSecondary() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode == Viewing && !d.entry.HasSecondary()
}

func (d *Detail) authorize(sess *Session, action string) error {
	if !sess.Active(d.clock.Now()) {
		d.logger.Warn("refused without session", "action", action, "id", d.entry.ID)
		return ErrNotAuthenticated
	}
	return nil
}

// enter moves from Viewing to mode. Caller holds mu.
func (d *Detail) enter(mode Mode) error {
	if d.pending {
		return ErrBusy
	}
	if d.mode != Viewing {
		return fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, d.mode, mode)
	}
	d.mode = mode
	d.draft = draftOf(d.entry)
	return nil
}

// BeginEdit switches to full editing of every field but the type.
func (d *Detail) BeginEdit(sess *Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.authorize(sess, "edit"); err != nil {
		return err
	}
	return d.enter(Editing)
}

// BeginAddSecondary opens an editor for the counterpart slot only. It is
// refused once the counterpart has been written.
func (d *Detail) BeginAddSecondary(sess *Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.authorize(sess, "add-secondary"); err != nil {
		return err
	}
	if d.entry.HasSecondary() {
		return fmt.Errorf("%w: %s already written", ErrInvalidTransition, SlotSecondary)
	}
	return d.enter(AddingSecondary)
}

// SetDraft replaces the edited values. While adding the counterpart only its
// text is taken from draft.
func (d *Detail) SetDraft(draft Draft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		return ErrBusy
	}
	switch d.mode {
	case Editing:
		d.draft = draft
	case AddingSecondary:
		d.draft.SecondaryContent = draft.SecondaryContent
	default:
		return fmt.Errorf("%w: not editing", ErrInvalidTransition)
	}
	return nil
}

// Cancel discards every edit and returns to Viewing.
func (d *Detail) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		return ErrBusy
	}
	if d.mode != Editing && d.mode != AddingSecondary {
		return fmt.Errorf("%w: nothing to cancel in %s", ErrInvalidTransition, d.mode)
	}
	d.mode = Viewing
	d.draft = draftOf(d.entry)
	return nil
}

// patch validates the draft for the current mode. Caller holds mu.
func (d *Detail) patch() (EntryPatch, error) {
	now := d.clock.Now()
	if d.mode == AddingSecondary {
		text := strings.TrimSpace(d.draft.SecondaryContent)
		if text == "" {
			return EntryPatch{}, &ValidationError{Field: string(SlotSecondary), Message: "text must not be empty"}
		}
		return EntryPatch{SecondaryContent: &text, UpdatedAt: now}, nil
	}

	title := strings.TrimSpace(d.draft.Title)
	if title == "" {
		return EntryPatch{}, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	createdAt := d.entry.CreatedAt
	if d.draft.CreatedAt != string(d.entry.CreatedAt) {
		parsed, err := ParseDate(d.draft.CreatedAt)
		if err != nil {
			return EntryPatch{}, err
		}
		createdAt = parsed
	}
	mood := d.draft.StateOfMind
	if mood != d.entry.StateOfMind && !mood.Valid() {
		return EntryPatch{}, &ValidationError{Field: "stateOfMind", Message: fmt.Sprintf("unknown state of mind %q", mood)}
	}
	content := strings.TrimSpace(d.draft.Content)
	// A blank counterpart is stored as absent.
	secondary := strings.TrimSpace(d.draft.SecondaryContent)

	return EntryPatch{
		Title:            &title,
		Content:          &content,
		SecondaryContent: &secondary,
		StateOfMind:      &mood,
		CreatedAt:        &createdAt,
		UpdatedAt:        now,
	}, nil
}

// Save validates and persists the draft. On success the detail returns to
// Viewing with the persisted values; on failure it stays in the edit mode
// with the draft untouched.
func (d *Detail) Save(ctx context.Context, sess *Session) error {
	d.mu.Lock()
	if err := d.authorize(sess, "save"); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.pending {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.mode != Editing && d.mode != AddingSecondary {
		mode := d.mode
		d.mu.Unlock()
		return fmt.Errorf("%w: nothing to save in %s", ErrInvalidTransition, mode)
	}
	p, err := d.patch()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	id := d.entry.ID
	d.pending = true
	d.mu.Unlock()

	err = d.store.Update(ctx, id, p)

	d.mu.Lock()
	d.pending = false
	if err != nil {
		d.mu.Unlock()
		d.logger.Error("saving entry failed", "id", id, "error", err)
		return &StoreError{Op: "update", Err: err}
	}
	p.Apply(d.entry)
	d.mode = Viewing
	d.draft = draftOf(d.entry)
	saved := d.entry.Clone()
	d.mu.Unlock()

	d.logger.Info("entry saved", "id", id)
	if d.listener != nil {
		d.listener.EntryUpdated(saved)
	}
	return nil
}

// RequestDelete asks for confirmation. Nothing is removed until
// ConfirmDelete.
func (d *Detail) RequestDelete(sess *Session) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.authorize(sess, "delete"); err != nil {
		return err
	}
	if d.pending {
		return ErrBusy
	}
	if d.mode != Viewing {
		return fmt.Errorf("%w: cannot delete while %s", ErrInvalidTransition, d.mode)
	}
	d.mode = ConfirmingDelete
	return nil
}

// CancelDelete backs out of the confirmation.
func (d *Detail) CancelDelete() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending {
		return ErrBusy
	}
	if d.mode != ConfirmingDelete {
		return fmt.Errorf("%w: no delete to cancel", ErrInvalidTransition)
	}
	d.mode = Viewing
	return nil
}

// ConfirmDelete removes the entry from the store and closes the detail. On
// failure the detail returns to Viewing and the entry is kept.
func (d *Detail) ConfirmDelete(ctx context.Context, sess *Session) error {
	d.mu.Lock()
	if err := d.authorize(sess, "delete"); err != nil {
		d.mu.Unlock()
		return err
	}
	if d.pending {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.mode != ConfirmingDelete {
		mode := d.mode
		d.mu.Unlock()
		return fmt.Errorf("%w: delete not requested (%s)", ErrInvalidTransition, mode)
	}
	id := d.entry.ID
	d.pending = true
	d.mu.Unlock()

	err := d.store.Delete(ctx, id)

	d.mu.Lock()
	d.pending = false
	if err != nil {
		d.mode = Viewing
		d.mu.Unlock()
		d.logger.Error("deleting entry failed", "id", id, "error", err)
		return &StoreError{Op: "delete", Err: err}
	}
	d.mode = Closed
	d.mu.Unlock()

	d.logger.Info("entry deleted", "id", id)
	if d.listener != nil {
		d.listener.EntryDeleted(id)
	}
	return nil
}

// Refresh replaces the persisted snapshot with entry. It only applies while
// Viewing and returns false otherwise.
func (d *Detail) Refresh(entry *Entry) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode != Viewing || d.pending || entry.ID != d.entry.ID {
		return false
	}
	d.entry = entry.Clone()
	d.draft = draftOf(d.entry)
	return true
}
