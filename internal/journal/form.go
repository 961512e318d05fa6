package journal

import (
	"context"
	"strings"
	"sync"
)

// FormValues are the fields of the new-entry form. Date is the raw text as
// typed.
type FormValues struct {
	Title       string
	Content     string
	Date        string
	StateOfMind Mood
	Type        EntryType
}

// EntryForm creates new entries. After a successful submit every field is
// reset to its default; after a failed one the values are kept.
type EntryForm struct {
	store  EntryStore
	clock  Clock
	logger Logger

	mu      sync.Mutex
	values  FormValues
	pending bool
}

// NewEntryForm returns a form holding the defaults.
func NewEntryForm(store EntryStore, clock Clock, logger Logger) *EntryForm {
	f := &EntryForm{store: store, clock: clock, logger: logger}
	f.values = f.defaults()
	return f
}

func (f *EntryForm) defaults() FormValues {
	return FormValues{
		Date:        string(NewDate(f.clock.Now())),
		StateOfMind: DefaultMood,
		Type:        TypeSpontaneous,
	}
}

// Values returns the current field values.
func (f *EntryForm) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Set replaces the field values.
func (f *EntryForm) Set(v FormValues) {
	f.mu.Lock()
	f.values = v
	f.mu.Unlock()
}

// Reset restores the defaults, with today's date.
func (f *EntryForm) Reset() {
	f.mu.Lock()
	f.values = f.defaults()
	f.mu.Unlock()
}

// Validate turns the form values into a new Entry without an id.
func (f *EntryForm) Validate(v FormValues) (*Entry, error) {
	title := strings.TrimSpace(v.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	date, err := ParseDate(v.Date)
	if err != nil {
		return nil, err
	}
	mood := v.StateOfMind
	if mood == "" {
		mood = DefaultMood
	}
	if !mood.Valid() {
		return nil, &ValidationError{Field: "stateOfMind", Message: "unknown state of mind " + string(mood)}
	}
	typ := v.Type
	if typ == "" {
		typ = TypeSpontaneous
	}
	if typ, err = ParseEntryType(string(typ)); err != nil {
		return nil, err
	}
	return &Entry{
		Title:       title,
		Content:     NormalizeContent(v.Content),
		Type:        typ,
		StateOfMind: mood,
		CreatedAt:   date,
		UpdatedAt:   f.clock.Now(),
	}, nil
}

// Submit validates the current values and creates the entry. It returns the
// stored entry with its id.
func (f *EntryForm) Submit(ctx context.Context, sess *Session) (*Entry, error) {
	f.mu.Lock()
	if !sess.Active(f.clock.Now()) {
		f.mu.Unlock()
		f.logger.Warn("refused without session", "action", "create")
		return nil, ErrNotAuthenticated
	}
	if f.pending {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	entry, err := f.Validate(f.values)
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.pending = true
	f.mu.Unlock()

	id, err := f.store.Create(ctx, entry)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = false
	if err != nil {
		f.logger.Error("creating entry failed", "error", err)
		return nil, &StoreError{Op: "create", Err: err}
	}
	entry.ID = id
	f.values = f.defaults()
	f.logger.Info("entry created", "id", id, "type", entry.Type)
	return entry, nil
}

// NormalizeContent converts line endings to LF, trims surrounding
// whitespace and turns every single line break into a paragraph break.
// Runs of two or more line breaks are kept as they are.
func NormalizeContent(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); {
		if s[i] != '\n' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '\n' {
			j++
		}
		if j-i == 1 {
			b.WriteString("\n\n")
		} else {
			b.WriteString(s[i:j])
		}
		i = j
	}
	return b.String()
}
