package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Service is the entry point of the journal layer used by the web server and
// the CLI. It hands out the stateful views and runs one-shot operations.
type Service struct {
	store  EntryStore
	clock  Clock
	logger Logger
	lang   language.Tag
}

// NewService creates a Service. lang selects collation and labels.
func NewService(store EntryStore, clock Clock, logger Logger, lang language.Tag) *Service {
	return &Service{store: store, clock: clock, logger: logger, lang: lang}
}

// Language returns the configured display language.
func (s *Service) Language() language.Tag { return s.lang }

// Clock returns the service clock.
func (s *Service) Clock() Clock { return s.clock }

// NewListView returns an unloaded list view.
func (s *Service) NewListView() *ListView {
	return NewListView(s.store, s.clock, s.logger, s.lang)
}

// NewEntryForm returns a form holding the defaults.
func (s *Service) NewEntryForm() *EntryForm {
	return NewEntryForm(s.store, s.clock, s.logger)
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, &StoreError{Op: "read", Err: err}
	}
	return e, nil
}

// OpenDetail fetches id and opens it in Viewing mode.
func (s *Service) OpenDetail(ctx context.Context, id string, listener DetailListener) (*Detail, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewDetail(e, s.store, s.clock, s.logger, listener), nil
}

// Groups opens a list view sorted by key and returns its week groups. Every
// call fetches afresh; a page request or CLI run is a new view of the list.
func (s *Service) Groups(ctx context.Context, key SortKey) ([]WeekGroup, error) {
	v := s.NewListView()
	if err := v.SetSort(ctx, key); err != nil {
		return nil, err
	}
	return v.Groups(), nil
}

// Create validates v and stores a new entry.
func (s *Service) Create(ctx context.Context, sess *Session, v FormValues) (*Entry, error) {
	f := s.NewEntryForm()
	f.Set(v)
	return f.Submit(ctx, sess)
}

// Import stores entries read from a legacy export. Entries keep their date,
// type and both logs; ids are reassigned by the store. Every entry is checked
// before the first write, so a document without a title or with an unknown
// state of mind rejects the whole import. It stops at the first store failure
// and returns how many were written.
func (s *Service) Import(ctx context.Context, sess *Session, entries []*Entry) (int, error) {
	if !sess.Active(s.clock.Now()) {
		return 0, ErrNotAuthenticated
	}
	for i, e := range entries {
		if err := checkImported(i, e); err != nil {
			return 0, err
		}
	}
	for i, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = s.clock.Now()
		}
		if _, err := s.store.Create(ctx, e); err != nil {
			return i, &StoreError{Op: "create", Err: fmt.Errorf("importing %q: %w", e.Title, err)}
		}
	}
	s.logger.Info("entries imported", "count", len(entries))
	return len(entries), nil
}

// checkImported applies the rules EntryForm enforces on new entries to the
// i-th document of an export.
func checkImported(i int, e *Entry) error {
	doc := fmt.Sprintf("document %d", i+1)
	if e.ID != "" {
		doc = fmt.Sprintf("document %d (%s)", i+1, e.ID)
	}
	if strings.TrimSpace(e.Title) == "" {
		return &ValidationError{Field: "title", Message: doc + ": title must not be empty"}
	}
	if !e.StateOfMind.Valid() {
		return &ValidationError{Field: "stateOfMind", Message: fmt.Sprintf("%s: unknown state of mind %q", doc, e.StateOfMind)}
	}
	return nil
}
