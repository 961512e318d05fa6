package testutil

import (
	"context"
	"sync"

	"journal-go/internal/journal"
)

// FaultyStore wraps an EntryStore, failing chosen operations and optionally
// blocking them until released. It counts calls that reached the inner store.
type FaultyStore struct {
	inner journal.EntryStore

	mu      sync.Mutex
	fail    map[string]error
	gate    chan struct{}
	entered chan struct{}
	calls   map[string]int
}

// NewFaultyStore wraps inner. With no failures set it behaves exactly like
// inner.
func NewFaultyStore(inner journal.EntryStore) *FaultyStore {
	return &FaultyStore{
		inner: inner,
		fail:  map[string]error{},
		calls: map[string]int{},
	}
}

// FailOn makes op ("create", "read", "get", "update", "delete") return err.
// A nil err clears the failure.
func (s *FaultyStore) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, op)
		return
	}
	s.fail[op] = err
}

// Block makes every following call wait until Release. The returned channel
// receives once per call that is waiting.
func (s *FaultyStore) Block() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 16)
	return s.entered
}

// Release unblocks waiting and future calls.
func (s *FaultyStore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// Calls returns how many times op was called.
func (s *FaultyStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *FaultyStore) enter(op string) error {
	s.mu.Lock()
	s.calls[op]++
	gate, entered := s.gate, s.entered
	err := s.fail[op]
	s.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	return err
}

func (s *FaultyStore) Create(ctx context.Context, entry *journal.Entry) (string, error) {
	if err := s.enter("create"); err != nil {
		return "", err
	}
	return s.inner.Create(ctx, entry)
}

func (s *FaultyStore) ReadAll(ctx context.Context) ([]*journal.Entry, error) {
	if err := s.enter("read"); err != nil {
		return nil, err
	}
	return s.inner.ReadAll(ctx)
}

func (s *FaultyStore) Get(ctx context.Context, id string) (*journal.Entry, error) {
	if err := s.enter("get"); err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, id)
}

func (s *FaultyStore) Update(ctx context.Context, id string, patch journal.EntryPatch) error {
	if err := s.enter("update"); err != nil {
		return err
	}
	return s.inner.Update(ctx, id, patch)
}

func (s *FaultyStore) Delete(ctx context.Context, id string) error {
	if err := s.enter("delete"); err != nil {
		return err
	}
	return s.inner.Delete(ctx, id)
}

var _ journal.EntryStore = (*FaultyStore)(nil)
