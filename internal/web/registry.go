package web

import (
	"context"
	"sync"

	"journal-go/internal/journal"
)

type detailKey struct {
	token string
	id    string
}

// registry keeps the open Detail of every (session, entry) pair and the
// new-entry form of every session, so a repeated submit meets the in-flight
// guard instead of a fresh state machine. It is the DetailListener of every
// detail it opens. What a session leaves behind is dropped once the gate no
// longer knows the session.
type registry struct {
	svc  *journal.Service
	gate journal.SessionGate

	mu      sync.Mutex
	details map[detailKey]*journal.Detail
	forms   map[string]*journal.EntryForm
}

func newRegistry(svc *journal.Service, gate journal.SessionGate) *registry {
	return &registry{
		svc:     svc,
		gate:    gate,
		details: map[detailKey]*journal.Detail{},
		forms:   map[string]*journal.EntryForm{},
	}
}

// detail returns the open detail for (token, id), opening it if needed. A
// detail that is only being viewed is refreshed from the store so edits made
// elsewhere show up.
func (r *registry) detail(ctx context.Context, token, id string) (*journal.Detail, error) {
	r.prune(ctx, token)
	key := detailKey{token: token, id: id}

	r.mu.Lock()
	d, ok := r.details[key]
	r.mu.Unlock()

	if ok {
		if d.Mode() == journal.Viewing && !d.Pending() {
			e, err := r.svc.Get(ctx, id)
			if err != nil {
				r.forget(id)
				return nil, err
			}
			d.Refresh(e)
		}
		return d, nil
	}

	d, err := r.svc.OpenDetail(ctx, id, r)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.details[key]; ok {
		return existing, nil
	}
	r.details[key] = d
	return d, nil
}

// form returns the new-entry form of a session.
func (r *registry) form(ctx context.Context, token string) *journal.EntryForm {
	r.prune(ctx, token)
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[token]
	if !ok {
		f = r.svc.NewEntryForm()
		r.forms[token] = f
	}
	return f
}

// dropSession forgets everything opened by token.
func (r *registry) dropSession(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.details {
		if k.token == token {
			delete(r.details, k)
		}
	}
	delete(r.forms, token)
}

// prune drops the details and forms of every session other than keep that
// has expired or was revoked. Anonymous readers share the empty token, which
// is never pruned.
func (r *registry) prune(ctx context.Context, keep string) {
	r.mu.Lock()
	tokens := map[string]bool{}
	for k := range r.details {
		tokens[k.token] = true
	}
	for token := range r.forms {
		tokens[token] = true
	}
	r.mu.Unlock()

	for token := range tokens {
		if token == "" || token == keep {
			continue
		}
		if _, ok := r.gate.Current(ctx, token); !ok {
			r.dropSession(token)
		}
	}
}

func (r *registry) forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.details {
		if k.id == id {
			delete(r.details, k)
		}
	}
}

// size returns the number of open details.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.details)
}

// EntryUpdated refreshes the details other sessions hold for the entry.
func (r *registry) EntryUpdated(e *journal.Entry) {
	r.mu.Lock()
	var open []*journal.Detail
	for k, d := range r.details {
		if k.id == e.ID {
			open = append(open, d)
		}
	}
	r.mu.Unlock()

	for _, d := range open {
		d.Refresh(e)
	}
}

// EntryDeleted drops every detail of the entry.
func (r *registry) EntryDeleted(id string) {
	r.forget(id)
}

var _ journal.DetailListener = (*registry)(nil)
