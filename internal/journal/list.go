package journal

import (
	"context"
	"sync"

	"golang.org/x/text/language"
)

// ListView holds the entries shown on the landing page along with the chosen
// sort key and selection. It implements DetailListener so edits made through
// an open Detail show up without a refetch.
type ListView struct {
	store  EntryStore
	clock  Clock
	logger Logger
	lang   language.Tag

	mu       sync.Mutex
	key      SortKey
	entries  []*Entry
	selected string
	loaded   bool
}

// NewListView returns an empty view sorted by DefaultSortKey.
func NewListView(store EntryStore, clock Clock, logger Logger, lang language.Tag) *ListView {
	return &ListView{
		store:  store,
		clock:  clock,
		logger: logger,
		lang:   lang,
		key:    DefaultSortKey,
	}
}

// Load fetches every entry. On failure the view is left empty and a
// StoreError is returned.
func (v *ListView) Load(ctx context.Context) error {
	entries, err := v.store.ReadAll(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.entries = nil
		v.loaded = false
		v.logger.Error("loading entries failed", "error", err)
		return &StoreError{Op: "read", Err: err}
	}
	v.entries = entries
	v.loaded = true
	if v.selected != "" && v.indexOf(v.selected) < 0 {
		v.selected = ""
	}
	v.logger.Debug("entries loaded", "count", len(entries))
	return nil
}

// SortKey returns the current key.
func (v *ListView) SortKey() SortKey {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.key
}

// SetSort changes the key and refetches when it differs from the current one.
func (v *ListView) SetSort(ctx context.Context, key SortKey) error {
	v.mu.Lock()
	same := key == v.key && v.loaded
	v.key = key
	v.mu.Unlock()
	if same {
		return nil
	}
	return v.Load(ctx)
}

// Entries returns the fetched entries in store order.
func (v *ListView) Entries() []*Entry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*Entry, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.Clone()
	}
	return out
}

// Groups runs the grouping pipeline over the fetched entries using the
// current key and year.
func (v *ListView) Groups() []WeekGroup {
	entries := v.Entries()
	v.mu.Lock()
	key := v.key
	v.mu.Unlock()
	return GroupByWeek(entries, key, GroupOptions{Year: v.clock.Now().Year(), Language: v.lang})
}

// Select marks id as the open entry. It returns ErrNotFound when id is not
// among the fetched entries.
func (v *ListView) Select(id string) (*Entry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	v.selected = id
	return v.entries[i].Clone(), nil
}

// Selected returns the open entry, if any.
func (v *ListView) Selected() (*Entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(v.selected); i >= 0 {
		return v.entries[i].Clone(), true
	}
	return nil, false
}

// ClearSelection closes the open entry.
func (v *ListView) ClearSelection() {
	v.mu.Lock()
	v.selected = ""
	v.mu.Unlock()
}

// EntryUpdated replaces the local copy of entry.
func (v *ListView) EntryUpdated(entry *Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(entry.ID); i >= 0 {
		v.entries[i] = entry.Clone()
	}
}

// EntryDeleted removes id from the local copy and clears it as selection.
func (v *ListView) EntryDeleted(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := v.indexOf(id); i >= 0 {
		v.entries = append(v.entries[:i:i], v.entries[i+1:]...)
	}
	if v.selected == id {
		v.selected = ""
	}
}

// EntryCreated appends entry to the local copy.
func (v *ListView) EntryCreated(entry *Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.indexOf(entry.ID) < 0 {
		v.entries = append(v.entries, entry.Clone())
	}
}

// Loaded reports whether the last Load succeeded.
func (v *ListView) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *ListView) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range v.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

var _ DetailListener = (*ListView)(nil)
