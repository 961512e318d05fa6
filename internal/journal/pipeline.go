package journal

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the order of entries within a week.
type SortKey string

const (
	SortNewest SortKey = "newest"
	SortOldest SortKey = "oldest"
	SortTitle  SortKey = "title"
)

// DefaultSortKey is the order of the landing page.
const DefaultSortKey = SortOldest

// ParseSortKey maps user input to a SortKey. An empty string selects
// DefaultSortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return DefaultSortKey, nil
	case SortNewest, SortOldest, SortTitle:
		return k, nil
	default:
		return "", &ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", s)}
	}
}

// WeekGroup is one bucket of the grouped list.
type WeekGroup struct {
	// Week is the ISO week number, or 0 for the unscheduled group.
	Week  int
	Label string
	// Unscheduled marks the trailing group of entries whose date does not parse.
	Unscheduled bool
	Entries     []*Entry
}

// GroupOptions controls labelling and collation.
type GroupOptions struct {
	// Year is used to compute the Monday to Sunday label of each week.
	Year int
	// Language drives title collation and month names.
	Language language.Tag
}

// SortEntries returns a stably sorted copy of entries. Entries with an
// unparseable date sort after every dated entry for the date keys.
func SortEntries(entries []*Entry, key SortKey, lang language.Tag) []*Entry {
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)

	switch key {
	case SortTitle:
		// A Collator is not safe for concurrent use; build one per call.
		c := collate.New(lang)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case SortNewest, SortOldest:
		sort.SliceStable(sorted, func(i, j int) bool {
			ti, iok := sorted[i].CreatedAt.Time()
			tj, jok := sorted[j].CreatedAt.Time()
			switch {
			case !iok || !jok:
				return iok && !jok
			case key == SortNewest:
				return ti.After(tj)
			default:
				return ti.Before(tj)
			}
		})
	}
	return sorted
}

// GroupByWeek sorts entries by key and buckets them by ISO week. Buckets are
// returned in ascending week order regardless of key; the key only orders
// entries within a bucket. Entries without a valid date form a final
// unscheduled group.
func GroupByWeek(entries []*Entry, key SortKey, opts GroupOptions) []WeekGroup {
	sorted := SortEntries(entries, key, opts.Language)

	byWeek := make(map[int]*WeekGroup)
	var weeks []int
	var unscheduled []*Entry
	for _, e := range sorted {
		week, ok := e.Week()
		if !ok {
			unscheduled = append(unscheduled, e)
			continue
		}
		g, seen := byWeek[week]
		if !seen {
			g = &WeekGroup{Week: week, Label: WeekLabel(week, opts.Year, opts.Language)}
			byWeek[week] = g
			weeks = append(weeks, week)
		}
		g.Entries = append(g.Entries, e)
	}
	sort.Ints(weeks)

	groups := make([]WeekGroup, 0, len(weeks)+1)
	for _, w := range weeks {
		groups = append(groups, *byWeek[w])
	}
	if len(unscheduled) > 0 {
		groups = append(groups, WeekGroup{
			Label:       UnscheduledLabel(opts.Language),
			Unscheduled: true,
			Entries:     unscheduled,
		})
	}
	return groups
}

// Flatten returns the entries of groups in display order.
func Flatten(groups []WeekGroup) []*Entry {
	var out []*Entry
	for _, g := range groups {
		out = append(out, g.Entries...)
	}
	return out
}
