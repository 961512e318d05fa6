package journal_test

import (
	"reflect"
	"sort"
	"testing"

	"golang.org/x/text/language"

	"journal-go/internal/journal"
)

func entry(id, title string, date journal.Date) *journal.Entry {
	return &journal.Entry{
		ID:          id,
		Title:       title,
		Type:        journal.TypeSpontaneous,
		StateOfMind: journal.MoodPositive,
		CreatedAt:   date,
	}
}

func ids(entries []*journal.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func weeks(groups []journal.WeekGroup) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = g.Week
	}
	return out
}

var danishOpts = journal.GroupOptions{Year: 2024, Language: language.Danish}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		input   string
		want    journal.SortKey
		wantErr bool
	}{
		{"", journal.SortOldest, false},
		{"newest", journal.SortNewest, false},
		{"OLDEST", journal.SortOldest, false},
		{"title", journal.SortTitle, false},
		{"random", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := journal.ParseSortKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGroupByWeek_SameWeek(t *testing.T) {
	entries := []*journal.Entry{
		entry("b", "Wednesday", "2024-01-10"),
		entry("a", "Monday", "2024-01-08"),
	}

	tests := []struct {
		key  journal.SortKey
		want []string
	}{
		{journal.SortOldest, []string{"a", "b"}},
		{journal.SortNewest, []string{"b", "a"}},
		{journal.SortTitle, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			groups := journal.GroupByWeek(entries, tt.key, danishOpts)
			if len(groups) != 1 {
				t.Fatalf("GroupByWeek() returned %d groups, want 1", len(groups))
			}
			g := groups[0]
			if g.Week != 2 {
				t.Errorf("Week = %d, want 2", g.Week)
			}
			if g.Label != "8. januar - 14. januar" {
				t.Errorf("Label = %q, want %q", g.Label, "8. januar - 14. januar")
			}
			if got := ids(g.Entries); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("entries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupByWeek_WeeksAscendingForEveryKey(t *testing.T) {
	entries := []*journal.Entry{
		entry("w3", "Alpha", "2024-01-16"),
		entry("w1", "Charlie", "2024-01-02"),
		entry("w10", "Bravo", "2024-03-05"),
	}

	for _, key := range []journal.SortKey{journal.SortNewest, journal.SortOldest, journal.SortTitle} {
		t.Run(string(key), func(t *testing.T) {
			groups := journal.GroupByWeek(entries, key, danishOpts)
			if got := weeks(groups); !reflect.DeepEqual(got, []int{1, 3, 10}) {
				t.Errorf("weeks = %v, want [1 3 10]", got)
			}
		})
	}
}

func TestFlatten_KeepsEveryEntry(t *testing.T) {
	entries := []*journal.Entry{
		entry("a", "Delta", "2024-01-16"),
		entry("b", "alpha", "2024-01-02"),
		entry("c", "Charlie", "2024-03-05"),
		entry("d", "Bravo", "2024-01-16"),
		entry("e", "Echo", "garbage"),
		entry("f", "Æble", "2024-01-03"),
		entry("g", "Foxtrot", ""),
		entry("h", "Golf", "2024-03-04"),
		entry("i", "Hotel", "2023-12-31"),
	}
	want := ids(entries)
	sort.Strings(want)

	tests := []struct {
		key  journal.SortKey
		opts journal.GroupOptions
	}{
		{journal.SortNewest, danishOpts},
		{journal.SortOldest, danishOpts},
		{journal.SortTitle, danishOpts},
		{journal.SortTitle, journal.GroupOptions{Year: 2024, Language: language.English}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key)+"/"+tt.opts.Language.String(), func(t *testing.T) {
			groups := journal.GroupByWeek(entries, tt.key, tt.opts)
			if len(groups) < 4 {
				t.Fatalf("len(groups) = %d, want several weeks", len(groups))
			}
			got := ids(journal.Flatten(groups))
			sort.Strings(got)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Flatten() ids = %v, want %v", got, want)
			}
		})
	}
}

func TestGroupByWeek_SameDayKeepsInputOrder(t *testing.T) {
	entries := []*journal.Entry{
		entry("first", "Zulu", "2024-01-08"),
		entry("second", "Alpha", "2024-01-08"),
		entry("third", "Mike", "2024-01-08"),
	}

	for _, key := range []journal.SortKey{journal.SortNewest, journal.SortOldest} {
		t.Run(string(key), func(t *testing.T) {
			got := ids(journal.Flatten(journal.GroupByWeek(entries, key, danishOpts)))
			if want := []string{"first", "second", "third"}; !reflect.DeepEqual(got, want) {
				t.Errorf("entries = %v, want %v", got, want)
			}
		})
	}
}

func TestGroupByWeek_TitleCollation(t *testing.T) {
	entries := []*journal.Entry{
		entry("aa", "Åen", "2024-01-08"),
		entry("oe", "Øl", "2024-01-09"),
		entry("ae", "Æble", "2024-01-10"),
		entry("z", "zebra", "2024-01-11"),
		entry("b", "Bølge", "2024-01-12"),
	}

	t.Run("danish letters after z", func(t *testing.T) {
		got := ids(journal.Flatten(journal.GroupByWeek(entries, journal.SortTitle, danishOpts)))
		if want := []string{"b", "z", "ae", "oe", "aa"}; !reflect.DeepEqual(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})

	t.Run("case does not split titles", func(t *testing.T) {
		mixed := []*journal.Entry{
			entry("upper", "Bravo", "2024-01-08"),
			entry("lower", "alpha", "2024-01-08"),
		}
		got := ids(journal.SortEntries(mixed, journal.SortTitle, language.English))
		if want := []string{"lower", "upper"}; !reflect.DeepEqual(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})
}

func TestGroupByWeek_InvalidDates(t *testing.T) {
	entries := []*journal.Entry{
		entry("bad1", "Lost", "sometime"),
		entry("ok", "Found", "2024-01-08"),
		entry("bad2", "Also lost", ""),
	}

	for _, key := range []journal.SortKey{journal.SortNewest, journal.SortOldest, journal.SortTitle} {
		t.Run(string(key), func(t *testing.T) {
			groups := journal.GroupByWeek(entries, key, danishOpts)
			if len(groups) != 2 {
				t.Fatalf("GroupByWeek() returned %d groups, want 2", len(groups))
			}
			last := groups[1]
			if !last.Unscheduled || last.Week != 0 {
				t.Errorf("last group = week %d unscheduled %v, want unscheduled week 0", last.Week, last.Unscheduled)
			}
			if last.Label != "Uden gyldig dato" {
				t.Errorf("Label = %q, want %q", last.Label, "Uden gyldig dato")
			}
			if len(last.Entries) != 2 {
				t.Errorf("unscheduled entries = %v, want 2", ids(last.Entries))
			}
		})
	}

	t.Run("sorted after dated entries", func(t *testing.T) {
		got := ids(journal.SortEntries(entries, journal.SortNewest, language.Danish))
		if want := []string{"ok", "bad1", "bad2"}; !reflect.DeepEqual(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})
}

func TestGroupByWeek_LegacyDates(t *testing.T) {
	entries := []*journal.Entry{
		entry("iso", "Iso", "2024-01-10"),
		entry("dmy", "Slashes", "08/01/2024"),
	}

	groups := journal.GroupByWeek(entries, journal.SortOldest, danishOpts)
	if len(groups) != 1 {
		t.Fatalf("GroupByWeek() returned %d groups, want 1", len(groups))
	}
	if got := ids(groups[0].Entries); !reflect.DeepEqual(got, []string{"dmy", "iso"}) {
		t.Errorf("entries = %v, want [dmy iso]", got)
	}
}

func TestGroupByWeek_Empty(t *testing.T) {
	if groups := journal.GroupByWeek(nil, journal.SortOldest, danishOpts); len(groups) != 0 {
		t.Errorf("GroupByWeek(nil) = %v, want no groups", groups)
	}
}

func TestSortEntries_DoesNotModifyInput(t *testing.T) {
	entries := []*journal.Entry{
		entry("b", "B", "2024-01-10"),
		entry("a", "A", "2024-01-08"),
	}
	journal.SortEntries(entries, journal.SortOldest, language.Danish)
	if got := ids(entries); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("input reordered to %v", got)
	}
}
