package journal_test

import (
	"strings"
	"testing"

	"journal-go/internal/journal"
)

func TestDecodeLegacy(t *testing.T) {
	t.Run("array export", func(t *testing.T) {
		input := `[
			{"id": "a1", "title": "Første uge", "content": "Hej", "type": "spontan",
			 "stateOfMind": "positive", "createdAt": "08/01/2024", "reflectionContent": "Eftertanke"},
			{"id": "a2", "title": "Anden uge", "content": "Tanker", "type": "refleksion",
			 "stateOfMind": "negative", "createdAt": {"_seconds": 1705276800, "_nanoseconds": 0},
			 "spontaneousContent": ""},
			{"id": "a3"}
		]`

		entries, err := journal.DecodeLegacy(strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodeLegacy() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("DecodeLegacy() returned %d entries, want 3", len(entries))
		}

		first := entries[0]
		if first.Type != journal.TypeSpontaneous || first.CreatedAt != "2024-01-08" {
			t.Errorf("first = %+v, want spontaneous on 2024-01-08", first)
		}
		if first.Secondary() != "Eftertanke" {
			t.Errorf("first secondary = %q, want reflectionContent", first.Secondary())
		}

		second := entries[1]
		if second.Type != journal.TypeReflection {
			t.Errorf("second type = %q, want reflection", second.Type)
		}
		if second.CreatedAt != "2024-01-15" {
			t.Errorf("second createdAt = %q, want 2024-01-15", second.CreatedAt)
		}
		if second.HasSecondary() {
			t.Errorf("blank spontaneousContent imported as %q, want absent", second.Secondary())
		}

		empty := entries[2]
		if empty.Type != journal.TypeSpontaneous || empty.StateOfMind != journal.DefaultMood {
			t.Errorf("empty document = %+v, want defaults", empty)
		}
		if empty.CreatedAt.Valid() {
			t.Errorf("empty document createdAt = %q, want invalid", empty.CreatedAt)
		}
	})

	t.Run("object keyed by id", func(t *testing.T) {
		input := `{
			"zz": {"title": "Later", "type": "reflection", "createdAt": "2024-01-09"},
			"aa": {"title": "Sooner", "type": "spontaneous", "createdAt": "kind of tuesday"}
		}`
		entries, err := journal.DecodeLegacy(strings.NewReader(input))
		if err != nil {
			t.Fatalf("DecodeLegacy() error = %v", err)
		}
		if len(entries) != 2 || entries[0].ID != "aa" || entries[1].ID != "zz" {
			t.Fatalf("DecodeLegacy() = %v, want aa then zz", ids(entries))
		}
		if entries[0].CreatedAt != "kind of tuesday" {
			t.Errorf("createdAt = %q, want raw text kept", entries[0].CreatedAt)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		entries, err := journal.DecodeLegacy(strings.NewReader("  "))
		if err != nil || len(entries) != 0 {
			t.Errorf("DecodeLegacy() = %v, %v, want nothing", entries, err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := journal.DecodeLegacy(strings.NewReader("title,content")); err == nil {
			t.Error("DecodeLegacy() expected error for csv input")
		}
	})
}
