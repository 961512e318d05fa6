package journal

import (
	"fmt"
	"strings"
	"time"
)

// EntryType is the kind of log an entry was created as. It never changes
// after creation.
type EntryType string

const (
	TypeSpontaneous EntryType = "spontaneous"
	TypeReflection  EntryType = "reflection"
)

// ParseEntryType accepts the canonical names and the short forms used by the
// old document store ("spontan", "refleksion").
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spontaneous", "spontan":
		return TypeSpontaneous, nil
	case "reflection", "refleksion":
		return TypeReflection, nil
	default:
		return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown entry type %q", s)}
	}
}

// Mood is the writer's state of mind on the day of the entry.
type Mood string

const (
	MoodPositive Mood = "positive"
	MoodNeutral  Mood = "neutral"
	MoodNegative Mood = "negative"
)

// DefaultMood is used for new entries and after a form reset.
const DefaultMood = MoodPositive

// ParseMood returns a ValidationError for anything but the three known moods.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &ValidationError{Field: "stateOfMind", Message: fmt.Sprintf("unknown state of mind %q", s)}
	}
	return m, nil
}

// Valid reports whether m is one of the known moods. Stored documents may
// carry other values; those are displayed as-is.
func (m Mood) Valid() bool {
	switch m {
	case MoodPositive, MoodNeutral, MoodNegative:
		return true
	}
	return false
}

// Entry is a single journal entry.
type Entry struct {
	ID      string
	Title   string
	Content string
	// SecondaryContent holds the counterpart log. nil means it has not been
	// written yet, which is distinct from an empty string.
	SecondaryContent *string
	Type             EntryType
	StateOfMind      Mood
	CreatedAt        Date
	UpdatedAt        time.Time
}

// HasSecondary reports whether the counterpart log has been written.
func (e *Entry) HasSecondary() bool {
	return e.SecondaryContent != nil
}

// Secondary returns the counterpart text, or "" when absent.
func (e *Entry) Secondary() string {
	if e.SecondaryContent == nil {
		return ""
	}
	return *e.SecondaryContent
}

// Clone returns a deep copy so callers can hold a snapshot that later
// mutations don't touch.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.SecondaryContent != nil {
		s := *e.SecondaryContent
		c.SecondaryContent = &s
	}
	return &c
}

// Week returns the ISO week number of the entry's day, and false when the
// stored date cannot be parsed.
func (e *Entry) Week() (int, bool) {
	return e.CreatedAt.Week()
}

// Slot names one of the two content fields of an entry.
type Slot string

const (
	SlotContent   Slot = "content"
	SlotSecondary Slot = "secondaryContent"
)

// SlotFor returns the field holding the kind log of an entry of type t. The
// log an entry was created as always lives in content; the other kind lives in
// secondaryContent.
func SlotFor(t EntryType, kind EntryType) Slot {
	if kind == t {
		return SlotContent
	}
	return SlotSecondary
}

// PrimarySlot returns the field holding the log the entry was created as.
func PrimarySlot(t EntryType) Slot {
	return SlotFor(t, t)
}

// CounterpartKind returns the kind of log offered in the secondary slot.
func CounterpartKind(t EntryType) EntryType {
	if t == TypeReflection {
		return TypeSpontaneous
	}
	return TypeReflection
}

// SlotKind returns which kind of log slot s holds for an entry of type t.
func SlotKind(t EntryType, s Slot) EntryType {
	if s == PrimarySlot(t) {
		return t
	}
	return CounterpartKind(t)
}

// EntryPatch is a partial update. nil fields are left unchanged.
type EntryPatch struct {
	Title   *string
	Content *string
	// SecondaryContent set to a pointer to "" clears the counterpart log.
	SecondaryContent *string
	StateOfMind      *Mood
	CreatedAt        *Date
	UpdatedAt        time.Time
}

// Apply writes the non-nil fields of p onto e.
func (p EntryPatch) Apply(e *Entry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.SecondaryContent != nil {
		if *p.SecondaryContent == "" {
			e.SecondaryContent = nil
		} else {
			s := *p.SecondaryContent
			e.SecondaryContent = &s
		}
	}
	if p.StateOfMind != nil {
		e.StateOfMind = *p.StateOfMind
	}
	if p.CreatedAt != nil {
		e.CreatedAt = *p.CreatedAt
	}
	if !p.UpdatedAt.IsZero() {
		e.UpdatedAt = p.UpdatedAt
	}
}
