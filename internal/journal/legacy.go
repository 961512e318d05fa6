package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// legacyDocument is one entry as exported from the old document store. Every
// field is optional.
type legacyDocument struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Content            string          `json:"content"`
	ReflectionContent  *string         `json:"reflectionContent"`
	SpontaneousContent *string         `json:"spontaneousContent"`
	SecondaryContent   *string         `json:"secondaryContent"`
	Type               string          `json:"type"`
	StateOfMind        string          `json:"stateOfMind"`
	CreatedAt          json.RawMessage `json:"createdAt"`
	UpdatedAt          json.RawMessage `json:"updatedAt"`
}

// DecodeLegacy reads a JSON export of the old document store. Both an array
// of documents and an object keyed by document id are accepted. Documents of
// unknown type are imported as spontaneous; unparseable dates are kept as
// stored.
func DecodeLegacy(r io.Reader) ([]*Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var docs []legacyDocument
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("decoding export: %w", err)
		}
	case '{':
		byID := map[string]legacyDocument{}
		if err := json.Unmarshal(data, &byID); err != nil {
			return nil, fmt.Errorf("decoding export: %w", err)
		}
		ids := make([]string, 0, len(byID))
		for id := range byID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			d := byID[id]
			if d.ID == "" {
				d.ID = id
			}
			docs = append(docs, d)
		}
	default:
		return nil, fmt.Errorf("decoding export: expected array or object")
	}

	entries := make([]*Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, d.entry())
	}
	return entries, nil
}

func (d legacyDocument) entry() *Entry {
	typ, err := ParseEntryType(d.Type)
	if err != nil {
		typ = TypeSpontaneous
	}
	mood := Mood(strings.TrimSpace(d.StateOfMind))
	if mood == "" {
		mood = DefaultMood
	}

	// The counterpart log was stored under the name of its own kind.
	secondary := d.SecondaryContent
	if secondary == nil {
		if typ == TypeSpontaneous {
			secondary = d.ReflectionContent
		} else {
			secondary = d.SpontaneousContent
		}
	}
	if secondary != nil && strings.TrimSpace(*secondary) == "" {
		secondary = nil
	}

	e := &Entry{
		ID:               d.ID,
		Title:            strings.TrimSpace(d.Title),
		Content:          d.Content,
		SecondaryContent: secondary,
		Type:             typ,
		StateOfMind:      mood,
		CreatedAt:        legacyDate(d.CreatedAt),
	}
	if t, ok := legacyDate(d.UpdatedAt).Time(); ok {
		e.UpdatedAt = t
	}
	return e
}

// legacyDate accepts a string date or an exported timestamp object
// ({"_seconds": n} or {"seconds": n}).
func legacyDate(raw json.RawMessage) Date {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		d := Date(strings.TrimSpace(s))
		if t, ok := d.Time(); ok {
			return NewDate(t)
		}
		return d
	}
	var ts struct {
		Seconds  *int64 `json:"seconds"`
		USeconds *int64 `json:"_seconds"`
	}
	if err := json.Unmarshal(raw, &ts); err == nil {
		switch {
		case ts.Seconds != nil:
			return NewDate(time.Unix(*ts.Seconds, 0).UTC())
		case ts.USeconds != nil:
			return NewDate(time.Unix(*ts.USeconds, 0).UTC())
		}
	}
	return Date(strings.Trim(string(raw), `"`))
}
