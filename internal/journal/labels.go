package journal

import "golang.org/x/text/language"

var (
	danish  = language.MustParseBase("da")
	english = language.MustParseBase("en")
)

var moodLabels = map[language.Base]map[Mood]string{
	danish:  {MoodPositive: "Positivt", MoodNeutral: "Neutralt", MoodNegative: "Negativt"},
	english: {MoodPositive: "Positive", MoodNeutral: "Neutral", MoodNegative: "Negative"},
}

var typeLabels = map[language.Base]map[EntryType]string{
	danish:  {TypeSpontaneous: "Spontanlog", TypeReflection: "Refleksionslog"},
	english: {TypeSpontaneous: "Spontaneous log", TypeReflection: "Reflection log"},
}

// MoodLabel returns the display name of m. Unknown moods are shown as stored.
func MoodLabel(m Mood, lang language.Tag) string {
	if s, ok := moodLabels[baseOf(lang)][m]; ok {
		return s
	}
	return string(m)
}

// TypeLabel returns the display name of a kind of log.
func TypeLabel(t EntryType, lang language.Tag) string {
	if s, ok := typeLabels[baseOf(lang)][t]; ok {
		return s
	}
	return string(t)
}

// SlotLabel names what slot s holds for an entry of type t, so the counterpart
// of a spontaneous entry reads as a reflection log and vice versa.
func SlotLabel(t EntryType, s Slot, lang language.Tag) string {
	return TypeLabel(SlotKind(t, s), lang)
}
