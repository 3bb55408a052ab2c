package models

import "strings"

// Mood is one of the fixed set of moods an entry can carry.
type Mood string

const (
	MoodHappy      Mood = "😊"
	MoodSad        Mood = "😢"
	MoodThoughtful Mood = "🤔"
	MoodDreamy     Mood = "💭"
	MoodHopeful    Mood = "🌟"
	MoodLoving     Mood = "❤️"
	MoodFocused    Mood = "🎯"
	MoodPeaceful   Mood = "🌙"
)

// DefaultMood is preselected when the user does not pick one.
const DefaultMood = MoodHappy

var moodLabels = []struct {
	mood  Mood
	label string
}{
	{MoodHappy, "Happy"},
	{MoodSad, "Sad"},
	{MoodThoughtful, "Thoughtful"},
	{MoodDreamy, "Dreamy"},
	{MoodHopeful, "Hopeful"},
	{MoodLoving, "Loving"},
	{MoodFocused, "Focused"},
	{MoodPeaceful, "Peaceful"},
}

// Moods lists every mood in display order.
func Moods() []Mood {
	out := make([]Mood, len(moodLabels))
	for i, m := range moodLabels {
		out[i] = m.mood
	}
	return out
}

func (m Mood) Valid() bool {
	return m.Label() != ""
}

// Label returns the human readable name, or "" for an unknown mood.
func (m Mood) Label() string {
	for _, ml := range moodLabels {
		if ml.mood == m {
			return ml.label
		}
	}
	return ""
}

func (m Mood) String() string {
	return string(m)
}

// ParseMood accepts either the symbol or the label (case-insensitive).
func ParseMood(s string) (Mood, bool) {
	s = strings.TrimSpace(s)
	for _, ml := range moodLabels {
		if string(ml.mood) == s || strings.EqualFold(ml.label, s) {
			return ml.mood, true
		}
	}
	return "", false
}
