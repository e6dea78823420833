// Package mood maps free-text story requests to one of a fixed set of moods.
package mood

import "strings"

// Mood is one of the closed set of moods a request can carry.
type Mood string

const (
	Calm    Mood = "calm"
	Anxious Mood = "anxious"
	Excited Mood = "excited"
	Sad     Mood = "sad"
	Curious Mood = "curious"
	Playful Mood = "playful"
)

// Default is the bedtime fallback when the text carries no mood signal.
const Default = Calm

// order fixes both the direct-mention priority and the keyword-score
// tie-break: on equal scores the earlier mood wins, and a later mood must
// strictly beat the best so far.
var order = []Mood{Calm, Anxious, Excited, Sad, Curious, Playful}

var keywords = map[Mood][]string{
	Calm:    {"calm", "sleepy", "tired", "cozy", "bedtime", "relaxed"},
	Anxious: {"scared", "lost", "anxious", "afraid", "worried", "nervous"},
	Excited: {"excited", "adventure", "energetic", "happy", "bouncy"},
	Sad:     {"sad", "down", "lonely", "miss", "cry"},
	Curious: {"curious", "wonder", "ask", "how", "why", "what"},
	Playful: {"fun", "silly", "joke", "play"},
}

func (m Mood) String() string { return string(m) }

// All returns the moods in their fixed priority order.
func All() []Mood {
	out := make([]Mood, len(order))
	copy(out, order)
	return out
}

// Classify maps free text to a Mood. A mood named verbatim in the text wins
// outright; otherwise the mood whose keywords occur most often wins. Empty or
// signal-free text classifies as Default.
func Classify(text string) Mood {
	lower := strings.ToLower(text)

	for _, m := range order {
		if strings.Contains(lower, string(m)) {
			return m
		}
	}

	best := Default
	bestScore := 0
	for _, m := range order {
		score := 0
		for _, kw := range keywords[m] {
			score += strings.Count(lower, kw)
		}
		if score > bestScore {
			best = m
			bestScore = score
		}
	}

	return best
}
