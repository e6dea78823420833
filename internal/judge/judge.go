// Package judge defines the story rubric, the judge verdict, and the
// acceptance rule the refinement loop applies to it.
package judge

// Criteria are the eight fixed rubric dimensions, each scored 1-10.
var Criteria = []string{
	"AgeAppropriateness",
	"ToneCalmness",
	"ImageryQuality",
	"SentenceSimplicity",
	"EmotionalClarity",
	"ProblemSolvingPresence",
	"StructureCompleteness",
	"SleepinessFactor",
}

// Scores maps rubric criteria to numeric scores.
type Scores map[string]float64

// Mean is the arithmetic mean of all scores; an empty map means 0.
func (s Scores) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range s {
		total += v
	}
	return total / float64(len(s))
}

// Verdict is one round's judge output. A new Verdict is produced per round
// and none survives the request.
type Verdict struct {
	Scores    Scores   `json:"scores"`
	Critique  string   `json:"critique"`
	Revisions []string `json:"revisions"`
}

// FallbackVerdict is substituted when the judge fails to return usable JSON.
// The scores are fixed constants, not computed from the story.
func FallbackVerdict() Verdict {
	return Verdict{
		Scores: Scores{
			"AgeAppropriateness":     8,
			"ToneCalmness":           7,
			"ImageryQuality":         7,
			"SentenceSimplicity":     7,
			"EmotionalClarity":       7,
			"ProblemSolvingPresence": 8,
			"StructureCompleteness":  7,
			"SleepinessFactor":       7,
		},
		Critique: "Judge failed to return JSON; using fallback scores.",
		Revisions: []string{
			"Ensure the problem solving steps are explicit.",
			"Make ending more calming.",
		},
	}
}

// DefaultThreshold is the mean score at which a draft is accepted.
const DefaultThreshold = 7.5

// Evaluator decides whether a draft is accepted for a given round.
type Evaluator struct {
	Threshold float64
}

// NewEvaluator returns an Evaluator with the default threshold.
func NewEvaluator() Evaluator {
	return Evaluator{Threshold: DefaultThreshold}
}

// Accept reports whether a draft with the given scores is accepted. round is
// zero-based; the last allowed round always accepts regardless of score, so
// the loop can never retry past its budget.
func (e Evaluator) Accept(s Scores, round, maxRounds int) bool {
	if round >= maxRounds-1 {
		return true
	}
	return s.Mean() >= e.Threshold
}
