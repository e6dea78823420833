// Package refine runs the bounded generate-judge-revise loop that turns a
// request into an accepted story draft.
package refine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/judge"
	"github.com/dotcommander/storyweaver/internal/mood"
	"github.com/dotcommander/storyweaver/internal/parse"
	"github.com/dotcommander/storyweaver/internal/prompts"
)

// DefaultMaxRounds is one initial pass plus up to two rewrites.
const DefaultMaxRounds = 3

// maxRevisions caps how many judge instructions feed one rewrite.
const maxRevisions = 5

// Loop is the refinement state machine. State lives entirely inside Run;
// a Loop is safe for concurrent requests.
type Loop struct {
	gen       agent.Generator
	eval      judge.Evaluator
	maxRounds int
	logger    *slog.Logger
}

type Option func(*Loop)

// WithMaxRounds overrides the round budget.
func WithMaxRounds(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.maxRounds = n
		}
	}
}

// WithEvaluator overrides the acceptance rule.
func WithEvaluator(e judge.Evaluator) Option {
	return func(l *Loop) {
		l.eval = e
	}
}

// WithLogger overrides the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop builds a Loop with the default round budget and threshold.
func NewLoop(gen agent.Generator, opts ...Option) *Loop {
	l := &Loop{
		gen:       gen,
		eval:      judge.NewEvaluator(),
		maxRounds: DefaultMaxRounds,
		logger:    slog.Default().With("component", "refine_loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Outcome is what the loop hands back once a draft is accepted.
type Outcome struct {
	Story         string
	Verdict       judge.Verdict
	Rounds        int
	ForceAccepted bool
}

// Run drafts a story, then judges and conditionally rewrites it for at most
// maxRounds rounds. The final round always accepts, so the loop terminates
// within the budget no matter what the judge returns. Any generator failure
// aborts the run with no partial result.
func (l *Loop) Run(ctx context.Context, request string, m mood.Mood, themes []string, setting string) (Outcome, error) {
	story, err := l.gen.Generate(ctx, prompts.Story(request, m, themes, setting),
		prompts.StoryMaxTokens, prompts.StoryTemperature)
	if err != nil {
		return Outcome{}, fmt.Errorf("drafting story: %w", err)
	}

	var verdict judge.Verdict
	for round := 0; round < l.maxRounds; round++ {
		raw, err := l.gen.Generate(ctx, prompts.Judge(story),
			prompts.JudgeMaxTokens, prompts.JudgeTemperature)
		if err != nil {
			return Outcome{}, fmt.Errorf("judging round %d: %w", round, err)
		}

		verdict = l.parseVerdict(raw, round)
		mean := verdict.Scores.Mean()

		if l.eval.Accept(verdict.Scores, round, l.maxRounds) {
			forced := mean < l.eval.Threshold
			l.logger.Info("story accepted",
				"round", round,
				"mean_score", mean,
				"force_accepted", forced)
			return Outcome{
				Story:         story,
				Verdict:       verdict,
				Rounds:        round + 1,
				ForceAccepted: forced,
			}, nil
		}

		l.logger.Info("story rejected, rewriting",
			"round", round,
			"mean_score", mean,
			"revision_count", len(verdict.Revisions))

		revisions := verdict.Revisions
		if len(revisions) > maxRevisions {
			revisions = revisions[:maxRevisions]
		}

		rewritten, err := l.gen.Generate(ctx, prompts.Rewrite(story, revisions),
			prompts.RewriteMaxTokens, prompts.RewriteTemperature)
		if err != nil {
			return Outcome{}, fmt.Errorf("rewriting after round %d: %w", round, err)
		}
		story = rewritten
	}

	// Unreachable: Accept always returns true on the final round.
	return Outcome{Story: story, Verdict: verdict, Rounds: l.maxRounds, ForceAccepted: true}, nil
}

// parseVerdict interprets raw judge output, substituting the fixed fallback
// verdict when the output is unparseable or lacks scores. Parse failures are
// diagnostic only; they never surface to the caller.
func (l *Loop) parseVerdict(raw string, round int) judge.Verdict {
	r := parse.Extract(raw)
	if !r.OK() {
		l.logger.Warn("judge output unparseable, using fallback verdict",
			"round", round,
			"failure", string(r.Kind))
		return judge.FallbackVerdict()
	}

	var v judge.Verdict
	if err := parse.ExtractInto(raw, &v); err != nil || len(v.Scores) == 0 {
		l.logger.Warn("judge output missing scores, using fallback verdict",
			"round", round)
		return judge.FallbackVerdict()
	}
	return v
}
