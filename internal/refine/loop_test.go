package refine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/judge"
	"github.com/dotcommander/storyweaver/internal/mood"
)

// Prompt markers unique to each call type, used to script the mock client.
const (
	draftMarker   = "expert children's storyteller"
	judgeMarker   = "StoryJudge"
	rewriteMarker = "applying these revision instructions"
)

func judgeJSON(t *testing.T, score float64, revisions ...string) string {
	t.Helper()
	scores := make(judge.Scores, len(judge.Criteria))
	for _, c := range judge.Criteria {
		scores[c] = score
	}
	if revisions == nil {
		revisions = []string{}
	}
	data, err := json.Marshal(judge.Verdict{
		Scores:    scores,
		Critique:  "Test critique.",
		Revisions: revisions,
	})
	if err != nil {
		t.Fatalf("marshaling verdict: %v", err)
	}
	return string(data)
}

func compliantStory() string {
	return strings.TrimSpace(strings.Repeat("Alice and Bob walked softly under the warm evening stars. ", 25))
}

func testThemes() []string {
	return []string{"Adventure", "Kindness", "Problem Solving", "Friendship"}
}

func TestRunAcceptsOnFirstRound(t *testing.T) {
	story := compliantStory()
	mock := agent.NewMockClient(map[string]string{
		draftMarker: story,
		judgeMarker: judgeJSON(t, 9.0),
	})

	loop := NewLoop(mock)
	outcome, err := loop.Run(context.Background(), "A story about a girl named Alice and her best friend Bob, who happens to be a cat.",
		mood.Calm, testThemes(), "Forest")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if outcome.Story != story {
		t.Error("accepted story was modified")
	}
	if outcome.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", outcome.Rounds)
	}
	if outcome.ForceAccepted {
		t.Error("high-scoring story must not be force-accepted")
	}
	if got := mock.CallsContaining(judgeMarker); got != 1 {
		t.Errorf("judge calls = %d, want 1", got)
	}
	if got := mock.CallsContaining(rewriteMarker); got != 0 {
		t.Errorf("rewrite calls = %d, want 0", got)
	}
}

func TestRunNeverExceedsMaxRounds(t *testing.T) {
	// Adversarial judge: always scores mean 1.0.
	mock := agent.NewMockClient(map[string]string{
		draftMarker:   "first draft",
		judgeMarker:   judgeJSON(t, 1.0, "Make it calmer.", "Shorten sentences."),
		rewriteMarker: "revised draft",
	})

	loop := NewLoop(mock)
	outcome, err := loop.Run(context.Background(), "any request", mood.Calm, testThemes(), "Ocean")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := mock.CallsContaining(judgeMarker); got != DefaultMaxRounds {
		t.Errorf("judge calls = %d, want exactly %d", got, DefaultMaxRounds)
	}
	if got := mock.CallsContaining(rewriteMarker); got != DefaultMaxRounds-1 {
		t.Errorf("rewrite calls = %d, want %d", got, DefaultMaxRounds-1)
	}
	if !outcome.ForceAccepted {
		t.Error("exhausted loop must force-accept")
	}
	if outcome.Rounds != DefaultMaxRounds {
		t.Errorf("Rounds = %d, want %d", outcome.Rounds, DefaultMaxRounds)
	}
	if outcome.Story != "revised draft" {
		t.Errorf("final story = %q, want the last rewrite", outcome.Story)
	}
}

func TestRunInjectableRoundLimit(t *testing.T) {
	mock := agent.NewMockClient(map[string]string{
		draftMarker: "draft",
		judgeMarker: judgeJSON(t, 1.0),
	})

	loop := NewLoop(mock, WithMaxRounds(1))
	outcome, err := loop.Run(context.Background(), "req", mood.Calm, testThemes(), "Farm")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := mock.CallsContaining(judgeMarker); got != 1 {
		t.Errorf("judge calls = %d, want 1", got)
	}
	if !outcome.ForceAccepted {
		t.Error("single-round loop must force-accept its only verdict")
	}
}

func TestRunFallbackVerdictOnUnparseableJudge(t *testing.T) {
	mock := agent.NewMockClient(map[string]string{
		draftMarker:   "draft",
		judgeMarker:   "I cannot evaluate this story, sorry.",
		rewriteMarker: "revised",
	})

	loop := NewLoop(mock)
	outcome, err := loop.Run(context.Background(), "req", mood.Calm, testThemes(), "Castle")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	fallback := judge.FallbackVerdict()
	if outcome.Verdict.Critique != fallback.Critique {
		t.Errorf("verdict critique = %q, want fallback critique", outcome.Verdict.Critique)
	}
	// Fallback mean is below threshold, so the loop rewrites until forced.
	if !outcome.ForceAccepted {
		t.Error("fallback-scored loop must run to exhaustion and force-accept")
	}
	if got := mock.CallsContaining(judgeMarker); got != DefaultMaxRounds {
		t.Errorf("judge calls = %d, want %d", got, DefaultMaxRounds)
	}
}

func TestRunMissingScoresKeyUsesFallback(t *testing.T) {
	mock := agent.NewMockClient(map[string]string{
		draftMarker:   "draft",
		judgeMarker:   `{"critique": "fine", "revisions": []}`,
		rewriteMarker: "revised",
	})

	loop := NewLoop(mock, WithMaxRounds(1))
	outcome, err := loop.Run(context.Background(), "req", mood.Calm, testThemes(), "Beach")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if outcome.Verdict.Critique != judge.FallbackVerdict().Critique {
		t.Errorf("verdict critique = %q, want fallback", outcome.Verdict.Critique)
	}
}

func TestRunRewriteTakesAtMostFiveRevisions(t *testing.T) {
	revisions := []string{"one", "two", "three", "four", "five", "six", "seven"}
	mock := agent.NewMockClient(map[string]string{
		draftMarker:   "draft",
		judgeMarker:   judgeJSON(t, 1.0, revisions...),
		rewriteMarker: "revised",
	})

	loop := NewLoop(mock)
	if _, err := loop.Run(context.Background(), "req", mood.Calm, testThemes(), "Park"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, prompt := range mock.Prompts() {
		if !strings.Contains(prompt, rewriteMarker) {
			continue
		}
		if strings.Contains(prompt, "six") || strings.Contains(prompt, "seven") {
			t.Fatal("rewrite prompt embeds more than five revision instructions")
		}
		if !strings.Contains(prompt, "five") {
			t.Fatal("rewrite prompt missing the fifth revision instruction")
		}
	}
}

func TestRunPropagatesGeneratorFailure(t *testing.T) {
	// No scripted judge response: the judging call fails and the whole run
	// must fail with no partial result.
	mock := agent.NewMockClient(map[string]string{
		draftMarker: "draft",
	})

	loop := NewLoop(mock)
	outcome, err := loop.Run(context.Background(), "req", mood.Calm, testThemes(), "Jungle")
	if err == nil {
		t.Fatal("Run() should fail when the generator fails")
	}
	if outcome.Story != "" {
		t.Errorf("failed run returned partial story %q", outcome.Story)
	}
}
