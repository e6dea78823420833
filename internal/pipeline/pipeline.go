// Package pipeline wires mood detection, scene selection, the refinement
// loop, and the derivation calls into one request-scoped flow.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/derive"
	"github.com/dotcommander/storyweaver/internal/judge"
	"github.com/dotcommander/storyweaver/internal/mood"
	"github.com/dotcommander/storyweaver/internal/parse"
	"github.com/dotcommander/storyweaver/internal/refine"
	"github.com/dotcommander/storyweaver/internal/scene"
)

// ExampleRequest is the fixed fallback request used when a caller supplies
// no text of their own.
const ExampleRequest = "A story about a girl named Alice and her best friend Bob, who happens to be a cat."

// Result is the complete bundle returned for one request. The caller always
// receives either all of it or a single top-level failure; the only partial
// markers are tagged parse failures inside the derivation slots.
type Result struct {
	Story        string        `json:"story"`
	Judge        judge.Verdict `json:"judge"`
	TradingCards parse.Result  `json:"trading_cards"`
	Soundtrack   parse.Result  `json:"soundtrack"`
	Mood         mood.Mood     `json:"mood"`
	Themes       []string      `json:"themes"`
	Setting      string        `json:"setting"`
}

// Pipeline holds the per-process collaborators. All request state lives on
// the stack of Generate, so one Pipeline serves concurrent requests.
type Pipeline struct {
	scenes   *scene.Selector
	loop     *refine.Loop
	deriver  *derive.Deriver
	logger   *slog.Logger
	loopOpts []refine.Option
}

type Option func(*Pipeline)

// WithSelector overrides the scene selector, e.g. to seed it in tests.
func WithSelector(s *scene.Selector) Option {
	return func(p *Pipeline) {
		p.scenes = s
	}
}

// WithLoopOptions forwards options to the refinement loop.
func WithLoopOptions(opts ...refine.Option) Option {
	return func(p *Pipeline) {
		p.loopOpts = append(p.loopOpts, opts...)
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New builds a Pipeline around one text-generation backend.
func New(gen agent.Generator, opts ...Option) *Pipeline {
	p := &Pipeline{
		scenes: scene.NewSelector(),
		logger: slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.loop = refine.NewLoop(gen, p.loopOpts...)
	p.deriver = derive.NewDeriver(gen, p.logger)
	return p
}

// Generate runs the whole pipeline for one free-text request.
func (p *Pipeline) Generate(ctx context.Context, text string) (*Result, error) {
	requestID := uuid.NewString()
	logger := p.logger.With("request_id", requestID)

	m := mood.Classify(text)

	themes, err := p.scenes.SelectThemes()
	if err != nil {
		return nil, fmt.Errorf("selecting themes: %w", err)
	}
	setting, err := p.scenes.SelectSetting()
	if err != nil {
		return nil, fmt.Errorf("selecting setting: %w", err)
	}

	logger.Info("request context selected",
		"mood", m,
		"setting", setting,
		"themes", strings.Join(themes, ", "))

	outcome, err := p.loop.Run(ctx, text, m, themes, setting)
	if err != nil {
		return nil, fmt.Errorf("refining story: %w", err)
	}

	cards, soundtrack, err := p.deriver.All(ctx, outcome.Story, m, setting)
	if err != nil {
		return nil, fmt.Errorf("deriving artifacts: %w", err)
	}

	logger.Info("request complete",
		"rounds", outcome.Rounds,
		"force_accepted", outcome.ForceAccepted,
		"story_length", len(outcome.Story))

	return &Result{
		Story:        outcome.Story,
		Judge:        outcome.Verdict,
		TradingCards: cards,
		Soundtrack:   soundtrack,
		Mood:         m,
		Themes:       themes,
		Setting:      setting,
	}, nil
}
