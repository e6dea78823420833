// Package derive produces the trading-card and soundtrack artifacts from a
// finalized story. The two calls are independent; a parse failure in one is
// embedded in that artifact's slot and never touches the other.
package derive

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/mood"
	"github.com/dotcommander/storyweaver/internal/parse"
	"github.com/dotcommander/storyweaver/internal/prompts"
)

type Deriver struct {
	gen    agent.Generator
	logger *slog.Logger
}

func NewDeriver(gen agent.Generator, logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{
		gen:    gen,
		logger: logger.With("component", "deriver"),
	}
}

// Cards generates trading cards for the story. The returned Result is tagged
// on parse failure; only a generator failure returns an error.
func (d *Deriver) Cards(ctx context.Context, story string) (parse.Result, error) {
	raw, err := d.gen.Generate(ctx, prompts.TradingCards(story),
		prompts.CardsMaxTokens, prompts.CardsTemperature)
	if err != nil {
		return parse.Result{}, fmt.Errorf("generating trading cards: %w", err)
	}

	r := parse.Extract(raw)
	if !r.OK() {
		d.logger.Warn("trading cards output unparseable",
			"failure", string(r.Kind))
	}
	return r, nil
}

// Soundtrack generates soundtrack suggestions for the story's mood and
// setting.
func (d *Deriver) Soundtrack(ctx context.Context, m mood.Mood, setting string) (parse.Result, error) {
	raw, err := d.gen.Generate(ctx, prompts.Soundtrack(m, setting),
		prompts.SoundtrackMaxTokens, prompts.SoundtrackTemperature)
	if err != nil {
		return parse.Result{}, fmt.Errorf("generating soundtrack: %w", err)
	}

	r := parse.Extract(raw)
	if !r.OK() {
		d.logger.Warn("soundtrack output unparseable",
			"failure", string(r.Kind))
	}
	return r, nil
}

// All runs both derivations concurrently. Order between them carries no
// meaning; whichever transport error occurs first fails the request.
func (d *Deriver) All(ctx context.Context, story string, m mood.Mood, setting string) (cards, soundtrack parse.Result, err error) {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var gerr error
		cards, gerr = d.Cards(ctx, story)
		return gerr
	})
	g.Go(func() error {
		var gerr error
		soundtrack, gerr = d.Soundtrack(ctx, m, setting)
		return gerr
	})

	if werr := g.Wait(); werr != nil {
		return parse.Result{}, parse.Result{}, werr
	}
	return cards, soundtrack, nil
}
