package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/config"
	"github.com/dotcommander/storyweaver/internal/judge"
	"github.com/dotcommander/storyweaver/internal/pipeline"
	"github.com/dotcommander/storyweaver/internal/refine"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	client := agent.NewClient(cfg.AI.APIKey,
		agent.WithAPIConfig(cfg.AI.BaseURL, cfg.AI.Model),
		agent.WithTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second),
		agent.WithRateLimit(cfg.AI.RateLimit.RequestsPerMinute, cfg.AI.RateLimit.BurstSize),
		agent.WithLogger(logger),
	)

	p := pipeline.New(client,
		pipeline.WithLogger(logger),
		pipeline.WithLoopOptions(
			refine.WithMaxRounds(cfg.Loop.MaxRounds),
			refine.WithEvaluator(judge.Evaluator{Threshold: cfg.Loop.AcceptThreshold}),
			refine.WithLogger(logger),
		),
	)

	fmt.Println("Enter your child's request or mood hint. Examples:")
	fmt.Println("- 'I want a story about Alice and Bob the cat'")
	fmt.Println("- 'sleepy and calm, story about a shy turtle'")
	fmt.Println("- Press ENTER to use the example request")
	fmt.Println()
	fmt.Print("What kind of story do you want to hear? ")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		input = pipeline.ExampleRequest
		fmt.Printf("\nUsing default example request:\n%s\n", input)
	}

	fmt.Println("\nGenerating story. Please wait...")

	result, err := p.Generate(context.Background(), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error while generating story: %v\n", err)
		os.Exit(1)
	}

	divider := strings.Repeat("=", 60)
	fmt.Println("\n" + divider)
	fmt.Println("Detected mood:", result.Mood)
	fmt.Println("Selected setting:", result.Setting)
	fmt.Println("Selected themes (4):", strings.Join(result.Themes, ", "))
	fmt.Println(divider)
	fmt.Println("\nFINAL STORY:")
	fmt.Println()
	fmt.Println(wrap(result.Story, 80))
	fmt.Println("\n" + strings.Repeat("-", 60))
	printJSON("JUDGE FEEDBACK:", result.Judge)
	printJSON("TRADING CARDS:", result.TradingCards)
	printJSON("SOUNDTRACK SUGGESTIONS:", result.Soundtrack)
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("STORYWEAVER_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printJSON(header string, v any) {
	fmt.Println("\n" + header)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("(unprintable: %v)\n", err)
		return
	}
	fmt.Println(string(data))
}

// wrap reflows text to the given column width, preserving paragraph breaks.
func wrap(text string, width int) string {
	var out strings.Builder
	for i, paragraph := range strings.Split(text, "\n\n") {
		if i > 0 {
			out.WriteString("\n\n")
		}
		line := 0
		for _, word := range strings.Fields(paragraph) {
			if line > 0 && line+1+len(word) > width {
				out.WriteString("\n")
				line = 0
			} else if line > 0 {
				out.WriteString(" ")
				line++
			}
			out.WriteString(word)
			line += len(word)
		}
	}
	return out.String()
}
