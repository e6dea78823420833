// Package prompts builds the fixed prompt shapes for every model call in the
// pipeline, along with the per-call token and temperature budgets.
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/dotcommander/storyweaver/internal/mood"
)

// Per-call budgets. Drafting and rewriting get the large budget; judging and
// the derivation calls run cooler and shorter.
const (
	StoryMaxTokens   = 700
	StoryTemperature = 0.6

	JudgeMaxTokens   = 500
	JudgeTemperature = 0.3

	RewriteMaxTokens   = 700
	RewriteTemperature = 0.55

	CardsMaxTokens   = 300
	CardsTemperature = 0.3

	SoundtrackMaxTokens   = 300
	SoundtrackTemperature = 0.3
)

var storyTmpl = template.Must(template.New("story").Parse(`You are "StoryWeaver", an expert children's storyteller for ages 5 to 10.
Write a calm bedtime story based on the user's request and the generated context below.

USER REQUEST: {{.Request}}

CONTEXT:
- Mood detected: {{.Mood}}
- Themes (include all; problem solving must be implemented): {{.Themes}}
- Setting: {{.Setting}}

REQUIREMENTS (very important):
- Age: suitable for 5-10 year olds.
- Tone: soft rhythm, warm and calming.
- Imagery: bright, sensory, but gentle (colors, sounds, textures).
- Sentences: short and clear. Prefer sentences of 8-14 words.
- Emotions: clearly expressed and reassuring. Use simple labels ("Alice felt shy", "Bob was brave").
- Structure: simple arc with Introduction, Rising Action (include a small, solvable problem), Climax, Resolution, and a calming closing that encourages sleep.
- Length: 220-350 words.
- Dialogue: include 2-4 short lines of dialogue to increase engagement.
- Safety: no scary concepts, no violence, no adult themes.
- Language: simple vocabulary, avoid complex words; if a complex idea is needed, explain in one short sentence.

ADDITIONAL:
- Make "problem solving" explicit: show how characters discuss, try, and solve the small problem together.
- Reinforce calming ending: close with a sentence that helps the child relax for sleep.

Output ONLY the story text. Do not include analysis or extra metadata.`))

var rewriteTmpl = template.Must(template.New("rewrite").Parse(`You are StoryWeaver. Please rewrite the story below applying these revision instructions:
{{.Instructions}}

Original story:
"""{{.Story}}"""

Constraints (keep these!):
- Maintain age-appropriateness (5-10)
- Keep tone calming and the ending sleep-friendly
- Preserve characters and moral; emphasize problem-solving steps more clearly
- Keep sentences short (8-14 words)
- Length between 220-350 words

Output only the rewritten story text.`))

// Story builds the round-zero drafting prompt.
func Story(request string, m mood.Mood, themes []string, setting string) string {
	var b strings.Builder
	_ = storyTmpl.Execute(&b, struct {
		Request, Mood, Themes, Setting string
	}{
		Request: request,
		Mood:    m.String(),
		Themes:  strings.Join(themes, ", "),
		Setting: setting,
	})
	return b.String()
}

// Rewrite builds the revision prompt for a rejected draft.
func Rewrite(story string, revisions []string) string {
	var instr strings.Builder
	for _, r := range revisions {
		fmt.Fprintf(&instr, "- %s\n", r)
	}

	var b strings.Builder
	_ = rewriteTmpl.Execute(&b, struct {
		Instructions, Story string
	}{
		Instructions: strings.TrimRight(instr.String(), "\n"),
		Story:        story,
	})
	return b.String()
}

// Judge builds the evaluation prompt. The response contract is JSON-only with
// keys scores, critique, revisions.
func Judge(story string) string {
	return fmt.Sprintf(`You are "StoryJudge", an expert evaluator of children's bedtime stories for ages 5-10.
Evaluate the story below in JSON format ONLY.

STORY:
"""%s"""

EVALUATION CRITERIA (rate 1-10):
- AgeAppropriateness
- ToneCalmness
- ImageryQuality
- SentenceSimplicity
- EmotionalClarity
- ProblemSolvingPresence
- StructureCompleteness
- SleepinessFactor (how calming for bedtime)

Provide:
1) A JSON object with numeric scores for each criterion above.
2) A short textual critique (1-3 sentences).
3) Up to 5 concrete revision instructions to improve the story (each instruction short and actionable).

Output MUST be valid JSON only, with keys:
scores, critique, revisions

Example format:
{
  "scores": {"AgeAppropriateness":9, "ToneCalmness":8},
  "critique": "Short critique here.",
  "revisions": ["Make the climax gentler.", "Add one line of dialogue."]
}`, story)
}

// TradingCards builds the trading-card derivation prompt.
func TradingCards(story string) string {
	return fmt.Sprintf(`You are "CardMaker". From the story below, extract up to 3 main characters and produce three simple trading cards:
- Character card (name, 3 short traits, special little ability)
- Setting card (one card)
- Moral card (one card: one short sentence)
Format the output as JSON with keys: characters (list), setting, moral.
Keep each trait 1-3 words. Keep suitability for kids.
STORY:
"""%s"""`, story)
}

// Soundtrack builds the soundtrack derivation prompt.
func Soundtrack(m mood.Mood, setting string) string {
	return fmt.Sprintf(`You are "SoundGuide". Recommend 3 short soundtrack suggestions to accompany a calm bedtime story.
Context:
- Mood: %s
- Setting: %s
For each suggestion include: title (short), short reason (1 sentence), and two example audio elements (e.g., "soft waves", "gentle harp").
Return JSON array of 3 objects.`, m, setting)
}
