package service

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
)

// turnSystemPrompt instructs the model to behave as the game engine and to
// answer with bare JSON. The example line doubles as the format contract;
// the local backend in particular needs it spelled out.
const turnSystemPrompt = `You are the engine of a text-based life simulation game.
Tone: humorous, slightly cynical, meme-friendly, but it can be touching or tragic.
Respond with a single JSON object and nothing else. No explanations, no markdown.

Example output:
{"content":"You were born into an ordinary working-class family.","statChanges":{"health":0,"intelligence":0,"charm":0,"wealth":-5,"happiness":5},"isDeath":false,"achievements":[],"choices":[]}`

// summarySystemPrompt steers the end-of-life epitaph. Plain prose, no JSON.
const summarySystemPrompt = `You write short epitaphs for characters of a life simulation game.
Style: witty and profound, 2-3 sentences. Respond with the epitaph text only.`

// lifeStageBand maps an age range to thematic guidance for the model. The
// bands are ordered; the first match wins. Exact ages (0, 18, 23) mark
// single-year events.
type lifeStageBand struct {
	From, To int
	Context  string
}

var lifeStages = []lifeStageBand{
	{0, 0, "Birth. Describe family background (rich/poor/strange), parents, potential siblings. Talent influence starts now."},
	{1, 3, "Infancy. Learning to walk and talk, funny accidents, kindergarten interview."},
	{4, 6, "Early childhood. Kindergarten, making friends, discovering talents."},
	{7, 12, "Primary school. Innocent troubles, hobbies, naughty behavior."},
	{13, 15, "Middle school. Puberty, rebellion, first crush, academic pressure."},
	{16, 17, "High school. Intense study, stress, intense friendships."},
	{18, 18, "THE COLLEGE ENTRANCE EXAM. This is a major life event determining the future."},
	{19, 22, "University life or early work. Freedom, dating, skipping classes, internships."},
	{23, 23, "Graduation, entering the real workforce. Culture shock."},
	{24, 29, "Young adult. Career struggles, marriage pressure from parents, financial independence."},
	{30, 49, "Middle age. Career peak or slump, raising kids, aging parents, health issues, mid-life crisis."},
	{50, 64, "Pre-retirement. Empty nest, health decline, reflection, becoming a grandparent."},
}

const oldAgeContext = "Old age. Retirement, grandkids, health battles, looking back at life."

// lifeStageContext returns the guidance for the given age.
func lifeStageContext(age int) string {
	for _, band := range lifeStages {
		if age >= band.From && age <= band.To {
			return band.Context
		}
	}
	return oldAgeContext
}

// maxHistoryEntries caps how many recent log entries a turn prompt may
// quote, before the token budget shrinks it further.
const maxHistoryEntries = 8

// PromptBuilder assembles the natural-language instructions for both
// backends. Recent history is trimmed to a token budget so long runs do
// not blow up the context window of small local models.
type PromptBuilder struct {
	historyTokens int
	enc           *tiktoken.Tiktoken
	logger        *zap.Logger
}

// NewPromptBuilder creates a PromptBuilder with the given history token
// budget. When the tokenizer cannot be loaded, a bytes/4 estimate is used
// instead.
func NewPromptBuilder(historyTokens int, logger *zap.Logger) *PromptBuilder {
	log := logger.Named("PromptBuilder")
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		log.Warn("Failed to load tokenizer, falling back to byte estimate", zap.Error(err))
		enc = nil
	}
	return &PromptBuilder{
		historyTokens: historyTokens,
		enc:           enc,
		logger:        log,
	}
}

func (b *PromptBuilder) countTokens(s string) int {
	if b.enc == nil {
		return len(s) / 4
	}
	return len(b.enc.Encode(s, nil, nil))
}

// TurnSystem returns the system prompt for a turn request.
func (b *PromptBuilder) TurnSystem() string {
	return turnSystemPrompt
}

// TurnUser builds the user prompt for resolving the given upcoming age.
// choiceText is the display text of the option the player picked on the
// previous turn, or empty when no choice is being resolved.
func (b *PromptBuilder) TurnUser(state *models.GameState, upcomingAge int, choiceText string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Current state:\nAge: %d\n", upcomingAge)
	fmt.Fprintf(&sb, "Stats: Health=%d, Intelligence=%d, Charm=%d, Wealth=%d, Happiness=%d\n",
		state.Stats.Health, state.Stats.Intelligence, state.Stats.Charm, state.Stats.Wealth, state.Stats.Happiness)
	fmt.Fprintf(&sb, "Talents: %s\n", describeTalents(state.Talents))
	fmt.Fprintf(&sb, "Life stage: %s\n", lifeStageContext(upcomingAge))

	if recent := b.recentHistory(state.History); recent != "" {
		sb.WriteString("Recent events:\n")
		sb.WriteString(recent)
	}

	if choiceText != "" {
		fmt.Fprintf(&sb, "\nThe player chose: %q. Generate the immediate consequence of this choice.\n", choiceText)
		return sb.String()
	}

	sb.WriteString(`
Generate the event for this new year:
- Adjust the probability of death based on Health (if Health < 10, high risk).
- Adjust the probability of events based on Talents.
- 15% chance to offer 2-3 choices; critical years (18, 22) must offer choices.
- If Wealth is 0 or negative, describe poverty struggles.
- Add entries to "achievements" only when something rare happens.
`)
	return sb.String()
}

// SummaryUser builds the user prompt for the end-of-life summary.
func (b *PromptBuilder) SummaryUser(state *models.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write an epitaph for a character who lived to %d.\n", state.Age)
	fmt.Fprintf(&sb, "Stats: Health=%d, Intelligence=%d, Charm=%d, Wealth=%d\n",
		state.Stats.Health, state.Stats.Intelligence, state.Stats.Charm, state.Stats.Wealth)
	fmt.Fprintf(&sb, "Achievements: %s\n", joinOrNone(state.Achievements))

	keyEvents := make([]string, 0, maxHistoryEntries)
	for _, entry := range state.History {
		if entry.Type == models.EntryChoice || entry.Type == models.EntryAchievement {
			keyEvents = append(keyEvents, entry.Content)
		}
	}
	if len(keyEvents) > maxHistoryEntries {
		keyEvents = keyEvents[len(keyEvents)-maxHistoryEntries:]
	}
	fmt.Fprintf(&sb, "Key events: %s\n", joinOrNone(keyEvents))

	reason := state.DeathReason
	if reason == "" {
		reason = "natural death"
	}
	fmt.Fprintf(&sb, "Cause of death: %s\n", reason)
	return sb.String()
}

// SummarySystem returns the system prompt for a summary request.
func (b *PromptBuilder) SummarySystem() string {
	return summarySystemPrompt
}

// recentHistory renders the newest log entries, newest last, dropping the
// oldest ones first once the token budget is exceeded.
func (b *PromptBuilder) recentHistory(history []models.LogEntry) string {
	if len(history) == 0 {
		return ""
	}
	start := len(history) - maxHistoryEntries
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(history)-start)
	total := 0
	for i := len(history) - 1; i >= start; i-- {
		line := fmt.Sprintf("- age %d: %s\n", history[i].Age, history[i].Content)
		cost := b.countTokens(line)
		if total+cost > b.historyTokens && len(lines) > 0 {
			break
		}
		total += cost
		lines = append(lines, line)
	}

	// Collected newest-first; emit oldest-first.
	var sb strings.Builder
	for i := len(lines) - 1; i >= 0; i-- {
		sb.WriteString(lines[i])
	}
	return sb.String()
}

func describeTalents(talents []models.Talent) string {
	if len(talents) == 0 {
		return "none"
	}
	parts := make([]string, len(talents))
	for i, t := range talents {
		parts[i] = fmt.Sprintf("%s (%s)", t.Name, t.Description)
	}
	return strings.Join(parts, ", ")
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, "; ")
}
