package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
	"liferestart-server/internal/service"
)

func TestTurnUser_IncludesStateAndStage(t *testing.T) {
	b := service.NewPromptBuilder(600, zap.NewNop())
	state := playingState()
	state.Talents = []models.Talent{{Name: "Optimist", Description: "Happiness +20"}}

	prompt := b.TurnUser(state, 18, "")

	assert.Contains(t, prompt, "Age: 18")
	assert.Contains(t, prompt, "Health=50")
	assert.Contains(t, prompt, "Optimist")
	assert.Contains(t, prompt, "COLLEGE ENTRANCE EXAM")
	assert.Contains(t, prompt, "Generate the event")
}

func TestTurnUser_ChoiceConsequence(t *testing.T) {
	b := service.NewPromptBuilder(600, zap.NewNop())

	prompt := b.TurnUser(playingState(), 19, "Study abroad")

	assert.Contains(t, prompt, `"Study abroad"`)
	assert.Contains(t, prompt, "consequence")
	assert.NotContains(t, prompt, "Generate the event for this new year")
}

func TestTurnUser_LifeStages(t *testing.T) {
	b := service.NewPromptBuilder(600, zap.NewNop())
	state := playingState()

	cases := map[int]string{
		0:  "Birth",
		2:  "Infancy",
		10: "Primary school",
		23: "Graduation",
		40: "Middle age",
		80: "Old age",
	}
	for age, want := range cases {
		assert.Contains(t, b.TurnUser(state, age, ""), want, "age %d", age)
	}
}

func TestTurnUser_HistoryBudgetDropsOldestFirst(t *testing.T) {
	// A budget of 1 token keeps only the newest entry.
	b := service.NewPromptBuilder(1, zap.NewNop())
	state := playingState()
	for i := 0; i < 5; i++ {
		state.History = append(state.History, models.LogEntry{
			Age:     i,
			Content: strings.Repeat("event ", 10),
			Type:    models.EntryNormal,
		})
	}
	state.History[4].Content = "the newest event of all"

	prompt := b.TurnUser(state, 6, "")

	assert.Contains(t, prompt, "the newest event of all")
	assert.NotContains(t, prompt, "- age 0:")
}

func TestSummaryUser(t *testing.T) {
	b := service.NewPromptBuilder(600, zap.NewNop())
	state := playingState()
	state.Age = 42
	state.Achievements = []string{"Millionaire"}
	state.History = []models.LogEntry{
		{Age: 18, Content: "Chose the startup life.", Type: models.EntryChoice},
		{Age: 20, Content: "A quiet year.", Type: models.EntryNormal},
	}

	prompt := b.SummaryUser(state)

	assert.Contains(t, prompt, "lived to 42")
	assert.Contains(t, prompt, "Millionaire")
	assert.Contains(t, prompt, "Chose the startup life.")
	assert.NotContains(t, prompt, "A quiet year.")
	// No recorded reason reads as a natural death.
	assert.Contains(t, prompt, "natural death")
}
