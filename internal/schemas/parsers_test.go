package schemas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liferestart-server/internal/models"
	"liferestart-server/internal/schemas"
)

func TestExtractTurnResult_PlainJSON(t *testing.T) {
	text := `{"content":"You learned to walk.","statChanges":{"health":1},"isDeath":false}`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "You learned to walk.", result.Content)
	assert.Equal(t, 1, result.StatChanges.Health)
	assert.False(t, result.IsDeath)
}

func TestExtractTurnResult_JSONFenceWithProse(t *testing.T) {
	text := "Sure! Here is the event:\n```json\n{\"content\":\"A dog bit you.\",\"statChanges\":{\"health\":-5},\"isDeath\":false}\n```\nHope you like it!"

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "A dog bit you.", result.Content)
	assert.Equal(t, -5, result.StatChanges.Health)
}

func TestExtractTurnResult_UnlabeledFence(t *testing.T) {
	text := "```\n{\"content\":\"You won a prize.\",\"isDeath\":false}\n```"

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "You won a prize.", result.Content)
}

func TestExtractTurnResult_BraceSpanInProse(t *testing.T) {
	text := `The result is {"content":"You moved to a new city.","isDeath":false} as requested.`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "You moved to a new city.", result.Content)
}

func TestExtractTurnResult_TrailingCommaRepair(t *testing.T) {
	text := `{"content":"Crisis at work.","statChanges":{"wealth":-10,},"isDeath":false,}`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "Crisis at work.", result.Content)
	assert.Equal(t, -10, result.StatChanges.Wealth)
}

func TestExtractTurnResult_NestedBracesInContent(t *testing.T) {
	text := `prefix {"content":"You wrote code: func main() {}","isDeath":false} suffix`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, "You wrote code: func main() {}", result.Content)
}

func TestExtractTurnResult_NoJSON(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"Once upon a time there was no JSON at all.",
		"[1, 2, 3]",
		`"just a string"`,
	} {
		result, ok := schemas.ExtractTurnResult(text)
		assert.False(t, ok, "input %q", text)
		assert.Nil(t, result, "input %q", text)
	}
}

func TestExtractTurnResult_NormalizesOptionalFields(t *testing.T) {
	text := `{"content":"Quiet year.","isDeath":false,"deathReason":"leftover"}`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.NotNil(t, result.StatChanges)
	assert.True(t, result.StatChanges.IsZero())
	assert.Equal(t, []string{}, result.Achievements)
	assert.Equal(t, []models.ChoiceOption{}, result.Choices)
	// A death reason without a death is dropped.
	assert.Empty(t, result.DeathReason)
}

func TestExtractTurnResult_MissingContentGetsPlaceholder(t *testing.T) {
	text := `{"isDeath":false,"statChanges":{"health":-5}}`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.Equal(t, models.DefaultTurnContent, result.Content)
	assert.Equal(t, -5, result.StatChanges.Health)
}

func TestExtractTurnResult_DeathWithChoices(t *testing.T) {
	text := `{"content":"The cliff crumbles.","isDeath":true,"deathReason":"Fell off a cliff.","choices":[{"id":"a","text":"Jump"}]}`

	result, ok := schemas.ExtractTurnResult(text)
	require.True(t, ok)
	assert.True(t, result.IsDeath)
	assert.Equal(t, "Fell off a cliff.", result.DeathReason)
	// The parser keeps what the model said; discarding choices on death is
	// the state machine's job.
	assert.Len(t, result.Choices, 1)
}
