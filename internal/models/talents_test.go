package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liferestart-server/internal/models"
)

func TestRollTalents(t *testing.T) {
	roll := models.RollTalents()
	require.Len(t, roll, models.TalentRollSize)

	seen := make(map[string]bool)
	for _, talent := range roll {
		assert.False(t, seen[talent.ID], "duplicate talent %s in roll", talent.ID)
		seen[talent.ID] = true
	}
}

func TestFindTalents(t *testing.T) {
	talents, err := models.FindTalents([]string{"3", "4"})
	require.NoError(t, err)
	require.Len(t, talents, 2)
	assert.Equal(t, "Tycoon's Heir", talents[0].Name)

	_, err = models.FindTalents([]string{"3", "3"})
	assert.Error(t, err)

	_, err = models.FindTalents([]string{"999"})
	assert.Error(t, err)

	talents, err = models.FindTalents(nil)
	require.NoError(t, err)
	assert.Empty(t, talents)
}

func TestApplyTalentModifiers(t *testing.T) {
	base := models.Stats{Health: 4, Intelligence: 4, Charm: 4, Wealth: 4, Happiness: 4}

	heir, err := models.FindTalents([]string{"3"})
	require.NoError(t, err)
	out := models.ApplyTalentModifiers(base, heir)
	assert.Equal(t, 34, out.Wealth)
	assert.Equal(t, 14, out.Happiness)
	assert.Equal(t, 4, out.Health)
}

func TestApplyTalentModifiers_ZeroBase(t *testing.T) {
	heir, err := models.FindTalents([]string{"3"}) // wealth +30, happiness +10
	require.NoError(t, err)

	out := models.ApplyTalentModifiers(models.Stats{}, heir)
	assert.Equal(t, models.Stats{Wealth: 30, Happiness: 10}, out)
}

func TestApplyTalentModifiers_FlooredAtZero(t *testing.T) {
	base := models.Stats{Health: 5}

	fragile, err := models.FindTalents([]string{"7"}) // health -15, charm +20
	require.NoError(t, err)
	out := models.ApplyTalentModifiers(base, fragile)
	assert.Equal(t, 0, out.Health)
	assert.Equal(t, 20, out.Charm)
}
