package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHashStringStable(t *testing.T) {
	assert.Equal(t, HashString("abc"), HashString("abc"))
	assert.NotEqual(t, HashString("abc"), HashString("abd"))
	assert.Len(t, HashString("abc"), 64)
	assert.Len(t, ShortHash("abc"), 8)
}

func TestDeriveSeedStable(t *testing.T) {
	basis := "run-1|scenario_trolley|anon_model_001|2"
	assert.Equal(t, DeriveSeed(basis), DeriveSeed(basis))
	assert.NotEqual(t, DeriveSeed(basis), DeriveSeed(basis+"x"))
}

func TestGenerateRunID(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	id := GenerateRunID(now)
	assert.True(t, len(id) > len("2026-03-14T09-26-"))
	assert.Contains(t, id, "2026-03-14T09-26-")

	other := GenerateRunID(now)
	assert.NotEqual(t, id, other, "suffix must differ between calls")
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4", Slugify("claude-sonnet-4"))
	assert.Equal(t, "openai-gpt-4o", Slugify("openai/GPT-4o"))
	assert.Equal(t, "model", Slugify("///"))
}
