package story

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDifficultyForLevel(t *testing.T) {
	tests := []struct {
		level           int64
		keyClueCount    int64
		redHerringCount int64
	}{
		{level: 1, keyClueCount: 3, redHerringCount: 2},
		{level: 4, keyClueCount: 3, redHerringCount: 2},
		{level: 5, keyClueCount: 2, redHerringCount: 3},
		{level: 10, keyClueCount: 1, redHerringCount: 4},
		{level: 15, keyClueCount: 1, redHerringCount: 5},
		{level: 100, keyClueCount: 1, redHerringCount: 22},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("level %d", tt.level), func(t *testing.T) {
			keyClueCount, redHerringCount := difficultyForLevel(tt.level)
			assert.Equal(t, tt.keyClueCount, keyClueCount)
			assert.Equal(t, tt.redHerringCount, redHerringCount)
		})
	}
}

func TestPrompt(t *testing.T) {
	prompt := Prompt(5)

	assert.Contains(t, prompt, "detective story for level 5")
	assert.Contains(t, prompt, "- 4 suspects, each with motives and alibis.")
	assert.Contains(t, prompt, "- 2 key clues.")
	assert.Contains(t, prompt, "- 3 red herrings.")
	assert.Contains(t, prompt, "Only output the JSON part.")
}
