package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twicebot/twicebot/internal/domain/wordle"
)

func TestRenderLeaderboardHTML(t *testing.T) {
	html, err := RenderLeaderboardHTML(LeaderboardData{
		Title:      "Wordle Weekly Leaderboard",
		FirstRound: 100,
		LastRound:  106,
		Timestamp:  "2026-10-13",
		Standings: []wordle.Standing{
			{Rank: 1, PlayerName: "Nayeon", Score: 30, GamesPlayed: 7},
			{Rank: 2, PlayerName: "<script>", Score: 12, GamesPlayed: 4},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, `id="leaderboard-container"`)
	assert.Contains(t, html, "Rounds 100 to 106")
	assert.Contains(t, html, `class="row first"`)
	assert.Contains(t, html, "Nayeon")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Equal(t, 2, strings.Count(html, `<div class="rank">`))
}

func TestLeaderboardImageService_GenerateEmpty(t *testing.T) {
	_, err := NewLeaderboardImageService().Generate(context.Background(), LeaderboardData{})
	assert.Error(t, err)
}
