package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SnapshotEntry struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Score       int    `json:"score"`
	GamesPlayed int    `json:"games_played"`
}

// PeriodSnapshot archives the final standings of a closed scoring period.
type PeriodSnapshot struct {
	bun.BaseModel `bun:"table:period_snapshots,alias:ps" json:"-"`

	ID               int64           `bun:"id,pk,autoincrement" json:"id"`
	PeriodStart      int             `bun:"period_start,notnull,unique" json:"period_start"`
	PeriodEnd        int             `bun:"period_end,notnull" json:"period_end"`
	Entries          []SnapshotEntry `bun:"entries,type:jsonb" json:"entries"`
	WinnerIDs        []string        `bun:"winner_ids,type:jsonb" json:"winner_ids"`
	WinnerNames      []string        `bun:"winner_names,type:jsonb" json:"winner_names"`
	WinningScore     int             `bun:"winning_score,notnull" json:"winning_score"`
	ImageURL         string          `bun:"image_url" json:"image_url,omitempty"`
	PlayersCompeting int             `bun:"players_competing,notnull" json:"players_competing"`
	CreatedAt        time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
