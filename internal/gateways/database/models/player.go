package models

import (
	"errors"
	"fmt"

	"github.com/twicebot/twicebot/internal/domain/wordle"
)

const (
	PlayersCollection = "players"
	MetaCollection    = "wordlemetas"
)

type GameDocument struct {
	WordleIndex int  `bson:"wordleIndex"`
	IsHardMode  bool `bson:"isHardMode"`
	Attempts    int  `bson:"attempts"`
}

// PlayerDocument keeps the field names of the existing players collection.
type PlayerDocument struct {
	ID                    string         `bson:"id"`
	Name                  string         `bson:"name"`
	PointsScore           int            `bson:"pointsScore"`
	WeeklyPointsScore     int            `bson:"weeklyPointsScore"`
	NextWeeklyPointsScore int            `bson:"nextWeeklyPointsScore"`
	WeeklyGamesPlayed     int            `bson:"weeklyGamesPlayed"`
	NextWeeklyGamesPlayed int            `bson:"nextWeeklyGamesPlayed"`
	Games                 []GameDocument `bson:"games"`
	Version               int            `bson:"version"`
}

type MetaDocument struct {
	CurrentWordleIndex   int  `bson:"currentWordleIndex"`
	WeekStartWordleIndex int  `bson:"weekStartWordleIndex"`
	RolloverPending      bool `bson:"rolloverPending"`
}

func (d *PlayerDocument) Validate() error {
	if d.ID == "" {
		return errors.New("player document has no id")
	}
	seen := make(map[int]struct{}, len(d.Games))
	for _, g := range d.Games {
		if g.Attempts < 1 || g.Attempts > wordle.FailedAttempts {
			return fmt.Errorf("player %s: round %d has %d attempts", d.ID, g.WordleIndex, g.Attempts)
		}
		if _, ok := seen[g.WordleIndex]; ok {
			return fmt.Errorf("player %s: round %d recorded twice", d.ID, g.WordleIndex)
		}
		seen[g.WordleIndex] = struct{}{}
	}
	return nil
}

func (d *PlayerDocument) ToDomain() *wordle.Player {
	p := &wordle.Player{
		ID:                       d.ID,
		Name:                     d.Name,
		LifetimeScore:            d.PointsScore,
		CurrentPeriodScore:       d.WeeklyPointsScore,
		NextPeriodScore:          d.NextWeeklyPointsScore,
		CurrentPeriodGamesPlayed: d.WeeklyGamesPlayed,
		NextPeriodGamesPlayed:    d.NextWeeklyGamesPlayed,
		History:                  make([]wordle.GameResult, 0, len(d.Games)),
		Version:                  d.Version,
	}
	for _, g := range d.Games {
		p.History = append(p.History, wordle.GameResult{
			RoundIndex: g.WordleIndex,
			Attempts:   g.Attempts,
			HardMode:   g.IsHardMode,
		})
	}
	return p
}

func NewPlayerDocument(p *wordle.Player) *PlayerDocument {
	d := &PlayerDocument{
		ID:                    p.ID,
		Name:                  p.Name,
		PointsScore:           p.LifetimeScore,
		WeeklyPointsScore:     p.CurrentPeriodScore,
		NextWeeklyPointsScore: p.NextPeriodScore,
		WeeklyGamesPlayed:     p.CurrentPeriodGamesPlayed,
		NextWeeklyGamesPlayed: p.NextPeriodGamesPlayed,
		Games:                 make([]GameDocument, 0, len(p.History)),
		Version:               p.Version,
	}
	for _, r := range p.History {
		d.Games = append(d.Games, GameDocument{
			WordleIndex: r.RoundIndex,
			IsHardMode:  r.HardMode,
			Attempts:    r.Attempts,
		})
	}
	return d
}

func (d *MetaDocument) ToDomain() wordle.PeriodMeta {
	return wordle.PeriodMeta{
		CurrentRoundIndex:     d.CurrentWordleIndex,
		PeriodStartRoundIndex: d.WeekStartWordleIndex,
		RolloverPending:       d.RolloverPending,
	}
}

func NewMetaDocument(m wordle.PeriodMeta) *MetaDocument {
	return &MetaDocument{
		CurrentWordleIndex:   m.CurrentRoundIndex,
		WeekStartWordleIndex: m.PeriodStartRoundIndex,
		RolloverPending:      m.RolloverPending,
	}
}
