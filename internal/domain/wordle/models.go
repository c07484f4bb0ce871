package wordle

import "slices"

// FailedAttempts is stored as the attempt count of a failed round ("X/6").
const FailedAttempts = 7

// MaxAttempts is the number of guesses a round allows.
const MaxAttempts = 6

type GameResult struct {
	RoundIndex int
	Attempts   int
	HardMode   bool
}

func (r GameResult) Failed() bool {
	return r.Attempts >= FailedAttempts
}

// AttemptsLabel renders the attempts the way the game shares them.
func (r GameResult) AttemptsLabel() string {
	if r.Failed() {
		return "X"
	}
	return string(rune('0' + r.Attempts))
}

type Player struct {
	ID                       string
	Name                     string
	LifetimeScore            int
	CurrentPeriodScore       int
	NextPeriodScore          int
	CurrentPeriodGamesPlayed int
	NextPeriodGamesPlayed    int
	History                  []GameResult
	// Version is the stored revision the record was read at; see Repository.SavePlayer.
	Version                  int
}

func NewPlayer(id, name string) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		History: []GameResult{},
	}
}

func (p *Player) HasRound(roundIndex int) bool {
	return slices.ContainsFunc(p.History, func(r GameResult) bool {
		return r.RoundIndex == roundIndex
	})
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (p *Player) Clone() *Player {
	c := *p
	c.History = slices.Clone(p.History)
	if c.History == nil {
		c.History = []GameResult{}
	}
	return &c
}

type PeriodMeta struct {
	CurrentRoundIndex     int
	PeriodStartRoundIndex int
	RolloverPending       bool
}

func (m PeriodMeta) Validate() error {
	if m.PeriodStartRoundIndex > m.CurrentRoundIndex {
		return &InvalidMetaError{Meta: m}
	}
	return nil
}
