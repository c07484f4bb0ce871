package wordle

import "sort"

type ScoreField int

const (
	FieldCurrentPeriod ScoreField = iota
	FieldLifetime
)

func (f ScoreField) String() string {
	if f == FieldLifetime {
		return "lifetime"
	}
	return "current_period"
}

// Score returns the ranked value and the matching games-played count.
func (f ScoreField) Score(p *Player) (score, games int) {
	if f == FieldLifetime {
		return p.LifetimeScore, len(p.History)
	}
	return p.CurrentPeriodScore, p.CurrentPeriodGamesPlayed
}

type Standing struct {
	Rank        int
	PlayerID    string
	PlayerName  string
	Score       int
	GamesPlayed int
}

// Rank orders players by field using competition ranking (1,1,3,...).
// Players with equal scores keep their input order.
func Rank(players []*Player, field ScoreField) []Standing {
	if len(players) == 0 {
		return nil
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		score, games := field.Score(p)
		standings = append(standings, Standing{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			Score:       score,
			GamesPlayed: games,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	for i := range standings {
		if i > 0 && standings[i].Score == standings[i-1].Score {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}

func Winners(standings []Standing) []Standing {
	var winners []Standing
	for _, s := range standings {
		if s.Rank != 1 {
			break
		}
		winners = append(winners, s)
	}
	return winners
}
