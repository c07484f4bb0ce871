package wordle

// Recompute rebuilds every derived counter of p from its history against meta.
// It reports whether anything changed.
func Recompute(p *Player, meta PeriodMeta, policy ScoringPolicy) bool {
	before := *p

	p.LifetimeScore = 0
	p.CurrentPeriodScore = 0
	p.NextPeriodScore = 0
	p.CurrentPeriodGamesPlayed = 0
	p.NextPeriodGamesPlayed = 0

	for _, r := range p.History {
		applyDelta(p, policy.Classify(r.RoundIndex, meta), policy.ScoreResult(r))
	}

	return before.LifetimeScore != p.LifetimeScore ||
		before.CurrentPeriodScore != p.CurrentPeriodScore ||
		before.NextPeriodScore != p.NextPeriodScore ||
		before.CurrentPeriodGamesPlayed != p.CurrentPeriodGamesPlayed ||
		before.NextPeriodGamesPlayed != p.NextPeriodGamesPlayed
}

// RecomputeAll returns the players whose counters changed.
func RecomputeAll(players []*Player, meta PeriodMeta, policy ScoringPolicy) []*Player {
	var changed []*Player
	for _, p := range players {
		if Recompute(p, meta, policy) {
			changed = append(changed, p)
		}
	}
	return changed
}

// applyResult appends r to the history and updates the counters.
func applyResult(p *Player, r GameResult, meta PeriodMeta, policy ScoringPolicy) (int, Period) {
	delta := policy.ScoreResult(r)
	period := policy.Classify(r.RoundIndex, meta)

	p.History = append(p.History, r)
	applyDelta(p, period, delta)
	return delta, period
}

func applyDelta(p *Player, period Period, delta int) {
	p.LifetimeScore += delta
	switch period {
	case PeriodCurrent:
		p.CurrentPeriodScore += delta
		p.CurrentPeriodGamesPlayed++
	case PeriodNext:
		p.NextPeriodScore += delta
		p.NextPeriodGamesPlayed++
	}
}

// rollPlayer shifts the look-ahead window into the current one.
func rollPlayer(p *Player) {
	p.CurrentPeriodScore = p.NextPeriodScore
	p.CurrentPeriodGamesPlayed = p.NextPeriodGamesPlayed
	p.NextPeriodScore = 0
	p.NextPeriodGamesPlayed = 0
}
