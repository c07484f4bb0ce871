package wordle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	defaultWriteConcurrency = 4
	maxWriteAttempts        = 3
)

type Submission struct {
	Accepted bool
	Delta    int
	Period   Period
	Result   GameResult
	Player   *Player
}

type Rollover struct {
	ClosedPeriodStart int
	Meta              PeriodMeta
	Standings         []Standing
	Winners           []Standing
	PlayersRolled     int
}

type Recalculation struct {
	Meta           PeriodMeta
	PlayersScanned int
	PlayersUpdated int
}

type Reminder struct {
	PlayerID string
	Rounds   []int
}

// Service owns the period meta and serializes every write to the score table.
// Submissions hold metaMu for reading; day advance, rollover and recalculation
// hold it for writing, so a submission never observes a half-rolled period.
type Service struct {
	repo             Repository
	policy           ScoringPolicy
	logger           *slog.Logger
	writeConcurrency int64

	locks *keyedMutex

	metaMu sync.RWMutex
	meta   PeriodMeta
	loaded bool

	rolloverMu sync.Mutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithWriteConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.writeConcurrency = int64(n)
		}
	}
}

func NewService(repo Repository, policy ScoringPolicy, opts ...Option) (*Service, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		repo:             repo,
		policy:           policy,
		logger:           slog.With(slog.String("service", "wordle")),
		writeConcurrency: defaultWriteConcurrency,
		locks:            newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Policy() ScoringPolicy {
	return s.policy
}

// Load reads the meta record. A missing record is fatal for the caller; a
// pending rollover left by a crash is repaired by a full recalculation.
func (s *Service) Load(ctx context.Context) error {
	meta, err := s.repo.LoadMeta(ctx)
	if err != nil {
		return fmt.Errorf("failed to load wordle meta: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return err
	}

	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	s.meta = meta
	s.loaded = true

	s.logger.Info("Wordle meta loaded",
		slog.String("type", "sys"),
		slog.Int("current_round", meta.CurrentRoundIndex),
		slog.Int("period_start", meta.PeriodStartRoundIndex),
		slog.Bool("rollover_pending", meta.RolloverPending))

	if meta.RolloverPending {
		s.logger.Warn("Interrupted rollover detected, recalculating all players",
			slog.String("type", "sys"),
			slog.Int("period_start", meta.PeriodStartRoundIndex))
		if _, err := s.recalculateLocked(ctx, nil); err != nil {
			return fmt.Errorf("failed to repair interrupted rollover: %w", err)
		}
	}
	return nil
}

func (s *Service) Meta() PeriodMeta {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()
	return s.meta
}

// Submit records result for a player. A round already in the player's history
// is reported with Accepted=false; only a changed display name is written.
func (s *Service) Submit(ctx context.Context, playerID, playerName string, result GameResult) (Submission, error) {
	s.metaMu.RLock()
	defer s.metaMu.RUnlock()

	if !s.loaded {
		return Submission{}, ErrNotLoaded
	}
	meta := s.meta

	if result.RoundIndex > s.policy.LastAcceptedRound(meta) {
		return Submission{Result: result}, ErrRoundTooFarAhead
	}

	unlock := s.locks.Lock(playerID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		sub, err := s.submit(ctx, playerID, playerName, result, meta)
		if !errors.Is(err, ErrStaleWrite) || attempt == maxWriteAttempts {
			return sub, err
		}
		s.logger.Debug("Player changed during submit, retrying",
			slog.String("type", "db"),
			slog.String("player_id", playerID),
			slog.Int("attempt", attempt))
	}
}

func (s *Service) submit(ctx context.Context, playerID, playerName string, result GameResult, meta PeriodMeta) (Submission, error) {
	player, err := s.repo.FindPlayer(ctx, playerID)
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		player = NewPlayer(playerID, playerName)
	case err != nil:
		return Submission{}, fmt.Errorf("failed to load player %s: %w", playerID, err)
	}

	updated := player.Clone()
	renamed := playerName != "" && updated.Name != playerName
	if renamed {
		updated.Name = playerName
	}

	if player.HasRound(result.RoundIndex) {
		if !renamed {
			return Submission{Result: result, Player: player}, nil
		}
		if err := s.repo.SavePlayer(ctx, updated); err != nil {
			return Submission{}, fmt.Errorf("failed to rename player %s: %w", playerID, err)
		}
		return Submission{Result: result, Player: updated}, nil
	}

	// Counters of a player skipped by an unfinished rollover still belong to
	// the closed period.
	if meta.RolloverPending {
		Recompute(updated, meta, s.policy)
	}
	delta, period := applyResult(updated, result, meta, s.policy)

	if err := s.repo.SavePlayer(ctx, updated); err != nil {
		return Submission{}, fmt.Errorf("failed to save player %s: %w", playerID, err)
	}

	s.logger.Debug("Result recorded",
		slog.String("type", "db"),
		slog.String("player_id", playerID),
		slog.Int("round", result.RoundIndex),
		slog.Int("delta", delta),
		slog.String("period", period.String()))

	return Submission{
		Accepted: true,
		Delta:    delta,
		Period:   period,
		Result:   result,
		Player:   updated,
	}, nil
}

// refreshMetaLocked picks up meta written by another process, such as
// wordlectl. If the store cannot be read the cached meta is kept.
func (s *Service) refreshMetaLocked(ctx context.Context) {
	meta, err := s.repo.LoadMeta(ctx)
	if err == nil {
		err = meta.Validate()
	}
	if err != nil {
		s.logger.Warn("Failed to reload wordle meta, using cached copy",
			slog.String("type", "db"),
			slog.Any("error", err))
		return
	}
	if meta != s.meta {
		s.logger.Info("Wordle meta changed in store",
			slog.String("type", "sys"),
			slog.Int("current_round", meta.CurrentRoundIndex),
			slog.Int("period_start", meta.PeriodStartRoundIndex))
		s.meta = meta
	}
}

func (s *Service) AdvanceDay(ctx context.Context) (PeriodMeta, error) {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if !s.loaded {
		return PeriodMeta{}, ErrNotLoaded
	}
	s.refreshMetaLocked(ctx)

	next := s.meta
	next.CurrentRoundIndex++
	if err := s.repo.SaveMeta(ctx, next); err != nil {
		return s.meta, fmt.Errorf("failed to advance round: %w", err)
	}
	s.meta = next
	return next, nil
}

// RolloverWeek closes the current period. The advanced meta is written with a
// pending marker before any player is touched and the marker is cleared last.
func (s *Service) RolloverWeek(ctx context.Context) (Rollover, error) {
	if !s.rolloverMu.TryLock() {
		return Rollover{}, ErrRolloverInProgress
	}
	defer s.rolloverMu.Unlock()

	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if !s.loaded {
		return Rollover{}, ErrNotLoaded
	}
	s.refreshMetaLocked(ctx)

	players, err := s.repo.ListPlayers(ctx, FieldCurrentPeriod)
	if err != nil {
		return Rollover{}, fmt.Errorf("failed to list players: %w", err)
	}
	standings := Rank(players, FieldCurrentPeriod)

	closed := s.meta
	next := closed
	next.PeriodStartRoundIndex += s.policy.WindowSize
	next.RolloverPending = true
	if err := next.Validate(); err != nil {
		return Rollover{}, err
	}
	if err := s.repo.SaveMeta(ctx, next); err != nil {
		return Rollover{}, fmt.Errorf("failed to persist rollover meta: %w", err)
	}
	s.meta = next

	rolled := make([]*Player, 0, len(players))
	for _, p := range players {
		if p.CurrentPeriodScore == p.NextPeriodScore &&
			p.CurrentPeriodGamesPlayed == p.NextPeriodGamesPlayed &&
			p.NextPeriodScore == 0 && p.NextPeriodGamesPlayed == 0 {
			continue
		}
		c := p.Clone()
		rollPlayer(c)
		rolled = append(rolled, c)
	}

	if err := s.savePlayers(ctx, rolled, next); err != nil {
		return Rollover{}, fmt.Errorf("rollover interrupted, recalculation required: %w", err)
	}

	done := next
	done.RolloverPending = false
	if err := s.repo.SaveMeta(ctx, done); err != nil {
		return Rollover{}, fmt.Errorf("failed to clear rollover marker: %w", err)
	}
	s.meta = done

	return Rollover{
		ClosedPeriodStart: closed.PeriodStartRoundIndex,
		Meta:              done,
		Standings:         standings,
		Winners:           Winners(standings),
		PlayersRolled:     len(rolled),
	}, nil
}

// Recalculate rebuilds every player from history. When liveRound is set the
// current round index is corrected to it first.
func (s *Service) Recalculate(ctx context.Context, liveRound *int) (Recalculation, error) {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if !s.loaded {
		return Recalculation{}, ErrNotLoaded
	}
	s.refreshMetaLocked(ctx)
	return s.recalculateLocked(ctx, liveRound)
}

// Recover recalculates only if a rollover was left pending.
func (s *Service) Recover(ctx context.Context) (bool, error) {
	s.metaMu.Lock()
	defer s.metaMu.Unlock()

	if !s.loaded {
		return false, nil
	}
	s.refreshMetaLocked(ctx)
	if !s.meta.RolloverPending {
		return false, nil
	}
	_, err := s.recalculateLocked(ctx, nil)
	return err == nil, err
}

func (s *Service) recalculateLocked(ctx context.Context, liveRound *int) (Recalculation, error) {
	meta := s.meta
	if liveRound != nil {
		meta.CurrentRoundIndex = *liveRound
	}
	if err := meta.Validate(); err != nil {
		return Recalculation{}, err
	}

	players, err := s.repo.ListPlayers(ctx, FieldLifetime)
	if err != nil {
		return Recalculation{}, fmt.Errorf("failed to list players: %w", err)
	}

	changed := RecomputeAll(players, meta, s.policy)
	if err := s.savePlayers(ctx, changed, meta); err != nil {
		return Recalculation{}, fmt.Errorf("failed to save recalculated players: %w", err)
	}

	meta.RolloverPending = false
	if meta != s.meta {
		if err := s.repo.SaveMeta(ctx, meta); err != nil {
			return Recalculation{}, fmt.Errorf("failed to save meta after recalculation: %w", err)
		}
		s.meta = meta
	}

	s.logger.Info("Recalculated wordle points",
		slog.String("type", "sys"),
		slog.Int("players", len(players)),
		slog.Int("updated", len(changed)),
		slog.Int("current_round", meta.CurrentRoundIndex))

	return Recalculation{
		Meta:           meta,
		PlayersScanned: len(players),
		PlayersUpdated: len(changed),
	}, nil
}

// savePlayers writes players whose counters were derived against meta.
func (s *Service) savePlayers(ctx context.Context, players []*Player, meta PeriodMeta) error {
	if len(players) == 0 {
		return nil
	}

	sem := semaphore.NewWeighted(s.writeConcurrency)
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range players {
		if err := sem.Acquire(gctx, 1); err != nil {
			if werr := g.Wait(); werr != nil {
				return werr
			}
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)
			return s.savePlayer(gctx, p, meta)
		})
	}
	return g.Wait()
}

// savePlayer writes p. When another writer got there first the stored record
// is read again and rebuilt from its history against meta.
func (s *Service) savePlayer(ctx context.Context, p *Player, meta PeriodMeta) error {
	for attempt := 1; ; attempt++ {
		err := s.repo.SavePlayer(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStaleWrite) || attempt == maxWriteAttempts {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}

		fresh, err := s.repo.FindPlayer(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("player %s: %w", p.ID, err)
		}
		if !Recompute(fresh, meta, s.policy) {
			return nil
		}
		p = fresh
	}
}

func (s *Service) Leaderboard(ctx context.Context, field ScoreField) ([]Standing, error) {
	players, err := s.repo.ListPlayers(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return Rank(players, field), nil
}

// Player returns the stored record; ErrPlayerNotFound if the id never played.
func (s *Service) Player(ctx context.Context, playerID string) (*Player, error) {
	player, err := s.repo.FindPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player %s: %w", playerID, err)
	}
	return player, nil
}

// MissingRounds lists the rounds of the current period the player has not
// submitted, up to the current round.
func (s *Service) MissingRounds(ctx context.Context, playerID string) ([]int, error) {
	meta := s.Meta()

	player, err := s.repo.FindPlayer(ctx, playerID)
	switch {
	case errors.Is(err, ErrPlayerNotFound):
		player = NewPlayer(playerID, "")
	case err != nil:
		return nil, fmt.Errorf("failed to load player %s: %w", playerID, err)
	}
	return missingRounds(player, meta, s.policy), nil
}

func (s *Service) Reminders(ctx context.Context) ([]Reminder, error) {
	meta := s.Meta()

	players, err := s.repo.ListPlayers(ctx, FieldCurrentPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	var reminders []Reminder
	for _, p := range players {
		if rounds := missingRounds(p, meta, s.policy); len(rounds) > 0 {
			reminders = append(reminders, Reminder{PlayerID: p.ID, Rounds: rounds})
		}
	}
	return reminders, nil
}

func missingRounds(p *Player, meta PeriodMeta, policy ScoringPolicy) []int {
	last := min(meta.PeriodStartRoundIndex+policy.WindowSize-1, meta.CurrentRoundIndex)

	var missing []int
	for round := meta.PeriodStartRoundIndex; round <= last; round++ {
		if !p.HasRound(round) {
			missing = append(missing, round)
		}
	}
	return missing
}
