package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"github.com/twicebot/twicebot/twicebot/services"
)

type imageRenderer interface {
	Generate(ctx context.Context, data services.LeaderboardData) ([]byte, error)
}

type imageUploader interface {
	UploadLeaderboard(ctx context.Context, periodStart int, png []byte) (string, error)
}

type snapshotStore interface {
	Save(ctx context.Context, snapshot *models.PeriodSnapshot) error
}

// Archiver keeps a record of closed weeks. Every stage is optional and a
// failing stage only skips what depends on it.
type Archiver struct {
	renderer imageRenderer
	uploader imageUploader
	store    snapshotStore
	logger   *slog.Logger
}

type ArchiverOption func(*Archiver)

func WithRenderer(r imageRenderer) ArchiverOption {
	return func(a *Archiver) { a.renderer = r }
}

func WithUploader(u imageUploader) ArchiverOption {
	return func(a *Archiver) { a.uploader = u }
}

func WithSnapshotStore(s snapshotStore) ArchiverOption {
	return func(a *Archiver) { a.store = s }
}

// NewArchiver returns nil when no stage is configured.
func NewArchiver(opts ...ArchiverOption) *Archiver {
	a := &Archiver{logger: slog.With(slog.String("service", "archiver"))}
	for _, opt := range opts {
		opt(a)
	}
	if a.renderer == nil && a.store == nil {
		return nil
	}
	return a
}

// Archive renders, uploads and stores the closed week, returning the public
// image URL if one was produced.
func (a *Archiver) Archive(ctx context.Context, r wordle.Rollover, windowSize int) string {
	first := r.ClosedPeriodStart
	last := first + windowSize - 1

	var imageURL string
	if a.renderer != nil && a.uploader != nil {
		url, err := a.renderImage(ctx, r, first, last)
		if err != nil {
			a.logger.Error("Failed to archive leaderboard image",
				slog.String("type", "error"),
				slog.Int("period_start", first),
				slog.Any("error", err))
		}
		imageURL = url
	}

	if a.store != nil {
		if err := a.store.Save(ctx, NewSnapshot(r, last, imageURL)); err != nil {
			a.logger.Error("Failed to save period snapshot",
				slog.String("type", "error"),
				slog.Int("period_start", first),
				slog.Any("error", err))
		}
	}
	return imageURL
}

func (a *Archiver) renderImage(ctx context.Context, r wordle.Rollover, first, last int) (string, error) {
	png, err := a.renderer.Generate(ctx, services.LeaderboardData{
		Title:      "Wordle Weekly Leaderboard",
		FirstRound: first,
		LastRound:  last,
		Timestamp:  time.Now().Format("2006-01-02"),
		Standings:  r.Standings,
	})
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	url, err := a.uploader.UploadLeaderboard(ctx, first, png)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return url, nil
}

func NewSnapshot(r wordle.Rollover, periodEnd int, imageURL string) *models.PeriodSnapshot {
	entries := make([]models.SnapshotEntry, 0, len(r.Standings))
	for _, s := range r.Standings {
		entries = append(entries, models.SnapshotEntry{
			Rank:        s.Rank,
			PlayerID:    s.PlayerID,
			PlayerName:  s.PlayerName,
			Score:       s.Score,
			GamesPlayed: s.GamesPlayed,
		})
	}

	snap := &models.PeriodSnapshot{
		PeriodStart:      r.ClosedPeriodStart,
		PeriodEnd:        periodEnd,
		Entries:          entries,
		WinnerIDs:        []string{},
		WinnerNames:      []string{},
		ImageURL:         imageURL,
		PlayersCompeting: len(r.Standings),
	}
	for _, w := range r.Winners {
		snap.WinnerIDs = append(snap.WinnerIDs, w.PlayerID)
		snap.WinnerNames = append(snap.WinnerNames, w.PlayerName)
		snap.WinningScore = w.Score
	}
	return snap
}
