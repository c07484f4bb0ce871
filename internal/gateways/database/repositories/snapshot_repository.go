package repositories

import (
	"context"
	"time"

	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *models.PeriodSnapshot) error
	Recent(ctx context.Context, limit int) ([]*models.PeriodSnapshot, error)
	GetByPeriodStart(ctx context.Context, periodStart int) (*models.PeriodSnapshot, error)
}

type snapshotRepository struct {
	BaseRepository
	db *bun.DB
}

func NewSnapshotRepository(db *bun.DB, timeout time.Duration) SnapshotRepository {
	return &snapshotRepository{BaseRepository: NewBaseRepository(timeout), db: db}
}

// Save upserts on period_start so a retried rollover overwrites its own row.
func (r *snapshotRepository) Save(ctx context.Context, snapshot *models.PeriodSnapshot) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(snapshot).
		On("CONFLICT (period_start) DO UPDATE").
		Set("period_end = EXCLUDED.period_end").
		Set("entries = EXCLUDED.entries").
		Set("winner_ids = EXCLUDED.winner_ids").
		Set("winner_names = EXCLUDED.winner_names").
		Set("winning_score = EXCLUDED.winning_score").
		Set("image_url = EXCLUDED.image_url").
		Set("players_competing = EXCLUDED.players_competing").
		Returning("id").
		Exec(ctx)
	return r.HandleErrorWithID("save", "period snapshot", snapshot.PeriodStart, err)
}

func (r *snapshotRepository) Recent(ctx context.Context, limit int) ([]*models.PeriodSnapshot, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 5
	}

	var snapshots []*models.PeriodSnapshot
	err := r.db.NewSelect().
		Model(&snapshots).
		Order("period_start DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("list", "period snapshots", err)
	}
	return snapshots, nil
}

func (r *snapshotRepository) GetByPeriodStart(ctx context.Context, periodStart int) (*models.PeriodSnapshot, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	snapshot := new(models.PeriodSnapshot)
	err := r.db.NewSelect().
		Model(snapshot).
		Where("period_start = ?", periodStart).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "period snapshot", periodStart, err)
	}
	return snapshot, nil
}
