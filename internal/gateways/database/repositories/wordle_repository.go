package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	querylog "github.com/twicebot/twicebot/internal/domain/logger"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrMetaExists = errors.New("wordle meta record already exists")

// WordleRepository stores players and the singleton period meta in Mongo.
type WordleRepository struct {
	BaseRepository
	players *mongo.Collection
	meta    *mongo.Collection
}

var _ wordle.Repository = (*WordleRepository)(nil)

func NewWordleRepository(db *mongo.Database, timeout time.Duration) *WordleRepository {
	return &WordleRepository{
		BaseRepository: NewBaseRepository(timeout),
		players:        db.Collection(models.PlayersCollection),
		meta:           db.Collection(models.MetaCollection),
	}
}

func (r *WordleRepository) FindPlayer(ctx context.Context, id string) (*wordle.Player, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var doc models.PlayerDocument
	err := r.players.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, wordle.ErrPlayerNotFound
	}
	if err != nil {
		return nil, r.HandleErrorWithID("find", "player", id, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, r.HandleErrorWithID("find", "player", id, err)
	}
	return doc.ToDomain(), nil
}

// playerVersionFilter matches the record a player was read at. Records
// written before versioning carry no version field and count as 0.
func playerVersionFilter(id string, version int) bson.M {
	if version == 0 {
		return bson.M{"id": id, "version": bson.M{"$in": bson.A{0, nil}}}
	}
	return bson.M{"id": id, "version": version}
}

func (r *WordleRepository) SavePlayer(ctx context.Context, player *wordle.Player) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	doc := models.NewPlayerDocument(player)
	if err := doc.Validate(); err != nil {
		return r.HandleErrorWithID("save", "player", player.ID, err)
	}
	doc.Version = player.Version + 1

	// A version mismatch on an existing id falls through to the upsert insert,
	// which the unique id index rejects.
	ql := querylog.NewQueryLogger("mongo", "replace", models.PlayersCollection)
	res, err := r.players.ReplaceOne(ctx, playerVersionFilter(player.ID, player.Version), doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		ql.Log(nil, 0, slog.String("player_id", player.ID), slog.String("status", "stale"))
		return fmt.Errorf("save player %s at version %d: %w", player.ID, player.Version, wordle.ErrStaleWrite)
	}
	if err != nil {
		ql.Log(err, 0, slog.String("player_id", player.ID))
		return r.HandleErrorWithID("save", "player", player.ID, err)
	}
	ql.Log(nil, res.ModifiedCount+res.UpsertedCount,
		slog.String("player_id", player.ID),
		slog.Int("games", len(doc.Games)),
		slog.Int("version", doc.Version))
	player.Version = doc.Version
	return nil
}

func sortKey(field wordle.ScoreField) string {
	if field == wordle.FieldLifetime {
		return "pointsScore"
	}
	return "weeklyPointsScore"
}

// ListPlayers returns every player ordered by the field, ties in insertion order.
func (r *WordleRepository) ListPlayers(ctx context.Context, sortBy wordle.ScoreField) ([]*wordle.Player, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ql := querylog.NewQueryLogger("mongo", "find", models.PlayersCollection)
	opts := options.Find().SetSort(bson.D{{Key: sortKey(sortBy), Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.players.Find(ctx, bson.D{}, opts)
	if err != nil {
		ql.Log(err, 0)
		return nil, r.HandleError("list", "players", err)
	}
	defer cursor.Close(ctx)

	var players []*wordle.Player
	for cursor.Next(ctx) {
		var doc models.PlayerDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, r.HandleError("decode", "player", err)
		}
		if err := doc.Validate(); err != nil {
			return nil, r.HandleErrorWithID("list", "player", doc.ID, err)
		}
		players = append(players, doc.ToDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, r.HandleError("list", "players", err)
	}
	ql.Log(nil, int64(len(players)), slog.String("sort", sortBy.String()))
	return players, nil
}

func (r *WordleRepository) CountPlayers(ctx context.Context) (int64, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	n, err := r.players.CountDocuments(ctx, bson.D{})
	return n, r.HandleError("count", "players", err)
}

func (r *WordleRepository) LoadMeta(ctx context.Context) (wordle.PeriodMeta, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var doc models.MetaDocument
	err := r.meta.FindOne(ctx, bson.D{}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return wordle.PeriodMeta{}, wordle.ErrMetaNotFound
	}
	if err != nil {
		return wordle.PeriodMeta{}, r.HandleError("load", "wordle meta", err)
	}
	return doc.ToDomain(), nil
}

func (r *WordleRepository) SaveMeta(ctx context.Context, meta wordle.PeriodMeta) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.meta.ReplaceOne(ctx, bson.D{}, models.NewMetaDocument(meta), options.Replace().SetUpsert(true))
	return r.HandleError("save", "wordle meta", err)
}

// InitMeta creates the meta record. An existing record is only replaced with force.
func (r *WordleRepository) InitMeta(ctx context.Context, meta wordle.PeriodMeta, force bool) error {
	if err := meta.Validate(); err != nil {
		return err
	}

	if !force {
		_, err := r.LoadMeta(ctx)
		switch {
		case err == nil:
			return ErrMetaExists
		case !errors.Is(err, wordle.ErrMetaNotFound):
			return fmt.Errorf("failed to check existing meta: %w", err)
		}
	}
	return r.SaveMeta(ctx, meta)
}
