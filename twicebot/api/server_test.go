package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
)

type fakeWordle struct {
	standings map[wordle.ScoreField][]wordle.Standing
	missing   map[string][]int
	err       error
}

func (f *fakeWordle) Meta() wordle.PeriodMeta {
	return wordle.PeriodMeta{CurrentRoundIndex: 103, PeriodStartRoundIndex: 100}
}

func (f *fakeWordle) Leaderboard(_ context.Context, field wordle.ScoreField) ([]wordle.Standing, error) {
	return f.standings[field], f.err
}

func (f *fakeWordle) MissingRounds(_ context.Context, id string) ([]int, error) {
	return f.missing[id], f.err
}

type fakeSnapshots struct {
	byStart map[int]*models.PeriodSnapshot
}

func (f *fakeSnapshots) Save(context.Context, *models.PeriodSnapshot) error { return nil }

func (f *fakeSnapshots) Recent(_ context.Context, limit int) ([]*models.PeriodSnapshot, error) {
	var out []*models.PeriodSnapshot
	for _, s := range f.byStart {
		out = append(out, s)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSnapshots) GetByPeriodStart(_ context.Context, start int) (*models.PeriodSnapshot, error) {
	if s, ok := f.byStart[start]; ok {
		return s, nil
	}
	return nil, &repositories.NotFoundError{Entity: "period snapshot", ID: start}
}

func newTestServer(svc *fakeWordle, snaps repositories.SnapshotRepository) *Server {
	return New(Config{Addr: ":0"}, svc, snaps, "test")
}

func do(t *testing.T, s *Server, target string) (int, Response) {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out Response
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func TestServer_Health(t *testing.T) {
	status, resp := do(t, newTestServer(&fakeWordle{}, nil), "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, float64(103), resp.Data.(map[string]interface{})["current_round"])
}

func TestServer_Leaderboard(t *testing.T) {
	svc := &fakeWordle{standings: map[wordle.ScoreField][]wordle.Standing{
		wordle.FieldCurrentPeriod: {{Rank: 1, PlayerID: "1", PlayerName: "Momo", Score: 12, GamesPlayed: 3}},
		wordle.FieldLifetime:      {{Rank: 1, PlayerID: "2", PlayerName: "Sana", Score: 90, GamesPlayed: 20}},
	}}
	s := newTestServer(svc, nil)

	status, resp := do(t, s, "/api/leaderboard")
	require.Equal(t, http.StatusOK, status)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "weekly", data["scope"])
	standings := data["standings"].([]interface{})
	require.Len(t, standings, 1)
	assert.Equal(t, "Momo", standings[0].(map[string]interface{})["player_name"])

	status, resp = do(t, s, "/api/leaderboard?scope=lifetime")
	require.Equal(t, http.StatusOK, status)
	standings = resp.Data.(map[string]interface{})["standings"].([]interface{})
	assert.Equal(t, "Sana", standings[0].(map[string]interface{})["player_name"])

	status, resp = do(t, s, "/api/leaderboard?scope=monthly")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", resp.Error.Code)

	svc.err = errors.New("mongo down")
	status, _ = do(t, s, "/api/leaderboard")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestServer_EmptyLeaderboardIsNotAnError(t *testing.T) {
	status, resp := do(t, newTestServer(&fakeWordle{}, nil), "/api/leaderboard")
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Data.(map[string]interface{})["standings"])
}

func TestServer_MissingRounds(t *testing.T) {
	svc := &fakeWordle{missing: map[string][]int{"123": {101, 102}}}
	s := newTestServer(svc, nil)

	status, resp := do(t, s, "/api/players/123/missing")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{float64(101), float64(102)}, resp.Data.(map[string]interface{})["missing"])

	status, resp = do(t, s, "/api/players/456/missing")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []interface{}{}, resp.Data.(map[string]interface{})["missing"])

	status, _ = do(t, s, "/api/players/not-an-id/missing")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_Snapshots(t *testing.T) {
	status, _ := do(t, newTestServer(&fakeWordle{}, nil), "/api/snapshots")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	snaps := &fakeSnapshots{byStart: map[int]*models.PeriodSnapshot{
		100: {PeriodStart: 100, PeriodEnd: 106, WinnerNames: []string{"Momo"}, WinningScore: 31},
	}}
	s := newTestServer(&fakeWordle{}, snaps)

	status, resp := do(t, s, "/api/snapshots?limit=5")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resp.Data.([]interface{}), 1)

	status, _ = do(t, s, "/api/snapshots?limit=500")
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = do(t, s, "/api/snapshots/100")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(31), resp.Data.(map[string]interface{})["winning_score"])

	status, resp = do(t, s, "/api/snapshots/93")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
