package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/models"
	"github.com/twicebot/twicebot/twicebot/services"
)

const testChannel = snowflake.ID(42)

type recordingPoster struct {
	posts []string
	err   error
}

func (p *recordingPoster) Post(_ context.Context, channelID snowflake.ID, content string) error {
	if p.err != nil {
		return p.err
	}
	if channelID != testChannel {
		return errors.New("wrong channel")
	}
	p.posts = append(p.posts, content)
	return nil
}

type fakeWordle struct {
	meta      wordle.PeriodMeta
	advance   error
	reminders []wordle.Reminder
	rollover  wordle.Rollover
	rollErr   error
	recovered bool
	recovers  int
}

func (f *fakeWordle) AdvanceDay(context.Context) (wordle.PeriodMeta, error) {
	if f.advance != nil {
		return f.meta, f.advance
	}
	f.meta.CurrentRoundIndex++
	return f.meta, nil
}

func (f *fakeWordle) Reminders(context.Context) ([]wordle.Reminder, error) {
	return f.reminders, nil
}

func (f *fakeWordle) RolloverWeek(context.Context) (wordle.Rollover, error) {
	return f.rollover, f.rollErr
}

func (f *fakeWordle) Recover(context.Context) (bool, error) {
	f.recovers++
	return f.recovered, nil
}

func (f *fakeWordle) Policy() wordle.ScoringPolicy {
	return wordle.DefaultScoringPolicy()
}

func sampleRollover() wordle.Rollover {
	standings := []wordle.Standing{
		{Rank: 1, PlayerID: "1", PlayerName: "Momo", Score: 31, GamesPlayed: 7},
		{Rank: 1, PlayerID: "2", PlayerName: "Sana", Score: 31, GamesPlayed: 7},
		{Rank: 3, PlayerID: "3", PlayerName: "Jihyo", Score: 12, GamesPlayed: 3},
	}
	return wordle.Rollover{
		ClosedPeriodStart: 100,
		Meta:              wordle.PeriodMeta{CurrentRoundIndex: 107, PeriodStartRoundIndex: 107},
		Standings:         standings,
		Winners:           wordle.Winners(standings),
		PlayersRolled:     3,
	}
}

func TestDailyJob(t *testing.T) {
	svc := &fakeWordle{meta: wordle.PeriodMeta{CurrentRoundIndex: 100, PeriodStartRoundIndex: 100}}
	require.NoError(t, NewDailyJob(svc).Run(context.Background()))
	assert.Equal(t, 101, svc.meta.CurrentRoundIndex)

	svc.advance = errors.New("mongo down")
	assert.Error(t, NewDailyJob(svc).Run(context.Background()))
}

func TestReminderJob(t *testing.T) {
	poster := &recordingPoster{}
	svc := &fakeWordle{}

	job := NewReminderJob(svc, poster, testChannel, "")
	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, poster.posts, "nothing is posted when nobody is missing games")

	svc.reminders = []wordle.Reminder{{PlayerID: "7", Rounds: []int{101, 102}}}
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, poster.posts, 1)
	assert.Contains(t, poster.posts[0], "<@7>\nWordle 101\nWordle 102")

	poster.err = errors.New("rest failure")
	assert.Error(t, job.Run(context.Background()))
}

func TestRolloverJob_Announces(t *testing.T) {
	poster := &recordingPoster{}
	svc := &fakeWordle{rollover: sampleRollover()}

	require.NoError(t, NewRolloverJob(svc, poster, testChannel, nil).Run(context.Background()))
	require.Len(t, poster.posts, 1)
	assert.Contains(t, poster.posts[0], "**Wordle Weekly Leaderboard**")
	assert.Contains(t, poster.posts[0], "🎉 Congrats to Momo, Sana with 31 points! 🎉")
	assert.Zero(t, svc.recovers)
}

func TestRolloverJob_NoPlayers(t *testing.T) {
	poster := &recordingPoster{}
	svc := &fakeWordle{rollover: wordle.Rollover{ClosedPeriodStart: 100}}

	require.NoError(t, NewRolloverJob(svc, poster, testChannel, nil).Run(context.Background()))
	assert.Empty(t, poster.posts)
}

func TestRolloverJob_RecoversOnFailure(t *testing.T) {
	poster := &recordingPoster{}
	svc := &fakeWordle{rollErr: errors.New("write failed"), recovered: true}

	err := NewRolloverJob(svc, poster, testChannel, nil).Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, svc.recovers)
	assert.Empty(t, poster.posts)

	svc.rollErr = wordle.ErrRolloverInProgress
	err = NewRolloverJob(svc, poster, testChannel, nil).Run(context.Background())
	assert.ErrorIs(t, err, wordle.ErrRolloverInProgress)
	assert.Equal(t, 1, svc.recovers, "an overlapping run does not trigger recovery")
}

type fakeRenderer struct{ err error }

func (r fakeRenderer) Generate(_ context.Context, data services.LeaderboardData) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if data.FirstRound != 100 || data.LastRound != 106 {
		return nil, errors.New("unexpected round range")
	}
	return []byte("png"), nil
}

type fakeUploader struct{}

func (fakeUploader) UploadLeaderboard(_ context.Context, periodStart int, _ []byte) (string, error) {
	return "https://cdn.example/wordle/100.png", nil
}

type memorySnapshots struct {
	saved []*models.PeriodSnapshot
}

func (m *memorySnapshots) Save(_ context.Context, s *models.PeriodSnapshot) error {
	m.saved = append(m.saved, s)
	return nil
}

func TestRolloverJob_Archives(t *testing.T) {
	poster := &recordingPoster{}
	store := &memorySnapshots{}
	archiver := NewArchiver(WithRenderer(fakeRenderer{}), WithUploader(fakeUploader{}), WithSnapshotStore(store))
	require.NotNil(t, archiver)

	svc := &fakeWordle{rollover: sampleRollover()}
	require.NoError(t, NewRolloverJob(svc, poster, testChannel, archiver).Run(context.Background()))

	require.Len(t, poster.posts, 1)
	assert.Contains(t, poster.posts[0], "https://cdn.example/wordle/100.png")

	require.Len(t, store.saved, 1)
	snap := store.saved[0]
	assert.Equal(t, 100, snap.PeriodStart)
	assert.Equal(t, 106, snap.PeriodEnd)
	assert.Equal(t, []string{"1", "2"}, snap.WinnerIDs)
	assert.Equal(t, []string{"Momo", "Sana"}, snap.WinnerNames)
	assert.Equal(t, 31, snap.WinningScore)
	assert.Equal(t, 3, snap.PlayersCompeting)
	assert.Len(t, snap.Entries, 3)
	assert.Equal(t, "https://cdn.example/wordle/100.png", snap.ImageURL)
}

func TestArchiver_RenderFailureStillStores(t *testing.T) {
	store := &memorySnapshots{}
	archiver := NewArchiver(WithRenderer(fakeRenderer{err: errors.New("chrome missing")}), WithUploader(fakeUploader{}), WithSnapshotStore(store))

	url := archiver.Archive(context.Background(), sampleRollover(), 7)
	assert.Empty(t, url)
	require.Len(t, store.saved, 1)
	assert.Empty(t, store.saved[0].ImageURL)
}

func TestNewArchiver_NothingConfigured(t *testing.T) {
	assert.Nil(t, NewArchiver())
	assert.Nil(t, NewArchiver(WithUploader(fakeUploader{})))
}

type recordingPresence struct{ calls int }

func (r *recordingPresence) SetPresence(context.Context, ...gateway.PresenceOpt) error {
	r.calls++
	return nil
}

func TestPresenceJob(t *testing.T) {
	client := &recordingPresence{}
	job := NewPresenceJob(services.NewPresenceService([]string{"TT", "FANCY"}), client)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, client.calls)
}
