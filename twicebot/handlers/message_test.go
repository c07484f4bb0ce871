package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twicebot/twicebot/internal/domain/wordle"
)

type fakeSubmitter struct {
	calls int
	sub   wordle.Submission
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, _, _ string, result wordle.GameResult) (wordle.Submission, error) {
	f.calls++
	f.sub.Result = result
	return f.sub, f.err
}

func TestProcessResult(t *testing.T) {
	parser := wordle.MustNewParser()
	player := &wordle.Player{ID: "7", CurrentPeriodScore: 4}

	tests := []struct {
		name      string
		content   string
		submitter *fakeSubmitter
		wantOK    bool
		wantErr   bool
		wantReply string
		accepted  bool
	}{
		{
			name:      "chat is ignored",
			content:   "good morning",
			submitter: &fakeSubmitter{},
		},
		{
			name:      "accepted",
			content:   "Wordle 100 3/6\n\n🟩🟩🟩🟩🟩",
			submitter: &fakeSubmitter{sub: wordle.Submission{Accepted: true, Delta: 4, Period: wordle.PeriodCurrent, Player: player}},
			wantOK:    true,
			wantReply: "<@7> - Wordle 100 added (+4 points). You now have **4 points** this week.",
			accepted:  true,
		},
		{
			name:      "duplicate",
			content:   "Wordle 100 3/6",
			submitter: &fakeSubmitter{sub: wordle.Submission{Player: player}},
			wantOK:    true,
			wantReply: "<@7> - Wordle 100 already added.",
		},
		{
			name:      "too far ahead",
			content:   "Wordle 900 1/6",
			submitter: &fakeSubmitter{err: wordle.ErrRoundTooFarAhead},
			wantOK:    true,
			wantReply: "<@7> - Wordle 900 is too far ahead of the current round.",
		},
		{
			name:      "store failure",
			content:   "Wordle 100 1/6",
			submitter: &fakeSubmitter{err: errors.New("down")},
			wantOK:    true,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, ok, err := ProcessResult(context.Background(), tt.submitter, parser, "7", "Chaeyoung", tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantReply, outcome.Reply)
			assert.Equal(t, tt.accepted, outcome.Accepted)
			if !tt.wantOK {
				assert.Zero(t, tt.submitter.calls)
			}
		})
	}
}
