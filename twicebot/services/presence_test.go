package services

import (
	"context"
	"testing"

	"github.com/disgoorg/disgo/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPresence struct {
	calls int
	opts  []gateway.PresenceOpt
}

func (r *recordingPresence) SetPresence(_ context.Context, opts ...gateway.PresenceOpt) error {
	r.calls++
	r.opts = opts
	return nil
}

func TestPresenceService_NextNeverRepeats(t *testing.T) {
	s := NewPresenceService([]string{"TT", "Likey"})
	prev := s.Next()
	for i := 0; i < 20; i++ {
		next := s.Next()
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestPresenceService_SingleSong(t *testing.T) {
	s := NewPresenceService([]string{"Signal"})
	assert.Equal(t, "Signal", s.Next())
	assert.Equal(t, "Signal", s.Next())
}

func TestPresenceService_Update(t *testing.T) {
	s := NewPresenceService(nil)
	rec := &recordingPresence{}
	require.NoError(t, s.Update(context.Background(), rec))
	assert.Equal(t, 1, rec.calls)
	assert.Len(t, rec.opts, 2)
}
