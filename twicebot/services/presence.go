package services

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
)

var DefaultSongs = []string{
	"Like OOH-AHH", "CHEER UP", "TT", "Knock Knock", "Signal", "Likey",
	"Heart Shaker", "What is Love?", "Dance The Night Away", "YES or YES",
	"FANCY", "Feel Special", "MORE & MORE", "I CAN'T STOP ME", "Alcohol-Free",
	"SCIENTIFIC", "The Feels", "Talk that Talk", "SET ME FREE", "ONE SPARK",
}

type PresenceSetter interface {
	SetPresence(ctx context.Context, opts ...gateway.PresenceOpt) error
}

// PresenceService cycles the listening activity through a song list.
type PresenceService struct {
	mu     sync.Mutex
	songs  []string
	last   string
	logger *slog.Logger
}

func NewPresenceService(songs []string) *PresenceService {
	if len(songs) == 0 {
		songs = DefaultSongs
	}
	return &PresenceService{
		songs:  songs,
		logger: slog.With(slog.String("service", "presence")),
	}
}

// Next picks a random song, avoiding an immediate repeat when possible.
func (s *PresenceService) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	song := s.songs[rand.IntN(len(s.songs))]
	if len(s.songs) > 1 {
		for song == s.last {
			song = s.songs[rand.IntN(len(s.songs))]
		}
	}
	s.last = song
	return song
}

func (s *PresenceService) Update(ctx context.Context, client PresenceSetter) error {
	song := s.Next()
	if err := client.SetPresence(ctx,
		gateway.WithListeningActivity("Twice - "+song),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		return err
	}
	s.logger.Debug("Presence updated", slog.String("song", song))
	return nil
}
