package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/twicebot/config"
)

//go:embed templates/leaderboard.html
var leaderboardTemplate string

var leaderboardTmpl = template.Must(template.New("leaderboard").Parse(leaderboardTemplate))

type LeaderboardData struct {
	Title      string
	FirstRound int
	LastRound  int
	Timestamp  string
	Standings  []wordle.Standing
}

// LeaderboardImageService renders period standings to PNG with headless Chrome.
type LeaderboardImageService struct {
	logger *slog.Logger
}

func NewLeaderboardImageService() *LeaderboardImageService {
	return &LeaderboardImageService{
		logger: slog.With(slog.String("service", "leaderboard_image")),
	}
}

func RenderLeaderboardHTML(data LeaderboardData) (string, error) {
	var buf bytes.Buffer
	if err := leaderboardTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (s *LeaderboardImageService) Generate(ctx context.Context, data LeaderboardData) ([]byte, error) {
	if len(data.Standings) == 0 {
		return nil, errors.New("no standings to render")
	}
	if len(data.Standings) > config.LeaderboardImageTop {
		data.Standings = data.Standings[:config.LeaderboardImageTop]
	}
	if data.Timestamp == "" {
		data.Timestamp = time.Now().Format("2006-01-02")
	}

	start := time.Now()
	html, err := RenderLeaderboardHTML(data)
	if err != nil {
		return nil, err
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, config.ImageRenderTimeout)
	defer cancel()

	var image []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html;base64,"+base64.StdEncoding.EncodeToString([]byte(html))),
		chromedp.WaitVisible("#leaderboard-container", chromedp.ByID),
		chromedp.Screenshot("#leaderboard-container", &image, chromedp.ByID),
	)
	if err != nil {
		s.logger.Error("Failed to render leaderboard image",
			slog.String("type", "error"),
			slog.Any("error", err),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	s.logger.Info("Leaderboard image generated",
		slog.Int("standings", len(data.Standings)),
		slog.Int("image_size", len(image)),
		slog.Duration("elapsed", time.Since(start)))
	return image, nil
}
