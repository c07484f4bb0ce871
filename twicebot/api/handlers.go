package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database/repositories"
	"github.com/twicebot/twicebot/twicebot/config"
)

type standingResponse struct {
	Rank        int    `json:"rank"`
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	Score       int    `json:"score"`
	GamesPlayed int    `json:"games_played"`
}

type leaderboardResponse struct {
	Scope       string             `json:"scope"`
	PeriodStart int                `json:"period_start"`
	Current     int                `json:"current_round"`
	Standings   []standingResponse `json:"standings"`
}

func (s *Server) health(c *fiber.Ctx) error {
	meta := s.wordle.Meta()
	return SendSuccess(c, fiber.Map{
		"status":        "healthy",
		"version":       s.version,
		"current_round": meta.CurrentRoundIndex,
		"period_start":  meta.PeriodStartRoundIndex,
	})
}

func parseScope(scope string) (wordle.ScoreField, bool) {
	switch scope {
	case "", "weekly":
		return wordle.FieldCurrentPeriod, true
	case "lifetime":
		return wordle.FieldLifetime, true
	default:
		return 0, false
	}
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	scope := c.Query("scope")
	field, ok := parseScope(scope)
	if !ok {
		return SendBadRequest(c, "scope must be weekly or lifetime")
	}

	standings, err := s.wordle.Leaderboard(c.UserContext(), field)
	if err != nil {
		return SendInternalServerError(c, "failed to load leaderboard")
	}

	out := make([]standingResponse, 0, len(standings))
	for _, st := range standings {
		out = append(out, standingResponse{
			Rank:        st.Rank,
			PlayerID:    st.PlayerID,
			PlayerName:  st.PlayerName,
			Score:       st.Score,
			GamesPlayed: st.GamesPlayed,
		})
	}

	meta := s.wordle.Meta()
	if scope == "" {
		scope = "weekly"
	}
	return SendSuccess(c, leaderboardResponse{
		Scope:       scope,
		PeriodStart: meta.PeriodStartRoundIndex,
		Current:     meta.CurrentRoundIndex,
		Standings:   out,
	})
}

func (s *Server) missingRounds(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return SendBadRequest(c, "player id must be a discord user id")
	}

	rounds, err := s.wordle.MissingRounds(c.UserContext(), id)
	if err != nil {
		return SendInternalServerError(c, "failed to load player")
	}
	if rounds == nil {
		rounds = []int{}
	}
	return SendSuccess(c, fiber.Map{"player_id": id, "missing": rounds})
}

func (s *Server) recentSnapshots(c *fiber.Ctx) error {
	if s.snapshots == nil {
		return SendUnavailable(c, "weekly archive is not configured")
	}

	limit := c.QueryInt("limit", config.RecentWinnersLimit)
	if limit <= 0 || limit > 50 {
		return SendBadRequest(c, "limit must be between 1 and 50")
	}

	snapshots, err := s.snapshots.Recent(c.UserContext(), limit)
	if err != nil {
		return SendInternalServerError(c, "failed to load snapshots")
	}
	return SendSuccess(c, snapshots)
}

func (s *Server) snapshot(c *fiber.Ctx) error {
	if s.snapshots == nil {
		return SendUnavailable(c, "weekly archive is not configured")
	}

	periodStart, err := c.ParamsInt("periodStart")
	if err != nil {
		return SendBadRequest(c, "periodStart must be a round number")
	}

	snap, err := s.snapshots.GetByPeriodStart(c.UserContext(), periodStart)
	if err != nil {
		if repositories.IsNotFound(err) {
			return SendNotFound(c, "no archived week starts at that round")
		}
		return SendInternalServerError(c, "failed to load snapshot")
	}
	return SendSuccess(c, snap)
}
