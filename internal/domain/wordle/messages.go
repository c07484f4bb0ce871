package wordle

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const NoPlayersMessage = "No players yet."

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func mention(id string) string {
	return "<@" + id + ">"
}

// SubmissionReply is the channel reply for a parsed result.
func SubmissionReply(playerID string, sub Submission) string {
	round := sub.Result.RoundIndex
	if !sub.Accepted {
		return fmt.Sprintf("%s - Wordle %d already added.", mention(playerID), round)
	}

	p := sub.Player
	added := fmt.Sprintf("%s - Wordle %d added (+%s).", mention(playerID), round, plural(sub.Delta, "point"))

	switch sub.Period {
	case PeriodCurrent:
		return fmt.Sprintf("%s You now have **%s** this week.", added, plural(p.CurrentPeriodScore, "point"))
	case PeriodNext:
		return fmt.Sprintf("%s You now have **%s** for the next week. You have **%s** this week.",
			added, plural(p.NextPeriodScore, "point"), plural(p.CurrentPeriodScore, "point"))
	default:
		return fmt.Sprintf("%s You now have **%s** over %s.",
			added, plural(p.LifetimeScore, "point"), plural(len(p.History), "game"))
	}
}

func FormatLeaderboard(standings []Standing, field ScoreField) string {
	if len(standings) == 0 {
		return NoPlayersMessage
	}

	var sb strings.Builder
	if field == FieldLifetime {
		sb.WriteString("**Wordle Leaderboard**")
	} else {
		sb.WriteString("**Wordle Weekly Leaderboard**")
	}
	for _, line := range LeaderboardLines(standings, field) {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	return sb.String()
}

func LeaderboardLines(standings []Standing, field ScoreField) []string {
	lines := make([]string, 0, len(standings))
	for _, s := range standings {
		if field == FieldLifetime {
			lines = append(lines, fmt.Sprintf("%d: %s has **%s** over %s.",
				s.Rank, s.PlayerName, plural(s.Score, "point"), plural(s.GamesPlayed, "game")))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d: %s has **%s** this week over %s.",
			s.Rank, s.PlayerName, plural(s.Score, "point"), plural(s.GamesPlayed, "game")))
	}
	return lines
}

// FormatWinners returns an empty string when nobody played.
func FormatWinners(winners []Standing) string {
	if len(winners) == 0 {
		return ""
	}
	names := make([]string, 0, len(winners))
	for _, w := range winners {
		names = append(names, w.PlayerName)
	}
	return fmt.Sprintf("🎉 Congrats to %s with %s! 🎉", strings.Join(names, ", "), plural(winners[0].Score, "point"))
}

// RoundLink renders a round using a link template containing "%d".
func RoundLink(round int, linkTemplate string) string {
	if linkTemplate == "" {
		return fmt.Sprintf("Wordle %d", round)
	}
	return fmt.Sprintf("Wordle %d - <%s>", round, fmt.Sprintf(linkTemplate, round))
}

func FormatMissingRounds(rounds []int, linkTemplate string) string {
	if len(rounds) == 0 {
		return "You are not missing any games this week."
	}
	lines := make([]string, 0, len(rounds))
	for _, r := range rounds {
		lines = append(lines, RoundLink(r, linkTemplate))
	}
	return "**Wordle Weekly Missing Games**\nYou are currently missing the following games this week.\n" +
		strings.Join(lines, "\n")
}

// FormatReminders returns an empty string when nobody is missing anything.
func FormatReminders(reminders []Reminder, linkTemplate string) string {
	if len(reminders) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(reminders))
	for _, r := range reminders {
		lines := []string{mention(r.PlayerID)}
		for _, round := range r.Rounds {
			lines = append(lines, RoundLink(round, linkTemplate))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}
	return "**Wordle Weekly Reminder**\nYou have 12 hours to submit these missing games before weekly scores are calculated.\n\n" +
		strings.Join(blocks, "\n\n")
}

func NotPlayingMessage(playerID string) string {
	return mention(playerID) + " is not playing Wordle."
}

// FormatStats lists a player's rounds grouped by attempts, failed rounds
// first. Hard mode rounds carry an escaped asterisk.
func FormatStats(p *Player) string {
	history := slices.Clone(p.History)
	slices.SortFunc(history, func(a, b GameResult) int {
		return cmp.Compare(a.RoundIndex, b.RoundIndex)
	})

	lines := []string{fmt.Sprintf("**%s Wordle Stats**", p.Name)}
	for attempts := 0; attempts <= MaxAttempts; attempts++ {
		label := strconv.Itoa(attempts)
		if attempts == 0 {
			label = "X"
		}

		var rounds []string
		for _, r := range history {
			if (attempts == 0 && r.Failed()) || (!r.Failed() && r.Attempts == attempts) {
				round := strconv.Itoa(r.RoundIndex)
				if r.HardMode {
					round += `\*`
				}
				rounds = append(rounds, round)
			}
		}

		list := "None"
		if len(rounds) > 0 {
			list = strings.Join(rounds, ", ")
		}
		lines = append(lines, fmt.Sprintf("**%s** *(%s)*: %s", label, plural(len(rounds), "game"), list))
	}
	return strings.Join(lines, "\n")
}
