package wordle

import (
	"strings"
	"testing"
)

func TestSubmissionReply(t *testing.T) {
	player := &Player{
		ID:                 "42",
		LifetimeScore:      30,
		CurrentPeriodScore: 9,
		NextPeriodScore:    4,
		History:            make([]GameResult, 8),
	}

	tests := []struct {
		name string
		sub  Submission
		want string
	}{
		{
			name: "duplicate",
			sub:  Submission{Result: GameResult{RoundIndex: 100}},
			want: "<@42> - Wordle 100 already added.",
		},
		{
			name: "current",
			sub:  Submission{Accepted: true, Delta: 4, Period: PeriodCurrent, Result: GameResult{RoundIndex: 100}, Player: player},
			want: "<@42> - Wordle 100 added (+4 points). You now have **9 points** this week.",
		},
		{
			name: "next",
			sub:  Submission{Accepted: true, Delta: 1, Period: PeriodNext, Result: GameResult{RoundIndex: 108}, Player: player},
			want: "<@42> - Wordle 108 added (+1 point). You now have **4 points** for the next week. You have **9 points** this week.",
		},
		{
			name: "past",
			sub:  Submission{Accepted: true, Delta: 0, Period: PeriodPast, Result: GameResult{RoundIndex: 90}, Player: player},
			want: "<@42> - Wordle 90 added (+0 points). You now have **30 points** over 8 games.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubmissionReply("42", tt.sub); got != tt.want {
				t.Errorf("SubmissionReply() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestFormatLeaderboard(t *testing.T) {
	if got := FormatLeaderboard(nil, FieldCurrentPeriod); got != NoPlayersMessage {
		t.Errorf("FormatLeaderboard(nil) = %q", got)
	}

	standings := []Standing{
		{Rank: 1, PlayerName: "Nayeon", Score: 12, GamesPlayed: 3},
		{Rank: 2, PlayerName: "Jihyo", Score: 1, GamesPlayed: 1},
	}

	weekly := FormatLeaderboard(standings, FieldCurrentPeriod)
	want := "**Wordle Weekly Leaderboard**\n" +
		"1: Nayeon has **12 points** this week over 3 games.\n" +
		"2: Jihyo has **1 point** this week over 1 game."
	if weekly != want {
		t.Errorf("weekly =\n%s\nwant\n%s", weekly, want)
	}

	lifetime := FormatLeaderboard(standings, FieldLifetime)
	if !strings.HasPrefix(lifetime, "**Wordle Leaderboard**\n1: Nayeon has **12 points** over 3 games.") {
		t.Errorf("lifetime = %q", lifetime)
	}
}

func TestFormatWinners(t *testing.T) {
	if got := FormatWinners(nil); got != "" {
		t.Errorf("FormatWinners(nil) = %q", got)
	}
	got := FormatWinners([]Standing{{PlayerName: "Mina", Score: 20}, {PlayerName: "Tzuyu", Score: 20}})
	if want := "🎉 Congrats to Mina, Tzuyu with 20 points! 🎉"; got != want {
		t.Errorf("FormatWinners() = %q, want %q", got, want)
	}
}

func TestFormatMissingRounds(t *testing.T) {
	if got := FormatMissingRounds(nil, ""); got != "You are not missing any games this week." {
		t.Errorf("FormatMissingRounds(nil) = %q", got)
	}
	got := FormatMissingRounds([]int{101, 103}, "https://minactle.herokuapp.com/?%d")
	if !strings.Contains(got, "Wordle 101 - <https://minactle.herokuapp.com/?101>\nWordle 103 - <https://minactle.herokuapp.com/?103>") {
		t.Errorf("FormatMissingRounds() = %q", got)
	}
}

func TestFormatReminders(t *testing.T) {
	if got := FormatReminders(nil, ""); got != "" {
		t.Errorf("FormatReminders(nil) = %q", got)
	}
	got := FormatReminders([]Reminder{{PlayerID: "7", Rounds: []int{100}}}, "")
	if !strings.HasSuffix(got, "<@7>\nWordle 100") {
		t.Errorf("FormatReminders() = %q", got)
	}
}

func TestFormatStats(t *testing.T) {
	tests := []struct {
		name   string
		player *Player
		want   string
	}{
		{
			name:   "no games",
			player: &Player{ID: "1", Name: "Mina"},
			want: "**Mina Wordle Stats**\n" +
				"**X** *(0 games)*: None\n" +
				"**1** *(0 games)*: None\n" +
				"**2** *(0 games)*: None\n" +
				"**3** *(0 games)*: None\n" +
				"**4** *(0 games)*: None\n" +
				"**5** *(0 games)*: None\n" +
				"**6** *(0 games)*: None",
		},
		{
			name: "grouped and sorted",
			player: &Player{ID: "2", Name: "Dahyun", History: []GameResult{
				{RoundIndex: 105, Attempts: 3},
				{RoundIndex: 101, Attempts: FailedAttempts},
				{RoundIndex: 102, Attempts: 3, HardMode: true},
				{RoundIndex: 103, Attempts: 1},
			}},
			want: "**Dahyun Wordle Stats**\n" +
				"**X** *(1 game)*: 101\n" +
				"**1** *(1 game)*: 103\n" +
				"**2** *(0 games)*: None\n" +
				`**3** *(2 games)*: 102\*, 105` + "\n" +
				"**4** *(0 games)*: None\n" +
				"**5** *(0 games)*: None\n" +
				"**6** *(0 games)*: None",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatStats(tt.player); got != tt.want {
				t.Errorf("FormatStats() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFormatStats_KeepsHistoryOrder(t *testing.T) {
	p := &Player{Name: "Jihyo", History: []GameResult{{RoundIndex: 9, Attempts: 2}, {RoundIndex: 3, Attempts: 2}}}
	FormatStats(p)
	if p.History[0].RoundIndex != 9 {
		t.Error("FormatStats() reordered the player's history")
	}
}

func TestNotPlayingMessage(t *testing.T) {
	if got := NotPlayingMessage("42"); got != "<@42> is not playing Wordle." {
		t.Errorf("NotPlayingMessage() = %q", got)
	}
}
