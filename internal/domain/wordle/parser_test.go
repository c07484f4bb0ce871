package wordle

import (
	"reflect"
	"testing"
)

func TestParser_Parse(t *testing.T) {
	p := MustNewParser()

	tests := []struct {
		name   string
		line   string
		want   GameResult
		wantOK bool
	}{
		{name: "plain", line: "Wordle 100 3/6", want: GameResult{RoundIndex: 100, Attempts: 3}, wantOK: true},
		{name: "hard mode", line: "Wordle 250 2/6*", want: GameResult{RoundIndex: 250, Attempts: 2, HardMode: true}, wantOK: true},
		{name: "failed", line: "Wordle 251 X/6", want: GameResult{RoundIndex: 251, Attempts: FailedAttempts}, wantOK: true},
		{name: "failed hard mode", line: "Wordle 251 X/6*", want: GameResult{RoundIndex: 251, Attempts: FailedAttempts, HardMode: true}, wantOK: true},
		{name: "alternate game name", line: "Minactle 12 6/6", want: GameResult{RoundIndex: 12, Attempts: 6}, wantOK: true},
		{name: "thousands separator", line: "Wordle 1,234 4/6", want: GameResult{RoundIndex: 1234, Attempts: 4}, wantOK: true},
		{name: "dot separator", line: "Wordle 1.234 4/6", want: GameResult{RoundIndex: 1234, Attempts: 4}, wantOK: true},
		{name: "surrounding whitespace", line: "  Wordle 100 1/6  ", want: GameResult{RoundIndex: 100, Attempts: 1}, wantOK: true},
		{name: "chat", line: "did anyone get today's?", wantOK: false},
		{name: "seven attempts", line: "Wordle 100 7/6", wantOK: false},
		{name: "zero attempts", line: "Wordle 100 0/6", wantOK: false},
		{name: "pipe is not an attempt", line: "Wordle 100 |/6", wantOK: false},
		{name: "wrong max", line: "Wordle 100 3/5", wantOK: false},
		{name: "unknown game", line: "Nerdle 100 3/6", wantOK: false},
		{name: "trailing text", line: "Wordle 100 3/6 nice", wantOK: false},
		{name: "bad separator grouping", line: "Wordle 1,23 3/6", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.Parse(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParser_ParseMessage(t *testing.T) {
	p := MustNewParser()

	got, ok := p.ParseMessage("Wordle 321 5/6*\r\n\n⬛🟨⬛⬛⬛\n🟩🟩🟩🟩🟩")
	if !ok {
		t.Fatal("ParseMessage() did not match a shared result")
	}
	want := GameResult{RoundIndex: 321, Attempts: 5, HardMode: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseMessage() = %+v, want %+v", got, want)
	}

	if _, ok := p.ParseMessage("hello\nWordle 321 5/6"); ok {
		t.Error("ParseMessage() matched a result that was not on the first line")
	}
}

func TestNewParser_CustomNames(t *testing.T) {
	p, err := NewParser("Twicele")
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}
	if _, ok := p.Parse("Twicele 9 1/6"); !ok {
		t.Error("custom game name not matched")
	}
	if _, ok := p.Parse("Wordle 9 1/6"); ok {
		t.Error("default game name matched a custom parser")
	}

	if _, err := NewParser(" "); err == nil {
		t.Error("NewParser() accepted an empty game name")
	}
}

func TestGameResult_AttemptsLabel(t *testing.T) {
	if got := (GameResult{Attempts: 4}).AttemptsLabel(); got != "4" {
		t.Errorf("AttemptsLabel() = %q, want %q", got, "4")
	}
	if got := (GameResult{Attempts: FailedAttempts}).AttemptsLabel(); got != "X" {
		t.Errorf("AttemptsLabel() = %q, want %q", got, "X")
	}
}
