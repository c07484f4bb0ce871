package wordle

import "fmt"

type Period int

const (
	PeriodPast Period = iota
	PeriodCurrent
	PeriodNext
)

func (p Period) String() string {
	switch p {
	case PeriodCurrent:
		return "current"
	case PeriodNext:
		return "next"
	default:
		return "past"
	}
}

// ScoringPolicy maps results to points. Points[i] is awarded for i+1 attempts,
// the last entry is the failure score.
type ScoringPolicy struct {
	Points        []int
	HardModeBonus int
	WindowSize    int
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Points: []int{
			6, // 1 attempt
			5, // 2 attempts
			4, // 3 attempts
			3, // 4 attempts
			2, // 5 attempts
			1, // 6 attempts
			0, // failed
		},
		HardModeBonus: 1,
		WindowSize:    7,
	}
}

func (p ScoringPolicy) Validate() error {
	if len(p.Points) != FailedAttempts {
		return &InvalidPolicyError{Reason: fmt.Sprintf("expected %d point entries, got %d", FailedAttempts, len(p.Points))}
	}
	for i, pts := range p.Points {
		if pts < 0 {
			return &InvalidPolicyError{Reason: fmt.Sprintf("negative points for %d attempts", i+1)}
		}
		if i > 0 && pts > p.Points[i-1] {
			return &InvalidPolicyError{Reason: "points must not increase with attempts"}
		}
	}
	if p.Points[FailedAttempts-1] != 0 {
		return &InvalidPolicyError{Reason: "failed rounds must score zero"}
	}
	if p.HardModeBonus < 0 {
		return &InvalidPolicyError{Reason: "hard mode bonus must not be negative"}
	}
	if p.WindowSize <= 0 {
		return &InvalidPolicyError{Reason: "window size must be positive"}
	}
	return nil
}

// Score never awards the hard mode bonus on a failed round.
func (p ScoringPolicy) Score(attempts int, hardMode bool) int {
	if attempts < 1 || attempts >= FailedAttempts {
		return 0
	}
	score := p.Points[attempts-1]
	if hardMode {
		score += p.HardModeBonus
	}
	return score
}

func (p ScoringPolicy) ScoreResult(r GameResult) int {
	return p.Score(r.Attempts, r.HardMode)
}

func ClassifyPeriod(roundIndex, periodStart, windowSize int) Period {
	switch {
	case roundIndex < periodStart:
		return PeriodPast
	case roundIndex < periodStart+windowSize:
		return PeriodCurrent
	default:
		return PeriodNext
	}
}

// Classify uses the policy window.
func (p ScoringPolicy) Classify(roundIndex int, meta PeriodMeta) Period {
	return ClassifyPeriod(roundIndex, meta.PeriodStartRoundIndex, p.WindowSize)
}

// LastAcceptedRound is the highest round a submission may carry under meta.
func (p ScoringPolicy) LastAcceptedRound(meta PeriodMeta) int {
	return meta.PeriodStartRoundIndex + 2*p.WindowSize - 1
}
