package wordle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var DefaultGameNames = []string{"Wordle", "Minactle"}

// Parser recognises shared results such as "Wordle 1,234 3/6*".
type Parser struct {
	re *regexp.Regexp
}

func NewParser(gameNames ...string) (*Parser, error) {
	if len(gameNames) == 0 {
		gameNames = DefaultGameNames
	}

	quoted := make([]string, 0, len(gameNames))
	for _, name := range gameNames {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("game name cannot be empty")
		}
		quoted = append(quoted, regexp.QuoteMeta(name))
	}

	pattern := fmt.Sprintf(`^(?:%s) (?P<round>\d{1,3}(?:[,.]\d{3})+|\d+) (?P<attempts>[X1-%d])/%d(?P<hard>\*?)$`,
		strings.Join(quoted, "|"), MaxAttempts, MaxAttempts)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile result grammar: %w", err)
	}
	return &Parser{re: re}, nil
}

// MustNewParser panics on a bad game name list; for package-level defaults.
func MustNewParser(gameNames ...string) *Parser {
	p, err := NewParser(gameNames...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse returns false when the line is not a result.
func (p *Parser) Parse(line string) (GameResult, bool) {
	m := p.re.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return GameResult{}, false
	}

	digits := strings.NewReplacer(",", "", ".", "").Replace(m[p.re.SubexpIndex("round")])
	round, err := strconv.Atoi(digits)
	if err != nil {
		return GameResult{}, false
	}

	attempts := FailedAttempts
	if a := m[p.re.SubexpIndex("attempts")]; a != "X" {
		attempts = int(a[0] - '0')
	}

	return GameResult{
		RoundIndex: round,
		Attempts:   attempts,
		HardMode:   m[p.re.SubexpIndex("hard")] == "*",
	}, true
}

// ParseMessage only looks at the first line, the emoji grid that follows is ignored.
func (p *Parser) ParseMessage(content string) (GameResult, bool) {
	firstLine, _, _ := strings.Cut(content, "\n")
	return p.Parse(strings.TrimSuffix(firstLine, "\r"))
}
