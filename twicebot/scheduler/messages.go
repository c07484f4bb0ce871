package scheduler

import "strings"

// MaxMessageLength is Discord's content limit for a single message.
const MaxMessageLength = 2000

// SplitMessage breaks content on line boundaries into chunks no longer than
// limit. A single line longer than limit is cut.
func SplitMessage(content string, limit int) []string {
	if content == "" {
		return nil
	}
	if len(content) <= limit {
		return []string{content}
	}

	var (
		chunks []string
		sb     strings.Builder
	)
	flush := func() {
		if sb.Len() > 0 {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
	}

	for _, line := range strings.Split(content, "\n") {
		for len(line) > limit {
			flush()
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if sb.Len() > 0 && sb.Len()+1+len(line) > limit {
			flush()
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
	}
	flush()
	return chunks
}
