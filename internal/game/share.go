package game

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// ShareText renders the copyable summary of a finished round: a title line,
// the score with thousands separators and a truncated percentage, a blank
// line, then one tier line per question that has a result.
func ShareText(results map[int]Result, questions []Question, total, maxScore int, date string) string {
	pct := 0
	if maxScore > 0 {
		pct = int(float64(total) / float64(maxScore) * 100)
	}

	lines := []string{
		"Daily Draft NFL Trivia " + date,
		printer.Sprintf("Score: %d/%d (%d%%)", total, maxScore, pct),
		"",
	}
	for i := range questions {
		r, ok := results[i]
		if !ok {
			continue
		}
		tier := r.Tier
		if tier == "" {
			tier = TierNone
		}
		lines = append(lines, string(tier))
	}
	return strings.Join(lines, "\n")
}
