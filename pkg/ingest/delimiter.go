package ingest

import "strings"

// Candidate delimiters in priority order. On a tie the earliest wins.
var delimiterCandidates = []string{",", ";", "\t"}

// DetectDelimiter inspects the first line with non-whitespace content and
// returns the candidate delimiter with the highest count outside quoted
// spans. A blank file yields the default ",".
func DetectDelimiter(text string) string {
	line := firstNonBlankLine(text)

	best := delimiterCandidates[0]
	bestCount := -1
	for _, candidate := range delimiterCandidates {
		if count := countUnquoted(line, candidate[0]); count > bestCount {
			bestCount = count
			best = candidate
		}
	}
	return best
}

func firstNonBlankLine(text string) string {
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// countUnquoted counts occurrences of delim outside double-quoted spans,
// using the same quote rules as the tokenizer: a quote toggles quoted
// state unless it is the first half of an escaped "" pair.
func countUnquoted(line string, delim byte) int {
	count := 0
	inQuotes := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				i++
				continue
			}
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes && c == delim {
			count++
		}
	}
	return count
}
