package app

import (
	"regexp"
	"strings"
)

// Long INSERTs (multi-row pack grants, stat ingests) would bloat span
// payloads, so traced statements are collapsed and capped.
const maxTracedQueryLength = 512

var queryWhitespacePattern = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return trimmed
	}

	collapsed := queryWhitespacePattern.ReplaceAllString(trimmed, " ")
	if len(collapsed) > maxTracedQueryLength {
		return collapsed[:maxTracedQueryLength] + "..."
	}
	return collapsed
}
