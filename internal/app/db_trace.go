package app

import (
	"fmt"
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	valuesTupleRegex     = regexp.MustCompile(`\(\$\d+(?:, \$\d+)*\)`)
)

// formatDBQueryForTrace normalizes whitespace and folds multi-row VALUES
// lists so batch upserts show up as one span statement.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := collapseValueTuples(queryWhitespaceRegex.ReplaceAllString(query, " "))
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func collapseValueTuples(query string) string {
	tuples := valuesTupleRegex.FindAllStringIndex(query, -1)
	if len(tuples) < 2 {
		return query
	}

	first, last := tuples[0], tuples[len(tuples)-1]
	return query[:first[1]] + fmt.Sprintf(", ... /* %d rows */", len(tuples)) + query[last[1]:]
}
