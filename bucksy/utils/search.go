package utils

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MaxChoices is the most suggestions Discord accepts for one option.
const MaxChoices = 25

type titles []string

func (t titles) String(i int) string { return t[i] }
func (t titles) Len() int            { return len(t) }

// FuzzyMatch ranks items against query, best match first. An empty query
// returns the first limit items unchanged.
func FuzzyMatch(query string, items []string, limit int) []string {
	if limit <= 0 || limit > MaxChoices {
		limit = MaxChoices
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if len(items) > limit {
			items = items[:limit]
		}
		return append([]string(nil), items...)
	}

	lowered := make(titles, len(items))
	for i, item := range items {
		lowered[i] = strings.ToLower(item)
	}

	matches := fuzzy.FindFrom(query, lowered)
	out := make([]string, 0, min(len(matches), limit))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, items[m.Index])
	}
	return out
}
