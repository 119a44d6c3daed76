// Package fuzzy ranks stop names against a rider's query using fuzzywuzzy's
// weighted ratio. Both sides are Unicode case folded first, so "STRASSE" and
// "Straße" score as equal.
package fuzzy

import (
	"sort"
	"strings"
	"unicode"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/cases"
)

// Match is one scored candidate returned by Extract.
type Match struct {
	Index int
	Score int
}

// Process folds case, turns every non-alphanumeric rune into a space and
// collapses runs of spaces.
func Process(s string) string {
	s = cases.Fold().String(s)
	b := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b = append(b, r)
		} else {
			b = append(b, ' ')
		}
	}
	return strings.Join(strings.Fields(string(b)), " ")
}

// WRatio scores a against b on a 0-100 scale. An empty processed string
// scores 0.
func WRatio(a, b string) int {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}
	return fuzzywuzzy.UWRatio(p1, p2)
}

// Extract scores query against every choice with WRatio and returns at most
// limit matches scoring above minScore, best first. Equal scores keep the
// order of choices.
func Extract(query string, choices []string, limit int, minScore float64) []Match {
	if limit <= 0 {
		return nil
	}
	var out []Match
	for i, c := range choices {
		if s := WRatio(query, c); float64(s) > minScore {
			out = append(out, Match{Index: i, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
