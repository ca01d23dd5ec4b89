package normalize

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SelectLowest returns the indices of the best candidates in ascending score
// order: two when there are more than three candidates, otherwise one. Ties
// keep candidate order.
func SelectLowest(scores []float64) []int {
	if len(scores) == 0 {
		return nil
	}
	k := 1
	if len(scores) > 3 {
		k = 2
	}
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scores[a] < scores[b]:
			return -1
		case scores[a] > scores[b]:
			return 1
		}
		return 0
	})
	return order[:k]
}

// argmin returns the first index holding the lowest score.
func argmin(scores []float64) int {
	best := 0
	for i, s := range scores {
		if s < scores[best] {
			best = i
		}
	}
	return best
}

var markerRe = regexp.MustCompile(`\(\d+\)`)

// clean drops numbered sentence markers such as "(1)".
func clean(text string) string {
	return markerRe.ReplaceAllString(text, "")
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

func replacePlaceholder(query, entity string) string {
	return strings.ReplaceAll(query, "@placeholder", entity)
}
