package usecase

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// The similarity measures below are pinned so fuzzy scores are reproducible:
// every measure is a Levenshtein ratio over runes, rounded to the nearest integer.

// Ratio returns 100 * (1 - distance/maxLen) for two strings.
// Two empty strings carry no signal and score 0.
func Ratio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

// PartialRatio returns the best Ratio between the shorter string and every
// window of the same length in the longer string.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	if len(short) == len(long) {
		return Ratio(string(short), string(long))
	}

	shortStr := string(short)
	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(shortStr, string(long[i:i+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares two strings after sorting their whitespace tokens,
// so word order does not matter.
func TokenSortRatio(a, b string) int {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
