package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Separators between verdict tokens: "1:YES, 2:NO\n3:YES; 4:NO"
	verdictSeparators = regexp.MustCompile(`[,;\n\r]+`)

	// One "index:decision" token, tolerating list markers and trailing text
	verdictToken = regexp.MustCompile(`^\W*(\d+)\s*[:=.)\-]\s*([A-Za-z]+)`)
)

// ParseVerdicts reads an "index:YES / index:NO" answer for n numbered pairs.
// Indices are 1-based in the text and 0-based in the result. Anything absent,
// malformed, out of range, not exactly YES or NO, or answered both ways is false.
// The second return value counts pairs that got a usable decision.
func ParseVerdicts(text string, n int) ([]bool, int) {
	verdicts := make([]bool, n)
	if n <= 0 {
		return verdicts, 0
	}

	decided := make(map[int]bool, n)
	conflicted := make(map[int]bool)

	for _, token := range verdictSeparators.Split(text, -1) {
		m := verdictToken.FindStringSubmatch(strings.TrimSpace(token))
		if m == nil {
			continue
		}

		idx, err := strconv.Atoi(m[1])
		if err != nil || idx < 1 || idx > n {
			continue
		}
		idx--

		var decision bool
		switch strings.ToUpper(m[2]) {
		case "YES":
			decision = true
		case "NO":
			decision = false
		default:
			continue
		}

		if prev, ok := decided[idx]; ok && prev != decision {
			conflicted[idx] = true
		}
		decided[idx] = decision
	}

	resolved := 0
	for idx, decision := range decided {
		if conflicted[idx] {
			continue
		}
		verdicts[idx] = decision
		resolved++
	}
	return verdicts, resolved
}
