package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

// cleanJSONBlock strips a markdown code fence around a JSON answer
func cleanJSONBlock(s string) string {
	s = strings.TrimSpace(s)
	for _, fence := range []string{"```json", "```JSON", "```Json", "```"} {
		if strings.HasPrefix(s, fence) {
			s = strings.TrimPrefix(s, fence)
			break
		}
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} object in s, or "" if none.
// Braces inside string literals are skipped.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// decodeOracleJSON decodes the JSON object embedded in an oracle answer into v.
// Any failure wraps domain.ErrMalformedResponse.
func decodeOracleJSON(text string, v any) error {
	object := extractJSONObject(cleanJSONBlock(text))
	if object == "" {
		return fmt.Errorf("%w: no JSON object in response", domain.ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(object), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
