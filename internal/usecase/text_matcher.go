package usecase

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// Tier scores
const (
	scoreExact         = 100
	scoreAllWords      = 95
	scoreMultiWordBase = 75
	scoreMultiWordSpan = 20
	scoreImage         = 85

	minOverlapRatio   = 0.5
	fuzzySkipScore    = 85 // fuzzy tier only runs below this
	imageSkipScore    = 90 // image tier only runs below this
	minSignificantLen = 3
	optionalPrefix    = "optional:"
)

// DefaultMatchThreshold is used when no threshold is configured
const DefaultMatchThreshold = 65

// genericItemWords never count as significant words of an item
var genericItemWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"pack": true, "box": true, "bottle": true, "jar": true,
	"can": true, "optional": true,
}

// TextMatcherConfig holds configuration for the text matcher
type TextMatcherConfig struct {
	Threshold          int
	EnableDebugLogging bool
}

// TextMatcher scores catalog products against ingredient items
type TextMatcher struct {
	threshold          int
	enableDebugLogging bool
}

// NewTextMatcher creates a text matcher with the given configuration
func NewTextMatcher(config TextMatcherConfig) *TextMatcher {
	threshold := config.Threshold
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultMatchThreshold
	}

	return &TextMatcher{
		threshold:          threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Threshold returns the minimum score a candidate needs
func (m *TextMatcher) Threshold() int {
	return m.threshold
}

// preparedItem is an item normalized once and reused against many products
type preparedItem struct {
	raw         string
	text        string
	significant []string
}

func prepareItem(item string) preparedItem {
	text := strings.ToLower(strings.TrimSpace(item))
	if strings.HasPrefix(text, optionalPrefix) {
		text = strings.TrimSpace(strings.TrimPrefix(text, optionalPrefix))
	}

	var significant []string
	seen := make(map[string]bool)
	for _, word := range words(text) {
		if len([]rune(word)) < minSignificantLen || genericItemWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		significant = append(significant, word)
	}

	return preparedItem{raw: item, text: text, significant: significant}
}

// Score returns the best qualifying score for item against product, the tier
// that produced it, and false when nothing clears the threshold.
func (m *TextMatcher) Score(item string, product domain.Product) (int, domain.MatchSource, bool) {
	return m.score(prepareItem(item), product)
}

func (m *TextMatcher) score(item preparedItem, product domain.Product) (int, domain.MatchSource, bool) {
	name := strings.ToLower(strings.TrimSpace(product.Name))
	if item.text == "" || name == "" {
		return 0, "", false
	}

	best := 0
	var source domain.MatchSource
	consider := func(score int, tier domain.MatchSource) {
		// strictly greater: on ties the cheaper, earlier tier stays
		if score > best {
			best = score
			source = tier
		}
	}

	if strings.Contains(name, item.text) {
		consider(scoreExact, domain.SourceExact)
	}

	if best < scoreExact && len(item.significant) > 0 {
		nameWords := wordSet(name)
		present := 0
		for _, word := range item.significant {
			if nameWords[word] {
				present++
			}
		}

		switch {
		case present == len(item.significant):
			consider(scoreAllWords, domain.SourceAllWords)
		case present > 0:
			overlap := float64(present) / float64(len(item.significant))
			if overlap >= minOverlapRatio {
				consider(scoreMultiWordBase+int(scoreMultiWordSpan*overlap), domain.SourceMultiWord)
			}
		}
	}

	if best < fuzzySkipScore {
		fuzzy := TokenSortRatio(item.text, name)
		if partial := PartialRatio(item.text, name); partial > fuzzy {
			fuzzy = partial
		}
		if fuzzy >= m.threshold {
			consider(fuzzy, domain.SourceFuzzy)
		}
	}

	if best < imageSkipScore {
		for _, image := range product.Images {
			filename := imageFilename(image)
			if filename != "" && strings.Contains(filename, item.text) {
				consider(scoreImage, domain.SourceImage)
				break
			}
		}
	}

	if m.enableDebugLogging && best > 0 {
		log.Debugf("[MATCH] item=%q product=%q score=%d source=%s", item.raw, product.Name, best, source)
	}

	if best < m.threshold {
		return best, source, false
	}
	return best, source, true
}

// imageFilename turns an image reference into matchable text:
// "https://cdn/x/Amul-Ghee_500ml.jpg" -> "amul ghee 500ml"
func imageFilename(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	base = strings.TrimSuffix(base, path.Ext(base))

	replacer := strings.NewReplacer("-", " ", "_", " ", ".", " ")
	return strings.Join(strings.Fields(strings.ToLower(replacer.Replace(base))), " ")
}

// words splits s into lowercase letter/digit runs
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range words(s) {
		set[w] = true
	}
	return set
}
