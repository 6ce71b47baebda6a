package usecase

import (
	"sort"
	"strings"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxCandidatesPerItem is used when no per-item cap is configured
const DefaultMaxCandidatesPerItem = 8

// CandidateAggregator runs the text matcher over a category's product pool and
// merges the per-item candidates into one deduplicated list.
type CandidateAggregator struct {
	matcher              *TextMatcher
	maxCandidatesPerItem int
	enableDebugLogging   bool
}

// NewCandidateAggregator creates an aggregator around the given matcher
func NewCandidateAggregator(matcher *TextMatcher, maxCandidatesPerItem int, enableDebugLogging bool) *CandidateAggregator {
	if maxCandidatesPerItem <= 0 {
		maxCandidatesPerItem = DefaultMaxCandidatesPerItem
	}
	return &CandidateAggregator{
		matcher:              matcher,
		maxCandidatesPerItem: maxCandidatesPerItem,
		enableDebugLogging:   enableDebugLogging,
	}
}

// Aggregate returns at most one candidate per product, carrying the highest
// score any item reached for it, sorted by score descending.
func (a *CandidateAggregator) Aggregate(items []string, products []domain.Product) []domain.Candidate {
	if len(items) == 0 || len(products) == 0 {
		return []domain.Candidate{}
	}

	pool := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		pool = append(pool, p)
	}

	var all []domain.Candidate
	for _, item := range items {
		all = append(all, a.candidatesForItem(item, pool)...)
	}

	// Dedup by product identity; the first occurrence keeps its slot on ties
	index := make(map[string]int, len(all))
	deduped := make([]domain.Candidate, 0, len(all))
	for _, c := range all {
		key := productKey(c.Product)
		if i, ok := index[key]; ok {
			if c.Score > deduped[i].Score {
				deduped[i] = c
			}
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, c)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Score > deduped[j].Score
	})

	if a.enableDebugLogging {
		log.Debugf("[AGGREGATE] %d items x %d products -> %d candidates", len(items), len(pool), len(deduped))
	}

	return deduped
}

func (a *CandidateAggregator) candidatesForItem(item string, products []domain.Product) []domain.Candidate {
	prepared := prepareItem(item)
	if prepared.text == "" {
		return nil
	}

	var matches []domain.Candidate
	for _, product := range products {
		score, source, ok := a.matcher.score(prepared, product)
		if !ok {
			continue
		}
		matches = append(matches, domain.Candidate{
			Item:    item,
			Product: product,
			Score:   score,
			Source:  source,
		})
	}

	// Stable: equal scores keep catalog order
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > a.maxCandidatesPerItem {
		matches = matches[:a.maxCandidatesPerItem]
	}
	return matches
}

// productKey identifies a product; catalogs without IDs fall back to the name
func productKey(p domain.Product) string {
	if p.ID != "" {
		return "id:" + p.ID
	}
	return "name:" + strings.ToLower(strings.TrimSpace(p.Name))
}
