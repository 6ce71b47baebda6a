package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// DefaultContextMaxLength bounds the query context kept in cache keys and prompts
const DefaultContextMaxLength = 200

const validationKeyPrefix = "relevance:"

// ValidationKey identifies one relevance verdict
type ValidationKey struct {
	Item      string
	Candidate string
	Context   string
}

// NewValidationKey normalizes the three key parts: trimmed, lowercased and,
// for the query context, truncated to maxContext runes.
func NewValidationKey(item, candidate, queryContext string, maxContext int) ValidationKey {
	return ValidationKey{
		Item:      strings.ToLower(strings.TrimSpace(item)),
		Candidate: strings.ToLower(strings.TrimSpace(candidate)),
		Context:   strings.ToLower(truncateContext(queryContext, maxContext)),
	}
}

// String is the storage key; \x1f cannot appear in user-visible text
func (k ValidationKey) String() string {
	return validationKeyPrefix + k.Item + "\x1f" + k.Candidate + "\x1f" + k.Context
}

func truncateContext(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	if maxRunes <= 0 {
		maxRunes = DefaultContextMaxLength
	}
	r := []rune(s)
	if len(r) > maxRunes {
		return strings.TrimSpace(string(r[:maxRunes]))
	}
	return s
}

// ValidationCache stores relevance verdicts in a CacheRepository
type ValidationCache struct {
	repo domain.CacheRepository
	ttl  time.Duration
}

// NewValidationCache wraps repo; ttl applies to every stored verdict
func NewValidationCache(repo domain.CacheRepository, ttl time.Duration) *ValidationCache {
	if ttl <= 0 {
		ttl = 720 * time.Hour // Default 30 days
	}
	return &ValidationCache{repo: repo, ttl: ttl}
}

// Get returns the cached verdict and whether one was found
func (c *ValidationCache) Get(ctx context.Context, key ValidationKey) (bool, bool) {
	value, err := c.repo.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warnf("[VALIDATE] cache read failed: %v", err)
		}
		return false, false
	}

	verdict, ok := value.(bool)
	if !ok {
		return false, false
	}
	return verdict, true
}

// Set stores a verdict. Write failures are logged and otherwise ignored.
func (c *ValidationCache) Set(ctx context.Context, key ValidationKey, verdict bool) {
	if err := c.repo.Set(ctx, key.String(), verdict, c.ttl); err != nil {
		log.Warnf("[VALIDATE] cache write failed: %v", err)
	}
}
