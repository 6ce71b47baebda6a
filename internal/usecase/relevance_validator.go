package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultValidationBatchSize is the number of pairs judged per oracle call
	DefaultValidationBatchSize = 20
	// DefaultOracleConcurrency caps simultaneous validation calls across requests
	DefaultOracleConcurrency = 6
)

// RelevanceValidatorConfig tunes batching and oracle concurrency
type RelevanceValidatorConfig struct {
	BatchSize          int
	ContextMaxLength   int
	OracleConcurrency  int
	EnableDebugLogging bool
}

// RelevanceValidator asks the oracle whether candidate products genuinely fulfil
// the requested items. Verdicts are cached per ValidationKey; identical keys
// requested concurrently share a single oracle call.
type RelevanceValidator struct {
	oracle domain.Oracle
	cache  *ValidationCache
	slots  *semaphore.Weighted

	batchSize          int
	contextMaxLength   int
	enableDebugLogging bool

	mu       sync.Mutex
	inflight map[ValidationKey]*pendingVerdict
}

type pendingVerdict struct {
	done    chan struct{}
	verdict bool
	// failed is set when the owner got no answer from the oracle
	failed bool
}

// claim is a key this call is responsible for resolving
type claim struct {
	key     ValidationKey
	pair    domain.ValidationPair
	pending *pendingVerdict
	indices []int
}

// NewRelevanceValidator creates a validator. Zero config values fall back to defaults.
func NewRelevanceValidator(oracle domain.Oracle, cache *ValidationCache, cfg RelevanceValidatorConfig) *RelevanceValidator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultValidationBatchSize
	}
	if cfg.ContextMaxLength <= 0 {
		cfg.ContextMaxLength = DefaultContextMaxLength
	}
	if cfg.OracleConcurrency <= 0 {
		cfg.OracleConcurrency = DefaultOracleConcurrency
	}

	return &RelevanceValidator{
		oracle:             oracle,
		cache:              cache,
		slots:              semaphore.NewWeighted(int64(cfg.OracleConcurrency)),
		batchSize:          cfg.BatchSize,
		contextMaxLength:   cfg.ContextMaxLength,
		enableDebugLogging: cfg.EnableDebugLogging,
		inflight:           make(map[ValidationKey]*pendingVerdict),
	}
}

// Validate returns one verdict per pair, aligned by index. It never fails:
// pairs the oracle could not judge are false.
func (v *RelevanceValidator) Validate(ctx context.Context, pairs []domain.ValidationPair, queryContext, categoryName string) []bool {
	if len(pairs) == 0 {
		return []bool{}
	}
	return v.validate(ctx, pairs, truncateContext(queryContext, v.contextMaxLength), categoryName, true)
}

// validate resolves pairs for an already truncated context. When retryFailed is
// set, keys whose owner got no oracle answer are judged again once while ctx is live.
func (v *RelevanceValidator) validate(ctx context.Context, pairs []domain.ValidationPair, queryContext, categoryName string, retryFailed bool) []bool {
	results := make([]bool, len(pairs))

	type waiter struct {
		index   int
		pending *pendingVerdict
	}

	var (
		claims  []*claim
		waiters []waiter
	)
	owned := make(map[ValidationKey]*claim)

	// Claim every key nobody else is resolving; wait on the rest
	v.mu.Lock()
	for i, pair := range pairs {
		key := NewValidationKey(pair.Item, pair.Candidate, queryContext, v.contextMaxLength)
		if c, ok := owned[key]; ok {
			c.indices = append(c.indices, i)
			continue
		}
		if p, ok := v.inflight[key]; ok {
			waiters = append(waiters, waiter{index: i, pending: p})
			continue
		}
		p := &pendingVerdict{done: make(chan struct{})}
		v.inflight[key] = p
		c := &claim{key: key, pair: pair, pending: p, indices: []int{i}}
		owned[key] = c
		claims = append(claims, c)
	}
	v.mu.Unlock()

	// Owners settle before the in-flight entry is dropped, so a miss here
	// after claiming really means nobody has judged this key yet.
	novel := make([]*claim, 0, len(claims))
	for _, c := range claims {
		if verdict, ok := v.cache.Get(ctx, c.key); ok {
			v.release(c, verdict, false)
			continue
		}
		novel = append(novel, c)
	}

	if v.enableDebugLogging {
		log.Debugf("[VALIDATE] %s: %d pairs, %d cached, %d waiting, %d novel",
			categoryName, len(pairs), len(claims)-len(novel), len(waiters), len(novel))
	}

	var g errgroup.Group
	for start := 0; start < len(novel); start += v.batchSize {
		end := start + v.batchSize
		if end > len(novel) {
			end = len(novel)
		}
		batch := novel[start:end]

		g.Go(func() error {
			v.runBatch(ctx, batch, queryContext, categoryName)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range claims {
		for _, i := range c.indices {
			results[i] = c.pending.verdict
		}
	}

	var retry []int
	for _, w := range waiters {
		select {
		case <-w.pending.done:
			if w.pending.failed && retryFailed && ctx.Err() == nil {
				retry = append(retry, w.index)
				continue
			}
			results[w.index] = w.pending.verdict
		case <-ctx.Done():
			results[w.index] = false
		}
	}

	if len(retry) > 0 {
		if v.enableDebugLogging {
			log.Debugf("[VALIDATE] %s: re-judging %d pairs left unanswered by another request", categoryName, len(retry))
		}
		again := make([]domain.ValidationPair, len(retry))
		for i, idx := range retry {
			again[i] = pairs[idx]
		}
		for i, verdict := range v.validate(ctx, again, queryContext, categoryName, false) {
			results[retry[i]] = verdict
		}
	}

	return results
}

// runBatch judges one batch and settles every claim in it, whatever happens
func (v *RelevanceValidator) runBatch(ctx context.Context, batch []*claim, queryContext, categoryName string) {
	settled := 0
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[VALIDATE] panic validating %s batch: %v", categoryName, r)
		}
		for _, c := range batch[settled:] {
			v.release(c, false, true)
		}
	}()

	verdicts, cacheable := v.judge(ctx, batch, queryContext, categoryName)
	for i, c := range batch {
		if cacheable {
			v.cache.Set(ctx, c.key, verdicts[i])
		}
		v.release(c, verdicts[i], !cacheable)
		settled++
	}
}

// judge makes the oracle call for one batch. The second result reports whether
// the verdicts came from an actual answer and may be cached.
func (v *RelevanceValidator) judge(ctx context.Context, batch []*claim, queryContext, categoryName string) ([]bool, bool) {
	rejected := make([]bool, len(batch))

	if err := v.slots.Acquire(ctx, 1); err != nil {
		return rejected, false
	}
	defer v.slots.Release(1)

	pairs := make([]domain.ValidationPair, len(batch))
	for i, c := range batch {
		pairs[i] = c.pair
	}

	text, err := v.oracle.Complete(ctx, domain.CompletionRequest{
		Prompt:  buildValidationPrompt(pairs, queryContext, categoryName),
		Purpose: "validation",
	})
	if err != nil {
		log.Warnf("[VALIDATE] oracle failed for %s batch of %d: %v", categoryName, len(batch), err)
		return rejected, false
	}

	verdicts, resolved := ParseVerdicts(text, len(batch))
	if resolved < len(batch) {
		log.Warnf("[VALIDATE] %s: only %d of %d verdicts parsed, rest rejected", categoryName, resolved, len(batch))
	}
	return verdicts, true
}

// release publishes the verdict to waiters and drops the in-flight entry
func (v *RelevanceValidator) release(c *claim, verdict, failed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.inflight[c.key] != c.pending {
		return
	}
	c.pending.verdict = verdict
	c.pending.failed = failed
	close(c.pending.done)
	delete(v.inflight, c.key)
}

func buildValidationPrompt(pairs []domain.ValidationPair, queryContext, categoryName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a strict culinary expert. The shopper asked for: %q\n", queryContext)
	fmt.Fprintf(&b, "Store category: %q\n\n", categoryName)
	b.WriteString("For every numbered pair decide whether the product is a genuine, real-world way to buy the ingredient for this request.\n\n")
	b.WriteString("Answer YES only when the product is the ingredient itself or a brand or pack-size variant of it ")
	b.WriteString("(ghee -> \"Amul Ghee 500ml\", basmati rice -> \"India Gate Basmati Rice 5kg\").\n\n")
	b.WriteString("Answer NO when:\n")
	b.WriteString("- the product is a tool, appliance, utensil or accessory while an ingredient was requested (rice -> \"Rice Cooker\")\n")
	b.WriteString("- the product is a processed or ready-made form of a raw ingredient, or the reverse (tomato -> \"Tomato Ketchup\")\n")
	b.WriteString("- the product belongs to a different cuisine family than the request\n")
	b.WriteString("- the product only shares a word or a flavour with the ingredient\n")
	b.WriteString("- you have any doubt\n\n")
	b.WriteString("Pairs:\n")
	for i, p := range pairs {
		fmt.Fprintf(&b, "%d. ingredient: %q -> product: %q\n", i+1, p.Item, p.Candidate)
	}
	b.WriteString("\nRespond ONLY with one entry per pair in this exact format and nothing else:\n")
	b.WriteString("1:YES, 2:NO, 3:YES\n")

	return b.String()
}
