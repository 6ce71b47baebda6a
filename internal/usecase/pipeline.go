package usecase

import (
	"context"
	"runtime/debug"
	"strings"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultCategoryConcurrency bounds the categories processed at once per request
const DefaultCategoryConcurrency = 6

// PipelineConfig holds configuration for the matching pipeline
type PipelineConfig struct {
	CategoryConcurrency int
	EnableDebugLogging  bool
}

// Pipeline turns a free-text shopping request into validated products from
// one store's catalog.
type Pipeline struct {
	catalog    domain.CatalogRepository
	guard      *RequestGuard
	proposer   *ProposalGenerator
	aggregator *CandidateAggregator
	validator  *RelevanceValidator

	categoryConcurrency int
	enableDebugLogging  bool
}

// categoryGroup is the merged work unit for one resolved catalog category
type categoryGroup struct {
	category domain.Category
	items    []string
}

// NewPipeline creates a new pipeline with dependencies
func NewPipeline(
	catalog domain.CatalogRepository,
	guard *RequestGuard,
	proposer *ProposalGenerator,
	aggregator *CandidateAggregator,
	validator *RelevanceValidator,
	config PipelineConfig,
) *Pipeline {
	concurrency := config.CategoryConcurrency
	if concurrency <= 0 {
		concurrency = DefaultCategoryConcurrency
	}

	return &Pipeline{
		catalog:             catalog,
		guard:               guard,
		proposer:            proposer,
		aggregator:          aggregator,
		validator:           validator,
		categoryConcurrency: concurrency,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// Categories returns the categories available in a store
func (p *Pipeline) Categories(ctx context.Context, storeID string) ([]domain.Category, error) {
	storeID, err := p.guard.ValidateStoreID(storeID)
	if err != nil {
		return nil, err
	}
	return p.catalog.CategoriesForStore(ctx, storeID)
}

// Propose runs only the proposal stage and returns every proposed category,
// resolved against the store or marked with UnknownCategoryID.
func (p *Pipeline) Propose(ctx context.Context, query, storeID string) ([]domain.GeneratedCategory, error) {
	query, storeID, err := p.validate(query, storeID)
	if err != nil {
		return nil, err
	}

	generated, _ := p.propose(ctx, query, storeID)
	return generated, nil
}

// Match runs the full pipeline.
// Flow: fetch categories -> propose -> per category {resolve -> fetch products ->
// aggregate -> validate -> assemble} -> collect in proposal order.
// Only invalid input is an error; every downstream failure degrades to fewer results.
func (p *Pipeline) Match(ctx context.Context, query, storeID string) (*domain.MatchResponse, error) {
	query, storeID, err := p.validate(query, storeID)
	if err != nil {
		return nil, err
	}

	generated, groups := p.propose(ctx, query, storeID)
	response := domain.EmptyMatchResponse()
	response.AllGeneratedCategories = generated
	if len(groups) == 0 {
		return response, nil
	}

	results := make([]*domain.MatchResult, len(groups))

	var g errgroup.Group
	g.SetLimit(p.categoryConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("[PIPELINE] panic in category %q: %v\n%s", group.category.Name, r, debug.Stack())
				}
			}()
			results[i] = p.processCategory(ctx, group, query, storeID)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		if result != nil {
			response.MatchedProducts = append(response.MatchedProducts, *result)
		}
	}

	log.Infof("[PIPELINE] %q in store %s: %d proposed, %d resolved, %d matched",
		query, storeID, len(generated), len(groups), len(response.MatchedProducts))
	return response, nil
}

func (p *Pipeline) validate(query, storeID string) (string, string, error) {
	query, err := p.guard.ValidateQuery(query)
	if err != nil {
		return "", "", err
	}
	storeID, err = p.guard.ValidateStoreID(storeID)
	if err != nil {
		return "", "", err
	}
	return query, storeID, nil
}

// propose fetches the store categories, asks for a proposal and resolves it.
// Failures are logged and produce empty results.
func (p *Pipeline) propose(ctx context.Context, query, storeID string) ([]domain.GeneratedCategory, []categoryGroup) {
	generated := []domain.GeneratedCategory{}

	categories, err := p.catalog.CategoriesForStore(ctx, storeID)
	if err != nil {
		log.Errorf("[PIPELINE] fetching categories for store %s: %v", storeID, err)
		return generated, nil
	}
	if len(categories) == 0 {
		log.Warnf("[PIPELINE] store %s has no categories", storeID)
		return generated, nil
	}

	proposal, err := p.proposer.Generate(ctx, query, categories)
	if err != nil {
		log.Errorf("[PIPELINE] proposal failed for %q: %v", query, err)
		return generated, nil
	}

	generated, groups := resolveProposal(proposal, categories)
	if p.enableDebugLogging {
		for _, gc := range generated {
			log.Debugf("[PIPELINE] proposed %q -> %s (%d items)", gc.Category.Name, gc.Category.ID, len(gc.Items))
		}
	}
	return generated, groups
}

// resolveProposal maps each proposed label onto a catalog category. Every
// entry is reported; labels that resolve to the same category share one group
// with their items deduplicated, in order of first appearance.
func resolveProposal(proposal domain.Proposal, categories []domain.Category) ([]domain.GeneratedCategory, []categoryGroup) {
	generated := make([]domain.GeneratedCategory, 0, len(proposal.Categories))
	var groups []categoryGroup
	groupIndex := make(map[string]int)
	groupItems := make(map[string]map[string]bool)

	for _, pc := range proposal.Categories {
		category, ok := ResolveCategory(pc.Category, categories)
		if !ok {
			log.Warnf("[PIPELINE] no catalog category matches %q", pc.Category)
			generated = append(generated, domain.GeneratedCategory{Category: UnresolvedCategory(pc.Category), Items: pc.Items})
			continue
		}
		generated = append(generated, domain.GeneratedCategory{Category: category, Items: pc.Items})

		key := category.ID + "\x00" + category.Name
		idx, exists := groupIndex[key]
		if !exists {
			idx = len(groups)
			groupIndex[key] = idx
			groupItems[key] = make(map[string]bool)
			groups = append(groups, categoryGroup{category: category})
		}
		for _, item := range pc.Items {
			norm := strings.ToLower(item)
			if groupItems[key][norm] {
				continue
			}
			groupItems[key][norm] = true
			groups[idx].items = append(groups[idx].items, item)
		}
	}

	return generated, groups
}

// processCategory returns nil when the category has nothing validated to offer
func (p *Pipeline) processCategory(ctx context.Context, group categoryGroup, query, storeID string) *domain.MatchResult {
	if len(group.items) == 0 {
		return nil
	}

	products, err := p.catalog.ProductsForCategory(ctx, group.category.Name, storeID)
	if err != nil {
		log.Errorf("[PIPELINE] fetching products for %q: %v", group.category.Name, err)
		return nil
	}

	candidates := p.aggregator.Aggregate(group.items, products)
	if len(candidates) == 0 {
		if p.enableDebugLogging {
			log.Debugf("[PIPELINE] %q: no candidates among %d products", group.category.Name, len(products))
		}
		return nil
	}

	pairs := make([]domain.ValidationPair, len(candidates))
	for i, c := range candidates {
		pairs[i] = domain.ValidationPair{Item: c.Item, Candidate: c.Product.Name}
	}
	verdicts := p.validator.Validate(ctx, pairs, query, group.category.Name)

	if ctx.Err() != nil {
		return nil
	}

	seen := make(map[string]bool, len(candidates))
	var validated []domain.ShoppingProduct
	for i, c := range candidates {
		if !verdicts[i] {
			continue
		}
		key := productKey(c.Product)
		if seen[key] {
			continue
		}
		seen[key] = true
		validated = append(validated, toShoppingProduct(c.Product))
	}

	if p.enableDebugLogging {
		log.Debugf("[PIPELINE] %q: %d candidates, %d validated", group.category.Name, len(candidates), len(validated))
	}
	if len(validated) == 0 {
		return nil
	}
	return &domain.MatchResult{Category: group.category, Products: validated}
}

func toShoppingProduct(p domain.Product) domain.ShoppingProduct {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return domain.ShoppingProduct{
		ProductID:  p.ID,
		Name:       p.Name,
		Images:     images,
		MRPPrice:   p.MRPPrice,
		OfferPrice: p.OfferPrice,
		Quantity:   domain.DefaultShoppingQuantity,
	}
}
