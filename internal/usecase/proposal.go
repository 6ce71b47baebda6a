package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cartwise/backend/internal/domain"
	"github.com/cartwise/backend/internal/retry"
	log "github.com/sirupsen/logrus"
)

// Proposal limits applied before anything reaches the matcher
const (
	MaxProposedCategories = 10
	MaxItemsPerCategory   = 20
	MaxItemLength         = 100

	// DefaultProposalAttempts is the total number of proposal calls per query
	DefaultProposalAttempts = 3
)

// ProposalGenerator asks the oracle for a {category -> items} plan restricted
// to a store's categories.
type ProposalGenerator struct {
	oracle             domain.Oracle
	policy             retry.Policy
	enableDebugLogging bool
}

// NewProposalGenerator creates a generator that makes up to attempts oracle calls
func NewProposalGenerator(oracle domain.Oracle, attempts int, enableDebugLogging bool) *ProposalGenerator {
	if attempts <= 0 {
		attempts = DefaultProposalAttempts
	}
	return &ProposalGenerator{
		oracle: oracle,
		policy: retry.Policy{
			MaxAttempts:     attempts,
			InitialInterval: 250 * time.Millisecond,
			Retryable:       isRetryableOracleError,
		},
		enableDebugLogging: enableDebugLogging,
	}
}

func isRetryableOracleError(err error) bool {
	return errors.Is(err, domain.ErrMalformedResponse) || errors.Is(err, domain.ErrOracleUnavailable)
}

// Generate returns a sanitized proposal. The error wraps ErrMalformedResponse or
// ErrOracleUnavailable once every attempt has failed.
func (g *ProposalGenerator) Generate(ctx context.Context, query string, categories []domain.Category) (domain.Proposal, error) {
	prompt := buildProposalPrompt(query, categories)

	return retry.Do(ctx, g.policy, func(ctx context.Context, attempt int) (domain.Proposal, error) {
		text, err := g.oracle.Complete(ctx, domain.CompletionRequest{
			Prompt:   prompt,
			JSONMode: true,
			Purpose:  "proposal",
		})
		if err != nil {
			log.Warnf("[PROPOSAL] attempt %d failed: %v", attempt, err)
			return domain.Proposal{}, err
		}

		proposal, err := parseProposal(text)
		if err != nil {
			log.Warnf("[PROPOSAL] attempt %d returned unusable JSON: %v", attempt, err)
			return domain.Proposal{}, err
		}

		if g.enableDebugLogging {
			log.Debugf("[PROPOSAL] %q -> %d categories on attempt %d", query, len(proposal.Categories), attempt)
		}
		return proposal, nil
	})
}

// rawProposal keeps "categories" as a pointer so a missing key is distinguishable
type rawProposal struct {
	Categories *[]domain.ProposedCategory `json:"categories"`
}

func parseProposal(text string) (domain.Proposal, error) {
	var raw rawProposal
	if err := decodeOracleJSON(text, &raw); err != nil {
		return domain.Proposal{}, err
	}
	if raw.Categories == nil {
		return domain.Proposal{}, fmt.Errorf("%w: missing \"categories\"", domain.ErrMalformedResponse)
	}
	return SanitizeProposal(domain.Proposal{Categories: *raw.Categories}), nil
}

// SanitizeProposal trims labels and items, drops empty or over-long items and
// caps the number of categories and items per category.
func SanitizeProposal(p domain.Proposal) domain.Proposal {
	out := domain.Proposal{Categories: make([]domain.ProposedCategory, 0, len(p.Categories))}

	for _, pc := range p.Categories {
		if len(out.Categories) == MaxProposedCategories {
			break
		}

		label := strings.TrimSpace(pc.Category)
		if label == "" {
			continue
		}

		items := make([]string, 0, len(pc.Items))
		for _, item := range pc.Items {
			if len(items) == MaxItemsPerCategory {
				break
			}
			item = strings.TrimSpace(item)
			if item == "" || utf8.RuneCountInString(item) > MaxItemLength {
				continue
			}
			items = append(items, item)
		}

		out.Categories = append(out.Categories, domain.ProposedCategory{Category: label, Items: items})
	}

	return out
}

func buildProposalPrompt(query string, categories []domain.Category) string {
	var b strings.Builder

	b.WriteString("You are a culinary expert. Analyze this shopping request and suggest the ingredients to buy, grouped by store category.\n\n")
	fmt.Fprintf(&b, "User request: %q\n\n", query)
	b.WriteString("Available categories (ONLY use these):\n")
	for _, c := range categories {
		if name := strings.TrimSpace(c.Name); name != "" {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- ONLY use category names EXACTLY as written in the list above\n")
	b.WriteString("- Suggest ingredients actually used for the requested dish or cuisine\n")
	b.WriteString("- Use short, generic ingredient names (\"basmati rice\", not a brand)\n")
	fmt.Fprintf(&b, "- At most %d categories and %d items per category\n\n", MaxProposedCategories, MaxItemsPerCategory)
	b.WriteString("Respond with ONLY a JSON object of this shape:\n")
	b.WriteString(`{"categories": [{"category": "<exact category name>", "items": ["item1", "item2"]}]}`)
	b.WriteString("\n")

	return b.String()
}
