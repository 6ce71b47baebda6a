package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cartwise/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

const (
	maxMetadataValues      = 5
	maxMetadataValueLength = 50
)

var metadataValuePattern = regexp.MustCompile(`^[a-z0-9 _-]+$`)

// DefaultShoppingMetadata is used whenever inference fails
func DefaultShoppingMetadata() domain.ShoppingMetadata {
	return domain.ShoppingMetadata{
		DishBased:          []string{"general"},
		CuisineBased:       []string{"international"},
		DietaryPreferences: []string{"mixed"},
		TimeBased:          []string{"general"},
	}
}

// MetadataInferer tags a query with dish, cuisine, diet and meal-time labels
type MetadataInferer struct {
	oracle domain.Oracle
}

// NewMetadataInferer creates a metadata inferer
func NewMetadataInferer(oracle domain.Oracle) *MetadataInferer {
	return &MetadataInferer{oracle: oracle}
}

// Infer never fails: any oracle or parse problem yields the defaults for the
// affected fields.
func (m *MetadataInferer) Infer(ctx context.Context, query string) domain.ShoppingMetadata {
	text, err := m.oracle.Complete(ctx, domain.CompletionRequest{
		Prompt:   buildMetadataPrompt(query),
		JSONMode: true,
		Purpose:  "metadata",
	})
	if err != nil {
		log.Warnf("[METADATA] oracle failed: %v", err)
		return DefaultShoppingMetadata()
	}

	var raw domain.ShoppingMetadata
	if err := decodeOracleJSON(text, &raw); err != nil {
		log.Warnf("[METADATA] %v", err)
		return DefaultShoppingMetadata()
	}

	return SanitizeMetadata(raw)
}

// SanitizeMetadata lowercases and filters every field, falling back to the
// default value for fields left empty.
func SanitizeMetadata(md domain.ShoppingMetadata) domain.ShoppingMetadata {
	def := DefaultShoppingMetadata()
	return domain.ShoppingMetadata{
		DishBased:          sanitizeMetadataValues(md.DishBased, def.DishBased),
		CuisineBased:       sanitizeMetadataValues(md.CuisineBased, def.CuisineBased),
		DietaryPreferences: sanitizeMetadataValues(md.DietaryPreferences, def.DietaryPreferences),
		TimeBased:          sanitizeMetadataValues(md.TimeBased, def.TimeBased),
	}
}

func sanitizeMetadataValues(values, fallback []string) []string {
	out := make([]string, 0, maxMetadataValues)
	seen := make(map[string]bool, len(values))

	for _, v := range values {
		if len(out) == maxMetadataValues {
			break
		}
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || utf8.RuneCountInString(v) > maxMetadataValueLength || seen[v] {
			continue
		}
		if !metadataValuePattern.MatchString(v) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	if len(out) == 0 {
		return fallback
	}
	return out
}

func buildMetadataPrompt(query string) string {
	var b strings.Builder
	b.WriteString("Analyze this grocery query and extract metadata.\n\n")
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	b.WriteString("Respond with ONLY a JSON object of this shape:\n")
	b.WriteString(`{"dishbased": ["dish name"], "cuisinebased": ["cuisine"], "dietarypreferences": ["vegan" | "vegetarian" | "non-vegetarian"], "timebased": ["breakfast" | "lunch" | "dinner" | "snack"]}`)
	b.WriteString("\n")
	return b.String()
}
