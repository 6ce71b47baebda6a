package usecase

import (
	"strings"

	"github.com/cartwise/backend/internal/domain"
)

// ResolveCategory maps a free-text category label onto one of the available
// categories. Checks run in order and the first hit wins: exact name,
// substring in either direction, then label variants by substring.
func ResolveCategory(label string, available []domain.Category) (domain.Category, bool) {
	wanted := normalizeLabel(label)
	if wanted == "" || len(available) == 0 {
		return domain.Category{}, false
	}

	for _, cat := range available {
		if name := normalizeLabel(cat.Name); name != "" && name == wanted {
			return cat, true
		}
	}

	for _, cat := range available {
		if name := normalizeLabel(cat.Name); name != "" && containsEither(wanted, name) {
			return cat, true
		}
	}

	variants := labelVariants(wanted)
	for _, cat := range available {
		name := normalizeLabel(cat.Name)
		if name == "" {
			continue
		}
		for _, v := range variants {
			if containsEither(v, name) {
				return cat, true
			}
		}
	}

	return domain.Category{}, false
}

// UnresolvedCategory is the placeholder recorded for labels that did not resolve
func UnresolvedCategory(label string) domain.Category {
	return domain.Category{ID: domain.UnknownCategoryID, Name: strings.TrimSpace(label)}
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// labelVariants returns spelling variants of an already-normalized label
func labelVariants(label string) []string {
	candidates := []string{
		strings.ReplaceAll(label, " ", ""),
		strings.ReplaceAll(label, "&", "and"),
		strings.ReplaceAll(label, "and", "&"),
		strings.TrimSpace(strings.TrimSuffix(label, "s")),
	}

	seen := map[string]bool{label: true}
	var variants []string
	for _, v := range candidates {
		v = strings.Join(strings.Fields(v), " ")
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		variants = append(variants, v)
	}
	return variants
}
