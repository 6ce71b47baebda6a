package usecase

import (
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

func TestResolveCategory(t *testing.T) {
	available := []domain.Category{
		{ID: "c0", Name: ""},
		{ID: "c1", Name: "Fruits & Vegetables"},
		{ID: "c2", Name: "Cooking Oil"},
		{ID: "c3", Name: "Masala & Spices"},
		{ID: "c4", Name: "Dairy"},
		{ID: "c5", Name: "Rice"},
	}

	testCases := []struct {
		name   string
		label  string
		wantID string
		wantOK bool
	}{
		{name: "exact match ignoring case", label: "  dairy ", wantID: "c4", wantOK: true},
		{name: "label contains category name", label: "Dairy Products", wantID: "c4", wantOK: true},
		{name: "category name contains label", label: "spices", wantID: "c3", wantOK: true},
		{name: "and spelled out", label: "Fruits and Vegetables", wantID: "c1", wantOK: true},
		{name: "plural label", label: "Oils", wantID: "c2", wantOK: true},
		{name: "exact wins over earlier substring", label: "rice", wantID: "c5", wantOK: true},
		{name: "no match", label: "Cleaning Supplies", wantOK: false},
		{name: "empty label", label: "  ", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveCategory(tc.label, available)
			if ok != tc.wantOK {
				t.Fatalf("ResolveCategory(%q) ok = %v, want %v", tc.label, ok, tc.wantOK)
			}
			if ok && got.ID != tc.wantID {
				t.Errorf("ResolveCategory(%q) = %q, want %q", tc.label, got.ID, tc.wantID)
			}
		})
	}
}

func TestResolveCategoryEmptyCatalog(t *testing.T) {
	if _, ok := ResolveCategory("Dairy", nil); ok {
		t.Error("expected no match against an empty category list")
	}
}

func TestUnresolvedCategory(t *testing.T) {
	got := UnresolvedCategory(" Snacks ")
	if got.ID != domain.UnknownCategoryID {
		t.Errorf("ID = %q, want %q", got.ID, domain.UnknownCategoryID)
	}
	if got.Name != "Snacks" {
		t.Errorf("Name = %q, want %q", got.Name, "Snacks")
	}
}
