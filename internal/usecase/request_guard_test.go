package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/cartwise/backend/internal/domain"
)

func TestValidateQuery(t *testing.T) {
	g := NewRequestGuard(false)

	testCases := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{name: "trims a normal query", query: "  ingredients for biryani ", want: "ingredients for biryani"},
		{name: "accepts the maximum length", query: strings.Repeat("a", MaxQueryLength), want: strings.Repeat("a", MaxQueryLength)},
		{name: "rejects empty query", query: "", wantErr: true},
		{name: "rejects whitespace query", query: " \t\n", wantErr: true},
		{name: "rejects overly long query", query: strings.Repeat("a", MaxQueryLength+1), wantErr: true},
		{name: "rejects script tags", query: "biryani <SCRIPT>alert(1)</script>", wantErr: true},
		{name: "rejects multi-line script tags", query: "<script>\nalert(1)\n</script>", wantErr: true},
		{name: "rejects javascript urls", query: "JavaScript:alert(1)", wantErr: true},
		{name: "rejects html data urls", query: "data:text/html,hi", wantErr: true},
		{name: "rejects vbscript", query: "vbscript:msgbox", wantErr: true},
		{name: "rejects event handlers", query: "img onerror=alert(1)", wantErr: true},
		{name: "rejects onload handlers", query: "body onload=x", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.ValidateQuery(tc.query)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrInvalidRequest) {
					t.Errorf("ValidateQuery() error = %v, want ErrInvalidRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateQuery() unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ValidateQuery() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateIdentifiers(t *testing.T) {
	g := NewRequestGuard(false)

	t.Run("user ids", func(t *testing.T) {
		valid := []string{"user_1", "ABC-def-123", strings.Repeat("u", MaxUserIDLength)}
		for _, id := range valid {
			if _, err := g.ValidateUserID(id); err != nil {
				t.Errorf("ValidateUserID(%q) unexpected error: %v", id, err)
			}
		}

		invalid := []string{"", "user 1", "user@example.com", "../etc", strings.Repeat("u", MaxUserIDLength+1)}
		for _, id := range invalid {
			if _, err := g.ValidateUserID(id); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("ValidateUserID(%q) error = %v, want ErrInvalidRequest", id, err)
			}
		}
	})

	t.Run("store ids", func(t *testing.T) {
		if got, err := g.ValidateStoreID(" store-42 "); err != nil || got != "store-42" {
			t.Errorf("ValidateStoreID() = %q, %v", got, err)
		}

		invalid := []string{"", "store:42", "store 42", strings.Repeat("s", MaxStoreIDLength+1)}
		for _, id := range invalid {
			if _, err := g.ValidateStoreID(id); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("ValidateStoreID(%q) error = %v, want ErrInvalidRequest", id, err)
			}
		}
	})
}
