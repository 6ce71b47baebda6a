package usecase

import "testing"

func TestRatio(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "identical strings", a: "ghee", b: "ghee", want: 100},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "one empty", a: "rice", b: "", want: 0},
		{name: "classic edit distance", a: "kitten", b: "sitting", want: 57},
		{name: "completely different", a: "rice", b: "soap", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Ratio(tc.a, tc.b); got != tc.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestPartialRatio(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want int
	}{
		{name: "shorter string fully contained", a: "tomato", b: "tomato ketchup", want: 100},
		{name: "argument order does not matter", a: "tomato ketchup", b: "tomato", want: 100},
		{name: "misspelling inside longer name", a: "tumeric", b: "turmeric powder", want: 71},
		{name: "empty input", a: "", b: "turmeric", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PartialRatio(tc.a, tc.b); got != tc.want {
				t.Errorf("PartialRatio(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestTokenSortRatio(t *testing.T) {
	if got := TokenSortRatio("rice basmati", "basmati rice"); got != 100 {
		t.Errorf("TokenSortRatio() = %d, want 100 for reordered words", got)
	}
	if got := TokenSortRatio("tumeric", "turmeric powder"); got != 47 {
		t.Errorf("TokenSortRatio() = %d, want 47", got)
	}
}
