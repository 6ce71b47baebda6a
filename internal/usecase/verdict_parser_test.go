package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVerdicts(t *testing.T) {
	testCases := []struct {
		name         string
		text         string
		n            int
		want         []bool
		wantResolved int
	}{
		{
			name:         "comma separated answers",
			text:         "1:YES, 2:NO, 3:YES",
			n:            3,
			want:         []bool{true, false, true},
			wantResolved: 3,
		},
		{
			name:         "anything but YES or NO is rejected",
			text:         "1:YES, 2:MAYBE",
			n:            2,
			want:         []bool{true, false},
			wantResolved: 1,
		},
		{
			name:         "one answer per line, lower case",
			text:         "1: yes\n2: no\n3: Yes",
			n:            3,
			want:         []bool{true, false, true},
			wantResolved: 3,
		},
		{
			name:         "list markers and decorations are tolerated",
			text:         "Here you go:\n- 1. YES\n**2:YES**; 3) NO",
			n:            3,
			want:         []bool{true, true, false},
			wantResolved: 3,
		},
		{
			name:         "missing indices default to false",
			text:         "2:YES",
			n:            3,
			want:         []bool{false, true, false},
			wantResolved: 1,
		},
		{
			name:         "out of range indices are ignored",
			text:         "0:YES, 1:YES, 5:YES",
			n:            2,
			want:         []bool{true, false},
			wantResolved: 1,
		},
		{
			name:         "contradictory answers are rejected",
			text:         "1:YES, 1:NO, 2:YES, 2:YES",
			n:            2,
			want:         []bool{false, true},
			wantResolved: 1,
		},
		{
			name:         "free text without indices",
			text:         "YES, NO, YES",
			n:            3,
			want:         []bool{false, false, false},
			wantResolved: 0,
		},
		{
			name:         "empty response",
			text:         "",
			n:            2,
			want:         []bool{false, false},
			wantResolved: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, resolved := ParseVerdicts(tc.text, tc.n)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantResolved, resolved)
		})
	}
}

func TestParseVerdictsNoPairs(t *testing.T) {
	got, resolved := ParseVerdicts("1:YES", 0)
	assert.Empty(t, got)
	assert.Equal(t, 0, resolved)
}
