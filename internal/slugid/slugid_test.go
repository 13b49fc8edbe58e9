package slugid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeID(t *testing.T) {
	tests := []struct {
		name     string
		group    string
		existing []string
		nr       int
		want     string
	}{
		{name: "plain", group: "content", nr: 1, want: "tab-content"},
		{name: "mixed case and spaces", group: "My Group", nr: 2, want: "tab-my-group"},
		{name: "punctuation collapses", group: "Info!", nr: 1, want: "tab-info"},
		{name: "collision gets suffix", group: "Info?", existing: []string{"tab-info"}, nr: 2, want: "tab-info-2"},
		{name: "empty name degenerates", group: "", nr: 2, want: "tab-2"},
		{name: "only symbols degenerates", group: "!!!", nr: 3, want: "tab-3"},
		{name: "trailing hyphen stripped", group: "meta-", nr: 4, want: "tab-meta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := map[string]struct{}{}
			for _, id := range tt.existing {
				existing[id] = struct{}{}
			}
			assert.Equal(t, tt.want, MakeID(tt.group, existing, tt.nr))
		})
	}
}

// The first of two identically-slugifying names keeps the bare id; only the
// second is disambiguated.
func TestMakeIDFirstOccurrenceUnsuffixed(t *testing.T) {
	existing := map[string]struct{}{}

	first := MakeID("Info!", existing, 1)
	assert.Equal(t, "tab-info", first)
	existing[first] = struct{}{}

	second := MakeID("Info?", existing, 2)
	assert.Equal(t, "tab-info-2", second)
	assert.NotEqual(t, first, second)
}
