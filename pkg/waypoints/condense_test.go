package waypoints

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(xs []Match) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.Name
	}
	return out
}

func TestCondense(t *testing.T) {
	t.Parallel()
	matches := []Match{
		{Name: "Start", Distance: 0},
		{Name: "Gate", Distance: 50},
		{Name: "Bridge", Distance: 1000},
		{Name: "Weir", Distance: 1200},
		{Name: "Mill", Distance: 3000},
		{Name: "Finish", Distance: 3100},
	}
	tests := []struct {
		name string
		got  []Match
		want []string
	}{
		{"min gap", CondenseMinGap(matches, 300), []string{"Start", "Bridge", "Mill"}},
		{"min gap zero", CondenseMinGap(matches, 0), names(matches)},
		{"max 4", CondenseMax(matches, 4), []string{"Start", "Bridge", "Weir", "Finish"}},
		{"max 3", CondenseMax(matches, 3), []string{"Start", "Weir", "Finish"}},
		{"max 1", CondenseMax(matches, 1), []string{"Start"}},
		{"max 0", CondenseMax(matches, 0), []string{}},
		{"max more", CondenseMax(matches, 10), names(matches)},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, names(tt.got)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
	// input untouched
	if diff := cmp.Diff([]string{"Start", "Gate", "Bridge", "Weir", "Mill", "Finish"}, names(matches)); diff != "" {
		t.Errorf("input modified (-want +got):\n%s", diff)
	}
}
