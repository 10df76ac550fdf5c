package graph

import (
	"slices"
	"testing"
)

func TestOrder(t *testing.T) {
	s := build(map[string][]string{
		"app":    {"lib", "util"},
		"lib":    {"util"},
		"util":   nil,
		"unused": nil,
	})

	order := Order(s)
	if len(order) != 4 {
		t.Fatalf("Order() = %v, want 4 ids", order)
	}
	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos["util"] > pos["lib"] || pos["lib"] > pos["app"] {
		t.Errorf("Order() = %v, dependencies must come first", order)
	}
}

func TestOrderWithCycle(t *testing.T) {
	s := build(map[string][]string{"a": {"b"}, "b": {"a"}})

	order := Order(s)
	if !slices.Equal(order, []string{"b", "a"}) {
		t.Errorf("Order() = %v, want [b a]", order)
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name string
		adj  map[string][]string
		want [][]string
	}{
		{
			name: "acyclic",
			adj:  map[string][]string{"a": {"b"}, "b": nil},
			want: nil,
		},
		{
			name: "single cycle",
			adj:  map[string][]string{"a": {"b"}, "b": {"c"}, "c": {"a"}},
			want: [][]string{{"a", "b", "c", "a"}},
		},
		{
			name: "two cycles",
			adj:  map[string][]string{"a": {"b"}, "b": {"a"}, "c": {"d"}, "d": {"c"}},
			want: [][]string{{"a", "b", "a"}, {"c", "d", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cycles(build(tt.adj))
			if len(got) != len(tt.want) {
				t.Fatalf("Cycles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !slices.Equal(got[i], tt.want[i]) {
					t.Errorf("Cycles()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
