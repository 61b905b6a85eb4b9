package main

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/analysis"
)

func TestFilterAnalyzers(t *testing.T) {
	first := &analysis.Analyzer{Name: "nosleep"}
	tests := []struct {
		name     string
		input    []*analysis.Analyzer
		expected []string
	}{
		{
			name:     "keeps order",
			input:    []*analysis.Analyzer{{Name: "SA1000"}, first, {Name: "nilerr"}},
			expected: []string{"SA1000", "nosleep", "nilerr"},
		},
		{
			name:     "drops duplicates and nil",
			input:    []*analysis.Analyzer{first, nil, {Name: "nosleep"}, {Name: " "}},
			expected: []string{"nosleep"},
		},
		{
			name:     "empty input",
			input:    []*analysis.Analyzer{},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := filterAnalyzers(tt.input)
			if len(filtered) != len(tt.expected) {
				t.Fatalf("expected %d analyzers, got %d", len(tt.expected), len(filtered))
			}
			for i, a := range filtered {
				if a.Name != tt.expected[i] {
					t.Errorf("analyzer[%d]=%s want %s", i, a.Name, tt.expected[i])
				}
			}
		})
	}
	if got := filterAnalyzers([]*analysis.Analyzer{first, {Name: "nosleep"}}); got[0] != first {
		t.Errorf("first occurrence must win")
	}
}

func TestProjectAnalyzers(t *testing.T) {
	names := make(map[string]int)
	var sa int
	for _, a := range projectAnalyzers() {
		names[a.Name]++
		if strings.HasPrefix(a.Name, "SA") {
			sa++
		}
	}
	for _, want := range []string{"lostcancel", "copylock", "httpresponse", "ST1000", "nilerr", "forcetypeassert", "nosleep"} {
		if names[want] != 1 {
			t.Errorf("analyzer %q registered %d times, want 1", want, names[want])
		}
	}
	if sa == 0 {
		t.Errorf("no staticcheck SA analyzers registered")
	}
	for _, dropped := range []string{"cgocall", "unsafeptr", "buildtag"} {
		if names[dropped] != 0 {
			t.Errorf("analyzer %q should not run on this module", dropped)
		}
	}
}
