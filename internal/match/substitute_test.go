package match

import (
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		rules    []Rule
		expected string
	}{
		{
			name:     "no rules normalizes only",
			text:     "Vocês fazem USG?",
			rules:    nil,
			expected: "voces fazem usg",
		},
		{
			name:     "whole word replaced",
			text:     "vcs fazem usg",
			rules:    []Rule{{Synonym: "vcs", Canonical: "voces"}, {Synonym: "usg", Canonical: "ultrassom"}},
			expected: "voces fazem ultrassom",
		},
		{
			name:     "no replacement inside larger word",
			text:     "fazem usgtotal",
			rules:    []Rule{{Synonym: "usg", Canonical: "ultrassom"}},
			expected: "fazem usgtotal",
		},
		{
			name:     "multi word synonym",
			text:     "fazem eco do coracao",
			rules:    []Rule{{Synonym: "eco do coracao", Canonical: "ecocardiograma"}},
			expected: "fazem ecocardiograma",
		},
		{
			name:     "rule sides are normalized",
			text:     "vcs atendem hoje",
			rules:    []Rule{{Synonym: "VCS!", Canonical: "Vocês"}},
			expected: "voces atendem hoje",
		},
		{
			name:     "empty synonym skipped",
			text:     "fazem usg",
			rules:    []Rule{{Synonym: "?!", Canonical: "ultrassom"}},
			expected: "fazem usg",
		},
		{
			name:     "empty canonical skipped",
			text:     "fazem usg",
			rules:    []Rule{{Synonym: "usg", Canonical: "  "}},
			expected: "fazem usg",
		},
		{
			name:     "multiple occurrences replaced",
			text:     "usg hoje e usg amanha",
			rules:    []Rule{{Synonym: "usg", Canonical: "ultrassom"}},
			expected: "ultrassom hoje e ultrassom amanha",
		},
		{
			name:     "rules chain in given order",
			text:     "raio x",
			rules:    []Rule{{Synonym: "raio x", Canonical: "rx"}, {Synonym: "rx", Canonical: "radiografia"}},
			expected: "radiografia",
		},
		{
			name:     "reversed chain does not apply",
			text:     "raio x",
			rules:    []Rule{{Synonym: "rx", Canonical: "radiografia"}, {Synonym: "raio x", Canonical: "rx"}},
			expected: "rx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.text, tt.rules); got != tt.expected {
				t.Errorf("Substitute(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	t.Run("no overlaps", func(t *testing.T) {
		rules := []Rule{
			{Synonym: "vcs", Canonical: "voces"},
			{Synonym: "usg", Canonical: "ultrassom"},
		}
		if warnings := Overlaps(rules); len(warnings) != 0 {
			t.Errorf("expected no warnings, got %v", warnings)
		}
	})

	t.Run("duplicate synonym", func(t *testing.T) {
		rules := []Rule{
			{Synonym: "usg", Canonical: "ultrassom"},
			{Synonym: "USG", Canonical: "ecografia"},
		}
		warnings := Overlaps(rules)
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %v", warnings)
		}
		if !strings.Contains(warnings[0], "usg") {
			t.Errorf("warning should name the synonym, got %q", warnings[0])
		}
	})

	t.Run("chained rules", func(t *testing.T) {
		rules := []Rule{
			{Synonym: "rx", Canonical: "radiografia"},
			{Synonym: "raio x", Canonical: "rx"},
		}
		warnings := Overlaps(rules)
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %v", warnings)
		}
	})
}
