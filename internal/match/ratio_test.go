package match

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "identical", a: "fazem usg", b: "fazem usg", expected: 100},
		{name: "both empty", a: "", b: "", expected: 100},
		{name: "one empty", a: "fazem", b: "", expected: 0},
		{name: "one substitution in four", a: "abcd", b: "abce", expected: 75},
		{name: "completely different", a: "aaaa", b: "bbbb", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.a, tt.b); got != tt.expected {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{
			name:     "identical",
			a:        "voces fazem ultrassom",
			b:        "voces fazem ultrassom",
			expected: 100,
		},
		{
			name:     "word order ignored",
			a:        "ultrassom fazem voces",
			b:        "voces fazem ultrassom",
			expected: 100,
		},
		{
			name:     "duplicates count once",
			a:        "fazem usg",
			b:        "usg fazem usg",
			expected: 100,
		},
		{
			name:     "token subset scores full",
			a:        "fazem exame de sangue em casa",
			b:        "fazem exame de sangue",
			expected: 100,
		},
		{
			name:     "case accents punctuation ignored",
			a:        "Realiza, USG?!",
			b:        "realiza usg",
			expected: 100,
		},
		{
			name:     "both empty",
			a:        "",
			b:        "",
			expected: 100,
		},
		{
			name:     "one empty",
			a:        "fazem usg",
			b:        "?!",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSetRatio(tt.a, tt.b); got != tt.expected {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestTokenSetRatioPartialOverlap(t *testing.T) {
	// Near-identical questions differing in a single word should score
	// high but below 100; unrelated questions should score low.
	high := TokenSetRatio("marcar consulta pediatria hoje", "marcar consulta pediatrica hoje")
	if high >= 100 || high < DefaultThreshold {
		t.Errorf("near-identical score = %d, want in [%d, 100)", high, DefaultThreshold)
	}

	low := TokenSetRatio("qual o horario de funcionamento", "voces fazem ultrassom de cintura pelvica")
	if low >= DefaultThreshold {
		t.Errorf("unrelated score = %d, want below %d", low, DefaultThreshold)
	}
}
