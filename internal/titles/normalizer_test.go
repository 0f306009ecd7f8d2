package titles_test

import (
	"testing"

	"github.com/jonesrussell/newsbrief/internal/titles"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"leading bracket group with repeated punctuation",
			"【重要】Hello   World!!!",
			"hello world!",
		},
		{"fullwidth latin folds to ascii", "Ｈｅｌｌｏ", "hello"},
		{"case folded", "Breaking NEWS", "breaking news"},
		{"whitespace runs collapse", "a \t b\n c", "a b c"},
		{"trailing bracket group", "Market wrap 「速報」", "market wrap"},
		{"corner bracket variant", "『新連載』chapter one", "chapter one"},
		{"repeated question marks", "really??", "really?"},
		{"repeated tildes", "soon~~~", "soon~"},
		{"fullwidth exclamations collapse", "すごい！！！", "すごい!"},
		{"unmatched bracket kept", "【broken headline", "【broken headline"},
		{"empty input", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := titles.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"【重要】Hello   World!!!",
		"Ｈｅｌｌｏ　Ｗｏｒｌｄ",
		"plain title",
		"「a」b「c」",
		"",
	}

	for _, input := range inputs {
		once := titles.Normalize(input)
		twice := titles.Normalize(once)

		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestAreDuplicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"fullwidth vs ascii", "Ｈｅｌｌｏ", "hello", true},
		{"bracket prefix ignored", "【速報】Big Story", "big story", true},
		{"punctuation runs equal", "wow!!!", "wow!", true},
		{"different titles", "story one", "story two", false},
		// Both sides normalize to the empty string. Known edge case.
		{"empty equals empty", "", "", true},
		{"empty vs whitespace", "", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := titles.AreDuplicates(tt.a, tt.b); got != tt.expected {
				t.Errorf("AreDuplicates(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}

			// Symmetry must hold for every pair.
			if forward, backward := titles.AreDuplicates(tt.a, tt.b), titles.AreDuplicates(tt.b, tt.a); forward != backward {
				t.Errorf("AreDuplicates not symmetric for (%q, %q)", tt.a, tt.b)
			}
		})
	}
}
