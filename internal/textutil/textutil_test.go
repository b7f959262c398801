package textutil

import (
	"reflect"
	"testing"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation", "He plays guitar, his songs.", []string{"he", "plays", "guitar", "his", "songs"}},
		{"apostrophe", "She's here", []string{"she", "s", "here"}},
		{"mixed case", "THEIR Them", []string{"their", "them"}},
		{"empty", "  ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Words(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWordCountsWholeWordsOnly(t *testing.T) {
	counts := WordCounts("the theme hers herself her")
	if counts["he"] != 0 {
		t.Fatalf("expected no partial matches for he, got %d", counts["he"])
	}
	if counts["her"] != 1 || counts["hers"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestStripFeatureSuffix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Rich Flex (feat. 21 Savage)", "Rich Flex"},
		{"Pushin P [with Young Thug]", "Pushin P"},
		{"Superhero (Heroes & Villains) [with Future & Chris Brown]", "Superhero (Heroes & Villains)"},
		{"Plain Title", "Plain Title"},
	}
	for _, tt := range tests {
		if got := StripFeatureSuffix(tt.in); got != tt.want {
			t.Fatalf("StripFeatureSuffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Future (Rapper)", "rapper") {
		t.Fatal("expected case-insensitive match")
	}
	if ContainsFold("Future (band)", "rapper") {
		t.Fatal("unexpected match")
	}
}
