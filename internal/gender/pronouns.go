package gender

import "rcg/internal/textutil"

var pronounSets = []struct {
	label    Label
	pronouns []string
}{
	{Male, []string{"he", "him", "his"}},
	{Female, []string{"she", "her", "hers"}},
	{NonBinary, []string{"they", "them", "theirs"}},
}

// PronounCounts holds whole-word pronoun tallies for one text.
type PronounCounts struct {
	Male      int `json:"m"`
	Female    int `json:"f"`
	NonBinary int `json:"n"`
}

// Count tallies the three pronoun sets in text.
func Count(text string) PronounCounts {
	words := textutil.WordCounts(text)
	var counts PronounCounts
	for _, set := range pronounSets {
		total := 0
		for _, p := range set.pronouns {
			total += words[p]
		}
		switch set.label {
		case Male:
			counts.Male = total
		case Female:
			counts.Female = total
		case NonBinary:
			counts.NonBinary = total
		}
	}
	return counts
}

// Label picks the most frequent set. Ties resolve M, then F, then N; a text
// without any pronoun is Unknown.
func (c PronounCounts) Label() Label {
	best, label := 0, Unknown
	for _, candidate := range []struct {
		label Label
		count int
	}{{Male, c.Male}, {Female, c.Female}, {NonBinary, c.NonBinary}} {
		if candidate.count > best {
			best, label = candidate.count, candidate.label
		}
	}
	return label
}

// CountPronouns labels text by its dominant pronoun set.
func CountPronouns(text string) Label {
	return Count(text).Label()
}

// Combine merges the two per-source results. A decisive source A wins, then
// a decisive source B, then non-binary from either; everything else,
// including two sentinels, is Unknown.
func Combine(a, b Label) Label {
	switch {
	case a.Decisive():
		return a
	case b.Decisive():
		return b
	case a == NonBinary || b == NonBinary:
		return NonBinary
	default:
		return Unknown
	}
}
