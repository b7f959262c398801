package textutil

import (
	"regexp"
	"strings"
)

// featureSuffix matches trailing credits such as " (feat. Drake)" or " [with Future]".
var featureSuffix = regexp.MustCompile(`(?i)\s[\(\[](feat\.|ft\.|with)[^\)\]]*[\)\]]`)

// StripFeatureSuffix removes featured-artist annotations from a song title.
func StripFeatureSuffix(title string) string {
	stripped := featureSuffix.ReplaceAllString(title, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return strings.TrimSpace(title)
	}
	return stripped
}

// ContainsFold reports whether substr appears in s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(fold(s), fold(substr))
}
