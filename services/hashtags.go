package services

import (
	"regexp"
	"strings"
)

// hashtagPattern matches "#" followed by anything that is not whitespace or
// another "#". Labels are kept exactly as written, so tags are case-sensitive
// and non-ASCII tags work.
var hashtagPattern = regexp.MustCompile(`#([^\s#]+)`)

// ExtractHashtags pulls hashtag labels out of post content, without the "#",
// deduplicated in order of first appearance.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	labels := make([]string, 0, len(matches))
	for _, match := range matches {
		label := strings.TrimSpace(match[1])
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return labels
}
