package utils

import (
	"regexp"
	"strings"
)

// SlugFallback is used when a title normalizes to nothing URL-safe.
const SlugFallback = "post"

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen  = regexp.MustCompile(`-+`)
)

// Slugify normalizes a title into a lowercase, hyphenated, ASCII-safe base.
// Runs of non-alphanumeric characters collapse to a single hyphen. A title
// with no usable characters falls back to SlugFallback. Uniqueness is the
// repository's job; this is only the normalization step.
func Slugify(input string) string {
	lower := strings.ToLower(input)
	hyphenated := nonSlugChars.ReplaceAllString(lower, "-")
	normalized := multiHyphen.ReplaceAllString(hyphenated, "-")
	trimmed := strings.Trim(normalized, "-")

	if trimmed == "" {
		return SlugFallback
	}
	return trimmed
}
