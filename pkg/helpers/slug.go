package helpers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const slugMaxLen = 120

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphens  = regexp.MustCompile(`-+`)
)

// Slugify turns a display title into a URL-safe identifier: lowercase,
// [a-z0-9-] only, hyphens collapsed and trimmed, capped at 120 chars.
// An empty result falls back to "item".
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// SlugExistsFunc reports whether a candidate slug is already taken among
// sibling entities. Implementations exclude the entity being updated.
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// EnsureUniqueSlug probes base against exists and, on conflict, appends
// -2, -3, ... until a free slug is found. The result is stable: called again
// after the returned slug is persisted, the same input yields the next free
// suffix rather than reshuffling earlier ones. The suffix never pushes the
// slug past the length cap.
func EnsureUniqueSlug(ctx context.Context, base string, exists SlugExistsFunc) (string, error) {
	slug := base
	for n := 2; ; n++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", n)
		slug = trimForSuffix(base, suffix) + suffix
	}
}

func trimForSuffix(base, suffix string) string {
	keep := slugMaxLen - len(suffix)
	if keep < 1 {
		keep = 1
	}
	if len(base) > keep {
		base = base[:keep]
	}
	out := strings.Trim(base, "-")
	if out == "" {
		out = "item"
	}
	return out
}
