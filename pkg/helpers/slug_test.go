package helpers

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Invisalign vs. Braces: A Comparison": "invisalign-vs-braces-a-comparison",
		"  Leading & trailing!!  ":            "leading-trailing",
		"UPPER case Title":                    "upper-case-title",
		"---":                                 "item",
		"":                                    "item",
		"Émail café":                          "mail-caf",
		"already-a-slug":                      "already-a-slug",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	valid := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	inputs := []string{
		"Clear Aligners 101", "What's New in 2025?", "50% off retainers!!",
		"brush_twice_daily", "Q&A — open night",
	}
	for _, in := range inputs {
		got := Slugify(in)
		assert.Regexp(t, valid, got, "input %q", in)
		assert.False(t, strings.HasPrefix(got, "-"))
		assert.False(t, strings.HasSuffix(got, "-"))
	}
}

func TestSlugifyLengthCap(t *testing.T) {
	long := strings.Repeat("orthodontics ", 30)
	got := Slugify(long)
	assert.LessOrEqual(t, len(got), 120)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestEnsureUniqueSlug(t *testing.T) {
	taken := map[string]bool{"open-bite-case": true, "open-bite-case-2": true}
	exists := func(ctx context.Context, slug string) (bool, error) {
		return taken[slug], nil
	}

	got, err := EnsureUniqueSlug(context.Background(), "open-bite-case", exists)
	require.NoError(t, err)
	assert.Equal(t, "open-bite-case-3", got)

	// no conflict returns the base untouched
	got, err = EnsureUniqueSlug(context.Background(), "deep-bite-case", exists)
	require.NoError(t, err)
	assert.Equal(t, "deep-bite-case", got)

	// stable: persisting the result and asking again yields the next suffix
	taken[got] = true
	got2, err := EnsureUniqueSlug(context.Background(), "deep-bite-case", exists)
	require.NoError(t, err)
	assert.Equal(t, "deep-bite-case-2", got2)
}

func TestEnsureUniqueSlugKeepsLengthCap(t *testing.T) {
	base := Slugify(strings.Repeat("a", 200))
	exists := func(ctx context.Context, slug string) (bool, error) {
		return slug == base, nil
	}
	got, err := EnsureUniqueSlug(context.Background(), base, exists)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 120)
	assert.True(t, strings.HasSuffix(got, "-2"))
}
