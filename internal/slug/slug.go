// Package slug derives URL-safe identifiers and resolves collisions with numeric suffixes.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// maxAttempts bounds the suffix search so a broken existence check cannot loop forever.
const maxAttempts = 10000

var (
	nonWord   = regexp.MustCompile(`[^\w\s-]`)
	separator = regexp.MustCompile(`[-\s]+`)
)

// Make converts s to a lower-case ASCII slug: accents are folded, punctuation is dropped and runs of
// whitespace or hyphens become a single hyphen. Characters without an ASCII form are removed, so
// the result may be empty.
func Make(s string) string {
	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	out := nonWord.ReplaceAllString(strings.ToLower(b.String()), "")
	out = separator.ReplaceAllString(strings.TrimSpace(out), "-")
	return strings.Trim(out, "-_")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base if it is free, otherwise the first free "base-N" for N = 1, 2, ...
// An empty base is replaced by fallback.
func Unique(ctx context.Context, base, fallback string, exists ExistsFunc) (string, error) {
	if base == "" {
		base = fallback
	}
	candidate := base
	for n := 1; n <= maxAttempts; n++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}

// Suffixed returns base with the n-th collision suffix (n = 0 returns base).
func Suffixed(base string, n int) string {
	if n <= 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
