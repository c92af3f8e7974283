package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxLength = 80
	fallback  = "artigo"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make folds accents, lowercases and hyphenates title. An empty result becomes "artigo".
func Make(title string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, title)
	if err != nil {
		folded = title
	}

	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxLength {
		s = strings.TrimRight(s[:maxLength], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// Candidates returns base, base-2 ... base-(attempts-1), then one random-suffixed slug.
// The list is always finite so publish gives up after len(result) collisions.
func Candidates(base string, attempts int) []string {
	if attempts < 1 {
		attempts = 1
	}
	out := make([]string, 0, attempts+1)
	out = append(out, base)
	for i := 2; i <= attempts; i++ {
		out = append(out, fmt.Sprintf("%s-%d", base, i))
	}
	out = append(out, base+"-"+strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return out
}
