package content

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptySlug is reported for documents whose path yields no usable slug.
var ErrEmptySlug = errors.New("empty slug")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title to a URL-safe slug. Accented letters are folded
// to their ASCII base; other symbols become single hyphens.
func Slugify(s string) string {
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SlugFor derives a post slug from its path within the collection:
// "2024/intro.md" becomes "2024-intro", "graphs/index.md" becomes "graphs",
// "My Post?.md" becomes "my-post". The result only holds [a-z0-9-].
func SlugFor(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" && path.Dir(p) != "." {
		p = path.Dir(p)
	}
	return Slugify(p)
}
