// Package normalize turns arbitrary file names into a filesystem-safe ASCII
// form: Cyrillic letters are transliterated, and every rune that is not an
// ASCII letter, digit or dot becomes an underscore.
package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	cyrillic = "абвгдеёжзийклмнопрстуфхцчшщъыьэюяєіїґ"

	// DefaultCacheSize is the number of normalized names a Normalizer
	// remembers when no size is given.
	DefaultCacheSize = 4096
)

var latin = [...]string{
	"a", "b", "v", "g", "d", "e", "e", "j", "z", "i", "j", "k", "l", "m", "n", "o", "p", "r", "s", "t", "u",
	"f", "h", "ts", "ch", "sh", "sch", "", "y", "", "e", "yu", "ya", "je", "i", "ji", "g",
}

var translit = buildTranslit()

func buildTranslit() map[rune]string {
	m := make(map[rune]string, 2*utf8.RuneCountInString(cyrillic))
	i := 0
	for _, r := range cyrillic {
		m[r] = latin[i]
		m[unicode.ToUpper(r)] = strings.ToUpper(latin[i])
		i++
	}
	return m
}

// Transliterate replaces each Cyrillic letter of s with its Latin spelling.
// Every other rune is kept as is.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := translit[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Sanitize replaces every rune that is not an ASCII letter, digit or '.'
// with '_'.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Normalize transliterates name and then sanitizes it. The result only
// holds [A-Za-z0-9.] and Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	return Sanitize(Transliterate(name))
}

// Options configures a Normalizer.
type Options struct {
	// FoldDiacritics strips combining marks after canonical decomposition,
	// so "café" becomes "cafe" instead of "caf_".
	FoldDiacritics bool
	// CacheSize bounds the memo of recent names. Zero picks
	// DefaultCacheSize; a negative value disables the memo.
	CacheSize int
}

// Normalizer is a memoizing, concurrency-safe Normalize.
type Normalizer struct {
	fold  bool
	cache *lru.Cache[string, string]
}

// New builds a Normalizer from opts.
func New(opts Options) (*Normalizer, error) {
	n := &Normalizer{fold: opts.FoldDiacritics}
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, string](size)
		if err != nil {
			return nil, err
		}
		n.cache = cache
	}
	return n, nil
}

// Normalize returns the safe form of name.
func (n *Normalizer) Normalize(name string) string {
	if n == nil {
		return Normalize(name)
	}
	if n.cache != nil {
		if v, ok := n.cache.Get(name); ok {
			return v
		}
	}
	out := name
	if n.fold {
		out = foldDiacritics(Transliterate(out))
	}
	out = Normalize(out)
	if n.cache != nil {
		n.cache.Add(name, out)
	}
	return out
}

// foldDiacritics runs after transliteration: й and ё would otherwise lose
// their marks and map to и and е.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
