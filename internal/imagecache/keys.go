package imagecache

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// keyPrefix namespaces image cache entries in the shared durable store.
const keyPrefix = "img:"

// NormalizeName canonicalizes an item name for cache identity: lower-cased,
// special characters stripped, whitespace collapsed. Two items whose names
// normalize identically share one cache entry regardless of description or
// category; distinct dishes sharing a name collide deliberately.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Key derives the durable-store key for an item name using FNV-1a over the
// normalized name. Returns a hex-encoded hash under the img: prefix.
func Key(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(NormalizeName(name)))
	return fmt.Sprintf("%s%016x", keyPrefix, h.Sum64())
}
