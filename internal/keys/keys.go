package keys

import (
	"strings"
)

// CardKeyFromTitle produces a canonical key for a card title.
// Behavior: trims, lower-cases, replaces spaces with underscores and drops
// anything that is not a letter, digit, underscore or dash. The result is
// safe for DB keys and asset file names.
func CardKeyFromTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AssetFileName is the file name under which a card's image is served.
func AssetFileName(title string) string {
	return CardKeyFromTitle(title) + ".png"
}

// KeyFromAssetFileName reverses AssetFileName. It returns false for names
// that are not card assets.
func KeyFromAssetFileName(name string) (string, bool) {
	name = strings.TrimPrefix(name, "/")
	if !strings.HasSuffix(name, ".png") {
		return "", false
	}
	key := strings.TrimSuffix(name, ".png")
	if key == "" || key != CardKeyFromTitle(key) {
		return "", false
	}
	return key, true
}
