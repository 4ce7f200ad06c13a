package game

import "net/url"

const placeholderBase = "https://placehold.co/256x256/1a1a2e/ffffff?text="

// PlaceholderImageRef is the deterministic image reference used when art
// generation fails or is disabled.
func PlaceholderImageRef(title string) string {
	return placeholderBase + url.QueryEscape(title)
}

// DefaultDescription is the fixed flavor text used when description
// generation fails.
func DefaultDescription(t CardType) string {
	switch t {
	case CardTypeMonster:
		return "A fearsome creature ready for battle."
	case CardTypeSpell:
		return "A mysterious spell with arcane power."
	}
	return "An enigmatic card."
}

// ApplyArt fills the presentation fields of c, substituting placeholders for
// anything missing.
func (c *Card) ApplyArt(imageRef, description string, fallback bool) {
	if imageRef == "" {
		imageRef = PlaceholderImageRef(c.Title)
		fallback = true
	}
	if description == "" {
		description = c.Description
	}
	if description == "" {
		description = DefaultDescription(c.CardType)
	}
	c.ImageRef = imageRef
	c.Description = description
	c.ArtLoaded = true
	c.ArtFallback = fallback
}
