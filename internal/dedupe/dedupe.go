// Package dedupe holds the shared singleflight groups that collapse
// concurrent art and description generation for the same card key.
package dedupe

import "golang.org/x/sync/singleflight"

// ImageGroup deduplicates image generation keyed by "image:<card key>".
var ImageGroup singleflight.Group

// DescriptionGroup deduplicates description generation keyed by
// "description:<card key>".
var DescriptionGroup singleflight.Group

// ImageKey and DescriptionKey build the group keys for a card key.
func ImageKey(cardKey string) string { return "image:" + cardKey }

func DescriptionKey(cardKey string) string { return "description:" + cardKey }
