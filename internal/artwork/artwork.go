// Package artwork produces the image and flavor text of a card. Generated
// assets are cached by card key so every title is generated at most once;
// any failure degrades to the placeholder image and the default text.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/dedupe"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/imageutil"
	"github.com/ericogr/arcane-clash/internal/keys"
	"github.com/ericogr/arcane-clash/internal/logging"
	"github.com/ericogr/arcane-clash/internal/storage"
)

// ImageGenerator returns raw image bytes for a card.
type ImageGenerator interface {
	GenerateCardImage(ctx context.Context, title, cardType string) ([]byte, error)
}

// DescriptionGenerator returns a short flavor text for a card.
type DescriptionGenerator interface {
	GenerateCardDescription(ctx context.Context, title, cardType string) (string, error)
}

// AssetStore is the part of storage.Repository the generator caches into.
type AssetStore interface {
	GetCardAsset(key string) (*storage.CardAsset, error)
	SaveCardImage(key, title string, png []byte) error
	SaveCardDescription(key, title, description string) error
}

// Result is what a card shows once its art request finished.
type Result struct {
	ImageRef    string
	Description string
	Fallback    bool
}

// GenerationError wraps a failed generator call for one card key.
type GenerationError struct {
	Key  string
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation for %q failed: %v", e.Kind, e.Key, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ErrDisabled is returned when no generator is configured.
var ErrDisabled = errors.New("generator disabled")

// Service resolves card art through the cache and the generators. Either
// generator may be nil.
type Service struct {
	store        AssetStore
	images       ImageGenerator
	descriptions DescriptionGenerator
	timeout      time.Duration
	size         int
}

// New returns a Service. A non-positive timeout uses the default.
func New(store AssetStore, images ImageGenerator, descriptions DescriptionGenerator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = constants.DefaultGenerationTimeout
	}
	return &Service{
		store:        store,
		images:       images,
		descriptions: descriptions,
		timeout:      timeout,
		size:         constants.CardImageSize,
	}
}

// ImageURL is the public path of a cached card image.
func ImageURL(title string) string {
	return constants.AssetURLPathPrefix + keys.AssetFileName(title)
}

// Resolve returns the image reference and description for card. It never
// fails: generator errors are logged and replaced by the placeholder and the
// default description.
func (s *Service) Resolve(ctx context.Context, card game.Card) Result {
	key := keys.CardKeyFromTitle(card.Title)
	res := Result{}

	if err := s.ensureImage(ctx, key, card); err != nil {
		logging.Warn("card art unavailable, using placeholder", err, logging.Fields{
			constants.LogFieldKey: key, constants.LogFieldCardID: card.ID,
		})
		res.ImageRef = game.PlaceholderImageRef(card.Title)
		res.Fallback = true
	} else {
		res.ImageRef = ImageURL(card.Title)
	}

	// Catalog text wins over generated text.
	if card.Description != "" {
		res.Description = card.Description
		return res
	}
	desc, err := s.ensureDescription(ctx, key, card)
	if err != nil {
		logging.Warn("card description unavailable, using default", err, logging.Fields{
			constants.LogFieldKey: key, constants.LogFieldCardID: card.ID,
		})
		res.Description = game.DefaultDescription(card.CardType)
		return res
	}
	res.Description = desc
	return res
}

func (s *Service) cached(key string) *storage.CardAsset {
	if s.store == nil || key == "" {
		return nil
	}
	a, err := s.store.GetCardAsset(key)
	if err != nil || a == nil {
		return nil
	}
	return a
}

func (s *Service) ensureImage(ctx context.Context, key string, card game.Card) error {
	if a := s.cached(key); a != nil && len(a.ImagePNG) > 0 {
		logging.Debug("card art cache hit", logging.Fields{constants.LogFieldKey: key, constants.LogFieldSource: "db"})
		return nil
	}
	if s.images == nil {
		return &GenerationError{Key: key, Kind: "image", Err: ErrDisabled}
	}

	ch := dedupe.ImageGroup.DoChan(dedupe.ImageKey(key), func() (interface{}, error) {
		if a := s.cached(key); a != nil && len(a.ImagePNG) > 0 {
			return a.ImagePNG, nil
		}
		gctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		logging.Info("card art generating", logging.Fields{constants.LogFieldKey: key, constants.LogFieldCardTitle: card.Title})
		raw, err := s.images.GenerateCardImage(gctx, card.Title, string(card.CardType))
		if err != nil {
			return nil, err
		}
		out, err := imageutil.NormalizeCardArt(raw, s.size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", constants.ErrFailedResizeImage, err)
		}
		if s.store != nil {
			if err := s.store.SaveCardImage(key, card.Title, out); err != nil {
				return nil, err
			}
		}
		logging.Info("card art generated and saved", logging.Fields{constants.LogFieldKey: key, "size_bytes": len(out)})
		return out, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return &GenerationError{Key: key, Kind: "image", Err: r.Err}
		}
		return nil
	case <-ctx.Done():
		return &GenerationError{Key: key, Kind: "image", Err: ctx.Err()}
	case <-time.After(s.timeout):
		return &GenerationError{Key: key, Kind: "image", Err: context.DeadlineExceeded}
	}
}

func (s *Service) ensureDescription(ctx context.Context, key string, card game.Card) (string, error) {
	if a := s.cached(key); a != nil && a.Description != "" {
		return a.Description, nil
	}
	if s.descriptions == nil {
		return "", &GenerationError{Key: key, Kind: "description", Err: ErrDisabled}
	}

	ch := dedupe.DescriptionGroup.DoChan(dedupe.DescriptionKey(key), func() (interface{}, error) {
		if a := s.cached(key); a != nil && a.Description != "" {
			return a.Description, nil
		}
		gctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		desc, err := s.descriptions.GenerateCardDescription(gctx, card.Title, string(card.CardType))
		if err != nil {
			return "", err
		}
		if desc == "" {
			return "", errors.New("empty description")
		}
		if s.store != nil {
			if err := s.store.SaveCardDescription(key, card.Title, desc); err != nil {
				logging.Error("failed to cache card description", err, logging.Fields{constants.LogFieldKey: key})
			}
		}
		return desc, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return "", &GenerationError{Key: key, Kind: "description", Err: r.Err}
		}
		desc, _ := r.Val.(string)
		return desc, nil
	case <-ctx.Done():
		return "", &GenerationError{Key: key, Kind: "description", Err: ctx.Err()}
	case <-time.After(s.timeout):
		return "", &GenerationError{Key: key, Kind: "description", Err: context.DeadlineExceeded}
	}
}

// Image returns the cached PNG for an asset file name such as
// "fire_drake.png".
func (s *Service) Image(fileName string) ([]byte, error) {
	key, ok := keys.KeyFromAssetFileName(fileName)
	if !ok {
		return nil, storage.ErrNotFound
	}
	if s.store == nil {
		return nil, storage.ErrNotFound
	}
	a, err := s.store.GetCardAsset(key)
	if err != nil {
		return nil, err
	}
	if a == nil || len(a.ImagePNG) == 0 {
		return nil, storage.ErrNotFound
	}
	return a.ImagePNG, nil
}
