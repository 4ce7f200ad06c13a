package catalog

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/ericogr/arcane-clash/internal/constants"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/keys"
	"github.com/ericogr/arcane-clash/internal/logging"
)

// cardDoc is the document layout of one template.
type cardDoc struct {
	Title       string     `firestore:"title"`
	CardType    string     `firestore:"card_type"`
	Melee       int        `firestore:"melee"`
	Magic       int        `firestore:"magic"`
	Defense     int        `firestore:"defense"`
	HP          int        `firestore:"hp"`
	Shield      int        `firestore:"shield"`
	MagicShield int        `firestore:"magic_shield"`
	RollStats   bool       `firestore:"roll_stats"`
	Copies      int        `firestore:"copies"`
	Description string     `firestore:"description"`
	Effect      *effectDoc `firestore:"effect,omitempty"`
}

type effectDoc struct {
	Type     string `firestore:"type"`
	Value    int    `firestore:"value"`
	Duration int    `firestore:"duration"`
}

func toCardDoc(t game.Template) cardDoc {
	d := cardDoc{
		Title:       t.Title,
		CardType:    string(t.CardType),
		Melee:       t.Melee,
		Magic:       t.Magic,
		Defense:     t.Defense,
		HP:          t.HP,
		Shield:      t.Shield,
		MagicShield: t.MagicShield,
		RollStats:   t.RollStats,
		Copies:      t.Copies,
		Description: t.Description,
	}
	if t.Effect != nil {
		d.Effect = &effectDoc{Type: t.Effect.Type, Value: t.Effect.Value, Duration: t.Effect.Duration}
	}
	return d
}

func (d cardDoc) template(id string) game.Template {
	t := game.Template{
		ID:          id,
		Title:       d.Title,
		CardType:    game.CardType(d.CardType),
		Melee:       d.Melee,
		Magic:       d.Magic,
		Defense:     d.Defense,
		HP:          d.HP,
		Shield:      d.Shield,
		MagicShield: d.MagicShield,
		RollStats:   d.RollStats,
		Copies:      d.Copies,
		Description: d.Description,
	}
	if d.Effect != nil {
		t.Effect = &game.SpellEffect{Type: d.Effect.Type, Value: d.Effect.Value, Duration: d.Effect.Duration}
	}
	return t
}

// storedCard is a cardDoc with its document id.
type storedCard struct {
	ID  string
	Doc cardDoc
}

// cardDocuments is the slice of the Firestore API the store needs.
type cardDocuments interface {
	ByType(ctx context.Context, cardType string) ([]storedCard, error)
	Set(ctx context.Context, key string, doc cardDoc) error
}

// clientDocuments reads and writes one collection through a firestore.Client.
type clientDocuments struct {
	client     *firestore.Client
	collection string
}

// ByType returns the documents of cardType in title order. The query needs a
// composite index on (card_type, title).
func (c *clientDocuments) ByType(ctx context.Context, cardType string) ([]storedCard, error) {
	snaps, err := c.client.Collection(c.collection).
		Where("card_type", "==", cardType).
		OrderBy("title", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]storedCard, 0, len(snaps))
	for _, snap := range snaps {
		var d cardDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		out = append(out, storedCard{ID: snap.Ref.ID, Doc: d})
	}
	return out, nil
}

func (c *clientDocuments) Set(ctx context.Context, key string, doc cardDoc) error {
	_, err := c.client.Collection(c.collection).Doc(key).Set(ctx, doc)
	return err
}

// FirestoreStore keeps templates as documents of the "cards" collection in a
// Cloud Firestore database.
type FirestoreStore struct {
	docs   cardDocuments
	closer func() error
}

// NewFirestoreStore authenticates with Application Default Credentials. When
// FIRESTORE_EMULATOR_HOST is set the client talks to the emulator instead.
func NewFirestoreStore(ctx context.Context, project string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if os.Getenv(constants.EnvFirestoreEmulator) == "" {
		ts, err := google.DefaultTokenSource(ctx, constants.FirestoreScope)
		if err != nil {
			return nil, fmt.Errorf("firestore credentials: %w", err)
		}
		opts = append(opts, option.WithTokenSource(ts))
	}
	client, err := firestore.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{
		docs:   &clientDocuments{client: client, collection: constants.FirestoreCollection},
		closer: client.Close,
	}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// FetchByType lists the templates of one card type ordered by title.
func (s *FirestoreStore) FetchByType(ctx context.Context, t game.CardType) ([]game.Template, error) {
	stored, err := s.docs.ByType(ctx, string(t))
	if err != nil {
		return nil, err
	}
	out := make([]game.Template, 0, len(stored))
	for _, c := range stored {
		out = append(out, c.Doc.template(c.ID))
	}
	return out, nil
}

// UpsertTemplates writes one document per template, named by the title key,
// so repeated seeding overwrites instead of duplicating.
func (s *FirestoreStore) UpsertTemplates(ctx context.Context, templates []game.Template) error {
	templates = normalize(templates)
	if err := Validate(templates); err != nil {
		return err
	}
	for _, t := range templates {
		key := keys.CardKeyFromTitle(t.Title)
		if err := s.docs.Set(ctx, key, toCardDoc(t)); err != nil {
			return fmt.Errorf("upsert %q: %w", t.Title, err)
		}
		logging.Debug("firestore card upserted", logging.Fields{constants.LogFieldKey: key})
	}
	return nil
}
