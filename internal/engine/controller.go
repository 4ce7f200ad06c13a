package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ericogr/arcane-clash/internal/game"
)

// Seat identifies a player joining a game.
type Seat struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Setup describes a new game.
type Setup struct {
	GameID     string
	Generation int
	Flow       game.Flow
	HandSize   int
	Seats      [2]Seat
}

// Controller is the turn/phase state machine. Apply never mutates the state
// it is given; it returns a new snapshot or an error.
type Controller struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewController returns a controller drawing shuffles from rng. A nil now
// defaults to time.Now.
func NewController(rng *rand.Rand, now func() time.Time) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Controller{rng: rng, now: now}
}

func (c *Controller) shuffle(cards []game.Card) []game.Card {
	c.mu.Lock()
	defer c.mu.Unlock()
	return game.Shuffle(cards, c.rng)
}

// NewGame shuffles pool and deals the opening hands, P1 first. The game waits
// in loading_art until every card reports its art, unless all of them
// already have it.
func (c *Controller) NewGame(setup Setup, pool []game.Card) (*game.State, error) {
	if len(pool) == 0 {
		return nil, &game.CatalogError{Reason: "empty card pool"}
	}
	handSize := setup.HandSize
	if handSize <= 0 {
		handSize = game.DefaultHandSize
	}
	flow := setup.Flow
	if flow == "" {
		flow = game.FlowSelect
	}
	seats := setup.Seats
	for i := range seats {
		if seats[i].ID == "" {
			seats[i].ID = fmt.Sprintf("player%d", i+1)
		}
	}
	if seats[0].ID == seats[1].ID {
		return nil, fmt.Errorf("%w: both seats share id %q", ErrInvalidPlayer, seats[0].ID)
	}
	generation := setup.Generation
	if generation <= 0 {
		generation = 1
	}

	now := c.now()
	s := &game.State{
		ID:         setup.GameID,
		Generation: generation,
		Flow:       flow,
		HandSize:   handSize,
		Phase:      game.PhaseInitial,
		Turn:       1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	deck := c.shuffle(pool)
	for i := range deck {
		deck[i].Owner = ""
	}
	for i := range s.Players {
		hand, rest := game.Deal(deck, handSize)
		deck = rest
		setOwner(hand, seats[i].ID)
		s.Players[i] = game.Player{
			ID:    seats[i].ID,
			Name:  seats[i].Name,
			HP:    game.PlayerMaxHP,
			MaxHP: game.PlayerMaxHP,
			Hand:  hand,
		}
	}
	s.Deck = deck
	s.AddLog(fmt.Sprintf("Game started: %s vs %s, %d cards each.",
		playerLabel(s.Players[0], 0), playerLabel(s.Players[1], 1), len(s.Players[0].Hand)), now)

	s.Phase = game.PhaseLoadingArt
	if allArtLoaded(s) {
		c.finishLoading(s)
	}
	return s, nil
}

// Apply reduces in over s.
func (c *Controller) Apply(s *game.State, in Intent) (*game.State, error) {
	if s == nil {
		return nil, ErrNoGame
	}
	if !in.Type.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, in.Type)
	}
	if in.Type == IntentArtResult {
		if in.Generation != s.Generation {
			return nil, fmt.Errorf("%w: got %d, game is at %d", ErrStaleGeneration, in.Generation, s.Generation)
		}
	} else if in.Generation != 0 && in.Generation != s.Generation {
		return nil, fmt.Errorf("%w: got %d, game is at %d", ErrStaleGeneration, in.Generation, s.Generation)
	}
	if s.IsOver() && in.Type != IntentArtResult {
		return nil, ErrGameOver
	}
	if !in.Type.IsSystem() && in.PlayerIndex != 0 && in.PlayerIndex != 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, in.PlayerIndex)
	}

	next := s.Clone()
	var err error
	switch in.Type {
	case IntentArtResult:
		err = c.applyArt(next, in)
	case IntentSelectCard:
		err = c.selectCard(next, in)
	case IntentResolveCombat:
		err = c.resolveCombat(next)
	case IntentMulligan:
		err = c.mulligan(next, in)
	case IntentKeepHand:
		err = c.keepHand(next, in)
	case IntentSummonMonster:
		err = c.summon(next, in)
	case IntentBeginSwap:
		err = c.beginSwap(next, in)
	case IntentCancelSwap:
		err = c.cancelSwap(next, in)
	case IntentPlaySpell:
		err = c.playSpell(next, in)
	case IntentResolveSpell:
		err = c.resolveSpell(next)
	case IntentAttack:
		err = c.attack(next, in)
	case IntentEndTurn:
		err = c.endTurn(next, in)
	case IntentAdvanceTurn:
		err = c.advanceIntent(next)
	}
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = c.now()
	return next, nil
}

func (c *Controller) log(s *game.State, msg string) { s.AddLog(msg, c.now()) }

func (c *Controller) logf(s *game.State, format string, args ...any) {
	c.log(s, fmt.Sprintf(format, args...))
}

func notAllowed(in Intent, phase game.Phase) error {
	return fmt.Errorf("%w: %s during %s", ErrIntentNotAllowed, in.Type, phase)
}

// requireTurn checks that the intent comes from the seat bound to the
// current phase.
func requireTurn(s *game.State, in Intent, phases ...game.Phase) error {
	ok := false
	for _, p := range phases {
		if s.Phase == p {
			ok = true
			break
		}
	}
	if !ok {
		return notAllowed(in, s.Phase)
	}
	if !game.CanAct(s, in.PlayerIndex) {
		return fmt.Errorf("%w: player %d during %s", ErrNotYourTurn, in.PlayerIndex, s.Phase)
	}
	return nil
}

// takeFromHand removes id from the hand of player idx.
func takeFromHand(s *game.State, idx int, id string) (game.Card, error) {
	hand, card, ok := game.RemoveCard(s.Players[idx].Hand, id)
	if !ok {
		return game.Card{}, fmt.Errorf("%w: %q not in hand of player %d", ErrCardNotFound, id, idx)
	}
	s.Players[idx].Hand = hand
	return card, nil
}

// peekHand returns the hand card id of player idx without removing it.
func peekHand(s *game.State, idx int, id string) (game.Card, error) {
	i := game.IndexOfCard(s.Players[idx].Hand, id)
	if i < 0 {
		return game.Card{}, fmt.Errorf("%w: %q not in hand of player %d", ErrCardNotFound, id, idx)
	}
	return s.Players[idx].Hand[i], nil
}

func (c *Controller) discard(s *game.State, card game.Card) {
	card.Owner = ""
	s.DiscardPile = append(s.DiscardPile, card)
}

// finish moves the game to game_over with out.
func (c *Controller) finish(s *game.State, out Outcome) {
	s.Phase = game.PhaseGameOver
	switch out.Kind {
	case OutcomeDraw:
		s.Draw = true
		s.Winner = nil
	case OutcomeWinner:
		w := out.Winner
		s.Winner = &w
	}
}
