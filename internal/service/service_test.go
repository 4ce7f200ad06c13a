package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/arcane-clash/internal/artwork"
	"github.com/ericogr/arcane-clash/internal/catalog"
	"github.com/ericogr/arcane-clash/internal/engine"
	"github.com/ericogr/arcane-clash/internal/game"
	"github.com/ericogr/arcane-clash/internal/session"
)

type stubArt struct {
	mu    sync.Mutex
	calls int
}

func (a *stubArt) Resolve(_ context.Context, c game.Card) artwork.Result {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	return artwork.Result{ImageRef: "/api/assets/cards/brute.png", Description: "Big."}
}

type recorder struct {
	mu     sync.Mutex
	states []*game.State
	ended  []*game.State
}

func (r *recorder) Publish(s *game.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) UpdateStatsOnGameEnd(s *game.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = append(r.ended, s)
	return nil
}

type delays struct {
	mu  sync.Mutex
	got []time.Duration
}

func (d *delays) schedule(delay time.Duration, f func()) {
	d.mu.Lock()
	d.got = append(d.got, delay)
	d.mu.Unlock()
	f()
}

// bruteCatalog yields identical monsters that kill each other every round
// and deal 50 damage to the opposing player.
func bruteCatalog() catalog.Provider {
	return catalog.NewStatic([]game.Template{
		{Title: "Brute", CardType: game.CardTypeMonster, Melee: 50, HP: 10, Copies: 20},
	})
}

type fixture struct {
	svc    *GameService
	art    *stubArt
	rec    *recorder
	delays *delays
}

func newFixture(t *testing.T, p catalog.Provider) *fixture {
	t.Helper()
	f := &fixture{art: &stubArt{}, rec: &recorder{}, delays: &delays{}}
	svc, err := New(Deps{
		Catalog:  p,
		Sessions: session.NewMemoryStore(),
		Art:      f.art,
		Stats:    f.rec,
		Publish:  f.rec,
		Rand:     rand.New(rand.NewSource(3)),
		Schedule: f.delays.schedule,
		Go:       func(fn func()) { fn() },
	}, Options{CombatDelay: 1500 * time.Millisecond})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) create(t *testing.T) *game.State {
	t.Helper()
	st, err := f.svc.CreateGame(context.Background(), CreateGameRequest{Player1Name: "Ana", Player2Name: "Bo"})
	require.NoError(t, err)
	cur, err := f.svc.GetGame(context.Background(), st.ID)
	require.NoError(t, err)
	return cur
}

func selectFirst(t *testing.T, svc *GameService, st *game.State, idx int) *game.State {
	t.Helper()
	next, err := svc.Submit(context.Background(), st.ID, engine.Intent{
		Type: engine.IntentSelectCard, PlayerIndex: idx, CardID: st.Players[idx].Hand[0].ID,
	})
	require.NoError(t, err)
	return next
}

func TestCreateGameLoadsArtAndStarts(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	st := f.create(t)

	assert.Equal(t, game.PhasePlayer1Select, st.Phase)
	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, "Ana", st.Players[0].Name)
	assert.Len(t, st.Players[0].Hand, 5)
	assert.Len(t, st.Players[1].Hand, 5)
	assert.Len(t, st.Deck, 10)
	assert.Equal(t, 20, f.art.calls)
	for _, lc := range st.AllCards() {
		assert.True(t, lc.Card.ArtLoaded)
		assert.Equal(t, "Big.", lc.Card.Description)
	}
	assert.NotEmpty(t, f.rec.states)
	assert.NoError(t, st.Validate())
}

func TestSelectFlowPlaysToDraw(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	ctx := context.Background()
	st := f.create(t)

	st = selectFirst(t, f.svc, st, 0)
	assert.Equal(t, game.PhasePlayer2Select, st.Phase)
	st = selectFirst(t, f.svc, st, 1)
	assert.Equal(t, game.PhaseCombatAnimation, st.Phase)

	// The combat animation resolves through the scheduler with the delay.
	assert.Contains(t, f.delays.got, 1500*time.Millisecond)
	st, err := f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayer2Select, st.Phase)
	assert.Equal(t, 1, st.CurrentPlayerIndex)
	assert.Equal(t, 50, st.Players[0].HP)
	assert.Equal(t, 50, st.Players[1].HP)
	assert.Len(t, st.DiscardPile, 2)
	assert.Len(t, st.Players[0].Hand, 5)

	st = selectFirst(t, f.svc, st, 1)
	st = selectFirst(t, f.svc, st, 0)
	st, err = f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseGameOver, st.Phase)
	assert.True(t, st.Draw)
	assert.Nil(t, st.Winner)
	require.Len(t, f.rec.ended, 1)

	_, err = f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentSelectCard, PlayerIndex: 0, CardID: st.Players[0].Hand[0].ID})
	assert.ErrorIs(t, err, engine.ErrGameOver)
	assert.Len(t, f.rec.ended, 1)
}

func TestSubmitRejections(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	ctx := context.Background()
	st := f.create(t)

	_, err := f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentResolveCombat})
	assert.ErrorIs(t, err, ErrSystemIntent)

	_, err = f.svc.Submit(ctx, "missing", engine.Intent{Type: engine.IntentSelectCard})
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentSelectCard, PlayerIndex: 1, CardID: st.Players[1].Hand[0].ID})
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)

	after, err := f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.Phase, after.Phase)
	assert.Equal(t, st.Players, after.Players)
}

func TestRestartBumpsGenerationAndDropsStaleArt(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	ctx := context.Background()
	st := f.create(t)
	st = selectFirst(t, f.svc, st, 0)

	restarted, err := f.svc.Restart(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, restarted.ID)
	assert.Equal(t, 2, restarted.Generation)
	assert.Equal(t, st.Players[0].ID, restarted.Players[0].ID)
	assert.Equal(t, "Bo", restarted.Players[1].Name)

	cur, err := f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayer1Select, cur.Phase)
	assert.Nil(t, cur.SelectedCardP1)

	// A late art response from generation 1 changes nothing.
	f.svc.dispatch(st.ID, engine.Intent{Type: engine.IntentArtResult, Generation: 1, CardID: cur.Players[0].Hand[0].ID, ImageRef: "old"})
	again, err := f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, cur.Players[0].Hand[0].ImageRef, again.Players[0].Hand[0].ImageRef)

	_, err = f.svc.Restart(ctx, "missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestCreateGameFailures(t *testing.T) {
	f := newFixture(t, catalog.NewStatic(nil))
	_, err := f.svc.CreateGame(context.Background(), CreateGameRequest{})
	assert.ErrorIs(t, err, ErrCannotStartGame)
	assert.ErrorIs(t, err, game.ErrCatalog)

	f = newFixture(t, bruteCatalog())
	_, err = f.svc.CreateGame(context.Background(), CreateGameRequest{Player1Name: strings.Repeat("x", 33)})
	assert.ErrorIs(t, err, ErrPlayerNameTooLong)

	_, err = f.svc.CreateGame(context.Background(), CreateGameRequest{Flow: "chaos"})
	assert.ErrorIs(t, err, ErrInvalidGameOptions)
}

func TestActionFlowGameStartsInMulligan(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	ctx := context.Background()
	st, err := f.svc.CreateGame(ctx, CreateGameRequest{Flow: game.FlowAction})
	require.NoError(t, err)

	cur, err := f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhaseMulligan, cur.Phase)

	_, err = f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentKeepHand, PlayerIndex: 0})
	require.NoError(t, err)
	cur, err = f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentKeepHand, PlayerIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayerAction, cur.Phase)

	cur, err = f.svc.Submit(ctx, st.ID, engine.Intent{Type: engine.IntentEndTurn, PlayerIndex: 0})
	require.NoError(t, err)
	// turn_resolution is advanced immediately by the service.
	assert.Equal(t, game.PhaseTurnResolution, cur.Phase)
	cur, err = f.svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlayerAction, cur.Phase)
	assert.Equal(t, 1, cur.CurrentPlayerIndex)
}

func TestAsyncArtLoading(t *testing.T) {
	svc, err := New(Deps{
		Catalog:  bruteCatalog(),
		Sessions: session.NewMemoryStore(),
		Art:      &stubArt{},
	}, Options{})
	require.NoError(t, err)

	st, err := svc.CreateGame(context.Background(), CreateGameRequest{})
	require.NoError(t, err)
	assert.Equal(t, game.PhaseLoadingArt, st.Phase)
	assert.Eventually(t, func() bool {
		cur, err := svc.GetGame(context.Background(), st.ID)
		return err == nil && cur.Phase == game.PhasePlayer1Select
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Deps{Sessions: session.NewMemoryStore()}, Options{})
	assert.Error(t, err)
	_, err = New(Deps{Catalog: bruteCatalog()}, Options{})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrGameNotFound))
}

// gatedPublisher holds the first publish after arm until hold is closed.
type gatedPublisher struct {
	mu      sync.Mutex
	states  []*game.State
	armed   bool
	entered chan struct{}
	hold    chan struct{}
}

func (p *gatedPublisher) arm() {
	p.mu.Lock()
	p.armed = true
	p.mu.Unlock()
}

func (p *gatedPublisher) Publish(s *game.State) {
	p.mu.Lock()
	if p.armed {
		p.armed = false
		p.mu.Unlock()
		close(p.entered)
		<-p.hold
		p.mu.Lock()
	}
	p.states = append(p.states, s)
	p.mu.Unlock()
}

func (p *gatedPublisher) last() *game.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[len(p.states)-1]
}

func artLoaded(st *game.State) int {
	n := 0
	for _, lc := range st.AllCards() {
		if lc.Card.ArtLoaded {
			n++
		}
	}
	return n
}

func TestPublishesArtResultsInCommitOrder(t *testing.T) {
	var pending []func()
	pub := &gatedPublisher{entered: make(chan struct{}), hold: make(chan struct{})}
	svc, err := New(Deps{
		Catalog:  bruteCatalog(),
		Sessions: session.NewMemoryStore(),
		Art:      &stubArt{},
		Publish:  pub,
		Rand:     rand.New(rand.NewSource(5)),
		Schedule: (&delays{}).schedule,
		Go:       func(fn func()) { pending = append(pending, fn) },
	}, Options{})
	require.NoError(t, err)

	ctx := context.Background()
	st, err := svc.CreateGame(ctx, CreateGameRequest{Player1Name: "Ana", Player2Name: "Bo"})
	require.NoError(t, err)
	require.Len(t, pending, 20)

	pub.arm()
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		pending[0]()
	}()
	<-pub.entered
	go func() {
		defer wg.Done()
		pending[1]()
	}()
	// Give the second art result time to overtake the first if it could.
	time.Sleep(50 * time.Millisecond)
	close(pub.hold)
	wg.Wait()

	stored, err := svc.GetGame(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, artLoaded(stored))
	assert.Equal(t, artLoaded(stored), artLoaded(pub.last()))
	assert.Equal(t, game.PhaseLoadingArt, pub.last().Phase)
}

func TestGameLocksArePruned(t *testing.T) {
	f := newFixture(t, bruteCatalog())
	st := f.create(t)
	st = selectFirst(t, f.svc, st, 0)
	selectFirst(t, f.svc, st, 1)
	_, err := f.svc.Restart(context.Background(), st.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.svc.locks.len())
}
