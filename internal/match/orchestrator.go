package match

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
	"github.com/duelforge/duel-server-go/internal/bot"
	"github.com/duelforge/duel-server-go/internal/cards"
)

const (
	defaultBotStepLimit = 32
	defaultIdemCapacity = 128
	defaultBotTimeout   = 3 * time.Second
)

// Options tunes orchestrator limits. Zero values take the defaults.
type Options struct {
	BotStepLimit  int
	IdemCapacity  int
	BotTimeout    time.Duration
	BotDifficulty bot.Difficulty
}

// Orchestrator owns every live match: it serializes actions per match,
// deduplicates retries, runs bot turns, and hands out sanitized views.
// The battle state inside an entry is only ever replaced wholesale with a
// resolver's output, never mutated in place.
type Orchestrator struct {
	catalog  *cards.Catalog
	proposer bot.Proposer
	log      *zap.Logger
	opts     Options

	mu      sync.RWMutex
	matches map[string]*matchEntry

	notify func(matchID string, version int64, views map[battle.Side]battle.View)
}

type matchEntry struct {
	mu         sync.Mutex
	state      *battle.BattleState
	idem       *idempotencyCache
	botSide    battle.Side
	lastActive time.Time
}

// CreateParams describes a new match. BotSide empty means two human seats.
// Seed zero draws a random seed.
type CreateParams struct {
	MatchID string      `json:"match_id"`
	DeckP1  []string    `json:"deck_p1"`
	DeckP2  []string    `json:"deck_p2"`
	BotSide battle.Side `json:"bot_side"`
	Seed    int64       `json:"seed"`
}

// ActionResult is the committed outcome of one client action, including any
// bot turns that ran on its heels. Rejection set means nothing changed.
type ActionResult struct {
	MatchID   string            `json:"match_id"`
	Version   int64             `json:"version"`
	Events    []battle.Event    `json:"events,omitempty"`
	Rejection *battle.Rejection `json:"rejection,omitempty"`
	Ended     bool              `json:"ended"`
	Winner    battle.Side       `json:"winner,omitempty"`
}

// NewOrchestrator builds the match registry.
func NewOrchestrator(catalog *cards.Catalog, proposer bot.Proposer, log *zap.Logger, opts Options) *Orchestrator {
	if opts.BotStepLimit <= 0 {
		opts.BotStepLimit = defaultBotStepLimit
	}
	if opts.IdemCapacity <= 0 {
		opts.IdemCapacity = defaultIdemCapacity
	}
	if opts.BotTimeout <= 0 {
		opts.BotTimeout = defaultBotTimeout
	}
	if !opts.BotDifficulty.Valid() {
		opts.BotDifficulty = bot.DifficultyNormal
	}
	return &Orchestrator{
		catalog:  catalog,
		proposer: proposer,
		log:      log,
		opts:     opts,
		matches:  make(map[string]*matchEntry),
	}
}

// SetNotifier registers a callback invoked after every committed transition
// with both sides' sanitized views. The callback runs while the match entry
// is locked and must not call back into the orchestrator for that match.
// Must be set before matches are created.
func (o *Orchestrator) SetNotifier(fn func(matchID string, version int64, views map[battle.Side]battle.View)) {
	o.notify = fn
}

// CreateMatch builds the initial battle state from catalog deck lists and
// registers it. When the bot side owns the opening turn it plays immediately.
func (o *Orchestrator) CreateMatch(ctx context.Context, params CreateParams) (ActionResult, error) {
	deck1, err := o.catalog.Deck(params.DeckP1)
	if err != nil {
		return ActionResult{}, errorf(CodeValidationRejected, "deck for P1: %v", err)
	}
	deck2, err := o.catalog.Deck(params.DeckP2)
	if err != nil {
		return ActionResult{}, errorf(CodeValidationRejected, "deck for P2: %v", err)
	}
	if params.BotSide != "" && !params.BotSide.Valid() {
		return ActionResult{}, errorf(CodeValidationRejected, "unknown bot side %q", params.BotSide)
	}

	matchID := params.MatchID
	if matchID == "" {
		matchID = uuid.New().String()
	}

	var setupOpts []battle.Option
	if params.Seed != 0 {
		setupOpts = append(setupOpts, battle.WithSeed(params.Seed))
	}
	state, events, err := battle.NewBattle(matchID, map[battle.Side][]cards.Card{
		battle.SideP1: deck1,
		battle.SideP2: deck2,
	}, setupOpts...)
	if err != nil {
		return ActionResult{}, errorf(CodeValidationRejected, "create battle: %v", err)
	}

	entry := &matchEntry{
		state:      state,
		idem:       newIdempotencyCache(o.opts.IdemCapacity),
		botSide:    params.BotSide,
		lastActive: time.Now(),
	}

	o.mu.Lock()
	if _, exists := o.matches[matchID]; exists {
		o.mu.Unlock()
		return ActionResult{}, errorf(CodeValidationRejected, "match %s already exists", matchID)
	}
	o.matches[matchID] = entry
	o.mu.Unlock()

	o.log.Info("match created",
		zap.String("match_id", matchID),
		zap.String("bot_side", string(params.BotSide)),
		zap.Int64("seed", state.Seed),
	)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.botSide != "" && state.Turn.Owner == entry.botSide {
		events = append(events, o.runBotTurnLocked(ctx, matchID, entry)...)
	}
	o.notifyLocked(matchID, entry)

	return resultLocked(matchID, entry, events), nil
}

// ApplyAction resolves one action against a match. Requests carrying an
// idempotency key seen before replay the stored result without touching
// state. After a committed player action the bot side plays out its turns.
func (o *Orchestrator) ApplyAction(ctx context.Context, matchID, idemKey string, action battle.Action) (ActionResult, error) {
	entry, err := o.entry(matchID)
	if err != nil {
		return ActionResult{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastActive = time.Now()

	if idemKey != "" {
		if cached, ok := entry.idem.get(idemKey); ok {
			o.log.Debug("idempotent replay",
				zap.String("match_id", matchID),
				zap.String("idempotency_key", idemKey),
			)
			return cached, nil
		}
	}

	next, events, rej, ierr := o.safeResolve(matchID, entry.state, action)
	if ierr != nil {
		return ActionResult{}, ierr
	}
	if rej != nil {
		res := resultLocked(matchID, entry, nil)
		res.Rejection = rej
		entry.idem.put(idemKey, res)
		return res, nil
	}

	entry.state = next

	if entry.botSide != "" && !next.Ended() && next.Turn.Owner == entry.botSide {
		events = append(events, o.runBotTurnLocked(ctx, matchID, entry)...)
	}

	res := resultLocked(matchID, entry, events)
	entry.idem.put(idemKey, res)
	o.notifyLocked(matchID, entry)
	return res, nil
}

// View returns the sanitized projection for one side.
func (o *Orchestrator) View(matchID string, viewer battle.Side) (battle.View, error) {
	if !viewer.Valid() {
		return battle.View{}, errorf(CodeValidationRejected, "unknown viewer %q", viewer)
	}
	entry, err := o.entry(matchID)
	if err != nil {
		return battle.View{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return battle.BuildView(entry.state, viewer), nil
}

// Abandon removes a match outright.
func (o *Orchestrator) Abandon(matchID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.matches[matchID]; !ok {
		return ErrNotFound
	}
	delete(o.matches, matchID)
	o.log.Info("match abandoned", zap.String("match_id", matchID))
	return nil
}

// SweepIdle drops matches with no activity for longer than maxIdle and
// returns how many were removed. Meant to run on a ticker.
func (o *Orchestrator) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	o.mu.Lock()
	defer o.mu.Unlock()
	removed := 0
	for id, entry := range o.matches {
		entry.mu.Lock()
		stale := entry.lastActive.Before(cutoff)
		entry.mu.Unlock()
		if stale {
			delete(o.matches, id)
			removed++
			o.log.Info("idle match swept", zap.String("match_id", id))
		}
	}
	return removed
}

// Len reports the number of live matches.
func (o *Orchestrator) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.matches)
}

func (o *Orchestrator) entry(matchID string) (*matchEntry, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	entry, ok := o.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

// safeResolve shields the orchestrator from panics inside resolution. On a
// panic the pre-action state is intact, because resolvers work on a clone.
func (o *Orchestrator) safeResolve(matchID string, state *battle.BattleState, action battle.Action) (next *battle.BattleState, events []battle.Event, rej *battle.Rejection, ierr *Error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("panic during resolution",
				zap.String("match_id", matchID),
				zap.String("action", string(action.Type)),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			next, events, rej = nil, nil, nil
			ierr = errorf(CodeInternalError, "resolution failed for %s", action.Type)
		}
	}()
	next, events, rej = battle.Resolve(state, action)
	return next, events, rej, nil
}

// runBotTurnLocked plays the bot side until the turn passes back or the match
// ends. Hitting the step limit stops mid-turn without forcing anything: the
// turn stays with the bot and control returns to the caller. One illegal
// proposal or upstream failure is absorbed by substituting a forced END_TURN;
// a second one gives up.
func (o *Orchestrator) runBotTurnLocked(ctx context.Context, matchID string, entry *matchEntry) []battle.Event {
	var all []battle.Event
	substituted := false

	for steps := 0; ; steps++ {
		s := entry.state
		if s.Ended() || s.Turn.Owner != entry.botSide {
			return all
		}
		if steps >= o.opts.BotStepLimit {
			o.log.Warn("bot step limit reached, stopping mid-turn",
				zap.String("match_id", matchID),
				zap.Int("steps", steps),
			)
			return all
		}

		var action battle.Action
		forced := false

		pctx, cancel := context.WithTimeout(ctx, o.opts.BotTimeout)
		proposed, err := o.proposer.Propose(pctx, s.Clone(), o.opts.BotDifficulty)
		cancel()
		if err != nil {
			o.log.Warn("bot proposer unavailable, forcing end of turn",
				zap.String("match_id", matchID),
				zap.String("code", string(CodeUpstreamUnavailable)),
				zap.Error(err),
			)
			action = battle.Action{Type: battle.ActionEndTurn, Actor: entry.botSide}
			forced = true
		} else {
			action = proposed
			action.Actor = entry.botSide
		}

		next, events, rej, ierr := o.safeResolve(matchID, s, action)
		if ierr != nil {
			return all
		}
		if rej != nil {
			if forced || substituted {
				o.log.Error("bot turn stuck, leaving turn as is",
					zap.String("match_id", matchID),
					zap.String("code", string(CodeBotProposalInvalid)),
					zap.String("rejection", rej.String()),
				)
				return all
			}
			o.log.Warn("bot proposal rejected, substituting end of turn",
				zap.String("match_id", matchID),
				zap.String("code", string(CodeBotProposalInvalid)),
				zap.String("action", string(action.Type)),
				zap.String("rejection", rej.String()),
			)
			substituted = true
			all = append(all, battle.Event{
				Type: battle.EventBotProposalSubstituted,
				Payload: map[string]any{
					"side":      entry.botSide,
					"action":    action.Type,
					"rejection": rej.Code,
				},
			})
			next, events, rej, ierr = o.safeResolve(matchID, s, battle.Action{
				Type:  battle.ActionEndTurn,
				Actor: entry.botSide,
			})
			if ierr != nil || rej != nil {
				return all
			}
		}

		entry.state = next
		all = append(all, events...)
	}
}

func (o *Orchestrator) notifyLocked(matchID string, entry *matchEntry) {
	if o.notify == nil {
		return
	}
	o.notify(matchID, entry.state.Version, map[battle.Side]battle.View{
		battle.SideP1: battle.BuildView(entry.state, battle.SideP1),
		battle.SideP2: battle.BuildView(entry.state, battle.SideP2),
	})
}

func resultLocked(matchID string, entry *matchEntry, events []battle.Event) ActionResult {
	return ActionResult{
		MatchID: matchID,
		Version: entry.state.Version,
		Events:  events,
		Ended:   entry.state.Ended(),
		Winner:  entry.state.Winner,
	}
}
