package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/edgecount/edgecount/internal/betting"
	"github.com/edgecount/edgecount/internal/randutil"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/sessionid"
	"github.com/edgecount/edgecount/internal/strategy"
	"github.com/edgecount/edgecount/protocol"
)

// DefaultTTL is how long an idle session survives before the sweeper
// removes it.
const DefaultTTL = 30 * time.Minute

// DefaultBankroll is used when start_session omits a bankroll.
const DefaultBankroll = 10000

// sweepInterval is how often expired sessions are collected.
const sweepInterval = time.Minute

// entry pairs a session with its operation lock and idle timestamp.
// The lock serialises operations; a contended lock rejects the later
// caller with SESSION_BUSY instead of queueing.
type entry struct {
	mu       sync.Mutex
	session  *Session
	lastUsed time.Time
}

// Manager owns the session table: creation, lookup, per-session
// serialisation and idle expiry.
type Manager struct {
	log      zerolog.Logger
	clock    quartz.Clock
	idgen    *sessionid.Generator
	ttl      time.Duration
	profiles map[string]rules.GameRules // named rule sets beyond the built-in presets

	mu       sync.RWMutex
	sessions map[string]*entry
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithClock injects a clock, real or mock.
func WithClock(clock quartz.Clock) ManagerOption {
	return func(m *Manager) { m.clock = clock }
}

// WithTTL overrides the idle-session lifetime.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

// WithIDSource injects the session-ID randomness for deterministic tests.
func WithIDSource(src sessionid.RandSource) ManagerOption {
	return func(m *Manager) { m.idgen = sessionid.NewGenerator(src) }
}

// WithProfiles registers extra named rule sets, typically loaded from an
// HCL profile file. They shadow the built-in presets on name collision.
func WithProfiles(profiles map[string]rules.GameRules) ManagerOption {
	return func(m *Manager) { m.profiles = profiles }
}

// NewManager creates an empty session table.
func NewManager(logger zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		log:      logger.With().Str("component", "session-manager").Logger(),
		clock:    quartz.NewReal(),
		idgen:    sessionid.NewGenerator(nil),
		ttl:      DefaultTTL,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates a session from a start_session request.
func (m *Manager) Start(req *protocol.Request) (*protocol.StartSessionResult, error) {
	gameRules, err := m.rulesFromRequest(req)
	if err != nil {
		return nil, err
	}

	bankroll := req.Bankroll
	if bankroll == 0 {
		bankroll = DefaultBankroll
	}
	seed := randutil.NewSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	margin := 0.0
	if req.Rules != nil && req.Rules.DeviationMargin != nil {
		margin = *req.Rules.DeviationMargin
	}

	id := m.idgen.Generate()
	sess, err := New(id, Config{
		Mode:     req.Mode,
		Bankroll: bankroll,
		Rules:    gameRules,
		Betting:  bettingFromRequest(req.Rules),
		Margin:   margin,
		Seed:     seed,
	}, m.log)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = &entry{session: sess, lastUsed: m.clock.Now()}
	m.mu.Unlock()

	return &protocol.StartSessionResult{
		SessionID: id,
		Mode:      sess.Mode(),
		Bankroll:  bankroll,
		Status:    StateIdle.String(),
		Seed:      seed,
		Rules:     gameRules.String(),
	}, nil
}

// rulesFromRequest resolves the profile name and applies field overrides.
func (m *Manager) rulesFromRequest(req *protocol.Request) (rules.GameRules, error) {
	r := rules.Default()
	if req.Profile != "" {
		if custom, ok := m.profiles[req.Profile]; ok {
			r = custom
		} else {
			var err error
			r, err = rules.Preset(req.Profile)
			if err != nil {
				return rules.GameRules{}, err
			}
		}
	}

	rc := req.Rules
	if rc == nil {
		return r, nil
	}
	if rc.NumDecks != nil {
		r.NumDecks = *rc.NumDecks
	}
	if rc.Penetration != nil {
		r.Penetration = *rc.Penetration
	}
	if rc.DealerStandsSoft17 != nil {
		r.DealerStandsSoft17 = *rc.DealerStandsSoft17
	}
	if rc.DoubleAfterSplit != nil {
		r.DoubleAfterSplit = *rc.DoubleAfterSplit
	}
	if rc.ResplitAces != nil {
		r.ResplitAces = *rc.ResplitAces
	}
	if rc.MaxSplits != nil {
		r.MaxSplits = *rc.MaxSplits
	}
	if rc.SurrenderAllowed != nil {
		r.SurrenderAllowed = *rc.SurrenderAllowed
	}
	if rc.Double9To11Only != nil {
		r.Double9To11Only = *rc.Double9To11Only
	}
	if rc.Double10And11Only != nil {
		r.Double10And11Only = *rc.Double10And11Only
	}
	if rc.BlackjackPayout != nil {
		r.BlackjackPayout = *rc.BlackjackPayout
	}
	if rc.TableMin != nil {
		r.TableMin = *rc.TableMin
	}
	if rc.TableMax != nil {
		r.TableMax = *rc.TableMax
	}
	return r, nil
}

func bettingFromRequest(rc *protocol.RulesConfig) betting.Config {
	cfg := betting.DefaultConfig()
	if rc == nil {
		return cfg
	}
	if rc.KellyFraction != nil {
		cfg.KellyFraction = *rc.KellyFraction
	}
	if rc.MaxBettingPenetration != nil {
		cfg.MaxBettingPenetration = *rc.MaxBettingPenetration
	}
	if rc.WongOutThreshold != nil {
		cfg.WongOutThreshold = *rc.WongOutThreshold
	}
	if rc.FlatBetting != nil {
		cfg.FlatBetting = *rc.FlatBetting
	}
	return cfg
}

// acquire looks up a session and takes its operation lock. The caller
// must release the entry when done.
func (m *Manager) acquire(id string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, protocol.Errorf(protocol.ErrSessionGone, "no session %q", id)
	}
	if !e.mu.TryLock() {
		return nil, protocol.Errorf(protocol.ErrSessionBusy, "session %q has an operation in flight", id)
	}
	e.lastUsed = m.clock.Now()
	return e, nil
}

// End removes a session. Idempotence is not offered: a second End on the
// same ID reports SESSION_GONE.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return protocol.Errorf(protocol.ErrSessionGone, "no session %q", id)
	}
	delete(m.sessions, id)
	m.log.Info().Str("session_id", id).
		Int("hands_played", e.session.Stats().Hands).
		Float64("net", e.session.Stats().Net).
		Msg("session ended")
	return nil
}

// Status reports a session.
func (m *Manager) Status(id string) (*protocol.StatusResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	status := e.session.Status()
	return &status, nil
}

// Shuffle resets a session's shoe. A positive burn count marks that many
// unseen cards as already dealt, for joining a real shoe late.
func (m *Manager) Shuffle(id string, burn int) (*protocol.ShuffleResult, error) {
	if burn < 0 {
		return nil, protocol.Errorf(protocol.ErrBadInput, "burn count must be non-negative, got %d", burn)
	}
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	if burn > 0 {
		return e.session.ShuffleWithBurn(burn)
	}
	return e.session.Shuffle()
}

// Deal starts an auto-mode round.
func (m *Manager) Deal(id string) (*protocol.DealResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.Deal()
}

// Action applies a player action by its wire name.
func (m *Manager) Action(id, action string) (*protocol.ActionResult, error) {
	parsed, err := strategy.ParseAction(action)
	if err != nil {
		return nil, err
	}
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.Action(parsed)
}

// Observe forwards observed cards into a shadow session's count.
func (m *Manager) Observe(id string, cards []string) (*protocol.ObserveResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.Observe(cards)
}

// QueryDecision answers a shadow strategy query.
func (m *Manager) QueryDecision(id string, playerCards []string, dealerUp string) (*protocol.QueryDecisionResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.QueryDecision(playerCards, dealerUp)
}

// QueryBet sizes the next wager for a session.
func (m *Manager) QueryBet(id string) (*protocol.QueryBetResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.QueryBet(), nil
}

// QueryInsurance answers the insurance question for a session.
func (m *Manager) QueryInsurance(id, dealerUp string) (*protocol.QueryInsureResult, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()
	return e.session.QueryInsurance(dealerUp)
}

// Handle dispatches one request envelope. Errors become structured
// responses; nothing panics past this point.
func (m *Manager) Handle(req *protocol.Request) *protocol.Response {
	result, err := m.dispatch(req)
	resp := &protocol.Response{Op: req.Op, RequestID: req.RequestID}
	if err != nil {
		resp.Error = protocol.ErrorInfoFrom(err)
		return resp
	}
	resp.OK = true
	resp.Result = result
	return resp
}

func (m *Manager) dispatch(req *protocol.Request) (any, error) {
	switch req.Op {
	case protocol.OpStartSession:
		return m.Start(req)
	case protocol.OpEndSession:
		return struct{}{}, m.End(req.SessionID)
	case protocol.OpSessionStatus:
		return m.Status(req.SessionID)
	case protocol.OpShuffle:
		return m.Shuffle(req.SessionID, req.Burn)
	case protocol.OpDeal:
		return m.Deal(req.SessionID)
	case protocol.OpAction:
		return m.Action(req.SessionID, req.Action)
	case protocol.OpObserve:
		return m.Observe(req.SessionID, req.Cards)
	case protocol.OpQueryDecision:
		return m.QueryDecision(req.SessionID, req.PlayerCards, req.DealerUp)
	case protocol.OpQueryBet:
		return m.QueryBet(req.SessionID)
	case protocol.OpQueryInsure:
		return m.QueryInsurance(req.SessionID, req.DealerUp)
	default:
		return nil, protocol.Errorf(protocol.ErrBadInput, "unknown operation %q", req.Op)
	}
}

// ActiveSessions returns how many sessions are alive.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle past the TTL and returns how many died.
func (m *Manager) Sweep() int {
	cutoff := m.clock.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(m.sessions, id)
			removed++
			m.log.Info().Str("session_id", id).Msg("idle session expired")
		}
	}
	return removed
}

// Run sweeps expired sessions until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	ticker := m.clock.TickerFunc(ctx, sweepInterval, func() error {
		m.Sweep()
		return nil
	}, "session-sweep")
	if err := ticker.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
