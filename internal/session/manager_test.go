package session

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecount/edgecount/protocol"
)

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	return NewManager(zerolog.Nop(), opts...)
}

func startShadow(t *testing.T, m *Manager) string {
	t.Helper()
	result, err := m.Start(&protocol.Request{Op: protocol.OpStartSession, Mode: protocol.ModeShadow})
	require.NoError(t, err)
	return result.SessionID
}

func TestStartDefaults(t *testing.T) {
	m := newTestManager(t)
	result, err := m.Start(&protocol.Request{Mode: protocol.ModeShadow})
	require.NoError(t, err)

	assert.Len(t, result.SessionID, 26)
	assert.Equal(t, protocol.ModeShadow, result.Mode)
	assert.Equal(t, float64(DefaultBankroll), result.Bankroll)
	assert.Equal(t, "IDLE", result.Status)
	assert.NotZero(t, result.Seed)
	assert.Contains(t, result.Rules, "6D")
	assert.Equal(t, 1, m.ActiveSessions())
}

func TestStartWithSeedAndOverrides(t *testing.T) {
	m := newTestManager(t)
	seed := int64(7)
	decks := 8
	payout := 1.2

	result, err := m.Start(&protocol.Request{
		Mode:     protocol.ModeAuto,
		Bankroll: 500,
		Seed:     &seed,
		Rules:    &protocol.RulesConfig{NumDecks: &decks, BlackjackPayout: &payout},
	})
	require.NoError(t, err)
	assert.Equal(t, seed, result.Seed)
	assert.Equal(t, 500.0, result.Bankroll)
	assert.Contains(t, result.Rules, "8D")
	assert.Contains(t, result.Rules, "BJ=1.2")
}

func TestStartWithProfile(t *testing.T) {
	m := newTestManager(t)
	result, err := m.Start(&protocol.Request{Mode: protocol.ModeShadow, Profile: "vegas_downtown"})
	require.NoError(t, err)
	assert.Contains(t, result.Rules, "H17")
	assert.Contains(t, result.Rules, "2D")

	_, err = m.Start(&protocol.Request{Mode: protocol.ModeShadow, Profile: "monte_carlo"})
	assert.ErrorIs(t, err, protocol.ErrBadRules)
}

func TestStartRejectsInvalidRules(t *testing.T) {
	m := newTestManager(t)
	decks := 5
	_, err := m.Start(&protocol.Request{
		Mode:  protocol.ModeShadow,
		Rules: &protocol.RulesConfig{NumDecks: &decks},
	})
	assert.ErrorIs(t, err, protocol.ErrBadRules)
	assert.Equal(t, 0, m.ActiveSessions())
}

func TestEndSessionLifecycle(t *testing.T) {
	m := newTestManager(t)
	id := startShadow(t, m)

	_, err := m.Status(id)
	require.NoError(t, err)

	require.NoError(t, m.End(id))
	assert.Equal(t, 0, m.ActiveSessions())

	_, err = m.Status(id)
	assert.ErrorIs(t, err, protocol.ErrSessionGone)
	assert.ErrorIs(t, m.End(id), protocol.ErrSessionGone)
}

func TestUnknownSession(t *testing.T) {
	m := newTestManager(t)
	for _, op := range []func() error{
		func() error { _, err := m.Deal("missing"); return err },
		func() error { _, err := m.Action("missing", "HIT"); return err },
		func() error { _, err := m.Observe("missing", []string{"Th"}); return err },
		func() error { _, err := m.QueryBet("missing"); return err },
		func() error { _, err := m.Shuffle("missing", 0); return err },
	} {
		assert.ErrorIs(t, op(), protocol.ErrSessionGone)
	}
}

func TestShuffleWithBurn(t *testing.T) {
	m := newTestManager(t)
	id := startShadow(t, m)

	result, err := m.Shuffle(id, 52)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count.RunningCount)
	assert.Equal(t, 52, result.Count.CardsDealt)

	_, err = m.Shuffle(id, -1)
	assert.ErrorIs(t, err, protocol.ErrBadInput)
}

func TestSessionBusy(t *testing.T) {
	m := newTestManager(t)
	id := startShadow(t, m)

	m.mu.RLock()
	e := m.sessions[id]
	m.mu.RUnlock()
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := m.Status(id)
	assert.ErrorIs(t, err, protocol.ErrSessionBusy)
}

func TestActionParseRejected(t *testing.T) {
	m := newTestManager(t)
	seed := int64(1)
	result, err := m.Start(&protocol.Request{Mode: protocol.ModeAuto, Seed: &seed})
	require.NoError(t, err)

	_, err = m.Action(result.SessionID, "FOLD")
	assert.ErrorIs(t, err, protocol.ErrBadInput)
}

func TestHandleEnvelope(t *testing.T) {
	m := newTestManager(t)

	resp := m.Handle(&protocol.Request{Op: protocol.OpStartSession, RequestID: "r1", Mode: protocol.ModeShadow})
	require.True(t, resp.OK)
	assert.Equal(t, protocol.OpStartSession, resp.Op)
	assert.Equal(t, "r1", resp.RequestID)
	started, ok := resp.Result.(*protocol.StartSessionResult)
	require.True(t, ok)

	resp = m.Handle(&protocol.Request{
		Op:        protocol.OpObserve,
		SessionID: started.SessionID,
		Cards:     []string{"2h", "Th"},
	})
	require.True(t, resp.OK)
	observed, ok := resp.Result.(*protocol.ObserveResult)
	require.True(t, ok)
	assert.Equal(t, 2, observed.Count.CardsDealt)

	resp = m.Handle(&protocol.Request{Op: protocol.OpSessionStatus, SessionID: "nope", RequestID: "r2"})
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SESSION_GONE", resp.Error.Code)
	assert.Equal(t, "r2", resp.RequestID)

	resp = m.Handle(&protocol.Request{Op: "teleport"})
	assert.False(t, resp.OK)
	assert.Equal(t, "BAD_INPUT", resp.Error.Code)
}

func TestHandleFullAutoRound(t *testing.T) {
	m := newTestManager(t)
	seed := int64(99)
	flat := true
	started, err := m.Start(&protocol.Request{
		Mode:  protocol.ModeAuto,
		Seed:  &seed,
		Rules: &protocol.RulesConfig{FlatBetting: &flat},
	})
	require.NoError(t, err)

	deal, err := m.Deal(started.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, deal.Wager)

	if !deal.IsBlackjack {
		for {
			result, err := m.Action(started.SessionID, "STAND")
			require.NoError(t, err)
			if result.State == StateSettled.String() {
				require.NotEmpty(t, result.Outcomes)
				break
			}
		}
	}

	status, err := m.Status(started.SessionID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, status.HandsPlayed, 1)
}

func TestIdleSessionsExpire(t *testing.T) {
	mock := quartz.NewMock(t)
	m := newTestManager(t, WithClock(mock), WithTTL(30*time.Minute))

	stale := startShadow(t, m)
	mock.Advance(20 * time.Minute)

	fresh := startShadow(t, m)
	// Touching the stale session resets its idle clock
	_, err := m.Status(stale)
	require.NoError(t, err)

	mock.Advance(25 * time.Minute)
	assert.Equal(t, 0, m.Sweep(), "neither session has been idle for the TTL")

	mock.Advance(10 * time.Minute)
	assert.Equal(t, 2, m.Sweep())

	_, err = m.Status(stale)
	assert.ErrorIs(t, err, protocol.ErrSessionGone)
	_, err = m.Status(fresh)
	assert.ErrorIs(t, err, protocol.ErrSessionGone)
}
