package sdk

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecount/edgecount/internal/server"
	"github.com/edgecount/edgecount/internal/session"
	"github.com/edgecount/edgecount/protocol"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	manager := session.NewManager(zerolog.Nop())
	srv := server.New("127.0.0.1:0", manager, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := Dial(ts.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestShadowFlow(t *testing.T) {
	client := newTestClient(t)

	started, err := client.StartSession(StartOptions{Mode: protocol.ModeShadow})
	require.NoError(t, err)
	assert.Len(t, started.SessionID, 26)

	observed, err := client.Observe(started.SessionID, []string{"2h", "3d", "4c"})
	require.NoError(t, err)
	assert.Equal(t, 3, observed.Count.RunningCount)

	decision, err := client.QueryDecision(started.SessionID, []string{"9c", "6d"}, "Ts")
	require.NoError(t, err)
	assert.Equal(t, "SURRENDER", decision.RecommendedAction)

	bet, err := client.QueryBet(started.SessionID)
	require.NoError(t, err)
	assert.Greater(t, bet.RecommendedBet, 0.0)

	insure, err := client.QueryInsurance(started.SessionID, "Ah")
	require.NoError(t, err)
	assert.False(t, insure.TakeInsurance)

	require.NoError(t, client.EndSession(started.SessionID))

	_, err = client.Status(started.SessionID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, protocol.ErrSessionGone))
}

func TestAutoFlow(t *testing.T) {
	client := newTestClient(t)

	seed := int64(11)
	started, err := client.StartSession(StartOptions{Mode: protocol.ModeAuto, Seed: &seed})
	require.NoError(t, err)

	deal, err := client.Deal(started.SessionID)
	require.NoError(t, err)
	assert.Len(t, deal.PlayerCards, 2)
	assert.Equal(t, 15.0, deal.Wager)

	if !deal.IsBlackjack {
		for {
			result, err := client.Action(started.SessionID, "STAND")
			require.NoError(t, err)
			if result.State == "SETTLED" {
				assert.NotEmpty(t, result.Outcomes)
				break
			}
		}
	}

	status, err := client.Status(started.SessionID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, status.Stats.Hands, 1)
}

func TestErrorCodesRoundTrip(t *testing.T) {
	client := newTestClient(t)

	started, err := client.StartSession(StartOptions{Mode: protocol.ModeShadow})
	require.NoError(t, err)

	// Auto-only operation in a shadow session
	_, err = client.Deal(started.SessionID)
	assert.True(t, errors.Is(err, protocol.ErrWrongMode))

	// Malformed card token
	_, err = client.Observe(started.SessionID, []string{"Zz"})
	assert.True(t, errors.Is(err, protocol.ErrBadCard))
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := Dial("http://127.0.0.1:1") // nothing listening
	assert.Error(t, err)
}
