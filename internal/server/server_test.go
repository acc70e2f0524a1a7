package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgecount/edgecount/internal/session"
	"github.com/edgecount/edgecount/protocol"
)

// wireResponse mirrors protocol.Response with the result left raw, the
// way a real client sees it.
type wireResponse struct {
	Op        string              `json:"op"`
	RequestID string              `json:"request_id"`
	OK        bool                `json:"ok"`
	Error     *protocol.ErrorInfo `json:"error"`
	Result    json.RawMessage     `json:"result"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	manager := session.NewManager(zerolog.Nop())
	s := New("127.0.0.1:0", manager, zerolog.Nop())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, req *protocol.Request) wireResponse {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
	var resp wireResponse
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "edgecount_sessions_active")
}

func TestShadowSessionOverWebSocket(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	resp := roundTrip(t, conn, &protocol.Request{
		Op:        protocol.OpStartSession,
		RequestID: "start-1",
		Mode:      protocol.ModeShadow,
	})
	require.True(t, resp.OK, "start_session failed: %+v", resp.Error)
	assert.Equal(t, "start-1", resp.RequestID)

	var started protocol.StartSessionResult
	require.NoError(t, json.Unmarshal(resp.Result, &started))
	assert.Len(t, started.SessionID, 26)

	resp = roundTrip(t, conn, &protocol.Request{
		Op:        protocol.OpObserve,
		SessionID: started.SessionID,
		Cards:     []string{"2h", "3d", "Ts"},
	})
	require.True(t, resp.OK)
	var observed protocol.ObserveResult
	require.NoError(t, json.Unmarshal(resp.Result, &observed))
	assert.Equal(t, 1, observed.Count.RunningCount)
	assert.Equal(t, 3, observed.Count.CardsDealt)

	resp = roundTrip(t, conn, &protocol.Request{
		Op:          protocol.OpQueryDecision,
		SessionID:   started.SessionID,
		PlayerCards: []string{"9c", "6d"},
		DealerUp:    "Ts",
	})
	require.True(t, resp.OK)
	var decision protocol.QueryDecisionResult
	require.NoError(t, json.Unmarshal(resp.Result, &decision))
	assert.Equal(t, "SURRENDER", decision.RecommendedAction)

	resp = roundTrip(t, conn, &protocol.Request{
		Op:        protocol.OpEndSession,
		SessionID: started.SessionID,
	})
	assert.True(t, resp.OK)

	resp = roundTrip(t, conn, &protocol.Request{
		Op:        protocol.OpSessionStatus,
		SessionID: started.SessionID,
	})
	require.False(t, resp.OK)
	assert.Equal(t, "SESSION_GONE", resp.Error.Code)
}

func TestAutoRoundOverWebSocket(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	seed := int64(7)
	resp := roundTrip(t, conn, &protocol.Request{
		Op:   protocol.OpStartSession,
		Mode: protocol.ModeAuto,
		Seed: &seed,
	})
	require.True(t, resp.OK)
	var started protocol.StartSessionResult
	require.NoError(t, json.Unmarshal(resp.Result, &started))

	resp = roundTrip(t, conn, &protocol.Request{Op: protocol.OpDeal, SessionID: started.SessionID})
	require.True(t, resp.OK)
	var deal protocol.DealResult
	require.NoError(t, json.Unmarshal(resp.Result, &deal))
	assert.Len(t, deal.PlayerCards, 2)

	if !deal.IsBlackjack {
		for {
			resp = roundTrip(t, conn, &protocol.Request{
				Op:        protocol.OpAction,
				SessionID: started.SessionID,
				Action:    "STAND",
			})
			require.True(t, resp.OK)
			var result protocol.ActionResult
			require.NoError(t, json.Unmarshal(resp.Result, &result))
			if result.State == "SETTLED" {
				assert.NotEmpty(t, result.Outcomes)
				break
			}
		}
	}
}

func TestMalformedFrameKeepsConnectionAlive(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	var resp wireResponse
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BAD_INPUT", resp.Error.Code)

	// The connection survives and still serves requests
	resp = roundTrip(t, conn, &protocol.Request{Op: protocol.OpStartSession, Mode: protocol.ModeShadow})
	assert.True(t, resp.OK)
}

func TestRequestMetrics(t *testing.T) {
	s, ts := newTestServer(t)
	conn := dialWS(t, ts)

	roundTrip(t, conn, &protocol.Request{Op: protocol.OpStartSession, Mode: protocol.ModeShadow})
	roundTrip(t, conn, &protocol.Request{Op: protocol.OpSessionStatus, SessionID: "missing"})

	ok := testutil.ToFloat64(s.metrics.Requests.WithLabelValues("start_session", "OK"))
	assert.Equal(t, 1.0, ok)
	gone := testutil.ToFloat64(s.metrics.Requests.WithLabelValues("session_status", "SESSION_GONE"))
	assert.Equal(t, 1.0, gone)
}
