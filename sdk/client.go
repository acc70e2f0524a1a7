// Package sdk provides a Go client for the edgecount WebSocket protocol.
package sdk

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/edgecount/edgecount/protocol"
)

// Client is a synchronous client for the advisory server. Calls are
// serialized on the connection; use one client per goroutine or share
// freely, each call holds the connection for its round trip.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
	seq  atomic.Uint64
}

// Dial connects to a server. Accepts http(s) or ws(s) URLs; a bare host
// gets the /ws path appended.
func Dial(serverURL string) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", u.String(), err)
	}
	return &Client{conn: conn}, nil
}

// Close sends a close frame and tears the connection down
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// response mirrors protocol.Response with the result left raw for
// per-operation decoding.
type response struct {
	Op        protocol.Op         `json:"op"`
	RequestID string              `json:"request_id"`
	OK        bool                `json:"ok"`
	Error     *protocol.ErrorInfo `json:"error"`
	Result    json.RawMessage     `json:"result"`
}

// call sends one request and decodes the matching response into out.
// Server errors come back as *protocol.Error so callers can match codes
// with errors.Is.
func (c *Client) call(req *protocol.Request, out any) error {
	req.RequestID = strconv.FormatUint(c.seq.Add(1), 10)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("send %s: %w", req.Op, err)
	}

	var resp response
	for {
		if err := c.conn.ReadJSON(&resp); err != nil {
			return fmt.Errorf("receive %s: %w", req.Op, err)
		}
		// Responses arrive in order; skip anything stale
		if resp.RequestID == "" || resp.RequestID == req.RequestID {
			break
		}
	}

	if !resp.OK {
		if resp.Error == nil {
			return fmt.Errorf("%s failed with no error detail", req.Op)
		}
		return &protocol.Error{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", req.Op, err)
		}
	}
	return nil
}

// StartOptions configures a new session. Zero values defer to the
// server's defaults.
type StartOptions struct {
	Mode     string
	Bankroll float64
	Seed     *int64
	Profile  string
	Rules    *protocol.RulesConfig
}

// StartSession opens a session and returns its identity and rules
func (c *Client) StartSession(opts StartOptions) (*protocol.StartSessionResult, error) {
	var result protocol.StartSessionResult
	err := c.call(&protocol.Request{
		Op:       protocol.OpStartSession,
		Mode:     opts.Mode,
		Bankroll: opts.Bankroll,
		Seed:     opts.Seed,
		Profile:  opts.Profile,
		Rules:    opts.Rules,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// EndSession discards a session and its state
func (c *Client) EndSession(sessionID string) error {
	return c.call(&protocol.Request{Op: protocol.OpEndSession, SessionID: sessionID}, nil)
}

// Status reports the session without changing it
func (c *Client) Status(sessionID string) (*protocol.StatusResult, error) {
	var result protocol.StatusResult
	if err := c.call(&protocol.Request{Op: protocol.OpSessionStatus, SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Shuffle resets the session's shoe and count
func (c *Client) Shuffle(sessionID string) (*protocol.ShuffleResult, error) {
	var result protocol.ShuffleResult
	if err := c.call(&protocol.Request{Op: protocol.OpShuffle, SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ShuffleWithBurn resets a shadow session's count as if joining a shoe
// with burn unseen cards already dealt.
func (c *Client) ShuffleWithBurn(sessionID string, burn int) (*protocol.ShuffleResult, error) {
	var result protocol.ShuffleResult
	err := c.call(&protocol.Request{
		Op:        protocol.OpShuffle,
		SessionID: sessionID,
		Burn:      burn,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Deal starts a round in an auto session
func (c *Client) Deal(sessionID string) (*protocol.DealResult, error) {
	var result protocol.DealResult
	if err := c.call(&protocol.Request{Op: protocol.OpDeal, SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Action plays one action ("HIT", "STAND", "DOUBLE", "SPLIT",
// "SURRENDER") on the active hand of an auto session.
func (c *Client) Action(sessionID, action string) (*protocol.ActionResult, error) {
	var result protocol.ActionResult
	err := c.call(&protocol.Request{
		Op:        protocol.OpAction,
		SessionID: sessionID,
		Action:    action,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Observe feeds cards seen at a real table into a shadow session's count
func (c *Client) Observe(sessionID string, cards []string) (*protocol.ObserveResult, error) {
	var result protocol.ObserveResult
	err := c.call(&protocol.Request{
		Op:        protocol.OpObserve,
		SessionID: sessionID,
		Cards:     cards,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryDecision asks a shadow session for the play on a hand
func (c *Client) QueryDecision(sessionID string, playerCards []string, dealerUp string) (*protocol.QueryDecisionResult, error) {
	var result protocol.QueryDecisionResult
	err := c.call(&protocol.Request{
		Op:          protocol.OpQueryDecision,
		SessionID:   sessionID,
		PlayerCards: playerCards,
		DealerUp:    dealerUp,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryBet asks for the wager the count justifies right now
func (c *Client) QueryBet(sessionID string) (*protocol.QueryBetResult, error) {
	var result protocol.QueryBetResult
	if err := c.call(&protocol.Request{Op: protocol.OpQueryBet, SessionID: sessionID}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryInsurance asks whether the count justifies taking insurance
func (c *Client) QueryInsurance(sessionID, dealerUp string) (*protocol.QueryInsureResult, error) {
	var result protocol.QueryInsureResult
	err := c.call(&protocol.Request{
		Op:        protocol.OpQueryInsure,
		SessionID: sessionID,
		DealerUp:  dealerUp,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
