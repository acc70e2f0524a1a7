package protocol

import "errors"

// Op names the session operation a request invokes.
type Op string

const (
	OpStartSession  Op = "start_session"
	OpEndSession    Op = "end_session"
	OpSessionStatus Op = "session_status"
	OpShuffle       Op = "shuffle"
	OpDeal          Op = "deal"
	OpAction        Op = "action"
	OpObserve       Op = "observe"
	OpQueryDecision Op = "query_decision"
	OpQueryBet      Op = "query_bet"
	OpQueryInsure   Op = "query_insurance"
)

// Session modes. Auto sessions deal from a virtual shoe; shadow sessions
// only track cards the caller observes at a real table.
const (
	ModeAuto   = "auto"
	ModeShadow = "shadow"
)

// Request is the client-to-server envelope. Op selects the operation;
// the remaining fields are a union and only the ones the operation needs
// are read.
type Request struct {
	Op        Op     `json:"op"`
	RequestID string `json:"request_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// start_session
	Mode     string       `json:"mode,omitempty"`
	Bankroll float64      `json:"bankroll,omitempty"`
	Seed     *int64       `json:"seed,omitempty"`
	Profile  string       `json:"profile,omitempty"`
	Rules    *RulesConfig `json:"rules,omitempty"`

	// shuffle: unseen cards already gone when joining a shoe late
	Burn int `json:"burn,omitempty"`

	// action
	Action string `json:"action,omitempty"`

	// observe
	Cards []string `json:"cards,omitempty"`

	// query_decision, query_insurance
	PlayerCards []string `json:"player_cards,omitempty"`
	DealerUp    string   `json:"dealer_up,omitempty"`
}

// RulesConfig carries per-session rule overrides. Nil fields take the
// profile's (or the default table's) values.
type RulesConfig struct {
	NumDecks           *int     `json:"num_decks,omitempty"`
	Penetration        *float64 `json:"penetration,omitempty"`
	DealerStandsSoft17 *bool    `json:"dealer_stands_soft_17,omitempty"`
	DoubleAfterSplit   *bool    `json:"double_after_split,omitempty"`
	ResplitAces        *bool    `json:"resplit_aces,omitempty"`
	MaxSplits          *int     `json:"max_splits,omitempty"`
	SurrenderAllowed   *bool    `json:"surrender_allowed,omitempty"`
	Double9To11Only    *bool    `json:"double_9_to_11_only,omitempty"`
	Double10And11Only  *bool    `json:"double_10_and_11_only,omitempty"`
	BlackjackPayout    *float64 `json:"blackjack_payout,omitempty"`
	TableMin           *float64 `json:"table_min,omitempty"`
	TableMax           *float64 `json:"table_max,omitempty"`

	KellyFraction         *float64 `json:"kelly_fraction,omitempty"`
	DeviationMargin       *float64 `json:"deviation_threshold_margin,omitempty"`
	MaxBettingPenetration *float64 `json:"max_betting_penetration,omitempty"`
	WongOutThreshold      *float64 `json:"wong_out_threshold,omitempty"`
	FlatBetting           *bool    `json:"flat_betting,omitempty"`
}

// Response is the server-to-client envelope. Exactly one of Error and
// Result is set.
type Response struct {
	Op        Op         `json:"op"`
	RequestID string     `json:"request_id,omitempty"`
	OK        bool       `json:"ok"`
	Error     *ErrorInfo `json:"error,omitempty"`
	Result    any        `json:"result,omitempty"`
}

// ErrorInfo is the wire form of a protocol error.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorInfoFrom extracts the wire form from any error. Errors outside the
// taxonomy map to BAD_INPUT rather than leaking internals.
func ErrorInfoFrom(err error) *ErrorInfo {
	var pe *Error
	if errors.As(err, &pe) {
		return &ErrorInfo{Code: pe.Code, Message: err.Error()}
	}
	return &ErrorInfo{Code: ErrBadInput.Code, Message: err.Error()}
}

// CountSnapshot is the wire form of the shoe state.
type CountSnapshot struct {
	RunningCount   int     `json:"running_count"`
	TrueCount      float64 `json:"true_count"`
	DecksRemaining float64 `json:"decks_remaining"`
	Penetration    float64 `json:"penetration"`
	CardsDealt     int     `json:"cards_dealt"`
}

// SessionStats is the wire form of the session ledger.
type SessionStats struct {
	Hands            int     `json:"hands_played"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	Pushes           int     `json:"pushes"`
	Blackjacks       int     `json:"blackjacks"`
	Surrenders       int     `json:"surrenders"`
	PlayerBusts      int     `json:"player_busts"`
	DealerBusts      int     `json:"dealer_busts"`
	DoubledHands     int     `json:"doubled_hands"`
	SplitHands       int     `json:"split_hands"`
	Insurances       int     `json:"insurances_taken"`
	Wagered          float64 `json:"total_wagered"`
	Net              float64 `json:"net_result"`
	WinRate          float64 `json:"win_rate"`
	EdgePerHand      float64 `json:"edge_per_hand"`
	Decisions        int     `json:"decisions_graded"`
	CorrectDecisions int     `json:"decisions_correct"`
}

// StartSessionResult answers start_session.
type StartSessionResult struct {
	SessionID string  `json:"session_id"`
	Mode      string  `json:"mode"`
	Bankroll  float64 `json:"bankroll"`
	Status    string  `json:"status"`
	Seed      int64   `json:"seed"`
	Rules     string  `json:"rules"`
}

// StatusResult answers session_status.
type StatusResult struct {
	SessionID     string        `json:"session_id"`
	Mode          string        `json:"mode"`
	State         string        `json:"state"`
	Count         CountSnapshot `json:"count_snapshot"`
	Bankroll      float64       `json:"bankroll"`
	HandsPlayed   int           `json:"hands_played"`
	HandsThisShoe int           `json:"hands_this_shoe"`
	SessionProfit float64       `json:"session_profit"`
	Seed          int64         `json:"seed"`
	Rules         string        `json:"rules"`
	Stats         SessionStats  `json:"stats"`
}

// ShuffleResult answers shuffle.
type ShuffleResult struct {
	Count CountSnapshot `json:"count_snapshot"`
}

// DealResult answers deal. RecommendedBet is the wager suggested for the
// hand after this one; Wager is the amount riding on this hand. Shuffled
// is set when the cut card forced a fresh shoe before this round.
type DealResult struct {
	PlayerCards    []string      `json:"player_cards"`
	PlayerTotal    int           `json:"player_total"`
	DealerUp       string        `json:"dealer_up"`
	IsBlackjack    bool          `json:"is_blackjack"`
	Wager          float64       `json:"wager"`
	Shuffled       bool          `json:"shuffled,omitempty"`
	Count          CountSnapshot `json:"count_snapshot"`
	RecommendedBet float64       `json:"recommended_bet"`
	TakeInsurance  bool          `json:"take_insurance"`
	ShouldExit     bool          `json:"should_exit"`
	ExitReason     string        `json:"exit_reason,omitempty"`
}

// HandOutcome reports one settled player hand.
type HandOutcome struct {
	Cards   []string `json:"cards"`
	Total   int      `json:"total"`
	Outcome string   `json:"outcome"`
	Wager   float64  `json:"wager"`
	Net     float64  `json:"net"`
}

// ActionResult answers action. Settlement fields (Outcomes, DealerTotal,
// Net) are only present once the round reaches SETTLED.
type ActionResult struct {
	ActionTaken   string  `json:"action_taken"`
	CorrectAction string  `json:"correct_action"`
	IsCorrect     bool    `json:"is_correct"`
	NewCard       string  `json:"new_card,omitempty"`
	NewTotal      *int    `json:"new_total,omitempty"`
	ActiveHand    int     `json:"active_hand"`
	State         string  `json:"state"`
	Bankroll      float64 `json:"bankroll"`

	DealerCards []string      `json:"dealer_cards,omitempty"`
	DealerTotal *int          `json:"dealer_total,omitempty"`
	Outcomes    []HandOutcome `json:"outcomes,omitempty"`
	Net         *float64      `json:"net,omitempty"`

	Count      CountSnapshot `json:"count_snapshot"`
	ShouldExit bool          `json:"should_exit"`
	ExitReason string        `json:"exit_reason,omitempty"`
}

// ObserveResult answers observe.
type ObserveResult struct {
	Count          CountSnapshot `json:"count_snapshot"`
	RecommendedBet float64       `json:"recommended_bet"`
	ShouldExit     bool          `json:"should_exit"`
	ExitReason     string        `json:"exit_reason,omitempty"`
}

// QueryDecisionResult answers query_decision.
type QueryDecisionResult struct {
	RecommendedAction string        `json:"recommended_action"`
	DeviationID       string        `json:"deviation_id,omitempty"`
	TakeInsurance     bool          `json:"take_insurance"`
	Count             CountSnapshot `json:"count_snapshot"`
	RecommendedBet    float64       `json:"recommended_bet"`
	ShouldExit        bool          `json:"should_exit"`
	ExitReason        string        `json:"exit_reason,omitempty"`
}

// QueryBetResult answers query_bet.
type QueryBetResult struct {
	RecommendedBet float64       `json:"recommended_bet"`
	Advantage      float64       `json:"advantage"`
	BreakevenCount float64       `json:"breakeven_count"`
	Count          CountSnapshot `json:"count_snapshot"`
}

// QueryInsureResult answers query_insurance.
type QueryInsureResult struct {
	TakeInsurance bool          `json:"take_insurance"`
	Count         CountSnapshot `json:"count_snapshot"`
}
