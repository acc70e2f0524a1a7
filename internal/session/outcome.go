package session

// Outcome is the settled result of one player hand.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeLoss
	OutcomePush
	OutcomeBlackjack
	OutcomeSurrender
	OutcomeBust
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "WIN"
	case OutcomeLoss:
		return "LOSS"
	case OutcomePush:
		return "PUSH"
	case OutcomeBlackjack:
		return "BLACKJACK"
	case OutcomeSurrender:
		return "SURRENDER"
	case OutcomeBust:
		return "BUST"
	default:
		return "UNKNOWN"
	}
}

// State is the orchestrator phase of a session.
type State int

const (
	StateIdle State = iota
	StatePlayerTurn
	StateDealerTurn
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePlayerTurn:
		return "PLAYER_TURN"
	case StateDealerTurn:
		return "DEALER_TURN"
	case StateSettled:
		return "SETTLED"
	default:
		return "UNKNOWN"
	}
}
