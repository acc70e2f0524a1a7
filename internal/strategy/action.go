package strategy

import (
	"strings"

	"github.com/edgecount/edgecount/protocol"
)

// Action is a blackjack playing decision
type Action int

const (
	Stand Action = iota
	Hit
	Double
	Split
	Surrender
)

// String returns the wire name of the action
func (a Action) String() string {
	switch a {
	case Stand:
		return "STAND"
	case Hit:
		return "HIT"
	case Double:
		return "DOUBLE"
	case Split:
		return "SPLIT"
	case Surrender:
		return "SURRENDER"
	default:
		return "?"
	}
}

// ParseAction parses a wire action name, case-insensitively
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STAND":
		return Stand, nil
	case "HIT":
		return Hit, nil
	case "DOUBLE":
		return Double, nil
	case "SPLIT":
		return Split, nil
	case "SURRENDER":
		return Surrender, nil
	default:
		return 0, protocol.Errorf(protocol.ErrBadInput, "unknown action %q", s)
	}
}
