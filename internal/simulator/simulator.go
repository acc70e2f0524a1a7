// Package simulator plays large numbers of auto-mode rounds against the
// session engine to validate the counting edge empirically.
package simulator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/edgecount/edgecount/internal/betting"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/session"
	"github.com/edgecount/edgecount/internal/sessionid"
	"github.com/edgecount/edgecount/internal/strategy"
	"github.com/edgecount/edgecount/protocol"
)

// Config holds configuration for a simulation run
type Config struct {
	Rounds   int
	Bankroll float64
	Rules    rules.GameRules
	Betting  betting.Config
	Margin   float64
	Seed     int64
	Logger   zerolog.Logger
}

// Result carries the outcome of a run. Busted means the bankroll fell
// below the table minimum before all rounds were played.
type Result struct {
	Seed          int64
	Rounds        int
	Shuffles      int
	Busted        bool
	FinalBankroll float64
	Stats         protocol.SessionStats
	Summary       string
}

// Report formats the result for writing to a file or stdout.
func (r *Result) Report() string {
	var b strings.Builder
	b.WriteString("=== SIMULATION ===\n")
	fmt.Fprintf(&b, "Seed:           %d\n", r.Seed)
	fmt.Fprintf(&b, "Rounds played:  %d\n", r.Rounds)
	fmt.Fprintf(&b, "Shoes shuffled: %d\n", r.Shuffles)
	fmt.Fprintf(&b, "Final bankroll: %.2f\n", r.FinalBankroll)
	if r.Busted {
		b.WriteString("Stopped early: bankroll below table minimum\n")
	}
	b.WriteString("\n")
	b.WriteString(r.Summary)
	return b.String()
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config Config
}

// New creates a simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

// Run plays the configured number of rounds on a fresh auto session,
// always taking the decision engine's recommended action, and returns
// the accumulated statistics. Rounds are fully reproducible from the
// seed.
func (s *Simulator) Run() (*Result, error) {
	sess, err := session.New(sessionid.Generate(), session.Config{
		Mode:     protocol.ModeAuto,
		Bankroll: s.config.Bankroll,
		Rules:    s.config.Rules,
		Betting:  s.config.Betting,
		Margin:   s.config.Margin,
		Seed:     s.config.Seed,
	}, s.config.Logger)
	if err != nil {
		return nil, err
	}

	engine, err := strategy.NewEngine(s.config.Rules, s.config.Margin)
	if err != nil {
		return nil, err
	}

	result := &Result{Seed: s.config.Seed}
	for round := 0; round < s.config.Rounds; round++ {
		if err := s.playRound(sess, engine, result); err != nil {
			if errors.Is(err, protocol.ErrBadInput) {
				result.Busted = true
				break
			}
			return nil, fmt.Errorf("round %d: %w", round+1, err)
		}
		result.Rounds++
	}

	status := sess.Status()
	result.FinalBankroll = status.Bankroll
	result.Stats = sess.Stats()
	result.Summary = sess.StatsSummary()
	return result, nil
}

func (s *Simulator) playRound(sess *session.Session, engine *strategy.Engine, result *Result) error {
	// The session shuffles itself at the cut card; just count the shoes
	deal, err := sess.Deal()
	if err != nil {
		return err
	}
	if deal.Shuffled {
		result.Shuffles++
	}
	if deal.IsBlackjack {
		return nil // settled on the deal
	}

	for {
		sit, ok := sess.Situation()
		if !ok {
			return nil
		}
		decision := engine.Decide(sit)
		if err := s.takeAction(sess, decision.Action); err != nil {
			return err
		}
	}
}

// takeAction applies the recommended action, degrading to hit and then
// stand when the bankroll cannot cover a double or split, or when the
// shoe runs dry mid-hand.
func (s *Simulator) takeAction(sess *session.Session, action strategy.Action) error {
	for _, attempt := range []strategy.Action{action, strategy.Hit, strategy.Stand} {
		_, err := sess.Action(attempt)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, protocol.ErrIllegalAction), errors.Is(err, protocol.ErrShoeExhausted):
			continue
		default:
			return err
		}
	}
	return fmt.Errorf("no action accepted for the active hand")
}
