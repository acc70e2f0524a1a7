package statistics

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/edgecount/edgecount/protocol"
)

// HandRecord is the settled outcome of a single hand as seen by the
// session ledger. Net is the player's profit for the hand: positive for a
// win, negative for a loss, zero for a push.
type HandRecord struct {
	Wagered      float64
	Net          float64
	TrueCount    float64 // true count when the hand was dealt
	Blackjack    bool
	Surrendered  bool
	PlayerBusted bool
	DealerBusted bool
	Doubled      bool
	Split        bool
	TookInsure   bool
}

// CountStat aggregates results for one integer true-count bucket.
type CountStat struct {
	Hands int
	Net   float64
	Wins  int
}

// Statistics tracks session results: the win/loss ledger, money flow and
// per-true-count performance. All methods are safe for concurrent use.
type Statistics struct {
	mu     sync.RWMutex
	hands  int
	wins   int
	losses int
	pushes int

	blackjacks   int
	surrenders   int
	playerBusts  int
	dealerBusts  int
	doubledHands int
	splitHands   int
	insurances   int

	wagered float64
	net     float64
	net2    float64   // sum of squares for variance
	values  []float64 // per-hand nets for median

	countStats map[int]*CountStat

	// Shadow-mode decision grading
	decisions        int
	correctDecisions int
}

// New creates an empty session ledger.
func New() *Statistics {
	return &Statistics{
		values:     make([]float64, 0),
		countStats: make(map[int]*CountStat),
	}
}

// Add incorporates a settled hand into the ledger.
func (s *Statistics) Add(record HandRecord) error {
	if record.Wagered < 0 {
		return protocol.Errorf(protocol.ErrBadInput, "negative wager %.2f", record.Wagered)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hands++
	s.wagered += record.Wagered
	s.net += record.Net
	s.net2 += record.Net * record.Net
	s.values = append(s.values, record.Net)

	switch {
	case record.Net > 0:
		s.wins++
	case record.Net < 0:
		s.losses++
	default:
		s.pushes++
	}

	if record.Blackjack {
		s.blackjacks++
	}
	if record.Surrendered {
		s.surrenders++
	}
	if record.PlayerBusted {
		s.playerBusts++
	}
	if record.DealerBusted {
		s.dealerBusts++
	}
	if record.Doubled {
		s.doubledHands++
	}
	if record.Split {
		s.splitHands++
	}
	if record.TookInsure {
		s.insurances++
	}

	bucket := int(math.Floor(record.TrueCount))
	if s.countStats[bucket] == nil {
		s.countStats[bucket] = &CountStat{}
	}
	cs := s.countStats[bucket]
	cs.Hands++
	cs.Net += record.Net
	if record.Net > 0 {
		cs.Wins++
	}

	return nil
}

// RecordDecision grades one shadow-mode play against the engine's
// recommendation.
func (s *Statistics) RecordDecision(correct bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions++
	if correct {
		s.correctDecisions++
	}
}

// Hands returns the number of settled hands
func (s *Statistics) Hands() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hands
}

// Net returns the session profit (negative when losing)
func (s *Statistics) Net() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.net
}

// Wagered returns the total amount put at risk
func (s *Statistics) Wagered() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wagered
}

// WinRate returns the fraction of settled hands won, pushes included in
// the denominator.
func (s *Statistics) WinRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hands == 0 {
		return 0
	}
	return float64(s.wins) / float64(s.hands)
}

// EdgePerHand returns net result per unit wagered. This is the observed
// counterpart of the model advantage, and converges on it slowly.
func (s *Statistics) EdgePerHand() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wagered == 0 {
		return 0
	}
	return s.net / s.wagered
}

// Mean returns the arithmetic mean profit per hand
func (s *Statistics) Mean() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meanLocked()
}

func (s *Statistics) meanLocked() float64 {
	if s.hands == 0 {
		return 0
	}
	return s.net / float64(s.hands)
}

// Variance returns the sample variance of per-hand profit
func (s *Statistics) Variance() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.varianceLocked()
}

func (s *Statistics) varianceLocked() float64 {
	if s.hands < 2 {
		return 0
	}
	mean := s.meanLocked()
	return (s.net2 - float64(s.hands)*mean*mean) / float64(s.hands-1)
}

// StdDev returns the sample standard deviation of per-hand profit
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// ConfidenceInterval95 returns the 95% confidence interval of the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mean := s.meanLocked()
	if s.hands < 2 {
		return mean, mean
	}
	se := math.Sqrt(s.varianceLocked()) / math.Sqrt(float64(s.hands))
	margin := 1.96 * se
	return mean - margin, mean + margin
}

// Median returns the median per-hand profit
func (s *Statistics) Median() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.values))
	copy(sorted, s.values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// DecisionAccuracy returns the fraction of graded shadow-mode plays that
// matched the engine's recommendation.
func (s *Statistics) DecisionAccuracy() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.decisions == 0 {
		return 0
	}
	return float64(s.correctDecisions) / float64(s.decisions)
}

// CountStats returns a copy of the per-true-count buckets
func (s *Statistics) CountStats() map[int]CountStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]CountStat, len(s.countStats))
	for k, v := range s.countStats {
		out[k] = *v
	}
	return out
}

// Snapshot returns the current ledger totals in wire form
func (s *Statistics) Snapshot() protocol.SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	winRate := 0.0
	if s.hands > 0 {
		winRate = float64(s.wins) / float64(s.hands)
	}
	edge := 0.0
	if s.wagered > 0 {
		edge = s.net / s.wagered
	}

	return protocol.SessionStats{
		Hands:            s.hands,
		Wins:             s.wins,
		Losses:           s.losses,
		Pushes:           s.pushes,
		Blackjacks:       s.blackjacks,
		Surrenders:       s.surrenders,
		PlayerBusts:      s.playerBusts,
		DealerBusts:      s.dealerBusts,
		DoubledHands:     s.doubledHands,
		SplitHands:       s.splitHands,
		Insurances:       s.insurances,
		Wagered:          s.wagered,
		Net:              s.net,
		WinRate:          winRate,
		EdgePerHand:      edge,
		Decisions:        s.decisions,
		CorrectDecisions: s.correctDecisions,
	}
}

// Summary returns a formatted multi-line report.
func (s *Statistics) Summary() string {
	snap := s.Snapshot()
	if snap.Hands == 0 {
		return "No hands played"
	}

	summary := "=== SESSION SUMMARY ===\n"
	summary += fmt.Sprintf("Hands played: %d\n", snap.Hands)
	summary += fmt.Sprintf("Net result: %+.2f on %.2f wagered (%.2f%% edge)\n",
		snap.Net, snap.Wagered, snap.EdgePerHand*100)
	summary += fmt.Sprintf("W/L/P: %d/%d/%d (%.1f%% win rate)\n",
		snap.Wins, snap.Losses, snap.Pushes, snap.WinRate*100)
	summary += fmt.Sprintf("Blackjacks: %d | Surrenders: %d | Doubles: %d | Splits: %d\n",
		snap.Blackjacks, snap.Surrenders, snap.DoubledHands, snap.SplitHands)
	summary += fmt.Sprintf("Busts: player %d, dealer %d | Insurance taken: %d\n",
		snap.PlayerBusts, snap.DealerBusts, snap.Insurances)

	if snap.Decisions > 0 {
		summary += fmt.Sprintf("Decision accuracy: %d/%d (%.1f%%)\n",
			snap.CorrectDecisions, snap.Decisions,
			float64(snap.CorrectDecisions)/float64(snap.Decisions)*100)
	}

	counts := s.CountStats()
	if len(counts) > 0 {
		buckets := make([]int, 0, len(counts))
		for b := range counts {
			buckets = append(buckets, b)
		}
		sort.Ints(buckets)
		summary += "\n=== BY TRUE COUNT ===\n"
		for _, b := range buckets {
			cs := counts[b]
			summary += fmt.Sprintf("TC %+d: %d hands, %+.2f net\n", b, cs.Hands, cs.Net)
		}
	}

	return summary
}
