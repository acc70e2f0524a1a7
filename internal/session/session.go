package session

import (
	"github.com/rs/zerolog"

	"github.com/edgecount/edgecount/internal/betting"
	"github.com/edgecount/edgecount/internal/deck"
	"github.com/edgecount/edgecount/internal/randutil"
	"github.com/edgecount/edgecount/internal/rules"
	"github.com/edgecount/edgecount/internal/shoe"
	"github.com/edgecount/edgecount/internal/statistics"
	"github.com/edgecount/edgecount/internal/strategy"
	"github.com/edgecount/edgecount/protocol"
)

// Config assembles one session. The manager fills it from the wire
// request; tests construct it directly.
type Config struct {
	Mode     string
	Bankroll float64
	Rules    rules.GameRules
	Betting  betting.Config
	Margin   float64 // deviation threshold margin
	Seed     int64
}

// playerHand is one of the player's hands in the current round. A round
// starts with a single hand; splits append more.
type playerHand struct {
	cards       deck.Hand
	wager       float64
	stood       bool
	busted      bool
	surrendered bool
	doubled     bool
	fromSplit   bool
	frozen      bool // split aces: one card, no further action
}

func (h *playerHand) resolved() bool {
	return h.stood || h.busted || h.surrendered
}

// Session binds the shoe, the decision engine and the betting engine
// into the operation surface callers drive. All exported methods take the
// session lock; a session processes one operation at a time.
//
// Auto sessions own a seeded virtual shoe and play full hands including
// the dealer. Shadow sessions never touch cards themselves: they count
// what the caller observes at a real table and answer queries.
type Session struct {
	id   string
	mode string
	log  zerolog.Logger

	rules    rules.GameRules
	strategy *strategy.Engine
	betting  *betting.Engine
	counter  *shoe.Counter
	draw     *shoe.DrawShoe // auto mode only
	stats    *statistics.Statistics
	seed     int64

	state         State
	bankroll      float64
	handsThisShoe int

	// current round (auto mode)
	hands         []*playerHand
	active        int
	dealer        deck.Hand
	dealerUp      deck.Card
	splitsUsed    int
	playerNatural bool
	dealTC        float64 // true count when the round was dealt
	roundNet      float64
}

// New builds a session from the config. The seed must already be chosen;
// it is recorded so auto-mode rounds can be replayed.
func New(id string, config Config, logger zerolog.Logger) (*Session, error) {
	if config.Mode != protocol.ModeAuto && config.Mode != protocol.ModeShadow {
		return nil, protocol.Errorf(protocol.ErrBadInput, "unknown mode %q", config.Mode)
	}
	if config.Bankroll <= 0 {
		return nil, protocol.Errorf(protocol.ErrBadInput, "bankroll must be positive, got %.2f", config.Bankroll)
	}
	if config.Margin < 0 {
		return nil, protocol.Errorf(protocol.ErrBadInput, "deviation margin must be non-negative, got %.2f", config.Margin)
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, err
	}

	strat, err := strategy.NewEngine(config.Rules, config.Margin)
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:       id,
		mode:     config.Mode,
		log:      logger.With().Str("session_id", id).Str("mode", config.Mode).Logger(),
		rules:    config.Rules,
		strategy: strat,
		betting:  betting.NewEngine(config.Rules, config.Betting),
		counter:  shoe.NewCounter(config.Rules.NumDecks),
		stats:    statistics.New(),
		seed:     config.Seed,
		state:    StateIdle,
		bankroll: config.Bankroll,
	}
	if config.Mode == protocol.ModeAuto {
		s.draw = shoe.NewDrawShoe(config.Rules.NumDecks, randutil.New(config.Seed))
	}

	s.log.Info().
		Int64("seed", config.Seed).
		Float64("bankroll", config.Bankroll).
		Str("rules", config.Rules.String()).
		Msg("session started")
	return s, nil
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Mode returns the session mode
func (s *Session) Mode() string { return s.mode }

// Seed returns the RNG seed recorded for replay
func (s *Session) Seed() int64 { return s.seed }

func wireSnapshot(snap shoe.Snapshot) protocol.CountSnapshot {
	return protocol.CountSnapshot{
		RunningCount:   snap.RunningCount,
		TrueCount:      snap.TrueCount,
		DecksRemaining: snap.DecksRemaining,
		Penetration:    snap.Penetration,
		CardsDealt:     snap.CardsDealt,
	}
}

func (s *Session) exitSignal() (bool, string) {
	snap := s.counter.Snapshot()
	return s.betting.ExitSignal(snap.TrueCount, s.handsThisShoe)
}

// Status reports the session without mutating it.
func (s *Session) Status() protocol.StatusResult {
	stats := s.stats.Snapshot()
	return protocol.StatusResult{
		SessionID:     s.id,
		Mode:          s.mode,
		State:         s.state.String(),
		Count:         wireSnapshot(s.counter.Snapshot()),
		Bankroll:      s.bankroll,
		HandsPlayed:   stats.Hands,
		HandsThisShoe: s.handsThisShoe,
		SessionProfit: stats.Net,
		Seed:          s.seed,
		Rules:         s.rules.String(),
		Stats:         stats,
	}
}

// Stats returns the session ledger snapshot.
func (s *Session) Stats() protocol.SessionStats {
	return s.stats.Snapshot()
}

// StatsSummary returns the formatted session report.
func (s *Session) StatsSummary() string {
	return s.stats.Summary()
}

// Situation returns the decision situation for the hand currently awaiting
// action, for in-process drivers that play sessions directly. The second
// return is false when no hand is waiting.
func (s *Session) Situation() (strategy.Situation, bool) {
	if s.state != StatePlayerTurn {
		return strategy.Situation{}, false
	}
	hand := s.hands[s.active]
	return strategy.Situation{
		Hand:       hand.cards,
		DealerUp:   s.dealerUp,
		TrueCount:  s.counter.Snapshot().TrueCount,
		AfterSplit: hand.fromSplit,
		SplitsUsed: s.splitsUsed,
	}, true
}

// Shuffle resets the shoe and the count. Only legal between rounds.
func (s *Session) Shuffle() (*protocol.ShuffleResult, error) {
	if s.state != StateIdle && s.state != StateSettled {
		return nil, protocol.Errorf(protocol.ErrWrongState, "cannot shuffle during a hand (state %s)", s.state)
	}
	s.counter.Shuffle()
	if s.draw != nil {
		s.draw.Shuffle()
	}
	s.handsThisShoe = 0
	s.state = StateIdle
	s.log.Debug().Msg("shoe shuffled")
	return &protocol.ShuffleResult{Count: wireSnapshot(s.counter.Snapshot())}, nil
}

// ShuffleWithBurn resets the shoe as if joining mid-shoe with burn unseen
// cards already gone. Shadow mode only: a virtual shoe is never entered
// late.
func (s *Session) ShuffleWithBurn(burn int) (*protocol.ShuffleResult, error) {
	if s.mode != protocol.ModeShadow {
		return nil, protocol.Errorf(protocol.ErrWrongMode, "burn entry is a shadow-mode operation")
	}
	if s.state != StateIdle && s.state != StateSettled {
		return nil, protocol.Errorf(protocol.ErrWrongState, "cannot shuffle during a hand (state %s)", s.state)
	}
	if err := s.counter.ShuffleWithBurn(burn); err != nil {
		return nil, err
	}
	s.handsThisShoe = 0
	s.state = StateIdle
	return &protocol.ShuffleResult{Count: wireSnapshot(s.counter.Snapshot())}, nil
}

// drawCard deals one card from the virtual shoe and feeds it to the count.
func (s *Session) drawCard() (deck.Card, error) {
	card, err := s.draw.Draw()
	if err != nil {
		return deck.Card{}, err
	}
	if err := s.counter.Observe(card); err != nil {
		return deck.Card{}, err
	}
	return card, nil
}

// Deal starts an auto-mode round: sizes the wager from the pre-deal
// count, deals player, up-card, player. The dealer hole card is not drawn
// until dealer play begins, so it cannot leak into the count or into any
// decision made this round.
func (s *Session) Deal() (*protocol.DealResult, error) {
	if s.mode != protocol.ModeAuto {
		return nil, protocol.Errorf(protocol.ErrWrongMode, "deal is an auto-mode operation")
	}
	if s.state != StateIdle && s.state != StateSettled {
		return nil, protocol.Errorf(protocol.ErrWrongState, "cannot deal in state %s", s.state)
	}

	shuffled := false
	if s.counter.IsShuffleDue(s.rules.Penetration) {
		// Cut card passed: fresh shoe before this round
		s.counter.Shuffle()
		s.draw.Shuffle()
		s.handsThisShoe = 0
		shuffled = true
		s.log.Debug().Float64("penetration", s.rules.Penetration).Msg("cut card reached, shoe shuffled")
	}
	if s.draw.CardsRemaining() < 4 {
		return nil, protocol.Errorf(protocol.ErrShoeExhausted,
			"%d cards left in the shoe, shuffle required", s.draw.CardsRemaining())
	}

	pre := s.counter.Snapshot()
	wager := s.betting.ComputeBet(pre.TrueCount, s.bankroll, pre.Penetration)
	if wager <= 0 {
		return nil, protocol.Errorf(protocol.ErrBadInput,
			"bankroll %.2f below table minimum %.2f", s.bankroll, s.rules.TableMin)
	}

	p1, err := s.drawCard()
	if err != nil {
		return nil, err
	}
	up, err := s.drawCard()
	if err != nil {
		return nil, err
	}
	p2, err := s.drawCard()
	if err != nil {
		return nil, err
	}

	hand := deck.NewHand(p1, p2)
	s.hands = []*playerHand{{cards: hand, wager: wager}}
	s.active = 0
	s.dealerUp = up
	s.dealer = deck.NewHand(up)
	s.splitsUsed = 0
	s.playerNatural = hand.IsBlackjack()
	s.dealTC = pre.TrueCount
	s.roundNet = 0
	s.state = StatePlayerTurn
	s.handsThisShoe++

	if s.playerNatural {
		// Natural 21 plays itself: reveal the hole, settle.
		s.hands[0].stood = true
		s.finishRound()
	}

	snap := s.counter.Snapshot()
	exit, reason := s.exitSignal()
	s.log.Debug().
		Str("player", hand.String()).
		Str("dealer_up", up.Token()).
		Float64("wager", wager).
		Float64("true_count", snap.TrueCount).
		Msg("round dealt")

	return &protocol.DealResult{
		PlayerCards:    cardTokens(hand.Cards),
		PlayerTotal:    hand.Total(),
		DealerUp:       up.Token(),
		IsBlackjack:    s.playerNatural,
		Wager:          wager,
		Shuffled:       shuffled,
		Count:          wireSnapshot(snap),
		RecommendedBet: s.betting.ComputeBet(snap.TrueCount, s.bankroll, snap.Penetration),
		TakeInsurance:  s.strategy.ShouldTakeInsurance(up, snap.TrueCount),
		ShouldExit:     exit,
		ExitReason:     reason,
	}, nil
}

// committed returns the money riding on the current round.
func (s *Session) committed() float64 {
	total := 0.0
	for _, h := range s.hands {
		total += h.wager
	}
	return total
}

// Action applies one player action to the active hand. An illegal action
// is rejected without consuming the turn.
func (s *Session) Action(action strategy.Action) (*protocol.ActionResult, error) {
	if s.mode != protocol.ModeAuto {
		return nil, protocol.Errorf(protocol.ErrWrongMode, "action is an auto-mode operation")
	}
	if s.state != StatePlayerTurn {
		return nil, protocol.Errorf(protocol.ErrWrongState, "no hand awaiting action (state %s)", s.state)
	}

	hand := s.hands[s.active]
	snap := s.counter.Snapshot()
	correct := s.strategy.Decide(strategy.Situation{
		Hand:       hand.cards,
		DealerUp:   s.dealerUp,
		TrueCount:  snap.TrueCount,
		AfterSplit: hand.fromSplit,
		SplitsUsed: s.splitsUsed,
	})

	if err := s.checkLegal(action, hand); err != nil {
		return nil, err
	}

	isCorrect := action == correct.Action
	s.stats.RecordDecision(isCorrect)
	if !isCorrect {
		s.log.Debug().
			Str("played", action.String()).
			Str("recommended", correct.Action.String()).
			Str("hand", hand.cards.String()).
			Msg("play differs from recommendation")
	}

	result := &protocol.ActionResult{
		ActionTaken:   action.String(),
		CorrectAction: correct.Action.String(),
		IsCorrect:     isCorrect,
	}

	acted := s.active
	switch action {
	case strategy.Hit:
		card, err := s.drawCard()
		if err != nil {
			return nil, err
		}
		hand.cards = hand.cards.Add(card)
		result.NewCard = card.Token()
		switch {
		case hand.cards.IsBust():
			hand.busted = true
			s.advance()
		case hand.cards.Total() == 21:
			hand.stood = true
			s.advance()
		}

	case strategy.Stand:
		hand.stood = true
		s.advance()

	case strategy.Double:
		card, err := s.drawCard()
		if err != nil {
			return nil, err
		}
		hand.cards = hand.cards.Add(card)
		hand.wager *= 2
		hand.doubled = true
		result.NewCard = card.Token()
		if hand.cards.IsBust() {
			hand.busted = true
		} else {
			hand.stood = true
		}
		s.advance()

	case strategy.Split:
		if err := s.split(hand); err != nil {
			return nil, err
		}

	case strategy.Surrender:
		hand.surrendered = true
		s.advance()

	default:
		return nil, protocol.Errorf(protocol.ErrBadInput, "unknown action %v", action)
	}

	// NewTotal reports the hand the action touched, which advance() may
	// no longer point at; after a split, acted indexes the first split hand.
	total := s.hands[acted].cards.Total()
	result.NewTotal = &total
	result.ActiveHand = s.active
	result.State = s.state.String()
	result.Bankroll = s.bankroll
	result.Count = wireSnapshot(s.counter.Snapshot())
	result.ShouldExit, result.ExitReason = s.exitSignal()

	if s.state == StateSettled {
		dealerTotal := s.dealer.Total()
		result.DealerCards = cardTokens(s.dealer.Cards)
		result.DealerTotal = &dealerTotal
		result.Outcomes = s.outcomes()
		net := s.roundNet
		result.Net = &net
	}
	return result, nil
}

// checkLegal enforces action legality for the active hand.
func (s *Session) checkLegal(action strategy.Action, hand *playerHand) error {
	if hand.frozen {
		return protocol.Errorf(protocol.ErrIllegalAction, "split aces receive exactly one card")
	}
	initial := len(hand.cards.Cards) == 2

	switch action {
	case strategy.Hit, strategy.Stand:
		return nil
	case strategy.Double:
		if !initial {
			return protocol.Errorf(protocol.ErrIllegalAction, "double is only legal on two cards")
		}
		if hand.fromSplit && !s.rules.DoubleAfterSplit {
			return protocol.Errorf(protocol.ErrIllegalAction, "double after split is not allowed")
		}
		if !s.rules.DoubleAllowedOn(hand.cards.Total()) {
			return protocol.Errorf(protocol.ErrIllegalAction, "double on %d is not allowed here", hand.cards.Total())
		}
		if s.bankroll-s.committed() < hand.wager {
			return protocol.Errorf(protocol.ErrIllegalAction, "bankroll cannot cover the double")
		}
		return nil
	case strategy.Split:
		if !initial || !hand.cards.IsPair() {
			return protocol.Errorf(protocol.ErrIllegalAction, "split requires a two-card pair")
		}
		if s.splitsUsed >= s.rules.MaxSplits {
			return protocol.Errorf(protocol.ErrIllegalAction, "split limit of %d reached", s.rules.MaxSplits)
		}
		if hand.cards.Cards[0].IsAce() && hand.fromSplit && !s.rules.ResplitAces {
			return protocol.Errorf(protocol.ErrIllegalAction, "aces cannot be resplit")
		}
		if s.bankroll-s.committed() < hand.wager {
			return protocol.Errorf(protocol.ErrIllegalAction, "bankroll cannot cover the split")
		}
		return nil
	case strategy.Surrender:
		if !s.rules.SurrenderAllowed {
			return protocol.Errorf(protocol.ErrIllegalAction, "surrender is not offered at this table")
		}
		if !initial || hand.fromSplit {
			return protocol.Errorf(protocol.ErrIllegalAction, "surrender is only legal on the initial two cards")
		}
		return nil
	default:
		return protocol.Errorf(protocol.ErrBadInput, "unknown action %v", action)
	}
}

// split replaces the active hand with two hands, one paired card each,
// and deals one card to each. Split aces are frozen after their card.
func (s *Session) split(hand *playerHand) error {
	c1 := hand.cards.Cards[0]
	c2 := hand.cards.Cards[1]
	n1, err := s.drawCard()
	if err != nil {
		return err
	}
	n2, err := s.drawCard()
	if err != nil {
		return err
	}

	first := &playerHand{cards: deck.NewHand(c1, n1), wager: hand.wager, fromSplit: true}
	second := &playerHand{cards: deck.NewHand(c2, n2), wager: hand.wager, fromSplit: true}
	if c1.IsAce() && !s.rules.HitSplitAces {
		first.frozen, second.frozen = true, true
		first.stood, second.stood = true, true
	}
	if first.cards.Total() == 21 {
		first.stood = true
	}
	if second.cards.Total() == 21 {
		second.stood = true
	}

	rest := append([]*playerHand{first, second}, s.hands[s.active+1:]...)
	s.hands = append(s.hands[:s.active], rest...)
	s.splitsUsed++

	if first.resolved() {
		s.advance()
	}
	return nil
}

// advance moves to the next unresolved hand, or finishes the round.
func (s *Session) advance() {
	for i, h := range s.hands {
		if !h.resolved() {
			s.active = i
			return
		}
	}
	s.finishRound()
}

// finishRound plays the dealer if any hand is still live and settles.
func (s *Session) finishRound() {
	live := false
	for _, h := range s.hands {
		if h.stood && !h.busted && !h.surrendered {
			live = true
			break
		}
	}
	if live {
		s.state = StateDealerTurn
		s.playDealer()
	}
	s.settle()
}

// playDealer reveals the hole card and draws to the house total. Every
// revealed card enters the count here and not before. Against a lone
// player natural the dealer only checks for a matching natural.
func (s *Session) playDealer() {
	hole, err := s.drawCard()
	if err != nil {
		// A shoe too thin for dealer play settles on the up-card alone.
		s.log.Warn().Err(err).Msg("shoe exhausted during dealer play")
		return
	}
	s.dealer = s.dealer.Add(hole)

	if s.playerNatural || s.dealer.IsBlackjack() {
		return
	}

	for {
		total := s.dealer.Total()
		if total > 17 {
			break
		}
		if total == 17 && (s.rules.DealerStandsSoft17 || !s.dealer.IsSoft()) {
			break
		}
		card, err := s.drawCard()
		if err != nil {
			s.log.Warn().Err(err).Msg("shoe exhausted during dealer play")
			break
		}
		s.dealer = s.dealer.Add(card)
	}
}

// settle computes outcomes, moves money and updates the ledger.
func (s *Session) settle() {
	dealerTotal := s.dealer.Total()
	dealerNatural := len(s.dealer.Cards) == 2 && s.dealer.IsBlackjack()
	dealerBust := dealerTotal > 21

	s.roundNet = 0
	split := len(s.hands) > 1
	for _, h := range s.hands {
		outcome, net := s.settleHand(h, dealerTotal, dealerNatural, dealerBust)
		s.bankroll += net
		s.roundNet += net

		record := statistics.HandRecord{
			Wagered:      h.wager,
			Net:          net,
			TrueCount:    s.dealTC,
			Blackjack:    outcome == OutcomeBlackjack,
			Surrendered:  outcome == OutcomeSurrender,
			PlayerBusted: outcome == OutcomeBust,
			DealerBusted: dealerBust,
			Doubled:      h.doubled,
			Split:        split,
		}
		if err := s.stats.Add(record); err != nil {
			s.log.Error().Err(err).Msg("statistics rejected hand record")
		}
		s.log.Debug().
			Str("hand", h.cards.String()).
			Str("outcome", outcome.String()).
			Float64("net", net).
			Int("dealer_total", dealerTotal).
			Msg("hand settled")
	}
	s.state = StateSettled
}

func (s *Session) settleHand(h *playerHand, dealerTotal int, dealerNatural, dealerBust bool) (Outcome, float64) {
	switch {
	case h.surrendered:
		return OutcomeSurrender, -h.wager / 2
	case h.busted:
		return OutcomeBust, -h.wager
	case s.playerNatural:
		if dealerNatural {
			return OutcomePush, 0
		}
		// BlackjackPayout is the premium over the stake: 3:2 nets +1.5x
		return OutcomeBlackjack, h.wager * s.rules.BlackjackPayout
	case dealerNatural:
		return OutcomeLoss, -h.wager
	case dealerBust:
		return OutcomeWin, h.wager
	case h.cards.Total() > dealerTotal:
		return OutcomeWin, h.wager
	case h.cards.Total() < dealerTotal:
		return OutcomeLoss, -h.wager
	default:
		return OutcomePush, 0
	}
}

func (s *Session) outcomes() []protocol.HandOutcome {
	dealerTotal := s.dealer.Total()
	dealerNatural := len(s.dealer.Cards) == 2 && s.dealer.IsBlackjack()
	dealerBust := dealerTotal > 21

	out := make([]protocol.HandOutcome, 0, len(s.hands))
	for _, h := range s.hands {
		outcome, net := s.settleHand(h, dealerTotal, dealerNatural, dealerBust)
		out = append(out, protocol.HandOutcome{
			Cards:   cardTokens(h.cards.Cards),
			Total:   h.cards.Total(),
			Outcome: outcome.String(),
			Wager:   h.wager,
			Net:     net,
		})
	}
	return out
}

// Observe feeds caller-observed cards into the count. The batch is
// atomic: a card that would overrun the shoe rejects the whole batch.
func (s *Session) Observe(tokens []string) (*protocol.ObserveResult, error) {
	if s.mode != protocol.ModeShadow {
		return nil, protocol.Errorf(protocol.ErrWrongMode, "observe is a shadow-mode operation")
	}
	cards, err := parseTokens(tokens)
	if err != nil {
		return nil, err
	}
	if err := s.counter.ObserveAll(cards); err != nil {
		return nil, err
	}
	if len(cards) > 0 {
		// Each observed batch approximates one round at the table.
		s.handsThisShoe++
	}

	snap := s.counter.Snapshot()
	exit, reason := s.exitSignal()
	return &protocol.ObserveResult{
		Count:          wireSnapshot(snap),
		RecommendedBet: s.betting.ComputeBet(snap.TrueCount, s.bankroll, snap.Penetration),
		ShouldExit:     exit,
		ExitReason:     reason,
	}, nil
}

// QueryDecision answers a shadow-mode strategy query without touching
// the shoe.
func (s *Session) QueryDecision(playerTokens []string, dealerToken string) (*protocol.QueryDecisionResult, error) {
	if s.mode != protocol.ModeShadow {
		return nil, protocol.Errorf(protocol.ErrWrongMode, "query_decision is a shadow-mode operation")
	}
	if len(playerTokens) < 2 {
		return nil, protocol.Errorf(protocol.ErrBadInput, "a hand needs at least two cards, got %d", len(playerTokens))
	}
	cards, err := parseTokens(playerTokens)
	if err != nil {
		return nil, err
	}
	up, err := deck.ParseCard(dealerToken)
	if err != nil {
		return nil, protocol.Errorf(protocol.ErrBadCard, "dealer up-card: %v", err)
	}

	snap := s.counter.Snapshot()
	decision := s.strategy.Decide(strategy.Situation{
		Hand:      deck.NewHand(cards...),
		DealerUp:  up,
		TrueCount: snap.TrueCount,
	})
	exit, reason := s.exitSignal()
	return &protocol.QueryDecisionResult{
		RecommendedAction: decision.Action.String(),
		DeviationID:       decision.DeviationID,
		TakeInsurance:     s.strategy.ShouldTakeInsurance(up, snap.TrueCount),
		Count:             wireSnapshot(snap),
		RecommendedBet:    s.betting.ComputeBet(snap.TrueCount, s.bankroll, snap.Penetration),
		ShouldExit:        exit,
		ExitReason:        reason,
	}, nil
}

// QueryBet sizes the next wager from the current count. Available in
// both modes.
func (s *Session) QueryBet() *protocol.QueryBetResult {
	snap := s.counter.Snapshot()
	return &protocol.QueryBetResult{
		RecommendedBet: s.betting.ComputeBet(snap.TrueCount, s.bankroll, snap.Penetration),
		Advantage:      s.betting.Advantage(snap.TrueCount),
		BreakevenCount: s.betting.BreakevenCount(),
		Count:          wireSnapshot(snap),
	}
}

// QueryInsurance answers the separate insurance question for a dealer
// up-card at the current count.
func (s *Session) QueryInsurance(dealerToken string) (*protocol.QueryInsureResult, error) {
	up, err := deck.ParseCard(dealerToken)
	if err != nil {
		return nil, protocol.Errorf(protocol.ErrBadCard, "dealer up-card: %v", err)
	}
	snap := s.counter.Snapshot()
	return &protocol.QueryInsureResult{
		TakeInsurance: s.strategy.ShouldTakeInsurance(up, snap.TrueCount),
		Count:         wireSnapshot(snap),
	}, nil
}

func parseTokens(tokens []string) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(tokens))
	for _, token := range tokens {
		card, err := deck.ParseCard(token)
		if err != nil {
			return nil, protocol.Errorf(protocol.ErrBadCard, "%v", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func cardTokens(cards []deck.Card) []string {
	tokens := make([]string, len(cards))
	for i, c := range cards {
		tokens[i] = c.Token()
	}
	return tokens
}
