package ti4

import "encoding/json"

// Law is a persistent effect installed by an enacted agenda. Directives
// are not represented here: they execute once in agenda.go and are
// discarded without ever entering ActiveLaws.
type Law struct {
	AgendaID      string
	Outcome       string
	EnactedRound  int
	UnitModifiers []StatModifier
}

// TransactionStatus is the lifecycle state of a ComponentTransaction.
type TransactionStatus int

const (
	TransactionPending TransactionStatus = iota
	TransactionAccepted
	TransactionRejected
	TransactionCancelled
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionPending:
		return "pending"
	case TransactionAccepted:
		return "accepted"
	case TransactionRejected:
		return "rejected"
	case TransactionCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TransactionBundle is one side of a proposed exchange: trade goods,
// commodities, promissory notes, and relic fragments.
type TransactionBundle struct {
	TradeGoods      int
	Commodities     int
	PromissoryNotes []string
	RelicFragments  []PlanetTrait
}

// ComponentTransaction is a single proposed or completed bilateral
// exchange.
type ComponentTransaction struct {
	ID                 string
	ProposingPlayer    PlayerID
	TargetPlayer       PlayerID
	Offer              TransactionBundle
	Request            TransactionBundle
	Status             TransactionStatus
	ProposalRound      int
	ProposalPhase      Phase
	CompletionRound    int
	CompletionPhase    Phase
	Completed          bool
}

// TransactionObserver is notified after a transaction commits.
// Implementations must not mutate the engine during notification:
// re-entrant calls are not supported, since GameState is immutable and a
// callback attempting to mutate it would only corrupt its own host copy.
type TransactionObserver interface {
	OnTransactionCompleted(tx ComponentTransaction)
}

// EventEntry is one chronological entry in GameState's append-only event
// log.
type EventEntry struct {
	Sequence  int
	Round     int
	Phase     Phase
	Turn      PlayerID
	Kind      string
	Payload   map[string]any
}

// GameState is the immutable root of a single game. Every mutation yields
// a fresh GameState via Clone + field replacement; nothing here is ever
// mutated in place by public operations once returned to a caller. It
// carries round, phase, and turn order alongside the full TI4 data model:
// transactions, laws, strategy cards, and agenda/custodians state.
type GameState struct {
	Players     []*Player
	PlayerOrder []PlayerID // turn order, speaker-relative rotations derived from this
	Galaxy      *Galaxy
	Cards       CardRegistry

	Phase        Phase
	Round        int
	ActivePlayer PlayerID
	SpeakerID    PlayerID

	PendingTransactions map[string]ComponentTransaction
	TransactionHistory  []ComponentTransaction

	ActiveLaws []Law

	AllianceGrants []AllianceGrant

	StrategyCardOwner map[string]PlayerID // card id -> owner
	StrategyExhausted map[string]bool     // card id -> exhausted

	CustodiansTokenPresent bool
	InitialPlayerCount     int

	// GravityDriveBonusUnitID names the ship granted +1 movement range by
	// the Gravity Drive ability for the current system activation, reset
	// by the next ActivateSystem call (see technology_gravity_drive.go).
	GravityDriveBonusUnitID string

	EventLog  []EventEntry
	nextSeq   int
	observers []TransactionObserver
}

// NewGameState returns a fresh GameState with no players or systems placed;
// callers populate it via the setup helpers before starting the round loop.
func NewGameState(cards CardRegistry) *GameState {
	return &GameState{
		Galaxy:                 NewGalaxy(),
		Cards:                  cards,
		Phase:                  PhaseStrategy,
		Round:                  1,
		PendingTransactions:    make(map[string]ComponentTransaction),
		StrategyCardOwner:      make(map[string]PlayerID),
		StrategyExhausted:      make(map[string]bool),
		CustodiansTokenPresent: true,
	}
}

// Player returns the player with id, or nil.
func (g *GameState) Player(id PlayerID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of g, suitable as the starting point for a
// mutation. The observer list is shared (observers attach to the game,
// not a snapshot).
func (g *GameState) Clone() *GameState {
	c := &GameState{
		PlayerOrder:            append([]PlayerID(nil), g.PlayerOrder...),
		Phase:                  g.Phase,
		Round:                  g.Round,
		ActivePlayer:           g.ActivePlayer,
		SpeakerID:              g.SpeakerID,
		CustodiansTokenPresent: g.CustodiansTokenPresent,
		InitialPlayerCount:     g.InitialPlayerCount,
		GravityDriveBonusUnitID: g.GravityDriveBonusUnitID,
		Cards:                  g.Cards,
		nextSeq:                g.nextSeq,
		observers:              g.observers,
	}

	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Clone()
	}

	c.Galaxy = g.Galaxy.Clone()

	c.PendingTransactions = make(map[string]ComponentTransaction, len(g.PendingTransactions))
	for k, v := range g.PendingTransactions {
		c.PendingTransactions[k] = v
	}

	c.TransactionHistory = append([]ComponentTransaction(nil), g.TransactionHistory...)
	c.ActiveLaws = append([]Law(nil), g.ActiveLaws...)
	c.AllianceGrants = append([]AllianceGrant(nil), g.AllianceGrants...)

	c.StrategyCardOwner = make(map[string]PlayerID, len(g.StrategyCardOwner))
	for k, v := range g.StrategyCardOwner {
		c.StrategyCardOwner[k] = v
	}
	c.StrategyExhausted = make(map[string]bool, len(g.StrategyExhausted))
	for k, v := range g.StrategyExhausted {
		c.StrategyExhausted[k] = v
	}

	c.EventLog = append([]EventEntry(nil), g.EventLog...)

	return c
}

// AppendEvent returns a clone of g with a new EventEntry appended, its
// sequence number one greater than the last.
func (g *GameState) AppendEvent(kind string, payload map[string]any) *GameState {
	c := g.Clone()
	c.nextSeq++
	c.EventLog = append(c.EventLog, EventEntry{
		Sequence: c.nextSeq,
		Round:    c.Round,
		Phase:    c.Phase,
		Turn:     c.ActivePlayer,
		Kind:     kind,
		Payload:  payload,
	})
	return c
}

// RegisterTransactionObserver attaches observer to every future state
// derived from g (observers are part of the game, not a per-snapshot
// value).
func (g *GameState) RegisterTransactionObserver(observer TransactionObserver) {
	g.observers = append(g.observers, observer)
}

// NotifyObservers invokes OnTransactionCompleted on every registered
// observer, isolating each call so one observer's panic does not prevent
// others from running. Observer errors are not returned to the caller;
// hosts that need to know about them should log inside their own observer
// implementation, the same way a broadcaster error never fails the
// originating command at the service layer.
func (g *GameState) NotifyObservers(tx ComponentTransaction) {
	for _, o := range g.observers {
		notifySafely(o, tx)
	}
}

func notifySafely(o TransactionObserver, tx ComponentTransaction) {
	defer func() {
		_ = recover()
	}()
	o.OnTransactionCompleted(tx)
}

// Validate checks the cross-cutting invariants against g: no negative
// resource or command-token counts, no commodity count over its ceiling,
// and no duplicate transaction id across pending and historical
// transactions. It never mutates g; a non-nil error indicates an
// InvariantViolationError the caller must treat as fatal.
func (g *GameState) Validate() error {
	for _, p := range g.Players {
		if p.TradeGoods < 0 || p.Commodities < 0 {
			return &InvariantViolationError{Kind: "negative_resource", Detail: string(p.ID)}
		}
		for _, v := range p.CommandTokens {
			if v < 0 {
				return &InvariantViolationError{Kind: "negative_command_tokens", Detail: string(p.ID)}
			}
		}
		if p.Commodities > p.CommodityValue {
			return &InvariantViolationError{Kind: "commodity_over_ceiling", Detail: string(p.ID)}
		}
	}
	seen := make(map[string]bool)
	for id := range g.PendingTransactions {
		if seen[id] {
			return &InvariantViolationError{Kind: "duplicate_transaction_id", Detail: id}
		}
		seen[id] = true
	}
	for _, tx := range g.TransactionHistory {
		if seen[tx.ID] {
			return &InvariantViolationError{Kind: "duplicate_transaction_id", Detail: tx.ID}
		}
		seen[tx.ID] = true
	}
	return nil
}

// gameStateSnapshot mirrors GameState's exported fields plus its private
// sequence counter, omitting Cards and observers: card content is supplied
// at construction time by the host and is never part of a persisted
// snapshot, and observers attach to a live game, not a stored one.
type gameStateSnapshot struct {
	Players                 []*Player
	PlayerOrder             []PlayerID
	Galaxy                  *Galaxy
	Phase                   Phase
	Round                   int
	ActivePlayer            PlayerID
	SpeakerID               PlayerID
	PendingTransactions     map[string]ComponentTransaction
	TransactionHistory      []ComponentTransaction
	ActiveLaws              []Law
	AllianceGrants          []AllianceGrant
	StrategyCardOwner       map[string]PlayerID
	StrategyExhausted       map[string]bool
	CustodiansTokenPresent  bool
	InitialPlayerCount      int
	GravityDriveBonusUnitID string
	EventLog                []EventEntry
	NextSeq                 int
}

// MarshalJSON persists every field except Cards and observers.
func (g *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameStateSnapshot{
		Players:                 g.Players,
		PlayerOrder:             g.PlayerOrder,
		Galaxy:                  g.Galaxy,
		Phase:                   g.Phase,
		Round:                   g.Round,
		ActivePlayer:            g.ActivePlayer,
		SpeakerID:               g.SpeakerID,
		PendingTransactions:     g.PendingTransactions,
		TransactionHistory:      g.TransactionHistory,
		ActiveLaws:              g.ActiveLaws,
		AllianceGrants:          g.AllianceGrants,
		StrategyCardOwner:       g.StrategyCardOwner,
		StrategyExhausted:       g.StrategyExhausted,
		CustodiansTokenPresent:  g.CustodiansTokenPresent,
		InitialPlayerCount:      g.InitialPlayerCount,
		GravityDriveBonusUnitID: g.GravityDriveBonusUnitID,
		EventLog:                g.EventLog,
		NextSeq:                 g.nextSeq,
	})
}

// UnmarshalJSON restores every field except Cards and observers; callers
// must attach a CardRegistry (and any observers) before using the result.
func (g *GameState) UnmarshalJSON(data []byte) error {
	var snap gameStateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	g.Players = snap.Players
	g.PlayerOrder = snap.PlayerOrder
	g.Galaxy = snap.Galaxy
	g.Phase = snap.Phase
	g.Round = snap.Round
	g.ActivePlayer = snap.ActivePlayer
	g.SpeakerID = snap.SpeakerID
	g.PendingTransactions = snap.PendingTransactions
	g.TransactionHistory = snap.TransactionHistory
	g.ActiveLaws = snap.ActiveLaws
	g.AllianceGrants = snap.AllianceGrants
	g.StrategyCardOwner = snap.StrategyCardOwner
	g.StrategyExhausted = snap.StrategyExhausted
	g.CustodiansTokenPresent = snap.CustodiansTokenPresent
	g.InitialPlayerCount = snap.InitialPlayerCount
	g.GravityDriveBonusUnitID = snap.GravityDriveBonusUnitID
	g.EventLog = snap.EventLog
	g.nextSeq = snap.NextSeq
	return nil
}
