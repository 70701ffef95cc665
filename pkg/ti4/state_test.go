package ti4

import "testing"

func TestGameStateCloneIndependence(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.Players = append(g.Players, NewPlayer("p1", Faction("arborec"), 3, 1, 1, 1))

	c := g.Clone()
	c.Players[0].TradeGoods = 99
	c.Round = 7

	if g.Players[0].TradeGoods == 99 {
		t.Error("mutating the clone's player should not affect the original")
	}
	if g.Round == 7 {
		t.Error("mutating the clone's round should not affect the original")
	}
}

func TestGameStateAppendEventIncrementsSequence(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g1 := g.AppendEvent("test_event", map[string]any{"a": 1})
	g2 := g1.AppendEvent("test_event", map[string]any{"a": 2})

	if len(g2.EventLog) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(g2.EventLog))
	}
	if g2.EventLog[0].Sequence >= g2.EventLog[1].Sequence {
		t.Error("expected monotonically increasing sequence numbers")
	}
	if len(g.EventLog) != 0 {
		t.Error("the original state's event log should be unaffected")
	}
}

func TestGameStateValidateNegativeResources(t *testing.T) {
	g := NewGameState(CardRegistry{})
	p := NewPlayer("p1", Faction("arborec"), 3, 0, 0, 0)
	p.TradeGoods = -1
	g.Players = append(g.Players, p)

	if err := g.Validate(); err == nil {
		t.Error("expected a negative trade goods balance to fail validation")
	}
}

func TestGameStateValidateCommodityCeiling(t *testing.T) {
	g := NewGameState(CardRegistry{})
	p := NewPlayer("p1", Faction("arborec"), 3, 0, 0, 0)
	p.Commodities = 5
	g.Players = append(g.Players, p)

	if err := g.Validate(); err == nil {
		t.Error("expected commodities above the ceiling to fail validation")
	}
}

func TestGameStateValidateDuplicateTransactionID(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.TransactionHistory = []ComponentTransaction{{ID: "tx1"}}
	g.PendingTransactions["tx1"] = ComponentTransaction{ID: "tx1"}

	if err := g.Validate(); err == nil {
		t.Error("expected a transaction id present in both pending and history to fail validation")
	}
}

type fakeObserver struct {
	notified []ComponentTransaction
}

func (f *fakeObserver) OnTransactionCompleted(tx ComponentTransaction) {
	f.notified = append(f.notified, tx)
}

type panicObserver struct{}

func (panicObserver) OnTransactionCompleted(tx ComponentTransaction) {
	panic("observer exploded")
}

func TestGameStateNotifyObserversIsolatesPanics(t *testing.T) {
	g := NewGameState(CardRegistry{})
	ok := &fakeObserver{}
	g.RegisterTransactionObserver(panicObserver{})
	g.RegisterTransactionObserver(ok)

	g.NotifyObservers(ComponentTransaction{ID: "tx1"})

	if len(ok.notified) != 1 {
		t.Errorf("expected the second observer to still be notified despite the first panicking, got %d notifications", len(ok.notified))
	}
}
