package ti4

import "testing"

func TestValidateCommandPhaseRejectsWrongPhase(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.Phase = PhaseAction

	if err := ValidateCommandPhase(g, CommandSelectStrategyCard); err == nil {
		t.Error("expected select_strategy_card to be rejected outside the strategy phase")
	}
	if err := ValidateCommandPhase(g, CommandTakeTacticalAction); err != nil {
		t.Errorf("expected take_tactical_action to be legal in the action phase, got %v", err)
	}
}

func TestValidateTurnOrder(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.ActivePlayer = "p1"

	if err := ValidateTurnOrder(g, "p2"); err == nil {
		t.Error("expected a non-active player to fail turn order validation")
	}
	if err := ValidateTurnOrder(g, "p1"); err != nil {
		t.Errorf("expected the active player to pass turn order validation, got %v", err)
	}
}

func TestValidatePlayerAndSystemExist(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.Players = []*Player{NewPlayer("p1", Faction("arborec"), 0, 0, 0, 0)}
	sys := NewSystem("s")
	g.Galaxy.PlaceSystem(HexCoord{Q: 0, R: 0}, sys)

	if err := ValidatePlayerExists(g, "p1"); err != nil {
		t.Errorf("expected p1 to be found, got %v", err)
	}
	if err := ValidatePlayerExists(g, "p2"); err == nil {
		t.Error("expected an unknown player to fail validation")
	}
	if err := ValidateSystemExists(g, "s"); err != nil {
		t.Errorf("expected system s to be found, got %v", err)
	}
	if err := ValidateSystemExists(g, "missing"); err == nil {
		t.Error("expected an unknown system to fail validation")
	}
}

func TestValidateNoDuplicateSelection(t *testing.T) {
	if err := ValidateNoDuplicateSelection("unit_ids", []string{"a", "b", "c"}); err != nil {
		t.Errorf("expected distinct ids to pass, got %v", err)
	}
	if err := ValidateNoDuplicateSelection("unit_ids", []string{"a", "b", "a"}); err == nil {
		t.Error("expected a duplicate id to fail validation")
	}
}
