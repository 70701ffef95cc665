package ti4

import "testing"

func TestIsEliminatedTrueWithNoAssets(t *testing.T) {
	g := NewGameState(CardRegistry{})
	sys := NewSystem("s")
	planet := &Planet{Name: "a"}
	sys.Planets = []*Planet{planet}
	g.Galaxy.PlaceSystem(HexCoord{Q: 0, R: 0}, sys)

	if !IsEliminated(g, "p1") {
		t.Error("expected a player with no ground forces, docks, or controlled planets to be eliminated")
	}
}

func TestIsEliminatedFalseWithGroundForce(t *testing.T) {
	g := NewGameState(CardRegistry{})
	sys := NewSystem("s")
	planet := &Planet{Name: "a"}
	planet.GroundUnits = []Unit{{ID: "inf1", Type: Infantry, Owner: "p1"}}
	sys.Planets = []*Planet{planet}
	g.Galaxy.PlaceSystem(HexCoord{Q: 0, R: 0}, sys)

	if IsEliminated(g, "p1") {
		t.Error("expected a player with a surviving ground force to not be eliminated")
	}
}

func TestIsEliminatedFalseWithSpaceDock(t *testing.T) {
	g := NewGameState(CardRegistry{})
	sys := NewSystem("s")
	sys.SpaceUnits = []Unit{{ID: "dock1", Type: SpaceDock, Owner: "p1"}}
	g.Galaxy.PlaceSystem(HexCoord{Q: 0, R: 0}, sys)

	if IsEliminated(g, "p1") {
		t.Error("expected a player with a surviving space dock to not be eliminated")
	}
}

func TestEliminateRemovesUnitsAndRevokesGrants(t *testing.T) {
	g := NewGameState(CardRegistry{})
	g.PlayerOrder = []PlayerID{"p1", "p2", "p3"}
	g.SpeakerID = "p1"
	g.AllianceGrants = []AllianceGrant{{Issuer: "p1", Recipient: "p2"}}
	g.Players = []*Player{
		NewPlayer("p1", Faction("arborec"), 0, 0, 0, 0),
		NewPlayer("p2", Faction("jolnar"), 0, 0, 0, 0),
		NewPlayer("p3", Faction("hacan"), 0, 0, 0, 0),
	}
	g.StrategyCardOwner = map[string]PlayerID{Leadership: "p1"}
	g.StrategyExhausted = map[string]bool{Leadership: false}

	sys := NewSystem("s")
	planet := &Planet{Name: "a", ControlledBy: "p1"}
	planet.GroundUnits = []Unit{{ID: "inf1", Type: Infantry, Owner: "p1"}}
	sys.Planets = []*Planet{planet}
	sys.SpaceUnits = []Unit{{ID: "dock1", Type: SpaceDock, Owner: "p1"}}
	g.Galaxy.PlaceSystem(HexCoord{Q: 0, R: 0}, sys)

	coordinator := NewStrategyCardCoordinator()
	next := Eliminate(g, "p1", coordinator)

	nextSys := next.Galaxy.System("s")
	if len(nextSys.SpaceUnits) != 0 {
		t.Errorf("expected p1's units removed from space, got %v", nextSys.SpaceUnits)
	}
	if len(nextSys.Planets[0].GroundUnits) != 0 || nextSys.Planets[0].ControlledBy != "" {
		t.Errorf("expected planet a to be vacated, got units %v controller %q", nextSys.Planets[0].GroundUnits, nextSys.Planets[0].ControlledBy)
	}
	if len(next.AllianceGrants) != 0 {
		t.Error("expected p1's issued alliance grants to be revoked")
	}
	if _, owned := next.StrategyCardOwner[Leadership]; owned {
		t.Error("expected p1's strategy cards to return to the pool")
	}
	if next.SpeakerID != "p2" {
		t.Errorf("expected the speaker token to pass to p2, got %s", next.SpeakerID)
	}
	if len(next.Players) != 2 {
		t.Errorf("expected 2 surviving players, got %d", len(next.Players))
	}
	for _, p := range next.Players {
		if p.ID == "p1" {
			t.Error("expected p1 to be absent from Players")
		}
	}
	for _, id := range next.PlayerOrder {
		if id == "p1" {
			t.Error("expected p1 to be absent from PlayerOrder")
		}
	}
}
