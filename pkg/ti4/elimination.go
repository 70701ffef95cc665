package ti4

// IsEliminated reports whether player meets the elimination condition:
// zero ground forces, zero production units, and zero controlled planets,
// scanned across the full galaxy.
func IsEliminated(state *GameState, player PlayerID) bool {
	for _, sys := range state.Galaxy.AllSystems() {
		for _, u := range sys.SpaceUnits {
			if u.Owner == player && u.Type == SpaceDock {
				return false
			}
		}
		for _, planet := range sys.Planets {
			if planet.ControlledBy == player {
				return false
			}
			for _, u := range planet.GroundUnits {
				if u.Owner == player {
					return false
				}
			}
		}
	}
	return true
}

// Eliminate removes player from play: strips all their units, discards
// their agenda cards is a no-op at this layer (agenda hands are not
// modeled as a per-player resource distinct from votes cast), returns
// held strategy cards to the pool, passes the speaker token if held,
// revokes Alliance grants they issued, returns captured units to
// original owners, and removes player from Players and PlayerOrder.
func Eliminate(state *GameState, player PlayerID, coordinator *StrategyCardCoordinator) *GameState {
	next := state.Clone()

	for _, sys := range next.Galaxy.AllSystems() {
		var keptSpace []Unit
		for _, u := range sys.SpaceUnits {
			if u.Owner != player {
				if u.Capturing == player {
					u.Capturing = ""
				}
				keptSpace = append(keptSpace, u)
			}
		}
		sys.SpaceUnits = keptSpace

		for _, planet := range sys.Planets {
			var keptGround []Unit
			for _, u := range planet.GroundUnits {
				if u.Owner != player {
					if u.Capturing == player {
						u.Capturing = ""
					}
					keptGround = append(keptGround, u)
				}
			}
			planet.GroundUnits = keptGround
			if planet.ControlledBy == player {
				planet.ReconcileControl()
				if len(planet.GroundUnits) == 0 {
					planet.ControlledBy = ""
				}
			}
		}
	}

	next = RevokeAllianceGrantsByIssuer(next, player)

	for _, p := range next.Players {
		var keptCaptured []CapturedUnit
		for _, cu := range p.CapturedUnits {
			if cu.OriginalOwner != player {
				keptCaptured = append(keptCaptured, cu)
			}
		}
		p.CapturedUnits = keptCaptured
	}

	var survivors []PlayerID
	for _, p := range next.Players {
		if p.ID != player {
			survivors = append(survivors, p.ID)
		}
	}
	if coordinator != nil {
		next = coordinator.ReassignOnElimination(next, player, survivors)
	}

	var keptPlayers []*Player
	for _, p := range next.Players {
		if p.ID != player {
			keptPlayers = append(keptPlayers, p)
		}
	}
	next.Players = keptPlayers

	var keptOrder []PlayerID
	for _, id := range next.PlayerOrder {
		if id != player {
			keptOrder = append(keptOrder, id)
		}
	}
	next.PlayerOrder = keptOrder

	return next
}
