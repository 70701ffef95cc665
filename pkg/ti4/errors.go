package ti4

import "fmt"

// ValidationError reports a caller mistake caught before any state mutation:
// an unknown id, an illegal command for the current phase, or a malformed
// argument. It is a struct implementing error rather than a bare string, so
// callers can inspect the offending field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Detail)
}

// InvariantViolationError reports an attempt to put the engine's own data
// structures into an inconsistent state (e.g. two systems at one hex
// coordinate). These indicate a bug in the caller's construction code, not
// a player mistake, and are never expected to surface through the public
// command surface during normal play.
type InvariantViolationError struct {
	Kind   string
	Detail string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s: %s", e.Kind, e.Detail)
}

// AbilityExecutionError reports that a registered ability's effect function
// returned an error while applying its consequences. Carries the ability id
// so a caller auditing the event log can correlate the failure with the
// triggering event.
type AbilityExecutionError struct {
	AbilityID string
	Cause     error
}

func (e *AbilityExecutionError) Error() string {
	return fmt.Sprintf("ability %s failed: %v", e.AbilityID, e.Cause)
}

func (e *AbilityExecutionError) Unwrap() error {
	return e.Cause
}

// InsufficientTradeGoodsError reports a transaction or ability that would
// spend more trade goods than the offering player holds.
type InsufficientTradeGoodsError struct {
	Player   PlayerID
	Have     int
	Required int
}

func (e *InsufficientTradeGoodsError) Error() string {
	return fmt.Sprintf("player %s has %d trade goods, needs %d", e.Player, e.Have, e.Required)
}

// PromissoryNoteNotOwnedError reports an attempt to offer, play, or return a
// promissory note the acting player does not hold.
type PromissoryNoteNotOwnedError struct {
	Player PlayerID
	NoteID string
}

func (e *PromissoryNoteNotOwnedError) Error() string {
	return fmt.Sprintf("player %s does not hold promissory note %s", e.Player, e.NoteID)
}

// NotNeighborsError reports a transaction proposed between two players
// whose systems are not neighbors, when the transaction requires neighbor
// adjacency.
type NotNeighborsError struct {
	A, B PlayerID
}

func (e *NotNeighborsError) Error() string {
	return fmt.Sprintf("players %s and %s are not neighbors", e.A, e.B)
}

// DuplicateTransactionIDError reports a proposed transaction reusing an id
// already used by a pending or historical transaction.
type DuplicateTransactionIDError struct {
	TransactionID string
}

func (e *DuplicateTransactionIDError) Error() string {
	return fmt.Sprintf("transaction id %s already exists", e.TransactionID)
}

// InvalidGameStateError reports a command that cannot be applied to the
// current GameState regardless of its arguments (wrong phase, game already
// over, round loop not started).
type InvalidGameStateError struct {
	Detail string
}

func (e *InvalidGameStateError) Error() string {
	return fmt.Sprintf("invalid game state: %s", e.Detail)
}
