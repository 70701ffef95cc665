package handler

import (
	"errors"
	"net/http"

	"github.com/freeeve/ti4engine/internal/auth"
	"github.com/freeeve/ti4engine/internal/service"
	"github.com/freeeve/ti4engine/pkg/ti4"
)

// CommandHandler handles command submission and status-phase ready-up
// endpoints.
type CommandHandler struct {
	commandSvc *service.CommandService
	phaseSvc   *service.PhaseService
	hub        *Hub
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(commandSvc *service.CommandService, phaseSvc *service.PhaseService, hub *Hub) *CommandHandler {
	return &CommandHandler{commandSvc: commandSvc, phaseSvc: phaseSvc, hub: hub}
}

// SubmitCommand handles POST /api/v1/games/{id}/commands
func (h *CommandHandler) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Kind    string         `json:"kind"`
		Payload map[string]any `json:"payload"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Kind == "" {
		writeError(w, http.StatusBadRequest, "kind is required")
		return
	}

	cmd, err := h.commandSvc.SubmitCommand(r.Context(), gameID, userID, req.Kind, req.Payload)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrGameNotActive), errors.Is(err, service.ErrNotInGame),
			errors.Is(err, service.ErrNoActivePhase), errors.Is(err, service.ErrUnknownCommand),
			errors.Is(err, service.ErrTransactionID), errors.Is(err, service.ErrUnknownTacticalStep):
			status = http.StatusBadRequest
		default:
			if isValidationError(err) {
				status = http.StatusUnprocessableEntity
			}
		}
		writeError(w, status, err.Error())
		return
	}

	h.hub.BroadcastToGame(gameID, WSEvent{
		Type:   EventPhaseChanged,
		GameID: gameID,
		Data:   cmd,
	})

	writeJSON(w, http.StatusOK, cmd)
}

// MarkReady handles POST /api/v1/games/{id}/ready
func (h *CommandHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.phaseSvc.MarkReady(r.Context(), gameID, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	readyCount, _ := h.phaseSvc.ReadyCount(r.Context(), gameID)
	writeJSON(w, http.StatusOK, map[string]any{"ready_count": readyCount})
}

// UnmarkReady handles DELETE /api/v1/games/{id}/ready
func (h *CommandHandler) UnmarkReady(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.phaseSvc.UnmarkReady(r.Context(), gameID, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	readyCount, _ := h.phaseSvc.ReadyCount(r.Context(), gameID)
	writeJSON(w, http.StatusOK, map[string]any{"ready_count": readyCount})
}

// isValidationError reports whether err is one of pkg/ti4's typed caller
// errors (as opposed to a host-layer or invariant error), which the HTTP
// surface maps to 422 rather than 500.
func isValidationError(err error) bool {
	var ve *ti4.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var it *ti4.InsufficientTradeGoodsError
	if errors.As(err, &it) {
		return true
	}
	var pn *ti4.PromissoryNoteNotOwnedError
	if errors.As(err, &pn) {
		return true
	}
	var nn *ti4.NotNeighborsError
	if errors.As(err, &nn) {
		return true
	}
	var dt *ti4.DuplicateTransactionIDError
	if errors.As(err, &dt) {
		return true
	}
	var ig *ti4.InvalidGameStateError
	return errors.As(err, &ig)
}
