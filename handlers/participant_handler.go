package handlers

import (
	"net/http"

	"github.com/campus-sports/intramural-portal/middleware"
	"github.com/campus-sports/intramural-portal/services"
)

// ParticipantHandler serves the student event board: browse upcoming
// events, join, withdraw.
type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

func (h *ParticipantHandler) ListStudentEvents(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	events, err := h.participantService.ListStudentEvents(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) JoinEvent(w http.ResponseWriter, r *http.Request) {
	var input struct {
		EventID int `json:"event_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if missing := missingFields(map[string]bool{"event_id": input.EventID > 0}); len(missing) > 0 {
		failedValidationResponse(w, r, missing)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	participation, err := h.participantService.JoinEvent(r.Context(), currentUserID, input.EventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participation": participation}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipantHandler) WithdrawFromEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromQuery(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	if err := h.participantService.WithdrawFromEvent(r.Context(), currentUserID, eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "withdrawn from event successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
