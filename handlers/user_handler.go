package handlers

import (
	"net/http"

	"github.com/campus-sports/intramural-portal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListStudents serves the admin user directory. Read-only.
func (h *UserHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.userService.ListStudents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": students}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
