package handlers

import (
	"net/http"

	"github.com/campus-sports/intramural-portal/middleware"
	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/services"
)

const maxImageBytes = 5 << 20 // 5MB

// PostHandler serves both the student feed and the admin announcement
// board; announcements are posts authored by admins.
type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListFeed(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"posts": posts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.postService.ListAnnouncements(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"announcements": announcements}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var input services.CreatePostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if missing := missingFields(map[string]bool{"content": input.Content != ""}); len(missing) > 0 {
		failedValidationResponse(w, r, missing)
		return
	}

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	input.AuthorID = currentUserID

	post, err := h.postService.CreatePost(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var input services.UpdatePostInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if missing := missingFields(map[string]bool{"id": input.ID > 0}); len(missing) > 0 {
		failedValidationResponse(w, r, missing)
		return
	}

	callerID, callerRole, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), callerID, callerRole, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromQuery(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	callerID, callerRole, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	if err := h.postService.DeletePost(r.Context(), callerID, callerRole, postID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "post deleted successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadPostImage stores the request body as the post's image. The body
// is the raw image; its Content-Type header names the format.
func (h *PostHandler) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	postID, err := getIDFromURL(r, "postID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	callerID, callerRole, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	body := http.MaxBytesReader(w, r.Body, maxImageBytes)

	post, err := h.postService.AttachImage(r.Context(), callerID, callerRole, postID, contentType, body)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"post": post}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (int, models.UserRole, bool) {
	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return 0, "", false
	}
	callerRole, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return 0, "", false
	}
	return callerID, callerRole, true
}
