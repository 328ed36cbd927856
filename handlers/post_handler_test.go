package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	var captured services.CreatePostInput
	postService := &stubPostService{
		create: func(ctx context.Context, input services.CreatePostInput) (*models.Post, error) {
			captured = input
			return &models.Post{ID: 1, Content: input.Content, UserID: input.AuthorID}, nil
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodPost, "/feed/posts",
		strings.NewReader(`{"content":"Great game today!"}`))
	req = authenticated(req, 7, models.RoleStudent)
	rec := httptest.NewRecorder()
	handler.CreatePost(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 7, captured.AuthorID, "author comes from the token")
}

func TestCreatePostEmptyContent(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	req := httptest.NewRequest(http.MethodPost, "/feed/posts", strings.NewReader(`{"content":""}`))
	req = authenticated(req, 7, models.RoleStudent)
	rec := httptest.NewRecorder()
	handler.CreatePost(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePostForbiddenForNonAuthor(t *testing.T) {
	postService := &stubPostService{
		update: func(ctx context.Context, callerID int, callerRole models.UserRole, input services.UpdatePostInput) (*models.Post, error) {
			return nil, services.ErrNotPostAuthor
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodPut, "/feed/posts",
		strings.NewReader(`{"id":1,"content":"hijacked"}`))
	req = authenticated(req, 99, models.RoleStudent)
	rec := httptest.NewRecorder()
	handler.UpdatePost(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdatePostPassesCallerIdentity(t *testing.T) {
	var gotID int
	var gotRole models.UserRole
	postService := &stubPostService{
		update: func(ctx context.Context, callerID int, callerRole models.UserRole, input services.UpdatePostInput) (*models.Post, error) {
			gotID, gotRole = callerID, callerRole
			return &models.Post{ID: input.ID}, nil
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodPut, "/admin/announcements",
		strings.NewReader(`{"id":1,"content":"moderated"}`))
	req = authenticated(req, 3, models.RoleAdmin)
	rec := httptest.NewRecorder()
	handler.UpdatePost(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, gotID)
	assert.Equal(t, models.RoleAdmin, gotRole)
}

func TestDeletePostRequiresQueryID(t *testing.T) {
	handler := NewPostHandler(&stubPostService{})

	req := httptest.NewRequest(http.MethodDelete, "/feed/posts", nil)
	req = authenticated(req, 7, models.RoleStudent)
	rec := httptest.NewRecorder()
	handler.DeletePost(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPostImage(t *testing.T) {
	var gotPostID int
	var gotContentType string
	postService := &stubPostService{
		attachImage: func(ctx context.Context, callerID int, callerRole models.UserRole, postID int, contentType string, body io.Reader) (*models.Post, error) {
			gotPostID = postID
			gotContentType = contentType
			url := "https://cdn.example.test/posts/42/1.png"
			return &models.Post{ID: postID, ImageURL: &url}, nil
		},
	}
	handler := NewPostHandler(postService)

	router := chi.NewRouter()
	router.Post("/feed/posts/{postID}/image", handler.UploadPostImage)

	req := httptest.NewRequest(http.MethodPost, "/feed/posts/42/image", strings.NewReader("raw-image-bytes"))
	req.Header.Set("Content-Type", "image/png")
	req = authenticated(req, 7, models.RoleStudent)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 42, gotPostID)
	assert.Equal(t, "image/png", gotContentType)

	payload := decodeBody(t, rec.Body)
	post, ok := payload["post"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, post["image_url"])
}

func TestListAnnouncements(t *testing.T) {
	postService := &stubPostService{
		listAnnouncements: func(ctx context.Context) ([]models.Post, error) {
			return []models.Post{{ID: 1, Content: "gym closed friday"}}, nil
		},
	}
	handler := NewPostHandler(postService)

	req := httptest.NewRequest(http.MethodGet, "/admin/announcements", nil)
	req = authenticated(req, 3, models.RoleAdmin)
	rec := httptest.NewRecorder()
	handler.ListAnnouncements(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec.Body)
	announcements, ok := payload["announcements"].([]interface{})
	require.True(t, ok)
	assert.Len(t, announcements, 1)
}
