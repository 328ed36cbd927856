package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/campus-sports/intramural-portal/middleware"
	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/services"
	"github.com/stretchr/testify/require"
)

// Stub services carry one function field per operation; a test sets only
// the ones its handler will reach.

type stubAuthService struct {
	register func(ctx context.Context, input services.RegisterInput) (*models.User, error)
	login    func(ctx context.Context, input services.LoginInput) (*models.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	return s.register(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, input services.LoginInput) (*models.User, error) {
	return s.login(ctx, input)
}

type stubTeamService struct {
	list   func(ctx context.Context) ([]models.Team, error)
	get    func(ctx context.Context, id int) (*models.Team, error)
	create func(ctx context.Context, input services.CreateTeamInput) (*models.Team, error)
	update func(ctx context.Context, input services.UpdateTeamInput) (*models.Team, error)
	remove func(ctx context.Context, id int) error
}

func (s *stubTeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.list(ctx)
}

func (s *stubTeamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	return s.get(ctx, id)
}

func (s *stubTeamService) CreateTeam(ctx context.Context, input services.CreateTeamInput) (*models.Team, error) {
	return s.create(ctx, input)
}

func (s *stubTeamService) UpdateTeam(ctx context.Context, input services.UpdateTeamInput) (*models.Team, error) {
	return s.update(ctx, input)
}

func (s *stubTeamService) DeleteTeam(ctx context.Context, id int) error {
	return s.remove(ctx, id)
}

type stubEventService struct {
	list   func(ctx context.Context) ([]models.Event, error)
	get    func(ctx context.Context, id int) (*models.Event, error)
	create func(ctx context.Context, input services.CreateEventInput) (*models.Event, error)
	update func(ctx context.Context, input services.UpdateEventInput) (*models.Event, error)
	remove func(ctx context.Context, id int) error
}

func (s *stubEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.list(ctx)
}

func (s *stubEventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	return s.get(ctx, id)
}

func (s *stubEventService) CreateEvent(ctx context.Context, input services.CreateEventInput) (*models.Event, error) {
	return s.create(ctx, input)
}

func (s *stubEventService) UpdateEvent(ctx context.Context, input services.UpdateEventInput) (*models.Event, error) {
	return s.update(ctx, input)
}

func (s *stubEventService) DeleteEvent(ctx context.Context, id int) error {
	return s.remove(ctx, id)
}

type stubPostService struct {
	listFeed          func(ctx context.Context) ([]models.Post, error)
	listAnnouncements func(ctx context.Context) ([]models.Post, error)
	create            func(ctx context.Context, input services.CreatePostInput) (*models.Post, error)
	update            func(ctx context.Context, callerID int, callerRole models.UserRole, input services.UpdatePostInput) (*models.Post, error)
	remove            func(ctx context.Context, callerID int, callerRole models.UserRole, id int) error
	attachImage       func(ctx context.Context, callerID int, callerRole models.UserRole, postID int, contentType string, body io.Reader) (*models.Post, error)
}

func (s *stubPostService) ListFeed(ctx context.Context) ([]models.Post, error) {
	return s.listFeed(ctx)
}

func (s *stubPostService) ListAnnouncements(ctx context.Context) ([]models.Post, error) {
	return s.listAnnouncements(ctx)
}

func (s *stubPostService) CreatePost(ctx context.Context, input services.CreatePostInput) (*models.Post, error) {
	return s.create(ctx, input)
}

func (s *stubPostService) UpdatePost(ctx context.Context, callerID int, callerRole models.UserRole, input services.UpdatePostInput) (*models.Post, error) {
	return s.update(ctx, callerID, callerRole, input)
}

func (s *stubPostService) DeletePost(ctx context.Context, callerID int, callerRole models.UserRole, id int) error {
	return s.remove(ctx, callerID, callerRole, id)
}

func (s *stubPostService) AttachImage(ctx context.Context, callerID int, callerRole models.UserRole, postID int, contentType string, body io.Reader) (*models.Post, error) {
	return s.attachImage(ctx, callerID, callerRole, postID, contentType, body)
}

type stubParticipantService struct {
	list     func(ctx context.Context, userID int) ([]models.Event, error)
	join     func(ctx context.Context, userID, eventID int) (*models.EventParticipant, error)
	withdraw func(ctx context.Context, userID, eventID int) error
}

func (s *stubParticipantService) ListStudentEvents(ctx context.Context, userID int) ([]models.Event, error) {
	return s.list(ctx, userID)
}

func (s *stubParticipantService) JoinEvent(ctx context.Context, userID, eventID int) (*models.EventParticipant, error) {
	return s.join(ctx, userID, eventID)
}

func (s *stubParticipantService) WithdrawFromEvent(ctx context.Context, userID, eventID int) error {
	return s.withdraw(ctx, userID, eventID)
}

// authenticated attaches identity claims the way the auth middleware does.
func authenticated(r *http.Request, userID int, role models.UserRole) *http.Request {
	return r.WithContext(middleware.ContextWithClaims(r.Context(), userID, role))
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}
