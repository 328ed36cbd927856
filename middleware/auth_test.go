package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func studentClaims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": 7,
		"role":    string(models.RoleStudent),
		"exp":     exp.Unix(),
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + signToken(t, testSecret, studentClaims(time.Now().Add(time.Hour))),
			wantStatus: http.StatusOK,
		},
		{
			name:       "no header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a bearer token",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong secret",
			authHeader: "Bearer " + signToken(t, "other-secret", studentClaims(time.Now().Add(time.Hour))),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			authHeader: "Bearer " + signToken(t, testSecret, studentClaims(time.Now().Add(-time.Hour))),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUserID int
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, err := GetUserIDFromContext(r.Context())
				require.NoError(t, err)
				gotUserID = id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/student/dashboard", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			Authenticate([]byte(testSecret))(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, 7, gotUserID)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name       string
		role       models.UserRole
		allowed    []models.UserRole
		wantStatus int
	}{
		{name: "admin on admin route", role: models.RoleAdmin, allowed: []models.UserRole{models.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "student on admin route", role: models.RoleStudent, allowed: []models.UserRole{models.RoleAdmin}, wantStatus: http.StatusForbidden},
		{name: "admin on shared route", role: models.RoleAdmin, allowed: []models.UserRole{models.RoleAdmin, models.RoleStudent}, wantStatus: http.StatusOK},
		{name: "student on shared route", role: models.RoleStudent, allowed: []models.UserRole{models.RoleAdmin, models.RoleStudent}, wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/teams", nil)
			req = req.WithContext(ContextWithClaims(req.Context(), 7, tc.role))
			rec := httptest.NewRecorder()
			Authorize(tc.allowed...)(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestAuthorizeWithoutClaims(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/teams", nil)
	rec := httptest.NewRecorder()
	Authorize(models.RoleAdmin)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDFromContextClaimShapes(t *testing.T) {
	tests := []struct {
		name    string
		claims  jwt.MapClaims
		wantID  int
		wantErr bool
	}{
		{name: "numeric claim", claims: jwt.MapClaims{"user_id": float64(7), "role": "STUDENT"}, wantID: 7},
		{name: "string claim", claims: jwt.MapClaims{"user_id": "7", "role": "STUDENT"}, wantID: 7},
		{name: "missing claim", claims: jwt.MapClaims{"role": "STUDENT"}, wantErr: true},
		{name: "negative id", claims: jwt.MapClaims{"user_id": float64(-1), "role": "STUDENT"}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.WithValue(context.Background(), userContextKey, tc.claims)

			id, err := GetUserIDFromContext(ctx)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}
