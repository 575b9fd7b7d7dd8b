package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expoflow/internal/database"
	"expoflow/internal/middleware"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/apperror"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*gin.Engine, service.ActorService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	actors := service.NewActorService(database.NewStore(), []byte("test-secret"), time.Hour, zap.NewNop())

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(zap.NewNop()))
	g := r.Group("/", middleware.Authenticate(actors))
	g.DELETE("/products/:id", middleware.RequirePermission(permission.ProductDelete), func(c *gin.Context) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, middleware.CurrentActor(c)))
	})
	return r, actors
}

func do(r http.Handler, setup func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/products/p1", nil)
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r, actors := newRouter(t)
	tok, err := actors.IssueToken(context.Background(), service.IssueTokenRequest{ActorID: "u-admin"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"unknown header actor", func(r *http.Request) { r.Header.Set(middleware.UserIDHeader, "ghost") }, http.StatusUnauthorized},
		{"malformed bearer", func(r *http.Request) { r.Header.Set("Authorization", "Token abc") }, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"viewer by header", func(r *http.Request) { r.Header.Set(middleware.UserIDHeader, "u-viewer") }, http.StatusForbidden},
		{"admin by header", func(r *http.Request) { r.Header.Set(middleware.UserIDHeader, "u-admin") }, http.StatusOK},
		{"admin by token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok.Token) }, http.StatusOK},
		{"token beats header", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+tok.Token)
			r.Header.Set(middleware.UserIDHeader, "u-viewer")
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.setup)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

			var body response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.StatusCode)
		})
	}
}

func TestRequirePermissionErrorBodies(t *testing.T) {
	r, _ := newRouter(t)
	w := do(r, func(req *http.Request) { req.Header.Set(middleware.UserIDHeader, "u-viewer") })
	require.Equal(t, http.StatusForbidden, w.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(apperror.KindForbidden), body.Code)
	assert.Equal(t, string(permission.ProductDelete), body.Details["permission"])

	// Without Authenticate in front, no actor is set.
	bare := gin.New()
	bare.DELETE("/products/:id", middleware.RequirePermission(permission.ProductDelete), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w = do(bare, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body = response.Response{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(apperror.KindUnauthenticated), body.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r, _ := newRouter(t)
	w := do(r, func(req *http.Request) { req.Header.Set("X-Request-ID", "req-42") })
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}
