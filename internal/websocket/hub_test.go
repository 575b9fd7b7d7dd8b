package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expoflow/internal/database"
	"expoflow/internal/service"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newServer(t *testing.T) (*Hub, service.ActorService, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	actors := service.NewActorService(database.NewStore(), []byte("test-secret"), time.Hour, zap.NewNop())
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, c, actors) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, actors, srv
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func TestServeWsRejectsAnonymous(t *testing.T) {
	_, _, srv := newServer(t)

	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub, actors, srv := newServer(t)
	tok, err := actors.IssueToken(context.Background(), service.IssueTokenRequest{ActorID: "u-viewer"})
	require.NoError(t, err)

	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL(srv, "?token="+tok.Token), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(service.EventOrderCreated, map[string]string{"id": "ord_1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, service.EventOrderCreated, got.Type)
	assert.Equal(t, "ord_1", got.Data["id"])
}

func TestPublishDoesNotBlockWithoutRunner(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.broadcast)+10; i++ {
			hub.Publish("tick", i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, hub.broadcast, cap(hub.broadcast))
}
