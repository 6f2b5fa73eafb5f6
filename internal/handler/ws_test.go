package handler_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/hub"
)

// dialHub opens a websocket connection to the test server's push channel.
func dialHub(t *testing.T, e *testEnv, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/hub?token=" + token
	conn, err := websocket.Dial(url, "", e.srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// receiveEnvelope reads one envelope off the connection, failing the test if
// none arrives in time.
func receiveEnvelope(t *testing.T, conn *websocket.Conn) hub.Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env hub.Envelope
	require.NoError(t, websocket.JSON.Receive(conn, &env))
	return env
}

// waitForSubscriber blocks until the hub registers n subscribers for the
// tenant. Subscription happens after the handshake, so dialing alone is not
// enough to know the connection is live.
func waitForSubscriber(t *testing.T, h *hub.Hub, tenantID int64, n int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for h.SubscriberCount(tenantID) < n {
		if time.Now().After(deadline) {
			t.Fatalf("tenant %d never reached %d subscribers", tenantID, n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubSocket_DeliversEnvelope(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := dialHub(t, e, e.token(t, 4, 1))
	waitForSubscriber(t, e.hub, 1, 1)

	e.hub.Publish(domain.NoteSaved{
		TenantID: 1,
		Note:     domain.Note{ID: 1, TenantID: 1, Title: "First Note", Slug: "first-note"},
	})

	env := receiveEnvelope(t, conn)
	assert.Equal(t, "[Note] Saved", env.Type)

	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	note, ok := payload["note"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "First Note", note["title"])
}

func TestHubSocket_ScopedToTokenTenant(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := dialHub(t, e, e.token(t, 4, 2))
	waitForSubscriber(t, e.hub, 2, 1)

	// Tenant 1's event must never reach a tenant 2 connection.
	e.hub.Publish(domain.NoteRemoved{TenantID: 1, NoteID: 1})
	e.hub.Publish(domain.NoteRemoved{TenantID: 2, NoteID: 2})

	env := receiveEnvelope(t, conn)
	assert.Equal(t, "[Note] Removed", env.Type)
	payload, ok := env.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), payload["noteId"], "the first delivered event is the tenant's own")
}

func TestHubSocket_OrderPreserved(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := dialHub(t, e, e.token(t, 4, 1))
	waitForSubscriber(t, e.hub, 1, 1)

	e.hub.Publish(domain.NoteTagAdded{TenantID: 1, NoteID: 1, TagID: 1})
	e.hub.Publish(domain.NoteTagRemoved{TenantID: 1, NoteID: 1, TagID: 1})

	assert.Equal(t, "[Note] Tag Added", receiveEnvelope(t, conn).Type)
	assert.Equal(t, "[Note] Tag Removed", receiveEnvelope(t, conn).Type)
}

func TestHubSocket_RejectsMissingToken(t *testing.T) {
	e := newTestEnv(t, nil)

	res, err := e.srv.Client().Get(e.srv.URL + "/hub")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestHubSocket_RejectsBadToken(t *testing.T) {
	e := newTestEnv(t, nil)

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/hub?token=garbage"
	_, err := websocket.Dial(url, "", e.srv.URL)
	assert.Error(t, err)
}

func TestHubSocket_UnsubscribesOnDisconnect(t *testing.T) {
	e := newTestEnv(t, nil)
	conn := dialHub(t, e, e.token(t, 4, 1))
	waitForSubscriber(t, e.hub, 1, 1)

	require.NoError(t, conn.Close())

	deadline := time.Now().Add(5 * time.Second)
	for e.hub.SubscriberCount(1) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription was not removed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
