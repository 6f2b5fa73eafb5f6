package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/macaria/backend/internal/domain"
	"github.com/macaria/backend/internal/middleware"
)

// HubSocket returns the handler for GET /hub, the push channel.
//
// The token is verified before the websocket upgrade. Browser websocket
// clients cannot set headers, so the token is accepted from the ?token=
// query parameter as well as the Authorization header. The connection is
// scoped to the token's tenant for its whole lifetime.
func (s *Server) HubSocket() http.Handler {
	wsHandler := websocket.Handler(s.serveHubConn)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = bearerFromHeader(r)
		}
		if token == "" {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}

		tc := domain.TenantContext{TenantID: claims.TenantID, UserID: claims.UserID}
		r = r.WithContext(middleware.WithTenant(r.Context(), tc))
		wsHandler.ServeHTTP(w, r)
	})
}

// serveHubConn subscribes the connection to its tenant's events and streams
// envelopes until the client disconnects or the subscription is closed.
func (s *Server) serveHubConn(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	tc, ok := middleware.TenantFrom(conn.Request().Context())
	if !ok {
		return
	}

	id, events := s.hub.Subscribe(tc.TenantID)
	defer s.hub.Unsubscribe(id)

	s.log.Info("hub: subscriber connected", "subscription_id", id, "tenant_id", tc.TenantID)

	// Drain inbound frames so we notice when the client goes away.
	// The push channel is one-way; anything the client sends is discarded.
	disconnected := make(chan struct{})
	go func() {
		defer close(disconnected)
		_, _ = io.Copy(io.Discard, conn)
	}()

	enc := json.NewEncoder(conn)
	for {
		select {
		case env, open := <-events:
			if !open {
				return
			}
			if err := enc.Encode(env); err != nil {
				s.log.Warn("hub: subscriber write failed",
					"subscription_id", id,
					"tenant_id", tc.TenantID,
					"error", err,
				)
				return
			}
		case <-disconnected:
			s.log.Info("hub: subscriber disconnected", "subscription_id", id, "tenant_id", tc.TenantID)
			return
		}
	}
}

// bearerFromHeader extracts a bearer token from the Authorization header.
func bearerFromHeader(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
