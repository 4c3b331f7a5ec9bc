package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteTimeout = 5 * time.Second

// checkOrigin admits same-host pages and the origins also allowed by CORS.
// Entries may hold one "*" wildcard, e.g. "https://*.lab"; a bare "*"
// admits everything.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(strings.TrimSpace(r.Host), u.Host) {
			return true
		}
		origin = strings.ToLower(origin)
		for _, a := range allowed {
			if originMatches(strings.ToLower(strings.TrimSpace(a)), origin) {
				return true
			}
		}
		return false
	}
}

func originMatches(pattern, origin string) bool {
	if pattern == "*" {
		return true
	}
	prefix, suffix, wild := strings.Cut(pattern, "*")
	if !wild {
		return pattern == origin
	}
	return len(origin) >= len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix)
}

// handleStatusWS pushes the full status document on connect and after
// every published pass.
func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	clientID := uuid.NewString()
	log := s.Logger.With(zap.String("ws_client", clientID))
	log.Debug("ws_connected")
	defer log.Debug("ws_disconnected")

	s.serveStatusConnection(r.Context(), conn, log)
}

func (s *Server) serveStatusConnection(ctx context.Context, conn *websocket.Conn, log *zap.Logger) {
	defer conn.Close()

	var updates <-chan struct{}
	if s.Updates != nil {
		snaps, cancel := s.Updates.Subscribe()
		defer cancel()
		ticks := make(chan struct{}, 1)
		go func() {
			for range snaps {
				select {
				case ticks <- struct{}{}:
				default:
				}
			}
		}()
		updates = ticks
	}

	if err := s.writeStatus(ctx, conn); err != nil {
		log.Debug("ws_write_error", zap.Error(err))
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-updates:
			if err := s.writeStatus(ctx, conn); err != nil {
				log.Debug("ws_write_error", zap.Error(err))
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) writeStatus(ctx context.Context, conn *websocket.Conn) error {
	doc, err := s.statusDocument(ctx)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(doc)
}
