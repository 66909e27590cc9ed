package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Stream upgrades HTTP requests into live usage subscriptions. Authorisation
// happens in the HTTP handler before Serve is called.
type Stream struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewStream builds stream server.
func NewStream(hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Stream {
	return &Stream{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the request and streams the meter's readings until the
// client disconnects. A non-nil snapshot is delivered first so dashboards
// render without waiting for the next reading.
func (s *Stream) Serve(w http.ResponseWriter, r *http.Request, mpanID string, snapshot []byte) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.String("mpan_id", mpanID), zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(mpanID, conn, s.writeTimeout, s.logger, func(c *Connection) {
		s.hub.Unsubscribe(c)
		cancel()
	})
	s.hub.Subscribe(connection)
	if snapshot != nil {
		connection.Send(snapshot)
	}

	go connection.Start(ctx)
	s.logger.Info("usage stream opened", zap.String("mpan_id", mpanID))
}
