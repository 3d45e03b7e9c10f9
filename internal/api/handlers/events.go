package handlers

import (
	"net/http"
	"time"

	"github.com/Harshitk-cp/lifedash/internal/service"
	"github.com/Harshitk-cp/lifedash/internal/state"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventBuffer  = 32
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 2 * pingInterval
)

// ClientTracker counts connected event clients.
type ClientTracker interface {
	EventClientConnected()
	EventClientDisconnected()
}

// EventsHandler streams mutation events over a websocket. Each client gets
// a buffered channel fed by a bus listener; when a slow client's buffer is
// full further events for it are dropped.
type EventsHandler struct {
	svc      *service.VisionService
	tracker  ClientTracker
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewEventsHandler(svc *service.VisionService, tracker ClientTracker, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		svc:     svc,
		tracker: tracker,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no mutation made after
	// the client sees the upgrade is missed.
	events := make(chan state.Event, eventBuffer)
	unsubscribe := h.svc.Subscribe(func(e state.Event) error {
		select {
		case events <- e:
		default:
			h.logger.Debug("event client lagging, dropping event", zap.String("source", string(e.Source)))
		}
		return nil
	})
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.tracker != nil {
		h.tracker.EventClientConnected()
		defer h.tracker.EventClientDisconnected()
	}

	h.logger.Debug("event client connected", zap.String("remote", r.RemoteAddr))

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case e := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(e); err != nil {
				h.logger.Debug("event client write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			h.logger.Debug("event client disconnected", zap.String("remote", r.RemoteAddr))
			return
		case <-r.Context().Done():
			return
		}
	}
}
