package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/lifecycle"
	"github.com/muurk/coachsite/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Pending transitions buffered per feed
	feedBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// overlayEvent is pushed to the page whenever the overlay changes. Initial
// marks the snapshot sent on connect, which is not a transition.
type overlayEvent struct {
	State   lifecycle.State `json:"state"`
	Overlay bool            `json:"overlay"`
	Initial bool            `json:"initial,omitempty"`
}

// handleBookEvents streams lifecycle transitions of one booking session.
// The first message is the current state, flagged initial; every later
// message follows on from it.
func (s *Server) handleBookEvents(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn("Websocket upgrade failed",
			zap.String("session", sess.ID),
			zap.Error(err),
		)
		return
	}

	s.feeds.Add(1)
	defer s.feeds.Done()
	s.streamEvents(conn, sess, c.ClientIP())
}

func (s *Server) streamEvents(conn *websocket.Conn, sess *booking.Session, remoteAddr string) {
	logging.LogSession(sess.ID, "feed_opened")
	defer func() {
		_ = conn.Close()
		logging.LogSession(sess.ID, "feed_closed")
	}()

	events := make(chan lifecycle.State, feedBuffer)
	last, cancel := sess.Lifecycle.Watch(func(t lifecycle.Transition) {
		select {
		case events <- t.To:
		default:
			logging.Warn("Dropped overlay event",
				zap.String("session", sess.ID),
				zap.String("state", t.To.String()),
			)
		}
	})
	defer cancel()

	// The reader only handles control frames and notices the peer leaving.
	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if err := writeEvent(conn, last, true); err != nil {
		return
	}
	logging.LogOverlayEvent(remoteAddr, sess.ID, last.String())

	for {
		select {
		case state := <-events:
			if state == last {
				continue
			}
			last = state
			if err := writeEvent(conn, state, false); err != nil {
				logging.Debug("Websocket write failed", zap.String("session", sess.ID), zap.Error(err))
				return
			}
			logging.LogOverlayEvent(remoteAddr, sess.ID, state.String())

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sess.Lifecycle.Done():
			closeFeed(conn, websocket.CloseGoingAway, "session closed")
			return

		case <-s.quit:
			closeFeed(conn, websocket.CloseGoingAway, "server shutting down")
			return

		case <-peerGone:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, state lifecycle.State, initial bool) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(overlayEvent{State: state, Overlay: state.Overlay(), Initial: initial})
}

func closeFeed(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

