package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
)

// wsError is sent back when a client message cannot be applied.
type wsError struct {
	Error string `json:"error"`
}

// handleWebSocket streams snapshots to the client and applies every message
// it sends as one or more actions.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.Origins(),
	})
	if err != nil {
		s.logger.Error("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMsgSize)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	subID, updates, snap, err := sess.Subscribe(ctx)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, "session closed")
		return
	}
	defer sess.Unsubscribe(subID)

	logger := s.logger.With("session", sess.ID, "subscriber", subID)
	logger.Debug("websocket connected")

	replies := make(chan wsError, 1)
	go s.writePump(ctx, cancel, conn, snap, updates, replies)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				logger.Debug("read error", "error", err)
			}
			return
		}

		actions, err := decodeActions(data)
		if err != nil {
			select {
			case replies <- wsError{Error: err.Error()}:
			default:
			}
			continue
		}
		if _, err := sess.Apply(ctx, actions); err != nil {
			conn.Close(websocket.StatusGoingAway, "session closed")
			return
		}
	}
}

func (s *Server) writePump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, first Snapshot, updates <-chan Snapshot, replies <-chan wsError) {
	defer cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(v interface{}) bool {
		writeCtx, done := context.WithTimeout(ctx, writeWait)
		defer done()
		return wsjson.Write(writeCtx, conn, v) == nil
	}

	if !write(first) {
		return
	}
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			if !write(snap) {
				return
			}
		case reply := <-replies:
			if !write(reply) {
				return
			}
		case <-ticker.C:
			pingCtx, done := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			done()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
