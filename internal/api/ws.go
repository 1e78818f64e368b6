package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/examforge/examforge/internal/paper"
)

const wsWriteTimeout = 10 * time.Second

// wsMessage is the envelope for every frame sent to a generation client.
type wsMessage struct {
	Type     string               `json:"type"` // progress, complete, error
	Progress *paper.ProgressEvent `json:"progress,omitempty"`
	Paper    *paper.Paper         `json:"paper,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// handleGenerateWS runs one generation over a WebSocket: the client sends a
// single generate request, the server streams progress events and closes
// with either the finished paper or an error frame.
func (s *Server) handleGenerateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	var req generateRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		s.log.Warn("websocket read request", "error", err)
		return
	}

	// Progress events arrive from multiple generation goroutines; writes to
	// the connection must be serialized.
	var writeMu sync.Mutex
	send := func(msg wsMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
		defer cancel()
		if err := wsjson.Write(wctx, conn, msg); err != nil {
			s.log.Warn("websocket write", "error", err)
		}
	}

	p, err := s.generatePaper(ctx, req, func(ev paper.ProgressEvent) {
		send(wsMessage{Type: "progress", Progress: &ev})
	})
	if err != nil {
		send(wsMessage{Type: "error", Error: clientMessage(err)})
		conn.Close(websocket.StatusInternalError, "generation failed")
		return
	}

	send(wsMessage{Type: "complete", Paper: &p})
	conn.Close(websocket.StatusNormalClosure, "")
}

// clientMessage returns the client-facing text of a pipeline error without
// leaking internal detail.
func clientMessage(err error) string {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.msg
	}
	var structErr *paper.StructuralError
	if errors.As(err, &structErr) {
		return structErr.Error()
	}
	return "internal error"
}
