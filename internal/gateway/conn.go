package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/internal/audit"
)

// DefaultSender names the sender of connections that do not pass one.
const DefaultSender = "guest"

// drainer is implemented by senders that buffer handler replies.
type drainer interface {
	Drain() []string
}

// conn is one WebSocket client.
type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	timeout time.Duration
	limiter *rate.Limiter
	sender  string
	logger  *mdwlog.Logger
}

// send writes resp. Concurrent handlers share the connection, so writes
// are serialised.
func (c *conn) send(resp Response) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.ws.WriteJSON(resp); err != nil {
		c.logger.Debug("websocket write failed", mdwlog.Fields{"error": err.Error()})
	}
}

func (c *conn) sendError(id, code, message string) {
	c.send(Response{Type: TypeError, ID: id, Error: &ErrorPayload{Code: code, Message: message}})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnWithErr("websocket upgrade failed", err, mdwlog.Fields{"remote": r.RemoteAddr})
		return
	}

	name := r.URL.Query().Get("sender")
	if name == "" {
		name = DefaultSender
	}

	limit := rate.Inf
	if s.cfg.RatePerSecond > 0 {
		limit = rate.Limit(s.cfg.RatePerSecond)
	}
	burst := s.cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &conn{
		ws:      ws,
		timeout: s.cfg.WriteTimeout,
		limiter: rate.NewLimiter(limit, burst),
		sender:  name,
		logger:  s.logger.WithFields(mdwlog.Fields{"remote": ws.RemoteAddr().String(), "sender": name}),
	}
	s.serveConn(r.Context(), c)
}

func (s *Server) serveConn(parent context.Context, c *conn) {
	defer c.ws.Close()

	ctx, cancel := context.WithCancel(parent)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	c.logger.Info("websocket connection established")

	c.ws.SetReadLimit(s.cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pingLoop(ctx, c)
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WarnWithErr("websocket read error", err)
			} else {
				c.logger.Info("websocket connection closed")
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError("", ErrCodeInvalidMessage, "message is not valid JSON")
			continue
		}

		switch req.Type {
		case TypePing:
			c.send(Response{Type: TypePong, ID: req.ID})
			continue
		case TypeExecute, TypeComplete:
		default:
			c.sendError(req.ID, ErrCodeUnknownType, "unknown message type: "+req.Type)
			continue
		}

		if !c.limiter.Allow() {
			c.sendError(req.ID, ErrCodeRateLimited, "too many requests")
			continue
		}

		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			s.handleRequest(ctx, c, req)
		}(req)
	}
}

func (s *Server) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(s.cfg.PongTimeout * 9 / 10)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.timeout)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, c *conn, req Request) {
	name := req.Sender
	if name == "" {
		name = c.sender
	}
	snd := s.senders(name)

	switch req.Type {
	case TypeExecute:
		requestID := uuid.NewString()
		out := s.manager.ExecuteLine(ctx, snd, req.Line)

		resp := Response{
			Type:      TypeResult,
			ID:        req.ID,
			RequestID: requestID,
			Kind:      out.Kind.String(),
			OK:        out.OK(),
			Message:   s.messages.Format(out),
			Usage:     out.Usage(),
		}
		// Replies buffered by the sender; concurrent requests for the same
		// sender may see each other's replies.
		if d, ok := snd.(drainer); ok {
			resp.Replies = d.Drain()
		}

		if s.audit != nil {
			entry := audit.FromOutcome(name, req.Line, out)
			entry.RequestID = requestID
			if err := s.audit.Record(context.WithoutCancel(ctx), &entry); err != nil {
				c.logger.WithRequestID(requestID).ErrorWithErr("audit record failed", err)
			}
		}
		c.send(resp)

	case TypeComplete:
		candidates := s.completions.Complete(name, req.Line, func() []string {
			return s.manager.CompleteLine(snd, req.Line)
		})
		c.send(Response{Type: TypeCompletions, ID: req.ID, Completions: candidates})
	}
}
