package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kapu/pokemon-catalog-go/internal/adapter"
	"github.com/kapu/pokemon-catalog-go/internal/command"
	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/internal/util"
	"github.com/kapu/pokemon-catalog-go/internal/view"
	"go.uber.org/zap"
)

// liveFrame is sent to the browser for every listing state change. Frames
// with seq 0 report a rejected action and leave the grid untouched.
type liveFrame struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Count  int    `json:"count"`
	Seq    uint64 `json:"seq"`
	HTML   string `json:"html,omitempty"`
}

type listingSnapshot = view.Snapshot[[]*domain.Pokemon]

// liveConn binds one websocket to one listing session. All writes go through
// writeLoop; state changes coalesce so only the newest pending snapshot is sent.
type liveConn struct {
	id      string
	conn    *websocket.Conn
	server  *Server
	session *view.ListingSession
	logger  *zap.Logger

	pendingMu sync.Mutex
	pending   *listingSnapshot
	queued    uint64
	notify    chan struct{}
	errs      chan liveFrame

	stopCh   chan struct{}
	stopOnce sync.Once
	writerWg sync.WaitGroup
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	logger := s.requestLogger(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		logger.Warn("Live listing upgrade failed", zap.Error(err))
		return
	}

	c := &liveConn{
		id:      uuid.NewString(),
		conn:    conn,
		server:  s,
		session: view.NewListingSession(s.catalog, s.debounce, logger),
		notify:  make(chan struct{}, 1),
		errs:    make(chan liveFrame, constants.WebSocketConfig.SendBuffer),
		stopCh:  make(chan struct{}),
	}
	c.logger = logger.With(zap.String("session_id", c.id))

	if !s.trackLive(c) {
		c.session.Close()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	defer s.untrackLive(c)

	c.run(r.Context(), view.ListingQuery{
		Query: r.URL.Query().Get("q"),
		Type:  r.URL.Query().Get("type"),
	})
}

func (c *liveConn) run(ctx context.Context, q view.ListingQuery) {
	cfg := constants.WebSocketConfig
	c.conn.SetReadLimit(cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	unsubscribe := c.session.Store().Subscribe(c.enqueue)

	c.writerWg.Add(1)
	go c.writeLoop()

	c.logger.Info("Live listing connected",
		zap.String("query", q.Query),
		zap.String("type", q.Type),
	)
	c.session.Adopt(q)

	c.readLoop(ctx)

	unsubscribe()
	c.session.Close()
	c.stop()
	c.writerWg.Wait()
	_ = c.conn.Close()
	c.logger.Info("Live listing disconnected")
}

func (c *liveConn) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Live listing read error", zap.Error(err))
			}
			return
		}
		c.handleMessage(ctx, data)
	}
}

func (c *liveConn) handleMessage(ctx context.Context, data []byte) {
	cmd := c.server.messages.ParseMessage(data)
	if cmd.Type == domain.ActionUnknown {
		c.logger.Warn("Unknown live action",
			zap.String("data", util.TruncateString(cmd.RawMessage, 200)),
		)
		c.sendError(command.ErrUnknownCommand.Error())
		return
	}

	event := command.CommandEvent{Type: cmd.Type, Params: cmd.Params}
	if _, err := c.server.dispatcher.Publish(ctx, c.session, event); err != nil {
		c.logger.Warn("Live action failed",
			zap.String("action", cmd.Type.String()),
			zap.Error(err),
		)
		c.sendError(err.Error())
	}
}

// enqueue runs on the goroutine that changed the store and must not block.
func (c *liveConn) enqueue(snap listingSnapshot) {
	c.pendingMu.Lock()
	if snap.Version <= c.queued {
		c.pendingMu.Unlock()
		return
	}
	c.queued = snap.Version
	c.pending = &snap
	c.pendingMu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
}

func (c *liveConn) takePending() *listingSnapshot {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	snap := c.pending
	c.pending = nil
	return snap
}

func (c *liveConn) sendError(message string) {
	select {
	case c.errs <- liveFrame{Status: domain.StatusError.String(), Error: message}:
	default:
		c.logger.Debug("Dropped live error frame", zap.String("error", message))
	}
}

func (c *liveConn) writeLoop() {
	defer c.writerWg.Done()

	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-c.stopCh:
			return
		case <-c.notify:
			if snap := c.takePending(); snap != nil {
				err = c.writeSnapshot(*snap)
			}
		case frame := <-c.errs:
			err = c.writeFrame(frame)
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
			err = c.conn.WriteMessage(websocket.PingMessage, nil)
		}

		if err != nil {
			c.logger.Debug("Live listing write failed", zap.Error(err))
			// unblocks readLoop
			_ = c.conn.Close()
			return
		}
	}
}

func (c *liveConn) writeSnapshot(snap listingSnapshot) error {
	frame := liveFrame{
		Status: snap.Status.String(),
		Error:  snap.Err,
		Count:  len(snap.Data),
		Seq:    snap.Seq,
	}

	if snap.Status == domain.StatusSuccess {
		html, err := c.server.renderer.RenderGrid(adapter.NewCards(snap.Data))
		if err != nil {
			c.logger.Error("Failed to render live grid", zap.Error(err))
			frame.Status = domain.StatusError.String()
			frame.Error = constants.ErrorMessages.Unknown
		} else {
			frame.HTML = html
		}
	}
	return c.writeFrame(frame)
}

func (c *liveConn) writeFrame(frame liveFrame) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
	return c.conn.WriteJSON(frame)
}

func (c *liveConn) stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// Disconnect sends a going-away close frame and closes the socket. run
// finishes the cleanup once the read loop notices.
func (c *liveConn) Disconnect() {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(time.Second))
	if err := c.conn.Close(); err != nil {
		c.logger.Debug("Failed to close live listing", zap.Error(err))
	}
}
