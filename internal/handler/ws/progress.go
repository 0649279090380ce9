// Package ws streams analysis progress over WebSocket.
package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/internal/handler/api"
	"StockAdvisor/internal/usecase"
	xhttp "StockAdvisor/pkg/http"
	xlogger "StockAdvisor/pkg/logger"
)

const writeWait = 10 * time.Second


// Message is one frame sent to the client.
type Message struct {
	Type     string                `json:"type"` // progress, decision or error
	Progress *models.ProgressEvent `json:"progress,omitempty"`
	Decision *models.Decision      `json:"decision,omitempty"`
	Error    *xhttp.AppError       `json:"error,omitempty"`
}

// ProgressHandler runs one analysis per connection and streams its stage
// transitions followed by the decision or the error.
type ProgressHandler struct {
	logger   *xlogger.Logger
	uc       api.Analyzer
	limiter  echo.MiddlewareFunc
	origins  []string
	upgrader websocket.Upgrader
}

type Option func(*ProgressHandler)

// WithLimiter guards the route with the same limiter as /api/analyze.
func WithLimiter(mw echo.MiddlewareFunc) Option {
	return func(h *ProgressHandler) { h.limiter = mw }
}

// WithAllowedOrigins accepts browser upgrades only from origins, "*" meaning any.
// Without it only same-host upgrades are accepted.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *ProgressHandler) { h.origins = origins }
}

func NewProgressHandler(logger *xlogger.Logger, uc api.Analyzer, opts ...Option) *ProgressHandler {
	h := &ProgressHandler{logger: logger, uc: uc}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(h.origins) > 0 {
		h.upgrader.CheckOrigin = h.checkOrigin
	}
	return h
}

func (h *ProgressHandler) RegisterRoutes(e *echo.Echo) {
	var mw []echo.MiddlewareFunc
	if h.limiter != nil {
		mw = append(mw, h.limiter)
	}
	e.GET("/ws/analyze", h.Analyze, mw...)
}

// checkOrigin admits requests without an Origin header, which browsers always send.
func (h *ProgressHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

type conn struct {
	mu sync.Mutex
	c  *websocket.Conn
}

func (c *conn) send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.c.WriteJSON(m)
}

// Analyze upgrades the request. Query parameters are those of GET /api/analyze.
// Closing the socket cancels the analysis.
func (h *ProgressHandler) Analyze(c echo.Context) error {
	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer ws.Close()
	out := &conn{c: ws}

	ctx, cancel := context.WithCancel(context.WithoutCancel(c.Request().Context()))
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	observer := service.ProgressFunc(func(ev models.ProgressEvent) {
		if err := out.send(Message{Type: "progress", Progress: &ev}); err != nil {
			h.logger.Debug("websocket progress write failed", xlogger.Error(err))
		}
	})

	d, err := h.uc.Analyze(ctx, usecase.AnalyzeParams{
		Ticker:       req.Ticker,
		Market:       req.Market,
		PeriodMonths: req.PeriodMonths,
		Observer:     observer,
	})
	final := Message{Type: "decision", Decision: d}
	if err != nil {
		final = Message{Type: "error", Error: api.ToAppError(err)}
	}
	if err := out.send(final); err != nil {
		h.logger.Debug("websocket final write failed", xlogger.Error(err))
		return nil
	}

	out.mu.Lock()
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"),
		time.Now().Add(writeWait))
	out.mu.Unlock()
	return nil
}
