package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/external/polygon"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// StreamHandler pushes periodic last-trade quotes over a websocket.
type StreamHandler struct {
	polygon  *polygon.Client
	interval time.Duration
	logger   *logger.Logger

	upgrader websocket.Upgrader
}

// NewStreamHandler creates a stream handler.
func NewStreamHandler(p *polygon.Client, interval time.Duration, log *logger.Logger) *StreamHandler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StreamHandler{
		polygon:  p,
		interval: interval,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is same-origin or local tooling.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// quoteFrame is one pushed update.
type quoteFrame struct {
	Type   string                `json:"type"`
	Quotes []contracts.LastTrade `json:"quotes"`
	At     time.Time             `json:"at"`
}

// Serve upgrades the connection and pushes quotes until the client
// disconnects.
// GET /api/v1/stream?tickers=AAPL,MSFT
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if !h.polygon.Configured() {
		respondError(w, http.StatusNotImplemented, "Realtime streaming requires a Polygon API key")
		return
	}

	tickers := splitTickers(r.URL.Query().Get("tickers"))
	if len(tickers) == 0 {
		respondError(w, http.StatusBadRequest, "tickers is required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only serve to notice the peer going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.WithFields(map[string]interface{}{
		"tickers":  tickers,
		"interval": h.interval,
	}).Info("Quote stream opened")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, tickers); err != nil {
			h.logger.WithError(err).Debug("Quote stream closed")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, tickers []string) error {
	frame := quoteFrame{Type: "quotes", At: time.Now().UTC()}

	for _, t := range tickers {
		trade, err := h.polygon.LastTrade(ctx, t)
		if err != nil || trade == nil {
			continue
		}
		frame.Quotes = append(frame.Quotes, *trade)
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(frame)
}

func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
