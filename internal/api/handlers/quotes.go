package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fantazia-finance/terminal/internal/external/polygon"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// QuotesHandler serves real-time last-trade quotes.
type QuotesHandler struct {
	polygon *polygon.Client
	logger  *logger.Logger
}

// NewQuotesHandler creates a quotes handler.
func NewQuotesHandler(p *polygon.Client, log *logger.Logger) *QuotesHandler {
	return &QuotesHandler{polygon: p, logger: log}
}

// Get returns the last trade for one ticker.
// GET /api/v1/quotes/{ticker}
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["ticker"]))
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	if !h.polygon.Configured() {
		respondError(w, http.StatusNotImplemented, "Realtime quotes require a Polygon API key")
		return
	}

	trade, err := h.polygon.LastTrade(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Last trade fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch last trade")
		return
	}

	respondJSON(w, http.StatusOK, trade)
}
