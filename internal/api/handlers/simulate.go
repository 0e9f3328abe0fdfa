package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/pipeline"
	"github.com/fantazia-finance/terminal/internal/simulator"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// SimulateHandler runs notional buy-and-hold simulations.
type SimulateHandler struct {
	pipeline *pipeline.Pipeline
	logger   *logger.Logger
}

// NewSimulateHandler creates a simulate handler.
func NewSimulateHandler(p *pipeline.Pipeline, log *logger.Logger) *SimulateHandler {
	return &SimulateHandler{pipeline: p, logger: log}
}

// SimulateRequest is the POST body for a simulation.
type SimulateRequest struct {
	Tickers []string           `json:"tickers"`
	Window  string             `json:"window"`
	Capital float64            `json:"capital"`
	Weights map[string]float64 `json:"weights,omitempty"`
	Source  string             `json:"source,omitempty"`
}

// Run resolves history and simulates the allocation over the window.
// POST /api/v1/simulate
func (h *SimulateHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	windowName := req.Window
	if windowName == "" {
		windowName = string(contracts.Window1Y)
	}
	win, err := contracts.ParseWindow(windowName)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.pipeline.Run(r.Context(), pipeline.Request{
		Tickers: req.Tickers,
		Window:  win,
		Mode:    req.Source,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := simulator.Run(res.Matrix, req.Capital, req.Weights)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
