package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/market"
	"github.com/fantazia-finance/terminal/internal/pipeline"
	"github.com/fantazia-finance/terminal/internal/ranking"
	"github.com/fantazia-finance/terminal/internal/snapshot"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// ScoreboardHandler serves the scored table and its chart data.
type ScoreboardHandler struct {
	pipeline  *pipeline.Pipeline
	snapshots *snapshot.Repository // nil when persistence is disabled
	logger    *logger.Logger
}

// NewScoreboardHandler creates a scoreboard handler.
func NewScoreboardHandler(p *pipeline.Pipeline, snapshots *snapshot.Repository, log *logger.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{pipeline: p, snapshots: snapshots, logger: log}
}

// ScoreboardResponse is the JSON shape of a scoring pass.
type ScoreboardResponse struct {
	Rows       []contracts.ScoredRow `json:"rows"`
	Sources    contracts.SourceMap   `json:"sources"`
	Window     string                `json:"window"`
	ComputedAt string                `json:"computed_at"`

	Explanation      string `json:"explanation"`
	ExplanationPerso string `json:"explanation_perso,omitempty"`
}

// ListPresets returns the built-in sector baskets.
// GET /api/v1/presets
func (h *ScoreboardHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, market.Presets())
}

// Get runs a scoring pass and returns the ranked table.
// GET /api/v1/scoreboard?tickers=AAPL,MSFT&window=1y&sort=percentage&asc=false
func (h *ScoreboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	req, err := parseScoreboardQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.pipeline.Run(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Scoring pass failed")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows := res.Rows

	// Filters apply after scoring: scores always reflect the full basket.
	if minScore := r.URL.Query().Get("min_score"); minScore != "" {
		v, err := strconv.ParseFloat(minScore, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "min_score must be numeric")
			return
		}
		rows = ranking.Filter(rows, ranking.MinPercentage(v))
	}
	if parseBool(r, "positive_1y") {
		rows = ranking.Filter(rows, ranking.PositiveReturn1Y())
	}

	col := ranking.ColumnPercentage
	if s := r.URL.Query().Get("sort"); s != "" {
		col, err = ranking.ParseColumn(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	ranking.Sort(rows, col, parseBool(r, "asc"))

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="scoreboard.csv"`)
		if err := ranking.WriteCSV(w, rows); err != nil {
			h.logger.WithError(err).Error("CSV export failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, ScoreboardResponse{
		Rows:             rows,
		Sources:          res.Sources,
		Window:           string(res.Window),
		ComputedAt:       res.ComputedAt.Format("2006-01-02T15:04:05Z"),
		Explanation:      res.Explanation,
		ExplanationPerso: res.ExplanationPerso,
	})
}

// ChartsResponse carries base-100 series plus the benchmark spread.
type ChartsResponse struct {
	Base100 map[string][]ranking.Point `json:"base_100"`
	Spread  map[string][]ranking.Point `json:"spread,omitempty"`
}

// Charts returns chart-ready series for a basket.
// GET /api/v1/charts?tickers=...&window=1y&benchmark=SPY
func (h *ScoreboardHandler) Charts(w http.ResponseWriter, r *http.Request) {
	req, err := parseScoreboardQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.pipeline.Run(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := ChartsResponse{Base100: ranking.Base100(res.Matrix)}

	if res.Benchmark != nil {
		out.Spread = make(map[string][]ranking.Point)
		for _, ticker := range res.Matrix.Tickers() {
			s, _ := res.Matrix.Series(ticker)
			if pts := ranking.Spread(s, *res.Benchmark); pts != nil {
				out.Spread[ticker] = pts
			}
		}
	}

	respondJSON(w, http.StatusOK, out)
}

// History returns recent persisted snapshots for a basket.
// GET /api/v1/scoreboard/history?basket=mega-tech-us&limit=5
func (h *ScoreboardHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		respondError(w, http.StatusNotImplemented, "Snapshot persistence is not configured")
		return
	}

	basket := r.URL.Query().Get("basket")
	if basket == "" {
		respondError(w, http.StatusBadRequest, "basket is required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	snaps, err := h.snapshots.ListRecent(r.Context(), basket, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list snapshots")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve snapshots")
		return
	}

	respondJSON(w, http.StatusOK, snaps)
}

// parseScoreboardQuery builds a pipeline request from query parameters.
// Either tickers or preset must be present.
func parseScoreboardQuery(r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()

	var tickers []string
	switch {
	case q.Get("tickers") != "":
		for _, t := range strings.Split(q.Get("tickers"), ",") {
			tickers = append(tickers, strings.TrimSpace(t))
		}
	case q.Get("preset") != "":
		p, err := market.PresetByName(q.Get("preset"))
		if err != nil {
			return pipeline.Request{}, err
		}
		tickers = p.Tickers
	default:
		return pipeline.Request{}, fmt.Errorf("either tickers or preset is required")
	}

	windowName := q.Get("window")
	if windowName == "" {
		windowName = string(contracts.Window1Y)
	}
	w, err := contracts.ParseWindow(windowName)
	if err != nil {
		return pipeline.Request{}, err
	}

	req := pipeline.Request{
		Tickers:   tickers,
		Window:    w,
		Mode:      q.Get("source"),
		Benchmark: strings.ToUpper(strings.TrimSpace(q.Get("benchmark"))),
	}

	if weights, err := parseWeights(q.Get("weights")); err != nil {
		return pipeline.Request{}, err
	} else if weights != nil {
		req.Weights = weights
	}

	return req, nil
}

// parseWeights reads "value,quality,momentum,risk" as four floats.
func parseWeights(s string) (*contracts.Weights, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("weights must be four comma-separated numbers (value,quality,momentum,risk)")
	}

	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q", p)
		}
		vals[i] = v
	}

	return &contracts.Weights{
		Value:    vals[0],
		Quality:  vals[1],
		Momentum: vals[2],
		Risk:     vals[3],
	}, nil
}

func parseBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}
