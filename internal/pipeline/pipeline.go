package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/market"
	"github.com/fantazia-finance/terminal/internal/metrics"
	"github.com/fantazia-finance/terminal/internal/scoring"
	"github.com/fantazia-finance/terminal/internal/window"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// FundamentalsSource fetches one ticker's fundamentals snapshot. Total
// failure is expressed as an all-null record, never an error.
type FundamentalsSource interface {
	FetchFundamentals(ctx context.Context, ticker string) contracts.FundamentalsRecord
}

// Request describes one scoring pass.
type Request struct {
	Tickers []string
	Window  contracts.Window
	// Mode selects the provider chain; empty means auto.
	Mode string
	// Weights, when set, adds a parallel custom-weights score column.
	Weights *contracts.Weights
	// Benchmark is resolved alongside the basket for spread charts but
	// never participates in scoring.
	Benchmark string
}

// Result is one completed scoring pass.
type Result struct {
	Rows    []contracts.ScoredRow  `json:"rows"`
	Sources contracts.SourceMap    `json:"sources"`
	Window  contracts.Window       `json:"window"`
	Matrix  *contracts.PriceMatrix `json:"-"`

	Benchmark *contracts.PriceSeries `json:"-"`

	// Explanation describes the default factor blend in display text;
	// ExplanationPerso the custom blend when one was requested.
	Explanation      string `json:"explanation"`
	ExplanationPerso string `json:"explanation_perso,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

// maxConcurrentFundamentals bounds parallel fundamentals fetches.
const maxConcurrentFundamentals = 4

// Pipeline runs the full pass: resolve history, window it, compute
// metrics, fetch fundamentals, score, assemble the table.
type Pipeline struct {
	resolver     *market.Resolver
	fundamentals FundamentalsSource
	metrics      *metrics.Engine
	scoring      *scoring.Engine
	logger       *logger.Logger
}

// New creates a pipeline.
func New(resolver *market.Resolver, fundamentals FundamentalsSource, log *logger.Logger) *Pipeline {
	return &Pipeline{
		resolver:     resolver,
		fundamentals: fundamentals,
		metrics:      metrics.NewEngine(),
		scoring:      scoring.NewEngine(log),
		logger:       log,
	}
}

// Run executes one scoring pass. An empty resolved basket is a valid
// empty result, not an error; only malformed input errors out.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if !req.Window.Valid() {
		return nil, fmt.Errorf("%w: %q", contracts.ErrUnknownWindow, req.Window)
	}
	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			return nil, err
		}
	}

	start := time.Now()

	matrix, sources, err := p.resolver.Resolve(ctx, req.Tickers, req.Window, req.Mode)
	if err != nil {
		return nil, err
	}
	matrix = window.Matrix(matrix, req.Window)

	res := &Result{
		Sources:     sources,
		Window:      req.Window,
		Matrix:      matrix,
		Explanation: contracts.DefaultWeights().Describe(),
		ComputedAt:  time.Now().UTC(),
	}
	if req.Weights != nil {
		res.ExplanationPerso = req.Weights.Describe()
	}

	if req.Benchmark != "" {
		res.Benchmark = p.resolveBenchmark(ctx, req.Benchmark, req.Window, req.Mode)
	}

	if matrix.Empty() {
		res.Rows = []contracts.ScoredRow{}
		return res, nil
	}

	metricsRows := p.metrics.Compute(matrix)
	fundamentals := p.fetchFundamentals(ctx, matrix.Tickers())

	scores, err := p.scoring.Score(metricsRows, fundamentals, contracts.DefaultWeights())
	if err != nil {
		return nil, err
	}

	var perso []contracts.FactorScores
	if req.Weights != nil {
		perso, err = p.scoring.Score(metricsRows, fundamentals, *req.Weights)
		if err != nil {
			return nil, err
		}
	}

	res.Rows = make([]contracts.ScoredRow, len(metricsRows))
	for i, mRow := range metricsRows {
		row := contracts.ScoredRow{
			Ticker:       mRow.Ticker,
			Source:       sources[mRow.Ticker],
			Fundamentals: fundamentals[mRow.Ticker],
			Metrics:      mRow,
			Scores:       scores[i],
		}
		if perso != nil {
			ps := perso[i]
			row.ScoresPerso = &ps
		}
		res.Rows[i] = row
	}

	p.logger.WithFields(map[string]interface{}{
		"tickers":  matrix.Len(),
		"window":   string(req.Window),
		"duration": time.Since(start),
	}).Info("Scoring pass completed")

	return res, nil
}

// resolveBenchmark fetches the benchmark's history through the same
// chain. A benchmark that fails everywhere is simply absent.
func (p *Pipeline) resolveBenchmark(ctx context.Context, ticker string, w contracts.Window, mode string) *contracts.PriceSeries {
	matrix, _, err := p.resolver.Resolve(ctx, []string{ticker}, w, mode)
	if err != nil {
		p.logger.WithError(err).Warn("Benchmark resolution failed")
		return nil
	}
	for _, t := range matrix.Tickers() {
		s, _ := matrix.Series(t)
		trimmed := window.Series(s, w)
		return &trimmed
	}
	return nil
}

// fetchFundamentals loads fundamentals for every resolved ticker, a few
// at a time. A ticker whose fetch degrades still gets its all-null
// record, so the scoring columns stay aligned.
func (p *Pipeline) fetchFundamentals(ctx context.Context, tickers []string) map[string]contracts.FundamentalsRecord {
	out := make(map[string]contracts.FundamentalsRecord, len(tickers))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, maxConcurrentFundamentals)
	)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec := p.fundamentals.FetchFundamentals(ctx, ticker)

			mu.Lock()
			out[ticker] = rec
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return out
}
