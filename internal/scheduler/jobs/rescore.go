package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/fantazia-finance/terminal/internal/contracts"
	"github.com/fantazia-finance/terminal/internal/market"
	"github.com/fantazia-finance/terminal/internal/pipeline"
	"github.com/fantazia-finance/terminal/internal/snapshot"
	"github.com/fantazia-finance/terminal/pkg/logger"
)

// RescoreJob periodically re-scores the configured preset baskets. Each
// pass warms the provider caches and, when persistence is configured,
// writes a snapshot per basket.
type RescoreJob struct {
	pipeline  *pipeline.Pipeline
	snapshots *snapshot.Repository // nil disables persistence
	presets   []string
	window    contracts.Window
	schedule  string
	logger    *logger.Logger
}

// NewRescoreJob creates a rescore job over a comma-separated preset list.
func NewRescoreJob(p *pipeline.Pipeline, snapshots *snapshot.Repository, presetList, windowName, schedule string, log *logger.Logger) (*RescoreJob, error) {
	w, err := contracts.ParseWindow(windowName)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, name := range strings.Split(presetList, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := market.PresetByName(name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("rescore job needs at least one preset")
	}

	return &RescoreJob{
		pipeline:  p,
		snapshots: snapshots,
		presets:   names,
		window:    w,
		schedule:  schedule,
		logger:    log,
	}, nil
}

// Name returns the job name.
func (j *RescoreJob) Name() string { return "rescore" }

// Schedule returns the cron expression.
func (j *RescoreJob) Schedule() string { return j.schedule }

// Run re-scores every configured preset. A basket that fails does not
// stop the others; the job fails only when every basket failed.
func (j *RescoreJob) Run(ctx context.Context) error {
	failures := 0

	for _, name := range j.presets {
		if err := j.rescoreOne(ctx, name); err != nil {
			failures++
			j.logger.WithFields(map[string]interface{}{
				"preset": name,
				"error":  err.Error(),
			}).Warn("Preset rescore failed")
		}
	}

	if failures == len(j.presets) {
		return fmt.Errorf("all %d presets failed to rescore", failures)
	}
	return nil
}

func (j *RescoreJob) rescoreOne(ctx context.Context, name string) error {
	preset, err := market.PresetByName(name)
	if err != nil {
		return err
	}

	res, err := j.pipeline.Run(ctx, pipeline.Request{
		Tickers: preset.Tickers,
		Window:  j.window,
	})
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"preset": name,
		"rows":   len(res.Rows),
	}).Info("Preset rescored")

	if j.snapshots == nil || len(res.Rows) == 0 {
		return nil
	}

	_, err = j.snapshots.Save(ctx, name, j.window, res.ComputedAt, res.Rows)
	return err
}
