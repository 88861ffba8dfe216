// Package services wires the scheduling engine and the validation reporter
// into operations the CLI and the HTTP API share.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/core/engine"
	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/report"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// Run is one persisted generation run: the schedule that was produced and
// the warnings it carried.
type Run struct {
	ID           string
	CreatedAt    time.Time
	HorizonStart string
	HorizonEnd   string
	SoftCost     float64
	Schedule     model.Schedule
	Warnings     []model.Warning
}

// RunStore defines the database operations needed to record generation runs
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
}

// GenerateParams carries everything a generation run needs.
type GenerateParams struct {
	Roster     []model.StaffMember
	ShiftTypes []model.ShiftType
	Demand     []model.DemandSlot
	RuleSet    *rules.RuleSet

	// SoftCostThreshold enables the reporter's advisory warning. Zero
	// disables it.
	SoftCostThreshold float64

	// SwapIterations overrides the improvement pass budget when positive.
	SwapIterations int

	// Store persists the run when non-nil and DryRun is false.
	Store  RunStore
	DryRun bool
}

// GenerateResult contains the generation results
type GenerateResult struct {
	RunID    string
	Schedule model.Schedule
	Warnings []model.Warning
	Deficits map[model.SlotKey]int
	SoftCost float64
	Swaps    int
	Saved    bool
}

// Generate builds a schedule for the given demand, validates it, and
// optionally records the run.
func Generate(ctx context.Context, logger *zap.Logger, p GenerateParams) (*GenerateResult, error) {
	logger.Debug("Starting generate",
		zap.Int("staff", len(p.Roster)),
		zap.Int("shift_types", len(p.ShiftTypes)),
		zap.Int("demand_slots", len(p.Demand)),
		zap.Bool("dry_run", p.DryRun))

	if len(p.Demand) == 0 {
		return nil, fmt.Errorf("no demand slots - nothing to schedule")
	}
	rs := p.RuleSet
	if rs == nil {
		rs = rules.Default()
	}

	opts := []engine.Option{}
	if p.SwapIterations > 0 {
		opts = append(opts, engine.WithSwapIterations(p.SwapIterations))
	}

	logger.Info("Running assignment engine")
	result, err := engine.New(rs, logger, opts...).Build(p.Roster, p.ShiftTypes, p.Demand)
	if err != nil {
		return nil, fmt.Errorf("schedule generation failed: %w", err)
	}
	logger.Info("Assignment completed",
		zap.Int("assignments", len(result.Schedule.Assignments)),
		zap.Int("unfilled_slots", len(result.Deficits)),
		zap.Int("swaps", result.Swaps))

	reporter := report.New(rs, logger, report.WithSoftCostThreshold(p.SoftCostThreshold))
	warnings := reporter.Report(result.Schedule, p.Roster, p.ShiftTypes, p.Demand)

	horizonStart, horizonEnd := demandHorizon(p.Demand)

	out := &GenerateResult{
		RunID:    uuid.New().String(),
		Schedule: result.Schedule,
		Warnings: warnings,
		Deficits: result.Deficits,
		SoftCost: result.SoftCost,
		Swaps:    result.Swaps,
	}

	if p.Store != nil && !p.DryRun {
		run := &Run{
			ID:           out.RunID,
			CreatedAt:    time.Now().UTC(),
			HorizonStart: horizonStart,
			HorizonEnd:   horizonEnd,
			SoftCost:     result.SoftCost,
			Schedule:     result.Schedule,
			Warnings:     warnings,
		}
		if err := p.Store.InsertRun(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to save run: %w", err)
		}
		out.Saved = true
		logger.Info("Run saved", zap.String("run_id", out.RunID))
	} else if p.DryRun {
		logger.Info("Dry run mode - run not saved")
	}

	return out, nil
}

// Validate checks an existing schedule against the rules and demand.
func Validate(
	logger *zap.Logger,
	sched model.Schedule,
	roster []model.StaffMember,
	shiftTypes []model.ShiftType,
	demand []model.DemandSlot,
	rs *rules.RuleSet,
	softCostThreshold float64,
) []model.Warning {
	if rs == nil {
		rs = rules.Default()
	}
	reporter := report.New(rs, logger, report.WithSoftCostThreshold(softCostThreshold))
	return reporter.Report(sched, roster, shiftTypes, demand)
}

func demandHorizon(demand []model.DemandSlot) (string, string) {
	start, end := "", ""
	for _, slot := range demand {
		if start == "" || slot.Date < start {
			start = slot.Date
		}
		if slot.Date > end {
			end = slot.Date
		}
	}
	return start, end
}
