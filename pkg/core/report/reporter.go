// Package report re-validates a finished schedule against the rule set and
// demand calendar, independently of how the engine built it.
package report

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// Reporter produces warnings for a final schedule. It never mutates the
// schedule.
type Reporter struct {
	rules *rules.RuleSet
	log   *zap.Logger

	// softCostThreshold, when positive, triggers an advisory warning if the
	// schedule's total soft cost exceeds it.
	softCostThreshold float64
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithSoftCostThreshold enables the aggregate soft-cost advisory.
func WithSoftCostThreshold(threshold float64) Option {
	return func(r *Reporter) { r.softCostThreshold = threshold }
}

// New creates a reporter over a validated rule set.
func New(rs *rules.RuleSet, logger *zap.Logger, opts ...Option) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reporter{rules: rs, log: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report checks every hard rule against every assignment and every demand
// slot's coverage, and returns the sorted warning list.
//
// Hard-rule findings are always Critical: the engine's commit discipline
// should have made them impossible, so any hit signals an engine defect or
// a conflicting pre-assignment, not a demand shortfall.
func (r *Reporter) Report(sched model.Schedule, roster []model.StaffMember, shiftTypes []model.ShiftType, demand []model.DemandSlot) []model.Warning {
	state := rules.NewState(roster, shiftTypes)
	for _, a := range sched.Assignments {
		if err := state.Add(a); err != nil {
			// An assignment naming an unknown staff member or shift type is
			// itself an invariant breach.
			ws := []model.Warning{{
				Severity:    model.SeverityCritical,
				Category:    model.CategoryRuleViolation,
				Date:        a.Date,
				ShiftTypeID: a.ShiftTypeID,
				StaffID:     a.StaffID,
				Message:     fmt.Sprintf("unresolvable assignment: %v", err),
			}}
			return ws
		}
	}

	warnings := r.rules.Violations(state)
	warnings = append(warnings, r.understaffed(sched, demand)...)

	if r.softCostThreshold > 0 {
		if cost := r.rules.ScheduleCost(state); cost > r.softCostThreshold {
			warnings = append(warnings, model.Warning{
				Severity: model.SeverityInfo,
				Category: model.CategoryRuleViolation,
				Message:  fmt.Sprintf("total soft-rule cost %.2f exceeds threshold %.2f", cost, r.softCostThreshold),
			})
		}
	}

	model.SortWarnings(warnings)
	r.log.Info("schedule validated",
		zap.Int("assignments", len(sched.Assignments)),
		zap.Int("warnings", len(warnings)))
	return warnings
}

// understaffed compares filled headcount against required headcount per
// demand slot. A deficit of at least half the requirement is Critical,
// anything smaller is Notice.
func (r *Reporter) understaffed(sched model.Schedule, demand []model.DemandSlot) []model.Warning {
	filled := sched.FilledBySlot()
	var ws []model.Warning
	for _, slot := range demand {
		deficit := slot.Required - filled[slot.Key()]
		if deficit <= 0 {
			continue
		}
		severity := model.SeverityNotice
		if 2*deficit >= slot.Required {
			severity = model.SeverityCritical
		}
		ws = append(ws, model.Warning{
			Severity:    severity,
			Category:    model.CategoryUnderstaffed,
			Date:        slot.Date,
			ShiftTypeID: slot.ShiftTypeID,
			Deficit:     deficit,
			Message: fmt.Sprintf("%s on %s is understaffed: required %d, assigned %d",
				slot.ShiftTypeID, slot.Date, slot.Required, filled[slot.Key()]),
		})
	}
	return ws
}
