// Package engine builds a schedule from frozen roster, demand, and rule
// inputs. The construction is deterministic: identical inputs always yield
// an identical schedule and deficit record.
package engine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// DefaultSwapIterations bounds the local-improvement phase.
const DefaultSwapIterations = 128

// Engine assigns staff to demand slots under a rule set.
type Engine struct {
	rules    *rules.RuleSet
	log      *zap.Logger
	maxSwaps int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSwapIterations sets the iteration cap for the improvement phase.
// Zero disables it.
func WithSwapIterations(n int) Option {
	return func(e *Engine) { e.maxSwaps = n }
}

// New creates an engine over a validated rule set.
func New(rs *rules.RuleSet, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{rules: rs, log: logger, maxSwaps: DefaultSwapIterations}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is a built schedule plus its per-slot deficit record.
type Result struct {
	Schedule model.Schedule

	// Deficits maps each demand slot to the number of unit placements that
	// could not be filled. Slots fully covered do not appear.
	Deficits map[model.SlotKey]int

	// SoftCost is the total soft-rule cost of the final schedule.
	SoftCost float64

	// Swaps is the number of improving swaps applied.
	Swaps int
}

// Build runs the constructive pass followed by the bounded improvement
// phase. Infeasible demand is recorded as deficits, never an error; errors
// are reserved for malformed input.
func (e *Engine) Build(roster []model.StaffMember, shiftTypes []model.ShiftType, demand []model.DemandSlot) (*Result, error) {
	if err := validateInputs(roster, shiftTypes, demand); err != nil {
		return nil, err
	}

	sortedRoster := make([]model.StaffMember, len(roster))
	copy(sortedRoster, roster)
	sort.Slice(sortedRoster, func(i, j int) bool { return sortedRoster[i].ID < sortedRoster[j].ID })

	state := rules.NewState(sortedRoster, shiftTypes)
	slots := orderSlots(sortedRoster, shiftTypes, demand)

	result := &Result{Deficits: make(map[model.SlotKey]int)}
	filled := make(map[model.SlotKey]int)

	// Fixed pre-assignments are committed first and never revisited. The
	// reporter flags any rule conflicts they introduce.
	fixed := e.commitFixed(state, sortedRoster, &result.Schedule, filled)

	for _, slot := range slots {
		key := slot.Key()
		for filled[key] < slot.Required {
			pick := e.pickCandidate(state, sortedRoster, slot)
			if pick == nil {
				result.Deficits[key] += slot.Required - filled[key]
				break
			}
			a := model.Assignment{StaffID: pick.ID, Date: slot.Date, ShiftTypeID: slot.ShiftTypeID}
			if err := state.Add(a); err != nil {
				return nil, err
			}
			result.Schedule.Assignments = append(result.Schedule.Assignments, a)
			filled[key]++
		}
	}

	result.Swaps = e.improve(state, &result.Schedule, fixed)
	result.SoftCost = e.rules.ScheduleCost(state)
	result.Schedule.Sort()

	e.log.Info("schedule built",
		zap.Int("assignments", len(result.Schedule.Assignments)),
		zap.Int("open_slots", len(result.Deficits)),
		zap.Int("swaps", result.Swaps),
		zap.Float64("soft_cost", result.SoftCost))
	return result, nil
}

// commitFixed places every fixed pre-assignment and returns the set of
// assignments the improvement phase must not touch.
func (e *Engine) commitFixed(state *rules.State, roster []model.StaffMember, sched *model.Schedule, filled map[model.SlotKey]int) map[model.Assignment]bool {
	var all []model.Assignment
	for _, s := range roster {
		all = append(all, s.Fixed...)
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.ShiftTypeID != b.ShiftTypeID {
			return a.ShiftTypeID < b.ShiftTypeID
		}
		return a.StaffID < b.StaffID
	})

	fixed := make(map[model.Assignment]bool, len(all))
	for _, a := range all {
		if fixed[a] {
			continue
		}
		if err := state.Add(a); err != nil {
			// Unknown shift types were rejected by validateInputs; this
			// only skips exact duplicates across staff records.
			e.log.Warn("skipping unplaceable pre-assignment", zap.String("staff", a.StaffID), zap.Error(err))
			continue
		}
		fixed[a] = true
		sched.Assignments = append(sched.Assignments, a)
		filled[a.Slot()]++
	}
	return fixed
}

// pickCandidate returns the admissible staff member with the lowest soft
// cost, ties broken by ascending staff ID. Nil means the unit stays open.
func (e *Engine) pickCandidate(state *rules.State, roster []model.StaffMember, slot model.DemandSlot) *model.StaffMember {
	var best *model.StaffMember
	var bestCost float64
	for i := range roster {
		staff := &roster[i]
		if staff.MaxShifts > 0 && state.Count(staff.ID) >= staff.MaxShifts {
			continue
		}
		if state.Has(staff.ID, slot.Key()) {
			continue
		}
		if !e.rules.Admissible(state, *staff, slot) {
			continue
		}
		cost := e.rules.CandidateCost(state, *staff, slot)
		if best == nil || cost < bestCost {
			best, bestCost = staff, cost
		}
	}
	return best
}

// orderSlots fixes the enumeration order: ascending date, then shift types
// with the scarcest eligible staff first, then shift type ID.
func orderSlots(roster []model.StaffMember, shiftTypes []model.ShiftType, demand []model.DemandSlot) []model.DemandSlot {
	eligible := make(map[string]int, len(shiftTypes))
	for _, t := range shiftTypes {
		for _, s := range roster {
			if hasAll(s, t.RequiredTags) {
				eligible[t.ID]++
			}
		}
	}

	slots := make([]model.DemandSlot, len(demand))
	copy(slots, demand)
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if eligible[a.ShiftTypeID] != eligible[b.ShiftTypeID] {
			return eligible[a.ShiftTypeID] < eligible[b.ShiftTypeID]
		}
		return a.ShiftTypeID < b.ShiftTypeID
	})
	return slots
}

func hasAll(staff model.StaffMember, tags []string) bool {
	for _, tag := range tags {
		if !staff.HasTag(tag) {
			return false
		}
	}
	return true
}

func validateInputs(roster []model.StaffMember, shiftTypes []model.ShiftType, demand []model.DemandSlot) error {
	types := make(map[string]model.ShiftType, len(shiftTypes))
	for _, t := range shiftTypes {
		if t.ID == "" {
			return fmt.Errorf("shift type with empty ID")
		}
		if _, dup := types[t.ID]; dup {
			return fmt.Errorf("duplicate shift type %q", t.ID)
		}
		if _, _, err := t.Window("2000-01-01"); err != nil {
			return err
		}
		types[t.ID] = t
	}

	seen := make(map[string]bool, len(roster))
	for _, s := range roster {
		if s.ID == "" {
			return fmt.Errorf("staff member with empty ID (name %q)", s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate staff ID %q", s.ID)
		}
		seen[s.ID] = true
		for _, a := range s.Fixed {
			if a.StaffID != s.ID {
				return fmt.Errorf("staff %s: pre-assignment names staff %q", s.ID, a.StaffID)
			}
			t, ok := types[a.ShiftTypeID]
			if !ok {
				return fmt.Errorf("staff %s: pre-assignment references unknown shift type %q", s.ID, a.ShiftTypeID)
			}
			if _, _, err := t.Window(a.Date); err != nil {
				return fmt.Errorf("staff %s: %w", s.ID, err)
			}
		}
	}

	for _, d := range demand {
		t, ok := types[d.ShiftTypeID]
		if !ok {
			return fmt.Errorf("demand for %s references unknown shift type %q", d.Date, d.ShiftTypeID)
		}
		if d.Required < 0 {
			return fmt.Errorf("demand for %s/%s has negative headcount %d", d.Date, d.ShiftTypeID, d.Required)
		}
		if _, _, err := t.Window(d.Date); err != nil {
			return err
		}
	}
	return nil
}
