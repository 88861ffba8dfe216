package engine

import (
	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

const improvementEpsilon = 1e-9

// improve runs the bounded local-improvement phase: repeatedly apply the
// first pairwise staff swap (in canonical schedule order) that stays
// hard-rule-admissible and strictly reduces total soft cost. It stops at
// the iteration cap or when no improving swap exists, so it always
// terminates, and scanning in canonical order keeps it deterministic.
func (e *Engine) improve(state *rules.State, sched *model.Schedule, fixed map[model.Assignment]bool) int {
	if e.maxSwaps <= 0 || e.rules.SoftCount() == 0 {
		return 0
	}
	sched.Sort()
	swaps := 0
	for iter := 0; iter < e.maxSwaps; iter++ {
		if !e.applyFirstImprovingSwap(state, sched, fixed) {
			break
		}
		swaps++
	}
	return swaps
}

func (e *Engine) applyFirstImprovingSwap(state *rules.State, sched *model.Schedule, fixed map[model.Assignment]bool) bool {
	before := e.rules.ScheduleCost(state)
	assignments := sched.Assignments
	for i := 0; i < len(assignments); i++ {
		if fixed[assignments[i]] {
			continue
		}
		for j := i + 1; j < len(assignments); j++ {
			if fixed[assignments[j]] {
				continue
			}
			a, b := assignments[i], assignments[j]
			if a.StaffID == b.StaffID || a.Slot() == b.Slot() {
				continue
			}
			if e.trySwap(state, a, b, before) {
				assignments[i].StaffID = b.StaffID
				assignments[j].StaffID = a.StaffID
				return true
			}
		}
	}
	return false
}

// trySwap exchanges the staff of two assignments if the result is
// admissible and strictly cheaper. On failure the state is restored.
func (e *Engine) trySwap(state *rules.State, a, b model.Assignment, before float64) bool {
	state.Remove(a)
	state.Remove(b)

	newA := model.Assignment{StaffID: b.StaffID, Date: a.Date, ShiftTypeID: a.ShiftTypeID}
	newB := model.Assignment{StaffID: a.StaffID, Date: b.Date, ShiftTypeID: b.ShiftTypeID}

	if e.swapAdmissible(state, newA) && state.Add(newA) == nil {
		if e.swapAdmissible(state, newB) && state.Add(newB) == nil {
			if e.rules.ScheduleCost(state) < before-improvementEpsilon {
				return true
			}
			state.Remove(newB)
		}
		state.Remove(newA)
	}

	// Rollback.
	if err := state.Add(a); err != nil {
		panic("engine: rollback failed: " + err.Error())
	}
	if err := state.Add(b); err != nil {
		panic("engine: rollback failed: " + err.Error())
	}
	return false
}

func (e *Engine) swapAdmissible(state *rules.State, a model.Assignment) bool {
	staff, ok := state.Staff(a.StaffID)
	if !ok {
		return false
	}
	// The incoming staff member may already hold a different shift in the
	// same slot; the slot must not end up with the same person twice.
	if state.Has(a.StaffID, a.Slot()) {
		return false
	}
	slot := model.DemandSlot{Date: a.Date, ShiftTypeID: a.ShiftTypeID}
	return e.rules.Admissible(state, staff, slot)
}
