package rules

import (
	"gonum.org/v1/gonum/stat"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// FairnessRule penalizes uneven distribution of shifts across the roster,
// measured as the population variance of per-staff assignment totals.
type FairnessRule struct {
	Weight float64
}

func (FairnessRule) Name() string { return TypeFairness }

func (r FairnessRule) CandidateCost(st *State, staff model.StaffMember, slot model.DemandSlot) float64 {
	counts := st.Counts()
	for i, id := range st.StaffIDs() {
		if id == staff.ID {
			counts[i]++
			break
		}
	}
	return r.Weight * variance(counts)
}

func (r FairnessRule) ScheduleCost(st *State) float64 {
	return r.Weight * variance(st.Counts())
}

func variance(counts []float64) float64 {
	if len(counts) < 2 {
		return 0
	}
	return stat.PopVariance(counts, nil)
}

// PreferenceRule penalizes assigning staff to shift types outside their
// stated preferences. Staff without preference data incur no cost.
type PreferenceRule struct {
	Weight float64
}

func (PreferenceRule) Name() string { return TypePreference }

func (r PreferenceRule) CandidateCost(st *State, staff model.StaffMember, slot model.DemandSlot) float64 {
	if staff.Prefers(slot.ShiftTypeID) {
		return 0
	}
	return r.Weight
}

func (r PreferenceRule) ScheduleCost(st *State) float64 {
	var mismatches int
	for _, id := range st.StaffIDs() {
		staff, _ := st.Staff(id)
		for _, p := range st.Placements(id) {
			if !staff.Prefers(p.Assignment.ShiftTypeID) {
				mismatches++
			}
		}
	}
	return r.Weight * float64(mismatches)
}
