package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// seedSchedule commits the assignments into a fresh state and returns both.
func seedSchedule(t *testing.T, roster []model.StaffMember, assignments []model.Assignment) (*rules.State, *model.Schedule) {
	t.Helper()
	state := rules.NewState(roster, testCatalog())
	sched := &model.Schedule{}
	for _, a := range assignments {
		require.NoError(t, state.Add(a))
		sched.Assignments = append(sched.Assignments, a)
	}
	sched.Sort()
	return state, sched
}

func TestImprove_SwapsToSatisfyPreferences(t *testing.T) {
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day", "night"}, Preferred: []string{"DAY"}},
		{ID: "A002", Tags: []string{"day", "night"}, Preferred: []string{"NIGHT"}},
	}
	// Both staff hold the shift type the other one wants
	state, sched := seedSchedule(t, roster, []model.Assignment{
		{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A001", Date: "2026-02-04", ShiftTypeID: "NIGHT"},
	})

	rs, err := rules.Parse([]rules.Def{
		{Type: rules.TypePreference, Kind: "soft"},
	})
	require.NoError(t, err)
	e := New(rs, nil)

	require.InDelta(t, 2, rs.ScheduleCost(state), 1e-9)

	swaps := e.improve(state, sched, map[model.Assignment]bool{})

	assert.Equal(t, 1, swaps)
	assert.InDelta(t, 0, rs.ScheduleCost(state), 1e-9)
	assert.Equal(t, []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-04", ShiftTypeID: "NIGHT"},
	}, sched.Assignments)
}

func TestImprove_NeverTouchesFixedAssignments(t *testing.T) {
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day", "night"}, Preferred: []string{"DAY"}},
		{ID: "A002", Tags: []string{"day", "night"}, Preferred: []string{"NIGHT"}},
	}
	pinned := model.Assignment{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"}
	state, sched := seedSchedule(t, roster, []model.Assignment{
		pinned,
		{StaffID: "A001", Date: "2026-02-04", ShiftTypeID: "NIGHT"},
	})

	rs, err := rules.Parse([]rules.Def{
		{Type: rules.TypePreference, Kind: "soft"},
	})
	require.NoError(t, err)
	e := New(rs, nil)

	swaps := e.improve(state, sched, map[model.Assignment]bool{pinned: true})

	assert.Zero(t, swaps)
	assert.Contains(t, sched.Assignments, pinned)
}

func TestImprove_RejectsInadmissibleSwaps(t *testing.T) {
	// Both staff would rather trade shifts, but A002 cannot take the day
	// shift for lack of the day tag, so the swap must be refused and the
	// state restored.
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day", "night"}, Preferred: []string{"NIGHT"}},
		{ID: "A002", Tags: []string{"night"}, Preferred: []string{"DAY"}},
	}
	state, sched := seedSchedule(t, roster, []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-04", ShiftTypeID: "NIGHT"},
	})

	rs, err := rules.Parse([]rules.Def{
		{Type: rules.TypeCapability, Kind: "hard"},
		{Type: rules.TypePreference, Kind: "soft"},
	})
	require.NoError(t, err)
	e := New(rs, nil)

	swaps := e.improve(state, sched, map[model.Assignment]bool{})

	assert.Zero(t, swaps)
	assert.True(t, state.Has("A001", model.SlotKey{Date: "2026-02-02", ShiftTypeID: "DAY"}))
	assert.True(t, state.Has("A002", model.SlotKey{Date: "2026-02-04", ShiftTypeID: "NIGHT"}))
}

func TestImprove_NoSoftRulesSkipsEntirely(t *testing.T) {
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day"}},
		{ID: "A002", Tags: []string{"day"}},
	}
	state, sched := seedSchedule(t, roster, []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-03", ShiftTypeID: "DAY"},
	})

	rs, err := rules.Parse([]rules.Def{{Type: rules.TypeCapability, Kind: "hard"}})
	require.NoError(t, err)

	swaps := New(rs, nil).improve(state, sched, map[model.Assignment]bool{})
	assert.Zero(t, swaps)
}
