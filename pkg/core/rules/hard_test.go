package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

func mustAdd(t *testing.T, st *State, staffID, date, shiftTypeID string) {
	t.Helper()
	require.NoError(t, st.Add(model.Assignment{StaffID: staffID, Date: date, ShiftTypeID: shiftTypeID}))
}

func TestCapabilityRule_Admissible(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	rule := CapabilityRule{}

	tagged, _ := st.Staff("A002")
	untagged, _ := st.Staff("A001")
	night := model.DemandSlot{Date: "2026-02-02", ShiftTypeID: "NIGHT", Required: 1}

	assert.True(t, rule.Admissible(st, tagged, night))
	assert.False(t, rule.Admissible(st, untagged, night))
}

func TestCapabilityRule_Violations(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	// A001 has no night tag but holds a night shift anyway
	mustAdd(t, st, "A001", "2026-02-02", "NIGHT")
	mustAdd(t, st, "A002", "2026-02-02", "NIGHT")

	ws := CapabilityRule{}.Violations(st)

	require.Len(t, ws, 1)
	assert.Equal(t, model.SeverityCritical, ws[0].Severity)
	assert.Equal(t, model.CategoryRuleViolation, ws[0].Category)
	assert.Equal(t, "A001", ws[0].StaffID)
	assert.Equal(t, "2026-02-02", ws[0].Date)
	assert.Contains(t, ws[0].Message, "capability")
}

func TestNoDoubleBookingRule_Admissible(t *testing.T) {
	catalog := append(testCatalog(), model.ShiftType{ID: "MID", Start: "12:00", End: "20:00", RequiredTags: []string{"day"}})
	st := NewState(testRoster(), catalog)
	rule := NoDoubleBookingRule{}
	staff, _ := st.Staff("A001")

	mustAdd(t, st, "A001", "2026-02-02", "DAY")

	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-02", ShiftTypeID: "MID"}))
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-03", ShiftTypeID: "DAY"}))
}

func TestNoDoubleBookingRule_Violations(t *testing.T) {
	catalog := append(testCatalog(), model.ShiftType{ID: "MID", Start: "12:00", End: "20:00"})
	st := NewState(testRoster(), catalog)
	mustAdd(t, st, "A001", "2026-02-02", "DAY")
	mustAdd(t, st, "A001", "2026-02-02", "MID")

	ws := NoDoubleBookingRule{}.Violations(st)

	require.Len(t, ws, 1)
	assert.Equal(t, "A001", ws[0].StaffID)
	assert.Contains(t, ws[0].Message, "overlapping shifts")
}

func TestMinRestRule_Admissible(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	rule := MinRestRule{Hours: 11}
	staff, _ := st.Staff("A002")

	// Day shift ends 17:00; a night shift starting 22:00 leaves only 5h rest
	mustAdd(t, st, "A002", "2026-02-02", "DAY")
	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-02", ShiftTypeID: "NIGHT"}))

	// The next day's day shift starts 16h after the previous one ends
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-03", ShiftTypeID: "DAY"}))
}

func TestMinRestRule_AdmissibleChecksBothDirections(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	rule := MinRestRule{Hours: 11}
	staff, _ := st.Staff("A002")

	// Night shift on Feb 2 runs 22:00 to 08:00 the next morning. A day
	// shift earlier on Feb 2 would end only 5h before it starts.
	mustAdd(t, st, "A002", "2026-02-02", "NIGHT")
	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-02", ShiftTypeID: "DAY"}))
	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-03", ShiftTypeID: "DAY"}))
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-04", ShiftTypeID: "DAY"}))
}

func TestMinRestRule_Violations(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	mustAdd(t, st, "A002", "2026-02-02", "DAY")
	mustAdd(t, st, "A002", "2026-02-02", "NIGHT")

	ws := MinRestRule{Hours: 11}.Violations(st)

	require.Len(t, ws, 1)
	assert.Equal(t, "A002", ws[0].StaffID)
	assert.Equal(t, "NIGHT", ws[0].ShiftTypeID)
	assert.Contains(t, ws[0].Message, "5.0h rest")
}

func TestMinRestRule_ViolationsSkipOverlaps(t *testing.T) {
	catalog := append(testCatalog(), model.ShiftType{ID: "MID", Start: "12:00", End: "20:00"})
	st := NewState(testRoster(), catalog)
	mustAdd(t, st, "A001", "2026-02-02", "DAY")
	mustAdd(t, st, "A001", "2026-02-02", "MID")

	// The overlap belongs to the double-booking rule, not rest
	assert.Empty(t, MinRestRule{Hours: 11}.Violations(st))
}

func TestMaxConsecutiveDaysRule_Admissible(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	rule := MaxConsecutiveDaysRule{Days: 3}
	staff, _ := st.Staff("A001")

	for _, d := range []string{"2026-02-02", "2026-02-03", "2026-02-04"} {
		mustAdd(t, st, "A001", d, "DAY")
	}

	// A fourth consecutive day breaks the cap
	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-05", ShiftTypeID: "DAY"}))
	// A second shift on an already-worked date does not lengthen the run
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-03", ShiftTypeID: "DAY"}))
	// A fresh run after a gap is fine
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-07", ShiftTypeID: "DAY"}))
}

func TestMaxConsecutiveDaysRule_Violations(t *testing.T) {
	st := NewState(testRoster(), testCatalog())
	for day := 2; day <= 8; day++ {
		mustAdd(t, st, "A001", fmt.Sprintf("2026-02-%02d", day), "DAY")
	}

	ws := MaxConsecutiveDaysRule{Days: 6}.Violations(st)

	require.Len(t, ws, 1)
	assert.Equal(t, "A001", ws[0].StaffID)
	assert.Equal(t, "2026-02-08", ws[0].Date)
	assert.Contains(t, ws[0].Message, "7 consecutive days")
}

func TestOffRequestRule_Admissible(t *testing.T) {
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day"}, OffDates: []string{"2026-02-11"}},
	}
	st := NewState(roster, testCatalog())
	rule := OffRequestRule{}
	staff, _ := st.Staff("A001")

	assert.False(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-11", ShiftTypeID: "DAY"}))
	assert.True(t, rule.Admissible(st, staff, model.DemandSlot{Date: "2026-02-12", ShiftTypeID: "DAY"}))
}

func TestOffRequestRule_Violations(t *testing.T) {
	roster := []model.StaffMember{
		{ID: "A001", Tags: []string{"day"}, OffDates: []string{"2026-02-11"}},
	}
	st := NewState(roster, testCatalog())
	mustAdd(t, st, "A001", "2026-02-11", "DAY")
	mustAdd(t, st, "A001", "2026-02-12", "DAY")

	ws := OffRequestRule{}.Violations(st)

	require.Len(t, ws, 1)
	assert.Equal(t, "2026-02-11", ws[0].Date)
	assert.Contains(t, ws[0].Message, "requested day off")
}
