package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

func testRoster() []model.StaffMember {
	return []model.StaffMember{
		{ID: "A001", Name: "Taro Tanaka", Tags: []string{"day", "night"}},
		{ID: "A002", Name: "Hanako Sato", Tags: []string{"day", "night"}},
		{ID: "A003", Name: "Ichiro Suzuki", Tags: []string{"day"}},
	}
}

func testCatalog() []model.ShiftType {
	return []model.ShiftType{
		{ID: "DAY", Start: "09:00", End: "17:00", RequiredTags: []string{"day"}},
		{ID: "NIGHT", Start: "22:00", End: "08:00", RequiredTags: []string{"night"}},
	}
}

func TestReport_CleanSchedule(t *testing.T) {
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 2}}

	warnings := New(rules.Default(), nil).Report(sched, testRoster(), testCatalog(), demand)

	assert.Empty(t, warnings)
}

func TestReport_UnderstaffedSeverityBoundary(t *testing.T) {
	// Required 3, assigned 1: the deficit of 2 is at least half the
	// requirement, so it is critical.
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 3}}

	warnings := New(rules.Default(), nil).Report(sched, testRoster(), testCatalog(), demand)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityCritical, warnings[0].Severity)
	assert.Equal(t, model.CategoryUnderstaffed, warnings[0].Category)
	assert.Equal(t, 2, warnings[0].Deficit)
	assert.Contains(t, warnings[0].Message, "required 3, assigned 1")
}

func TestReport_SmallShortfallIsNotice(t *testing.T) {
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 3}}

	warnings := New(rules.Default(), nil).Report(sched, testRoster(), testCatalog(), demand)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityNotice, warnings[0].Severity)
	assert.Equal(t, 1, warnings[0].Deficit)
}

func TestReport_HardRuleViolationIsCritical(t *testing.T) {
	roster := testRoster()
	roster[0].OffDates = []string{"2026-02-02"}
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 1}}

	warnings := New(rules.Default(), nil).Report(sched, roster, testCatalog(), demand)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityCritical, warnings[0].Severity)
	assert.Equal(t, model.CategoryRuleViolation, warnings[0].Category)
	assert.Equal(t, "A001", warnings[0].StaffID)
	assert.Contains(t, warnings[0].Message, "off_request")
}

func TestReport_SoftCostAdvisory(t *testing.T) {
	roster := testRoster()
	roster[0].Preferred = []string{"DAY"}
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "NIGHT"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "NIGHT", Required: 1}}

	warnings := New(rules.Default(), nil, WithSoftCostThreshold(0.5)).Report(sched, roster, testCatalog(), demand)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityInfo, warnings[0].Severity)
	assert.Empty(t, warnings[0].Date)
	assert.Contains(t, warnings[0].Message, "soft-rule cost")
}

func TestReport_NoAdvisoryWithoutThreshold(t *testing.T) {
	roster := testRoster()
	roster[0].Preferred = []string{"DAY"}
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "NIGHT"},
	}}
	demand := []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "NIGHT", Required: 1}}

	warnings := New(rules.Default(), nil).Report(sched, roster, testCatalog(), demand)

	assert.Empty(t, warnings)
}

func TestReport_OutputIsSorted(t *testing.T) {
	roster := testRoster()
	roster[1].OffDates = []string{"2026-02-03"}
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A002", Date: "2026-02-03", ShiftTypeID: "DAY"},
		{StaffID: "A003", Date: "2026-02-03", ShiftTypeID: "DAY"},
	}}
	demand := []model.DemandSlot{
		{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 3},
		{Date: "2026-02-03", ShiftTypeID: "DAY", Required: 3},
	}

	warnings := New(rules.Default(), nil).Report(sched, roster, testCatalog(), demand)

	require.Len(t, warnings, 3)
	// Feb 2: fully unstaffed, critical understaffing
	assert.Equal(t, "2026-02-02", warnings[0].Date)
	assert.Equal(t, model.CategoryUnderstaffed, warnings[0].Category)
	// Feb 3: the off-request breach sorts before the notice-level shortfall
	assert.Equal(t, "2026-02-03", warnings[1].Date)
	assert.Equal(t, model.CategoryRuleViolation, warnings[1].Category)
	assert.Equal(t, "2026-02-03", warnings[2].Date)
	assert.Equal(t, model.SeverityNotice, warnings[2].Severity)
}

func TestReport_UnresolvableAssignment(t *testing.T) {
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A999", Date: "2026-02-02", ShiftTypeID: "DAY"},
	}}

	warnings := New(rules.Default(), nil).Report(sched, testRoster(), testCatalog(), nil)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.SeverityCritical, warnings[0].Severity)
	assert.Equal(t, "A999", warnings[0].StaffID)
	assert.Contains(t, warnings[0].Message, "unresolvable assignment")
}
