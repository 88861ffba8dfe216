package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

type fakeRunStore struct {
	runs []*Run
	err  error
}

func (s *fakeRunStore) InsertRun(ctx context.Context, run *Run) error {
	if s.err != nil {
		return s.err
	}
	s.runs = append(s.runs, run)
	return nil
}

func testParams() GenerateParams {
	return GenerateParams{
		Roster: []model.StaffMember{
			{ID: "A001", Name: "Taro Tanaka", Tags: []string{"day"}},
			{ID: "A002", Name: "Hanako Sato", Tags: []string{"day"}},
		},
		ShiftTypes: []model.ShiftType{
			{ID: "DAY", Start: "09:00", End: "17:00", RequiredTags: []string{"day"}},
		},
		Demand: []model.DemandSlot{
			{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 2},
			{Date: "2026-02-05", ShiftTypeID: "DAY", Required: 1},
		},
	}
}

func TestGenerate_SavesRun(t *testing.T) {
	store := &fakeRunStore{}
	p := testParams()
	p.Store = store

	result, err := Generate(context.Background(), zap.NewNop(), p)

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.True(t, result.Saved)
	assert.Len(t, result.Schedule.Assignments, 3)
	assert.Empty(t, result.Deficits)

	require.Len(t, store.runs, 1)
	run := store.runs[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, "2026-02-02", run.HorizonStart)
	assert.Equal(t, "2026-02-05", run.HorizonEnd)
	assert.Equal(t, result.Schedule, run.Schedule)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestGenerate_DryRunSkipsStore(t *testing.T) {
	store := &fakeRunStore{}
	p := testParams()
	p.Store = store
	p.DryRun = true

	result, err := Generate(context.Background(), zap.NewNop(), p)

	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Empty(t, store.runs)
}

func TestGenerate_NoStoreConfigured(t *testing.T) {
	result, err := Generate(context.Background(), zap.NewNop(), testParams())

	require.NoError(t, err)
	assert.False(t, result.Saved)
}

func TestGenerate_StoreFailureSurfaces(t *testing.T) {
	p := testParams()
	p.Store = &fakeRunStore{err: assert.AnError}

	_, err := Generate(context.Background(), zap.NewNop(), p)

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGenerate_EmptyDemand(t *testing.T) {
	p := testParams()
	p.Demand = nil

	_, err := Generate(context.Background(), zap.NewNop(), p)
	assert.Error(t, err)
}

func TestGenerate_ReportsUnderstaffingAsWarnings(t *testing.T) {
	p := testParams()
	p.Demand = []model.DemandSlot{{Date: "2026-02-02", ShiftTypeID: "DAY", Required: 4}}

	result, err := Generate(context.Background(), zap.NewNop(), p)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Deficits[model.SlotKey{Date: "2026-02-02", ShiftTypeID: "DAY"}])
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, model.SeverityCritical, result.Warnings[0].Severity)
	assert.Equal(t, model.CategoryUnderstaffed, result.Warnings[0].Category)
}

func TestValidate_FlagsOffRequestBreach(t *testing.T) {
	p := testParams()
	p.Roster[0].OffDates = []string{"2026-02-02"}
	sched := model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A001", Date: "2026-02-05", ShiftTypeID: "DAY"},
	}}

	warnings := Validate(zap.NewNop(), sched, p.Roster, p.ShiftTypes, p.Demand, nil, 0)

	require.Len(t, warnings, 1)
	assert.Equal(t, model.CategoryRuleViolation, warnings[0].Category)
	assert.Equal(t, "A001", warnings[0].StaffID)
}
