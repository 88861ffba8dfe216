package workbook

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

func testSchedule() model.Schedule {
	return model.Schedule{Assignments: []model.Assignment{
		{StaffID: "A001", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A002", Date: "2026-02-02", ShiftTypeID: "DAY"},
		{StaffID: "A001", Date: "2026-02-03", ShiftTypeID: "NIGHT"},
	}}
}

func TestWriteTables_RoundTrip(t *testing.T) {
	base := filepath.Join(t.TempDir(), "february")
	names := map[string]string{"A001": "Taro Tanaka", "A002": "Hanako Sato"}
	warnings := []model.Warning{
		{Severity: model.SeverityNotice, Category: model.CategoryUnderstaffed,
			Date: "2026-02-05", ShiftTypeID: "DAY", Deficit: 1, Message: "DAY on 2026-02-05 is understaffed: required 3, assigned 2"},
	}

	schedPath, warnPath, err := WriteTables(base, testSchedule(), warnings, names)

	require.NoError(t, err)
	assert.Equal(t, base+"_schedule.csv", schedPath)
	assert.Equal(t, base+"_warnings.csv", warnPath)

	got, err := ReadScheduleCSV(schedPath)
	require.NoError(t, err)
	assert.Equal(t, testSchedule().Assignments, got.Assignments)
}

func TestWriteTables_TrimsCSVSuffix(t *testing.T) {
	base := filepath.Join(t.TempDir(), "february.csv")

	schedPath, _, err := WriteTables(base, testSchedule(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(base), "february_schedule.csv"), schedPath)
}

func TestWriteTables_WarningsFormat(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	warnings := []model.Warning{
		{Severity: model.SeverityCritical, Category: model.CategoryUnderstaffed,
			Date: "2026-02-05", ShiftTypeID: "NIGHT", Deficit: 2, Message: "short"},
		{Severity: model.SeverityCritical, Category: model.CategoryRuleViolation,
			Date: "2026-02-06", ShiftTypeID: "DAY", StaffID: "A001", Message: "breach"},
	}

	_, warnPath, err := WriteTables(base, model.Schedule{}, warnings, nil)
	require.NoError(t, err)

	f, err := os.Open(warnPath)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"severity", "category", "date", "shift_type", "staff_id", "deficit", "message"}, records[0])
	assert.Equal(t, []string{"CRITICAL", "Understaffed", "2026-02-05", "NIGHT", "", "2", "short"}, records[1])
	// Deficit stays blank for rule violations
	assert.Equal(t, []string{"CRITICAL", "RuleViolation", "2026-02-06", "DAY", "A001", "", "breach"}, records[2])
}

func TestReadScheduleCSV_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,staff_id\n2026-02-02,A001\n"), 0644))

	_, err := ReadScheduleCSV(path)
	assert.Error(t, err)
}

func TestReadScheduleCSV_ShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,shift_type,staff_id\n2026-02-02,DAY\n"), 0644))

	_, err := ReadScheduleCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule row 2")
}

func TestReadScheduleCSV_InvalidDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.csv")
	require.NoError(t, os.WriteFile(path, []byte("date,shift_type,staff_id\n02/02/2026,DAY,A001\n"), 0644))

	_, err := ReadScheduleCSV(path)
	assert.Error(t, err)
}

func TestReadScheduleCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sched.csv")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	_, err := ReadScheduleCSV(path)
	assert.Error(t, err)
}
