package workbook

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

var scheduleHeader = []string{"date", "shift_type", "staff_id", "name"}
var warningsHeader = []string{"severity", "category", "date", "shift_type", "staff_id", "deficit", "message"}

// WriteTables writes the schedule and its warnings as two CSV files next to
// each other: <base>_schedule.csv and <base>_warnings.csv. It returns the
// two paths written.
func WriteTables(base string, sched model.Schedule, warnings []model.Warning, names map[string]string) (string, string, error) {
	base = strings.TrimSuffix(base, ".csv")

	schedPath := base + "_schedule.csv"
	if err := writeScheduleCSV(schedPath, sched, names); err != nil {
		return "", "", err
	}

	warnPath := base + "_warnings.csv"
	if err := writeWarningsCSV(warnPath, warnings); err != nil {
		return "", "", err
	}

	return schedPath, warnPath, nil
}

func writeScheduleCSV(path string, sched model.Schedule, names map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create schedule file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(scheduleHeader); err != nil {
		return fmt.Errorf("failed to write schedule header: %w", err)
	}
	for _, a := range sched.Assignments {
		row := []string{a.Date, a.ShiftTypeID, a.StaffID, names[a.StaffID]}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write schedule row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush schedule file: %w", err)
	}
	return nil
}

func writeWarningsCSV(path string, warnings []model.Warning) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create warnings file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(warningsHeader); err != nil {
		return fmt.Errorf("failed to write warnings header: %w", err)
	}
	for _, warn := range warnings {
		deficit := ""
		if warn.Deficit > 0 {
			deficit = strconv.Itoa(warn.Deficit)
		}
		row := []string{
			warn.Severity.String(),
			string(warn.Category),
			warn.Date,
			warn.ShiftTypeID,
			warn.StaffID,
			deficit,
			warn.Message,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write warnings row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush warnings file: %w", err)
	}
	return nil
}

// ReadScheduleCSV reads a schedule back from a CSV file produced by
// WriteTables. The name column is optional and ignored.
func ReadScheduleCSV(path string) (model.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("failed to open schedule file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return model.Schedule{}, fmt.Errorf("failed to read schedule file: %w", err)
	}
	if len(records) == 0 {
		return model.Schedule{}, fmt.Errorf("schedule file %s is empty", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	minFields := 0
	for _, want := range []string{"date", "shift_type", "staff_id"} {
		idx, ok := cols[want]
		if !ok {
			return model.Schedule{}, fmt.Errorf("schedule file %s missing column %q", path, want)
		}
		if idx+1 > minFields {
			minFields = idx + 1
		}
	}

	var sched model.Schedule
	for i, rec := range records[1:] {
		if len(rec) < minFields {
			return model.Schedule{}, fmt.Errorf("schedule row %d: expected at least %d columns, got %d", i+2, minFields, len(rec))
		}
		date := strings.TrimSpace(rec[cols["date"]])
		if _, err := time.Parse(model.DateLayout, date); err != nil {
			return model.Schedule{}, fmt.Errorf("schedule row %d: invalid date %q", i+2, date)
		}
		sched.Assignments = append(sched.Assignments, model.Assignment{
			Date:        date,
			ShiftTypeID: strings.TrimSpace(rec[cols["shift_type"]]),
			StaffID:     strings.TrimSpace(rec[cols["staff_id"]]),
		})
	}
	sched.Sort()
	return sched, nil
}
