package sheetsclient

import (
	"fmt"
	"sort"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// PublishedScheduleRow is one published row: a date and shift type with the
// staff assigned to it.
type PublishedScheduleRow struct {
	Date      string
	ShiftType string
	Staff     []string
}

// BuildPublishedRows flattens a schedule into one row per date and shift
// type, with staff display names in canonical order.
func BuildPublishedRows(sched model.Schedule, names map[string]string) []PublishedScheduleRow {
	grouped := make(map[model.SlotKey][]string)
	for _, a := range sched.Assignments {
		name := names[a.StaffID]
		if name == "" {
			name = a.StaffID
		}
		grouped[a.Slot()] = append(grouped[a.Slot()], name)
	}

	keys := make([]model.SlotKey, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Date != keys[j].Date {
			return keys[i].Date < keys[j].Date
		}
		return keys[i].ShiftTypeID < keys[j].ShiftTypeID
	})

	rows := make([]PublishedScheduleRow, 0, len(keys))
	for _, key := range keys {
		staff := grouped[key]
		sort.Strings(staff)
		rows = append(rows, PublishedScheduleRow{
			Date:      key.Date,
			ShiftType: key.ShiftTypeID,
			Staff:     staff,
		})
	}
	return rows
}

// PublishSchedule writes a schedule to a spreadsheet tab named after the
// title. A missing tab is created; an existing tab is overwritten in place.
func (c *Client) PublishSchedule(spreadsheetID, tabTitle string, rows []PublishedScheduleRow) error {
	exists, err := c.SheetExists(spreadsheetID, tabTitle)
	if err != nil {
		return fmt.Errorf("failed to check for tab %q: %w", tabTitle, err)
	}
	if !exists {
		if _, err := c.CreateSheet(spreadsheetID, tabTitle); err != nil {
			return fmt.Errorf("failed to create tab %q: %w", tabTitle, err)
		}
	}

	maxStaff := 0
	for _, row := range rows {
		if len(row.Staff) > maxStaff {
			maxStaff = len(row.Staff)
		}
	}

	header := []interface{}{"Date", "Shift"}
	for i := 0; i < maxStaff; i++ {
		header = append(header, fmt.Sprintf("Staff %d", i+1))
	}

	values := [][]interface{}{header}
	for _, row := range rows {
		sheetRow := []interface{}{row.Date, row.ShiftType}
		for i := 0; i < maxStaff; i++ {
			if i < len(row.Staff) {
				sheetRow = append(sheetRow, row.Staff[i])
			} else {
				sheetRow = append(sheetRow, "")
			}
		}
		values = append(values, sheetRow)
	}

	writeRange := fmt.Sprintf("%s!A1", tabTitle)
	if err := c.UpdateValues(spreadsheetID, writeRange, values); err != nil {
		return fmt.Errorf("failed to write schedule to tab %q: %w", tabTitle, err)
	}

	return nil
}
