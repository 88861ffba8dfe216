package sheetsclient

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shiftguard/shiftguard/internal/config"
	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// Expected column names in the staff sheet
var staffFields = []string{
	"Staff ID",
	"Name",
	"Tags",
	"Max shifts",
	"Off dates",
	"Preferred shifts",
}

// ListStaff retrieves and parses the roster from the configured spreadsheet
func (c *Client) ListStaff(cfg *config.Config) ([]model.StaffMember, error) {
	values, err := c.GetValues(cfg.StaffSheetID, cfg.StaffTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	staff, err := parseStaff(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse staff: %w", err)
	}

	return staff, nil
}

// parseStaff converts raw spreadsheet data into StaffMember structs
func parseStaff(raw [][]interface{}) ([]model.StaffMember, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := make(map[string]int)
	headerRow := raw[0]

	for _, field := range staffFields {
		index := -1
		for i, cell := range headerRow {
			if cellStr, ok := cell.(string); ok && cellStr == field {
				index = i
				break
			}
		}
		if index == -1 {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
		fieldIndexes[field] = index
	}

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok {
			return ""
		}
		if index >= len(row) {
			return ""
		}
		if str, ok := row[index].(string); ok {
			return strings.TrimSpace(str)
		}
		return ""
	}

	staff := make([]model.StaffMember, 0, len(raw)-1)
	seen := make(map[string]bool)
	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField("Staff ID", row)
		// Skip empty rows
		if id == "" {
			continue
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate staff id %q in row %d", id, i+1)
		}
		seen[id] = true

		maxShifts := 0
		if cell := getField("Max shifts", row); cell != "" {
			n, err := strconv.Atoi(cell)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid max shifts %q for staff %s", cell, id)
			}
			maxShifts = n
		}

		offDates := splitList(getField("Off dates", row))
		for _, d := range offDates {
			if _, err := time.Parse(model.DateLayout, d); err != nil {
				return nil, fmt.Errorf("invalid off date %q for staff %s", d, id)
			}
		}

		staff = append(staff, model.StaffMember{
			ID:        id,
			Name:      getField("Name", row),
			Tags:      splitList(getField("Tags", row)),
			MaxShifts: maxShifts,
			OffDates:  offDates,
			Preferred: splitList(getField("Preferred shifts", row)),
		})
	}

	return staff, nil
}

// splitList parses a comma-separated cell into trimmed values
func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
