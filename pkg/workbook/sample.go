package workbook

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shiftguard/shiftguard/pkg/core/model"
	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

// SampleInput builds a small but realistic input workbook for the given
// month: six staff with mixed capabilities, day and night shifts, and
// headcounts of three by day and two by night.
func SampleInput(month string) (*Input, error) {
	first, err := time.Parse(monthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}

	day := func(n int) string {
		return first.AddDate(0, 0, n-1).Format(model.DateLayout)
	}

	in := &Input{
		Month: month,
		ShiftTypes: []ShiftTypeRecord{
			{ID: "DAY", Start: "09:00", End: "17:00", RequiredTags: []string{"day"}},
			{ID: "NIGHT", Start: "22:00", End: "08:00", RequiredTags: []string{"night"}},
		},
		Staff: []StaffRecord{
			{
				ID: "A001", Name: "Taro Tanaka",
				Tags:      []string{"day", "night", "weekend"},
				MaxShifts: 20,
				OffDates:  []string{day(11), day(23)},
			},
			{
				ID: "A002", Name: "Hanako Sato",
				Tags:      []string{"day", "night", "weekend"},
				MaxShifts: 18,
				OffDates:  []string{day(14)},
			},
			{
				ID: "A003", Name: "Ichiro Suzuki",
				Tags:      []string{"day"},
				MaxShifts: 15,
				Preferred: []string{"DAY"},
			},
			{
				ID: "A004", Name: "Misaki Takahashi",
				Tags:      []string{"day", "night", "weekend"},
				MaxShifts: 16,
				OffDates:  []string{day(20), day(21)},
			},
			{
				ID: "A005", Name: "Kenta Ito",
				Tags:      []string{"day", "night", "weekend"},
				MaxShifts: 22,
			},
			{
				ID: "A006", Name: "Yuko Watanabe",
				Tags:      []string{"day", "weekend"},
				MaxShifts: 12,
				OffDates:  []string{day(1), day(15)},
				Preferred: []string{"DAY"},
			},
		},
		Demand: DemandConfig{
			Defaults: map[string]int{"DAY": 3, "NIGHT": 2},
		},
	}

	return in, nil
}

// WriteSampleInput writes a sample input workbook to path.
func WriteSampleInput(path, month string) error {
	in, err := SampleInput(month)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal sample input: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sample input: %w", err)
	}
	return nil
}

// SampleRules returns the default rule definitions: all five hard rules
// with an 11 hour rest floor and a 6 day consecutive cap, plus unit-weight
// fairness and preference.
func SampleRules() []rules.Def {
	return []rules.Def{
		{Type: rules.TypeCapability, Kind: string(rules.KindHard)},
		{Type: rules.TypeNoDoubleBooking, Kind: string(rules.KindHard)},
		{Type: rules.TypeMinRest, Kind: string(rules.KindHard), Params: map[string]any{"hours": 11}},
		{Type: rules.TypeMaxConsecutiveDays, Kind: string(rules.KindHard), Params: map[string]any{"days": 6}},
		{Type: rules.TypeOffRequest, Kind: string(rules.KindHard)},
		{Type: rules.TypeFairness, Kind: string(rules.KindSoft), Params: map[string]any{"weight": 1}},
		{Type: rules.TypePreference, Kind: string(rules.KindSoft), Params: map[string]any{"weight": 1}},
	}
}

// WriteSampleRules writes the default rule definition file to path.
func WriteSampleRules(path string) error {
	data, err := yaml.Marshal(map[string]any{"rules": SampleRules()})
	if err != nil {
		return fmt.Errorf("failed to marshal sample rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sample rules: %w", err)
	}
	return nil
}
