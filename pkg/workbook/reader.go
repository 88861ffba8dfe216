// Package workbook reads scheduling inputs from YAML files and writes
// generated schedules and warnings out as CSV tables.
package workbook

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/shiftguard/shiftguard/internal/config"
	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// FixedRecord pins a staff member to a specific shift before generation.
type FixedRecord struct {
	Date      string `yaml:"date" json:"date" validate:"required"`
	ShiftType string `yaml:"shiftType" json:"shiftType" validate:"required"`
}

// StaffRecord is one roster entry in the input workbook.
type StaffRecord struct {
	ID        string        `yaml:"id" json:"id" validate:"required"`
	Name      string        `yaml:"name" json:"name" validate:"required"`
	Tags      []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	MaxShifts int           `yaml:"maxShifts,omitempty" json:"maxShifts,omitempty" validate:"min=0"`
	OffDates  []string      `yaml:"offDates,omitempty" json:"offDates,omitempty"`
	Preferred []string      `yaml:"preferred,omitempty" json:"preferred,omitempty"`
	Fixed     []FixedRecord `yaml:"fixed,omitempty" json:"fixed,omitempty" validate:"dive"`
}

// ShiftTypeRecord describes one shift definition in the input workbook.
type ShiftTypeRecord struct {
	ID           string   `yaml:"id" json:"id" validate:"required"`
	Start        string   `yaml:"start" json:"start" validate:"required"`
	End          string   `yaml:"end" json:"end" validate:"required"`
	RequiredTags []string `yaml:"requiredTags,omitempty" json:"requiredTags,omitempty"`
}

// DemandOverrideRecord replaces the default headcount for one date and
// shift type.
type DemandOverrideRecord struct {
	Date      string `yaml:"date" json:"date" validate:"required"`
	ShiftType string `yaml:"shiftType" json:"shiftType" validate:"required"`
	Required  int    `yaml:"required" json:"required" validate:"min=0"`
}

// DemandConfig holds per-shift-type default headcounts plus date-specific
// overrides.
type DemandConfig struct {
	Defaults  map[string]int         `yaml:"defaults" json:"defaults" validate:"required"`
	Overrides []DemandOverrideRecord `yaml:"overrides,omitempty" json:"overrides,omitempty" validate:"dive"`
}

// Input is the complete scheduling input: one month of demand plus the
// roster and shift catalog to fill it from.
type Input struct {
	Month      string            `yaml:"month" json:"month" validate:"required"`
	ShiftTypes []ShiftTypeRecord `yaml:"shiftTypes" json:"shiftTypes" validate:"required,min=1,dive"`
	Staff      []StaffRecord     `yaml:"staff" json:"staff" validate:"required,min=1,dive"`
	Demand     DemandConfig      `yaml:"demand" json:"demand"`
}

const monthLayout = "2006-01"

var validate = validator.New()

// Load reads and validates an input workbook from a YAML file.
func Load(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("input file %s: %w", path, err)
	}

	return &in, nil
}

// Validate checks structure and cross-references: every date parses, every
// shift type reference resolves, no duplicate IDs.
func (in *Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if _, err := time.Parse(monthLayout, in.Month); err != nil {
		return fmt.Errorf("invalid month %q: want YYYY-MM", in.Month)
	}

	types := make(map[string]bool, len(in.ShiftTypes))
	for _, st := range in.ShiftTypes {
		if types[st.ID] {
			return fmt.Errorf("duplicate shift type %q", st.ID)
		}
		types[st.ID] = true
		if _, err := time.Parse(model.ClockLayout, st.Start); err != nil {
			return fmt.Errorf("shift type %q: invalid start %q: want HH:MM", st.ID, st.Start)
		}
		if _, err := time.Parse(model.ClockLayout, st.End); err != nil {
			return fmt.Errorf("shift type %q: invalid end %q: want HH:MM", st.ID, st.End)
		}
	}

	seen := make(map[string]bool, len(in.Staff))
	for _, s := range in.Staff {
		if seen[s.ID] {
			return fmt.Errorf("duplicate staff id %q", s.ID)
		}
		seen[s.ID] = true
		for _, d := range s.OffDates {
			if _, err := time.Parse(model.DateLayout, d); err != nil {
				return fmt.Errorf("staff %q: invalid off date %q: want YYYY-MM-DD", s.ID, d)
			}
		}
		for _, p := range s.Preferred {
			if !types[p] {
				return fmt.Errorf("staff %q: preferred shift type %q not defined", s.ID, p)
			}
		}
		for _, f := range s.Fixed {
			if _, err := time.Parse(model.DateLayout, f.Date); err != nil {
				return fmt.Errorf("staff %q: invalid fixed date %q: want YYYY-MM-DD", s.ID, f.Date)
			}
			if !types[f.ShiftType] {
				return fmt.Errorf("staff %q: fixed shift type %q not defined", s.ID, f.ShiftType)
			}
		}
	}

	for id := range in.Demand.Defaults {
		if !types[id] {
			return fmt.Errorf("demand defaults reference unknown shift type %q", id)
		}
	}
	for i, ov := range in.Demand.Overrides {
		if _, err := time.Parse(model.DateLayout, ov.Date); err != nil {
			return fmt.Errorf("demand override %d: invalid date %q: want YYYY-MM-DD", i, ov.Date)
		}
		if !types[ov.ShiftType] {
			return fmt.Errorf("demand override %d: unknown shift type %q", i, ov.ShiftType)
		}
	}

	return nil
}

// Roster converts the staff records into domain staff members.
func (in *Input) Roster() []model.StaffMember {
	roster := make([]model.StaffMember, 0, len(in.Staff))
	for _, s := range in.Staff {
		m := model.StaffMember{
			ID:        s.ID,
			Name:      s.Name,
			Tags:      s.Tags,
			MaxShifts: s.MaxShifts,
			OffDates:  s.OffDates,
			Preferred: s.Preferred,
		}
		for _, f := range s.Fixed {
			m.Fixed = append(m.Fixed, model.Assignment{
				StaffID:     s.ID,
				Date:        f.Date,
				ShiftTypeID: f.ShiftType,
			})
		}
		roster = append(roster, m)
	}
	return roster
}

// Catalog converts the shift type records into domain shift types.
func (in *Input) Catalog() []model.ShiftType {
	catalog := make([]model.ShiftType, 0, len(in.ShiftTypes))
	for _, st := range in.ShiftTypes {
		catalog = append(catalog, model.ShiftType{
			ID:           st.ID,
			Start:        st.Start,
			End:          st.End,
			RequiredTags: st.RequiredTags,
		})
	}
	return catalog
}

// HorizonDates returns every date of the input month in ascending order.
func (in *Input) HorizonDates() ([]string, error) {
	first, err := time.Parse(monthLayout, in.Month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: %w", in.Month, err)
	}

	var dates []string
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(model.DateLayout))
	}
	return dates, nil
}

// DemandSlots expands the demand configuration over the month: defaults for
// every date and shift type, then workbook overrides, then recurring
// overrides from the application config. Slots with zero headcount are
// dropped. The result is in canonical order.
func (in *Input) DemandSlots(recurring []config.DemandOverride) ([]model.DemandSlot, error) {
	dates, err := in.HorizonDates()
	if err != nil {
		return nil, err
	}

	required := make(map[model.SlotKey]int)
	for _, date := range dates {
		for typeID, n := range in.Demand.Defaults {
			required[model.SlotKey{Date: date, ShiftTypeID: typeID}] = n
		}
	}

	for _, ov := range in.Demand.Overrides {
		key := model.SlotKey{Date: ov.Date, ShiftTypeID: ov.ShiftType}
		if _, ok := required[key]; !ok {
			// Override for an out-of-month date or a shift type with no
			// default still creates the slot.
			if ov.Date < dates[0] || ov.Date > dates[len(dates)-1] {
				return nil, fmt.Errorf("demand override date %s outside month %s", ov.Date, in.Month)
			}
		}
		required[key] = ov.Required
	}

	for i, ov := range recurring {
		r, err := rrule.StrToRRule(ov.RRule)
		if err != nil {
			return nil, fmt.Errorf("recurring demand override %d: %w", i, err)
		}
		start, _ := time.Parse(model.DateLayout, dates[0])
		end, _ := time.Parse(model.DateLayout, dates[len(dates)-1])
		r.DTStart(start)
		for _, occ := range r.Between(start, end.Add(24*time.Hour-time.Second), true) {
			key := model.SlotKey{Date: occ.Format(model.DateLayout), ShiftTypeID: ov.ShiftType}
			required[key] = ov.Required
		}
	}

	slots := make([]model.DemandSlot, 0, len(required))
	for key, n := range required {
		if n <= 0 {
			continue
		}
		slots = append(slots, model.DemandSlot{
			Date:        key.Date,
			ShiftTypeID: key.ShiftTypeID,
			Required:    n,
		})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].ShiftTypeID < slots[j].ShiftTypeID
	})
	return slots, nil
}

// NameIndex maps staff IDs to display names.
func (in *Input) NameIndex() map[string]string {
	names := make(map[string]string, len(in.Staff))
	for _, s := range in.Staff {
		names[s.ID] = s.Name
	}
	return names
}
