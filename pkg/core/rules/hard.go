package rules

import (
	"fmt"
	"time"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// CapabilityRule requires the staff member's tags to cover every tag the
// shift type demands.
type CapabilityRule struct{}

func (CapabilityRule) Name() string { return TypeCapability }

func (CapabilityRule) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	shiftType, ok := st.ShiftType(slot.ShiftTypeID)
	if !ok {
		return false
	}
	return hasAllTags(staff, shiftType)
}

func (r CapabilityRule) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, id := range st.StaffIDs() {
		staff, _ := st.Staff(id)
		for _, p := range st.Placements(id) {
			shiftType, ok := st.ShiftType(p.Assignment.ShiftTypeID)
			if !ok || hasAllTags(staff, shiftType) {
				continue
			}
			ws = append(ws, violation(p.Assignment, fmt.Sprintf(
				"%s: staff %s lacks a capability required by shift type %s",
				r.Name(), id, p.Assignment.ShiftTypeID)))
		}
	}
	return ws
}

func hasAllTags(staff model.StaffMember, shiftType model.ShiftType) bool {
	for _, tag := range shiftType.RequiredTags {
		if !staff.HasTag(tag) {
			return false
		}
	}
	return true
}

// NoDoubleBookingRule forbids overlapping time windows for one staff member.
type NoDoubleBookingRule struct{}

func (NoDoubleBookingRule) Name() string { return TypeNoDoubleBooking }

func (NoDoubleBookingRule) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	start, end, err := st.Window(model.Assignment{StaffID: staff.ID, Date: slot.Date, ShiftTypeID: slot.ShiftTypeID})
	if err != nil {
		return false
	}
	for _, p := range st.Placements(staff.ID) {
		if model.Overlaps(start, end, p.Start, p.End) {
			return false
		}
	}
	return true
}

func (r NoDoubleBookingRule) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, id := range st.StaffIDs() {
		placements := st.Placements(id)
		for i := 1; i < len(placements); i++ {
			prev, cur := placements[i-1], placements[i]
			if model.Overlaps(prev.Start, prev.End, cur.Start, cur.End) {
				ws = append(ws, violation(cur.Assignment, fmt.Sprintf(
					"%s: staff %s has overlapping shifts %s on %s and %s on %s",
					r.Name(), id, prev.Assignment.ShiftTypeID, prev.Assignment.Date,
					cur.Assignment.ShiftTypeID, cur.Assignment.Date)))
			}
		}
	}
	return ws
}

// MinRestRule requires a minimum gap between the end of one shift and the
// start of the next for the same staff member.
type MinRestRule struct {
	Hours float64
}

func (MinRestRule) Name() string { return TypeMinRest }

func (r MinRestRule) rest() time.Duration {
	return time.Duration(r.Hours * float64(time.Hour))
}

func (r MinRestRule) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	start, end, err := st.Window(model.Assignment{StaffID: staff.ID, Date: slot.Date, ShiftTypeID: slot.ShiftTypeID})
	if err != nil {
		return false
	}
	for _, p := range st.Placements(staff.ID) {
		if model.Overlaps(start, end, p.Start, p.End) {
			return false
		}
		if !p.End.After(start) && start.Sub(p.End) < r.rest() {
			return false
		}
		if !end.After(p.Start) && p.Start.Sub(end) < r.rest() {
			return false
		}
	}
	return true
}

func (r MinRestRule) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, id := range st.StaffIDs() {
		placements := st.Placements(id)
		for i := 1; i < len(placements); i++ {
			prev, cur := placements[i-1], placements[i]
			// Overlaps are the double-booking rule's finding.
			if model.Overlaps(prev.Start, prev.End, cur.Start, cur.End) {
				continue
			}
			gap := cur.Start.Sub(prev.End)
			if gap < r.rest() {
				ws = append(ws, violation(cur.Assignment, fmt.Sprintf(
					"%s: staff %s has %.1fh rest between %s on %s and %s on %s (minimum %.1fh)",
					r.Name(), id, gap.Hours(), prev.Assignment.ShiftTypeID, prev.Assignment.Date,
					cur.Assignment.ShiftTypeID, cur.Assignment.Date, r.Hours)))
			}
		}
	}
	return ws
}

// MaxConsecutiveDaysRule caps the length of a consecutive worked-day run.
type MaxConsecutiveDaysRule struct {
	Days int
}

func (MaxConsecutiveDaysRule) Name() string { return TypeMaxConsecutiveDays }

func (r MaxConsecutiveDaysRule) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	if st.WorksDate(staff.ID, slot.Date) {
		// Another shift on an already-worked date does not lengthen the run.
		return true
	}
	return st.consecutiveRun(staff.ID, slot.Date) <= r.Days
}

func (r MaxConsecutiveDaysRule) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, id := range st.StaffIDs() {
		for _, runEnd := range workedRunEnds(st, id) {
			run := st.consecutiveRun(id, runEnd.Assignment.Date)
			if run > r.Days {
				ws = append(ws, violation(runEnd.Assignment, fmt.Sprintf(
					"%s: staff %s works %d consecutive days ending %s (maximum %d)",
					r.Name(), id, run, runEnd.Assignment.Date, r.Days)))
			}
		}
	}
	return ws
}

// workedRunEnds returns one placement per consecutive worked-day run of the
// staff member: the last placement of the run's last date.
func workedRunEnds(st *State, staffID string) []Placement {
	var ends []Placement
	placements := st.Placements(staffID)
	for i, p := range placements {
		day, err := time.ParseInLocation(model.DateLayout, p.Assignment.Date, time.UTC)
		if err != nil {
			continue
		}
		next := day.AddDate(0, 0, 1).Format(model.DateLayout)
		if st.WorksDate(staffID, next) {
			continue
		}
		// Last placement on this date wins.
		if i+1 < len(placements) && placements[i+1].Assignment.Date == p.Assignment.Date {
			continue
		}
		ends = append(ends, p)
	}
	return ends
}

// OffRequestRule forbids assignments on a staff member's requested days off.
type OffRequestRule struct{}

func (OffRequestRule) Name() string { return TypeOffRequest }

func (OffRequestRule) Admissible(st *State, staff model.StaffMember, slot model.DemandSlot) bool {
	for _, off := range staff.OffDates {
		if off == slot.Date {
			return false
		}
	}
	return true
}

func (r OffRequestRule) Violations(st *State) []model.Warning {
	var ws []model.Warning
	for _, id := range st.StaffIDs() {
		staff, _ := st.Staff(id)
		off := make(map[string]bool, len(staff.OffDates))
		for _, d := range staff.OffDates {
			off[d] = true
		}
		for _, p := range st.Placements(id) {
			if off[p.Assignment.Date] {
				ws = append(ws, violation(p.Assignment, fmt.Sprintf(
					"%s: staff %s is assigned %s on requested day off %s",
					r.Name(), id, p.Assignment.ShiftTypeID, p.Assignment.Date)))
			}
		}
	}
	return ws
}

func violation(a model.Assignment, msg string) model.Warning {
	return model.Warning{
		Severity:    model.SeverityCritical,
		Category:    model.CategoryRuleViolation,
		Date:        a.Date,
		ShiftTypeID: a.ShiftTypeID,
		StaffID:     a.StaffID,
		Message:     msg,
	}
}
