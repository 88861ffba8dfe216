package model

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format for all calendar dates in the system.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for shift start/end times.
const ClockLayout = "15:04"

// StaffMember represents one schedulable person. All fields are frozen for
// the duration of a run.
type StaffMember struct {
	ID   string
	Name string

	// Tags are capability tags (e.g. "day", "night", "weekend"). A staff
	// member is eligible for a shift type only if their tags cover all of
	// the shift type's required tags.
	Tags []string

	// MaxShifts caps the number of assignments over the planning horizon.
	// Zero means unlimited.
	MaxShifts int

	// OffDates are requested days off (DateLayout format).
	OffDates []string

	// Preferred lists shift type IDs this staff member prefers. Empty means
	// no preference data.
	Preferred []string

	// Fixed are pre-assignments that the engine commits verbatim before
	// filling any demand. They are never moved or dropped.
	Fixed []Assignment
}

// HasTag reports whether the staff member carries the given capability tag.
func (s StaffMember) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Prefers reports whether the staff member listed the shift type as
// preferred. It returns true when no preference data is present.
func (s StaffMember) Prefers(shiftTypeID string) bool {
	if len(s.Preferred) == 0 {
		return true
	}
	for _, p := range s.Preferred {
		if p == shiftTypeID {
			return true
		}
	}
	return false
}

// ShiftType describes a recurring daily work window.
type ShiftType struct {
	ID string

	// Start and End are clock times in ClockLayout format. An End at or
	// before Start means the window crosses midnight into the next day.
	Start string
	End   string

	// RequiredTags are the capability tags a staff member must carry to
	// work this shift type.
	RequiredTags []string
}

// Window resolves the concrete time window of this shift type on the given
// date. Times are anchored in UTC so that rest-hour arithmetic is stable
// regardless of the host timezone.
func (t ShiftType) Window(date string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	start, err := time.ParseInLocation(ClockLayout, t.Start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift type %s: invalid start %q: %w", t.ID, t.Start, err)
	}
	end, err := time.ParseInLocation(ClockLayout, t.End, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("shift type %s: invalid end %q: %w", t.ID, t.End, err)
	}
	from := day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
	to := day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)
	if !to.After(from) {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// Overlaps reports whether two half-open time windows intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SlotKey identifies one demand slot.
type SlotKey struct {
	Date        string
	ShiftTypeID string
}

func (k SlotKey) String() string {
	return k.Date + "/" + k.ShiftTypeID
}

// DemandSlot is the required headcount for a shift type on a date.
type DemandSlot struct {
	Date        string
	ShiftTypeID string
	Required    int
}

// Key returns the slot's identity.
func (d DemandSlot) Key() SlotKey {
	return SlotKey{Date: d.Date, ShiftTypeID: d.ShiftTypeID}
}

// Assignment places one staff member into one slot.
type Assignment struct {
	StaffID     string
	Date        string
	ShiftTypeID string
}

// Slot returns the demand slot identity this assignment fills.
func (a Assignment) Slot() SlotKey {
	return SlotKey{Date: a.Date, ShiftTypeID: a.ShiftTypeID}
}

// Schedule is the ordered set of assignments for one planning horizon.
type Schedule struct {
	Assignments []Assignment
}

// Sort orders assignments canonically: date, shift type, staff ID. All
// output paths sort first so identical inputs yield byte-identical output.
func (s *Schedule) Sort() {
	sort.Slice(s.Assignments, func(i, j int) bool {
		a, b := s.Assignments[i], s.Assignments[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.ShiftTypeID != b.ShiftTypeID {
			return a.ShiftTypeID < b.ShiftTypeID
		}
		return a.StaffID < b.StaffID
	})
}

// FilledBySlot counts assignments per demand slot.
func (s Schedule) FilledBySlot() map[SlotKey]int {
	counts := make(map[SlotKey]int, len(s.Assignments))
	for _, a := range s.Assignments {
		counts[a.Slot()]++
	}
	return counts
}

// CountByStaff counts assignments per staff member.
func (s Schedule) CountByStaff() map[string]int {
	counts := make(map[string]int)
	for _, a := range s.Assignments {
		counts[a.StaffID]++
	}
	return counts
}

// Severity grades a warning.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityNotice
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityNotice:
		return "NOTICE"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Category classifies a warning.
type Category string

const (
	CategoryUnderstaffed  Category = "Understaffed"
	CategoryRuleViolation Category = "RuleViolation"
)

// Warning is one finding from the validation reporter. Schedule generation
// never fails on coverage problems; they all surface here.
type Warning struct {
	Severity    Severity
	Category    Category
	Date        string
	ShiftTypeID string
	StaffID     string
	Message     string

	// Deficit is the headcount shortfall for Understaffed warnings, zero
	// otherwise.
	Deficit int
}

// SortWarnings orders warnings for stable, diffable output: date ascending
// (undated aggregates first), then severity descending, then category, then
// the remaining fields.
func SortWarnings(ws []Warning) {
	sort.Slice(ws, func(i, j int) bool {
		a, b := ws[i], ws[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.ShiftTypeID != b.ShiftTypeID {
			return a.ShiftTypeID < b.ShiftTypeID
		}
		if a.StaffID != b.StaffID {
			return a.StaffID < b.StaffID
		}
		return a.Message < b.Message
	})
}
