package rules

import (
	"fmt"
	"sort"
	"time"

	"github.com/shiftguard/shiftguard/pkg/core/model"
)

// Placement is one committed assignment with its resolved time window.
type Placement struct {
	Assignment model.Assignment
	Start      time.Time
	End        time.Time
}

type staffTimeline struct {
	// placements sorted by start time
	placements []Placement
	// dates counts placements per calendar date
	dates map[string]int
}

// State is a schedule-in-progress view that rules evaluate against. The
// engine mutates one State while committing assignments; the validation
// reporter rebuilds a fresh State from the final schedule so its checks do
// not depend on anything the engine did.
type State struct {
	staff     map[string]model.StaffMember
	staffIDs  []string
	catalog   map[string]model.ShiftType
	timelines map[string]*staffTimeline
	total     int
}

// NewState creates an empty state over the frozen roster and shift catalog.
func NewState(roster []model.StaffMember, shiftTypes []model.ShiftType) *State {
	st := &State{
		staff:     make(map[string]model.StaffMember, len(roster)),
		staffIDs:  make([]string, 0, len(roster)),
		catalog:   make(map[string]model.ShiftType, len(shiftTypes)),
		timelines: make(map[string]*staffTimeline, len(roster)),
	}
	for _, s := range roster {
		st.staff[s.ID] = s
		st.staffIDs = append(st.staffIDs, s.ID)
		st.timelines[s.ID] = &staffTimeline{dates: make(map[string]int)}
	}
	sort.Strings(st.staffIDs)
	for _, t := range shiftTypes {
		st.catalog[t.ID] = t
	}
	return st
}

// Staff returns the roster record for the given ID.
func (st *State) Staff(id string) (model.StaffMember, bool) {
	s, ok := st.staff[id]
	return s, ok
}

// StaffIDs returns all roster IDs in ascending order.
func (st *State) StaffIDs() []string {
	return st.staffIDs
}

// ShiftType returns the catalog entry for the given ID.
func (st *State) ShiftType(id string) (model.ShiftType, bool) {
	t, ok := st.catalog[id]
	return t, ok
}

// Window resolves the time window of an assignment via the catalog.
func (st *State) Window(a model.Assignment) (time.Time, time.Time, error) {
	t, ok := st.catalog[a.ShiftTypeID]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown shift type %q", a.ShiftTypeID)
	}
	return t.Window(a.Date)
}

// Add commits an assignment into the state.
func (st *State) Add(a model.Assignment) error {
	tl, ok := st.timelines[a.StaffID]
	if !ok {
		return fmt.Errorf("unknown staff %q", a.StaffID)
	}
	start, end, err := st.Window(a)
	if err != nil {
		return err
	}
	p := Placement{Assignment: a, Start: start, End: end}
	idx := sort.Search(len(tl.placements), func(i int) bool {
		return tl.placements[i].Start.After(start)
	})
	tl.placements = append(tl.placements, Placement{})
	copy(tl.placements[idx+1:], tl.placements[idx:])
	tl.placements[idx] = p
	tl.dates[a.Date]++
	st.total++
	return nil
}

// Remove takes an assignment back out of the state. It reports whether the
// assignment was present.
func (st *State) Remove(a model.Assignment) bool {
	tl, ok := st.timelines[a.StaffID]
	if !ok {
		return false
	}
	for i, p := range tl.placements {
		if p.Assignment == a {
			tl.placements = append(tl.placements[:i], tl.placements[i+1:]...)
			tl.dates[a.Date]--
			if tl.dates[a.Date] <= 0 {
				delete(tl.dates, a.Date)
			}
			st.total--
			return true
		}
	}
	return false
}

// Placements returns the staff member's committed placements ordered by
// start time. The returned slice is shared; callers must not mutate it.
func (st *State) Placements(staffID string) []Placement {
	tl, ok := st.timelines[staffID]
	if !ok {
		return nil
	}
	return tl.placements
}

// Count returns the number of assignments committed for the staff member.
func (st *State) Count(staffID string) int {
	tl, ok := st.timelines[staffID]
	if !ok {
		return 0
	}
	return len(tl.placements)
}

// Total returns the number of assignments committed overall.
func (st *State) Total() int {
	return st.total
}

// Has reports whether the staff member already fills the given slot.
func (st *State) Has(staffID string, slot model.SlotKey) bool {
	tl, ok := st.timelines[staffID]
	if !ok {
		return false
	}
	for _, p := range tl.placements {
		if p.Assignment.Slot() == slot {
			return true
		}
	}
	return false
}

// WorksDate reports whether the staff member has any assignment on the date.
func (st *State) WorksDate(staffID, date string) bool {
	tl, ok := st.timelines[staffID]
	if !ok {
		return false
	}
	return tl.dates[date] > 0
}

// Counts returns per-staff assignment totals in ascending staff ID order.
func (st *State) Counts() []float64 {
	counts := make([]float64, len(st.staffIDs))
	for i, id := range st.staffIDs {
		counts[i] = float64(len(st.timelines[id].placements))
	}
	return counts
}

// consecutiveRun returns the length in days of the consecutive worked-day
// run that would contain date if the staff member worked it.
func (st *State) consecutiveRun(staffID, date string) int {
	day, err := time.ParseInLocation(model.DateLayout, date, time.UTC)
	if err != nil {
		return 0
	}
	run := 1
	for d := day.AddDate(0, 0, -1); st.WorksDate(staffID, d.Format(model.DateLayout)); d = d.AddDate(0, 0, -1) {
		run++
	}
	for d := day.AddDate(0, 0, 1); st.WorksDate(staffID, d.Format(model.DateLayout)); d = d.AddDate(0, 0, 1) {
		run++
	}
	return run
}
