package hris

import (
	"sync"

	"github.com/Bmat321/gohris/normalize"
)

// Slice identifies one independently-loaded portion of the State store.
type Slice uint8

// Slice values are exported constants used by the state store.
const (
	SliceAttendance Slice = iota
	SliceLeaves
	SliceHandovers
	SliceProfile

	sliceCount
)

// State is the central store the domain services publish into. Each
// slice carries its own loading flag so concurrent fetches that finish
// out of order never clobber one another's progress indication.
//
// All methods are safe for concurrent use. Accessors return copies.
type State struct {
	mu sync.RWMutex

	loading [sliceCount]bool

	attendance []normalize.AttendanceRecord
	leaves     []normalize.LeaveRecord
	handovers  []normalize.HandoverRecord
	profile    map[string]any
}

// NewState returns an empty store.
func NewState() *State {
	return &State{}
}

// Loading reports whether a fetch for the given slice is in flight.
func (s *State) Loading(slice Slice) bool {
	if s == nil || slice >= sliceCount {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[slice]
}

func (s *State) setLoading(slice Slice, v bool) {
	if s == nil || slice >= sliceCount {
		return
	}
	s.mu.Lock()
	s.loading[slice] = v
	s.mu.Unlock()
}

// Attendance returns a copy of the last-fetched attendance records.
func (s *State) Attendance() []normalize.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]normalize.AttendanceRecord, len(s.attendance))
	copy(out, s.attendance)
	return out
}

func (s *State) setAttendance(records []normalize.AttendanceRecord) {
	s.mu.Lock()
	s.attendance = records
	s.mu.Unlock()
}

// upsertAttendance replaces the record with the same ID, or prepends
// when it is new. Clock-in/out responses land here without a refetch.
func (s *State) upsertAttendance(rec normalize.AttendanceRecord) {
	if rec.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.attendance {
		if existing.ID == rec.ID {
			s.attendance[i] = rec
			return
		}
	}
	s.attendance = append([]normalize.AttendanceRecord{rec}, s.attendance...)
}

// Leaves returns a copy of the last-fetched leave requests.
func (s *State) Leaves() []normalize.LeaveRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]normalize.LeaveRecord, len(s.leaves))
	copy(out, s.leaves)
	return out
}

func (s *State) setLeaves(records []normalize.LeaveRecord) {
	s.mu.Lock()
	s.leaves = records
	s.mu.Unlock()
}

func (s *State) upsertLeave(rec normalize.LeaveRecord) {
	if rec.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.leaves {
		if existing.ID == rec.ID {
			s.leaves[i] = rec
			return
		}
	}
	s.leaves = append([]normalize.LeaveRecord{rec}, s.leaves...)
}

// Handovers returns a copy of the last-fetched handover reports.
func (s *State) Handovers() []normalize.HandoverRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]normalize.HandoverRecord, len(s.handovers))
	copy(out, s.handovers)
	return out
}

func (s *State) setHandovers(records []normalize.HandoverRecord) {
	s.mu.Lock()
	s.handovers = records
	s.mu.Unlock()
}

func (s *State) upsertHandover(rec normalize.HandoverRecord) {
	if rec.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.handovers {
		if existing.ID == rec.ID {
			s.handovers[i] = rec
			return
		}
	}
	s.handovers = append([]normalize.HandoverRecord{rec}, s.handovers...)
}

// Profile returns a copy of the last-fetched profile document.
func (s *State) Profile() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	out := make(map[string]any, len(s.profile))
	for k, v := range s.profile {
		out[k] = v
	}
	return out
}

func (s *State) setProfile(profile map[string]any) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
}

// Reset drops every slice. Called when the session ends; loading flags
// are left alone so in-flight fetches still clear their own flag.
func (s *State) Reset() {
	s.mu.Lock()
	s.attendance = nil
	s.leaves = nil
	s.handovers = nil
	s.profile = nil
	s.mu.Unlock()
}
