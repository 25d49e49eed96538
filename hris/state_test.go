package hris

import (
	"testing"

	"github.com/Bmat321/gohris/normalize"
)

func TestStateLoadingFlagsIndependent(t *testing.T) {
	st := NewState()

	st.setLoading(SliceAttendance, true)
	st.setLoading(SliceLeaves, true)
	st.setLoading(SliceLeaves, false)

	if !st.Loading(SliceAttendance) {
		t.Fatal("attendance flag dropped by another slice's fetch")
	}
	if st.Loading(SliceLeaves) {
		t.Fatal("leaves flag must be cleared")
	}
	if st.Loading(SliceHandovers) || st.Loading(SliceProfile) {
		t.Fatal("untouched slices must not be loading")
	}
}

func TestStateUpsertReplacesById(t *testing.T) {
	st := NewState()
	st.setLeaves([]normalize.LeaveRecord{
		{ID: "lv-1", Status: "pending"},
		{ID: "lv-2", Status: "pending"},
	})

	st.upsertLeave(normalize.LeaveRecord{ID: "lv-2", Status: "approved"})

	leaves := st.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected 2 records, got %d", len(leaves))
	}
	if leaves[1].Status != "approved" {
		t.Fatalf("record not replaced: %+v", leaves[1])
	}

	st.upsertLeave(normalize.LeaveRecord{ID: "lv-3", Status: "pending"})
	leaves = st.Leaves()
	if len(leaves) != 3 || leaves[0].ID != "lv-3" {
		t.Fatalf("new record must be prepended, got %+v", leaves)
	}
}

func TestStateUpsertIgnoresEmptyID(t *testing.T) {
	st := NewState()
	st.upsertAttendance(normalize.AttendanceRecord{Status: "present"})
	if len(st.Attendance()) != 0 {
		t.Fatal("record without id must be dropped")
	}
}

func TestStateAccessorsReturnCopies(t *testing.T) {
	st := NewState()
	st.setAttendance([]normalize.AttendanceRecord{{ID: "att-1"}})

	got := st.Attendance()
	got[0].ID = "mutated"

	if st.Attendance()[0].ID != "att-1" {
		t.Fatal("caller mutation leaked into the store")
	}

	st.setProfile(map[string]any{"email": "employee@hris.com"})
	profile := st.Profile()
	profile["email"] = "mutated"
	if st.Profile()["email"] != "employee@hris.com" {
		t.Fatal("profile mutation leaked into the store")
	}
}

func TestStateReset(t *testing.T) {
	st := NewState()
	st.setAttendance([]normalize.AttendanceRecord{{ID: "att-1"}})
	st.setLeaves([]normalize.LeaveRecord{{ID: "lv-1"}})
	st.setHandovers([]normalize.HandoverRecord{{ID: "ho-1"}})
	st.setProfile(map[string]any{"email": "employee@hris.com"})
	st.setLoading(SliceAttendance, true)

	st.Reset()

	if len(st.Attendance()) != 0 || len(st.Leaves()) != 0 || len(st.Handovers()) != 0 || st.Profile() != nil {
		t.Fatal("reset must drop every slice")
	}
	if !st.Loading(SliceAttendance) {
		t.Fatal("reset must leave in-flight loading flags alone")
	}
}
