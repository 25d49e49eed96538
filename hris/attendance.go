package hris

import (
	"context"
	"fmt"

	"github.com/Bmat321/gohris"
	"github.com/Bmat321/gohris/normalize"
)

// AttendanceService covers clock-in/out and the attendance queries.
type AttendanceService struct {
	client *Client
}

// ClockInInput describes the clock-in operation's optional fields.
type ClockInInput struct {
	Shift string `json:"shift,omitempty"`
	Note  string `json:"note,omitempty"`
}

// AttendanceStats is the aggregate view returned by the stats query.
type AttendanceStats struct {
	PresentDays int     `json:"presentDays"`
	LateDays    int     `json:"lateDays"`
	AbsentDays  int     `json:"absentDays"`
	TotalHours  float64 `json:"totalHours"`
}

// ClockIn opens today's attendance record for the logged-in user and
// publishes the result to the state store.
func (s *AttendanceService) ClockIn(ctx context.Context, in ClockInInput) (normalize.AttendanceRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.AttendanceRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.AttendanceRecord{}, err
	}

	var out map[string]any
	if err := rc.Post(ctx, "attendance/clock-in", in, &out); err != nil {
		return normalize.AttendanceRecord{}, err
	}

	rec := normalize.Attendance(extractDoc(out, "attendance", "record", "data"))
	s.client.state.upsertAttendance(rec)
	return rec, nil
}

// ClockOut closes today's attendance record.
func (s *AttendanceService) ClockOut(ctx context.Context) (normalize.AttendanceRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.AttendanceRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.AttendanceRecord{}, err
	}

	var out map[string]any
	if err := rc.Post(ctx, "attendance/clock-out", struct{}{}, &out); err != nil {
		return normalize.AttendanceRecord{}, err
	}

	rec := normalize.Attendance(extractDoc(out, "attendance", "record", "data"))
	s.client.state.upsertAttendance(rec)
	return rec, nil
}

// History fetches the attendance records visible to the session. An
// administrator session goes through the SOAP passthrough; everyone
// else reads the REST API.
func (s *AttendanceService) History(ctx context.Context) ([]normalize.AttendanceRecord, error) {
	sess, err := s.client.session()
	if err != nil {
		return nil, err
	}

	s.client.state.setLoading(SliceAttendance, true)
	defer s.client.state.setLoading(SliceAttendance, false)

	var raw []any
	if sess.Source == gohris.SourceSOAP {
		raw, err = s.historySOAP(ctx)
	} else {
		raw, err = s.historyREST(ctx)
	}
	if err != nil {
		return nil, err
	}

	records := normalize.AttendanceList(raw)
	s.client.state.setAttendance(records)
	return records, nil
}

func (s *AttendanceService) historyREST(ctx context.Context) ([]any, error) {
	rc, err := s.client.rest()
	if err != nil {
		return nil, err
	}

	var body any
	if err := rc.Get(ctx, "attendance/history", &body); err != nil {
		return nil, err
	}
	return extractList(body, "attendances", "records", "data"), nil
}

func (s *AttendanceService) historySOAP(ctx context.Context) ([]any, error) {
	sc, err := s.client.soap()
	if err != nil {
		return nil, err
	}

	doc, err := sc.AuthenticatedCall(ctx, "getAttendanceRecords", nil)
	if err != nil {
		return nil, err
	}
	return nodesToList(doc.FindAll("attendanceRecord")), nil
}

// Today fetches the session's attendance record for the current day, if
// one exists.
func (s *AttendanceService) Today(ctx context.Context) (normalize.AttendanceRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.AttendanceRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.AttendanceRecord{}, err
	}

	var out map[string]any
	if err := rc.Get(ctx, "attendance/today", &out); err != nil {
		return normalize.AttendanceRecord{}, err
	}
	return normalize.Attendance(extractDoc(out, "attendance", "record", "data")), nil
}

// Stats fetches the aggregate attendance view for a month, formatted
// YYYY-MM. An empty month means the backend's current period.
func (s *AttendanceService) Stats(ctx context.Context, month string) (AttendanceStats, error) {
	if _, err := s.client.session(); err != nil {
		return AttendanceStats{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return AttendanceStats{}, err
	}

	route := "attendance/stats"
	if month != "" {
		route = fmt.Sprintf("attendance/stats?month=%s", month)
	}

	var out struct {
		Stats *AttendanceStats `json:"stats"`
		AttendanceStats
	}
	if err := rc.Get(ctx, route, &out); err != nil {
		return AttendanceStats{}, err
	}
	if out.Stats != nil {
		return *out.Stats, nil
	}
	return out.AttendanceStats, nil
}
