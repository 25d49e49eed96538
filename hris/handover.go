package hris

import (
	"context"

	"github.com/Bmat321/gohris/normalize"
)

// HandoverService covers shift-handover reports.
type HandoverService struct {
	client *Client
}

// HandoverInput describes a new shift-handover report.
type HandoverInput struct {
	ShiftDate string `json:"shiftDate"`
	Summary   string `json:"summary"`
}

// Create files a handover report for the logged-in user's shift.
func (s *HandoverService) Create(ctx context.Context, in HandoverInput) (normalize.HandoverRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.HandoverRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.HandoverRecord{}, err
	}

	var out map[string]any
	if err := rc.Post(ctx, "handover", in, &out); err != nil {
		return normalize.HandoverRecord{}, err
	}

	rec := normalize.Handover(extractDoc(out, "handover", "report", "data"))
	s.client.state.upsertHandover(rec)
	return rec, nil
}

// List fetches the handover reports visible to this session.
func (s *HandoverService) List(ctx context.Context) ([]normalize.HandoverRecord, error) {
	if _, err := s.client.session(); err != nil {
		return nil, err
	}

	s.client.state.setLoading(SliceHandovers, true)
	defer s.client.state.setLoading(SliceHandovers, false)

	rc, err := s.client.rest()
	if err != nil {
		return nil, err
	}

	var body any
	if err := rc.Get(ctx, "handover", &body); err != nil {
		return nil, err
	}

	records := normalize.HandoverList(extractList(body, "handovers", "reports", "data"))
	s.client.state.setHandovers(records)
	return records, nil
}

// Acknowledge marks a report as read by the incoming shift.
func (s *HandoverService) Acknowledge(ctx context.Context, id string) (normalize.HandoverRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.HandoverRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.HandoverRecord{}, err
	}

	var out map[string]any
	if err := rc.Put(ctx, "handover/"+id+"/acknowledge", struct{}{}, &out); err != nil {
		return normalize.HandoverRecord{}, err
	}

	rec := normalize.Handover(extractDoc(out, "handover", "report", "data"))
	s.client.state.upsertHandover(rec)
	return rec, nil
}
