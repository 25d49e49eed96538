package hris

import (
	"context"

	"github.com/Bmat321/gohris"
	"github.com/Bmat321/gohris/normalize"
	"github.com/Bmat321/gohris/role"
)

// LeaveService covers leave requests and the reviewer approval queue.
type LeaveService struct {
	client      *Client
	reviewGuard role.Guard
}

func newLeaveService(c *Client) *LeaveService {
	// Reviewers() only yields valid roles, so the guard cannot fail.
	guard, _ := role.NewGuard(role.Reviewers()...)
	return &LeaveService{client: c, reviewGuard: guard}
}

// LeaveInput describes a new leave request.
type LeaveInput struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

type leaveDecision struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// Request files a leave request for the logged-in user.
func (s *LeaveService) Request(ctx context.Context, in LeaveInput) (normalize.LeaveRecord, error) {
	if _, err := s.client.session(); err != nil {
		return normalize.LeaveRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.LeaveRecord{}, err
	}

	var out map[string]any
	if err := rc.Post(ctx, "leaves", in, &out); err != nil {
		return normalize.LeaveRecord{}, err
	}

	rec := normalize.Leave(extractDoc(out, "leave", "request", "data"))
	s.client.state.upsertLeave(rec)
	return rec, nil
}

// List fetches the leave requests visible to this session: a reviewer
// sees the approval queue, everyone else their own requests. An
// administrator session goes through the SOAP passthrough.
func (s *LeaveService) List(ctx context.Context) ([]normalize.LeaveRecord, error) {
	sess, err := s.client.session()
	if err != nil {
		return nil, err
	}

	s.client.state.setLoading(SliceLeaves, true)
	defer s.client.state.setLoading(SliceLeaves, false)

	var raw []any
	if sess.Source == gohris.SourceSOAP {
		raw, err = s.listSOAP(ctx)
	} else {
		raw, err = s.listREST(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	records := normalize.LeaveList(raw)
	s.client.state.setLeaves(records)
	return records, nil
}

func (s *LeaveService) listREST(ctx context.Context, sess *gohris.Session) ([]any, error) {
	rc, err := s.client.rest()
	if err != nil {
		return nil, err
	}

	route := "leaves/my"
	if s.reviewGuard.Check(sess.Role) == nil {
		route = "leaves"
	}

	var body any
	if err := rc.Get(ctx, route, &body); err != nil {
		return nil, err
	}
	return extractList(body, "leaves", "requests", "data"), nil
}

func (s *LeaveService) listSOAP(ctx context.Context) ([]any, error) {
	sc, err := s.client.soap()
	if err != nil {
		return nil, err
	}

	doc, err := sc.AuthenticatedCall(ctx, "getLeaveRequests", nil)
	if err != nil {
		return nil, err
	}
	return nodesToList(doc.FindAll("leaveRequest")), nil
}

// Approve marks a pending leave request approved. Only reviewer roles
// may decide requests.
func (s *LeaveService) Approve(ctx context.Context, id string) (normalize.LeaveRecord, error) {
	return s.decide(ctx, id, leaveDecision{Status: "approved"})
}

// Reject marks a pending leave request rejected with an optional note.
func (s *LeaveService) Reject(ctx context.Context, id, note string) (normalize.LeaveRecord, error) {
	return s.decide(ctx, id, leaveDecision{Status: "rejected", Note: note})
}

func (s *LeaveService) decide(ctx context.Context, id string, decision leaveDecision) (normalize.LeaveRecord, error) {
	sess, err := s.client.session()
	if err != nil {
		return normalize.LeaveRecord{}, err
	}
	if err := s.reviewGuard.Check(sess.Role); err != nil {
		return normalize.LeaveRecord{}, err
	}
	rc, err := s.client.rest()
	if err != nil {
		return normalize.LeaveRecord{}, err
	}

	var out map[string]any
	if err := rc.Put(ctx, "leaves/"+id+"/decision", decision, &out); err != nil {
		return normalize.LeaveRecord{}, err
	}

	rec := normalize.Leave(extractDoc(out, "leave", "request", "data"))
	s.client.state.upsertLeave(rec)
	return rec, nil
}
