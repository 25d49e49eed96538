package hris

import (
	"errors"

	"github.com/Bmat321/gohris"
	"github.com/Bmat321/gohris/rest"
	"github.com/Bmat321/gohris/soap"
)

var (
	// ErrNoSession means a service call was skipped because nobody is
	// logged in.
	ErrNoSession = errors.New("hris: no active session")
	// ErrRESTUnavailable means the manager was built without a REST
	// endpoint and the call has no SOAP equivalent.
	ErrRESTUnavailable = errors.New("hris: rest backend not configured")
	// ErrSOAPUnavailable means an administrator operation needed the
	// SOAP client and none is configured.
	ErrSOAPUnavailable = errors.New("hris: soap backend not configured")
)

// Client bundles the domain services around one session Manager and one
// shared State store.
//
// Client instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
type Client struct {
	manager *gohris.Manager
	state   *State

	attendance *AttendanceService
	leaves     *LeaveService
	handovers  *HandoverService
	profile    *ProfileService
}

// New builds a Client over an initialized Manager.
func New(manager *gohris.Manager) (*Client, error) {
	if manager == nil {
		return nil, errors.New("hris: manager required")
	}

	c := &Client{
		manager: manager,
		state:   NewState(),
	}
	c.attendance = &AttendanceService{client: c}
	c.leaves = newLeaveService(c)
	c.handovers = &HandoverService{client: c}
	c.profile = &ProfileService{client: c}
	return c, nil
}

// State exposes the shared store for UI-style consumers.
func (c *Client) State() *State { return c.state }

// Attendance returns the attendance service.
func (c *Client) Attendance() *AttendanceService { return c.attendance }

// Leaves returns the leave-request service.
func (c *Client) Leaves() *LeaveService { return c.leaves }

// Handovers returns the shift-handover service.
func (c *Client) Handovers() *HandoverService { return c.handovers }

// Profile returns the profile service.
func (c *Client) Profile() *ProfileService { return c.profile }

// session is the shared "skip if no user" predicate.
func (c *Client) session() (*gohris.Session, error) {
	sess, ok := c.manager.CurrentUser()
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

func (c *Client) rest() (*rest.Client, error) {
	rc := c.manager.REST()
	if rc == nil {
		return nil, ErrRESTUnavailable
	}
	return rc, nil
}

func (c *Client) soap() (*soap.Client, error) {
	sc := c.manager.SOAP()
	if sc == nil {
		return nil, ErrSOAPUnavailable
	}
	return sc, nil
}

// extractList digs a record list out of a loosely-shaped response body:
// a bare array, or an object wrapping the array under one of keys.
func extractList(v any, keys ...string) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		for _, key := range keys {
			if inner, ok := t[key]; ok {
				if list, ok := inner.([]any); ok {
					return list
				}
			}
		}
	}
	return nil
}

// extractDoc digs a single record out of a response body that may wrap
// it under one of keys. The body itself is the fallback.
func extractDoc(v map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if inner, ok := v[key]; ok {
			if doc, ok := inner.(map[string]any); ok {
				return doc
			}
		}
	}
	return v
}

// nodeToMap flattens a SOAP response element into the loose document
// shape the normalize package consumes. Leaf elements become strings,
// nested elements become nested maps.
func nodeToMap(n *soap.Node) map[string]any {
	if n == nil {
		return nil
	}
	m := make(map[string]any, len(n.Children))
	for _, child := range n.Children {
		if len(child.Children) == 0 {
			m[child.Name] = child.Text
		} else {
			m[child.Name] = nodeToMap(child)
		}
	}
	return m
}

func nodesToList(nodes []*soap.Node) []any {
	out := make([]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any(nodeToMap(n)))
	}
	return out
}
