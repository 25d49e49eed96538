// Package role defines the canonical HRIS role vocabulary and the role
// gating helpers used by the session manager and domain clients.
//
// Role values arrive from three different backends with inconsistent
// casing ("Admin", "ADMIN", "admin"). All comparisons inside this module
// happen on the canonical lowercase form, produced once at parse time.
package role

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a canonical, lowercase HRIS role.
type Role string

const (
	// Admin is the SOAP-backed administrative role.
	Admin Role = "admin"
	// HR is the human-resources reviewer role.
	HR Role = "hr"
	// MD is the managing-director reviewer role.
	MD Role = "md"
	// TeamLead is the first-line approval role.
	TeamLead Role = "teamlead"
	// Employee is the default non-privileged role.
	Employee Role = "employee"
)

// ErrUnknownRole is returned by Parse for values outside the vocabulary.
var ErrUnknownRole = errors.New("unknown role")

// ErrDenied is returned by Guard.Check when the caller's role is not in
// the required set.
var ErrDenied = errors.New("role not permitted")

var known = map[Role]struct{}{
	Admin:    {},
	HR:       {},
	MD:       {},
	TeamLead: {},
	Employee: {},
}

// Parse canonicalizes a raw role string (trim + lowercase) and validates
// it against the known vocabulary.
func Parse(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := known[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return r, nil
}

// ParseLenient canonicalizes like Parse but maps unknown values to
// Employee instead of failing. Used when hydrating records from backends
// that are not authoritative for authorization decisions.
func ParseLenient(raw string) Role {
	r, err := Parse(raw)
	if err != nil {
		return Employee
	}
	return r
}

// Valid reports whether r is a member of the canonical vocabulary.
func Valid(r Role) bool {
	_, ok := known[r]
	return ok
}

// Allowed reports whether have appears in required. An empty required set
// permits every valid role.
func Allowed(have Role, required ...Role) bool {
	if !Valid(have) {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if have == r {
			return true
		}
	}
	return false
}

// Reviewers is the set of roles that may act on an approval queue entry.
func Reviewers() []Role {
	return []Role{TeamLead, HR, MD}
}

// Guard gates an operation behind a fixed set of roles.
type Guard struct {
	required []Role
}

// NewGuard builds a Guard from the given roles. Unknown roles are
// rejected so a typo cannot silently open a gate.
func NewGuard(required ...Role) (Guard, error) {
	for _, r := range required {
		if !Valid(r) {
			return Guard{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(r))
		}
	}
	out := make([]Role, len(required))
	copy(out, required)
	return Guard{required: out}, nil
}

// Check returns nil when have is allowed through the guard, ErrDenied
// otherwise.
func (g Guard) Check(have Role) error {
	if Allowed(have, g.required...) {
		return nil
	}
	return fmt.Errorf("%w: %q requires one of %v", ErrDenied, string(have), g.required)
}
