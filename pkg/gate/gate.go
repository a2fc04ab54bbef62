// Package gate decides whether a form accepts submissions right now and, via
// Session, carries one respondent's submission round trip. The decision is a
// pure function of the clock, the form schedule and the respondent role.
package gate

import (
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Kind enumerates gate outcomes.
type Kind string

const (
	// Open accepts submissions.
	Open Kind = "open"
	// LockedFuture means the window has not opened yet.
	LockedFuture Kind = "locked_future"
	// LockedPast means the window has closed.
	LockedPast Kind = "locked_past"
	// LockedRole means the respondent is a team member observing the
	// leader's submission.
	LockedRole Kind = "locked_role"
)

// State is the gate decision for one (form, respondent, instant).
type State struct {
	Kind Kind

	// OpensAt and ClosesAt echo the schedule bounds relevant to a locked
	// state so views can build banner copy.
	OpensAt  *time.Time
	ClosesAt *time.Time
}

// Evaluate computes the gate state. The role check wins over time: members
// are locked even inside an open window. A form with no open_at is treated as
// already open; AlwaysOpen makes close_at irrelevant. The closing instant is
// inclusive.
func Evaluate(now time.Time, form schema.Form, role schema.Role) State {
	if role == schema.RoleMember {
		return State{Kind: LockedRole}
	}
	if form.OpenAt != nil && now.Before(*form.OpenAt) {
		return State{Kind: LockedFuture, OpensAt: form.OpenAt}
	}
	if !form.AlwaysOpen && form.CloseAt != nil && now.After(*form.CloseAt) {
		return State{Kind: LockedPast, ClosesAt: form.CloseAt}
	}
	return State{Kind: Open}
}

// Mode maps the gate state onto the render mode: editable only while open.
func (s State) Mode() render.Mode {
	if s.Kind == Open {
		return render.ModeEditable
	}
	return render.ModeReadOnly
}

// Reason returns the banner copy for a locked state, empty while open.
func (s State) Reason() string {
	switch s.Kind {
	case LockedFuture:
		if s.OpensAt != nil {
			return "This form opens " + s.OpensAt.Format(time.RFC1123) + "."
		}
		return "This form is not open yet."
	case LockedPast:
		if s.ClosesAt != nil {
			return "This form closed " + s.ClosesAt.Format(time.RFC1123) + "."
		}
		return "This form is closed."
	case LockedRole:
		return "Only your team leader can edit this submission."
	default:
		return ""
	}
}
