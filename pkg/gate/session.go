package gate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
)

// Enrollment resolves the respondent's role and which record their answers
// live in. Team members resolve to their leader's record; everyone else owns
// their own.
type Enrollment interface {
	Role(ctx context.Context, formID, respondentID string) (schema.Role, error)
	SubmissionOwner(ctx context.Context, formID, respondentID string) (string, error)
}

// SessionOption configures OpenSession.
type SessionOption func(*Session)

// WithClock overrides the session clock. Tests pin it to a fixed instant.
func WithClock(clock func() time.Time) SessionOption {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Session binds one respondent to one form for the lifetime of a submission
// surface. It is loaded once; the gate state is re-evaluated per call so an
// open window can expire between render and submit.
type Session struct {
	adapter storage.Adapter
	clock   func() time.Time

	form         schema.Form
	role         schema.Role
	respondentID string
	ownerID      string
	existing     *schema.AnswerSet

	submitting atomic.Bool
}

// OpenSession loads the form, resolves the respondent's role and record
// owner, and fetches the existing answer set if any. A missing answer set is
// not an error; a missing form is.
func OpenSession(ctx context.Context, adapter storage.Adapter, enrollment Enrollment, formID, respondentID string, options ...SessionOption) (*Session, error) {
	if adapter == nil {
		return nil, errors.New("gate: adapter is required")
	}
	if enrollment == nil {
		return nil, errors.New("gate: enrollment is required")
	}

	session := &Session{
		adapter:      adapter,
		clock:        time.Now,
		respondentID: respondentID,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(session)
	}

	form, err := adapter.GetForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("gate: load form %q: %w", formID, err)
	}
	session.form = form

	role, err := enrollment.Role(ctx, formID, respondentID)
	if err != nil {
		return nil, fmt.Errorf("gate: resolve role: %w", err)
	}
	session.role = role

	ownerID, err := enrollment.SubmissionOwner(ctx, formID, respondentID)
	if err != nil {
		return nil, fmt.Errorf("gate: resolve submission owner: %w", err)
	}
	session.ownerID = ownerID

	existing, err := adapter.GetAnswerSet(ctx, formID, ownerID)
	switch {
	case err == nil:
		session.existing = &existing
	case errors.Is(err, storage.ErrNotFound):
		// First visit; the session starts blank.
	default:
		return nil, fmt.Errorf("gate: load answer set: %w", err)
	}

	return session, nil
}

// Form returns the loaded form.
func (s *Session) Form() schema.Form {
	return s.form.Clone()
}

// Role returns the respondent's resolved role.
func (s *Session) Role() schema.Role {
	return s.role
}

// State evaluates the gate at the current instant.
func (s *Session) State() State {
	return Evaluate(s.clock(), s.form, s.role)
}

// Store returns a fresh answer store seeded from the existing answer set, or
// an empty one on first visit. Members see the leader's stored answers.
func (s *Session) Store() *answers.Store {
	if s.existing == nil {
		return answers.NewStore()
	}
	return answers.NewStoreFromValues(s.existing.Values)
}

// Submitted reports whether an answer set already exists for this session's
// record owner.
func (s *Session) Submitted() bool {
	return s.existing != nil && s.existing.Status == schema.StatusSubmitted
}

// Submit validates the store against the form and persists the answer set in
// one round trip. While the gate is locked it returns *GateError and writes
// nothing; required-field violations return *schema.SchemaError and write
// nothing. Repeat submits update the same record in place, preserving its
// identity and CreatedAt. A second call while one is pending returns
// ErrSubmitInFlight.
func (s *Session) Submit(ctx context.Context, store *answers.Store) error {
	if store == nil {
		return errors.New("gate: store is required")
	}
	if !s.submitting.CompareAndSwap(false, true) {
		return ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	now := s.clock()
	if state := Evaluate(now, s.form, s.role); state.Kind != Open {
		return &GateError{State: state}
	}

	if violations := store.ValidateAgainst(s.form); len(violations) > 0 {
		return &schema.SchemaError{Violations: violations}
	}

	set := schema.AnswerSet{
		FormID:       s.form.ID,
		RespondentID: s.ownerID,
		Values:       store.Serialize(),
		Status:       schema.StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.existing != nil {
		set.CreatedAt = s.existing.CreatedAt
	}

	if err := s.adapter.UpsertAnswerSet(ctx, set); err != nil {
		return fmt.Errorf("gate: persist answer set: %w", err)
	}
	s.existing = &set
	return nil
}
