// Package memory is the reference storage adapter: mutex-guarded maps with
// deep copies on the way in and out. It backs tests, examples and the CLI,
// and doubles as the enrollment source.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
)

// Store keeps forms, answer sets and enrollment in process memory. The mutex
// is the single point of serialization; the engine itself takes no locks.
type Store struct {
	mu sync.Mutex

	forms   map[string]schema.Form
	answers map[answerKey]schema.AnswerSet
	roles   map[answerKey]schema.Role
	leaders map[answerKey]string
}

type answerKey struct {
	formID  string
	ownerID string
}

var _ storage.Adapter = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		forms:   make(map[string]schema.Form),
		answers: make(map[answerKey]schema.AnswerSet),
		roles:   make(map[answerKey]schema.Role),
		leaders: make(map[answerKey]string),
	}
}

// GetForm returns a deep copy of the stored form.
func (s *Store) GetForm(ctx context.Context, id string) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, &storage.AdapterError{Op: "get form", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	form, ok := s.forms[id]
	if !ok {
		return schema.Form{}, storage.ErrNotFound
	}
	return form.Clone(), nil
}

// UpsertForm inserts a form without an id, assigning one, or updates an
// existing form after checking its version stamp. The stored version advances
// on every successful write; the returned id identifies the persisted form.
func (s *Store) UpsertForm(ctx context.Context, form schema.Form) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &storage.AdapterError{Op: "upsert form", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := form.Clone()
	if stored.ID == "" {
		stored.ID = s.newFormIDLocked()
		stored.Version = 1
		s.forms[stored.ID] = stored
		return stored.ID, nil
	}

	existing, ok := s.forms[stored.ID]
	if !ok {
		// Caller-assigned id on first write.
		stored.Version = 1
		s.forms[stored.ID] = stored
		return stored.ID, nil
	}
	if stored.Version != existing.Version {
		return "", storage.ErrVersionConflict
	}
	stored.Version = existing.Version + 1
	s.forms[stored.ID] = stored
	return stored.ID, nil
}

// GetAnswerSet returns a deep copy of the owner's answer set for the form.
func (s *Store) GetAnswerSet(ctx context.Context, formID, ownerID string) (schema.AnswerSet, error) {
	if err := ctx.Err(); err != nil {
		return schema.AnswerSet{}, &storage.AdapterError{Op: "get answer set", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.answers[answerKey{formID: formID, ownerID: ownerID}]
	if !ok {
		return schema.AnswerSet{}, storage.ErrNotFound
	}
	return set.Clone(), nil
}

// UpsertAnswerSet stores the answer set keyed by (form, owner). At most one
// record exists per key; repeat writes replace it.
func (s *Store) UpsertAnswerSet(ctx context.Context, set schema.AnswerSet) error {
	if err := ctx.Err(); err != nil {
		return &storage.AdapterError{Op: "upsert answer set", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers[answerKey{formID: set.FormID, ownerID: set.RespondentID}] = set.Clone()
	return nil
}

// Role resolves the respondent's role for a form. Unenrolled respondents are
// individuals.
func (s *Store) Role(ctx context.Context, formID, respondentID string) (schema.Role, error) {
	if err := ctx.Err(); err != nil {
		return "", &storage.AdapterError{Op: "resolve role", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if role, ok := s.roles[answerKey{formID: formID, ownerID: respondentID}]; ok {
		return role, nil
	}
	return schema.RoleIndividual, nil
}

// SubmissionOwner resolves whose record holds the respondent's answers. Team
// members resolve to their leader; everyone else owns their own record.
func (s *Store) SubmissionOwner(ctx context.Context, formID, respondentID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &storage.AdapterError{Op: "resolve submission owner", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if leader, ok := s.leaders[answerKey{formID: formID, ownerID: respondentID}]; ok {
		return leader, nil
	}
	return respondentID, nil
}

// SetRole pins a respondent's role for a form.
func (s *Store) SetRole(formID, respondentID string, role schema.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[answerKey{formID: formID, ownerID: respondentID}] = role
}

// SetTeam enrolls a leader and their members for a form. Members share the
// leader's submission record.
func (s *Store) SetTeam(formID, leaderID string, memberIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.roles[answerKey{formID: formID, ownerID: leaderID}] = schema.RoleLeader
	s.leaders[answerKey{formID: formID, ownerID: leaderID}] = leaderID
	for _, memberID := range memberIDs {
		s.roles[answerKey{formID: formID, ownerID: memberID}] = schema.RoleMember
		s.leaders[answerKey{formID: formID, ownerID: memberID}] = leaderID
	}
}

func (s *Store) newFormIDLocked() string {
	for {
		id := uuid.NewString()[:8]
		if _, taken := s.forms[id]; !taken {
			return id
		}
	}
}
