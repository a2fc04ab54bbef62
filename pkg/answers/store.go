// Package answers holds one respondent's in-progress answer values for a
// form and validates them against the form's schema. The store is purely
// local: nothing here crosses the persistence boundary.
package answers

import (
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

// Store maps question ids to answer values for a single respondent. Values
// restored from a persisted answer set may reference questions that have
// since been removed; such entries are retained and re-serialized verbatim
// but never rendered or validated.
type Store struct {
	values map[string]schema.Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]schema.Value)}
}

// NewStoreFromValues restores a store from persisted answer-set values. The
// input is deep-copied; unknown keys are tolerated.
func NewStoreFromValues(values map[string]schema.Value) *Store {
	s := NewStore()
	for id, v := range values {
		s.values[id] = v.Clone()
	}
	return s
}

// Set overwrites the value for a question.
func (s *Store) Set(questionID string, value schema.Value) {
	s.values[questionID] = value.Clone()
}

// SetText overwrites the value for a question with a single-string answer.
func (s *Store) SetText(questionID, text string) {
	s.values[questionID] = schema.TextValue(text)
}

// Toggle adds or removes a single option from a multi-selection answer
// without disturbing the other selected options. Selection order is the
// order options were toggled on.
func (s *Store) Toggle(questionID, option string, included bool) {
	current := s.values[questionID].List()
	next := make([]string, 0, len(current)+1)
	for _, item := range current {
		if item == option {
			continue
		}
		next = append(next, item)
	}
	if included {
		next = append(next, option)
	}
	s.values[questionID] = schema.ListValue(next...)
}

// Value returns the stored value for a question.
func (s *Store) Value(questionID string) (schema.Value, bool) {
	v, ok := s.values[questionID]
	return v, ok
}

// Clear removes the value for a question.
func (s *Store) Clear(questionID string) {
	delete(s.values, questionID)
}

// Serialize returns a deep copy of the stored values in the shape persisted
// on an answer set, unknown keys included.
func (s *Store) Serialize() map[string]schema.Value {
	out := make(map[string]schema.Value, len(s.values))
	for id, v := range s.values {
		out[id] = v.Clone()
	}
	return out
}
