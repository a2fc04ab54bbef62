package schema

import "time"

// QuestionType enumerates the input kinds a question can take. The renderer
// switches exhaustively on this enum, so adding a value here requires a
// matching widget mapping.
type QuestionType string

const (
	TypeShortText    QuestionType = "short_text"
	TypeLongText     QuestionType = "long_text"
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeDropdown     QuestionType = "dropdown"
	TypeNumber       QuestionType = "number"
	TypeURL          QuestionType = "url"
	TypeEmail        QuestionType = "email"
	TypeDate         QuestionType = "date"
	TypeBoolean      QuestionType = "boolean"
)

// UsesOptions reports whether the type carries an options list.
func (t QuestionType) UsesOptions() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeDropdown:
		return true
	default:
		return false
	}
}

// Multi reports whether answers for the type are lists rather than single
// values.
func (t QuestionType) Multi() bool {
	return t == TypeMultiChoice
}

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeShortText, TypeLongText, TypeSingleChoice, TypeMultiChoice,
		TypeDropdown, TypeNumber, TypeURL, TypeEmail, TypeDate, TypeBoolean:
		return true
	default:
		return false
	}
}

// Question is one typed, labeled, optionally-required field within a form.
// IDs are opaque and stable: once a submission references a question id the
// id must not be reused for a semantically different question.
type Question struct {
	ID       string       `json:"id" yaml:"id"`
	Type     QuestionType `json:"type" yaml:"type"`
	Label    string       `json:"label" yaml:"label"`
	Required bool         `json:"required" yaml:"required"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	return out
}

// Form is an authored, ordered set of questions plus its open/close schedule.
// Forms are created and mutated only by the builder; the renderer and the
// submission gate treat them as read-only.
type Form struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Questions   []Question `json:"questions" yaml:"questions"`
	OpenAt      *time.Time `json:"open_at,omitempty" yaml:"open_at,omitempty"`
	CloseAt     *time.Time `json:"close_at,omitempty" yaml:"close_at,omitempty"`
	AlwaysOpen  bool       `json:"always_open" yaml:"always_open"`

	// Version is the optimistic-concurrency stamp checked by the persistence
	// adapter on upsert. Zero means "never persisted".
	Version int `json:"version" yaml:"version"`
}

// Question returns the question with the given id.
func (f Form) Question(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIDs returns the question ids in presentation order.
func (f Form) QuestionIDs() []string {
	ids := make([]string, 0, len(f.Questions))
	for _, q := range f.Questions {
		ids = append(ids, q.ID)
	}
	return ids
}

// Clone returns a deep copy of the form.
func (f Form) Clone() Form {
	out := f
	if f.Questions != nil {
		out.Questions = make([]Question, len(f.Questions))
		for i, q := range f.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	if f.OpenAt != nil {
		at := *f.OpenAt
		out.OpenAt = &at
	}
	if f.CloseAt != nil {
		at := *f.CloseAt
		out.CloseAt = &at
	}
	return out
}

// Status tracks the lifecycle of an answer set.
type Status string

const (
	StatusDraftLocal Status = "draft_local"
	StatusSubmitted  Status = "submitted"
)

// AnswerSet holds one respondent's (or team's) collected values for a form.
// Keys in Values reference question ids; stray keys left behind by removed
// questions are retained but never rendered.
type AnswerSet struct {
	FormID       string           `json:"form_id"`
	RespondentID string           `json:"respondent_id"`
	Values       map[string]Value `json:"values"`
	Status       Status           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Clone returns a deep copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := a
	if a.Values != nil {
		out.Values = make(map[string]Value, len(a.Values))
		for k, v := range a.Values {
			out.Values[k] = v.Clone()
		}
	}
	return out
}

// Role is the participant role resolved per (form, respondent) by the
// enrollment collaborator. The engine only consumes it.
type Role string

const (
	// RoleIndividual answers for themselves.
	RoleIndividual Role = "individual"
	// RoleLeader writes the single submission shared by a team.
	RoleLeader Role = "leader"
	// RoleMember may only observe the leader's shared submission.
	RoleMember Role = "member"
)
