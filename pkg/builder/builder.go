// Package builder is the authoring surface for forms: an in-memory draft
// edited through id-addressed operations and persisted all-or-nothing through
// the storage adapter. The draft is only ever written after validation
// passes, so persisted forms are always well formed.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/collection"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
)

var (
	// ErrLastQuestion reports an attempt to remove the only question. A form
	// never has fewer than one.
	ErrLastQuestion = errors.New("builder: cannot remove the last question")

	// ErrSaveInFlight reports a Save call while a previous one on the same
	// builder is still pending.
	ErrSaveInFlight = errors.New("builder: save already in flight")
)

// Option is one choice row of a choice-type question. Rows carry stable ids
// so reordering and text edits address the row, not its position or text.
type Option struct {
	ID   string
	Text string
}

func optionKey(o Option) string { return o.ID }

const defaultOptionText = "Option 1"

// Builder edits one form draft. It is not safe for concurrent use; the
// in-flight guard on Save protects the persistence round trip only.
type Builder struct {
	adapter storage.Adapter

	form      schema.Form // scalar fields only; Questions lives in the list
	questions collection.List[schema.Question]
	options   map[string]collection.List[Option]
	// hidden retains the option rows of questions whose type changed away
	// from choices, keyed by question id, so reverting restores them.
	hidden map[string]collection.List[Option]
	active string

	saving atomic.Bool
}

func questionKey(q schema.Question) string { return q.ID }

// New starts a blank draft with a single short_text question, mirroring what
// an author sees when they create a form.
func New(adapter storage.Adapter) *Builder {
	b := &Builder{
		adapter:   adapter,
		questions: collection.New(questionKey),
		options:   make(map[string]collection.List[Option]),
		hidden:    make(map[string]collection.List[Option]),
	}
	b.form.Title = "Untitled form"
	b.AddQuestion()
	return b
}

// Load seeds a draft from a persisted form.
func Load(ctx context.Context, adapter storage.Adapter, formID string) (*Builder, error) {
	if adapter == nil {
		return nil, errors.New("builder: adapter is required")
	}
	form, err := adapter.GetForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("builder: load form %q: %w", formID, err)
	}

	b := &Builder{
		adapter: adapter,
		form:    form,
		options: make(map[string]collection.List[Option]),
		hidden:  make(map[string]collection.List[Option]),
	}
	b.form.Questions = nil
	// Option rows become the single source of truth from here on, so the
	// persisted Options slices are stripped from the question items. Form
	// reassembles them from the rows.
	questions := make([]schema.Question, 0, len(form.Questions))
	for _, q := range form.Questions {
		if q.Type.UsesOptions() {
			b.options[q.ID] = optionRows(q.Options)
		}
		q.Options = nil
		questions = append(questions, q)
	}
	b.questions = collection.New(questionKey, questions...)
	if ids := b.questions.IDs(); len(ids) > 0 {
		b.active = ids[0]
	}
	return b, nil
}

// Form assembles the current draft.
func (b *Builder) Form() schema.Form {
	form := b.form.Clone()
	form.Questions = b.questions.Items()
	for i, q := range form.Questions {
		if !q.Type.UsesOptions() {
			continue
		}
		rows, ok := b.options[q.ID]
		if !ok {
			continue
		}
		form.Questions[i].Options = optionTexts(rows)
	}
	return form
}

// Active returns the id of the question currently selected for editing.
func (b *Builder) Active() string {
	return b.active
}

// SelectQuestion marks a question as the active editing target.
func (b *Builder) SelectQuestion(id string) error {
	if !b.questions.Contains(id) {
		return fmt.Errorf("builder: select question: %w: %q", collection.ErrNotFound, id)
	}
	b.active = id
	return nil
}

// AddQuestion appends a fresh short_text question, not required, and selects
// it. The new id is returned.
func (b *Builder) AddQuestion() string {
	q := schema.Question{
		ID:    b.questions.NewID(),
		Type:  schema.TypeShortText,
		Label: "Untitled question",
	}
	b.questions = b.questions.Append(q)
	b.active = q.ID
	return q.ID
}

// ChangeType switches a question's type. Moving onto a choice type restores
// the question's previously hidden option rows, or seeds one default row on
// first use. Moving off a choice type hides the rows instead of discarding
// them, so the change is reversible.
func (b *Builder) ChangeType(id string, newType schema.QuestionType) error {
	if !newType.Valid() {
		return fmt.Errorf("builder: change type: unsupported question type %q", newType)
	}
	q, ok := b.questions.Get(id)
	if !ok {
		return fmt.Errorf("builder: change type: %w: %q", collection.ErrNotFound, id)
	}
	if q.Type == newType {
		return nil
	}

	wasChoice := q.Type.UsesOptions()
	isChoice := newType.UsesOptions()

	switch {
	case wasChoice && !isChoice:
		if rows, ok := b.options[id]; ok {
			b.hidden[id] = rows
			delete(b.options, id)
		}
	case !wasChoice && isChoice:
		if rows, ok := b.hidden[id]; ok {
			b.options[id] = rows
			delete(b.hidden, id)
		} else if _, ok := b.options[id]; !ok {
			rows := collection.New(optionKey)
			rows = rows.Append(Option{ID: rows.NewID(), Text: defaultOptionText})
			b.options[id] = rows
		}
	}

	updated, err := b.questions.Update(id, func(q schema.Question) schema.Question {
		q.Type = newType
		q.Options = nil
		return q
	})
	if err != nil {
		return fmt.Errorf("builder: change type: %w", err)
	}
	b.questions = updated
	return nil
}

// MoveQuestion repositions a question relative to another or to the end.
func (b *Builder) MoveQuestion(id string, target collection.Target) error {
	moved, err := b.questions.Move(id, target)
	if err != nil {
		return fmt.Errorf("builder: move question: %w", err)
	}
	b.questions = moved
	return nil
}

// DuplicateQuestion inserts a copy of the question immediately after the
// source, under a fresh id, and selects it. Option rows are copied under
// fresh row ids, hidden rows included.
func (b *Builder) DuplicateQuestion(id string) (string, error) {
	updated, copied, err := b.questions.Duplicate(id, func(src schema.Question, newID string) schema.Question {
		clone := src.Clone()
		clone.ID = newID
		return clone
	})
	if err != nil {
		return "", fmt.Errorf("builder: duplicate question: %w", err)
	}
	b.questions = updated

	if rows, ok := b.options[id]; ok {
		b.options[copied.ID] = optionRows(optionTexts(rows))
	}
	if rows, ok := b.hidden[id]; ok {
		b.hidden[copied.ID] = optionRows(optionTexts(rows))
	}
	b.active = copied.ID
	return copied.ID, nil
}

// RemoveQuestion deletes a question and its option rows. The last remaining
// question cannot be removed.
func (b *Builder) RemoveQuestion(id string) error {
	if b.questions.Len() <= 1 && b.questions.Contains(id) {
		return ErrLastQuestion
	}
	removed, err := b.questions.Remove(id)
	if err != nil {
		return fmt.Errorf("builder: remove question: %w", err)
	}
	b.questions = removed
	delete(b.options, id)
	delete(b.hidden, id)
	if b.active == id {
		if ids := b.questions.IDs(); len(ids) > 0 {
			b.active = ids[0]
		} else {
			b.active = ""
		}
	}
	return nil
}

// SetLabel updates a question's label.
func (b *Builder) SetLabel(id, label string) error {
	updated, err := b.questions.Update(id, func(q schema.Question) schema.Question {
		q.Label = label
		return q
	})
	if err != nil {
		return fmt.Errorf("builder: set label: %w", err)
	}
	b.questions = updated
	return nil
}

// SetRequired toggles a question's required flag.
func (b *Builder) SetRequired(id string, required bool) error {
	updated, err := b.questions.Update(id, func(q schema.Question) schema.Question {
		q.Required = required
		return q
	})
	if err != nil {
		return fmt.Errorf("builder: set required: %w", err)
	}
	b.questions = updated
	return nil
}

// SetTitle updates the form title.
func (b *Builder) SetTitle(title string) {
	b.form.Title = title
}

// SetDescription updates the form description.
func (b *Builder) SetDescription(description string) {
	b.form.Description = description
}

// SetSchedule sets the open/close window. AlwaysOpen makes closeAt ignored by
// the gate but it is stored as authored.
func (b *Builder) SetSchedule(openAt, closeAt *time.Time, alwaysOpen bool) {
	b.form.OpenAt = openAt
	b.form.CloseAt = closeAt
	b.form.AlwaysOpen = alwaysOpen
}

// AddOption appends an option row to a choice question and returns its id.
func (b *Builder) AddOption(questionID, text string) (string, error) {
	rows, err := b.optionList(questionID)
	if err != nil {
		return "", fmt.Errorf("builder: add option: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("Option %d", rows.Len()+1)
	}
	row := Option{ID: rows.NewID(), Text: text}
	b.options[questionID] = rows.Append(row)
	return row.ID, nil
}

// SetOptionText updates one option row's text.
func (b *Builder) SetOptionText(questionID, optionID, text string) error {
	rows, err := b.optionList(questionID)
	if err != nil {
		return fmt.Errorf("builder: set option text: %w", err)
	}
	updated, err := rows.Update(optionID, func(o Option) Option {
		o.Text = text
		return o
	})
	if err != nil {
		return fmt.Errorf("builder: set option text: %w", err)
	}
	b.options[questionID] = updated
	return nil
}

// MoveOption repositions an option row within its question.
func (b *Builder) MoveOption(questionID, optionID string, target collection.Target) error {
	rows, err := b.optionList(questionID)
	if err != nil {
		return fmt.Errorf("builder: move option: %w", err)
	}
	updated, err := rows.Move(optionID, target)
	if err != nil {
		return fmt.Errorf("builder: move option: %w", err)
	}
	b.options[questionID] = updated
	return nil
}

// RemoveOption deletes an option row.
func (b *Builder) RemoveOption(questionID, optionID string) error {
	rows, err := b.optionList(questionID)
	if err != nil {
		return fmt.Errorf("builder: remove option: %w", err)
	}
	updated, err := rows.Remove(optionID)
	if err != nil {
		return fmt.Errorf("builder: remove option: %w", err)
	}
	b.options[questionID] = updated
	return nil
}

// Options returns the option rows of a choice question in order.
func (b *Builder) Options(questionID string) ([]Option, error) {
	rows, err := b.optionList(questionID)
	if err != nil {
		return nil, fmt.Errorf("builder: options: %w", err)
	}
	return rows.Items(), nil
}

// Preview interprets the draft into the same widget plan the live renderer
// uses, in preview mode, without persisting anything.
func (b *Builder) Preview() ([]render.Widget, error) {
	widgets, err := render.BuildWidgets(b.Form(), nil, render.ModePreview)
	if err != nil {
		return nil, fmt.Errorf("builder: preview: %w", err)
	}
	return widgets, nil
}

// Save validates the draft and persists it through the adapter in one
// all-or-nothing round trip. Validation failures return *schema.SchemaError
// and write nothing. First save assigns the form id; later saves carry the
// version stamp and surface storage.ErrVersionConflict when it is stale. A
// second call while one is pending returns ErrSaveInFlight.
func (b *Builder) Save(ctx context.Context) (string, error) {
	if b.adapter == nil {
		return "", errors.New("builder: adapter is required")
	}
	if !b.saving.CompareAndSwap(false, true) {
		return "", ErrSaveInFlight
	}
	defer b.saving.Store(false)

	form := b.Form()
	if err := schema.ValidateForm(form); err != nil {
		return "", err
	}

	id, err := b.adapter.UpsertForm(ctx, form)
	if err != nil {
		return "", fmt.Errorf("builder: save form: %w", err)
	}

	b.form.ID = id
	if b.form.Version == 0 {
		b.form.Version = 1
	} else {
		b.form.Version++
	}
	return id, nil
}

func (b *Builder) optionList(questionID string) (collection.List[Option], error) {
	q, ok := b.questions.Get(questionID)
	if !ok {
		return collection.List[Option]{}, fmt.Errorf("%w: %q", collection.ErrNotFound, questionID)
	}
	if !q.Type.UsesOptions() {
		return collection.List[Option]{}, fmt.Errorf("question type %q does not take options", q.Type)
	}
	rows, ok := b.options[questionID]
	if !ok {
		rows = collection.New(optionKey)
	}
	return rows, nil
}

func optionRows(texts []string) collection.List[Option] {
	rows := collection.New(optionKey)
	for _, text := range texts {
		rows = rows.Append(Option{ID: rows.NewID(), Text: text})
	}
	return rows
}

func optionTexts(rows collection.List[Option]) []string {
	items := rows.Items()
	texts := make([]string, 0, len(items))
	for _, row := range items {
		texts = append(texts, row.Text)
	}
	return texts
}
