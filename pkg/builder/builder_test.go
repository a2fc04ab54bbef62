package builder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CodeSapiens-in/formengine/pkg/builder"
	"github.com/CodeSapiens-in/formengine/pkg/collection"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
	"github.com/CodeSapiens-in/formengine/pkg/storage/memory"
)

func TestNewStartsWithOneQuestion(t *testing.T) {
	b := builder.New(memory.New())

	form := b.Form()
	if len(form.Questions) != 1 {
		t.Fatalf("expected one seeded question, got %d", len(form.Questions))
	}
	q := form.Questions[0]
	if q.Type != schema.TypeShortText || q.Required {
		t.Fatalf("unexpected seed question: %+v", q)
	}
	if b.Active() != q.ID {
		t.Fatalf("seed question not active: active=%q id=%q", b.Active(), q.ID)
	}
}

func TestAddQuestionSelectsNew(t *testing.T) {
	b := builder.New(memory.New())
	first := b.Form().Questions[0].ID

	added := b.AddQuestion()
	if added == first {
		t.Fatal("new question reused an id")
	}
	if b.Active() != added {
		t.Fatalf("new question not active: %q", b.Active())
	}
	if got := len(b.Form().Questions); got != 2 {
		t.Fatalf("question count: %d", got)
	}
}

func TestChangeTypeSeedsAndRetainsOptions(t *testing.T) {
	b := builder.New(memory.New())
	id := b.Form().Questions[0].ID

	if err := b.ChangeType(id, schema.TypeSingleChoice); err != nil {
		t.Fatalf("ChangeType to choice: %v", err)
	}
	if diff := cmp.Diff([]string{"Option 1"}, b.Form().Questions[0].Options); diff != "" {
		t.Fatalf("seeded options mismatch (-want +got):\n%s", diff)
	}

	if _, err := b.AddOption(id, "Second"); err != nil {
		t.Fatalf("AddOption: %v", err)
	}

	// Away from choices: options disappear from the draft but are retained.
	if err := b.ChangeType(id, schema.TypeLongText); err != nil {
		t.Fatalf("ChangeType to long_text: %v", err)
	}
	if opts := b.Form().Questions[0].Options; len(opts) != 0 {
		t.Fatalf("options leaked onto non-choice type: %v", opts)
	}

	// Back to a choice type: the previous rows return.
	if err := b.ChangeType(id, schema.TypeDropdown); err != nil {
		t.Fatalf("ChangeType to dropdown: %v", err)
	}
	if diff := cmp.Diff([]string{"Option 1", "Second"}, b.Form().Questions[0].Options); diff != "" {
		t.Fatalf("restored options mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeTypeAfterLoadDropsStoredOptions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	seed := builder.New(store)
	seed.SetTitle("Loaded edit")
	qid := seed.Form().Questions[0].ID
	if err := seed.SetLabel(qid, "Pick one"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if err := seed.ChangeType(qid, schema.TypeDropdown); err != nil {
		t.Fatalf("ChangeType: %v", err)
	}
	if _, err := seed.AddOption(qid, "Second"); err != nil {
		t.Fatalf("AddOption: %v", err)
	}
	id, err := seed.Save(ctx)
	if err != nil {
		t.Fatalf("seed Save: %v", err)
	}

	loaded, err := builder.Load(ctx, store, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loaded.ChangeType(qid, schema.TypeShortText); err != nil {
		t.Fatalf("ChangeType to short_text: %v", err)
	}
	if opts := loaded.Form().Questions[0].Options; len(opts) != 0 {
		t.Fatalf("persisted options leaked onto non-choice type: %v", opts)
	}
	if _, err := loaded.Save(ctx); err != nil {
		t.Fatalf("Save after ChangeType on loaded form: %v", err)
	}

	// Reverting still restores the loaded rows.
	if err := loaded.ChangeType(qid, schema.TypeSingleChoice); err != nil {
		t.Fatalf("ChangeType back to choice: %v", err)
	}
	if diff := cmp.Diff([]string{"Option 1", "Second"}, loaded.Form().Questions[0].Options); diff != "" {
		t.Fatalf("restored options mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateCopiesHiddenOptions(t *testing.T) {
	b := builder.New(memory.New())
	id := b.Form().Questions[0].ID

	if err := b.ChangeType(id, schema.TypeSingleChoice); err != nil {
		t.Fatalf("ChangeType: %v", err)
	}
	if _, err := b.AddOption(id, "Second"); err != nil {
		t.Fatalf("AddOption: %v", err)
	}
	if err := b.ChangeType(id, schema.TypeLongText); err != nil {
		t.Fatalf("ChangeType away from choice: %v", err)
	}

	copyID, err := b.DuplicateQuestion(id)
	if err != nil {
		t.Fatalf("DuplicateQuestion: %v", err)
	}
	if err := b.ChangeType(copyID, schema.TypeDropdown); err != nil {
		t.Fatalf("ChangeType copy to choice: %v", err)
	}
	copied, _ := b.Form().Question(copyID)
	if diff := cmp.Diff([]string{"Option 1", "Second"}, copied.Options); diff != "" {
		t.Fatalf("copy lost retained options (-want +got):\n%s", diff)
	}
}

func TestOptionOps(t *testing.T) {
	b := builder.New(memory.New())
	id := b.Form().Questions[0].ID
	if err := b.ChangeType(id, schema.TypeMultiChoice); err != nil {
		t.Fatalf("ChangeType: %v", err)
	}

	secondID, err := b.AddOption(id, "Second")
	if err != nil {
		t.Fatalf("AddOption: %v", err)
	}
	if _, err := b.AddOption(id, "Third"); err != nil {
		t.Fatalf("AddOption: %v", err)
	}

	if err := b.SetOptionText(id, secondID, "Renamed"); err != nil {
		t.Fatalf("SetOptionText: %v", err)
	}
	if err := b.MoveOption(id, secondID, collection.ToEnd()); err != nil {
		t.Fatalf("MoveOption: %v", err)
	}
	if diff := cmp.Diff([]string{"Option 1", "Third", "Renamed"}, b.Form().Questions[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if err := b.RemoveOption(id, secondID); err != nil {
		t.Fatalf("RemoveOption: %v", err)
	}
	if diff := cmp.Diff([]string{"Option 1", "Third"}, b.Form().Questions[0].Options); diff != "" {
		t.Fatalf("options after remove (-want +got):\n%s", diff)
	}

	if _, err := b.AddOption(id, ""); err != nil {
		t.Fatalf("AddOption blank: %v", err)
	}
	if got := b.Form().Questions[0].Options[2]; got != "Option 3" {
		t.Fatalf("blank option text default: %q", got)
	}
}

func TestOptionsRejectedOnNonChoice(t *testing.T) {
	b := builder.New(memory.New())
	id := b.Form().Questions[0].ID

	if _, err := b.AddOption(id, "nope"); err == nil {
		t.Fatal("AddOption on short_text must fail")
	}
}

func TestMoveAndDuplicateQuestion(t *testing.T) {
	b := builder.New(memory.New())
	first := b.Form().Questions[0].ID
	second := b.AddQuestion()

	if err := b.MoveQuestion(second, collection.Before(first)); err != nil {
		t.Fatalf("MoveQuestion: %v", err)
	}
	if got := b.Form().QuestionIDs(); got[0] != second || got[1] != first {
		t.Fatalf("order after move: %v", got)
	}

	if err := b.SetLabel(first, "Source"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	copyID, err := b.DuplicateQuestion(first)
	if err != nil {
		t.Fatalf("DuplicateQuestion: %v", err)
	}
	if copyID == first {
		t.Fatal("duplicate reused the source id")
	}

	form := b.Form()
	ids := form.QuestionIDs()
	if ids[1] != first || ids[2] != copyID {
		t.Fatalf("copy not adjacent to source: %v", ids)
	}
	copied, _ := form.Question(copyID)
	if copied.Label != "Source" {
		t.Fatalf("copy lost label: %+v", copied)
	}
}

func TestRemoveQuestionRefusesLast(t *testing.T) {
	b := builder.New(memory.New())
	only := b.Form().Questions[0].ID

	if err := b.RemoveQuestion(only); !errors.Is(err, builder.ErrLastQuestion) {
		t.Fatalf("expected ErrLastQuestion, got %v", err)
	}

	second := b.AddQuestion()
	if err := b.RemoveQuestion(second); err != nil {
		t.Fatalf("RemoveQuestion: %v", err)
	}
	if got := len(b.Form().Questions); got != 1 {
		t.Fatalf("question count after remove: %d", got)
	}
	if b.Active() != only {
		t.Fatalf("active after removing active question: %q", b.Active())
	}
}

func TestSaveValidatesFirst(t *testing.T) {
	store := memory.New()
	b := builder.New(store)
	id := b.Form().Questions[0].ID
	if err := b.SetLabel(id, "  "); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}

	_, err := b.Save(context.Background())
	var schemaErr *schema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}

	// Nothing was written.
	if _, err := store.GetForm(context.Background(), "anything"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
}

func TestSaveAssignsIDAndBumpsVersion(t *testing.T) {
	store := memory.New()
	b := builder.New(store)
	b.SetTitle("Persisted")

	ctx := context.Background()
	id, err := b.Save(ctx)
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if id == "" {
		t.Fatal("first save assigned no id")
	}

	persisted, err := store.GetForm(ctx, id)
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if persisted.Version != 1 {
		t.Fatalf("version after insert: %d", persisted.Version)
	}

	if _, err := b.Save(ctx); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	persisted, err = store.GetForm(ctx, id)
	if err != nil {
		t.Fatalf("GetForm: %v", err)
	}
	if persisted.Version != 2 {
		t.Fatalf("version after update: %d", persisted.Version)
	}
}

func TestSaveVersionConflict(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	first := builder.New(store)
	first.SetTitle("Shared")
	id, err := first.Save(ctx)
	if err != nil {
		t.Fatalf("seed Save: %v", err)
	}

	stale, err := builder.Load(ctx, store, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Another editor saves first; the loaded draft's stamp goes stale.
	if _, err := first.Save(ctx); err != nil {
		t.Fatalf("competing Save: %v", err)
	}

	if _, err := stale.Save(ctx); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	b := builder.New(store)
	b.SetTitle("Round trip")
	b.SetDescription("desc")
	qid := b.Form().Questions[0].ID
	if err := b.SetLabel(qid, "Pick one"); err != nil {
		t.Fatalf("SetLabel: %v", err)
	}
	if err := b.ChangeType(qid, schema.TypeDropdown); err != nil {
		t.Fatalf("ChangeType: %v", err)
	}
	id, err := b.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := builder.Load(ctx, store, id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(b.Form().Questions, loaded.Form().Questions); diff != "" {
		t.Fatalf("questions mismatch (-want +got):\n%s", diff)
	}

	// Loaded option rows remain editable.
	rows, err := loaded.Options(qid)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(rows) != 1 || rows[0].Text != "Option 1" {
		t.Fatalf("loaded option rows: %+v", rows)
	}
}

func TestPreview(t *testing.T) {
	b := builder.New(memory.New())
	widgets, err := b.Preview()
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(widgets) != 1 {
		t.Fatalf("widget count: %d", len(widgets))
	}
	if !widgets[0].Disabled {
		t.Fatal("preview widgets must be disabled")
	}
}

type blockingAdapter struct {
	storage.Adapter
	entered chan struct{}
	release chan struct{}
}

func (a *blockingAdapter) UpsertForm(ctx context.Context, form schema.Form) (string, error) {
	a.entered <- struct{}{}
	<-a.release
	return a.Adapter.UpsertForm(ctx, form)
}

func TestSaveInFlightGuard(t *testing.T) {
	adapter := &blockingAdapter{
		Adapter: memory.New(),
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	b := builder.New(adapter)

	done := make(chan error, 1)
	go func() {
		_, err := b.Save(context.Background())
		done <- err
	}()

	// Wait until the first save is inside the adapter round trip, then the
	// second must be rejected.
	<-adapter.entered
	if _, err := b.Save(context.Background()); !errors.Is(err, builder.ErrSaveInFlight) {
		t.Fatalf("expected ErrSaveInFlight, got %v", err)
	}

	close(adapter.release)
	if err := <-done; err != nil {
		t.Fatalf("blocked Save: %v", err)
	}
}
