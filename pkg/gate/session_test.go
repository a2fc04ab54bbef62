package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/gate"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
	"github.com/CodeSapiens-in/formengine/pkg/storage/memory"
)

func seedForm(t *testing.T, store *memory.Store, form schema.Form) string {
	t.Helper()
	id, err := store.UpsertForm(context.Background(), form)
	if err != nil {
		t.Fatalf("seed form: %v", err)
	}
	return id
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func sessionForm() schema.Form {
	form := windowForm()
	form.ID = ""
	form.Questions = []schema.Question{
		{ID: "q_name", Type: schema.TypeShortText, Label: "Name", Required: true},
		{ID: "q_note", Type: schema.TypeLongText, Label: "Note"},
	}
	return form
}

func TestSubmitInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	formID := seedForm(t, store, sessionForm())
	now := opens.Add(time.Hour)

	session, err := gate.OpenSession(ctx, store, store, formID, "resp-1", gate.WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	answersStore := session.Store()
	answersStore.SetText("q_name", "Priya")

	if err := session.Submit(ctx, answersStore); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	first, err := store.GetAnswerSet(ctx, formID, "resp-1")
	if err != nil {
		t.Fatalf("GetAnswerSet: %v", err)
	}
	if first.Status != schema.StatusSubmitted {
		t.Fatalf("status: %s", first.Status)
	}
	if !first.CreatedAt.Equal(now) || !first.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps: created=%v updated=%v", first.CreatedAt, first.UpdatedAt)
	}

	// Second submit updates the same record; identity and CreatedAt survive.
	later := now.Add(30 * time.Minute)
	session2, err := gate.OpenSession(ctx, store, store, formID, "resp-1", gate.WithClock(fixedClock(later)))
	if err != nil {
		t.Fatalf("reopen session: %v", err)
	}
	second := session2.Store()
	if v, _ := second.Value("q_name"); v.Text() != "Priya" {
		t.Fatalf("reopened store lost answers: %v", v)
	}
	second.SetText("q_name", "Priya P.")
	if err := session2.Submit(ctx, second); err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	updated, err := store.GetAnswerSet(ctx, formID, "resp-1")
	if err != nil {
		t.Fatalf("GetAnswerSet: %v", err)
	}
	if !updated.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt not preserved: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("UpdatedAt not bumped: %v", updated.UpdatedAt)
	}
	if updated.Values["q_name"].Text() != "Priya P." {
		t.Fatalf("values not updated: %v", updated.Values)
	}
}

func TestSubmitIdempotentUnderRepeat(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	formID := seedForm(t, store, sessionForm())
	now := opens.Add(time.Hour)

	session, err := gate.OpenSession(ctx, store, store, formID, "resp-1", gate.WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	answersStore := session.Store()
	answersStore.SetText("q_name", "Priya")

	if err := session.Submit(ctx, answersStore); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if err := session.Submit(ctx, answersStore); err != nil {
		t.Fatalf("repeat Submit: %v", err)
	}

	set, err := store.GetAnswerSet(ctx, formID, "resp-1")
	if err != nil {
		t.Fatalf("GetAnswerSet: %v", err)
	}
	if !set.CreatedAt.Equal(now) {
		t.Fatalf("repeat submit rewrote CreatedAt: %v", set.CreatedAt)
	}
	if !session.Submitted() {
		t.Fatal("session must report submitted")
	}
}

func TestSubmitRequiredFieldBlocksWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	formID := seedForm(t, store, sessionForm())

	session, err := gate.OpenSession(ctx, store, store, formID, "resp-1",
		gate.WithClock(fixedClock(opens.Add(time.Hour))))
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}

	err = session.Submit(ctx, answers.NewStore())
	var schemaErr *schema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if len(schemaErr.Violations) != 1 || schemaErr.Violations[0].QuestionID != "q_name" {
		t.Fatalf("violations: %v", schemaErr.Violations)
	}

	if _, err := store.GetAnswerSet(ctx, formID, "resp-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("blocked submit must not write, got %v", err)
	}
}

func TestSubmitOutsideWindowBlocked(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	formID := seedForm(t, store, sessionForm())

	session, err := gate.OpenSession(ctx, store, store, formID, "resp-1",
		gate.WithClock(fixedClock(closes.Add(time.Hour))))
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	answersStore := session.Store()
	answersStore.SetText("q_name", "late")

	err = session.Submit(ctx, answersStore)
	var gateErr *gate.GateError
	if !errors.As(err, &gateErr) {
		t.Fatalf("expected *GateError, got %v", err)
	}
	if gateErr.State.Kind != gate.LockedPast {
		t.Fatalf("gate kind: %s", gateErr.State.Kind)
	}

	if _, err := store.GetAnswerSet(ctx, formID, "resp-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("locked submit must not write, got %v", err)
	}
}

func TestMemberReadsLeaderRecordAndCannotSubmit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	formID := seedForm(t, store, sessionForm())
	store.SetTeam(formID, "leader-1", "member-1")
	now := opens.Add(time.Hour)

	leaderSession, err := gate.OpenSession(ctx, store, store, formID, "leader-1", gate.WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("leader OpenSession: %v", err)
	}
	leaderStore := leaderSession.Store()
	leaderStore.SetText("q_name", "Team Rocket")
	if err := leaderSession.Submit(ctx, leaderStore); err != nil {
		t.Fatalf("leader Submit: %v", err)
	}

	memberSession, err := gate.OpenSession(ctx, store, store, formID, "member-1", gate.WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("member OpenSession: %v", err)
	}
	if memberSession.Role() != schema.RoleMember {
		t.Fatalf("member role: %s", memberSession.Role())
	}
	if v, _ := memberSession.Store().Value("q_name"); v.Text() != "Team Rocket" {
		t.Fatalf("member must read leader's record, got %v", v)
	}
	if memberSession.State().Kind != gate.LockedRole {
		t.Fatalf("member state: %s", memberSession.State().Kind)
	}

	memberStore := memberSession.Store()
	memberStore.SetText("q_name", "hijack")
	err = memberSession.Submit(ctx, memberStore)
	var gateErr *gate.GateError
	if !errors.As(err, &gateErr) || gateErr.State.Kind != gate.LockedRole {
		t.Fatalf("member submit: %v", err)
	}

	set, err := store.GetAnswerSet(ctx, formID, "leader-1")
	if err != nil {
		t.Fatalf("GetAnswerSet: %v", err)
	}
	if set.Values["q_name"].Text() != "Team Rocket" {
		t.Fatalf("leader record was overwritten: %v", set.Values)
	}
}

func TestOpenSessionMissingForm(t *testing.T) {
	store := memory.New()
	_, err := gate.OpenSession(context.Background(), store, store, "ghost", "resp-1")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
