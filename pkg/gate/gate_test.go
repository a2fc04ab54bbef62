package gate_test

import (
	"testing"
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/gate"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

var (
	opens  = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	closes = time.Date(2026, 8, 31, 18, 0, 0, 0, time.UTC)
)

func windowForm() schema.Form {
	return schema.Form{
		ID:     "f1",
		Title:  "Windowed",
		OpenAt: &opens, CloseAt: &closes,
		Questions: []schema.Question{
			{ID: "q1", Type: schema.TypeShortText, Label: "Name"},
		},
	}
}

func TestEvaluateWindow(t *testing.T) {
	form := windowForm()

	cases := []struct {
		name string
		now  time.Time
		want gate.Kind
	}{
		{"before open", opens.Add(-time.Minute), gate.LockedFuture},
		{"at open", opens, gate.Open},
		{"inside window", opens.Add(24 * time.Hour), gate.Open},
		{"at close", closes, gate.Open},
		{"after close", closes.Add(time.Minute), gate.LockedPast},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gate.Evaluate(tc.now, form, schema.RoleIndividual); got.Kind != tc.want {
				t.Fatalf("Evaluate: want %s, got %s", tc.want, got.Kind)
			}
		})
	}
}

func TestEvaluateAlwaysOpenIgnoresClose(t *testing.T) {
	form := windowForm()
	form.AlwaysOpen = true

	got := gate.Evaluate(closes.Add(48*time.Hour), form, schema.RoleIndividual)
	if got.Kind != gate.Open {
		t.Fatalf("always-open form locked: %s", got.Kind)
	}
	// Opening still gates.
	got = gate.Evaluate(opens.Add(-time.Minute), form, schema.RoleIndividual)
	if got.Kind != gate.LockedFuture {
		t.Fatalf("always-open must still wait for open_at: %s", got.Kind)
	}
}

func TestEvaluateMissingOpenAtIsOpen(t *testing.T) {
	form := windowForm()
	form.OpenAt = nil

	got := gate.Evaluate(opens.Add(-time.Hour), form, schema.RoleIndividual)
	if got.Kind != gate.Open {
		t.Fatalf("missing open_at must behave as already open: %s", got.Kind)
	}
}

func TestEvaluateMemberLockedRegardlessOfTime(t *testing.T) {
	form := windowForm()

	got := gate.Evaluate(opens.Add(time.Hour), form, schema.RoleMember)
	if got.Kind != gate.LockedRole {
		t.Fatalf("member inside open window: %s", got.Kind)
	}
	if got.Mode() != render.ModeReadOnly {
		t.Fatalf("locked state must map to read-only, got %s", got.Mode())
	}
	if got.Reason() == "" {
		t.Fatal("locked state needs banner copy")
	}
}

func TestEvaluateLeaderTreatedAsWriter(t *testing.T) {
	form := windowForm()
	got := gate.Evaluate(opens.Add(time.Hour), form, schema.RoleLeader)
	if got.Kind != gate.Open {
		t.Fatalf("leader inside open window: %s", got.Kind)
	}
	if got.Mode() != render.ModeEditable {
		t.Fatalf("open state must map to editable, got %s", got.Mode())
	}
}
