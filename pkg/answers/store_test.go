package answers_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

func TestToggleKeepsSelectionOrder(t *testing.T) {
	store := answers.NewStore()
	store.Toggle("q", "red", true)
	store.Toggle("q", "green", true)
	store.Toggle("q", "blue", true)

	store.Toggle("q", "green", false)
	store.Toggle("q", "green", true)

	value, ok := store.Value("q")
	if !ok {
		t.Fatal("value missing after toggles")
	}
	want := []string{"red", "blue", "green"}
	if diff := cmp.Diff(want, value.List()); diff != "" {
		t.Fatalf("selection order mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleOffOnlySelection(t *testing.T) {
	store := answers.NewStore()
	store.Toggle("q", "red", true)
	store.Toggle("q", "red", false)

	value, _ := store.Value("q")
	if !value.Empty() {
		t.Fatalf("expected empty value, got %v", value)
	}
}

func TestSerializeRoundTripKeepsUnknownKeys(t *testing.T) {
	persisted := map[string]schema.Value{
		"q_live":    schema.TextValue("answer"),
		"q_removed": schema.ListValue("stale", "keys"),
	}

	store := answers.NewStoreFromValues(persisted)
	out := store.Serialize()

	if diff := cmp.Diff(persisted, out, cmp.Comparer(func(a, b schema.Value) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	// The restored copy must be independent of the input map.
	persisted["q_live"] = schema.TextValue("mutated")
	value, _ := store.Value("q_live")
	if value.Text() != "answer" {
		t.Fatalf("store aliased its input: %q", value.Text())
	}
}

func requiredForm() schema.Form {
	return schema.Form{
		ID:    "f1",
		Title: "Checks",
		Questions: []schema.Question{
			{ID: "q_name", Type: schema.TypeShortText, Label: "Name", Required: true},
			{ID: "q_mail", Type: schema.TypeEmail, Label: "Email"},
			{ID: "q_site", Type: schema.TypeURL, Label: "Site"},
			{ID: "q_age", Type: schema.TypeNumber, Label: "Age"},
			{ID: "q_day", Type: schema.TypeDate, Label: "Day"},
			{ID: "q_ok", Type: schema.TypeBoolean, Label: "OK"},
			{ID: "q_pick", Type: schema.TypeDropdown, Label: "Pick", Options: []string{"a", "b"}},
			{ID: "q_multi", Type: schema.TypeMultiChoice, Label: "Multi", Options: []string{"x", "y"}},
		},
	}
}

func TestValidateAgainstRequired(t *testing.T) {
	store := answers.NewStore()
	store.SetText("q_name", "   ")

	violations := store.ValidateAgainst(requiredForm())
	want := []schema.Violation{{QuestionID: "q_name", Message: "answer is required"}}
	if diff := cmp.Diff(want, violations); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAgainstFormats(t *testing.T) {
	store := answers.NewStore()
	store.SetText("q_name", "ok")
	store.SetText("q_mail", "not-an-email")
	store.SetText("q_site", "not a url")
	store.SetText("q_age", "NaNish")
	store.SetText("q_day", "03/04/2026")
	store.SetText("q_ok", "yes")
	store.SetText("q_pick", "z")
	store.Toggle("q_multi", "nope", true)

	violations := store.ValidateAgainst(requiredForm())

	wantByQuestion := map[string]string{
		"q_mail":  "not a valid email address",
		"q_site":  "not a valid URL",
		"q_age":   "not a number",
		"q_day":   "not a date (YYYY-MM-DD)",
		"q_ok":    `expected "true" or "false"`,
		"q_pick":  `selection "z" is not one of the options`,
		"q_multi": `selection "nope" is not one of the options`,
	}
	if len(violations) != len(wantByQuestion) {
		t.Fatalf("violation count: want %d, got %d (%v)", len(wantByQuestion), len(violations), violations)
	}
	for _, v := range violations {
		if wantByQuestion[v.QuestionID] != v.Message {
			t.Errorf("%s: want %q, got %q", v.QuestionID, wantByQuestion[v.QuestionID], v.Message)
		}
	}
}

func TestValidateAgainstKindMismatch(t *testing.T) {
	store := answers.NewStore()
	store.SetText("q_name", "ok")
	store.Set("q_multi", schema.TextValue("x"))
	store.Set("q_pick", schema.ListValue("a"))

	violations := store.ValidateAgainst(requiredForm())

	messages := map[string]string{}
	for _, v := range violations {
		messages[v.QuestionID] = v.Message
	}
	if messages["q_multi"] != "expected a list of selections" {
		t.Errorf("q_multi: got %q", messages["q_multi"])
	}
	if messages["q_pick"] != "expected a single value" {
		t.Errorf("q_pick: got %q", messages["q_pick"])
	}
}

func TestValidateAgainstAcceptsWellFormed(t *testing.T) {
	store := answers.NewStore()
	store.SetText("q_name", "Priya")
	store.SetText("q_mail", "priya@example.org")
	store.SetText("q_site", "https://example.org")
	store.SetText("q_age", "34")
	store.SetText("q_day", "2026-08-28")
	store.SetText("q_ok", "true")
	store.SetText("q_pick", "a")
	store.Toggle("q_multi", "x", true)

	if violations := store.ValidateAgainst(requiredForm()); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}
