package views

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/CodeSapiens-in/formengine/pkg/answers"
	"github.com/CodeSapiens-in/formengine/pkg/gate"
	"github.com/CodeSapiens-in/formengine/pkg/render"
	"github.com/CodeSapiens-in/formengine/pkg/schema"
	"github.com/CodeSapiens-in/formengine/pkg/storage"
)

// SubmissionOption configures a SubmissionView.
type SubmissionOption func(*submissionConfig)

type submissionConfig struct {
	view  []ViewOption
	clock func() time.Time
}

// WithViewOptions forwards common view options.
func WithViewOptions(options ...ViewOption) SubmissionOption {
	return func(cfg *submissionConfig) {
		cfg.view = append(cfg.view, options...)
	}
}

// WithSubmissionClock pins the gate clock, mainly for tests.
func WithSubmissionClock(clock func() time.Time) SubmissionOption {
	return func(cfg *submissionConfig) {
		if clock != nil {
			cfg.clock = clock
		}
	}
}

// SubmissionView is the rendered form bound to the submission gate. The mode
// and banner follow the gate state; submit failures surface as inline errors
// on the next render.
type SubmissionView struct {
	logger  *slog.Logger
	session *gate.Session
	store   *answers.Store

	closed     atomic.Bool
	submitting atomic.Bool

	// errors holds the violation mapping of the last failed submit, consumed
	// by the next Render.
	errors render.ErrorMapping
}

// NewSubmissionView opens a gate session for the respondent and seeds the
// answer store from their record (a member's store shows the leader's
// answers).
func NewSubmissionView(ctx context.Context, adapter storage.Adapter, enrollment gate.Enrollment, formID, respondentID string, options ...SubmissionOption) (*SubmissionView, error) {
	cfg := submissionConfig{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	viewCfg := newViewConfig(cfg.view)

	var sessionOpts []gate.SessionOption
	if cfg.clock != nil {
		sessionOpts = append(sessionOpts, gate.WithClock(cfg.clock))
	}

	session, err := gate.OpenSession(ctx, adapter, enrollment, formID, respondentID, sessionOpts...)
	if err != nil {
		return nil, err
	}

	return &SubmissionView{
		logger:  viewCfg.logger,
		session: session,
		store:   session.Store(),
	}, nil
}

// Form returns the loaded form.
func (v *SubmissionView) Form() schema.Form {
	return v.session.Form()
}

// Store returns the live answer store the rendered widgets edit.
func (v *SubmissionView) Store() *answers.Store {
	return v.store
}

// Mode follows the gate: editable only while the window is open and the
// respondent may write.
func (v *SubmissionView) Mode() render.Mode {
	return v.session.State().Mode()
}

// Banner returns the locked-state message, empty while open.
func (v *SubmissionView) Banner() string {
	return v.session.State().Reason()
}

// Submitting reports whether a submit round trip is pending; the UI disables
// the submit control while true.
func (v *SubmissionView) Submitting() bool {
	return v.submitting.Load()
}

// Render draws the form through the given renderer with the gate-derived
// mode, banner, and any errors left by the last failed submit.
func (v *SubmissionView) Render(ctx context.Context, renderer render.Renderer) ([]byte, error) {
	state := v.session.State()
	opts := render.RenderOptions{
		Mode:   state.Mode(),
		Banner: state.Reason(),
		Errors: errorsToMap(v.errors),
	}
	return renderer.Render(ctx, v.session.Form(), v.store, opts)
}

// Submit pushes the store through the gate session. Violations and gate
// locks become view errors for the next render; adapter failures pass
// through for the UI's retry affordance. Results that land after Close are
// discarded.
func (v *SubmissionView) Submit(ctx context.Context) error {
	if !v.submitting.CompareAndSwap(false, true) {
		return gate.ErrSubmitInFlight
	}
	defer v.submitting.Store(false)

	err := v.session.Submit(ctx, v.store)
	if v.closed.Load() {
		v.logger.InfoContext(ctx, "submit completed after view closed, result discarded", "err", err)
		return nil
	}
	if err == nil {
		v.errors = render.ErrorMapping{}
		return nil
	}

	var schemaErr *schema.SchemaError
	if errors.As(err, &schemaErr) {
		v.errors = render.MapViolations(v.session.Form(), schemaErr.Violations)
		return err
	}

	var gateErr *gate.GateError
	if errors.As(err, &gateErr) {
		// The banner follows the gate state on the next render already; keep
		// the form-level message too so list renderers show it.
		v.errors = render.ErrorMapping{Form: []string{gateErr.State.Reason()}}
		return err
	}

	if errors.Is(err, storage.ErrNotFound) {
		v.logger.WarnContext(ctx, "submit target vanished, treating as no-op", "err", err)
		return nil
	}
	return err
}

// Close unmounts the view. In-flight submits complete but their results are
// discarded.
func (v *SubmissionView) Close() {
	v.closed.Store(true)
}

func errorsToMap(mapping render.ErrorMapping) map[string][]string {
	if len(mapping.Fields) == 0 && len(mapping.Form) == 0 {
		return nil
	}
	out := make(map[string][]string, len(mapping.Fields)+1)
	for id, messages := range mapping.Fields {
		out[id] = messages
	}
	if len(mapping.Form) > 0 {
		out[""] = mapping.Form
	}
	return out
}
