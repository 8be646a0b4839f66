package form

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/damagelog/internal/domain/models"
)

// API is the remote intake endpoint the form talks to.
type API interface {
	GetSites(ctx context.Context) (models.SitesResponse, error)
	Submit(ctx context.Context, sub models.Submission) (models.SubmissionResult, error)
}

// State is the submission lifecycle of a form.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Form holds the ephemeral state of one data-entry page. Field values are
// exported for rendering; every mutation that carries an invariant goes
// through a method.
type Form struct {
	Site     string
	Pallet   string
	Engineer string
	Sites    SiteSelector
	Rows     *RowList
	Message  Message
	Logo     Logo

	api    API
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

// New returns an idle form with one blank module row.
func New(api API, logger *zap.Logger) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Form{
		Rows:   NewRowList(),
		api:    api,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SubmitDisabled reports whether the submit affordance is locked.
func (f *Form) SubmitDisabled() bool {
	return f.busy()
}

// AddDisabled reports whether the add-row affordance is locked.
func (f *Form) AddDisabled() bool {
	return f.busy()
}

// ShowAddRow reports whether the add-row affordance is visible at all.
func (f *Form) ShowAddRow() bool {
	return f.Rows.CanAdd()
}

// AddRow appends a module row unless the cap is reached or a submission is
// pending.
func (f *Form) AddRow(prefill ...models.ModuleEntry) bool {
	if f.busy() {
		return false
	}
	return f.Rows.Add(prefill...)
}

// RemoveRow removes the row at index i, showing an error when it is the last
// one.
func (f *Form) RemoveRow(i int) error {
	if err := f.Rows.Remove(i); err != nil {
		f.Message.Show(removeErrorText(err), SeverityError)
		return err
	}
	return nil
}

// ClearRows resets the module rows to a single blank row.
func (f *Form) ClearRows() {
	f.Rows.ClearAll()
}

func (f *Form) busy() bool {
	s := f.State()
	return s == StateValidating || s == StateSubmitting
}

func (f *Form) setState(next State) {
	f.mu.Lock()
	prev := f.state
	f.state = next
	f.mu.Unlock()

	f.logger.Debug("form state transition", zap.String("from", string(prev)), zap.String("to", string(next)))
}

func removeErrorText(err error) string {
	if errors.Is(err, ErrMinimumRows) {
		return "At least one module row must remain"
	}
	return "Module row not found"
}
