// Package contact implements the pricing-package contact form: field state,
// package selection and a single-flight submission lifecycle.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/boswecw/boswell/internal/analytics"
	"github.com/boswecw/boswell/internal/catalog"
)

const (
	// DefaultSuccessMessage confirms a delivered inquiry.
	DefaultSuccessMessage = "Thanks — message received. I'll reply within 24 hours."

	// DefaultSuccessDisplay is how long a success notice stays visible.
	DefaultSuccessDisplay = 4 * time.Second

	// DefaultErrorDisplay is how long a failure notice stays visible.
	DefaultErrorDisplay = 6 * time.Second
)

// ErrFormClosed is returned by Submit when the form was closed while the
// request was outstanding. The response is discarded.
var ErrFormClosed = errors.New("form closed")

// FailureMessage is the retry notice shown after a failed submission.
func FailureMessage(email string) string {
	if email == "" {
		return "Submit failed. Please check your connection and try again."
	}
	return "Submit failed. Please check your connection and try again, or email " + email + "."
}

// Submitter delivers a payload to the intake endpoint.
type Submitter interface {
	Submit(ctx context.Context, p Payload) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, p Payload) error

// Submit calls f(ctx, p).
func (f SubmitterFunc) Submit(ctx context.Context, p Payload) error { return f(ctx, p) }

// Kind is the phase of the submission lifecycle.
type Kind int

const (
	Idle Kind = iota
	Submitting
	Success
	Error
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Submission is the current lifecycle phase with its display message.
type Submission struct {
	Kind    Kind
	Message string
	At      time.Time
}

// State is a point-in-time copy of the form.
type State struct {
	Fields            Fields
	SelectedPackageID string
	Submission        Submission
	Validation        *ValidationError
}

// Form is one visitor's contact form. It is safe for concurrent use; the lock
// is never held across the network call.
type Form struct {
	catalog   *catalog.Catalog
	submitter Submitter
	recorder  analytics.Recorder
	logger    *slog.Logger
	now       func() time.Time

	successMessage string
	failureMessage string
	successDisplay time.Duration
	errorDisplay   time.Duration

	mu         sync.Mutex
	fields     Fields
	selected   string
	submission Submission
	validation *ValidationError
	cancel     context.CancelFunc
	closed     bool
}

// Option configures a Form.
type Option func(*Form)

// WithClock sets the time source used for status timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		f.now = now
	}
}

// WithLogger sets a custom logger for the form.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithMessages overrides the success and failure notices. Empty strings keep
// the defaults.
func WithMessages(success, failure string) Option {
	return func(f *Form) {
		if success != "" {
			f.successMessage = success
		}
		if failure != "" {
			f.failureMessage = failure
		}
	}
}

// WithDisplayDurations sets how long success and failure notices are shown
// before ExpireStatus clears them.
func WithDisplayDurations(success, failure time.Duration) Option {
	return func(f *Form) {
		f.successDisplay = success
		f.errorDisplay = failure
	}
}

// NewForm creates a form preset to the catalog's default package.
// recorder may be nil.
func NewForm(c *catalog.Catalog, submitter Submitter, recorder analytics.Recorder, opts ...Option) (*Form, error) {
	if c == nil {
		return nil, errors.New("catalog is required")
	}
	if submitter == nil {
		return nil, errors.New("submitter is required")
	}
	if recorder == nil {
		recorder = analytics.Nop{}
	}

	f := &Form{
		catalog:        c,
		submitter:      submitter,
		recorder:       recorder,
		logger:         slog.Default(),
		now:            time.Now,
		successMessage: DefaultSuccessMessage,
		failureMessage: FailureMessage(""),
		successDisplay: DefaultSuccessDisplay,
		errorDisplay:   DefaultErrorDisplay,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.resetLocked()
	return f, nil
}

// SelectPackage chooses a package and copies its price, timeline and project
// type into the form.
func (f *Form) SelectPackage(id string) error {
	pkg, ok := f.catalog.Find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPackage, id)
	}

	f.mu.Lock()
	if f.submission.Kind == Submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}
	f.selected = pkg.ID
	f.fields.Budget = pkg.Price
	f.fields.Timeline = pkg.Timeline
	f.fields.ProjectType = pkg.ProjectType
	f.mu.Unlock()

	f.recorder.RecordEvent(analytics.EventPackageSelected, map[string]string{
		"package_name": pkg.Name,
		"action":       "selection",
	})
	return nil
}

// UpdateField sets a field to value. Any string is accepted. Editing clears a
// visible success or failure notice and any validation message.
func (f *Form) UpdateField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.fields.set(name, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	if f.submission.Kind == Success || f.submission.Kind == Error {
		f.submission = Submission{Kind: Idle}
	}
	f.validation = nil
	return nil
}

// Submit validates the form and delivers it. Only one submission may be
// outstanding; concurrent calls get ErrSubmissionInFlight without a request.
//
// Validation failures return *ValidationError and leave the submission Idle.
// Delivery failures move the form to Error and keep every field; success
// moves it to Success and resets it to defaults.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}
	if f.submission.Kind == Submitting {
		f.mu.Unlock()
		return ErrSubmissionInFlight
	}

	if missing := f.missingLocked(); len(missing) > 0 {
		verr := &ValidationError{Fields: missing}
		f.validation = verr
		f.submission = Submission{Kind: Idle}
		f.mu.Unlock()
		return verr
	}

	pkg, ok := f.catalog.Find(f.selected)
	if !ok {
		// selected always comes from the catalog
		pkg = f.catalog.Default()
	}
	payload := BuildPayload(f.fields, pkg)

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.validation = nil
	f.submission = Submission{Kind: Submitting, At: f.now()}
	f.mu.Unlock()

	err := f.submitter.Submit(ctx, payload)
	cancel()

	f.mu.Lock()
	f.cancel = nil
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}

	if err != nil {
		err = classify(err)
		f.submission = Submission{Kind: Error, Message: f.failureMessage, At: f.now()}
		f.mu.Unlock()

		f.logger.Warn("contact submission failed",
			"package_id", payload.SelectedPackageID,
			"error", err,
		)
		return err
	}

	f.resetLocked()
	f.submission = Submission{Kind: Success, Message: f.successMessage, At: f.now()}
	f.mu.Unlock()

	f.logger.Info("contact submission delivered", "package_id", payload.SelectedPackageID)
	f.recorder.RecordEvent(analytics.EventContactFormSubmit, map[string]string{
		"form_type":        FormName,
		"selected_package": pkg.Name,
	})
	return nil
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := State{
		Fields:            f.fields,
		SelectedPackageID: f.selected,
		Submission:        f.submission,
	}
	if f.validation != nil {
		s.Validation = &ValidationError{Fields: append([]string(nil), f.validation.Fields...)}
	}
	return s
}

// Busy reports whether a submission is outstanding.
func (f *Form) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submission.Kind == Submitting
}

// ExpireStatus clears a success or failure notice once its display duration
// has passed. It reports whether the notice was cleared.
func (f *Form) ExpireStatus(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ttl time.Duration
	switch f.submission.Kind {
	case Success:
		ttl = f.successDisplay
	case Error:
		ttl = f.errorDisplay
	default:
		return false
	}

	if now.Sub(f.submission.At) < ttl {
		return false
	}
	f.submission = Submission{Kind: Idle}
	return true
}

// Reset restores the defaults. It fails while a submission is outstanding.
func (f *Form) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submission.Kind == Submitting {
		return ErrSubmissionInFlight
	}
	f.resetLocked()
	f.submission = Submission{Kind: Idle}
	return nil
}

// Close detaches the form. An outstanding request is cancelled and its
// response ignored; later submissions fail with ErrFormClosed.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.cancel != nil {
		f.cancel()
	}
}

func (f *Form) resetLocked() {
	def := f.catalog.Default()
	f.fields = DefaultFields(def)
	f.selected = def.ID
	f.validation = nil
}

func (f *Form) missingLocked() []string {
	var missing []string
	if strings.TrimSpace(f.fields.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(f.fields.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	return missing
}

// classify makes sure cancellation and deadline errors surface as transport
// failures.
func classify(err error) error {
	var reqErr *RequestError
	var trErr *TransportError
	if errors.As(err, &reqErr) || errors.As(err, &trErr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Err: err}
	}
	return err
}
