package inquiry

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/boswecw/boswell/internal/contact"
	"github.com/google/uuid"
)

// archiveTimeout bounds the save after a delivery; the visitor's request may
// already be gone by then.
const archiveTimeout = 5 * time.Second

// Store persists archived inquiries.
type Store interface {
	Save(ctx context.Context, rec Record) error
}

// Archive delivers through next and then keeps a copy in store.
type Archive struct {
	next   contact.Submitter
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive)

// WithLogger sets a custom logger for archive failures.
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) ArchiveOption {
	return func(a *Archive) {
		a.now = now
	}
}

// NewArchive wraps next so delivered inquiries are saved to store.
func NewArchive(next contact.Submitter, store Store, opts ...ArchiveOption) (*Archive, error) {
	if next == nil {
		return nil, errors.New("submitter is required")
	}
	if store == nil {
		return nil, errors.New("inquiry store is required")
	}

	a := &Archive{
		next:   next,
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Submit delivers p and archives it. A failed save is logged and does not
// fail a delivered submission.
func (a *Archive) Submit(ctx context.Context, p contact.Payload) error {
	if err := a.next.Submit(ctx, p); err != nil {
		return err
	}

	rec := NewRecord(uuid.NewString(), p, a.now())

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := a.store.Save(saveCtx, rec); err != nil {
		a.logger.Error("failed to archive inquiry",
			"inquiry_id", rec.ID,
			"package_id", rec.PackageID,
			"error", err,
		)
		return nil
	}

	a.logger.Debug("archived inquiry", "inquiry_id", rec.ID, "package_id", rec.PackageID)
	return nil
}
