// Package portfolio loads the public repository list shown on the portfolio
// page and tracks its loading state.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// Status is the phase of the repository list.
type Status int

const (
	// Idle means no load has been started yet.
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a point-in-time copy of the loader.
type State struct {
	Status       Status
	Repositories []Repository
	Err          string
	Generation   uint64
	UpdatedAt    time.Time
}

// Loader fetches the repository list once per Load and lets a later Reload
// supersede it. Responses from superseded or closed loads are ignored.
type Loader struct {
	lister  Lister
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// LoaderOption is a functional option for configuring a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a custom logger for the loader.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClock sets the time source for state timestamps.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// WithTimeout bounds each fetch. Zero means no bound beyond the lister's own.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.timeout = d
	}
}

// NewLoader creates an idle loader.
func NewLoader(lister Lister, opts ...LoaderOption) (*Loader, error) {
	if lister == nil {
		return nil, errors.New("repository lister is required")
	}

	l := &Loader{
		lister: lister,
		logger: slog.Default(),
		now:    time.Now,
		state:  State{Status: Idle},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Load starts a fetch and returns immediately with the state set to Loading.
// The fetch is detached from ctx's cancellation but keeps its values.
func (l *Loader) Load(ctx context.Context) {
	l.start(ctx)
}

// Reload discards the current state and starts a new fetch. An outstanding
// fetch is cancelled and its response ignored.
func (l *Loader) Reload(ctx context.Context) {
	l.start(ctx)
}

func (l *Loader) start(parent context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	if l.cancel != nil {
		l.cancel()
	}

	l.gen++
	gen := l.gen

	ctx := context.WithoutCancel(parent)
	var cancel context.CancelFunc
	if l.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	done := make(chan struct{})
	l.cancel = cancel
	l.done = done
	l.state = State{Status: Loading, Generation: gen, UpdatedAt: l.now()}

	l.wg.Add(1)
	go l.fetch(ctx, cancel, gen, done)
}

func (l *Loader) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, done chan struct{}) {
	defer l.wg.Done()
	defer close(done)

	repos, err := l.lister.ListRepositories(ctx)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.gen {
		l.logger.Debug("discarding superseded repository list response",
			"generation", gen,
			"current_generation", l.gen,
		)
		return
	}
	l.cancel = nil

	if err != nil {
		l.logger.Error("failed to load repositories", "generation", gen, "error", err)
		l.state = State{Status: Failed, Err: err.Error(), Generation: gen, UpdatedAt: l.now()}
		return
	}

	sorted := slices.Clone(repos)
	SortByUpdated(sorted)

	l.logger.Info("repositories loaded", "generation", gen, "count", len(sorted))
	l.state = State{Status: Loaded, Repositories: sorted, Generation: gen, UpdatedAt: l.now()}
}

// State returns a copy of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := l.state
	s.Repositories = slices.Clone(l.state.Repositories)
	return s
}

// Wait blocks until the current load settles or ctx is done. A Reload while
// waiting extends the wait to the new load.
func (l *Loader) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		if l.closed || l.state.Status != Loading {
			l.mu.Unlock()
			return nil
		}
		done := l.done
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels any outstanding fetch and waits for it to return. Later
// responses and loads are ignored. Safe to call multiple times.
func (l *Loader) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		if l.cancel != nil {
			l.cancel()
			l.cancel = nil
		}
		l.mu.Unlock()

		l.wg.Wait()
	})
}
