// Package analytics records visitor interaction events without ever blocking
// or failing the request that produced them.
package analytics

import (
	"log/slog"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// Event names.
const (
	EventPageView          = "page_view"
	EventPortfolioView     = "portfolio_view"
	EventProjectClick      = "project_click"
	EventPricingView       = "pricing_view"
	EventPackageSelected   = "package_selected"
	EventContactFormSubmit = "contact_form_submit"
	EventEmailClick        = "email_click"
	EventPhoneClick        = "phone_click"
	EventHireMeClick       = "hire_me_click"
	EventSocialClick       = "social_click"
	EventResumeView        = "resume_view"
	EventResumeDownload    = "resume_download"
	EventError             = "error_occurred"
	EventPerformance       = "performance_metric"
)

// KnownEvents lists every event name accepted from clients.
var KnownEvents = []string{
	EventPageView,
	EventPortfolioView,
	EventProjectClick,
	EventPricingView,
	EventPackageSelected,
	EventContactFormSubmit,
	EventEmailClick,
	EventPhoneClick,
	EventHireMeClick,
	EventSocialClick,
	EventResumeView,
	EventResumeDownload,
	EventError,
	EventPerformance,
}

// IsKnown reports whether name is one of KnownEvents.
func IsKnown(name string) bool {
	return lo.Contains(KnownEvents, name)
}

// Recorder receives analytics events. Implementations must return promptly.
type Recorder interface {
	RecordEvent(name string, attrs map[string]string)
}

// Event is a recorded interaction.
type Event struct {
	Name  string
	Attrs map[string]string
	At    time.Time
}

// Sink consumes events off the dispatcher's worker goroutine.
type Sink interface {
	Consume(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Consume calls f(e).
func (f SinkFunc) Consume(e Event) { f(e) }

// Nop discards every event.
type Nop struct{}

// RecordEvent does nothing.
func (Nop) RecordEvent(string, map[string]string) {}

// LogSink writes each event as a structured log record.
type LogSink struct {
	Logger *slog.Logger
}

// Consume logs the event at info level.
func (s LogSink) Consume(e Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := make([]any, 0, 2*len(e.Attrs)+4)
	args = append(args, "event", e.Name, "at", e.At)
	keys := lo.Keys(e.Attrs)
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, k, e.Attrs[k])
	}
	logger.Info("analytics event", args...)
}

// DefaultBufferSize is the dispatcher queue length.
const DefaultBufferSize = 256

// Dispatcher queues events and fans them out to sinks on a single worker.
// When the queue is full, events are dropped rather than blocking the caller.
type Dispatcher struct {
	events    chan Event
	sinks     []Sink
	now       func() time.Time
	dropped   atomic.Int64
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewDispatcher starts a dispatcher with the given buffer size and sinks.
// Close must be called to stop the worker goroutine.
func NewDispatcher(bufferSize int, sinks ...Sink) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	d := &Dispatcher{
		events: make(chan Event, bufferSize),
		sinks:  sinks,
		now:    time.Now,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// RecordEvent enqueues an event. It never blocks.
func (d *Dispatcher) RecordEvent(name string, attrs map[string]string) {
	e := Event{Name: name, Attrs: maps.Clone(attrs), At: d.now()}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		return
	}

	select {
	case d.events <- e:
	default:
		d.dropped.Add(1)
	}
}

// Dropped returns how many events were discarded because the queue was full
// or the dispatcher was closed.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for e := range d.events {
		for _, s := range d.sinks {
			d.consume(s, e)
		}
	}
}

func (d *Dispatcher) consume(s Sink, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("analytics sink panicked", "event", e.Name, "panic", r)
		}
	}()
	s.Consume(e)
}

// Close stops accepting events, drains the queue and waits for the worker.
// Safe to call multiple times.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.events)
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Memory keeps every event in order.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// RecordEvent appends the event.
func (m *Memory) RecordEvent(name string, attrs map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{Name: name, Attrs: maps.Clone(attrs), At: time.Now()})
}

// Consume lets Memory act as a dispatcher sink.
func (m *Memory) Consume(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

// Events returns a copy of the recorded events.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}

// Names returns the recorded event names in order.
func (m *Memory) Names() []string {
	return lo.Map(m.Events(), func(e Event, _ int) string {
		return e.Name
	})
}
