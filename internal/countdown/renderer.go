package countdown

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"carecircle/internal/reminders"
)

// State of a renderer view
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
	StateError   State = "error"
)

const (
	EmptyMessage = "No medication reminders set."
	ErrorMessage = "Error loading medications."
)

// Row is one rendered reminder
type Row struct {
	Entry     Entry
	Target    time.Time
	Remaining time.Duration
	Display   string
	Valid     bool
}

// View is the result of one render
type View struct {
	State   State
	Message string
	Err     error
	Rows    []Row
}

// Renderer keeps a countdown per reminder from a single fetched snapshot
type Renderer struct {
	source   Source
	now      func() time.Time
	interval time.Duration
	location *time.Location

	mu      sync.RWMutex
	state   State
	entries []Entry
	err     error
}

type Option func(*Renderer)

func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// WithLocation reads reminder times in loc instead of the clock's own zone.
// It should match the zone the scheduler uses.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.location = loc }
}

// WithInterval changes the one second render period
func WithInterval(d time.Duration) Option {
	return func(r *Renderer) { r.interval = d }
}

func NewRenderer(source Source, opts ...Option) *Renderer {
	r := &Renderer{
		source:   source,
		now:      time.Now,
		interval: time.Second,
		state:    StateLoading,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Activate fetches the reminder list. It is the only call that touches the
// network; calling it again is how a view is refreshed or retried.
func (r *Renderer) Activate(ctx context.Context) error {
	r.mu.Lock()
	r.state = StateLoading
	r.err = nil
	r.mu.Unlock()

	entries, err := r.source.Fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case err != nil:
		r.state = StateError
		r.entries = nil
		r.err = err
	case len(entries) == 0:
		r.state = StateEmpty
		r.entries = nil
	default:
		r.state = StateReady
		r.entries = entries
	}
	return err
}

// State returns the current state
func (r *Renderer) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Render computes the view at now from the last snapshot
func (r *Renderer) Render(now time.Time) View {
	if r.location != nil {
		now = now.In(r.location)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	switch r.state {
	case StateEmpty:
		return View{State: StateEmpty, Message: EmptyMessage}
	case StateError:
		return View{State: StateError, Message: ErrorMessage, Err: r.err}
	case StateLoading:
		return View{State: StateLoading, Message: "Loading..."}
	}

	rows := make([]Row, 0, len(r.entries))
	for _, e := range r.entries {
		tod, err := reminders.ParseTimeOfDay(e.Time)
		if err != nil {
			rows = append(rows, Row{Entry: e, Display: "--:--:--"})
			continue
		}
		target := Target(now, tod)
		left := Remaining(now, target)
		rows = append(rows, Row{
			Entry:     e,
			Target:    target,
			Remaining: left,
			Display:   FormatRemaining(left),
			Valid:     true,
		})
	}
	return View{State: StateReady, Rows: rows}
}

// Run calls onRender immediately and then on every interval until ctx is done.
// It never fetches.
func (r *Renderer) Run(ctx context.Context, onRender func(View)) {
	onRender(r.Render(r.now()))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onRender(r.Render(r.now()))
		}
	}
}

// Print writes the view as a table
func (v View) Print(w io.Writer) error {
	if v.State != StateReady {
		_, err := fmt.Fprintln(w, v.Message)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEDICATION\tDOSAGE\tFREQUENCY\tTIME\tREMAINING\tFOR")
	for _, row := range v.Rows {
		e := row.Entry
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.MedicationName, e.Dosage, e.Frequency, e.Time, row.Display, e.Name)
	}
	return tw.Flush()
}
