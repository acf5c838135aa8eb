// Package submission mediates between a user asking for a URL to be
// analyzed and the host's navigation primitive. It locks out overlapping
// submissions and guarantees the busy state is always left again, either
// when the host reports a new location or when a recovery deadline passes.
package submission

import (
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
)

// QueryParam is the landing-view query parameter carrying the URL to analyze.
const QueryParam = "url"

const (
	// DefaultRefreshTimeout bounds the busy state after a same-target refresh,
	// which never produces a new location to observe.
	DefaultRefreshTimeout = 2 * time.Second
	// DefaultNavigateTimeout bounds the busy state after a navigation that
	// fails or is slow to land.
	DefaultNavigateTimeout = 5 * time.Second
)

// Phase is the submission state machine's mode.
type Phase int

const (
	// Idle accepts a new submission.
	Idle Phase = iota
	// Submitting locks the trigger until completion is observed or recovery fires.
	Submitting
)

func (p Phase) String() string {
	if p == Submitting {
		return "submitting"
	}
	return "idle"
}

// Action is what Submit asked the host to do.
type Action int

const (
	// NoAction means the submission was ignored.
	NoAction Action = iota
	// Refreshed means the current view was re-rendered in place.
	Refreshed
	// Navigated means the host was sent to a new address.
	Navigated
)

func (a Action) String() string {
	switch a {
	case Refreshed:
		return "refresh"
	case Navigated:
		return "navigate"
	default:
		return "none"
	}
}

// Navigator is the host's navigation primitive. Either call may observe the
// new location synchronously and call Controller.Observe before returning.
type Navigator interface {
	// Refresh re-runs the current view's server-side fetch without changing
	// the address.
	Refresh()
	// Navigate moves to target, a landing-view address built by Target.
	Navigate(target string)
}

// Query is the ambient query state the host reflects. Revision increases
// with every location change so that a late report of an old location can be
// told apart from a new one. URL is empty when the parameter is absent.
type Query struct {
	Revision uint64
	URL      string
}

// State is a snapshot of a controller.
type State struct {
	Phase            Phase
	Value            string    // the candidate URL shown in the form
	PendingURL       string    // the trimmed URL being submitted, empty when Idle
	RecoveryDeadline time.Time // zero when no recovery timer is armed
}

// Target returns the landing-view address that encodes candidate.
func Target(candidate string) string {
	return "/?" + url.Values{QueryParam: {candidate}}.Encode()
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithTimeouts replaces the recovery windows for refresh and navigation.
func WithTimeouts(refresh, navigate time.Duration) Option {
	return func(c *Controller) {
		c.refreshTimeout = refresh
		c.navigateTimeout = navigate
	}
}

// WithLogger attaches a logger. Recovery is logged at DEBUG only.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithOnChange registers fn to receive a snapshot after every state change.
// fn runs without the controller's lock held and may be called from the
// recovery timer's goroutine.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// Controller is owned by one form. It is safe for concurrent use; the
// recovery callback runs on its own goroutine.
type Controller struct {
	nav             Navigator
	clock           Clock
	logger          *slog.Logger
	onChange        func(State)
	refreshTimeout  time.Duration
	navigateTimeout time.Duration

	mu       sync.Mutex
	phase    Phase
	value    string
	pending  string
	deadline time.Time
	query    Query
	timer    Timer
	cycle    uint64 // bumped whenever the armed timer becomes obsolete
	closed   bool
}

// New returns an Idle controller whose form shows the URL in initial.
func New(nav Navigator, initial Query, opts ...Option) *Controller {
	c := &Controller{
		nav:             nav,
		clock:           realClock{},
		logger:          slog.New(slog.DiscardHandler),
		refreshTimeout:  DefaultRefreshTimeout,
		navigateTimeout: DefaultNavigateTimeout,
		value:           initial.URL,
		query:           initial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit asks for candidate to be analyzed. It does nothing when candidate is
// blank, a submission is already in flight, or the controller is closed.
// Re-submitting the URL already reflected in the query state refreshes the
// view; any other URL navigates. The phase is Submitting and the recovery
// timer armed before the host is called.
func (c *Controller) Submit(candidate string) Action {
	trimmed := strings.TrimSpace(candidate)

	c.mu.Lock()
	if c.closed || trimmed == "" || c.phase == Submitting {
		c.mu.Unlock()
		return NoAction
	}

	action, timeout := Navigated, c.navigateTimeout
	if trimmed == c.query.URL {
		action, timeout = Refreshed, c.refreshTimeout
	}

	c.phase = Submitting
	c.value = candidate
	c.pending = trimmed
	c.armLocked(timeout)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("submission started", "action", action.String(), "url", trimmed, "recovery_in", timeout.String())
	c.notify(snap)

	switch action {
	case Refreshed:
		c.nav.Refresh()
	case Navigated:
		c.nav.Navigate(Target(trimmed))
	}
	return action
}

// Observe reports a change of the ambient query state. A query whose
// revision is not newer than the last one seen is stale and ignored.
// Otherwise the recovery timer is cancelled, the phase returns to Idle and
// the form value is resynchronized from q (empty when the parameter is
// absent). It reports whether q was applied.
func (c *Controller) Observe(q Query) bool {
	c.mu.Lock()
	if c.closed || q.Revision <= c.query.Revision {
		c.mu.Unlock()
		return false
	}

	c.query = q
	c.disarmLocked()
	c.phase = Idle
	c.pending = ""
	c.value = q.URL
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return true
}

// SetValue records what the user typed. Input is ignored while Submitting.
func (c *Controller) SetValue(v string) {
	c.mu.Lock()
	if c.closed || c.phase == Submitting {
		c.mu.Unlock()
		return
	}
	c.value = v
	c.mu.Unlock()
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Query returns the last applied query state.
func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Close cancels any pending recovery timer. After Close no callback fires
// and Submit, Observe and SetValue do nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.disarmLocked()
}

// armLocked replaces any pending timer with one firing after d.
func (c *Controller) armLocked(d time.Duration) {
	c.disarmLocked()
	cycle := c.cycle
	c.deadline = c.clock.Now().Add(d)
	c.timer = c.clock.AfterFunc(d, func() { c.recover(cycle) })
}

func (c *Controller) disarmLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cycle++
	c.deadline = time.Time{}
}

// recover forces Idle when the deadline of the given cycle passes. A callback
// from an older cycle lost a race with Observe, Close or a newer Submit and
// does nothing.
func (c *Controller) recover(cycle uint64) {
	c.mu.Lock()
	if c.closed || cycle != c.cycle {
		c.mu.Unlock()
		return
	}

	pending := c.pending
	c.timer = nil
	c.deadline = time.Time{}
	c.phase = Idle
	c.pending = ""
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.Debug("submission recovered by timeout", "url", pending)
	c.notify(snap)
}

func (c *Controller) snapshotLocked() State {
	return State{
		Phase:            c.phase,
		Value:            c.value,
		PendingURL:       c.pending,
		RecoveryDeadline: c.deadline,
	}
}

func (c *Controller) notify(s State) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
