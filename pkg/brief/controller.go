// Package brief drives the on-demand generated brief for a single topic.
//
// Controller is a value type: every transition returns a new Controller so
// it can live inside a bubbletea model. A generation counter discards
// responses that arrive after the topic changed or a newer request was
// issued; no network call is ever aborted.
package brief

import "context"

// Phase is the lifecycle stage of a brief request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// ErrorKind classifies a failed brief request.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorNetwork
	ErrorRateLimit
	ErrorUpstreamDetail
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNetwork:
		return "network"
	case ErrorRateLimit:
		return "rate_limit"
	case ErrorUpstreamDetail:
		return "upstream"
	default:
		return "none"
	}
}

// Fetcher retrieves a brief for a topic.
type Fetcher interface {
	Brief(ctx context.Context, topic string) (string, error)
}

// State is what the brief panel renders.
type State struct {
	Topic      string
	Phase      Phase
	Text       string
	ErrorKind  ErrorKind
	Message    string
	Generation uint64
}

// Request identifies an issued fetch. The caller performs it and hands the
// outcome back through Apply.
type Request struct {
	Topic      string
	Generation uint64
}

// Result is the outcome of a Request.
type Result struct {
	Request Request
	Text    string
	Err     error
}

// Controller owns the brief state for whichever topic is selected.
type Controller struct {
	state  State
	closed bool
}

// New returns an idle controller with no topic.
func New() Controller {
	return Controller{}
}

// State returns the current state.
func (c Controller) State() State {
	return c.state
}

// Topic returns the selected topic, or "".
func (c Controller) Topic() string {
	return c.state.Topic
}

// Closed reports whether the bearing view has been unmounted.
func (c Controller) Closed() bool {
	return c.closed
}

// Select switches to topic and resets to Idle. It never issues a request.
// Re-selecting the current topic also resets, dropping any in-flight result.
func (c Controller) Select(topic string) Controller {
	c.state = State{
		Topic:      topic,
		Phase:      PhaseIdle,
		Generation: c.state.Generation + 1,
	}
	c.closed = false
	return c
}

// Trigger starts a request for the selected topic. It reports false and
// leaves the controller unchanged when no topic is selected or the
// controller is closed.
func (c Controller) Trigger() (Controller, Request, bool) {
	if c.state.Topic == "" || c.closed {
		return c, Request{}, false
	}
	c.state.Generation++
	c.state.Phase = PhaseLoading
	c.state.Text = ""
	c.state.ErrorKind = ErrorNone
	c.state.Message = ""
	return c, Request{Topic: c.state.Topic, Generation: c.state.Generation}, true
}

// Apply folds a result into the state. Stale results, those from an older
// generation or arriving after Close, are ignored and reported as false.
func (c Controller) Apply(r Result) (Controller, bool) {
	if c.closed || r.Request.Generation != c.state.Generation || c.state.Phase != PhaseLoading {
		return c, false
	}
	if r.Err != nil {
		kind, msg := Classify(r.Err)
		c.state.Phase = PhaseError
		c.state.ErrorKind = kind
		c.state.Message = msg
		c.state.Text = ""
		return c, true
	}
	c.state.Phase = PhaseSuccess
	c.state.Text = r.Text
	c.state.ErrorKind = ErrorNone
	c.state.Message = ""
	return c, true
}

// Close marks the bearing view as gone. Results arriving afterwards are
// discarded. A later Select reopens the controller.
func (c Controller) Close() Controller {
	c.closed = true
	c.state.Generation++
	if c.state.Phase == PhaseLoading {
		c.state.Phase = PhaseIdle
	}
	return c
}

// Run performs req against f, returning a Result for Apply.
func Run(ctx context.Context, f Fetcher, req Request) Result {
	text, err := f.Brief(ctx, req.Topic)
	return Result{Request: req, Text: text, Err: err}
}

// FetchOnce selects topic, issues one request against f and applies its
// result. The returned state is PhaseSuccess or PhaseError, or PhaseIdle
// when topic is empty.
func FetchOnce(ctx context.Context, f Fetcher, topic string) State {
	c, req, ok := New().Select(topic).Trigger()
	if !ok {
		return c.State()
	}
	c, _ = c.Apply(Run(ctx, f, req))
	return c.State()
}
