package funnel

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"signup-funnel-backend/internal/domain"
	"signup-funnel-backend/pkg/logger"
)

// GenericErrorMessage is the only failure text a submitter ever sees.
const GenericErrorMessage = "Something went wrong. Please try again or contact support if the problem persists."

var (
	// ErrSubmissionInFlight is returned when Submit is called while a previous
	// submission has not resolved yet.
	ErrSubmissionInFlight = errors.New("funnel: submission already in flight")

	// ErrAlreadySucceeded is returned after a successful submission; the
	// session has been handed to the navigator and accepts nothing more.
	ErrAlreadySucceeded = errors.New("funnel: submission already succeeded")
)

// State of a Controller.
type State int32

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeValidationFailed
	OutcomeSpamDetected
	OutcomeNetworkError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeSpamDetected:
		return "spam_detected"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one submit attempt. Errors is set for
// OutcomeValidationFailed, Reason for OutcomeNetworkError.
type Outcome struct {
	Kind   OutcomeKind
	Errors ValidationResult
	Reason string
}

// Submitter sends the signup payload to the endpoint.
type Submitter interface {
	Submit(ctx context.Context, payload *domain.SignupRequest) error
}

// Navigator leaves the form after a successful signup.
type Navigator interface {
	Navigate(url string)
}

// Notifier shows a notice to the person filling the form.
type Notifier interface {
	Notify(message string)
}

// Controller drives a form from Idle through Submitting to Succeeded, or back
// to Idle via Failed. At most one submission is in flight at any time.
type Controller struct {
	validator   *Validator
	submitter   Submitter
	navigator   Navigator
	notifier    Notifier
	redirectURL string

	state        atomic.Int32
	onTransition func(from, to State)
}

// Option configures a Controller.
type Option func(*Controller)

// WithTransitionHook registers fn to observe every state change.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

func NewController(v *Validator, submitter Submitter, navigator Navigator, notifier Notifier, redirectURL string, opts ...Option) *Controller {
	c := &Controller{
		validator:   v,
		submitter:   submitter,
		navigator:   navigator,
		notifier:    notifier,
		redirectURL: redirectURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Submitting reports whether the submit affordance is disabled.
func (c *Controller) Submitting() bool {
	return c.State() == StateSubmitting
}

// Submit runs one explicit submission attempt for form. Failures never
// escape as errors: they come back as an Outcome and leave the controller
// Idle. The error return is reserved for calls the controller refuses.
func (c *Controller) Submit(ctx context.Context, form *SignupForm) (Outcome, error) {
	if err := refusal(c.State()); err != nil {
		return Outcome{}, err
	}

	if result := c.validator.Validate(*form); !result.Valid() {
		return Outcome{Kind: OutcomeValidationFailed, Errors: result}, nil
	}

	// Dropped without feedback so automated senders learn nothing.
	if form.IsSpam() {
		logger.Log.Warn("Spam detected: honeypot field was filled")
		return Outcome{Kind: OutcomeSpamDetected}, nil
	}

	if err := c.begin(); err != nil {
		return Outcome{}, err
	}

	if err := c.submitter.Submit(ctx, form.Payload()); err != nil {
		logger.Log.Error("Signup error", "error", err)
		c.transition(StateSubmitting, StateFailed)
		c.notifier.Notify(GenericErrorMessage)
		c.transition(StateFailed, StateIdle)
		return Outcome{Kind: OutcomeNetworkError, Reason: err.Error()}, nil
	}

	c.transition(StateSubmitting, StateSucceeded)
	c.navigator.Navigate(c.redirectURL)
	return Outcome{Kind: OutcomeSuccess}, nil
}

// begin claims the Idle to Submitting transition. A lost race reports
// whatever the winner left behind.
func (c *Controller) begin() error {
	if c.transition(StateIdle, StateSubmitting) {
		return nil
	}
	if err := refusal(c.State()); err != nil {
		return err
	}
	return ErrSubmissionInFlight
}

func refusal(s State) error {
	switch s {
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSucceeded:
		return ErrAlreadySucceeded
	}
	return nil
}

func (c *Controller) transition(from, to State) bool {
	if !c.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	if c.onTransition != nil {
		c.onTransition(from, to)
	}
	return true
}
