// Package subscription validates and submits sign-ups for the weekly
// proverb email.
package subscription

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"sync"

	"github.com/agentstation/proverbs/pkg/api"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/notifier"
)

// Messages shown to the user.
const (
	MsgNameRequired = "Name is required"
	MsgInvalidEmail = "Please enter a valid email address"
	MsgSubscribed   = "You've been subscribed to weekly Yoruba proverbs!"
	MsgFailed       = "Failed to subscribe. Please try again."
)

// ErrAlreadySubscribed is returned by Submit after a success until Reset.
var ErrAlreadySubscribed = errors.New("subscription already confirmed; reset to subscribe another email")

// Validate checks a name and email pair. It returns nil when both are valid.
func Validate(name, email string) errors.FieldErrors {
	fe := errors.FieldErrors{}
	if strings.TrimSpace(name) == "" {
		fe["name"] = MsgNameRequired
	}
	if !validEmail(email) {
		fe["email"] = MsgInvalidEmail
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// validEmail accepts a bare addr-spec with a dotted domain.
func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// Submitter sends a subscription to the API.
type Submitter interface {
	Subscribe(ctx context.Context, sub api.Subscription) (api.SubscribeResponse, error)
}

// Status is the form's lifecycle state.
type Status int

const (
	// Idle accepts input.
	Idle Status = iota
	// Submitting has a request in flight.
	Submitting
	// Failed holds the last error; the form accepts input again.
	Failed
	// Succeeded is kept until Reset.
	Succeeded
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// State is a snapshot of the form.
type State struct {
	Status      Status
	FieldErrors errors.FieldErrors
	// Message is the last user-facing result.
	Message string
	Err     error
}

// Form submits subscriptions and keeps the resulting state.
type Form struct {
	submitter Submitter
	notifier  notifier.Notifier

	mu    sync.Mutex
	state State
}

// NewForm creates a form that submits through s.
func NewForm(s Submitter, n notifier.Notifier) *Form {
	if n == nil {
		n = notifier.Discard
	}
	return &Form{submitter: s, notifier: n}
}

// State returns the current snapshot.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.state
	if st.FieldErrors != nil {
		fe := make(errors.FieldErrors, len(st.FieldErrors))
		for k, v := range st.FieldErrors {
			fe[k] = v
		}
		st.FieldErrors = fe
	}
	return st
}

// Reset leaves the success state so another address can be subscribed.
func (f *Form) Reset() {
	f.mu.Lock()
	f.state = State{}
	f.mu.Unlock()
}

// Submit validates the input locally and, when valid, posts it. Field
// errors from either side are returned as errors.FieldErrors.
func (f *Form) Submit(ctx context.Context, name, email string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	ctx = logging.WithOperation(ctx, "subscribe")

	f.mu.Lock()
	switch f.state.Status {
	case Succeeded:
		f.mu.Unlock()
		return ErrAlreadySubscribed
	case Submitting:
		f.mu.Unlock()
		return errors.NewValidationError("", nil, "a subscription is already being submitted")
	}
	if fe := Validate(name, email); fe != nil {
		f.state = State{Status: Idle, FieldErrors: fe}
		f.mu.Unlock()
		return fe
	}
	f.state = State{Status: Submitting}
	f.mu.Unlock()

	_, err := f.submitter.Subscribe(ctx, api.Subscription{Email: email, Name: name})
	if err != nil {
		msg, fe := describe(err)
		f.mu.Lock()
		f.state = State{Status: Failed, FieldErrors: fe, Message: msg, Err: err}
		f.mu.Unlock()

		logging.FromContext(ctx).Warn().Err(err).Msg("Subscription failed")
		f.notifier.Notify(notifier.LevelError, msg)
		if fe != nil {
			return fe
		}
		return err
	}

	f.mu.Lock()
	f.state = State{Status: Succeeded, Message: MsgSubscribed}
	f.mu.Unlock()

	f.notifier.Notify(notifier.LevelSuccess, MsgSubscribed)
	return nil
}

// describe picks the message to show for a failed request: the server's
// error text when it sent one, else a generic retry hint.
func describe(err error) (string, errors.FieldErrors) {
	var apiErr *errors.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode == 0 {
		return MsgFailed, nil
	}
	var fe errors.FieldErrors
	if len(apiErr.Details) > 0 {
		fe = apiErr.Details
	}
	if apiErr.Message != "" && apiErr.Message != http.StatusText(apiErr.StatusCode) {
		return apiErr.Message, fe
	}
	return MsgFailed, fe
}
