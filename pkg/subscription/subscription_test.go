package subscription_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/api"
	pkgerrors "github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/subscription"
)

type fakeSubmitter struct {
	err   error
	calls []api.Subscription
}

func (f *fakeSubmitter) Subscribe(_ context.Context, sub api.Subscription) (api.SubscribeResponse, error) {
	f.calls = append(f.calls, sub)
	if f.err != nil {
		return api.SubscribeResponse{}, f.err
	}
	return api.SubscribeResponse{Message: "ok"}, nil
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		person string
		email  string
		want   pkgerrors.FieldErrors
	}{
		{name: "valid", person: "Adé", email: "ade@example.com"},
		{name: "missing name", person: "  ", email: "ade@example.com", want: pkgerrors.FieldErrors{"name": "Name is required"}},
		{name: "bad email", person: "Adé", email: "ade@", want: pkgerrors.FieldErrors{"email": "Please enter a valid email address"}},
		{name: "display name form", person: "Adé", email: "Adé <ade@example.com>", want: pkgerrors.FieldErrors{"email": "Please enter a valid email address"}},
		{name: "no dot in domain", person: "Adé", email: "ade@localhost", want: pkgerrors.FieldErrors{"email": "Please enter a valid email address"}},
		{name: "both", person: "", email: "", want: pkgerrors.FieldErrors{
			"name":  "Name is required",
			"email": "Please enter a valid email address",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subscription.Validate(tt.person, tt.email))
		})
	}
}

func TestSubmitInvalidMakesNoRequest(t *testing.T) {
	sub := &fakeSubmitter{}
	form := subscription.NewForm(sub, nil)

	err := form.Submit(context.Background(), "", "nope")
	var fe pkgerrors.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe, 2)
	assert.Empty(t, sub.calls)
	assert.Equal(t, subscription.Idle, form.State().Status)
}

func TestSubmitSuccess(t *testing.T) {
	sub := &fakeSubmitter{}
	rec := &notifier.Recorder{}
	form := subscription.NewForm(sub, rec)
	ctx := context.Background()

	require.NoError(t, form.Submit(ctx, " Adé ", " ade@example.com "))
	require.Len(t, sub.calls, 1)
	assert.Equal(t, api.Subscription{Email: "ade@example.com", Name: "Adé"}, sub.calls[0])

	st := form.State()
	assert.Equal(t, subscription.Succeeded, st.Status)
	assert.Empty(t, st.FieldErrors)
	assert.Equal(t, []notifier.Notice{{Level: notifier.LevelSuccess, Message: "You've been subscribed to weekly Yoruba proverbs!"}}, rec.Notices())

	// The success state holds until reset.
	assert.ErrorIs(t, form.Submit(ctx, "Bọ́lá", "bola@example.com"), subscription.ErrAlreadySubscribed)
	assert.Len(t, sub.calls, 1)

	form.Reset()
	assert.Equal(t, subscription.Idle, form.State().Status)
	require.NoError(t, form.Submit(ctx, "Bọ́lá", "bola@example.com"))
	assert.Len(t, sub.calls, 2)
}

func TestSubmitServerFieldErrors(t *testing.T) {
	apiErr := pkgerrors.NewAPIError("/subscribe", 400, "Validation failed")
	apiErr.Details = pkgerrors.FieldErrors{"email": "Already subscribed"}
	rec := &notifier.Recorder{}
	form := subscription.NewForm(&fakeSubmitter{err: apiErr}, rec)

	err := form.Submit(context.Background(), "Adé", "ade@example.com")
	var fe pkgerrors.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Already subscribed", fe["email"])

	st := form.State()
	assert.Equal(t, subscription.Failed, st.Status)
	assert.Equal(t, "Validation failed", st.Message)
	last, _ := rec.Last()
	assert.Equal(t, notifier.Notice{Level: notifier.LevelError, Message: "Validation failed"}, last)
}

func TestSubmitGenericFailure(t *testing.T) {
	for name, err := range map[string]error{
		"network":     errors.New("connection refused"),
		"bare status": pkgerrors.NewAPIError("/subscribe", 500, "Internal Server Error"),
	} {
		t.Run(name, func(t *testing.T) {
			rec := &notifier.Recorder{}
			form := subscription.NewForm(&fakeSubmitter{err: err}, rec)

			require.Error(t, form.Submit(context.Background(), "Adé", "ade@example.com"))
			st := form.State()
			assert.Equal(t, subscription.Failed, st.Status)
			assert.Equal(t, "Failed to subscribe. Please try again.", st.Message)

			// A failed form accepts another attempt.
			assert.NotErrorIs(t, form.Submit(context.Background(), "Adé", "ade@example.com"), subscription.ErrAlreadySubscribed)
		})
	}
}

func TestNotifierCanReadState(t *testing.T) {
	for name, submitErr := range map[string]error{
		"success": nil,
		"failure": errors.New("connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			var form *subscription.Form
			var seen []subscription.Status
			form = subscription.NewForm(&fakeSubmitter{err: submitErr}, notifier.Func(func(notifier.Level, string) {
				seen = append(seen, form.State().Status)
			}))

			done := make(chan struct{})
			go func() {
				defer close(done)
				_ = form.Submit(context.Background(), "Adé", "ade@example.com")
			}()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("submit did not return while the notifier read the form state")
			}
			require.Len(t, seen, 1)
			assert.NotEqual(t, subscription.Submitting, seen[0])
		})
	}
}
