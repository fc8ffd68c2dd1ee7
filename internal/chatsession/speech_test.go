package chatsession

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitRecorder struct {
	mu      sync.Mutex
	submits []string
}

func (r *submitRecorder) record(transcript string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submits = append(r.submits, transcript)
}

func (r *submitRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.submits...)
}

func newTestAdapter(rec *submitRecorder, window time.Duration) *Adapter {
	return NewAdapter(AdapterConfig{
		Available:     true,
		SilenceWindow: window,
		Submit:        rec.record,
	})
}

func TestStartCaptureUnavailable(t *testing.T) {
	a := NewAdapter(AdapterConfig{Available: false})
	err := a.StartCapture("en-IN")
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
	assert.Equal(t, CaptureIdle, a.State())
}

func TestStartCaptureWhileRecording(t *testing.T) {
	a := newTestAdapter(&submitRecorder{}, time.Minute)
	require.NoError(t, a.StartCapture("en-IN"))
	assert.ErrorIs(t, a.StartCapture("en-IN"), ErrCaptureInProgress)
	a.StopCapture()
}

func TestStartCaptureUnsupportedLocale(t *testing.T) {
	a := newTestAdapter(&submitRecorder{}, time.Minute)

	err := a.StartCapture("fr-FR")
	var failure *CaptureFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureUnsupportedLocale, failure.Code)
	assert.Equal(t, CaptureIdle, a.State())
}

func TestWatchdogAutoStopSubmitsExactlyOnce(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, 20*time.Millisecond)

	require.NoError(t, a.StartCapture("en-IN"))
	a.PushPartial("what is")
	a.PushPartial("what is mining law")

	require.Eventually(t, func() bool {
		return a.State() == CaptureIdle
	}, time.Second, 5*time.Millisecond)

	// a late manual stop must not submit again
	a.StopCapture()

	assert.Equal(t, []string{"what is mining law"}, rec.all())
}

func TestPushPartialRearmsWatchdog(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, 50*time.Millisecond)

	require.NoError(t, a.StartCapture("en-IN"))
	for i := 0; i < 4; i++ {
		time.Sleep(25 * time.Millisecond)
		a.PushPartial("still talking")
		assert.Equal(t, CaptureRecording, a.State())
	}

	require.Eventually(t, func() bool {
		return a.State() == CaptureIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"still talking"}, rec.all())
}

func TestStopCaptureWithEmptyTranscriptDoesNotSubmit(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, time.Minute)

	require.NoError(t, a.StartCapture("en-IN"))
	a.StopCapture()

	assert.Equal(t, CaptureIdle, a.State())
	assert.Empty(t, rec.all())
}

func TestStopCaptureWithWhitespaceTranscriptDoesNotSubmit(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, time.Minute)

	require.NoError(t, a.StartCapture("en-IN"))
	a.PushPartial("   ")
	a.StopCapture()

	assert.Empty(t, rec.all())
}

func TestPushPartialIgnoredWhenIdle(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, time.Minute)

	a.PushPartial("should be dropped")
	assert.Empty(t, a.Transcript())
}

func TestFailReturnsToIdleWithoutSubmitting(t *testing.T) {
	rec := &submitRecorder{}
	a := newTestAdapter(rec, time.Minute)

	require.NoError(t, a.StartCapture("en-IN"))
	a.PushPartial("half a question")

	failure := a.Fail(FailureNetworkError)
	assert.Equal(t, FailureNetworkError, failure.Code)
	assert.Equal(t, CaptureIdle, a.State())
	assert.Empty(t, rec.all())
	assert.Equal(t, failure, a.LastFailure())

	// capture can start again after a failure
	assert.NoError(t, a.StartCapture("en-IN"))
	a.StopCapture()
}

func TestFailureMessagesAreDistinct(t *testing.T) {
	codes := []FailureCode{
		FailurePermissionDenied,
		FailureNoAudioDetected,
		FailureNetworkError,
		FailureUnsupportedLocale,
		FailureUnknown,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		msg := (&CaptureFailure{Code: code}).Message()
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "failure messages must be distinct: %q", msg)
		seen[msg] = true
	}
}
