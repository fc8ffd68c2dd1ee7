package chatsession

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CaptureState is the speech capture lifecycle: Idle, Recording while
// audio streams in, Finalizing while the transcript is handed off.
type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureRecording
	CaptureFinalizing
)

func (s CaptureState) String() string {
	switch s {
	case CaptureIdle:
		return "idle"
	case CaptureRecording:
		return "recording"
	case CaptureFinalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// FailureCode classifies capture failures. None of them end the
// session; each maps to its own user-facing message.
type FailureCode int

const (
	FailurePermissionDenied FailureCode = iota
	FailureNoAudioDetected
	FailureNetworkError
	FailureUnsupportedLocale
	FailureUnknown
)

type CaptureFailure struct {
	Code FailureCode
}

func (f *CaptureFailure) Error() string {
	return "speech capture failed: " + f.Message()
}

func (f *CaptureFailure) Message() string {
	switch f.Code {
	case FailurePermissionDenied:
		return "Microphone access was denied. Please allow microphone access and try again."
	case FailureNoAudioDetected:
		return "No speech was detected. Please try speaking again."
	case FailureNetworkError:
		return "Speech recognition is unreachable. Please check your connection."
	case FailureUnsupportedLocale:
		return "Voice input is not available for the selected language."
	default:
		return "Something went wrong with voice input. Please try again."
	}
}

var (
	ErrCapabilityUnavailable = errors.New("chatsession: speech recognition unavailable")
	ErrCaptureInProgress     = errors.New("chatsession: capture already in progress")
)

// Adapter runs the speech capture state machine. Partial transcripts
// replace each other and rearm the silence watchdog; when the watchdog
// fires or capture is stopped manually, a non-empty transcript is
// submitted exactly once.
type Adapter struct {
	mu         sync.Mutex
	state      CaptureState
	transcript string
	submitted  bool
	failure    *CaptureFailure
	locale     string

	watchdog      *time.Timer
	silenceWindow time.Duration

	available bool
	submit    func(transcript string)
	logger    *logrus.Logger
}

type AdapterConfig struct {
	// Available reports whether the platform offers speech
	// recognition at all.
	Available bool

	// SilenceWindow is the inactivity span that auto-stops capture.
	// Zero means the 2 second default.
	SilenceWindow time.Duration

	// Submit receives the final transcript. Called outside the
	// adapter's lock.
	Submit func(transcript string)

	Logger *logrus.Logger
}

func NewAdapter(cfg AdapterConfig) *Adapter {
	window := cfg.SilenceWindow
	if window == 0 {
		window = 2 * time.Second
	}

	return &Adapter{
		state:         CaptureIdle,
		silenceWindow: window,
		available:     cfg.Available,
		submit:        cfg.Submit,
		logger:        cfg.Logger,
	}
}

// StartCapture transitions Idle to Recording, resets the transcript
// buffer and arms the silence watchdog.
func (a *Adapter) StartCapture(locale string) error {
	if !a.available {
		return ErrCapabilityUnavailable
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != CaptureIdle {
		return ErrCaptureInProgress
	}

	if !SupportedLanguage(localePrefix(locale)) {
		return &CaptureFailure{Code: FailureUnsupportedLocale}
	}

	a.state = CaptureRecording
	a.transcript = ""
	a.submitted = false
	a.failure = nil
	a.locale = locale
	a.watchdog = time.AfterFunc(a.silenceWindow, a.onSilence)

	return nil
}

// PushPartial replaces the interim transcript and rearms the watchdog.
// Ignored outside Recording.
func (a *Adapter) PushPartial(transcript string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != CaptureRecording {
		return
	}

	a.transcript = transcript
	a.watchdog.Reset(a.silenceWindow)
}

// StopCapture finalizes the capture manually.
func (a *Adapter) StopCapture() {
	a.finalize()
}

func (a *Adapter) onSilence() {
	a.finalize()
}

func (a *Adapter) finalize() {
	a.mu.Lock()

	if a.state != CaptureRecording {
		a.mu.Unlock()
		return
	}

	a.state = CaptureFinalizing
	if a.watchdog != nil {
		a.watchdog.Stop()
	}

	final := strings.TrimSpace(a.transcript)
	shouldSubmit := final != "" && !a.submitted
	if shouldSubmit {
		a.submitted = true
	}

	a.state = CaptureIdle
	a.mu.Unlock()

	if shouldSubmit && a.submit != nil {
		a.submit(final)
	}
}

// Fail records a capture failure and returns the machine to Idle. The
// transcript is discarded; nothing is submitted.
func (a *Adapter) Fail(code FailureCode) *CaptureFailure {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.watchdog != nil {
		a.watchdog.Stop()
	}

	failure := &CaptureFailure{Code: code}
	a.failure = failure
	a.transcript = ""
	a.state = CaptureIdle

	if a.logger != nil {
		a.logger.WithFields(logrus.Fields{
			"locale":  a.locale,
			"failure": failure.Message(),
		}).Warn("Speech capture failed")
	}

	return failure
}

func (a *Adapter) State() CaptureState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) Transcript() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript
}

func (a *Adapter) LastFailure() *CaptureFailure {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failure
}
