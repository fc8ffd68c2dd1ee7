package chatService

import (
	"MinelawChatbot/internal/api/chat"
	"MinelawChatbot/internal/chatsession"
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	"MinelawChatbot/pkg/speech"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *speechDomainImpl) Speak(c context.Context, email string, req chat.SpeakRequest) (chat.SpeakResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.SpeakResponse{}, err
	}

	text := req.Text
	if text == "" {
		text = latestBotText(manager.Messages())
	}
	if text == "" {
		return chat.SpeakResponse{}, chat.ErrNothingToSpeak
	}

	language := req.Language
	if language == "" {
		language = manager.Language()
	}

	audio, voice, err := s.speaker.Speak(c, text, language, manager.Muted())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      email,
			"error":      err.Error(),
		}).Error("Speech synthesis failed")
		return chat.SpeakResponse{}, chat.ErrSynthesisFailed
	}

	if audio == nil {
		// muted, or nothing left after stripping
		return chat.SpeakResponse{Voice: voice.Name}, nil
	}

	fileName := fmt.Sprintf("speech-%s-%d.mp3", email, time.Now().UnixNano())
	location, err := s.s3Client.UploadBytes(audio, fileName, "audio/mpeg")
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      email,
			"error":      err.Error(),
		}).Error("Failed to upload synthesized audio")
		return chat.SpeakResponse{}, chat.ErrSynthesisFailed
	}

	s.replaceLastAudio(email, fileName, requestID)

	url, err := s.s3Client.PresignUrl(location)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      email,
			"error":      err.Error(),
		}).Error("Failed to presign audio URL")
		return chat.SpeakResponse{}, chat.ErrSynthesisFailed
	}

	return chat.SpeakResponse{
		AudioURL: url,
		Voice:    voice.Name,
	}, nil
}

// replaceLastAudio remembers the freshly uploaded utterance and removes
// the owner's previous one from S3. Utterances supersede each other, so
// only the latest file is kept per owner.
func (s *speechDomainImpl) replaceLastAudio(email string, fileName string, requestID string) {
	s.audioMu.Lock()
	previous := s.lastAudio[email]
	s.lastAudio[email] = fileName
	s.audioMu.Unlock()

	if previous == "" {
		return
	}

	if err := s.s3Client.DeleteFile(previous); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      email,
			"file":       previous,
			"error":      err.Error(),
		}).Warn("Failed to delete superseded utterance audio")
	}
}

func latestBotText(msgs []entity.ChatMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == entity.MessageTypeBot && !msgs[i].IsError {
			return msgs[i].Text
		}
	}
	return ""
}

// CaptureEvent is one update pushed to a speech capture client.
type CaptureEvent struct {
	Kind       string              `json:"kind"` // partial, answer, failure, stopped
	Transcript string              `json:"transcript,omitempty"`
	Message    *entity.ChatMessage `json:"message,omitempty"`
	Failure    string              `json:"failure,omitempty"`
}

// Capture is one live voice-input session: a recognition stream feeding
// the capture state machine, whose final transcript is submitted to the
// owner's conversation.
type Capture struct {
	adapter *chatsession.Adapter
	stream  speech.IStream

	mu     sync.Mutex
	closed bool
	events chan CaptureEvent

	done      chan struct{}
	closeOnce sync.Once
}

func (s *speechDomainImpl) NewCapture(c context.Context, email string, locale string) (*Capture, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return nil, err
	}

	stream, err := s.recognizer.OpenStream(locale)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"email":  email,
			"locale": locale,
			"error":  err.Error(),
		}).Error("Failed to open recognition stream")
		return nil, chat.ErrSpeechUnavailable
	}

	capture := &Capture{
		stream: stream,
		events: make(chan CaptureEvent, 8),
		done:   make(chan struct{}),
	}

	capture.adapter = chatsession.NewAdapter(chatsession.AdapterConfig{
		Available: true,
		Logger:    s.log,
		Submit: func(transcript string) {
			bot, err := manager.Submit(context.Background(), transcript, true)
			if err != nil {
				capture.push(CaptureEvent{Kind: "failure", Failure: err.Error()})
				return
			}
			capture.push(CaptureEvent{Kind: "answer", Transcript: transcript, Message: &bot})
		},
	})

	if err := capture.adapter.StartCapture(locale); err != nil {
		stream.Close()
		return nil, err
	}

	go capture.readTranscripts()

	return capture, nil
}

func (c *Capture) readTranscripts() {
	for {
		transcript, err := c.stream.ReadTranscript()
		if err != nil {
			select {
			case <-c.done:
			default:
				failure := c.adapter.Fail(chatsession.FailureNetworkError)
				c.push(CaptureEvent{Kind: "failure", Failure: failure.Message()})
			}
			return
		}

		c.adapter.PushPartial(transcript.Text)
		c.push(CaptureEvent{Kind: "partial", Transcript: transcript.Text})

		if transcript.Final {
			c.adapter.StopCapture()
			c.push(CaptureEvent{Kind: "stopped"})
			return
		}
	}
}

// push delivers an event to the client, blocking until it is consumed
// or the capture is closed. Events are never dropped on a slow reader.
func (c *Capture) push(event CaptureEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	select {
	case c.events <- event:
	case <-c.done:
	}
}

func (c *Capture) SendAudio(chunk []byte) error {
	return c.stream.SendAudio(chunk)
}

// Stop finalizes the capture manually. A pending non-empty transcript
// is still submitted. The stopped notification is pushed asynchronously
// so Stop never blocks the caller that will also Close the capture.
func (c *Capture) Stop() {
	c.adapter.StopCapture()
	go c.push(CaptureEvent{Kind: "stopped"})
}

func (c *Capture) Events() <-chan CaptureEvent {
	return c.events
}

// Close ends the capture session. The events channel is closed so a
// consumer ranging over it always terminates.
func (c *Capture) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()

		c.stream.Close()
	})
}
