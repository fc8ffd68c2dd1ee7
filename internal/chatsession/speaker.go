package chatsession

import (
	"context"
	"sync"

	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/nlp"

	"github.com/sirupsen/logrus"
)

// Synthesizer renders text as audio. Implemented by the TTS client;
// tests use fakes.
type Synthesizer interface {
	Voices(ctx context.Context) ([]entity.Voice, error)
	Synthesize(ctx context.Context, text string, voiceID string, profile entity.VoiceProfile) ([]byte, error)
}

// Speaker vocalizes bot messages. At most one utterance is active at a
// time: starting a new one cancels the previous. Muting suppresses
// synthesis without touching capture.
type Speaker struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	voices []entity.Voice

	synth  Synthesizer
	logger *logrus.Logger
}

func NewSpeaker(synth Synthesizer, logger *logrus.Logger) *Speaker {
	return &Speaker{
		synth:  synth,
		logger: logger,
	}
}

// Speak synthesizes text in the given language and returns the audio
// bytes plus the voice used. Markup and emoji are stripped first. When
// muted is set, no synthesis happens and the returned audio is nil.
func (s *Speaker) Speak(ctx context.Context, text string, language string, muted bool) ([]byte, entity.Voice, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	utterCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	clean := nlp.StripEmoji(nlp.PlainText(text))
	if clean == "" || muted {
		return nil, entity.Voice{}, nil
	}

	profile := ProfileFor(language)
	voice := ChooseVoice(s.listVoices(utterCtx), profile)

	audio, err := s.synth.Synthesize(utterCtx, clean, voice.ID, profile)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"lang":  language,
				"voice": voice.Name,
				"error": err.Error(),
			}).Error("Speech synthesis failed")
		}
		return nil, voice, err
	}

	return audio, voice, nil
}

// Stop cancels the in-progress utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Speaker) listVoices(ctx context.Context) []entity.Voice {
	s.mu.Lock()
	cached := s.voices
	s.mu.Unlock()

	if cached != nil {
		return cached
	}

	voices, err := s.synth.Voices(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Failed to list synthesizer voices")
		}
		return nil
	}

	s.mu.Lock()
	s.voices = voices
	s.mu.Unlock()

	return voices
}
