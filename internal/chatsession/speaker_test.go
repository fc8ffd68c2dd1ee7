package chatsession

import (
	"context"
	"testing"

	"MinelawChatbot/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	voices    []entity.Voice
	lastText  string
	lastVoice string
	calls     int
}

func (f *fakeSynth) Voices(ctx context.Context) ([]entity.Voice, error) {
	return f.voices, nil
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, voiceID string, profile entity.VoiceProfile) ([]byte, error) {
	f.calls++
	f.lastText = text
	f.lastVoice = voiceID
	return []byte("mp3"), nil
}

func TestSpeakStripsMarkupAndEmoji(t *testing.T) {
	synth := &fakeSynth{}
	s := NewSpeaker(synth, nil)

	audio, _, err := s.Speak(context.Background(), "**The Mines Act** applies \U0001F600⛏️", "en", false)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3"), audio)
	assert.Equal(t, "The Mines Act applies", synth.lastText)
}

func TestSpeakMutedSuppressesSynthesis(t *testing.T) {
	synth := &fakeSynth{}
	s := NewSpeaker(synth, nil)

	audio, _, err := s.Speak(context.Background(), "anything", "en", true)
	require.NoError(t, err)
	assert.Nil(t, audio)
	assert.Zero(t, synth.calls)
}

func TestSpeakEmptyAfterStrippingIsNoOp(t *testing.T) {
	synth := &fakeSynth{}
	s := NewSpeaker(synth, nil)

	audio, _, err := s.Speak(context.Background(), "\U0001F600 \U0001F62D", "en", false)
	require.NoError(t, err)
	assert.Nil(t, audio)
	assert.Zero(t, synth.calls)
}

func TestChooseVoicePrefersNaturalLocaleMatch(t *testing.T) {
	voices := []entity.Voice{
		{Name: "Generic", ID: "v1", Locale: "en-US", Natural: false},
		{Name: "Neural", ID: "v2", Locale: "en-IN", Natural: true},
		{Name: "Rachel", ID: "v3", Locale: "en-GB", Natural: false},
	}

	voice := ChooseVoice(voices, ProfileFor("en"))
	assert.Equal(t, "Neural", voice.Name)
}

func TestChooseVoiceFallsBackToNamedCandidate(t *testing.T) {
	voices := []entity.Voice{
		{Name: "Other", ID: "v1", Locale: "de-DE", Natural: true},
		{Name: "rachel", ID: "v2", Locale: "", Natural: false},
	}

	voice := ChooseVoice(voices, ProfileFor("en"))
	assert.Equal(t, "rachel", voice.Name)
}

func TestChooseVoiceFallsBackToLocalePrefix(t *testing.T) {
	voices := []entity.Voice{
		{Name: "German", ID: "v1", Locale: "de-DE", Natural: false},
		{Name: "SomeEnglish", ID: "v2", Locale: "en-AU", Natural: false},
	}

	voice := ChooseVoice(voices, ProfileFor("en"))
	assert.Equal(t, "SomeEnglish", voice.Name)
}

func TestChooseVoiceDefaultWhenNothingMatches(t *testing.T) {
	voices := []entity.Voice{
		{Name: "German", ID: "v1", Locale: "de-DE", Natural: true},
	}

	voice := ChooseVoice(voices, ProfileFor("ta"))
	assert.Empty(t, voice.ID)
}

func TestProfileForFallsBackToBaseLanguage(t *testing.T) {
	assert.Equal(t, ProfileFor("en"), ProfileFor("xx"))
	assert.Equal(t, "hi-IN", ProfileFor("hi").Locale)
}
