package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"MinelawChatbot/internal/entity"
)

// ISynthesizer turns bot answers into speech. Voices reports what the
// provider can render so callers can pick per-locale candidates.
type ISynthesizer interface {
	Voices(ctx context.Context) ([]entity.Voice, error)
	Synthesize(ctx context.Context, text string, voiceID string, profile entity.VoiceProfile) ([]byte, error)
}

type ttsService struct {
	apiKey         string
	defaultVoiceID string
	httpClient     *http.Client
}

func NewTTSService() ISynthesizer {
	return &ttsService{
		apiKey:         os.Getenv("ELEVENLABS_API_KEY"),
		defaultVoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

type voicesResponse struct {
	Voices []struct {
		VoiceID string `json:"voice_id"`
		Name    string `json:"name"`
		Labels  struct {
			Language string `json:"language"`
		} `json:"labels"`
		Category string `json:"category"`
	} `json:"voices"`
}

func (tts *ttsService) Voices(ctx context.Context) ([]entity.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.elevenlabs.io/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", tts.apiKey)

	resp, err := tts.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error: %s", resp.Status)
	}

	var payload voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	voices := make([]entity.Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		voices = append(voices, entity.Voice{
			Name:    v.Name,
			ID:      v.VoiceID,
			Locale:  v.Labels.Language,
			Natural: v.Category == "premade" || v.Category == "professional",
		})
	}

	return voices, nil
}

func (tts *ttsService) Synthesize(ctx context.Context, text string, voiceID string, profile entity.VoiceProfile) ([]byte, error) {
	if voiceID == "" {
		voiceID = tts.defaultVoiceID
	}
	url := "https://api.elevenlabs.io/v1/text-to-speech/" + voiceID

	requestBody := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]interface{}{
			"stability":         0.5,
			"similarity_boost":  0.8,
			"style":             0.0,
			"use_speaker_boost": true,
			"speed":             profile.SpeechRate,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", tts.apiKey)

	resp, err := tts.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ElevenLabs API error: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
