package entity

// VoiceProfile is read-only configuration, one per supported language.
// CandidateVoices is an ordered preference list of synthesizer voice names.
type VoiceProfile struct {
	Locale          string   `json:"locale"`
	SpeechRate      float64  `json:"speech_rate"`
	Pitch           float64  `json:"pitch"`
	CandidateVoices []string `json:"candidate_voices"`
}

// Voice describes a voice the synthesizer can render with.
type Voice struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Locale  string `json:"locale"`
	Natural bool   `json:"natural"`
}
