package chatsession

import (
	"strings"

	"MinelawChatbot/internal/entity"
)

var voiceProfiles = map[string]entity.VoiceProfile{
	"en": {
		Locale:          "en-IN",
		SpeechRate:      1.0,
		Pitch:           1.0,
		CandidateVoices: []string{"Rachel", "Daniel", "Antoni"},
	},
	"hi": {
		Locale:          "hi-IN",
		SpeechRate:      0.95,
		Pitch:           1.0,
		CandidateVoices: []string{"Priya", "Kavya"},
	},
	"bn": {
		Locale:          "bn-IN",
		SpeechRate:      0.95,
		Pitch:           1.0,
		CandidateVoices: []string{"Anika"},
	},
	"ta": {
		Locale:          "ta-IN",
		SpeechRate:      0.9,
		Pitch:           1.0,
		CandidateVoices: []string{"Meera"},
	},
	"te": {
		Locale:          "te-IN",
		SpeechRate:      0.9,
		Pitch:           1.0,
		CandidateVoices: []string{"Lakshmi"},
	},
	"mr": {
		Locale:          "mr-IN",
		SpeechRate:      0.95,
		Pitch:           1.0,
		CandidateVoices: []string{"Asha"},
	},
}

// ProfileFor returns the voice profile for a language, falling back to
// the base language profile.
func ProfileFor(language string) entity.VoiceProfile {
	if profile, ok := voiceProfiles[language]; ok {
		return profile
	}
	return voiceProfiles[baseLanguage]
}

// ChooseVoice picks a synthesizer voice by descending preference:
// natural voice for the locale, then a named candidate, then any voice
// whose locale shares the language prefix, then the provider default
// (empty, letting the synthesizer decide).
func ChooseVoice(voices []entity.Voice, profile entity.VoiceProfile) entity.Voice {
	prefix := localePrefix(profile.Locale)

	for _, v := range voices {
		if v.Natural && localeMatches(v.Locale, profile.Locale) {
			return v
		}
	}

	for _, name := range profile.CandidateVoices {
		for _, v := range voices {
			if strings.EqualFold(v.Name, name) {
				return v
			}
		}
	}

	for _, v := range voices {
		if localePrefix(v.Locale) == prefix {
			return v
		}
	}

	return entity.Voice{}
}

func localeMatches(voiceLocale, profileLocale string) bool {
	if voiceLocale == "" {
		return false
	}
	return strings.EqualFold(voiceLocale, profileLocale) ||
		localePrefix(voiceLocale) == localePrefix(profileLocale)
}

func localePrefix(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		return strings.ToLower(locale[:i])
	}
	return strings.ToLower(locale)
}
