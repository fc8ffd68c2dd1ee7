package chat

import (
	"time"

	"MinelawChatbot/internal/entity"
)

type AskRequest struct {
	Question string `json:"question" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Language string `json:"language" validate:"omitempty,min=2,max=5"`
}

type AskResponse struct {
	Response   string             `json:"response"`
	Translated bool               `json:"translated"`
	IsError    bool               `json:"is_error"`
	Message    entity.ChatMessage `json:"message"`
}

type TranslateRequest struct {
	Text       string `json:"text" validate:"required"`
	TargetLang string `json:"target_lang" validate:"required,min=2,max=5"`
	SourceLang string `json:"source_lang" validate:"omitempty,min=2,max=5"`
}

type TranslateResponse struct {
	TranslatedText string `json:"translated_text"`
}

type SaveChatRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Query    string `json:"query" validate:"required"`
	Response string `json:"response" validate:"required"`
}

type ChatHistoryItem struct {
	ID        string    `json:"id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Email   string            `json:"email"`
	History []ChatHistoryItem `json:"history"`
}

type ChangeLanguageRequest struct {
	Language string `json:"language" validate:"required,min=2,max=5"`
}

type ChangeLanguageResponse struct {
	Language string               `json:"language"`
	Messages []entity.ChatMessage `json:"messages"`
}

type QuestionsResponse struct {
	Questions []entity.QuestionRecord `json:"questions"`
}

type StatsResponse struct {
	QuestionsAsked int       `json:"questions_asked"`
	SessionStart   time.Time `json:"session_start"`
	LastActive     time.Time `json:"last_active"`
}

type TranscriptResponse struct {
	Transcript string `json:"transcript"`
}

type PreferencesRequest struct {
	Muted       *bool   `json:"muted"`
	Language    *string `json:"language" validate:"omitempty,min=2,max=5"`
	Theme       *string `json:"theme" validate:"omitempty,oneof=light dark"`
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
}

type PreferencesResponse struct {
	Muted       bool   `json:"muted"`
	Language    string `json:"language"`
	Theme       string `json:"theme"`
	DisplayName string `json:"display_name"`
}

type SpeakRequest struct {
	Text     string `json:"text"`
	Language string `json:"language" validate:"omitempty,min=2,max=5"`
}

type SpeakResponse struct {
	AudioURL string `json:"audio_url"`
	Voice    string `json:"voice"`
}

type SessionResponse struct {
	Messages []entity.ChatMessage `json:"messages"`
	Language string               `json:"language"`
}
