package entity

import "time"

type MessageType string

const (
	MessageTypeUser MessageType = "user"
	MessageTypeBot  MessageType = "bot"
)

// ChatMessage is immutable once appended; the only in-place mutation the
// session manager performs is the language-driven retranslation of the most
// recent eligible bot message.
type ChatMessage struct {
	ID         string      `json:"id"`
	Type       MessageType `json:"type"`
	Text       string      `json:"text"`
	Timestamp  time.Time   `json:"timestamp"`
	Language   string      `json:"language"`
	IsGreeting bool        `json:"is_greeting,omitempty"`
	IsError    bool        `json:"is_error,omitempty"`
}

// QuestionRecord uniqueness is case-insensitive on Text within one owner;
// a later record with the same content key supersedes the earlier one.
type QuestionRecord struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Owner     string    `json:"owner"`
	Language  string    `json:"language"`
}

// SessionStats is derived state, recomputed from the message list on demand.
type SessionStats struct {
	QuestionsAsked int       `json:"questions_asked"`
	SessionStart   time.Time `json:"session_start"`
	LastActive     time.Time `json:"last_active"`
}

// OwnerState is everything the manager persists per owner identifier.
type OwnerState struct {
	DisplayName string        `json:"display_name"`
	Theme       string        `json:"theme,omitempty"`
	Messages    []ChatMessage `json:"messages"`
}

type ChatHistory struct {
	ID        string    `db:"id"`
	UserEmail string    `db:"user_email"`
	Query     string    `db:"query"`
	Response  string    `db:"response"`
	CreatedAt time.Time `db:"created_at"`
}
