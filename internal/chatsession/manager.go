package chatsession

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/log"
	"MinelawChatbot/pkg/nlp"
	"MinelawChatbot/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const baseLanguage = "en"

var supportedLanguages = map[string]bool{
	"en": true,
	"hi": true,
	"bn": true,
	"ta": true,
	"te": true,
	"mr": true,
}

var errorMessages = map[string]string{
	"en": "Sorry, I could not process your question right now. Please try again.",
	"hi": "क्षमा करें, मैं अभी आपके प्रश्न का उत्तर नहीं दे सका। कृपया पुनः प्रयास करें।",
	"bn": "দুঃখিত, আমি এই মুহূর্তে আপনার প্রশ্নের উত্তর দিতে পারছি না। অনুগ্রহ করে আবার চেষ্টা করুন।",
	"ta": "மன்னிக்கவும், உங்கள் கேள்வியை இப்போது செயல்படுத்த முடியவில்லை. மீண்டும் முயற்சிக்கவும்.",
	"te": "క్షమించండి, మీ ప్రశ్నను ఇప్పుడు ప్రాసెస్ చేయలేకపోయాను. దయచేసి మళ్లీ ప్రయత్నించండి.",
	"mr": "क्षमस्व, मी सध्या तुमच्या प्रश्नावर प्रक्रिया करू शकलो नाही. कृपया पुन्हा प्रयत्न करा.",
}

// Asker answers a single mining-law question.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Translator converts text between languages, returning the original
// text on failure.
type Translator interface {
	Translate(ctx context.Context, text string, targetLang string, sourceLang string) (string, error)
}

type submitState int

const (
	submitIdle submitState = iota
	submitInFlight
)

// Manager is the single source of truth for one owner's conversation.
// It owns the message sequence, enforces single-flight submission, and
// drives persistence, translation and statistics.
type Manager struct {
	mu          sync.Mutex
	owner       string
	displayName string
	language    string
	theme       string
	muted       bool
	messages    []entity.ChatMessage
	state       submitState

	sessionStart time.Time

	store      Store
	asker      Asker
	translator Translator
	logger     *logrus.Logger
	utils      utils.IUtils
	now        func() time.Time
	askTimeout time.Duration
}

type ManagerConfig struct {
	Owner       string
	DisplayName string
	Store       Store
	Asker       Asker
	Translator  Translator
	Logger      *logrus.Logger
	Utils       utils.IUtils

	// AskTimeout bounds the backend call. Zero means the 30 second
	// default.
	AskTimeout time.Duration

	// Clock overrides time.Now in tests.
	Clock func() time.Time
}

func NewManager(cfg ManagerConfig) *Manager {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	timeout := cfg.AskTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	idGen := cfg.Utils
	if idGen == nil {
		idGen = utils.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLogger()
	}

	return &Manager{
		owner:        cfg.Owner,
		displayName:  cfg.DisplayName,
		language:     baseLanguage,
		store:        cfg.Store,
		asker:        cfg.Asker,
		translator:   cfg.Translator,
		logger:       logger,
		utils:        idGen,
		now:          clock,
		askTimeout:   timeout,
		sessionStart: clock(),
	}
}

// Initialize loads the persisted conversation for the owner. A fresh
// session gets exactly one greeting message, persisted immediately.
func (m *Manager) Initialize(ctx context.Context) error {
	state, err := m.store.LoadState(ctx, m.owner)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if state != nil && len(state.Messages) > 0 {
		m.messages = state.Messages
		if state.DisplayName != "" {
			m.displayName = state.DisplayName
		}
		if state.Theme != "" {
			m.theme = state.Theme
		}
		return nil
	}

	now := m.now()
	greeting := entity.ChatMessage{
		ID:         m.newID(now),
		Type:       entity.MessageTypeBot,
		Text:       fmt.Sprintf("%s, %s! I am your mining law assistant. Ask me anything about mining industry laws, DGMS circulars, and regulations.", salutation(now), m.displayName),
		Timestamp:  now,
		Language:   baseLanguage,
		IsGreeting: true,
	}
	m.messages = []entity.ChatMessage{greeting}
	m.persistLocked(ctx)

	return nil
}

func salutation(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// Submit runs one question through the conversation. The user message
// is appended and persisted before the backend call; the bot message,
// error or not, is appended after the call settles. Backend failures
// never escape as errors: they become an error-flagged bot message.
func (m *Manager) Submit(ctx context.Context, text string, voiceOrigin bool) (entity.ChatMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return entity.ChatMessage{}, ErrEmptyInput
	}

	m.mu.Lock()
	if m.state == submitInFlight {
		m.mu.Unlock()
		return entity.ChatMessage{}, ErrSubmissionInFlight
	}
	m.state = submitInFlight

	now := m.now()
	language := m.language
	userMsg := entity.ChatMessage{
		ID:        m.newID(now),
		Type:      entity.MessageTypeUser,
		Text:      trimmed,
		Timestamp: now,
		Language:  language,
	}
	m.messages = append(m.messages, userMsg)
	m.persistLocked(ctx)
	m.mu.Unlock()

	if err := m.store.SaveQuestion(ctx, m.owner, entity.QuestionRecord{
		Text:      trimmed,
		Timestamp: now,
		Owner:     m.owner,
		Language:  language,
	}); err != nil {
		m.logger.WithFields(logrus.Fields{
			"owner": m.owner,
			"error": err.Error(),
		}).Warn("Failed to record question")
	}

	askCtx, cancel := context.WithTimeout(ctx, m.askTimeout)
	defer cancel()

	answerText, err := m.asker.Ask(askCtx, trimmed)

	botMsg := entity.ChatMessage{
		Type:     entity.MessageTypeBot,
		Language: language,
	}

	if err != nil {
		m.logger.WithFields(logrus.Fields{
			"owner":        m.owner,
			"voice_origin": voiceOrigin,
			"error":        err.Error(),
		}).Error("Backend ask call failed")
		botMsg.Text = errorMessage(language)
		botMsg.IsError = true
	} else {
		display := answerText
		if language != baseLanguage {
			translated, terr := m.translator.Translate(ctx, answerText, language, baseLanguage)
			if terr != nil {
				m.logger.WithFields(logrus.Fields{
					"owner": m.owner,
					"lang":  language,
					"error": terr.Error(),
				}).Warn("Translation failed, using original text")
			}
			display = translated
		}
		botMsg.Text = display
	}

	m.mu.Lock()
	settled := m.now()
	botMsg.ID = m.newID(settled)
	botMsg.Timestamp = settled
	m.messages = append(m.messages, botMsg)
	m.state = submitIdle
	m.persistLocked(ctx)
	m.mu.Unlock()

	return botMsg, nil
}

// ChangeLanguage switches the active language and retranslates the
// latest non-error, non-greeting bot message in place. The message
// count never changes; history is left alone.
func (m *Manager) ChangeLanguage(ctx context.Context, language string) ([]entity.ChatMessage, error) {
	if !supportedLanguages[language] {
		return nil, ErrUnsupportedLanguage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.language = language

	if idx := m.latestTranslatableLocked(); idx >= 0 && m.messages[idx].Language != language {
		src := m.messages[idx]
		translated, err := m.translator.Translate(ctx, src.Text, language, src.Language)
		if err != nil {
			m.logger.WithFields(logrus.Fields{
				"owner": m.owner,
				"lang":  language,
				"error": err.Error(),
			}).Warn("Retranslation failed, keeping original text")
		} else {
			m.messages[idx].Text = translated
			m.messages[idx].Language = language
		}
	}

	m.persistLocked(ctx)
	return m.snapshotLocked(), nil
}

func (m *Manager) latestTranslatableLocked() int {
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if msg.Type == entity.MessageTypeBot && !msg.IsError && !msg.IsGreeting {
			return i
		}
	}
	return -1
}

// Clear empties the conversation. The question store is untouched.
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = nil
	m.persistLocked(ctx)
}

// ExportTranscript renders the conversation as newline-separated
// "timestamp - type: text" records. Bot markup is flattened to plain
// text.
func (m *Manager) ExportTranscript() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		text := msg.Text
		if msg.Type == entity.MessageTypeBot {
			text = nlp.PlainText(text)
		}
		lines = append(lines, fmt.Sprintf("%s - %s: %s", msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Type, text))
	}

	return strings.Join(lines, "\n")
}

// Stats derives session statistics from the message list.
func (m *Manager) Stats() entity.SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := entity.SessionStats{SessionStart: m.sessionStart}
	for _, msg := range m.messages {
		if msg.Type == entity.MessageTypeUser {
			stats.QuestionsAsked++
		}
	}
	if n := len(m.messages); n > 0 {
		stats.LastActive = m.messages[n-1].Timestamp
	}

	return stats
}

// Questions lists the owner's recorded questions, most recent first.
func (m *Manager) Questions(ctx context.Context) ([]entity.QuestionRecord, error) {
	records, err := m.store.ListQuestions(ctx, m.owner)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})

	return records, nil
}

func (m *Manager) Messages() []entity.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) Language() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.language
}

func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Manager) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *Manager) SetTheme(ctx context.Context, theme string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	m.persistLocked(ctx)
}

func (m *Manager) DisplayName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.displayName
}

func (m *Manager) SetDisplayName(ctx context.Context, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.displayName = name
	m.persistLocked(ctx)
}

func (m *Manager) snapshotLocked() []entity.ChatMessage {
	return append([]entity.ChatMessage(nil), m.messages...)
}

func (m *Manager) persistLocked(ctx context.Context) {
	state := &entity.OwnerState{
		DisplayName: m.displayName,
		Theme:       m.theme,
		Messages:    m.messages,
	}
	if err := m.store.SaveState(ctx, m.owner, state); err != nil {
		m.logger.WithFields(logrus.Fields{
			"owner": m.owner,
			"error": err.Error(),
		}).Warn("Failed to persist session state")
	}
}

func (m *Manager) newID(t time.Time) string {
	id, err := m.utils.NewULIDFromTimestamp(t)
	if err != nil {
		return uuid.NewString()
	}
	return id
}

func errorMessage(language string) string {
	if msg, ok := errorMessages[language]; ok {
		return msg
	}
	return errorMessages[baseLanguage]
}

// SupportedLanguage reports whether the conversation can run in the
// given language.
func SupportedLanguage(language string) bool {
	return supportedLanguages[language]
}
