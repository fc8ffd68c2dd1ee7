package chatService

import (
	"MinelawChatbot/internal/api/chat"
	chatRepository "MinelawChatbot/internal/api/chat/repository"
	authRepository "MinelawChatbot/internal/api/auth/repository"
	"MinelawChatbot/internal/chatsession"
	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/s3"
	"MinelawChatbot/pkg/speech"
	"MinelawChatbot/pkg/utils"
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

type ChatService interface {
	Session() SessionDomain
	History() HistoryDomain
	Speech() SpeechDomain
}

type SessionDomain interface {
	Ask(c context.Context, req chat.AskRequest) (chat.AskResponse, error)
	Translate(c context.Context, req chat.TranslateRequest) (chat.TranslateResponse, error)
	ChangeLanguage(c context.Context, email string, language string) (chat.ChangeLanguageResponse, error)
	Clear(c context.Context, email string) error
	Transcript(c context.Context, email string) (chat.TranscriptResponse, error)
	Stats(c context.Context, email string) (chat.StatsResponse, error)
	Questions(c context.Context, email string) (chat.QuestionsResponse, error)
	Messages(c context.Context, email string) (chat.SessionResponse, error)
	GetPreferences(c context.Context, email string) (chat.PreferencesResponse, error)
	UpdatePreferences(c context.Context, email string, req chat.PreferencesRequest) (chat.PreferencesResponse, error)
}

type HistoryDomain interface {
	SaveChat(c context.Context, req chat.SaveChatRequest) error
	GetHistory(c context.Context, email string) (chat.ChatHistoryResponse, error)
}

type SpeechDomain interface {
	Speak(c context.Context, email string, req chat.SpeakRequest) (chat.SpeakResponse, error)
	NewCapture(c context.Context, email string, locale string) (*Capture, error)
}

type chatServiceImpl struct {
	log *logrus.Logger

	sessionDomain SessionDomain
	historyDomain HistoryDomain
	speechDomain  SpeechDomain
}

func (s *chatServiceImpl) Session() SessionDomain {
	return s.sessionDomain
}

func (s *chatServiceImpl) History() HistoryDomain {
	return s.historyDomain
}

func (s *chatServiceImpl) Speech() SpeechDomain {
	return s.speechDomain
}

// sessionRegistry holds one live manager per owner email.
type sessionRegistry struct {
	mu       sync.Mutex
	managers map[string]*chatsession.Manager

	store      chatsession.Store
	asker      chatsession.Asker
	translator chatsession.Translator
	authRepo   authRepository.Repository
	log        *logrus.Logger
	utils      utils.IUtils
}

func (r *sessionRegistry) get(ctx context.Context, email string) (*chatsession.Manager, error) {
	r.mu.Lock()
	if m, ok := r.managers[email]; ok {
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()

	displayName := r.displayName(ctx, email)

	m := chatsession.NewManager(chatsession.ManagerConfig{
		Owner:       email,
		DisplayName: displayName,
		Store:       r.store,
		Asker:       r.asker,
		Translator:  r.translator,
		Logger:      r.log,
		Utils:       r.utils,
	})
	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.managers[email]; ok {
		return existing, nil
	}
	r.managers[email] = m
	return m, nil
}

func (r *sessionRegistry) displayName(ctx context.Context, email string) string {
	repo, err := r.authRepo.NewClient(false)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Warn("Failed to create auth repository client for display name")
		return email
	}

	company, err := repo.Companies.GetByEmail(ctx, email)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Warn("Failed to resolve display name, using email")
		return email
	}

	return company.CompanyName
}

func (r *sessionRegistry) drop(email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, email)
}

type sessionDomainImpl struct {
	log        *logrus.Logger
	registry   *sessionRegistry
	translator chatsession.Translator
	history    HistoryDomain
}

type historyDomainImpl struct {
	log   *logrus.Logger
	repo  chatRepository.Repository
	utils utils.IUtils
}

type speechDomainImpl struct {
	log        *logrus.Logger
	registry   *sessionRegistry
	speaker    *chatsession.Speaker
	recognizer speech.IRecognizer
	s3Client   s3.ItfS3

	// last uploaded audio file per owner, replaced on each new utterance
	audioMu   sync.Mutex
	lastAudio map[string]string
}

func New(log *logrus.Logger,
	chatRepo chatRepository.Repository,
	authRepo authRepository.Repository,
	store chatsession.Store,
	asker chatsession.Asker,
	translator chatsession.Translator,
	synthesizer chatsession.Synthesizer,
	recognizer speech.IRecognizer,
	s3Client s3.ItfS3,
	utils utils.IUtils,
) ChatService {
	registry := &sessionRegistry{
		managers:   make(map[string]*chatsession.Manager),
		store:      store,
		asker:      asker,
		translator: translator,
		authRepo:   authRepo,
		log:        log,
		utils:      utils,
	}

	historyDomain := &historyDomainImpl{log: log, repo: chatRepo, utils: utils}

	return &chatServiceImpl{
		log: log,

		sessionDomain: &sessionDomainImpl{log: log, registry: registry, translator: translator, history: historyDomain},
		historyDomain: historyDomain,
		speechDomain: &speechDomainImpl{
			log:        log,
			registry:   registry,
			speaker:    chatsession.NewSpeaker(synthesizer, log),
			recognizer: recognizer,
			s3Client:   s3Client,
			lastAudio:  make(map[string]string),
		},
	}
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, chatsession.ErrEmptyInput):
		return chat.ErrQuestionEmpty
	case errors.Is(err, chatsession.ErrSubmissionInFlight):
		return chat.ErrSubmissionInFlight
	case errors.Is(err, chatsession.ErrUnsupportedLanguage):
		return chat.ErrUnsupportedLanguage
	default:
		return err
	}
}

func makeMessages(msgs []entity.ChatMessage) []entity.ChatMessage {
	if msgs == nil {
		return []entity.ChatMessage{}
	}
	return msgs
}
