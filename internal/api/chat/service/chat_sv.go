package chatService

import (
	"MinelawChatbot/internal/api/chat"
	contextPkg "MinelawChatbot/pkg/context"
	"context"

	"github.com/sirupsen/logrus"
)

func (s *sessionDomainImpl) Ask(c context.Context, req chat.AskRequest) (chat.AskResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	manager, err := s.registry.get(c, req.Email)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"email":      req.Email,
			"error":      err.Error(),
		}).Error("Failed to open chat session")
		return chat.AskResponse{}, err
	}

	if req.Language != "" && req.Language != manager.Language() {
		if _, err := manager.ChangeLanguage(c, req.Language); err != nil {
			return chat.AskResponse{}, mapSessionError(err)
		}
	}

	bot, err := manager.Submit(c, req.Question, false)
	if err != nil {
		return chat.AskResponse{}, mapSessionError(err)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"email":      req.Email,
		"is_error":   bot.IsError,
	}).Info("Question answered")

	if !bot.IsError {
		if err := s.history.SaveChat(c, chat.SaveChatRequest{
			Email:    req.Email,
			Query:    req.Question,
			Response: bot.Text,
		}); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"email":      req.Email,
				"error":      err.Error(),
			}).Warn("Failed to mirror exchange into chat history")
		}
	}

	return chat.AskResponse{
		Response:   bot.Text,
		Translated: bot.Language != "" && bot.Language != "en",
		IsError:    bot.IsError,
		Message:    bot,
	}, nil
}

func (s *sessionDomainImpl) Translate(c context.Context, req chat.TranslateRequest) (chat.TranslateResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}

	translated, err := s.translator.Translate(c, req.Text, req.TargetLang, sourceLang)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"target":     req.TargetLang,
			"error":      err.Error(),
		}).Warn("Translation failed, returning original text")
	}

	return chat.TranslateResponse{TranslatedText: translated}, nil
}

func (s *sessionDomainImpl) ChangeLanguage(c context.Context, email string, language string) (chat.ChangeLanguageResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.ChangeLanguageResponse{}, err
	}

	msgs, err := manager.ChangeLanguage(c, language)
	if err != nil {
		return chat.ChangeLanguageResponse{}, mapSessionError(err)
	}

	return chat.ChangeLanguageResponse{
		Language: language,
		Messages: makeMessages(msgs),
	}, nil
}

func (s *sessionDomainImpl) Clear(c context.Context, email string) error {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return err
	}

	manager.Clear(c)
	return nil
}

func (s *sessionDomainImpl) Transcript(c context.Context, email string) (chat.TranscriptResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.TranscriptResponse{}, err
	}

	return chat.TranscriptResponse{Transcript: manager.ExportTranscript()}, nil
}

func (s *sessionDomainImpl) Stats(c context.Context, email string) (chat.StatsResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.StatsResponse{}, err
	}

	stats := manager.Stats()
	return chat.StatsResponse{
		QuestionsAsked: stats.QuestionsAsked,
		SessionStart:   stats.SessionStart,
		LastActive:     stats.LastActive,
	}, nil
}

func (s *sessionDomainImpl) Questions(c context.Context, email string) (chat.QuestionsResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.QuestionsResponse{}, err
	}

	records, err := manager.Questions(c)
	if err != nil {
		return chat.QuestionsResponse{}, err
	}

	return chat.QuestionsResponse{Questions: records}, nil
}

func (s *sessionDomainImpl) Messages(c context.Context, email string) (chat.SessionResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.SessionResponse{}, err
	}

	return chat.SessionResponse{
		Messages: makeMessages(manager.Messages()),
		Language: manager.Language(),
	}, nil
}

func (s *sessionDomainImpl) GetPreferences(c context.Context, email string) (chat.PreferencesResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.PreferencesResponse{}, err
	}

	return chat.PreferencesResponse{
		Muted:       manager.Muted(),
		Language:    manager.Language(),
		Theme:       manager.Theme(),
		DisplayName: manager.DisplayName(),
	}, nil
}

func (s *sessionDomainImpl) UpdatePreferences(c context.Context, email string, req chat.PreferencesRequest) (chat.PreferencesResponse, error) {
	manager, err := s.registry.get(c, email)
	if err != nil {
		return chat.PreferencesResponse{}, err
	}

	if req.Muted != nil {
		manager.SetMuted(*req.Muted)
	}
	if req.Theme != nil {
		manager.SetTheme(c, *req.Theme)
	}
	if req.DisplayName != nil {
		manager.SetDisplayName(c, *req.DisplayName)
	}
	if req.Language != nil {
		if _, err := manager.ChangeLanguage(c, *req.Language); err != nil {
			return chat.PreferencesResponse{}, mapSessionError(err)
		}
	}

	return chat.PreferencesResponse{
		Muted:       manager.Muted(),
		Language:    manager.Language(),
		Theme:       manager.Theme(),
		DisplayName: manager.DisplayName(),
	}, nil
}
