package chatService

import (
	"MinelawChatbot/internal/api/chat"
	"MinelawChatbot/internal/entity"
	contextPkg "MinelawChatbot/pkg/context"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *historyDomainImpl) SaveChat(c context.Context, req chat.SaveChatRequest) error {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate history ID")
		return err
	}

	return repo.Histories.SaveChat(c, entity.ChatHistory{
		ID:        id,
		UserEmail: req.Email,
		Query:     req.Query,
		Response:  req.Response,
	})
}

func (s *historyDomainImpl) GetHistory(c context.Context, email string) (chat.ChatHistoryResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return chat.ChatHistoryResponse{}, err
	}

	histories, err := repo.Histories.GetByEmail(c, email)
	if err != nil {
		return chat.ChatHistoryResponse{}, err
	}

	items := make([]chat.ChatHistoryItem, 0, len(histories))
	for _, h := range histories {
		items = append(items, chat.ChatHistoryItem{
			ID:        h.ID,
			Query:     h.Query,
			Response:  h.Response,
			CreatedAt: h.CreatedAt,
		})
	}

	return chat.ChatHistoryResponse{
		Email:   email,
		History: items,
	}, nil
}
