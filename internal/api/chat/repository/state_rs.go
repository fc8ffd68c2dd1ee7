package chatRepository

import (
	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/redis"
	"context"
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisStore persists per-owner session state and question records in
// Redis. It backs the chat session manager's Store dependency. Question
// records live in a hash keyed by lowercased text, which gives
// case-insensitive last-write-wins for free.
type RedisStore struct {
	redisServer redis.IRedis
	log         *logrus.Logger
}

func NewRedisStore(redisServer redis.IRedis, log *logrus.Logger) *RedisStore {
	return &RedisStore{
		redisServer: redisServer,
		log:         log,
	}
}

func stateKey(owner string) string {
	return "chat:state:" + owner
}

func questionsKey(owner string) string {
	return "chat:questions:" + owner
}

func (s *RedisStore) LoadState(ctx context.Context, owner string) (*entity.OwnerState, error) {
	raw, err := s.redisServer.Get(ctx, stateKey(owner))
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var state entity.OwnerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.log.WithFields(logrus.Fields{
			"owner": owner,
			"error": err.Error(),
		}).Warn("Corrupt session state, starting fresh")
		return nil, nil
	}

	return &state, nil
}

func (s *RedisStore) SaveState(ctx context.Context, owner string, state *entity.OwnerState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return s.redisServer.Set(ctx, stateKey(owner), string(raw))
}

func (s *RedisStore) SaveQuestion(ctx context.Context, owner string, record entity.QuestionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.redisServer.HSet(ctx, questionsKey(owner), strings.ToLower(record.Text), string(raw))
}

func (s *RedisStore) ListQuestions(ctx context.Context, owner string) ([]entity.QuestionRecord, error) {
	fields, err := s.redisServer.HGetAll(ctx, questionsKey(owner))
	if err != nil {
		return nil, err
	}

	records := make([]entity.QuestionRecord, 0, len(fields))
	for _, raw := range fields {
		var record entity.QuestionRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			s.log.WithFields(logrus.Fields{
				"owner": owner,
				"error": err.Error(),
			}).Warn("Skipping corrupt question record")
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
