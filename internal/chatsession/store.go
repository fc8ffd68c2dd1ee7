package chatsession

import (
	"context"
	"strings"
	"sync"

	"MinelawChatbot/internal/entity"
)

// Store persists per-owner session state and the question log. State
// writes are last-write-wins; question records supersede each other by
// case-insensitive text within an owner's set.
type Store interface {
	LoadState(ctx context.Context, owner string) (*entity.OwnerState, error)
	SaveState(ctx context.Context, owner string, state *entity.OwnerState) error
	SaveQuestion(ctx context.Context, owner string, record entity.QuestionRecord) error
	ListQuestions(ctx context.Context, owner string) ([]entity.QuestionRecord, error)
}

// MemoryStore keeps everything in process memory. Used in tests and as
// a fallback when no external store is configured.
type MemoryStore struct {
	mu        sync.Mutex
	states    map[string]*entity.OwnerState
	questions map[string]map[string]entity.QuestionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:    make(map[string]*entity.OwnerState),
		questions: make(map[string]map[string]entity.QuestionRecord),
	}
}

func (s *MemoryStore) LoadState(_ context.Context, owner string) (*entity.OwnerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[owner]
	if !ok {
		return nil, nil
	}

	cp := *state
	cp.Messages = append([]entity.ChatMessage(nil), state.Messages...)
	return &cp, nil
}

func (s *MemoryStore) SaveState(_ context.Context, owner string, state *entity.OwnerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *state
	cp.Messages = append([]entity.ChatMessage(nil), state.Messages...)
	s.states[owner] = &cp
	return nil
}

func (s *MemoryStore) SaveQuestion(_ context.Context, owner string, record entity.QuestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.questions[owner]
	if !ok {
		set = make(map[string]entity.QuestionRecord)
		s.questions[owner] = set
	}

	set[strings.ToLower(record.Text)] = record
	return nil
}

func (s *MemoryStore) ListQuestions(_ context.Context, owner string) ([]entity.QuestionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.questions[owner]
	records := make([]entity.QuestionRecord, 0, len(set))
	for _, record := range set {
		records = append(records, record)
	}

	return records, nil
}
