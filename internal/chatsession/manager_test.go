package chatsession

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MinelawChatbot/internal/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct {
	answer  string
	err     error
	release chan struct{}
	calls   int32
}

func (f *fakeAsker) Ask(ctx context.Context, question string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.answer, f.err
}

type fakeTranslator struct {
	err   error
	calls int32
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang, sourceLang string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return text, f.err
	}
	return "[" + targetLang + "] " + text, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestManager(t *testing.T, asker Asker, translator Translator, clock func() time.Time) *Manager {
	t.Helper()

	if asker == nil {
		asker = &fakeAsker{answer: "The Mines Act, 1952 governs mine safety."}
	}
	if translator == nil {
		translator = &fakeTranslator{}
	}
	if clock == nil {
		clock = fixedClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC))
	}

	return NewManager(ManagerConfig{
		Owner:       "acme@example.com",
		DisplayName: "Acme",
		Store:       NewMemoryStore(),
		Asker:       asker,
		Translator:  translator,
		Logger:      logrus.New(),
		Clock:       clock,
	})
}

func TestInitializeFreshSessionGreetsOnce(t *testing.T) {
	m := newTestManager(t, nil, nil, fixedClock(time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, m.Initialize(context.Background()))

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.MessageTypeBot, msgs[0].Type)
	assert.True(t, msgs[0].IsGreeting)
	assert.Contains(t, msgs[0].Text, "Good morning")
	assert.Contains(t, msgs[0].Text, "Acme")

	greetings := 0
	for _, msg := range m.Messages() {
		if msg.IsGreeting {
			greetings++
		}
	}
	assert.Equal(t, 1, greetings)
}

func TestInitializeSalutationByTimeOfDay(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want string
	}{
		{"morning", 8, "Good morning"},
		{"afternoon", 14, "Good afternoon"},
		{"evening", 20, "Good evening"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := fixedClock(time.Date(2026, 1, 5, tt.hour, 0, 0, 0, time.UTC))
			m := newTestManager(t, nil, nil, clock)
			require.NoError(t, m.Initialize(context.Background()))
			assert.Contains(t, m.Messages()[0].Text, tt.want)
		})
	}
}

func TestInitializeLoadsPersistedConversation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := NewManager(ManagerConfig{
		Owner:       "acme@example.com",
		DisplayName: "Acme",
		Store:       store,
		Asker:       &fakeAsker{answer: "answer"},
		Translator:  &fakeTranslator{},
		Logger:      logrus.New(),
	})
	require.NoError(t, first.Initialize(ctx))
	_, err := first.Submit(ctx, "What is mining law?", false)
	require.NoError(t, err)

	second := NewManager(ManagerConfig{
		Owner:       "acme@example.com",
		DisplayName: "Acme",
		Store:       store,
		Asker:       &fakeAsker{answer: "answer"},
		Translator:  &fakeTranslator{},
		Logger:      logrus.New(),
	})
	require.NoError(t, second.Initialize(ctx))

	msgs := second.Messages()
	require.Len(t, msgs, 3)

	greetings := 0
	for _, msg := range msgs {
		if msg.IsGreeting {
			greetings++
		}
	}
	assert.Equal(t, 1, greetings, "loading a persisted session must not add another greeting")
}

func TestSubmitAppendsOneUserAndOneBotMessage(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "Mining law regulates mineral extraction."}, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	before := len(m.Messages())
	bot, err := m.Submit(context.Background(), "What is mining law?", false)
	require.NoError(t, err)

	msgs := m.Messages()
	require.Len(t, msgs, before+2)
	assert.Equal(t, entity.MessageTypeUser, msgs[before].Type)
	assert.Equal(t, "What is mining law?", msgs[before].Text)
	assert.Equal(t, entity.MessageTypeBot, msgs[before+1].Type)
	assert.Equal(t, bot.Text, msgs[before+1].Text)
	assert.False(t, bot.IsError)
}

func TestSubmitBlankInputIsNoOp(t *testing.T) {
	asker := &fakeAsker{answer: "answer"}
	m := newTestManager(t, asker, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	before := len(m.Messages())
	for _, input := range []string{"", "   ", "\t\n"} {
		_, err := m.Submit(context.Background(), input, false)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	assert.Len(t, m.Messages(), before)
	assert.Zero(t, atomic.LoadInt32(&asker.calls))
}

func TestSubmitSingleFlight(t *testing.T) {
	asker := &fakeAsker{answer: "answer", release: make(chan struct{})}
	m := newTestManager(t, asker, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	done := make(chan entity.ChatMessage, 1)
	go func() {
		bot, _ := m.Submit(context.Background(), "first question", false)
		done <- bot
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&asker.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := m.Submit(context.Background(), "second question", false)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(asker.release)
	<-done

	// the rejected submission left no trace
	users := 0
	for _, msg := range m.Messages() {
		if msg.Type == entity.MessageTypeUser {
			users++
		}
	}
	assert.Equal(t, 1, users)

	// and the manager accepts new submissions again
	_, err = m.Submit(context.Background(), "third question", false)
	assert.NoError(t, err)
}

func TestSubmitBackendFailureAppendsErrorMessage(t *testing.T) {
	m := newTestManager(t, &fakeAsker{err: errors.New("connection refused")}, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	bot, err := m.Submit(context.Background(), "What is mining law?", false)
	require.NoError(t, err, "backend failures must terminate in an error message, not an error return")
	assert.True(t, bot.IsError)
	assert.NotEmpty(t, bot.Text)
}

func TestSubmitTranslatesWhenLanguageIsNotBase(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "original answer"}, &fakeTranslator{}, nil)
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.ChangeLanguage(context.Background(), "hi")
	require.NoError(t, err)

	bot, err := m.Submit(context.Background(), "What is mining law?", false)
	require.NoError(t, err)
	assert.Equal(t, "[hi] original answer", bot.Text)
	assert.Equal(t, "hi", bot.Language)
}

func TestTranslationFailureKeepsOriginalText(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "original answer"}, &fakeTranslator{err: errors.New("timeout")}, nil)
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.ChangeLanguage(context.Background(), "hi")
	require.NoError(t, err)

	bot, err := m.Submit(context.Background(), "What is mining law?", false)
	require.NoError(t, err)
	assert.Equal(t, "original answer", bot.Text)
	assert.False(t, bot.IsError)
}

func TestChangeLanguageKeepsMessageCount(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "first answer"}, &fakeTranslator{}, nil)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "first question", false)
	require.NoError(t, err)
	_, err = m.Submit(ctx, "second question", false)
	require.NoError(t, err)

	before := m.Messages()
	after, err := m.ChangeLanguage(ctx, "hi")
	require.NoError(t, err)
	require.Len(t, after, len(before))

	// only the latest bot message changed
	last := len(after) - 1
	assert.Equal(t, "[hi] first answer", after[last].Text)
	assert.Equal(t, "hi", after[last].Language)
	for i := 0; i < last; i++ {
		assert.Equal(t, before[i].Text, after[i].Text)
	}
}

func TestChangeLanguageSkipsGreetingAndErrorMessages(t *testing.T) {
	m := newTestManager(t, &fakeAsker{err: errors.New("down")}, &fakeTranslator{}, nil)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "question", false)
	require.NoError(t, err)

	before := m.Messages()
	after, err := m.ChangeLanguage(ctx, "hi")
	require.NoError(t, err)

	for i := range before {
		assert.Equal(t, before[i].Text, after[i].Text, "greeting and error messages are never retranslated")
	}
}

func TestChangeLanguageRejectsUnsupported(t *testing.T) {
	m := newTestManager(t, nil, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	_, err := m.ChangeLanguage(context.Background(), "xx")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestQuestionRecordCaseInsensitiveLastWriteWins(t *testing.T) {
	current := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, &fakeAsker{answer: "answer"}, nil, func() time.Time {
		current = current.Add(time.Minute)
		return current
	})
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "What is mining law?", false)
	require.NoError(t, err)
	_, err = m.Submit(ctx, "what is mining law?", false)
	require.NoError(t, err)

	records, err := m.Questions(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "what is mining law?", records[0].Text)
}

func TestQuestionsSurviveClear(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "answer"}, nil, nil)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "What is mining law?", false)
	require.NoError(t, err)

	m.Clear(ctx)

	records, err := m.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClearThenExportTranscriptIsEmpty(t *testing.T) {
	m := newTestManager(t, &fakeAsker{answer: "answer"}, nil, nil)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "What is mining law?", false)
	require.NoError(t, err)

	m.Clear(ctx)
	assert.Empty(t, m.ExportTranscript())
	assert.Empty(t, m.Messages())
}

func TestExportTranscriptFormat(t *testing.T) {
	clock := fixedClock(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC))
	m := newTestManager(t, &fakeAsker{answer: "**The Mines Act** applies."}, nil, clock)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "What applies?", false)
	require.NoError(t, err)

	lines := strings.Split(m.ExportTranscript(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2026-01-05 09:30:00 - user: What applies?", lines[1])
	assert.Equal(t, "2026-01-05 09:30:00 - bot: The Mines Act applies.", lines[2])
}

func TestStatsDerivedFromMessages(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	current := start
	m := newTestManager(t, &fakeAsker{answer: "answer"}, nil, func() time.Time {
		current = current.Add(time.Minute)
		return current
	})
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx))

	_, err := m.Submit(ctx, "first", false)
	require.NoError(t, err)
	_, err = m.Submit(ctx, "second", false)
	require.NoError(t, err)

	stats := m.Stats()
	assert.Equal(t, 2, stats.QuestionsAsked)
	assert.Equal(t, current, stats.LastActive)
	assert.Equal(t, start.Add(time.Minute), stats.SessionStart)
}
