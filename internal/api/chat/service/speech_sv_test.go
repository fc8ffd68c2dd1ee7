package chatService

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	authRepository "MinelawChatbot/internal/api/auth/repository"
	"MinelawChatbot/internal/api/chat"
	chatRepository "MinelawChatbot/internal/api/chat/repository"
	"MinelawChatbot/internal/chatsession"
	"MinelawChatbot/internal/entity"
	"MinelawChatbot/pkg/speech"
	"MinelawChatbot/pkg/utils"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsker struct{ answer string }

func (f *fakeAsker) Ask(_ context.Context, _ string) (string, error) {
	return f.answer, nil
}

type fakeTranslator struct{}

func (f *fakeTranslator) Translate(_ context.Context, text string, _ string, _ string) (string, error) {
	return text, nil
}

type fakeSynth struct{}

func (f *fakeSynth) Voices(_ context.Context) ([]entity.Voice, error) {
	return []entity.Voice{{Name: "Rachel", ID: "r1", Locale: "en-IN", Natural: true}}, nil
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string, _ string, _ entity.VoiceProfile) ([]byte, error) {
	return []byte("mp3-bytes"), nil
}

type fakeS3 struct {
	mu      sync.Mutex
	uploads []string
	deleted []string
}

func (f *fakeS3) UploadBytes(_ []byte, fileName string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, fileName)
	return "https://bucket.s3.amazonaws.com/" + fileName, nil
}

func (f *fakeS3) PresignUrl(fileUrl string) (string, error) {
	return fileUrl + "?signed", nil
}

func (f *fakeS3) DeleteFile(fileName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, fileName)
	return nil
}

func (f *fakeS3) deletedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeS3) uploadedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uploads...)
}

type fakeStream struct {
	transcripts chan speech.Transcript
	closed      chan struct{}
	closeOnce   sync.Once
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		transcripts: make(chan speech.Transcript),
		closed:      make(chan struct{}),
	}
}

func (f *fakeStream) SendAudio(_ []byte) error { return nil }

func (f *fakeStream) ReadTranscript() (speech.Transcript, error) {
	select {
	case t, ok := <-f.transcripts:
		if !ok {
			return speech.Transcript{}, io.EOF
		}
		return t, nil
	case <-f.closed:
		return speech.Transcript{}, io.EOF
	}
}

func (f *fakeStream) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

type fakeRecognizer struct{ stream *fakeStream }

func (f *fakeRecognizer) OpenStream(_ string) (speech.IStream, error) {
	return f.stream, nil
}

type fakeCompanies struct{ company entity.Company }

func (f *fakeCompanies) CreateCompany(_ context.Context, _ entity.Company) error { return nil }

func (f *fakeCompanies) GetByID(_ context.Context, _ string) (entity.Company, error) {
	return f.company, nil
}

func (f *fakeCompanies) GetByEmail(_ context.Context, _ string) (entity.Company, error) {
	return f.company, nil
}

func (f *fakeCompanies) UpdateVerification(_ context.Context, _ string, _ bool) error { return nil }

func (f *fakeCompanies) UpdatePassword(_ context.Context, _ string, _ string) error { return nil }

type fakeAuthRepo struct{ companies *fakeCompanies }

func (f *fakeAuthRepo) NewClient(_ bool) (authRepository.Client, error) {
	return authRepository.Client{
		Companies: f.companies,
		Commit:    func() error { return nil },
		Rollback:  func() error { return nil },
	}, nil
}

type fakeHistories struct{}

func (f *fakeHistories) SaveChat(_ context.Context, _ entity.ChatHistory) error { return nil }

func (f *fakeHistories) GetByEmail(_ context.Context, _ string) ([]entity.ChatHistory, error) {
	return nil, nil
}

type fakeChatRepo struct{}

func (f *fakeChatRepo) NewClient(_ bool) (chatRepository.Client, error) {
	return chatRepository.Client{
		Histories: &fakeHistories{},
		Commit:    func() error { return nil },
		Rollback:  func() error { return nil },
	}, nil
}

func newSpeechTestService(t *testing.T, stream *fakeStream, s3Client *fakeS3) ChatService {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	companies := &fakeCompanies{company: entity.Company{
		ID:          "01TEST",
		CompanyName: "Acme Mining",
		Email:       "acme@example.com",
		IsVerified:  true,
	}}

	return New(logger,
		&fakeChatRepo{},
		&fakeAuthRepo{companies: companies},
		chatsession.NewMemoryStore(),
		&fakeAsker{answer: "The Mines Act applies."},
		&fakeTranslator{},
		&fakeSynth{},
		&fakeRecognizer{stream: stream},
		s3Client,
		utils.New(),
	)
}

func TestCaptureStopWithoutSpeechEndsEventStream(t *testing.T) {
	stream := newFakeStream()
	svc := newSpeechTestService(t, stream, &fakeS3{})

	capture, err := svc.Speech().NewCapture(context.Background(), "acme@example.com", "en-IN")
	require.NoError(t, err)

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for event := range capture.Events() {
			if event.Kind == "answer" || event.Kind == "failure" || event.Kind == "stopped" {
				return
			}
		}
	}()

	// nothing was said: stopping must still release the consumer
	capture.Stop()

	select {
	case <-consumerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("event consumer still blocked after an empty capture stopped")
	}

	capture.Close()

	_, open := <-capture.Events()
	assert.False(t, open, "events channel should be closed after Close")
}

func TestCaptureSlowConsumerStillGetsAnswer(t *testing.T) {
	stream := newFakeStream()
	svc := newSpeechTestService(t, stream, &fakeS3{})

	capture, err := svc.Speech().NewCapture(context.Background(), "acme@example.com", "en-IN")
	require.NoError(t, err)
	defer capture.Close()

	go func() {
		for i := 0; i < 12; i++ {
			stream.transcripts <- speech.Transcript{Text: fmt.Sprintf("partial %d", i)}
		}
		stream.transcripts <- speech.Transcript{Text: "what is the mines act", Final: true}
	}()

	// let events pile up well past the channel buffer before reading
	time.Sleep(100 * time.Millisecond)

	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-capture.Events():
			require.True(t, ok, "events closed before the answer arrived")
			if event.Kind != "answer" {
				continue
			}
			assert.Equal(t, "what is the mines act", event.Transcript)
			require.NotNil(t, event.Message)
			assert.Equal(t, "The Mines Act applies.", event.Message.Text)
			return
		case <-timeout:
			t.Fatal("answer event never delivered to the slow consumer")
		}
	}
}

func TestCaptureStreamErrorEmitsTerminalFailure(t *testing.T) {
	stream := newFakeStream()
	svc := newSpeechTestService(t, stream, &fakeS3{})

	capture, err := svc.Speech().NewCapture(context.Background(), "acme@example.com", "en-IN")
	require.NoError(t, err)
	defer capture.Close()

	close(stream.transcripts)

	select {
	case event := <-capture.Events():
		assert.Equal(t, "failure", event.Kind)
		assert.Contains(t, event.Failure, "unreachable")
	case <-time.After(2 * time.Second):
		t.Fatal("failure event never delivered after the stream broke")
	}
}

func TestSpeakReplacesPreviousUtteranceAudio(t *testing.T) {
	s3Client := &fakeS3{}
	svc := newSpeechTestService(t, newFakeStream(), s3Client)

	ctx := context.Background()
	first, err := svc.Speech().Speak(ctx, "acme@example.com", chat.SpeakRequest{Text: "First answer."})
	require.NoError(t, err)
	assert.NotEmpty(t, first.AudioURL)

	second, err := svc.Speech().Speak(ctx, "acme@example.com", chat.SpeakRequest{Text: "Second answer."})
	require.NoError(t, err)
	assert.NotEmpty(t, second.AudioURL)

	uploads := s3Client.uploadedFiles()
	require.Len(t, uploads, 2)

	deleted := s3Client.deletedFiles()
	require.Len(t, deleted, 1, "the superseded utterance should be deleted")
	assert.Equal(t, uploads[0], deleted[0])
}
