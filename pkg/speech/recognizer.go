package speech

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transcript is one recognition update from the ASR service. Partial
// updates replace each other; a final update closes out the utterance.
type Transcript struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// IRecognizer opens streaming recognition sessions against the ASR
// service. Each capture gets its own stream.
type IRecognizer interface {
	OpenStream(locale string) (IStream, error)
}

type IStream interface {
	SendAudio(chunk []byte) error
	ReadTranscript() (Transcript, error)
	Close() error
}

type recognizerClient struct {
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
}

func NewRecognizerClient() IRecognizer {
	return &recognizerClient{
		handshakeTimeout: 10 * time.Second,
		writeTimeout:     5 * time.Second,
	}
}

func (r *recognizerClient) OpenStream(locale string) (IStream, error) {
	url := os.Getenv("ASR_SERVICE_URL")
	if url == "" {
		url = "ws://localhost:8000/api/v1/asr/ws"
	}

	log.Printf("Connecting to ASR service at %s for locale %s", url, locale)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = r.handshakeTimeout

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(r.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	startMsg := map[string]string{"action": "start", "locale": locale}
	if err := conn.WriteJSON(startMsg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error starting recognition stream: %w", err)
	}

	return &recognitionStream{
		conn:         conn,
		writeTimeout: r.writeTimeout,
	}, nil
}

type recognitionStream struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration
	closed       bool
}

func (s *recognitionStream) SendAudio(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("recognition stream is closed")
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("error sending audio chunk: %w", err)
	}

	return nil
}

func (s *recognitionStream) ReadTranscript() (Transcript, error) {
	_, message, err := s.conn.ReadMessage()
	if err != nil {
		return Transcript{}, fmt.Errorf("error reading transcript: %w", err)
	}

	var result Transcript
	if err := json.Unmarshal(message, &result); err != nil {
		return Transcript{}, fmt.Errorf("error unmarshaling transcript: %w", err)
	}

	return result, nil
}

func (s *recognitionStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(s.writeTimeout),
	)

	return s.conn.Close()
}
