package chatHandler

import (
	"MinelawChatbot/internal/entity"
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

// handleSpeechWebSocket drives one voice-input session. The client
// streams binary audio frames; the server pushes capture events back:
// partial transcripts, the final answer, or a failure. Capture ends on
// silence, an explicit stop message, or disconnect.
func (h *ChatHandler) handleSpeechWebSocket(c *websocket.Conn) {
	h.log.Info("Speech capture WebSocket client connected")
	defer h.log.Info("Speech capture WebSocket client disconnected")

	user, ok := c.Locals("user").(entity.UserLoginData)
	if !ok {
		_ = c.WriteJSON(map[string]string{"error": "Unauthorized"})
		return
	}

	locale := c.Query("locale")
	if locale == "" {
		locale = "en-IN"
	}

	capture, err := h.chatService.Speech().NewCapture(context.Background(), user.Email, locale)
	if err != nil {
		_ = c.WriteJSON(map[string]string{"error": err.Error()})
		return
	}
	defer capture.Close()

	// writer: forward capture events to the client. All three terminal
	// kinds end the session; a capture that stops without a submission
	// emits only "stopped".
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range capture.Events() {
			if err := c.WriteJSON(event); err != nil {
				return
			}
			if event.Kind == "answer" || event.Kind == "failure" || event.Kind == "stopped" {
				return
			}
		}
	}()

	maxReadTimeout := 60 * time.Second
	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Errorf("Speech WebSocket error: %v", err)
			}
			break
		}

		if messageType == websocket.BinaryMessage {
			if err := capture.SendAudio(message); err != nil {
				h.log.Errorf("Error forwarding audio chunk: %v", err)
				break
			}
		} else if messageType == websocket.TextMessage && string(message) == "stop" {
			capture.Stop()
		}

		select {
		case <-done:
			return
		default:
		}
	}

	// The client is gone or the read loop errored: finalize in the
	// background so a pending transcript is still submitted, then let
	// Close release anything still blocked on event delivery.
	go capture.Stop()
	<-done
}
