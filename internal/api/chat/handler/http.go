package chatHandler

import (
	chatService "MinelawChatbot/internal/api/chat/service"
	"MinelawChatbot/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log         *logrus.Logger
	chatService chatService.ChatService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	cs chatService.ChatService,
	validate *validator.Validate,
	middleware middleware.Middleware) *ChatHandler {
	return &ChatHandler{
		log:         log,
		chatService: cs,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	chat := srv.Group("/chat")
	chat.Post("/ask", h.HandleAsk)
	chat.Post("/translate", h.HandleTranslate)
	chat.Post("/save-chat", h.HandleSaveChat)
	chat.Get("/get-chat-history", h.HandleGetChatHistory)

	session := chat.Group("/session", h.middleware.NewTokenMiddleware)
	session.Get("/", h.HandleGetSession)
	session.Patch("/language", h.HandleChangeLanguage)
	session.Post("/clear", h.HandleClear)
	session.Get("/transcript", h.HandleTranscript)
	session.Get("/stats", h.HandleStats)
	session.Get("/questions", h.HandleQuestions)
	session.Get("/preferences", h.HandleGetPreferences)
	session.Patch("/preferences", h.HandleUpdatePreferences)
	session.Post("/speak", h.HandleSpeak)

	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
	chat.Use("/speech/ws", h.middleware.NewTokenMiddleware, wsMiddleware)
	chat.Get("/speech/ws", websocket.New(h.handleSpeechWebSocket))
}
