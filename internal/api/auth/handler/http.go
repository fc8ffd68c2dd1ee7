package authHandler

import (
	authService "MinelawChatbot/internal/api/auth/service"
	"MinelawChatbot/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	log         *logrus.Logger
	authService authService.AuthService
	validator   *validator.Validate
	middleware  middleware.Middleware
}

func New(
	log *logrus.Logger,
	as authService.AuthService,
	validate *validator.Validate,
	middleware middleware.Middleware) *AuthHandler {
	return &AuthHandler{
		log:         log,
		authService: as,
		validator:   validate,
		middleware:  middleware,
	}
}

func (h *AuthHandler) Start(srv fiber.Router) {
	auth := srv.Group("/auth")
	auth.Post("/register", h.HandleRegister)
	auth.Post("/verify-otp", h.HandleVerifyOTP)
	auth.Post("/resend-otp", h.HandleResendOTP)
	auth.Post("/login", h.HandleLogin)
	auth.Get("/get-user", h.HandleGetUser)
	auth.Get("/me", h.middleware.NewTokenMiddleware, h.HandleMe)
	auth.Post("/change-password", h.middleware.NewTokenMiddleware, h.HandleChangePassword)
}
