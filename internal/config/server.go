package config

import (
	"MinelawChatbot/database/postgres"
	authHandler "MinelawChatbot/internal/api/auth/handler"
	authRepository "MinelawChatbot/internal/api/auth/repository"
	authService "MinelawChatbot/internal/api/auth/service"
	chatHandler "MinelawChatbot/internal/api/chat/handler"
	chatRepository "MinelawChatbot/internal/api/chat/repository"
	chatService "MinelawChatbot/internal/api/chat/service"
	"MinelawChatbot/internal/middleware"
	"MinelawChatbot/pkg/answer"
	"MinelawChatbot/pkg/audio"
	"MinelawChatbot/pkg/bcrypt"
	"MinelawChatbot/pkg/redis"
	"MinelawChatbot/pkg/s3"
	"MinelawChatbot/pkg/smtp"
	"MinelawChatbot/pkg/speech"
	"MinelawChatbot/pkg/translate"
	"MinelawChatbot/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcryptUtils bcrypt.IBcrypt
	handlers    []handler

	redisServer     redis.IRedis
	smtpMailer      smtp.ItfSmtp
	s3Client        s3.ItfS3
	answerClient    answer.IAnswer
	translateClient translate.ITranslate
	synthesizer     audio.ISynthesizer
	recognizer      speech.IRecognizer
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithAnswerClient() ServerOption {
	return func(s *Server) error {
		s.answerClient = answer.New()
		return nil
	}
}

func WithTranslateClient() ServerOption {
	return func(s *Server) error {
		client, err := translate.NewTranslateClient()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create translate client: %v", err)
			}
			return fmt.Errorf("failed to create translate client: %w", err)
		}
		s.translateClient = client
		return nil
	}
}

func WithSynthesizer() ServerOption {
	return func(s *Server) error {
		s.synthesizer = audio.NewTTSService()
		return nil
	}
}

func WithRecognizer() ServerOption {
	return func(s *Server) error {
		s.recognizer = speech.NewRecognizerClient()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.smtpMailer, s.redisServer, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Chat Domain
	chatRepo := chatRepository.New(s.db, s.log)
	sessionStore := chatRepository.NewRedisStore(s.redisServer, s.log)
	chatServices := chatService.New(s.log, chatRepo, authRepo, sessionStore,
		s.answerClient, s.translateClient, s.synthesizer, s.recognizer, s.s3Client, s.utils)
	chatHandlers := chatHandler.New(s.log, chatServices, s.validator, s.middleware)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, chatHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
