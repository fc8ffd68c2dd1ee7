package handlerUtil

import (
	"MinelawChatbot/internal/api/auth"
	"MinelawChatbot/internal/api/chat"
	"MinelawChatbot/internal/chatsession"
	"MinelawChatbot/pkg/log"
	"MinelawChatbot/pkg/response"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Auth domain errors
	if errors.Is(err, auth.ErrEmailAlreadyExists) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Email already exists")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Email already exists",
			"code":    "EMAIL_ALREADY_EXISTS",
		})
	}

	if errors.Is(err, auth.ErrUserNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"code":    "USER_NOT_FOUND",
		})
	}

	if errors.Is(err, auth.ErrInvalidEmailOrPassword) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid email or password")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid email or password",
			"code":    "INVALID_CREDENTIALS",
		})
	}

	if errors.Is(err, auth.ErrUserNotVerified) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User not verified")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Please verify your email before logging in",
			"code":    "USER_NOT_VERIFIED",
		})
	}

	if errors.Is(err, auth.ErrUserAlreadyVerified) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("User already verified")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "User already verified",
			"code":    "ALREADY_VERIFIED",
		})
	}

	if errors.Is(err, auth.ErrOTPExpired) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("OTP has expired")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "OTP has expired",
			"code":    "EXPIRED_OTP",
		})
	}

	if errors.Is(err, auth.ErrInvalidOTP) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Invalid OTP provided")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid OTP provided",
			"code":    "INVALID_OTP",
		})
	}

	if errors.Is(err, auth.ErrFailedToSendEmail) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Failed to send OTP email")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send OTP email",
		})
	}

	// Chat domain errors
	if errors.Is(err, chatsession.ErrEmptyInput) || errors.Is(err, chat.ErrQuestionEmpty) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Empty question")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Question must not be empty",
			"code":    "EMPTY_QUESTION",
		})
	}

	if errors.Is(err, chatsession.ErrSubmissionInFlight) || errors.Is(err, chat.ErrSubmissionInFlight) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Submission already in flight")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "A question is already being processed",
			"code":    "SUBMISSION_IN_FLIGHT",
		})
	}

	if errors.Is(err, chatsession.ErrUnsupportedLanguage) || errors.Is(err, chat.ErrUnsupportedLanguage) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Unsupported language")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unsupported language",
			"code":    "UNSUPPORTED_LANGUAGE",
		})
	}

	if errors.Is(err, chat.ErrHistoryNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Chat history not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Chat history not found",
			"code":    "HISTORY_NOT_FOUND",
		})
	}

	if errors.Is(err, chat.ErrAnswerUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Answer service unavailable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Answer service unavailable",
		})
	}

	if errors.Is(err, chat.ErrSynthesisFailed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Speech synthesis failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Speech synthesis failed",
		})
	}

	if errors.Is(err, chat.ErrNothingToSpeak) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Nothing to speak")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to speak",
		})
	}

	if errors.Is(err, chatsession.ErrCapabilityUnavailable) || errors.Is(err, chat.ErrSpeechUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Speech capture unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Speech capture unavailable",
			"code":  "CAPABILITY_UNAVAILABLE",
		})
	}

	if errors.Is(err, chatsession.ErrCaptureInProgress) || errors.Is(err, chat.ErrCaptureAlreadyRunning) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Speech capture already running")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Speech capture already running",
		})
	}

	var captureFailure *chatsession.CaptureFailure
	if errors.As(err, &captureFailure) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Speech capture failed")
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": captureFailure.Message(),
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
