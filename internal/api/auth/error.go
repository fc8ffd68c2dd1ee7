package auth

import (
	"MinelawChatbot/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrUserNotVerified        = response.NewError(http.StatusForbidden, "user is not verified")
	ErrUserAlreadyVerified    = response.NewError(http.StatusConflict, "user already verified")
	ErrInvalidOTP             = response.NewError(http.StatusUnauthorized, "invalid otp")
	ErrOTPExpired             = response.NewError(http.StatusUnauthorized, "otp expired or not found")
	ErrFailedToSendEmail      = response.NewError(http.StatusInternalServerError, "failed to send otp email")
)
