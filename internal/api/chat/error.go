package chat

import (
	"MinelawChatbot/pkg/response"
	"net/http"
)

var (
	ErrQuestionEmpty         = response.NewError(http.StatusBadRequest, "question must not be empty")
	ErrSubmissionInFlight    = response.NewError(http.StatusConflict, "a question is already being processed")
	ErrUnsupportedLanguage   = response.NewError(http.StatusBadRequest, "unsupported language")
	ErrAnswerUnavailable     = response.NewError(http.StatusBadGateway, "answer service unavailable")
	ErrHistoryNotFound       = response.NewError(http.StatusNotFound, "chat history not found")
	ErrSpeechUnavailable     = response.NewError(http.StatusServiceUnavailable, "speech capture unavailable")
	ErrSynthesisFailed       = response.NewError(http.StatusBadGateway, "speech synthesis failed")
	ErrNothingToSpeak        = response.NewError(http.StatusBadRequest, "nothing to speak")
	ErrCaptureAlreadyRunning = response.NewError(http.StatusConflict, "speech capture already running")
)
