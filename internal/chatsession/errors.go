package chatsession

import "errors"

var (
	ErrEmptyInput          = errors.New("chatsession: empty input")
	ErrSubmissionInFlight  = errors.New("chatsession: submission already in flight")
	ErrUnsupportedLanguage = errors.New("chatsession: unsupported language")
)
