package models

import "errors"

// Recoverable, user-facing outcomes of the attendance flow. Handlers map
// these onto HTTP statuses and chat-friendly messages; anything else coming
// out of the repositories is treated as a storage failure.
var (
	ErrUnknownWorker         = errors.New("worker is not registered")
	ErrInvalidToken          = errors.New("token is malformed or carries an unknown action")
	ErrTokenAlreadyUsed      = errors.New("token has already been used")
	ErrAlreadyCheckedIn      = errors.New("check-in already recorded for today")
	ErrAlreadyCheckedOut     = errors.New("check-out already recorded for today")
	ErrNotCheckedIn          = errors.New("no check-in recorded for today yet")
	ErrDuplicateRegistration = errors.New("a worker with this chat id already exists")
)
