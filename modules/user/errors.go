package user

import "errors"

var (
	// ErrUserNotFound indicates the requested account does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameAlreadyExists indicates a signup with a taken username
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// so login responses cannot be used to enumerate accounts
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameRequired indicates a missing username
	ErrUsernameRequired = errors.New("username is required")

	// ErrStorageUnavailable indicates the user store could not be reached
	ErrStorageUnavailable = errors.New("user storage unavailable")
)
