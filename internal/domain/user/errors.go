package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInsufficientRole      = errors.New("insufficient role for this operation")
	ErrActorMissing          = errors.New("authenticated user not found in request")
	ErrManagerAccessRequired = errors.New("manager access required")
)
