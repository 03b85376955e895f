package user

import "errors"

var (
	ErrInvalidToken            = errors.New("invalid or missing access token")
	ErrActorRequired           = errors.New("acting user id is missing from token")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
