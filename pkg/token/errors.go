package token

import "errors"

var (
	ErrInvalidToken = errors.New("token: invalid token")
)
