package errs

import (
	"errors"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken = errors.New("missing access token")
	ErrExpiredToken = errors.New("expired access token")
	ErrInvalidToken = errors.New("invalid access token")
)

func Malformed(payloadName string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, payloadName+" malformed")
}

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

func NewMissingTokenError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrMissingToken}
}

func NewExpiredTokenError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrExpiredToken}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: ErrInvalidToken, Cause: cause}
}
