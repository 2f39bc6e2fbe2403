package auth

import (
	"errors"
	"strings"
)

// ErrMissingToken is returned when a verification request has no token
var ErrMissingToken = errors.New("missing verification token")

// ErrMissingDispatcher is returned when tokens are issued without a mailer
var ErrMissingDispatcher = errors.New("verification dispatcher not configured")

// ErrUnknownAction is returned for action names the controller does not serve
var ErrUnknownAction = errors.New("unknown action")

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data")

// TextCodeTokenExpired marks expired verification tokens
const TextCodeTokenExpired = "TOKEN_EXPIRED"

// IsUniqueConstraintError will check for sqlite/postgres duplicate key messages
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
