// api/errors/invite_errors.go
package errors

import "errors"

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteInvalid       = errors.New("invalid invite data")
	ErrInviteQuotaExceeded = errors.New("monthly invite quota exceeded")
)
