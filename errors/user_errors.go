// api/errors/user_errors.go
package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInvalid  = errors.New("invalid user data")
	ErrUserConflict = errors.New("user already exists")
)
