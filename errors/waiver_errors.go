// api/errors/waiver_errors.go
package errors

import "errors"

var (
	ErrWaiverNotFound    = errors.New("waiver not found")
	ErrWaiverInvalid     = errors.New("invalid waiver data")
	ErrSignatureConflict = errors.New("waiver has already been signed by this user")
)
