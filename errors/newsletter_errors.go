// api/errors/newsletter_errors.go
package errors

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("newsletter subscription not found")
	ErrSubscriptionInvalid  = errors.New("invalid newsletter subscription data")
)
