// api/errors/partner_errors.go
package errors

import "errors"

var (
	ErrPartnerNotFound      = errors.New("partner not found")
	ErrPartnerInvalid       = errors.New("invalid partner data")
	ErrPartnerSlugTaken     = errors.New("partner slug is already in use")
	ErrPartnerAdminNotFound = errors.New("partner admin not found")
	ErrSponsorNotFound      = errors.New("sponsor not found")
)
