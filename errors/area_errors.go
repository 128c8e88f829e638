// api/errors/area_errors.go
package errors

import "errors"

var (
	ErrAreaNotFound           = errors.New("area not found")
	ErrAreaInvalid            = errors.New("invalid area data")
	ErrAreaNameTaken          = errors.New("area name is already in use within this community")
	ErrPickupLocationNotFound = errors.New("pickup location not found")
)
