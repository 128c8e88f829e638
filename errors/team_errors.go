// api/errors/team_errors.go
package errors

import "errors"

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamInvalid        = errors.New("invalid team data")
	ErrTeamNameTaken      = errors.New("team name is already in use")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrTeamMemberConflict = errors.New("user is already a member of this team")
	ErrTeamPhotoNotFound  = errors.New("team photo not found")
)
