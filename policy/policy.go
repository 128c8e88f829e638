// api/policy/policy.go
package policy

// Policy is one of the closed set of authorization rules evaluated against
// a caller and a resolved resource.
type Policy int

const (
	ValidUser Policy = iota
	UserOwnsEntity
	UserOwnsEntityOrIsAdmin
	UserIsAdmin
	UserIsPartnerUserOrIsAdmin
	UserIsEventLead
	UserIsProfessionalCompanyUserOrIsAdmin
)

func (p Policy) String() string {
	switch p {
	case ValidUser:
		return "ValidUser"
	case UserOwnsEntity:
		return "UserOwnsEntity"
	case UserOwnsEntityOrIsAdmin:
		return "UserOwnsEntityOrIsAdmin"
	case UserIsAdmin:
		return "UserIsAdmin"
	case UserIsPartnerUserOrIsAdmin:
		return "UserIsPartnerUserOrIsAdmin"
	case UserIsEventLead:
		return "UserIsEventLead"
	case UserIsProfessionalCompanyUserOrIsAdmin:
		return "UserIsProfessionalCompanyUserOrIsAdmin"
	default:
		return "Unknown"
	}
}

// Subject is the calling principal. An empty UserID means the caller is
// anonymous.
type Subject struct {
	UserID      string
	IsSiteAdmin bool
}

func (s Subject) Authenticated() bool {
	return s.UserID != ""
}

// Target describes a resource that has already been resolved from the
// datastore. Controllers must only build a Target after a successful
// lookup; a missing resource short-circuits to 404 before the gate runs.
type Target struct {
	Kind      string
	ID        string
	OwnerID   string // CreatedByUserID of the resource
	PartnerID string // owning community, when applicable
	EventID   string // for event-scoped resources
	CompanyID string // hauling company, for pickup operations
}

// Decision is the result of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
