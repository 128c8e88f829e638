// test/mock/relationships.go
package mock

import "context"

// Relationships is a canned-answer implementation of policy.Relationships.
type Relationships struct {
	PartnerAdmin bool
	EventLead    bool
	CompanyUser  bool
	Err          error
}

func (r *Relationships) IsPartnerAdmin(ctx context.Context, partnerID, userID string) (bool, error) {
	return r.PartnerAdmin, r.Err
}

func (r *Relationships) IsEventLead(ctx context.Context, eventID, userID string) (bool, error) {
	return r.EventLead, r.Err
}

func (r *Relationships) IsCompanyUser(ctx context.Context, companyID, userID string) (bool, error) {
	return r.CompanyUser, r.Err
}
