// api/policy/authorizer.go
package policy

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/audit"
	logger "github.com/trashmob-eco/trashmob-api/logging"
)

// Relationships answers membership questions the gate cannot decide from
// the target alone. Implementations are read-only.
type Relationships interface {
	IsPartnerAdmin(ctx context.Context, partnerID, userID string) (bool, error)
	IsEventLead(ctx context.Context, eventID, userID string) (bool, error)
	IsCompanyUser(ctx context.Context, companyID, userID string) (bool, error)
}

// Authorizer decides Allow/Deny for a (subject, policy, target) triple.
// The check is pure with respect to resource state; it never mutates.
type Authorizer interface {
	Authorize(ctx context.Context, sub Subject, pol Policy, target Target) (Decision, error)
}

type authorizer struct {
	rel          Relationships
	auditService audit.Service
}

func NewAuthorizer(rel Relationships, auditService audit.Service) Authorizer {
	return &authorizer{rel: rel, auditService: auditService}
}

func (a *authorizer) Authorize(ctx context.Context, sub Subject, pol Policy, target Target) (Decision, error) {
	decision, err := a.evaluate(ctx, sub, pol, target)
	if err != nil {
		return Decision{}, err
	}

	a.record(ctx, sub, pol, target, decision)
	return decision, nil
}

func (a *authorizer) evaluate(ctx context.Context, sub Subject, pol Policy, target Target) (Decision, error) {
	// Every policy requires an authenticated caller. An anonymous caller on
	// a gated endpoint is an automatic deny, surfaced as 403 by callers.
	if !sub.Authenticated() {
		return deny("caller is not authenticated"), nil
	}

	switch pol {
	case ValidUser:
		return allow(), nil

	case UserIsAdmin:
		if sub.IsSiteAdmin {
			return allow(), nil
		}
		return deny("caller is not a site admin"), nil

	case UserOwnsEntity:
		if sub.UserID == target.OwnerID {
			return allow(), nil
		}
		return deny("caller does not own this " + target.Kind), nil

	case UserOwnsEntityOrIsAdmin:
		if sub.IsSiteAdmin || sub.UserID == target.OwnerID {
			return allow(), nil
		}
		return deny("caller does not own this " + target.Kind + " and is not a site admin"), nil

	case UserIsPartnerUserOrIsAdmin:
		if sub.IsSiteAdmin {
			return allow(), nil
		}
		isAdmin, err := a.rel.IsPartnerAdmin(ctx, target.PartnerID, sub.UserID)
		if err != nil {
			return Decision{}, err
		}
		if isAdmin {
			return allow(), nil
		}
		return deny("caller does not administer this community"), nil

	case UserIsEventLead:
		if sub.UserID == target.OwnerID {
			return allow(), nil
		}
		eventID := target.EventID
		if eventID == "" {
			eventID = target.ID
		}
		isLead, err := a.rel.IsEventLead(ctx, eventID, sub.UserID)
		if err != nil {
			return Decision{}, err
		}
		if isLead {
			return allow(), nil
		}
		return deny("caller does not lead this event"), nil

	case UserIsProfessionalCompanyUserOrIsAdmin:
		if sub.IsSiteAdmin {
			return allow(), nil
		}
		isCompanyUser, err := a.rel.IsCompanyUser(ctx, target.CompanyID, sub.UserID)
		if err != nil {
			return Decision{}, err
		}
		if isCompanyUser {
			return allow(), nil
		}
		return deny("caller does not belong to the servicing company"), nil

	default:
		return deny("unknown policy"), nil
	}
}

// record writes the decision to the audit trail. Audit failures never fail
// the request.
func (a *authorizer) record(ctx context.Context, sub Subject, pol Policy, target Target, decision Decision) {
	if a.auditService == nil {
		return
	}
	entry := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        sub.UserID,
		Action:        pol.String(),
		ResourceType:  target.Kind,
		ResourceID:    target.ID,
		AccessGranted: decision.Allowed,
		Reason:        decision.Reason,
	}
	if err := a.auditService.LogAccess(ctx, entry); err != nil {
		logger.Warn("Failed to write authorization audit entry",
			zap.Error(err),
			zap.String("userID", sub.UserID),
			zap.String("policy", pol.String()))
	}
}
