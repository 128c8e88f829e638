// api/policy/authorizer_test.go
package policy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmock "github.com/stretchr/testify/mock"

	"github.com/trashmob-eco/trashmob-api/audit"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/test/mock"
)

var allPolicies = []policy.Policy{
	policy.ValidUser,
	policy.UserOwnsEntity,
	policy.UserOwnsEntityOrIsAdmin,
	policy.UserIsAdmin,
	policy.UserIsPartnerUserOrIsAdmin,
	policy.UserIsEventLead,
	policy.UserIsProfessionalCompanyUserOrIsAdmin,
}

func TestAuthorize_AnonymousIsDeniedEverything(t *testing.T) {
	authz := policy.NewAuthorizer(&mock.Relationships{PartnerAdmin: true, EventLead: true, CompanyUser: true}, nil)
	target := policy.Target{Kind: "team", ID: "t1", OwnerID: "u1"}

	for _, pol := range allPolicies {
		decision, err := authz.Authorize(context.Background(), policy.Subject{}, pol, target)
		require.NoError(t, err, pol.String())
		assert.False(t, decision.Allowed, pol.String())
	}
}

func TestAuthorize_ValidUser(t *testing.T) {
	authz := policy.NewAuthorizer(&mock.Relationships{}, nil)

	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.ValidUser, policy.Target{Kind: "team"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestAuthorize_UserIsAdmin(t *testing.T) {
	authz := policy.NewAuthorizer(&mock.Relationships{}, nil)
	target := policy.Target{Kind: "invite"}

	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1", IsSiteAdmin: true}, policy.UserIsAdmin, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.UserIsAdmin, target)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.NotEmpty(t, decision.Reason)
}

func TestAuthorize_Ownership(t *testing.T) {
	authz := policy.NewAuthorizer(&mock.Relationships{}, nil)
	target := policy.Target{Kind: "team", ID: "t1", OwnerID: "owner"}

	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "owner"}, policy.UserOwnsEntity, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "other"}, policy.UserOwnsEntity, target)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// Admin does not bypass plain ownership.
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "other", IsSiteAdmin: true}, policy.UserOwnsEntity, target)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// But it does bypass the OrIsAdmin variant.
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "other", IsSiteAdmin: true}, policy.UserOwnsEntityOrIsAdmin, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestAuthorize_PartnerUser(t *testing.T) {
	target := policy.Target{Kind: "area", ID: "a1", PartnerID: "p1"}

	authz := policy.NewAuthorizer(&mock.Relationships{PartnerAdmin: true}, nil)
	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.UserIsPartnerUserOrIsAdmin, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	authz = policy.NewAuthorizer(&mock.Relationships{}, nil)
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.UserIsPartnerUserOrIsAdmin, target)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)

	// Site admins skip the relationship lookup entirely.
	authz = policy.NewAuthorizer(&mock.Relationships{Err: errors.New("lookup should not run")}, nil)
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "u1", IsSiteAdmin: true}, policy.UserIsPartnerUserOrIsAdmin, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestAuthorize_EventLead(t *testing.T) {
	target := policy.Target{Kind: "event", ID: "e1", OwnerID: "creator"}

	// The creator leads without a lookup.
	authz := policy.NewAuthorizer(&mock.Relationships{Err: errors.New("lookup should not run")}, nil)
	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "creator"}, policy.UserIsEventLead, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	authz = policy.NewAuthorizer(&mock.Relationships{EventLead: true}, nil)
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "colead"}, policy.UserIsEventLead, target)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	authz = policy.NewAuthorizer(&mock.Relationships{}, nil)
	decision, err = authz.Authorize(context.Background(), policy.Subject{UserID: "attendee"}, policy.UserIsEventLead, target)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestAuthorize_RelationshipErrorPropagates(t *testing.T) {
	authz := policy.NewAuthorizer(&mock.Relationships{Err: errors.New("bolt connection lost")}, nil)
	target := policy.Target{Kind: "area", PartnerID: "p1"}

	_, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.UserIsPartnerUserOrIsAdmin, target)
	assert.Error(t, err)
}

func TestAuthorize_RecordsDecision(t *testing.T) {
	logger.InitLogger("../logging")

	auditService := new(mock.MockAuditService)
	auditService.On("LogAccess", tmock.Anything, tmock.MatchedBy(func(entry audit.AuditLog) bool {
		return entry.UserID == "u1" && entry.ResourceType == "team" && entry.AccessGranted
	})).Return(nil)

	authz := policy.NewAuthorizer(&mock.Relationships{}, auditService)
	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.ValidUser, policy.Target{Kind: "team", ID: "t1"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	auditService.AssertExpectations(t)
}

func TestAuthorize_AuditFailureDoesNotFailTheCheck(t *testing.T) {
	logger.InitLogger("../logging")

	auditService := new(mock.MockAuditService)
	auditService.On("LogAccess", tmock.Anything, tmock.Anything).Return(errors.New("elasticsearch down"))

	authz := policy.NewAuthorizer(&mock.Relationships{}, auditService)
	decision, err := authz.Authorize(context.Background(), policy.Subject{UserID: "u1"}, policy.ValidUser, policy.Target{Kind: "team"})
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}
