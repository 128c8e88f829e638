// api/dao/partner_dao.go
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/audit"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

type PartnerDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewPartnerDAO(driver neo4j.Driver, auditService audit.Service) *PartnerDAO {
	dao := &PartnerDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *PartnerDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		for _, query := range []string{
			`CREATE CONSTRAINT unique_partner_id IF NOT EXISTS FOR (p:PARTNER) REQUIRE p.id IS UNIQUE`,
			`CREATE CONSTRAINT unique_partner_slug IF NOT EXISTS FOR (p:PARTNER) REQUIRE p.slug IS UNIQUE`,
		} {
			if _, err := transaction.Run(query, nil); err != nil {
				return nil, fmt.Errorf("failed to create unique constraint: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

func partnerProps(partner model.Partner) map[string]interface{} {
	return map[string]interface{}{
		"name":                partner.Name,
		"slug":                partner.Slug,
		"description":         partner.Description,
		"website":             partner.Website,
		"contactEmail":        partner.ContactEmail,
		"isActive":            partner.IsActive,
		"version":             partner.Version,
		"createdByUserId":     partner.CreatedByUserID,
		"createdDate":         formatTime(partner.CreatedDate),
		"lastUpdatedByUserId": partner.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(partner.LastUpdatedDate),
	}
}

func mapNodeToPartner(node neo4j.Node) *model.Partner {
	return &model.Partner{
		ID:                  nodeString(node, "id"),
		Name:                nodeString(node, "name"),
		Slug:                nodeString(node, "slug"),
		Description:         nodeString(node, "description"),
		Website:             nodeString(node, "website"),
		ContactEmail:        nodeString(node, "contactEmail"),
		IsActive:            nodeBool(node, "isActive"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

// CreatePartner creates the partner and records the creator as its first
// admin.
func (dao *PartnerDAO) CreatePartner(ctx context.Context, partner model.Partner, userID string) (string, error) {
	logger.Info("Creating new partner", zap.String("partnerName", partner.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:USER {id: $userId})
        CREATE (p:PARTNER {id: $id})
        SET p += $props
        CREATE (u)-[:ADMINISTERS {addedDate: $now}]->(p)
        RETURN p.id
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":     partner.ID,
			"userId": userID,
			"now":    formatTime(time.Now()),
			"props":  partnerProps(partner),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrUserNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to create partner", zap.Error(err), zap.String("partnerName", partner.Name))
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_PARTNER", partner.ID)
	return partner.ID, nil
}

func (dao *PartnerDAO) GetPartner(ctx context.Context, partnerID string) (*model.Partner, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (p:PARTNER {id: $id}) RETURN p`, map[string]interface{}{"id": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToPartner(node), nil
		}
		return nil, api_errors.ErrPartnerNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Partner), nil
}

func (dao *PartnerDAO) GetPartnerBySlug(ctx context.Context, slug string) (*model.Partner, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (p:PARTNER {slug: $slug}) WHERE p.isActive = true RETURN p`, map[string]interface{}{"slug": slug})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToPartner(node), nil
		}
		return nil, api_errors.ErrPartnerNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Partner), nil
}

func (dao *PartnerDAO) UpdatePartner(ctx context.Context, partner model.Partner, expectedVersion int, userID string) (*model.Partner, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:PARTNER {id: $id})
        WHERE p.version = $expectedVersion
        SET p += $props, p.version = $expectedVersion + 1
        RETURN p
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":              partner.ID,
			"expectedVersion": expectedVersion,
			"props":           partnerProps(partner),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToPartner(node), nil
		}

		checkRes, err := transaction.Run(`MATCH (p:PARTNER {id: $id}) RETURN p.id`, map[string]interface{}{"id": partner.ID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if checkRes.Next() {
			return nil, api_errors.ErrConcurrentModification
		}
		return nil, api_errors.ErrPartnerNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, userID, "UPDATE_PARTNER", partner.ID)
	return result.(*model.Partner), nil
}

func (dao *PartnerDAO) ListPartners(ctx context.Context, limit, offset int) ([]*model.Partner, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:PARTNER)
        WHERE p.isActive = true
        RETURN p
        ORDER BY p.name
        SKIP $offset LIMIT $limit
        `, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var partners []*model.Partner
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			partners = append(partners, mapNodeToPartner(node))
		}
		return partners, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Partner), nil
}

// IsSlugAvailable reports whether a slug is free. Blank slugs are never
// available and never hit the store.
func (dao *PartnerDAO) IsSlugAvailable(ctx context.Context, slug, excludeID string) (bool, error) {
	if strings.TrimSpace(slug) == "" {
		return false, nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:PARTNER)
        WHERE toLower(p.slug) = toLower($slug) AND p.id <> $excludeId
        RETURN p.id
        `, map[string]interface{}{"slug": strings.TrimSpace(slug), "excludeId": excludeID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return !res.Next(), nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (dao *PartnerDAO) AddAdmin(ctx context.Context, partnerID, userID, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:PARTNER {id: $partnerId})
        MATCH (u:USER {id: $userId})
        MERGE (u)-[r:ADMINISTERS]->(p)
        ON CREATE SET r.addedDate = $now
        RETURN u.id
        `, map[string]interface{}{
			"partnerId": partnerID,
			"userId":    userID,
			"now":       formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrUserNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, actingUserID, "ADD_PARTNER_ADMIN", partnerID)
	return nil
}

func (dao *PartnerDAO) RemoveAdmin(ctx context.Context, partnerID, userID, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[r:ADMINISTERS]->(p:PARTNER {id: $partnerId})
        DELETE r
        `, map[string]interface{}{"partnerId": partnerID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().RelationshipsDeleted() == 0 {
			return nil, api_errors.ErrPartnerAdminNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, actingUserID, "REMOVE_PARTNER_ADMIN", partnerID)
	return nil
}

func (dao *PartnerDAO) ListAdmins(ctx context.Context, partnerID string) ([]*model.PartnerAdmin, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[r:ADMINISTERS]->(p:PARTNER {id: $partnerId})
        RETURN u.id, r.addedDate
        ORDER BY r.addedDate
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var admins []*model.PartnerAdmin
		for res.Next() {
			record := res.Record()
			admin := &model.PartnerAdmin{PartnerID: partnerID}
			if id, ok := record.Values[0].(string); ok {
				admin.UserID = id
			}
			if added, ok := record.Values[1].(string); ok {
				admin.AddedDate = parseTime(added)
			}
			admins = append(admins, admin)
		}
		return admins, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.PartnerAdmin), nil
}

func sponsorProps(sponsor model.Sponsor) map[string]interface{} {
	return map[string]interface{}{
		"partnerId":           sponsor.PartnerID,
		"name":                sponsor.Name,
		"tier":                sponsor.Tier,
		"website":             sponsor.Website,
		"isActive":            sponsor.IsActive,
		"version":             sponsor.Version,
		"createdByUserId":     sponsor.CreatedByUserID,
		"createdDate":         formatTime(sponsor.CreatedDate),
		"lastUpdatedByUserId": sponsor.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(sponsor.LastUpdatedDate),
	}
}

func mapNodeToSponsor(node neo4j.Node) *model.Sponsor {
	return &model.Sponsor{
		ID:                  nodeString(node, "id"),
		PartnerID:           nodeString(node, "partnerId"),
		Name:                nodeString(node, "name"),
		Tier:                nodeString(node, "tier"),
		Website:             nodeString(node, "website"),
		IsActive:            nodeBool(node, "isActive"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

func (dao *PartnerDAO) CreateSponsor(ctx context.Context, sponsor model.Sponsor, userID string) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if sponsor.ID == "" {
		sponsor.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:PARTNER {id: $partnerId})
        CREATE (s:SPONSOR {id: $id})
        SET s += $props
        CREATE (s)-[:SPONSORS]->(p)
        RETURN s.id
        `, map[string]interface{}{
			"id":        sponsor.ID,
			"partnerId": sponsor.PartnerID,
			"props":     sponsorProps(sponsor),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrPartnerNotFound
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_SPONSOR", sponsor.ID)
	return sponsor.ID, nil
}

func (dao *PartnerDAO) GetSponsor(ctx context.Context, sponsorID string) (*model.Sponsor, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (s:SPONSOR {id: $id}) RETURN s`, map[string]interface{}{"id": sponsorID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToSponsor(node), nil
		}
		return nil, api_errors.ErrSponsorNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Sponsor), nil
}

func (dao *PartnerDAO) ListSponsors(ctx context.Context, partnerID string) ([]*model.Sponsor, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (s:SPONSOR {partnerId: $partnerId})
        WHERE s.isActive = true
        RETURN s
        ORDER BY s.name
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var sponsors []*model.Sponsor
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			sponsors = append(sponsors, mapNodeToSponsor(node))
		}
		return sponsors, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Sponsor), nil
}

// SoftDeleteSponsor flips IsActive off; repeat deletes report not found.
func (dao *PartnerDAO) SoftDeleteSponsor(ctx context.Context, sponsorID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (s:SPONSOR {id: $id})
        WHERE s.isActive = true
        SET s.isActive = false,
            s.lastUpdatedByUserId = $userID,
            s.lastUpdatedDate = $now,
            s.version = s.version + 1
        RETURN s.id
        `, map[string]interface{}{
			"id":     sponsorID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrSponsorNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_SPONSOR", sponsorID)
	return nil
}

func (dao *PartnerDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "partner",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
