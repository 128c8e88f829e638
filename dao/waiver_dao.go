// api/dao/waiver_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/audit"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

type WaiverDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewWaiverDAO(driver neo4j.Driver, auditService audit.Service) *WaiverDAO {
	dao := &WaiverDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *WaiverDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_waiver_id IF NOT EXISTS
        FOR (w:WAIVER) REQUIRE w.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

func waiverProps(waiver model.Waiver) map[string]interface{} {
	return map[string]interface{}{
		"partnerId":           waiver.PartnerID,
		"name":                waiver.Name,
		"documentVersion":     waiver.DocumentVersion,
		"effectiveDate":       formatTime(waiver.EffectiveDate),
		"isActive":            waiver.IsActive,
		"version":             waiver.Version,
		"createdByUserId":     waiver.CreatedByUserID,
		"createdDate":         formatTime(waiver.CreatedDate),
		"lastUpdatedByUserId": waiver.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(waiver.LastUpdatedDate),
	}
}

func mapNodeToWaiver(node neo4j.Node) *model.Waiver {
	return &model.Waiver{
		ID:                  nodeString(node, "id"),
		PartnerID:           nodeString(node, "partnerId"),
		Name:                nodeString(node, "name"),
		DocumentVersion:     nodeString(node, "documentVersion"),
		EffectiveDate:       nodeTime(node, "effectiveDate"),
		IsActive:            nodeBool(node, "isActive"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

// CreateWaiver attaches the waiver to its partner; a missing partner is the
// caller's 404.
func (dao *WaiverDAO) CreateWaiver(ctx context.Context, waiver model.Waiver, userID string) (string, error) {
	logger.Info("Creating new waiver", zap.String("waiverName", waiver.Name), zap.String("partnerID", waiver.PartnerID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if waiver.ID == "" {
		waiver.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:PARTNER {id: $partnerId})
        CREATE (w:WAIVER {id: $id})
        SET w += $props
        CREATE (w)-[:REQUIRED_BY]->(p)
        RETURN w.id
        `, map[string]interface{}{
			"id":        waiver.ID,
			"partnerId": waiver.PartnerID,
			"props":     waiverProps(waiver),
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
		logger.Error("Failed to create waiver", zap.Error(err), zap.String("waiverName", waiver.Name))
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_WAIVER", waiver.ID)
	return waiver.ID, nil
}

func (dao *WaiverDAO) GetWaiver(ctx context.Context, waiverID string) (*model.Waiver, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (w:WAIVER {id: $id}) RETURN w`, map[string]interface{}{"id": waiverID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToWaiver(node), nil
		}
		return nil, api_errors.ErrWaiverNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Waiver), nil
}

func (dao *WaiverDAO) UpdateWaiver(ctx context.Context, waiver model.Waiver, expectedVersion int, userID string) (*model.Waiver, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (w:WAIVER {id: $id})
        WHERE w.version = $expectedVersion
        SET w += $props, w.version = $expectedVersion + 1
        RETURN w
        `, map[string]interface{}{
			"id":              waiver.ID,
			"expectedVersion": expectedVersion,
			"props":           waiverProps(waiver),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToWaiver(node), nil
		}

		checkRes, err := transaction.Run(`MATCH (w:WAIVER {id: $id}) RETURN w.id`, map[string]interface{}{"id": waiver.ID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if checkRes.Next() {
			return nil, api_errors.ErrConcurrentModification
		}
		return nil, api_errors.ErrWaiverNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, userID, "UPDATE_WAIVER", waiver.ID)
	return result.(*model.Waiver), nil
}

func (dao *WaiverDAO) SoftDeleteWaiver(ctx context.Context, waiverID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (w:WAIVER {id: $id})
        WHERE w.isActive = true
        SET w.isActive = false,
            w.lastUpdatedByUserId = $userID,
            w.lastUpdatedDate = $now,
            w.version = w.version + 1
        RETURN w.id
        `, map[string]interface{}{
			"id":     waiverID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrWaiverNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_WAIVER", waiverID)
	return nil
}

func (dao *WaiverDAO) ListWaiversByPartner(ctx context.Context, partnerID string) ([]*model.Waiver, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (w:WAIVER)-[:REQUIRED_BY]->(p:PARTNER {id: $partnerId})
        WHERE w.isActive = true
        RETURN w
        ORDER BY w.effectiveDate DESC
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var waivers []*model.Waiver
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			waivers = append(waivers, mapNodeToWaiver(node))
		}
		return waivers, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Waiver), nil
}

// SignWaiver records a user's signature. A user signs a given waiver at most
// once; re-signing is a conflict.
func (dao *WaiverDAO) SignWaiver(ctx context.Context, signature model.WaiverSignature) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		existing, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[:SIGNED]->(w:WAIVER {id: $waiverId})
        RETURN u.id
        `, map[string]interface{}{"waiverId": signature.WaiverID, "userId": signature.UserID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, api_errors.ErrSignatureConflict
		}

		res, err := transaction.Run(`
        MATCH (w:WAIVER {id: $waiverId})
        MATCH (u:USER {id: $userId})
        CREATE (u)-[:SIGNED {fullName: $fullName, signedDate: $signedDate}]->(w)
        RETURN u.id
        `, map[string]interface{}{
			"waiverId":   signature.WaiverID,
			"userId":     signature.UserID,
			"fullName":   signature.FullName,
			"signedDate": formatTime(signature.SignedDate),
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

	dao.writeAudit(ctx, signature.UserID, "SIGN_WAIVER", signature.WaiverID)
	return nil
}

func (dao *WaiverDAO) ListSignatures(ctx context.Context, waiverID string) ([]*model.WaiverSignature, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[r:SIGNED]->(w:WAIVER {id: $waiverId})
        RETURN u.id, r.fullName, r.signedDate
        ORDER BY r.signedDate
        `, map[string]interface{}{"waiverId": waiverID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var signatures []*model.WaiverSignature
		for res.Next() {
			record := res.Record()
			sig := &model.WaiverSignature{WaiverID: waiverID}
			if id, ok := record.Values[0].(string); ok {
				sig.UserID = id
			}
			if name, ok := record.Values[1].(string); ok {
				sig.FullName = name
			}
			if signed, ok := record.Values[2].(string); ok {
				sig.SignedDate = parseTime(signed)
			}
			signatures = append(signatures, sig)
		}
		return signatures, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.WaiverSignature), nil
}

// HasSigned reports whether the user has signed any active waiver of the
// partner.
func (dao *WaiverDAO) HasSigned(ctx context.Context, partnerID, userID string) (bool, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[:SIGNED]->(w:WAIVER)-[:REQUIRED_BY]->(p:PARTNER {id: $partnerId})
        WHERE w.isActive = true
        RETURN u.id
        `, map[string]interface{}{"partnerId": partnerID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return res.Next(), nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// ComplianceRows returns one row per active waiver signature under the
// partner, shaped for the compliance CSV export.
func (dao *WaiverDAO) ComplianceRows(ctx context.Context, partnerID string) ([][]string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[r:SIGNED]->(w:WAIVER)-[:REQUIRED_BY]->(p:PARTNER {id: $partnerId})
        WHERE w.isActive = true
        RETURN w.name, w.documentVersion, u.userName, u.email, r.fullName, r.signedDate
        ORDER BY w.name, r.signedDate
        `, map[string]interface{}{"partnerId": partnerID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var rows [][]string
		for res.Next() {
			record := res.Record()
			row := make([]string, len(record.Values))
			for i, v := range record.Values {
				if s, ok := v.(string); ok {
					row[i] = s
				}
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([][]string), nil
}

func (dao *WaiverDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "waiver",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
