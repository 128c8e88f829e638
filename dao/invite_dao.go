// api/dao/invite_dao.go
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

type InviteDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewInviteDAO(driver neo4j.Driver, auditService audit.Service) *InviteDAO {
	dao := &InviteDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *InviteDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_invite_id IF NOT EXISTS
        FOR (i:USER_INVITE) REQUIRE i.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

// CountInvitesSince counts invites sent by the user on or after the cutoff.
// The monthly quota check reads this before a batch is written.
func (dao *InviteDAO) CountInvitesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (i:USER_INVITE)
        WHERE i.createdByUserId = $userId AND i.createdDate >= $since
        RETURN count(i)
        `, map[string]interface{}{"userId": userID, "since": formatTime(since)})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			if n, ok := res.Record().Values[0].(int64); ok {
				return int(n), nil
			}
		}
		return 0, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// CreateBatch persists the batch node and one invite node per email in a
// single transaction.
func (dao *InviteDAO) CreateBatch(ctx context.Context, batch model.InviteBatch, invites []model.UserInvite) (string, error) {
	logger.Info("Creating invite batch", zap.String("sentByUserID", batch.SentByUserID), zap.Int("totalCount", batch.TotalCount))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	inviteParams := make([]map[string]interface{}, 0, len(invites))
	for _, inv := range invites {
		if inv.ID == "" {
			inv.ID = uuid.New().String()
		}
		inviteParams = append(inviteParams, map[string]interface{}{
			"id":              inv.ID,
			"email":           inv.Email,
			"status":          inv.Status,
			"sentDate":        formatTime(inv.SentDate),
			"createdByUserId": inv.CreatedByUserID,
			"createdDate":     formatTime(inv.CreatedDate),
		})
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		_, err := transaction.Run(`
        CREATE (b:INVITE_BATCH {id: $id})
        SET b.sentByUserId = $sentByUserId,
            b.totalCount = $totalCount,
            b.sentCount = $sentCount,
            b.failedCount = $failedCount,
            b.createdDate = $createdDate
        WITH b
        UNWIND $invites AS inv
        CREATE (i:USER_INVITE {id: inv.id})
        SET i.batchId = b.id,
            i.email = inv.email,
            i.status = inv.status,
            i.sentDate = inv.sentDate,
            i.createdByUserId = inv.createdByUserId,
            i.createdDate = inv.createdDate
        CREATE (i)-[:PART_OF]->(b)
        `, map[string]interface{}{
			"id":           batch.ID,
			"sentByUserId": batch.SentByUserID,
			"totalCount":   batch.TotalCount,
			"sentCount":    batch.SentCount,
			"failedCount":  batch.FailedCount,
			"createdDate":  formatTime(batch.CreatedDate),
			"invites":      inviteParams,
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to create invite batch", zap.Error(err))
		return "", err
	}

	dao.writeAudit(ctx, batch.SentByUserID, "CREATE_INVITE_BATCH", batch.ID)
	return batch.ID, nil
}

func (dao *InviteDAO) GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (b:INVITE_BATCH {id: $id}) RETURN b`, map[string]interface{}{"id": batchID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return &model.InviteBatch{
				ID:           nodeString(node, "id"),
				SentByUserID: nodeString(node, "sentByUserId"),
				TotalCount:   nodeInt(node, "totalCount"),
				SentCount:    nodeInt(node, "sentCount"),
				FailedCount:  nodeInt(node, "failedCount"),
				CreatedDate:  nodeTime(node, "createdDate"),
			}, nil
		}
		return nil, api_errors.ErrInviteNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.InviteBatch), nil
}

// UpdateBatchCounts records the per-batch send outcome after delivery.
func (dao *InviteDAO) UpdateBatchCounts(ctx context.Context, batchID string, sentCount, failedCount int) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (b:INVITE_BATCH {id: $id})
        SET b.sentCount = $sentCount, b.failedCount = $failedCount
        RETURN b.id
        `, map[string]interface{}{"id": batchID, "sentCount": sentCount, "failedCount": failedCount})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrInviteNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *InviteDAO) SetInviteStatus(ctx context.Context, inviteID, status string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (i:USER_INVITE {id: $id})
        SET i.status = $status, i.sentDate = $now
        RETURN i.id
        `, map[string]interface{}{"id": inviteID, "status": status, "now": formatTime(time.Now())})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrInviteNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *InviteDAO) ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (i:USER_INVITE)-[:PART_OF]->(b:INVITE_BATCH {id: $batchId})
        RETURN i
        ORDER BY i.email
        `, map[string]interface{}{"batchId": batchID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var invites []*model.UserInvite
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			invites = append(invites, &model.UserInvite{
				ID:              nodeString(node, "id"),
				BatchID:         nodeString(node, "batchId"),
				Email:           nodeString(node, "email"),
				Status:          nodeString(node, "status"),
				SentDate:        nodeTime(node, "sentDate"),
				CreatedByUserID: nodeString(node, "createdByUserId"),
				CreatedDate:     nodeTime(node, "createdDate"),
			})
		}
		return invites, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.UserInvite), nil
}

// DeleteInvite hard-deletes a single invite.
func (dao *InviteDAO) DeleteInvite(ctx context.Context, inviteID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (i:USER_INVITE {id: $id})
        DETACH DELETE i
        `, map[string]interface{}{"id": inviteID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, api_errors.ErrInviteNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_INVITE", inviteID)
	return nil
}

func (dao *InviteDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "invite",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
