// api/dao/newsletter_dao.go
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/audit"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

type NewsletterDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewNewsletterDAO(driver neo4j.Driver, auditService audit.Service) *NewsletterDAO {
	dao := &NewsletterDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *NewsletterDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_subscription_email IF NOT EXISTS
        FOR (s:NEWSLETTER_SUBSCRIPTION) REQUIRE s.email IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

// Subscribe upserts by email: re-subscribing an unsubscribed address simply
// reactivates it.
func (dao *NewsletterDAO) Subscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		_, err := transaction.Run(`
        MERGE (s:NEWSLETTER_SUBSCRIPTION {email: $email})
        ON CREATE SET s.subscribedDate = $now
        SET s.isActive = true
        `, map[string]interface{}{"email": normalized, "now": formatTime(time.Now())})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to subscribe email", zap.Error(err))
		return err
	}

	dao.writeAudit(ctx, "", "NEWSLETTER_SUBSCRIBE", normalized)
	return nil
}

func (dao *NewsletterDAO) Unsubscribe(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (s:NEWSLETTER_SUBSCRIPTION {email: $email})
        WHERE s.isActive = true
        SET s.isActive = false
        RETURN s.email
        `, map[string]interface{}{"email": normalized})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrSubscriptionNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, "", "NEWSLETTER_UNSUBSCRIBE", normalized)
	return nil
}

func (dao *NewsletterDAO) ListSubscribers(ctx context.Context, limit, offset int) ([]*model.NewsletterSubscription, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (s:NEWSLETTER_SUBSCRIPTION)
        WHERE s.isActive = true
        RETURN s
        ORDER BY s.subscribedDate
        SKIP $offset LIMIT $limit
        `, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var subs []*model.NewsletterSubscription
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			subs = append(subs, &model.NewsletterSubscription{
				Email:          nodeString(node, "email"),
				IsActive:       nodeBool(node, "isActive"),
				SubscribedDate: nodeTime(node, "subscribedDate"),
			})
		}
		return subs, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.NewsletterSubscription), nil
}

func (dao *NewsletterDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "newsletter",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
