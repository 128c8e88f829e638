// api/dao/user_dao.go
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

type UserDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewUserDAO(driver neo4j.Driver, auditService audit.Service) *UserDAO {
	dao := &UserDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *UserDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_user_id IF NOT EXISTS
        FOR (u:USER) REQUIRE u.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

func userProps(user model.User) map[string]interface{} {
	return map[string]interface{}{
		"userName":            user.UserName,
		"email":               user.Email,
		"city":                user.City,
		"region":              user.Region,
		"isSiteAdmin":         user.IsSiteAdmin,
		"memberSince":         formatTime(user.MemberSince),
		"dateAgreedToWaiver":  formatTime(user.DateAgreedToWaiver),
		"createdByUserId":     user.CreatedByUserID,
		"createdDate":         formatTime(user.CreatedDate),
		"lastUpdatedByUserId": user.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(user.LastUpdatedDate),
	}
}

func mapNodeToUser(node neo4j.Node) *model.User {
	return &model.User{
		ID:                  nodeString(node, "id"),
		UserName:            nodeString(node, "userName"),
		Email:               nodeString(node, "email"),
		City:                nodeString(node, "city"),
		Region:              nodeString(node, "region"),
		IsSiteAdmin:         nodeBool(node, "isSiteAdmin"),
		MemberSince:         nodeTime(node, "memberSince"),
		DateAgreedToWaiver:  nodeTime(node, "dateAgreedToWaiver"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

func (dao *UserDAO) CreateUser(ctx context.Context, user model.User) (string, error) {
	logger.Info("Creating new user", zap.String("userName", user.UserName))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		existing, err := transaction.Run(`
        MATCH (u:USER)
        WHERE toLower(u.email) = toLower($email) OR toLower(u.userName) = toLower($userName)
        RETURN u.id
        `, map[string]interface{}{"email": user.Email, "userName": user.UserName})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, api_errors.ErrUserConflict
		}

		_, err = transaction.Run(`
        CREATE (u:USER {id: $id})
        SET u += $props
        `, map[string]interface{}{"id": user.ID, "props": userProps(user)})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to create user", zap.Error(err), zap.String("userName", user.UserName))
		return "", err
	}

	dao.writeAudit(ctx, user.ID, "CREATE_USER", user.ID)
	return user.ID, nil
}

func (dao *UserDAO) GetUser(ctx context.Context, userID string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (u:USER {id: $id}) RETURN u`, map[string]interface{}{"id": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToUser(node), nil
		}
		return nil, api_errors.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)
        WHERE toLower(u.email) = toLower($email)
        RETURN u
        `, map[string]interface{}{"email": email})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToUser(node), nil
		}
		return nil, api_errors.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

func (dao *UserDAO) UpdateUser(ctx context.Context, user model.User, actingUserID string) (*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $id})
        SET u += $props
        RETURN u
        `, map[string]interface{}{"id": user.ID, "props": userProps(user)})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToUser(node), nil
		}
		return nil, api_errors.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, actingUserID, "UPDATE_USER", user.ID)
	return result.(*model.User), nil
}

// DeleteUser removes the user node and every relationship it holds. Invites
// and signatures created by the user are kept for audit purposes.
func (dao *UserDAO) DeleteUser(ctx context.Context, userID string, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $id})
        DETACH DELETE u
        `, map[string]interface{}{"id": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, api_errors.ErrUserNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, actingUserID, "DELETE_USER", userID)
	return nil
}

func (dao *UserDAO) SearchUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	var conditions []string
	params := map[string]interface{}{
		"limit":  criteria.Limit,
		"offset": criteria.Offset,
	}
	if criteria.UserName != "" {
		conditions = append(conditions, "toLower(u.userName) CONTAINS toLower($userName)")
		params["userName"] = criteria.UserName
	}
	if criteria.Email != "" {
		conditions = append(conditions, "toLower(u.email) = toLower($email)")
		params["email"] = criteria.Email
	}
	if criteria.City != "" {
		conditions = append(conditions, "toLower(u.city) = toLower($city)")
		params["city"] = criteria.City
	}
	if criteria.Region != "" {
		conditions = append(conditions, "toLower(u.region) = toLower($region)")
		params["region"] = criteria.Region
	}

	query := "MATCH (u:USER)"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " RETURN u ORDER BY u.userName SKIP $offset LIMIT $limit"

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(query, params)
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var users []*model.User
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			users = append(users, mapNodeToUser(node))
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.User), nil
}

func (dao *UserDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "user",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
