// api/dao/relationship_dao.go
package dao

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
)

// RelationshipDAO answers the membership questions the authorization gate
// asks. All queries are read-only.
type RelationshipDAO struct {
	Driver neo4j.Driver
}

func NewRelationshipDAO(driver neo4j.Driver) *RelationshipDAO {
	return &RelationshipDAO{Driver: driver}
}

func (dao *RelationshipDAO) exists(ctx context.Context, query string, params map[string]interface{}) (bool, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(query, params)
		if err != nil {
			return false, api_errors.ErrDatabaseOperation
		}
		return res.Next(), nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

func (dao *RelationshipDAO) IsPartnerAdmin(ctx context.Context, partnerID, userID string) (bool, error) {
	if partnerID == "" || userID == "" {
		return false, nil
	}
	query := `
    MATCH (u:USER {id: $userID})-[:ADMINISTERS]->(p:PARTNER {id: $partnerID})
    RETURN u.id
    `
	return dao.exists(ctx, query, map[string]interface{}{"partnerID": partnerID, "userID": userID})
}

func (dao *RelationshipDAO) IsEventLead(ctx context.Context, eventID, userID string) (bool, error) {
	if eventID == "" || userID == "" {
		return false, nil
	}
	query := `
    MATCH (u:USER {id: $userID})-[r:ATTENDS]->(e:EVENT {id: $eventID})
    WHERE r.isLead = true
    RETURN u.id
    `
	return dao.exists(ctx, query, map[string]interface{}{"eventID": eventID, "userID": userID})
}

func (dao *RelationshipDAO) IsCompanyUser(ctx context.Context, companyID, userID string) (bool, error) {
	if companyID == "" || userID == "" {
		return false, nil
	}
	query := `
    MATCH (u:USER {id: $userID})-[:WORKS_FOR]->(c:COMPANY {id: $companyID})
    RETURN u.id
    `
	return dao.exists(ctx, query, map[string]interface{}{"companyID": companyID, "userID": userID})
}
