// api/dao/team_dao.go
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

type TeamDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewTeamDAO(driver neo4j.Driver, auditService audit.Service) *TeamDAO {
	dao := &TeamDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *TeamDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_team_id IF NOT EXISTS
        FOR (t:TEAM) REQUIRE t.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

func teamProps(team model.Team) map[string]interface{} {
	return map[string]interface{}{
		"name":                team.Name,
		"description":         team.Description,
		"isActive":            team.IsActive,
		"version":             team.Version,
		"createdByUserId":     team.CreatedByUserID,
		"createdDate":         formatTime(team.CreatedDate),
		"lastUpdatedByUserId": team.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(team.LastUpdatedDate),
	}
}

func mapNodeToTeam(node neo4j.Node) *model.Team {
	return &model.Team{
		ID:                  nodeString(node, "id"),
		Name:                nodeString(node, "name"),
		Description:         nodeString(node, "description"),
		IsActive:            nodeBool(node, "isActive"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

// CreateTeam creates the team and enrolls the creator as lead member.
func (dao *TeamDAO) CreateTeam(ctx context.Context, team model.Team, userID string) (string, error) {
	logger.Info("Creating new team", zap.String("teamName", team.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if team.ID == "" {
		team.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})
        CREATE (t:TEAM {id: $id})
        SET t += $props
        CREATE (u)-[:MEMBER_OF {isLead: true, joinedDate: $now}]->(t)
        RETURN t.id
        `, map[string]interface{}{
			"id":     team.ID,
			"userId": userID,
			"now":    formatTime(time.Now()),
			"props":  teamProps(team),
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
		logger.Error("Failed to create team", zap.Error(err), zap.String("teamName", team.Name))
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_TEAM", team.ID)
	return team.ID, nil
}

func (dao *TeamDAO) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (t:TEAM {id: $id}) RETURN t`, map[string]interface{}{"id": teamID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToTeam(node), nil
		}
		return nil, api_errors.ErrTeamNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Team), nil
}

func (dao *TeamDAO) UpdateTeam(ctx context.Context, team model.Team, expectedVersion int, userID string) (*model.Team, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (t:TEAM {id: $id})
        WHERE t.version = $expectedVersion
        SET t += $props, t.version = $expectedVersion + 1
        RETURN t
        `, map[string]interface{}{
			"id":              team.ID,
			"expectedVersion": expectedVersion,
			"props":           teamProps(team),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToTeam(node), nil
		}

		checkRes, err := transaction.Run(`MATCH (t:TEAM {id: $id}) RETURN t.id`, map[string]interface{}{"id": team.ID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if checkRes.Next() {
			return nil, api_errors.ErrConcurrentModification
		}
		return nil, api_errors.ErrTeamNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, userID, "UPDATE_TEAM", team.ID)
	return result.(*model.Team), nil
}

func (dao *TeamDAO) SoftDeleteTeam(ctx context.Context, teamID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (t:TEAM {id: $id})
        WHERE t.isActive = true
        SET t.isActive = false,
            t.lastUpdatedByUserId = $userID,
            t.lastUpdatedDate = $now,
            t.version = t.version + 1
        RETURN t.id
        `, map[string]interface{}{
			"id":     teamID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrTeamNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_TEAM", teamID)
	return nil
}

func (dao *TeamDAO) ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (t:TEAM)
        WHERE t.isActive = true
        RETURN t
        ORDER BY t.name
        SKIP $offset LIMIT $limit
        `, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var teams []*model.Team
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			teams = append(teams, mapNodeToTeam(node))
		}
		return teams, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Team), nil
}

// IsNameAvailable reports whether a team name is free platform-wide.
func (dao *TeamDAO) IsNameAvailable(ctx context.Context, name, excludeID string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (t:TEAM)
        WHERE toLower(t.name) = toLower($name) AND t.isActive = true AND t.id <> $excludeId
        RETURN t.id
        `, map[string]interface{}{"name": strings.TrimSpace(name), "excludeId": excludeID})
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

func (dao *TeamDAO) AddMember(ctx context.Context, teamID, userID, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		existing, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[:MEMBER_OF]->(t:TEAM {id: $teamId})
        RETURN u.id
        `, map[string]interface{}{"teamId": teamID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, api_errors.ErrTeamMemberConflict
		}

		res, err := transaction.Run(`
        MATCH (t:TEAM {id: $teamId})
        MATCH (u:USER {id: $userId})
        CREATE (u)-[:MEMBER_OF {isLead: false, joinedDate: $now}]->(t)
        RETURN u.id
        `, map[string]interface{}{
			"teamId": teamID,
			"userId": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrUserNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *TeamDAO) RemoveMember(ctx context.Context, teamID, userID, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[r:MEMBER_OF]->(t:TEAM {id: $teamId})
        DELETE r
        `, map[string]interface{}{"teamId": teamID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().RelationshipsDeleted() == 0 {
			return nil, api_errors.ErrTeamMemberNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *TeamDAO) ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[r:MEMBER_OF]->(t:TEAM {id: $teamId})
        RETURN u.id, r.isLead, r.joinedDate
        ORDER BY r.joinedDate
        `, map[string]interface{}{"teamId": teamID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var members []*model.TeamMember
		for res.Next() {
			record := res.Record()
			member := &model.TeamMember{TeamID: teamID}
			if id, ok := record.Values[0].(string); ok {
				member.UserID = id
			}
			if isLead, ok := record.Values[1].(bool); ok {
				member.IsLead = isLead
			}
			if joined, ok := record.Values[2].(string); ok {
				member.JoinedDate = parseTime(joined)
			}
			members = append(members, member)
		}
		return members, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.TeamMember), nil
}

func photoProps(photo model.TeamPhoto) map[string]interface{} {
	return map[string]interface{}{
		"teamId":              photo.TeamID,
		"blobKey":             photo.BlobKey,
		"caption":             photo.Caption,
		"moderationStatus":    photo.ModerationStatus,
		"createdByUserId":     photo.CreatedByUserID,
		"createdDate":         formatTime(photo.CreatedDate),
		"lastUpdatedByUserId": photo.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(photo.LastUpdatedDate),
	}
}

func mapNodeToTeamPhoto(node neo4j.Node) *model.TeamPhoto {
	return &model.TeamPhoto{
		ID:                  nodeString(node, "id"),
		TeamID:              nodeString(node, "teamId"),
		BlobKey:             nodeString(node, "blobKey"),
		Caption:             nodeString(node, "caption"),
		ModerationStatus:    nodeString(node, "moderationStatus"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

func (dao *TeamDAO) CreatePhoto(ctx context.Context, photo model.TeamPhoto, userID string) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (t:TEAM {id: $teamId})
        CREATE (p:TEAM_PHOTO {id: $id})
        SET p += $props
        CREATE (p)-[:PHOTO_OF]->(t)
        RETURN p.id
        `, map[string]interface{}{
			"id":     photo.ID,
			"teamId": photo.TeamID,
			"props":  photoProps(photo),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrTeamNotFound
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_TEAM_PHOTO", photo.ID)
	return photo.ID, nil
}

func (dao *TeamDAO) GetPhoto(ctx context.Context, photoID string) (*model.TeamPhoto, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (p:TEAM_PHOTO {id: $id}) RETURN p`, map[string]interface{}{"id": photoID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToTeamPhoto(node), nil
		}
		return nil, api_errors.ErrTeamPhotoNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.TeamPhoto), nil
}

// ListPhotos returns a team's photos, optionally filtered by moderation
// status ("" returns all).
func (dao *TeamDAO) ListPhotos(ctx context.Context, teamID, status string) ([]*model.TeamPhoto, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:TEAM_PHOTO {teamId: $teamId})
        WHERE $status = '' OR p.moderationStatus = $status
        RETURN p
        ORDER BY p.createdDate DESC
        `
		res, err := transaction.Run(query, map[string]interface{}{"teamId": teamID, "status": status})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var photos []*model.TeamPhoto
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			photos = append(photos, mapNodeToTeamPhoto(node))
		}
		return photos, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.TeamPhoto), nil
}

// ListPhotosPendingModeration returns pending photos platform-wide for the
// moderation queue.
func (dao *TeamDAO) ListPhotosPendingModeration(ctx context.Context, limit, offset int) ([]*model.TeamPhoto, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:TEAM_PHOTO)
        WHERE p.moderationStatus = 'pending'
        RETURN p
        ORDER BY p.createdDate
        SKIP $offset LIMIT $limit
        `, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var photos []*model.TeamPhoto
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			photos = append(photos, mapNodeToTeamPhoto(node))
		}
		return photos, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.TeamPhoto), nil
}

func (dao *TeamDAO) SetPhotoStatus(ctx context.Context, photoID, status, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:TEAM_PHOTO {id: $id})
        SET p.moderationStatus = $status,
            p.lastUpdatedByUserId = $userID,
            p.lastUpdatedDate = $now
        RETURN p.id
        `, map[string]interface{}{
			"id":     photoID,
			"status": status,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrTeamPhotoNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "MODERATE_TEAM_PHOTO", photoID)
	return nil
}

func (dao *TeamDAO) DeletePhoto(ctx context.Context, photoID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (p:TEAM_PHOTO {id: $id})
        DETACH DELETE p
        `, map[string]interface{}{"id": photoID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, api_errors.ErrTeamPhotoNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_TEAM_PHOTO", photoID)
	return nil
}

func (dao *TeamDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "team",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
