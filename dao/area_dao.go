// api/dao/area_dao.go
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

type AreaDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewAreaDAO(driver neo4j.Driver, auditService audit.Service) *AreaDAO {
	dao := &AreaDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the Area ID
func (dao *AreaDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_area_id IF NOT EXISTS
        FOR (a:AREA) REQUIRE a.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

func areaProps(area model.Area) map[string]interface{} {
	return map[string]interface{}{
		"partnerId":           area.PartnerID,
		"name":                area.Name,
		"description":         area.Description,
		"notes":               area.Notes,
		"adoptedByTeamId":     area.AdoptedByTeamID,
		"isActive":            area.IsActive,
		"version":             area.Version,
		"createdByUserId":     area.CreatedByUserID,
		"createdDate":         formatTime(area.CreatedDate),
		"lastUpdatedByUserId": area.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(area.LastUpdatedDate),
	}
}

func mapNodeToArea(node neo4j.Node) *model.Area {
	return &model.Area{
		ID:                  nodeString(node, "id"),
		PartnerID:           nodeString(node, "partnerId"),
		Name:                nodeString(node, "name"),
		Description:         nodeString(node, "description"),
		Notes:               nodeString(node, "notes"),
		AdoptedByTeamID:     nodeString(node, "adoptedByTeamId"),
		IsActive:            nodeBool(node, "isActive"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

// CreateArea creates a new area node linked to its partner
func (dao *AreaDAO) CreateArea(ctx context.Context, area model.Area, userID string) (string, error) {
	logger.Info("Creating new area", zap.String("areaName", area.Name), zap.String("partnerID", area.PartnerID))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if area.ID == "" {
		area.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:PARTNER {id: $partnerId})
        CREATE (a:AREA {id: $id})
        SET a += $props
        CREATE (a)-[:BELONGS_TO]->(p)
        RETURN a.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":        area.ID,
			"partnerId": area.PartnerID,
			"props":     areaProps(area),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !result.Next() {
			return nil, api_errors.ErrPartnerNotFound
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to create area", zap.Error(err), zap.String("areaName", area.Name))
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_AREA", area.ID)
	return area.ID, nil
}

// GetArea retrieves an area by its ID. Inactive areas are still returned;
// callers decide whether soft-deleted records count.
func (dao *AreaDAO) GetArea(ctx context.Context, areaID string) (*model.Area, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {id: $id})
        RETURN a
        `
		res, err := transaction.Run(query, map[string]interface{}{"id": areaID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToArea(node), nil
		}
		return nil, api_errors.ErrAreaNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Area), nil
}

// UpdateArea writes the merged area back, guarded by the optimistic
// concurrency token. The caller supplies the version it read.
func (dao *AreaDAO) UpdateArea(ctx context.Context, area model.Area, expectedVersion int, userID string) (*model.Area, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {id: $id})
        WHERE a.version = $expectedVersion
        SET a += $props, a.version = $expectedVersion + 1
        RETURN a
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":              area.ID,
			"expectedVersion": expectedVersion,
			"props":           areaProps(area),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToArea(node), nil
		}

		// No row matched: either the area is gone or the token is stale.
		checkRes, err := transaction.Run(`MATCH (a:AREA {id: $id}) RETURN a.id`, map[string]interface{}{"id": area.ID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if checkRes.Next() {
			return nil, api_errors.ErrConcurrentModification
		}
		return nil, api_errors.ErrAreaNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, userID, "UPDATE_AREA", area.ID)
	return result.(*model.Area), nil
}

// SoftDeleteArea flips IsActive off. Deleting an already-inactive area
// reports not found.
func (dao *AreaDAO) SoftDeleteArea(ctx context.Context, areaID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {id: $id})
        WHERE a.isActive = true
        SET a.isActive = false,
            a.lastUpdatedByUserId = $userID,
            a.lastUpdatedDate = $now,
            a.version = a.version + 1
        RETURN a.id
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":     areaID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrAreaNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_AREA", areaID)
	return nil
}

// ListAreasByPartner returns active areas for a partner
func (dao *AreaDAO) ListAreasByPartner(ctx context.Context, partnerID string, limit, offset int) ([]*model.Area, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {partnerId: $partnerId})
        WHERE a.isActive = true
        RETURN a
        ORDER BY a.name
        SKIP $offset LIMIT $limit
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"partnerId": partnerID,
			"offset":    offset,
			"limit":     limit,
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var areas []*model.Area
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			areas = append(areas, mapNodeToArea(node))
		}
		return areas, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Area), nil
}

// IsNameAvailable reports whether an area name is free within a partner.
// Blank names are never available and never hit the store. excludeID lets
// update-in-place skip the record that already owns the name.
func (dao *AreaDAO) IsNameAvailable(ctx context.Context, partnerID, name, excludeID string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {partnerId: $partnerId})
        WHERE toLower(a.name) = toLower($name) AND a.isActive = true AND a.id <> $excludeId
        RETURN a.id
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"partnerId": partnerID,
			"name":      strings.TrimSpace(name),
			"excludeId": excludeID,
		})
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

func pickupLocationProps(location model.PickupLocation) map[string]interface{} {
	return map[string]interface{}{
		"areaId":              location.AreaID,
		"name":                location.Name,
		"latitude":            location.Latitude,
		"longitude":           location.Longitude,
		"notes":               location.Notes,
		"hasBeenPickedUp":     location.HasBeenPickedUp,
		"createdByUserId":     location.CreatedByUserID,
		"createdDate":         formatTime(location.CreatedDate),
		"lastUpdatedByUserId": location.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(location.LastUpdatedDate),
	}
}

func mapNodeToPickupLocation(node neo4j.Node) *model.PickupLocation {
	return &model.PickupLocation{
		ID:                  nodeString(node, "id"),
		AreaID:              nodeString(node, "areaId"),
		Name:                nodeString(node, "name"),
		Latitude:            nodeFloat(node, "latitude"),
		Longitude:           nodeFloat(node, "longitude"),
		Notes:               nodeString(node, "notes"),
		HasBeenPickedUp:     nodeBool(node, "hasBeenPickedUp"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

func (dao *AreaDAO) CreatePickupLocation(ctx context.Context, location model.PickupLocation, userID string) (string, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if location.ID == "" {
		location.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (a:AREA {id: $areaId})
        CREATE (l:PICKUP_LOCATION {id: $id})
        SET l += $props
        CREATE (l)-[:LOCATED_IN]->(a)
        RETURN l.id
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":     location.ID,
			"areaId": location.AreaID,
			"props":  pickupLocationProps(location),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrAreaNotFound
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_PICKUP_LOCATION", location.ID)
	return location.ID, nil
}

func (dao *AreaDAO) GetPickupLocation(ctx context.Context, locationID string) (*model.PickupLocation, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (l:PICKUP_LOCATION {id: $id}) RETURN l`, map[string]interface{}{"id": locationID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToPickupLocation(node), nil
		}
		return nil, api_errors.ErrPickupLocationNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.PickupLocation), nil
}

func (dao *AreaDAO) ListPickupLocations(ctx context.Context, areaID string) ([]*model.PickupLocation, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (l:PICKUP_LOCATION {areaId: $areaId})
        RETURN l
        ORDER BY l.createdDate
        `, map[string]interface{}{"areaId": areaID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var locations []*model.PickupLocation
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			locations = append(locations, mapNodeToPickupLocation(node))
		}
		return locations, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.PickupLocation), nil
}

// MarkPickedUp flags a pickup location as serviced.
func (dao *AreaDAO) MarkPickedUp(ctx context.Context, locationID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (l:PICKUP_LOCATION {id: $id})
        SET l.hasBeenPickedUp = true,
            l.lastUpdatedByUserId = $userID,
            l.lastUpdatedDate = $now
        RETURN l.id
        `, map[string]interface{}{
			"id":     locationID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrPickupLocationNotFound
		}
		return nil, nil
	})
	return err
}

// DeletePickupLocation removes the row outright
func (dao *AreaDAO) DeletePickupLocation(ctx context.Context, locationID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (l:PICKUP_LOCATION {id: $id})
        DETACH DELETE l
        `, map[string]interface{}{"id": locationID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, api_errors.ErrPickupLocationNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "DELETE_PICKUP_LOCATION", locationID)
	return nil
}

func (dao *AreaDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "area",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
