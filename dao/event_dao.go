// api/dao/event_dao.go
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

type EventDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewEventDAO(driver neo4j.Driver, auditService audit.Service) *EventDAO {
	dao := &EventDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

func (dao *EventDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_event_id IF NOT EXISTS
        FOR (e:EVENT) REQUIRE e.id IS UNIQUE
        `
		if _, err := transaction.Run(query, nil); err != nil {
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	return err
}

func eventProps(event model.Event) map[string]interface{} {
	return map[string]interface{}{
		"name":                event.Name,
		"description":         event.Description,
		"partnerId":           event.PartnerID,
		"eventDate":           formatTime(event.EventDate),
		"durationHours":       event.DurationHours,
		"streetAddress":       event.StreetAddress,
		"city":                event.City,
		"region":              event.Region,
		"country":             event.Country,
		"latitude":            event.Latitude,
		"longitude":           event.Longitude,
		"maxParticipants":     event.MaxParticipants,
		"isPublic":            event.IsPublic,
		"status":              event.Status,
		"version":             event.Version,
		"createdByUserId":     event.CreatedByUserID,
		"createdDate":         formatTime(event.CreatedDate),
		"lastUpdatedByUserId": event.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(event.LastUpdatedDate),
	}
}

func mapNodeToEvent(node neo4j.Node) *model.Event {
	return &model.Event{
		ID:                  nodeString(node, "id"),
		Name:                nodeString(node, "name"),
		Description:         nodeString(node, "description"),
		PartnerID:           nodeString(node, "partnerId"),
		EventDate:           nodeTime(node, "eventDate"),
		DurationHours:       nodeInt(node, "durationHours"),
		StreetAddress:       nodeString(node, "streetAddress"),
		City:                nodeString(node, "city"),
		Region:              nodeString(node, "region"),
		Country:             nodeString(node, "country"),
		Latitude:            nodeFloat(node, "latitude"),
		Longitude:           nodeFloat(node, "longitude"),
		MaxParticipants:     nodeInt(node, "maxParticipants"),
		IsPublic:            nodeBool(node, "isPublic"),
		Status:              nodeString(node, "status"),
		Version:             nodeInt(node, "version"),
		CreatedByUserID:     nodeString(node, "createdByUserId"),
		CreatedDate:         nodeTime(node, "createdDate"),
		LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
		LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
	}
}

// CreateEvent creates the event node and registers the creator as lead
// attendee in the same transaction.
func (dao *EventDAO) CreateEvent(ctx context.Context, event model.Event, userID string) (string, error) {
	start := time.Now()
	logger.Info("Creating new event", zap.String("eventName", event.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (u:USER {id: $userId})
        CREATE (e:EVENT {id: $id})
        SET e += $props
        CREATE (u)-[:ATTENDS {isLead: true, signUpDate: $now}]->(e)
        RETURN e.id
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":     event.ID,
			"userId": userID,
			"now":    formatTime(time.Now()),
			"props":  eventProps(event),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrUserNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create event",
			zap.Error(err),
			zap.String("eventName", event.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	dao.writeAudit(ctx, userID, "CREATE_EVENT", event.ID)
	return event.ID, nil
}

func (dao *EventDAO) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (e:EVENT {id: $id}) RETURN e`, map[string]interface{}{"id": eventID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToEvent(node), nil
		}
		return nil, api_errors.ErrEventNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Event), nil
}

func (dao *EventDAO) UpdateEvent(ctx context.Context, event model.Event, expectedVersion int, userID string) (*model.Event, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (e:EVENT {id: $id})
        WHERE e.version = $expectedVersion
        SET e += $props, e.version = $expectedVersion + 1
        RETURN e
        `
		res, err := transaction.Run(query, map[string]interface{}{
			"id":              event.ID,
			"expectedVersion": expectedVersion,
			"props":           eventProps(event),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return mapNodeToEvent(node), nil
		}

		checkRes, err := transaction.Run(`MATCH (e:EVENT {id: $id}) RETURN e.id`, map[string]interface{}{"id": event.ID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if checkRes.Next() {
			return nil, api_errors.ErrConcurrentModification
		}
		return nil, api_errors.ErrEventNotFound
	})
	if err != nil {
		return nil, err
	}

	dao.writeAudit(ctx, userID, "UPDATE_EVENT", event.ID)
	return result.(*model.Event), nil
}

// CancelEvent marks an event canceled; events are never hard deleted since
// their summaries feed the public stats.
func (dao *EventDAO) CancelEvent(ctx context.Context, eventID string, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (e:EVENT {id: $id})
        WHERE e.status <> 'canceled'
        SET e.status = 'canceled',
            e.lastUpdatedByUserId = $userID,
            e.lastUpdatedDate = $now,
            e.version = e.version + 1
        RETURN e.id
        `, map[string]interface{}{
			"id":     eventID,
			"userID": userID,
			"now":    formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrEventNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "CANCEL_EVENT", eventID)
	return nil
}

// ListPublicEvents returns active public events for anonymous discovery
func (dao *EventDAO) ListPublicEvents(ctx context.Context, limit, offset int) ([]*model.Event, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (e:EVENT)
        WHERE e.isPublic = true AND e.status = 'active'
        RETURN e
        ORDER BY e.eventDate
        SKIP $offset LIMIT $limit
        `, map[string]interface{}{"offset": offset, "limit": limit})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var events []*model.Event
		for res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			events = append(events, mapNodeToEvent(node))
		}
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Event), nil
}

// AddAttendee registers a user for an event, enforcing the participant
// limit inside the transaction.
func (dao *EventDAO) AddAttendee(ctx context.Context, eventID, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		existing, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[:ATTENDS]->(e:EVENT {id: $eventId})
        RETURN u.id
        `, map[string]interface{}{"eventId": eventID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if existing.Next() {
			return nil, api_errors.ErrAttendeeConflict
		}

		res, err := transaction.Run(`
        MATCH (e:EVENT {id: $eventId})
        OPTIONAL MATCH (:USER)-[r:ATTENDS]->(e)
        WITH e, count(r) AS attendees
        WHERE e.maxParticipants = 0 OR attendees < e.maxParticipants
        MATCH (u:USER {id: $userId})
        CREATE (u)-[:ATTENDS {isLead: false, signUpDate: $now}]->(e)
        RETURN u.id
        `, map[string]interface{}{
			"eventId": eventID,
			"userId":  userID,
			"now":     formatTime(time.Now()),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			// Either the event is missing or it is full; recheck to decide.
			checkRes, err := transaction.Run(`MATCH (e:EVENT {id: $eventId}) RETURN e.id`, map[string]interface{}{"eventId": eventID})
			if err != nil {
				return nil, api_errors.ErrDatabaseOperation
			}
			if checkRes.Next() {
				return nil, api_errors.ErrEventFull
			}
			return nil, api_errors.ErrEventNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *EventDAO) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[r:ATTENDS]->(e:EVENT {id: $eventId})
        DELETE r
        `, map[string]interface{}{"eventId": eventID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		summary, err := res.Consume()
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if summary.Counters().RelationshipsDeleted() == 0 {
			return nil, api_errors.ErrAttendeeNotFound
		}
		return nil, nil
	})
	return err
}

func (dao *EventDAO) ListAttendees(ctx context.Context, eventID string) ([]*model.EventAttendee, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER)-[r:ATTENDS]->(e:EVENT {id: $eventId})
        RETURN u.id, r.isLead, r.signUpDate
        ORDER BY r.signUpDate
        `, map[string]interface{}{"eventId": eventID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		var attendees []*model.EventAttendee
		for res.Next() {
			record := res.Record()
			attendee := &model.EventAttendee{EventID: eventID}
			if id, ok := record.Values[0].(string); ok {
				attendee.UserID = id
			}
			if isLead, ok := record.Values[1].(bool); ok {
				attendee.IsLead = isLead
			}
			if signUp, ok := record.Values[2].(string); ok {
				attendee.SignUpDate = parseTime(signUp)
			}
			attendees = append(attendees, attendee)
		}
		return attendees, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.EventAttendee), nil
}

// PromoteLead makes an existing attendee a co-lead
func (dao *EventDAO) PromoteLead(ctx context.Context, eventID, userID, actingUserID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (u:USER {id: $userId})-[r:ATTENDS]->(e:EVENT {id: $eventId})
        SET r.isLead = true
        RETURN u.id
        `, map[string]interface{}{"eventId": eventID, "userId": userID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrAttendeeNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, actingUserID, "PROMOTE_EVENT_LEAD", eventID)
	return nil
}

func summaryProps(summary model.EventSummary) map[string]interface{} {
	return map[string]interface{}{
		"actualAttendeeCount": summary.ActualAttendeeCount,
		"bagsCollected":       summary.BagsCollected,
		"durationHours":       summary.DurationHours,
		"notes":               summary.Notes,
		"createdByUserId":     summary.CreatedByUserID,
		"createdDate":         formatTime(summary.CreatedDate),
		"lastUpdatedByUserId": summary.LastUpdatedByUserID,
		"lastUpdatedDate":     formatTime(summary.LastUpdatedDate),
	}
}

// UpsertSummary stores post-event cleanup results on the event node's
// summary companion.
func (dao *EventDAO) UpsertSummary(ctx context.Context, summary model.EventSummary, userID string) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`
        MATCH (e:EVENT {id: $eventId})
        MERGE (s:EVENT_SUMMARY {eventId: $eventId})
        ON CREATE SET s += $props
        ON MATCH SET s += $props
        MERGE (s)-[:SUMMARIZES]->(e)
        RETURN s.eventId
        `, map[string]interface{}{
			"eventId": summary.EventID,
			"props":   summaryProps(summary),
		})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if !res.Next() {
			return nil, api_errors.ErrEventNotFound
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	dao.writeAudit(ctx, userID, "UPSERT_EVENT_SUMMARY", summary.EventID)
	return nil
}

func (dao *EventDAO) GetSummary(ctx context.Context, eventID string) (*model.EventSummary, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		res, err := transaction.Run(`MATCH (s:EVENT_SUMMARY {eventId: $eventId}) RETURN s`, map[string]interface{}{"eventId": eventID})
		if err != nil {
			return nil, api_errors.ErrDatabaseOperation
		}
		if res.Next() {
			node := res.Record().Values[0].(neo4j.Node)
			return &model.EventSummary{
				EventID:             nodeString(node, "eventId"),
				ActualAttendeeCount: nodeInt(node, "actualAttendeeCount"),
				BagsCollected:       nodeInt(node, "bagsCollected"),
				DurationHours:       nodeInt(node, "durationHours"),
				Notes:               nodeString(node, "notes"),
				CreatedByUserID:     nodeString(node, "createdByUserId"),
				CreatedDate:         nodeTime(node, "createdDate"),
				LastUpdatedByUserID: nodeString(node, "lastUpdatedByUserId"),
				LastUpdatedDate:     nodeTime(node, "lastUpdatedDate"),
			}, nil
		}
		return nil, api_errors.ErrEventNotFound
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.EventSummary), nil
}

func (dao *EventDAO) writeAudit(ctx context.Context, userID, action, resourceID string) {
	auditLog := audit.AuditLog{
		Timestamp:     time.Now(),
		UserID:        userID,
		Action:        action,
		ResourceType:  "event",
		ResourceID:    resourceID,
		AccessGranted: true,
	}
	if err := dao.AuditService.LogAccess(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
