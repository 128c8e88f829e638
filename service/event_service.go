// api/service/event_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/dao"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

// IEventService defines the interface for cleanup event operations
type IEventService interface {
	CreateEvent(ctx context.Context, event model.Event, creatorID string) (*model.Event, error)
	UpdateEvent(ctx context.Context, event model.Event, updaterID string) (*model.Event, error)
	CancelEvent(ctx context.Context, eventID string, cancelerID string) error
	GetEvent(ctx context.Context, eventID string) (*model.Event, error)
	ListPublicEvents(ctx context.Context, limit, offset int) ([]*model.Event, error)
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) error
	ListAttendees(ctx context.Context, eventID string) ([]*model.EventAttendee, error)
	PromoteLead(ctx context.Context, eventID, userID, actingUserID string) error
	SubmitSummary(ctx context.Context, summary model.EventSummary, submitterID string) error
	GetSummary(ctx context.Context, eventID string) (*model.EventSummary, error)
}

// EventService handles business logic for cleanup event operations
type EventService struct {
	eventDAO        *dao.EventDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IEventService = &EventService{}

func NewEventService(eventDAO *dao.EventDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *EventService {
	service := &EventService{
		eventDAO:        eventDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("event.created", service.handleEventCreated)
	eventBus.Subscribe("event.canceled", service.handleEventCanceled)

	return service
}

func (s *EventService) handleEventCreated(ctx context.Context, event util.Event) error {
	created, ok := event.Payload.(model.Event)
	if !ok {
		logger.Warn("Unexpected payload type on event.created event")
		return nil
	}
	logger.Info("Event created event received", zap.String("eventID", created.ID))

	if err := s.notificationSvc.NotifyEventChange(ctx, "created", created); err != nil {
		logger.Warn("Failed to send event creation notification", zap.Error(err), zap.String("eventID", created.ID))
	}
	return nil
}

func (s *EventService) handleEventCanceled(ctx context.Context, event util.Event) error {
	canceled, ok := event.Payload.(model.Event)
	if !ok {
		logger.Warn("Unexpected payload type on event.canceled event")
		return nil
	}
	logger.Info("Event canceled event received", zap.String("eventID", canceled.ID))

	if err := s.cacheService.DeleteEvent(ctx, canceled.ID); err != nil {
		logger.Warn("Failed to invalidate event cache", zap.Error(err), zap.String("eventID", canceled.ID))
	}
	if err := s.notificationSvc.NotifyEventChange(ctx, "canceled", canceled); err != nil {
		logger.Warn("Failed to send event cancellation notification", zap.Error(err), zap.String("eventID", canceled.ID))
	}
	return nil
}

func (s *EventService) CreateEvent(ctx context.Context, event model.Event, creatorID string) (*model.Event, error) {
	if err := s.validationUtil.ValidateEvent(event); err != nil {
		return nil, api_errors.ErrEventInvalid
	}

	now := time.Now()
	event.Status = "active"
	event.Version = 1
	event.CreatedByUserID = creatorID
	event.CreatedDate = now
	event.LastUpdatedByUserID = creatorID
	event.LastUpdatedDate = now

	eventID, err := s.eventDAO.CreateEvent(ctx, event, creatorID)
	if err != nil {
		logger.Error("Error creating event", zap.Error(err))
		return nil, err
	}

	created, err := s.eventDAO.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetEvent(ctx, *created); err != nil {
		logger.Warn("Failed to cache event", zap.Error(err), zap.String("eventID", eventID))
	}
	s.eventBus.Publish(ctx, "event.created", *created)

	return created, nil
}

// UpdateEvent merges the incoming fields onto the stored event; identity,
// parent and creation audit fields never change.
func (s *EventService) UpdateEvent(ctx context.Context, event model.Event, updaterID string) (*model.Event, error) {
	existing, err := s.eventDAO.GetEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if event.Name != "" {
		merged.Name = event.Name
	}
	if event.Description != "" {
		merged.Description = event.Description
	}
	if !event.EventDate.IsZero() {
		merged.EventDate = event.EventDate
	}
	if event.DurationHours != 0 {
		merged.DurationHours = event.DurationHours
	}
	if event.StreetAddress != "" {
		merged.StreetAddress = event.StreetAddress
	}
	if event.City != "" {
		merged.City = event.City
	}
	if event.Region != "" {
		merged.Region = event.Region
	}
	if event.Country != "" {
		merged.Country = event.Country
	}
	if event.Latitude != 0 {
		merged.Latitude = event.Latitude
	}
	if event.Longitude != 0 {
		merged.Longitude = event.Longitude
	}
	if event.MaxParticipants != 0 {
		merged.MaxParticipants = event.MaxParticipants
	}
	merged.IsPublic = event.IsPublic
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = time.Now()

	if err := s.validationUtil.ValidateEvent(merged); err != nil {
		return nil, api_errors.ErrEventInvalid
	}

	updated, err := s.eventDAO.UpdateEvent(ctx, merged, existing.Version, updaterID)
	if err != nil {
		logger.Error("Error updating event", zap.Error(err), zap.String("eventID", event.ID))
		return nil, err
	}

	if err := s.cacheService.SetEvent(ctx, *updated); err != nil {
		logger.Warn("Failed to cache event", zap.Error(err), zap.String("eventID", event.ID))
	}
	s.eventBus.Publish(ctx, "event.updated", map[string]interface{}{"old": *existing, "new": *updated})

	return updated, nil
}

func (s *EventService) CancelEvent(ctx context.Context, eventID string, cancelerID string) error {
	event, err := s.eventDAO.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.eventDAO.CancelEvent(ctx, eventID, cancelerID); err != nil {
		logger.Error("Error canceling event", zap.Error(err), zap.String("eventID", eventID))
		return err
	}

	s.eventBus.Publish(ctx, "event.canceled", *event)
	return nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if cached, err := s.cacheService.GetEvent(ctx, eventID); err == nil && cached != nil {
		return cached, nil
	}

	event, err := s.eventDAO.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetEvent(ctx, *event); err != nil {
		logger.Warn("Failed to cache event", zap.Error(err), zap.String("eventID", eventID))
	}
	return event, nil
}

func (s *EventService) ListPublicEvents(ctx context.Context, limit, offset int) ([]*model.Event, error) {
	return s.eventDAO.ListPublicEvents(ctx, limit, offset)
}

func (s *EventService) AddAttendee(ctx context.Context, eventID, userID string) error {
	return s.eventDAO.AddAttendee(ctx, eventID, userID)
}

func (s *EventService) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	return s.eventDAO.RemoveAttendee(ctx, eventID, userID)
}

func (s *EventService) ListAttendees(ctx context.Context, eventID string) ([]*model.EventAttendee, error) {
	return s.eventDAO.ListAttendees(ctx, eventID)
}

func (s *EventService) PromoteLead(ctx context.Context, eventID, userID, actingUserID string) error {
	return s.eventDAO.PromoteLead(ctx, eventID, userID, actingUserID)
}

func (s *EventService) SubmitSummary(ctx context.Context, summary model.EventSummary, submitterID string) error {
	if summary.BagsCollected < 0 || summary.ActualAttendeeCount < 0 || summary.DurationHours < 0 {
		return api_errors.ErrEventInvalid
	}

	now := time.Now()
	summary.CreatedByUserID = submitterID
	summary.CreatedDate = now
	summary.LastUpdatedByUserID = submitterID
	summary.LastUpdatedDate = now

	return s.eventDAO.UpsertSummary(ctx, summary, submitterID)
}

func (s *EventService) GetSummary(ctx context.Context, eventID string) (*model.EventSummary, error) {
	return s.eventDAO.GetSummary(ctx, eventID)
}
