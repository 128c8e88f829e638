// api/service/area_service.go
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/dao"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

// IAreaService defines the interface for adoptable area operations
type IAreaService interface {
	CreateArea(ctx context.Context, area model.Area, creatorID string) (*model.Area, error)
	UpdateArea(ctx context.Context, area model.Area, updaterID string) (*model.Area, error)
	DeleteArea(ctx context.Context, areaID string, deleterID string) error
	GetArea(ctx context.Context, areaID string) (*model.Area, error)
	ListAreasByPartner(ctx context.Context, partnerID string, limit, offset int) ([]*model.Area, error)
	IsNameAvailable(ctx context.Context, partnerID, name, excludeID string) (bool, error)
	AdoptArea(ctx context.Context, areaID, teamID, actingUserID string) (*model.Area, error)
	ReleaseArea(ctx context.Context, areaID, actingUserID string) (*model.Area, error)
	RequestGeneration(ctx context.Context, partnerID, requesterID string) error
	CreatePickupLocation(ctx context.Context, location model.PickupLocation, creatorID string) (*model.PickupLocation, error)
	GetPickupLocation(ctx context.Context, locationID string) (*model.PickupLocation, error)
	ListPickupLocations(ctx context.Context, areaID string) ([]*model.PickupLocation, error)
	MarkPickedUp(ctx context.Context, locationID string, actingUserID string) error
	DeletePickupLocation(ctx context.Context, locationID string, deleterID string) error
}

// AreaService handles business logic for adoptable area operations
type AreaService struct {
	areaDAO         *dao.AreaDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	generationQueue util.AreaGenerationQueue
}

var _ IAreaService = &AreaService{}

func NewAreaService(areaDAO *dao.AreaDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, generationQueue util.AreaGenerationQueue) *AreaService {
	service := &AreaService{
		areaDAO:         areaDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		generationQueue: generationQueue,
	}

	eventBus.Subscribe("area.updated", service.handleAreaUpdated)

	return service
}

func (s *AreaService) handleAreaUpdated(ctx context.Context, event util.Event) error {
	area, ok := event.Payload.(model.Area)
	if !ok {
		logger.Warn("Unexpected payload type on area.updated event")
		return nil
	}
	logger.Info("Area updated event received", zap.String("areaID", area.ID))

	if err := s.cacheService.DeleteArea(ctx, area.ID); err != nil {
		logger.Warn("Failed to invalidate area cache", zap.Error(err), zap.String("areaID", area.ID))
	}
	if err := s.notificationSvc.NotifyAreaChange(ctx, "updated", area); err != nil {
		logger.Warn("Failed to send area update notification", zap.Error(err), zap.String("areaID", area.ID))
	}
	return nil
}

func (s *AreaService) CreateArea(ctx context.Context, area model.Area, creatorID string) (*model.Area, error) {
	if err := s.validationUtil.ValidateArea(area); err != nil {
		return nil, api_errors.ErrAreaInvalid
	}

	available, err := s.areaDAO.IsNameAvailable(ctx, area.PartnerID, area.Name, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, api_errors.ErrAreaNameTaken
	}

	now := time.Now()
	area.IsActive = true
	area.Version = 1
	area.CreatedByUserID = creatorID
	area.CreatedDate = now
	area.LastUpdatedByUserID = creatorID
	area.LastUpdatedDate = now

	areaID, err := s.areaDAO.CreateArea(ctx, area, creatorID)
	if err != nil {
		logger.Error("Error creating area", zap.Error(err))
		return nil, err
	}

	created, err := s.areaDAO.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetArea(ctx, *created); err != nil {
		logger.Warn("Failed to cache area", zap.Error(err), zap.String("areaID", areaID))
	}
	return created, nil
}

func (s *AreaService) UpdateArea(ctx context.Context, area model.Area, updaterID string) (*model.Area, error) {
	existing, err := s.areaDAO.GetArea(ctx, area.ID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if area.Name != "" {
		merged.Name = area.Name
	}
	if area.Description != "" {
		merged.Description = area.Description
	}
	if area.Notes != "" {
		merged.Notes = area.Notes
	}
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = time.Now()

	if err := s.validationUtil.ValidateArea(merged); err != nil {
		return nil, api_errors.ErrAreaInvalid
	}

	if !strings.EqualFold(merged.Name, existing.Name) {
		available, err := s.areaDAO.IsNameAvailable(ctx, merged.PartnerID, merged.Name, merged.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, api_errors.ErrAreaNameTaken
		}
	}

	updated, err := s.areaDAO.UpdateArea(ctx, merged, existing.Version, updaterID)
	if err != nil {
		logger.Error("Error updating area", zap.Error(err), zap.String("areaID", area.ID))
		return nil, err
	}

	s.eventBus.Publish(ctx, "area.updated", *updated)
	return updated, nil
}

func (s *AreaService) DeleteArea(ctx context.Context, areaID string, deleterID string) error {
	if err := s.areaDAO.SoftDeleteArea(ctx, areaID, deleterID); err != nil {
		return err
	}

	if err := s.cacheService.DeleteArea(ctx, areaID); err != nil {
		logger.Warn("Failed to invalidate area cache", zap.Error(err), zap.String("areaID", areaID))
	}
	return nil
}

func (s *AreaService) GetArea(ctx context.Context, areaID string) (*model.Area, error) {
	if cached, err := s.cacheService.GetArea(ctx, areaID); err == nil && cached != nil {
		return cached, nil
	}

	area, err := s.areaDAO.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetArea(ctx, *area); err != nil {
		logger.Warn("Failed to cache area", zap.Error(err), zap.String("areaID", areaID))
	}
	return area, nil
}

func (s *AreaService) ListAreasByPartner(ctx context.Context, partnerID string, limit, offset int) ([]*model.Area, error) {
	return s.areaDAO.ListAreasByPartner(ctx, partnerID, limit, offset)
}

// IsNameAvailable treats blank input as unavailable without touching the
// datastore.
func (s *AreaService) IsNameAvailable(ctx context.Context, partnerID, name, excludeID string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	return s.areaDAO.IsNameAvailable(ctx, partnerID, name, excludeID)
}

func (s *AreaService) AdoptArea(ctx context.Context, areaID, teamID, actingUserID string) (*model.Area, error) {
	existing, err := s.areaDAO.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if existing.AdoptedByTeamID != "" && existing.AdoptedByTeamID != teamID {
		return nil, api_errors.ErrAreaInvalid
	}

	merged := *existing
	merged.AdoptedByTeamID = teamID
	merged.LastUpdatedByUserID = actingUserID
	merged.LastUpdatedDate = time.Now()

	updated, err := s.areaDAO.UpdateArea(ctx, merged, existing.Version, actingUserID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "area.updated", *updated)
	return updated, nil
}

func (s *AreaService) ReleaseArea(ctx context.Context, areaID, actingUserID string) (*model.Area, error) {
	existing, err := s.areaDAO.GetArea(ctx, areaID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	merged.AdoptedByTeamID = ""
	merged.LastUpdatedByUserID = actingUserID
	merged.LastUpdatedDate = time.Now()

	updated, err := s.areaDAO.UpdateArea(ctx, merged, existing.Version, actingUserID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(ctx, "area.updated", *updated)
	return updated, nil
}

// RequestGeneration hands the partner off to the external area-generation
// worker; this layer only enqueues.
func (s *AreaService) RequestGeneration(ctx context.Context, partnerID, requesterID string) error {
	return s.generationQueue.EnqueueGeneration(ctx, partnerID, requesterID)
}

func (s *AreaService) CreatePickupLocation(ctx context.Context, location model.PickupLocation, creatorID string) (*model.PickupLocation, error) {
	if err := s.validationUtil.ValidatePickupLocation(location); err != nil {
		return nil, api_errors.ErrAreaInvalid
	}

	now := time.Now()
	location.HasBeenPickedUp = false
	location.CreatedByUserID = creatorID
	location.CreatedDate = now
	location.LastUpdatedByUserID = creatorID
	location.LastUpdatedDate = now

	locationID, err := s.areaDAO.CreatePickupLocation(ctx, location, creatorID)
	if err != nil {
		logger.Error("Error creating pickup location", zap.Error(err))
		return nil, err
	}
	return s.areaDAO.GetPickupLocation(ctx, locationID)
}

func (s *AreaService) GetPickupLocation(ctx context.Context, locationID string) (*model.PickupLocation, error) {
	return s.areaDAO.GetPickupLocation(ctx, locationID)
}

func (s *AreaService) ListPickupLocations(ctx context.Context, areaID string) ([]*model.PickupLocation, error) {
	return s.areaDAO.ListPickupLocations(ctx, areaID)
}

func (s *AreaService) MarkPickedUp(ctx context.Context, locationID string, actingUserID string) error {
	return s.areaDAO.MarkPickedUp(ctx, locationID, actingUserID)
}

func (s *AreaService) DeletePickupLocation(ctx context.Context, locationID string, deleterID string) error {
	return s.areaDAO.DeletePickupLocation(ctx, locationID, deleterID)
}
