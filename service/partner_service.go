// api/service/partner_service.go
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

// IPartnerService defines the interface for partner (community) operations
type IPartnerService interface {
	CreatePartner(ctx context.Context, partner model.Partner, creatorID string) (*model.Partner, error)
	UpdatePartner(ctx context.Context, partner model.Partner, updaterID string) (*model.Partner, error)
	GetPartner(ctx context.Context, partnerID string) (*model.Partner, error)
	GetPartnerBySlug(ctx context.Context, slug string) (*model.Partner, error)
	ListPartners(ctx context.Context, limit, offset int) ([]*model.Partner, error)
	IsSlugAvailable(ctx context.Context, slug, excludeID string) (bool, error)
	AddAdmin(ctx context.Context, partnerID, userID, actingUserID string) error
	RemoveAdmin(ctx context.Context, partnerID, userID, actingUserID string) error
	ListAdmins(ctx context.Context, partnerID string) ([]*model.PartnerAdmin, error)
	CreateSponsor(ctx context.Context, sponsor model.Sponsor, creatorID string) (*model.Sponsor, error)
	GetSponsor(ctx context.Context, sponsorID string) (*model.Sponsor, error)
	ListSponsors(ctx context.Context, partnerID string) ([]*model.Sponsor, error)
	DeleteSponsor(ctx context.Context, sponsorID string, deleterID string) error
}

// PartnerService handles business logic for partner operations
type PartnerService struct {
	partnerDAO      *dao.PartnerDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IPartnerService = &PartnerService{}

func NewPartnerService(partnerDAO *dao.PartnerDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *PartnerService {
	service := &PartnerService{
		partnerDAO:      partnerDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("partner.updated", service.handlePartnerUpdated)

	return service
}

func (s *PartnerService) handlePartnerUpdated(ctx context.Context, event util.Event) error {
	partner, ok := event.Payload.(model.Partner)
	if !ok {
		logger.Warn("Unexpected payload type on partner.updated event")
		return nil
	}
	logger.Info("Partner updated event received", zap.String("partnerID", partner.ID))

	if err := s.cacheService.DeletePartner(ctx, partner.ID); err != nil {
		logger.Warn("Failed to invalidate partner cache", zap.Error(err), zap.String("partnerID", partner.ID))
	}
	if err := s.notificationSvc.NotifyPartnerChange(ctx, "updated", partner); err != nil {
		logger.Warn("Failed to send partner update notification", zap.Error(err), zap.String("partnerID", partner.ID))
	}
	return nil
}

func (s *PartnerService) CreatePartner(ctx context.Context, partner model.Partner, creatorID string) (*model.Partner, error) {
	partner.Slug = strings.ToLower(strings.TrimSpace(partner.Slug))
	if err := s.validationUtil.ValidatePartner(partner); err != nil {
		return nil, api_errors.ErrPartnerInvalid
	}

	available, err := s.partnerDAO.IsSlugAvailable(ctx, partner.Slug, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, api_errors.ErrPartnerSlugTaken
	}

	now := time.Now()
	partner.IsActive = true
	partner.Version = 1
	partner.CreatedByUserID = creatorID
	partner.CreatedDate = now
	partner.LastUpdatedByUserID = creatorID
	partner.LastUpdatedDate = now

	partnerID, err := s.partnerDAO.CreatePartner(ctx, partner, creatorID)
	if err != nil {
		logger.Error("Error creating partner", zap.Error(err))
		return nil, err
	}

	created, err := s.partnerDAO.GetPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetPartner(ctx, *created); err != nil {
		logger.Warn("Failed to cache partner", zap.Error(err), zap.String("partnerID", partnerID))
	}
	s.eventBus.Publish(ctx, "partner.created", *created)

	return created, nil
}

func (s *PartnerService) UpdatePartner(ctx context.Context, partner model.Partner, updaterID string) (*model.Partner, error) {
	existing, err := s.partnerDAO.GetPartner(ctx, partner.ID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if partner.Name != "" {
		merged.Name = partner.Name
	}
	if partner.Slug != "" {
		merged.Slug = strings.ToLower(strings.TrimSpace(partner.Slug))
	}
	if partner.Description != "" {
		merged.Description = partner.Description
	}
	if partner.Website != "" {
		merged.Website = partner.Website
	}
	if partner.ContactEmail != "" {
		merged.ContactEmail = partner.ContactEmail
	}
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = time.Now()

	if err := s.validationUtil.ValidatePartner(merged); err != nil {
		return nil, api_errors.ErrPartnerInvalid
	}

	if merged.Slug != existing.Slug {
		available, err := s.partnerDAO.IsSlugAvailable(ctx, merged.Slug, merged.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, api_errors.ErrPartnerSlugTaken
		}
	}

	updated, err := s.partnerDAO.UpdatePartner(ctx, merged, existing.Version, updaterID)
	if err != nil {
		logger.Error("Error updating partner", zap.Error(err), zap.String("partnerID", partner.ID))
		return nil, err
	}

	s.eventBus.Publish(ctx, "partner.updated", *updated)
	return updated, nil
}

func (s *PartnerService) GetPartner(ctx context.Context, partnerID string) (*model.Partner, error) {
	if cached, err := s.cacheService.GetPartner(ctx, partnerID); err == nil && cached != nil {
		return cached, nil
	}

	partner, err := s.partnerDAO.GetPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetPartner(ctx, *partner); err != nil {
		logger.Warn("Failed to cache partner", zap.Error(err), zap.String("partnerID", partnerID))
	}
	return partner, nil
}

func (s *PartnerService) GetPartnerBySlug(ctx context.Context, slug string) (*model.Partner, error) {
	return s.partnerDAO.GetPartnerBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *PartnerService) ListPartners(ctx context.Context, limit, offset int) ([]*model.Partner, error) {
	return s.partnerDAO.ListPartners(ctx, limit, offset)
}

// IsSlugAvailable treats blank input as unavailable without touching the
// datastore.
func (s *PartnerService) IsSlugAvailable(ctx context.Context, slug, excludeID string) (bool, error) {
	if strings.TrimSpace(slug) == "" {
		return false, nil
	}
	return s.partnerDAO.IsSlugAvailable(ctx, strings.ToLower(strings.TrimSpace(slug)), excludeID)
}

func (s *PartnerService) AddAdmin(ctx context.Context, partnerID, userID, actingUserID string) error {
	return s.partnerDAO.AddAdmin(ctx, partnerID, userID, actingUserID)
}

func (s *PartnerService) RemoveAdmin(ctx context.Context, partnerID, userID, actingUserID string) error {
	return s.partnerDAO.RemoveAdmin(ctx, partnerID, userID, actingUserID)
}

func (s *PartnerService) ListAdmins(ctx context.Context, partnerID string) ([]*model.PartnerAdmin, error) {
	return s.partnerDAO.ListAdmins(ctx, partnerID)
}

func (s *PartnerService) CreateSponsor(ctx context.Context, sponsor model.Sponsor, creatorID string) (*model.Sponsor, error) {
	if err := s.validationUtil.ValidateSponsor(sponsor); err != nil {
		return nil, api_errors.ErrPartnerInvalid
	}

	now := time.Now()
	sponsor.IsActive = true
	sponsor.Version = 1
	sponsor.CreatedByUserID = creatorID
	sponsor.CreatedDate = now
	sponsor.LastUpdatedByUserID = creatorID
	sponsor.LastUpdatedDate = now

	sponsorID, err := s.partnerDAO.CreateSponsor(ctx, sponsor, creatorID)
	if err != nil {
		logger.Error("Error creating sponsor", zap.Error(err))
		return nil, err
	}
	return s.partnerDAO.GetSponsor(ctx, sponsorID)
}

func (s *PartnerService) GetSponsor(ctx context.Context, sponsorID string) (*model.Sponsor, error) {
	return s.partnerDAO.GetSponsor(ctx, sponsorID)
}

func (s *PartnerService) ListSponsors(ctx context.Context, partnerID string) ([]*model.Sponsor, error) {
	return s.partnerDAO.ListSponsors(ctx, partnerID)
}

func (s *PartnerService) DeleteSponsor(ctx context.Context, sponsorID string, deleterID string) error {
	return s.partnerDAO.SoftDeleteSponsor(ctx, sponsorID, deleterID)
}
