// api/service/waiver_service.go
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

// IWaiverService defines the interface for waiver operations
type IWaiverService interface {
	CreateWaiver(ctx context.Context, waiver model.Waiver, creatorID string) (*model.Waiver, error)
	UpdateWaiver(ctx context.Context, waiver model.Waiver, updaterID string) (*model.Waiver, error)
	DeleteWaiver(ctx context.Context, waiverID string, deleterID string) error
	GetWaiver(ctx context.Context, waiverID string) (*model.Waiver, error)
	ListWaiversByPartner(ctx context.Context, partnerID string) ([]*model.Waiver, error)
	SignWaiver(ctx context.Context, waiverID, userID, fullName string) error
	ListSignatures(ctx context.Context, waiverID string) ([]*model.WaiverSignature, error)
	HasSigned(ctx context.Context, partnerID, userID string) (bool, error)
	ExportComplianceCSV(ctx context.Context, partnerID string) (string, error)
}

// WaiverService handles business logic for waiver operations
type WaiverService struct {
	waiverDAO      *dao.WaiverDAO
	validationUtil *util.ValidationUtil
	eventBus       *util.EventBus
}

var _ IWaiverService = &WaiverService{}

func NewWaiverService(waiverDAO *dao.WaiverDAO, validationUtil *util.ValidationUtil, eventBus *util.EventBus) *WaiverService {
	return &WaiverService{
		waiverDAO:      waiverDAO,
		validationUtil: validationUtil,
		eventBus:       eventBus,
	}
}

func (s *WaiverService) CreateWaiver(ctx context.Context, waiver model.Waiver, creatorID string) (*model.Waiver, error) {
	if err := s.validationUtil.ValidateWaiver(waiver); err != nil {
		return nil, api_errors.ErrWaiverInvalid
	}

	now := time.Now()
	waiver.IsActive = true
	waiver.Version = 1
	if waiver.EffectiveDate.IsZero() {
		waiver.EffectiveDate = now
	}
	waiver.CreatedByUserID = creatorID
	waiver.CreatedDate = now
	waiver.LastUpdatedByUserID = creatorID
	waiver.LastUpdatedDate = now

	waiverID, err := s.waiverDAO.CreateWaiver(ctx, waiver, creatorID)
	if err != nil {
		logger.Error("Error creating waiver", zap.Error(err))
		return nil, err
	}
	return s.waiverDAO.GetWaiver(ctx, waiverID)
}

func (s *WaiverService) UpdateWaiver(ctx context.Context, waiver model.Waiver, updaterID string) (*model.Waiver, error) {
	existing, err := s.waiverDAO.GetWaiver(ctx, waiver.ID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if waiver.Name != "" {
		merged.Name = waiver.Name
	}
	if waiver.DocumentVersion != "" {
		merged.DocumentVersion = waiver.DocumentVersion
	}
	if !waiver.EffectiveDate.IsZero() {
		merged.EffectiveDate = waiver.EffectiveDate
	}
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = time.Now()

	if err := s.validationUtil.ValidateWaiver(merged); err != nil {
		return nil, api_errors.ErrWaiverInvalid
	}

	updated, err := s.waiverDAO.UpdateWaiver(ctx, merged, existing.Version, updaterID)
	if err != nil {
		logger.Error("Error updating waiver", zap.Error(err), zap.String("waiverID", waiver.ID))
		return nil, err
	}
	return updated, nil
}

func (s *WaiverService) DeleteWaiver(ctx context.Context, waiverID string, deleterID string) error {
	return s.waiverDAO.SoftDeleteWaiver(ctx, waiverID, deleterID)
}

func (s *WaiverService) GetWaiver(ctx context.Context, waiverID string) (*model.Waiver, error) {
	return s.waiverDAO.GetWaiver(ctx, waiverID)
}

func (s *WaiverService) ListWaiversByPartner(ctx context.Context, partnerID string) ([]*model.Waiver, error) {
	return s.waiverDAO.ListWaiversByPartner(ctx, partnerID)
}

func (s *WaiverService) SignWaiver(ctx context.Context, waiverID, userID, fullName string) error {
	if strings.TrimSpace(fullName) == "" {
		return api_errors.ErrWaiverInvalid
	}

	signature := model.WaiverSignature{
		WaiverID:   waiverID,
		UserID:     userID,
		FullName:   strings.TrimSpace(fullName),
		SignedDate: time.Now(),
	}
	return s.waiverDAO.SignWaiver(ctx, signature)
}

func (s *WaiverService) ListSignatures(ctx context.Context, waiverID string) ([]*model.WaiverSignature, error) {
	return s.waiverDAO.ListSignatures(ctx, waiverID)
}

func (s *WaiverService) HasSigned(ctx context.Context, partnerID, userID string) (bool, error) {
	return s.waiverDAO.HasSigned(ctx, partnerID, userID)
}

func (s *WaiverService) ExportComplianceCSV(ctx context.Context, partnerID string) (string, error) {
	rows, err := s.waiverDAO.ComplianceRows(ctx, partnerID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	util.WriteCSVRow(&b, "Waiver", "Document Version", "User Name", "Email", "Signed As", "Signed Date")
	for _, row := range rows {
		util.WriteCSVRow(&b, row...)
	}
	return b.String(), nil
}
