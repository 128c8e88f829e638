// api/service/team_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trashmob-eco/trashmob-api/dao"
	"github.com/trashmob-eco/trashmob-api/db"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

// ITeamService defines the interface for team operations
type ITeamService interface {
	CreateTeam(ctx context.Context, team model.Team, creatorID string) (*model.Team, error)
	UpdateTeam(ctx context.Context, team model.Team, updaterID string) (*model.Team, error)
	DeleteTeam(ctx context.Context, teamID string, deleterID string) error
	GetTeam(ctx context.Context, teamID string) (*model.Team, error)
	ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error)
	IsNameAvailable(ctx context.Context, name, excludeID string) (bool, error)
	AddMember(ctx context.Context, teamID, userID, actingUserID string) error
	RemoveMember(ctx context.Context, teamID, userID, actingUserID string) error
	ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error)
	AddPhoto(ctx context.Context, teamID, caption string, data []byte, uploaderID string) (*model.TeamPhoto, error)
	GetPhoto(ctx context.Context, photoID string) (*model.TeamPhoto, error)
	GetPhotoContent(ctx context.Context, photoID string) ([]byte, error)
	ListPhotos(ctx context.Context, teamID, status string) ([]*model.TeamPhoto, error)
	ListPhotosPendingModeration(ctx context.Context, limit, offset int) ([]*model.TeamPhoto, error)
	ModeratePhoto(ctx context.Context, photoID, status, moderatorID string) error
	DeletePhoto(ctx context.Context, photoID string, deleterID string) error
}

// TeamService handles business logic for team operations
type TeamService struct {
	teamDAO         *dao.TeamDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	blobStore       db.BlobStore
}

var _ ITeamService = &TeamService{}

func NewTeamService(teamDAO *dao.TeamDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, blobStore db.BlobStore) *TeamService {
	service := &TeamService{
		teamDAO:         teamDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		blobStore:       blobStore,
	}

	eventBus.Subscribe("team.updated", service.handleTeamUpdated)

	return service
}

func (s *TeamService) handleTeamUpdated(ctx context.Context, event util.Event) error {
	team, ok := event.Payload.(model.Team)
	if !ok {
		logger.Warn("Unexpected payload type on team.updated event")
		return nil
	}
	logger.Info("Team updated event received", zap.String("teamID", team.ID))

	if err := s.cacheService.DeleteTeam(ctx, team.ID); err != nil {
		logger.Warn("Failed to invalidate team cache", zap.Error(err), zap.String("teamID", team.ID))
	}
	if err := s.notificationSvc.NotifyTeamChange(ctx, "updated", team); err != nil {
		logger.Warn("Failed to send team update notification", zap.Error(err), zap.String("teamID", team.ID))
	}
	return nil
}

func (s *TeamService) CreateTeam(ctx context.Context, team model.Team, creatorID string) (*model.Team, error) {
	if err := s.validationUtil.ValidateTeam(team); err != nil {
		return nil, api_errors.ErrTeamInvalid
	}

	available, err := s.teamDAO.IsNameAvailable(ctx, team.Name, "")
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, api_errors.ErrTeamNameTaken
	}

	now := time.Now()
	team.IsActive = true
	team.Version = 1
	team.CreatedByUserID = creatorID
	team.CreatedDate = now
	team.LastUpdatedByUserID = creatorID
	team.LastUpdatedDate = now

	teamID, err := s.teamDAO.CreateTeam(ctx, team, creatorID)
	if err != nil {
		logger.Error("Error creating team", zap.Error(err))
		return nil, err
	}

	created, err := s.teamDAO.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetTeam(ctx, *created); err != nil {
		logger.Warn("Failed to cache team", zap.Error(err), zap.String("teamID", teamID))
	}
	return created, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, team model.Team, updaterID string) (*model.Team, error) {
	existing, err := s.teamDAO.GetTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	merged := mergeTeamUpdate(*existing, team, updaterID, time.Now())

	if err := s.validationUtil.ValidateTeam(merged); err != nil {
		return nil, api_errors.ErrTeamInvalid
	}

	if !strings.EqualFold(merged.Name, existing.Name) {
		available, err := s.teamDAO.IsNameAvailable(ctx, merged.Name, merged.ID)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, api_errors.ErrTeamNameTaken
		}
	}

	updated, err := s.teamDAO.UpdateTeam(ctx, merged, existing.Version, updaterID)
	if err != nil {
		logger.Error("Error updating team", zap.Error(err), zap.String("teamID", team.ID))
		return nil, err
	}

	s.eventBus.Publish(ctx, "team.updated", *updated)
	return updated, nil
}

// mergeTeamUpdate folds the incoming fields onto the stored record. Identity
// and creation audit fields never change; the update audit fields always do.
func mergeTeamUpdate(existing, update model.Team, updaterID string, now time.Time) model.Team {
	merged := existing
	if update.Name != "" {
		merged.Name = update.Name
	}
	if update.Description != "" {
		merged.Description = update.Description
	}
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = now
	return merged
}

func (s *TeamService) DeleteTeam(ctx context.Context, teamID string, deleterID string) error {
	if err := s.teamDAO.SoftDeleteTeam(ctx, teamID, deleterID); err != nil {
		return err
	}

	if err := s.cacheService.DeleteTeam(ctx, teamID); err != nil {
		logger.Warn("Failed to invalidate team cache", zap.Error(err), zap.String("teamID", teamID))
	}
	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	if cached, err := s.cacheService.GetTeam(ctx, teamID); err == nil && cached != nil {
		return cached, nil
	}

	team, err := s.teamDAO.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetTeam(ctx, *team); err != nil {
		logger.Warn("Failed to cache team", zap.Error(err), zap.String("teamID", teamID))
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	return s.teamDAO.ListTeams(ctx, limit, offset)
}

// IsNameAvailable treats blank input as unavailable without touching the
// datastore.
func (s *TeamService) IsNameAvailable(ctx context.Context, name, excludeID string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, nil
	}
	return s.teamDAO.IsNameAvailable(ctx, name, excludeID)
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID, actingUserID string) error {
	return s.teamDAO.AddMember(ctx, teamID, userID, actingUserID)
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID, actingUserID string) error {
	return s.teamDAO.RemoveMember(ctx, teamID, userID, actingUserID)
}

func (s *TeamService) ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error) {
	return s.teamDAO.ListMembers(ctx, teamID)
}

// AddPhoto stores the binary first, then the metadata row; new photos enter
// the moderation queue as pending.
func (s *TeamService) AddPhoto(ctx context.Context, teamID, caption string, data []byte, uploaderID string) (*model.TeamPhoto, error) {
	if len(data) == 0 {
		return nil, api_errors.ErrTeamInvalid
	}

	blobKey := uuid.New().String()
	if err := s.blobStore.Put(ctx, blobKey, data); err != nil {
		logger.Error("Failed to store photo blob", zap.Error(err), zap.String("teamID", teamID))
		return nil, api_errors.ErrInternalServer
	}

	now := time.Now()
	photo := model.TeamPhoto{
		TeamID:              teamID,
		BlobKey:             blobKey,
		Caption:             caption,
		ModerationStatus:    "pending",
		CreatedByUserID:     uploaderID,
		CreatedDate:         now,
		LastUpdatedByUserID: uploaderID,
		LastUpdatedDate:     now,
	}

	photoID, err := s.teamDAO.CreatePhoto(ctx, photo, uploaderID)
	if err != nil {
		// Orphaned blob cleanup on metadata failure.
		if delErr := s.blobStore.Delete(ctx, blobKey); delErr != nil {
			logger.Warn("Failed to remove orphaned photo blob", zap.Error(delErr), zap.String("blobKey", blobKey))
		}
		return nil, err
	}
	return s.teamDAO.GetPhoto(ctx, photoID)
}

func (s *TeamService) GetPhoto(ctx context.Context, photoID string) (*model.TeamPhoto, error) {
	return s.teamDAO.GetPhoto(ctx, photoID)
}

func (s *TeamService) GetPhotoContent(ctx context.Context, photoID string) ([]byte, error) {
	photo, err := s.teamDAO.GetPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}

	data, err := s.blobStore.Get(ctx, photo.BlobKey)
	if err != nil {
		logger.Error("Failed to read photo blob", zap.Error(err), zap.String("photoID", photoID))
		return nil, api_errors.ErrInternalServer
	}
	return data, nil
}

func (s *TeamService) ListPhotos(ctx context.Context, teamID, status string) ([]*model.TeamPhoto, error) {
	return s.teamDAO.ListPhotos(ctx, teamID, status)
}

func (s *TeamService) ListPhotosPendingModeration(ctx context.Context, limit, offset int) ([]*model.TeamPhoto, error) {
	return s.teamDAO.ListPhotosPendingModeration(ctx, limit, offset)
}

func (s *TeamService) ModeratePhoto(ctx context.Context, photoID, status, moderatorID string) error {
	if status != "approved" && status != "rejected" {
		return api_errors.ErrTeamInvalid
	}
	return s.teamDAO.SetPhotoStatus(ctx, photoID, status, moderatorID)
}

// DeletePhoto removes the metadata row and the backing blob.
func (s *TeamService) DeletePhoto(ctx context.Context, photoID string, deleterID string) error {
	photo, err := s.teamDAO.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}

	if err := s.teamDAO.DeletePhoto(ctx, photoID, deleterID); err != nil {
		return err
	}

	if err := s.blobStore.Delete(ctx, photo.BlobKey); err != nil {
		logger.Warn("Failed to delete photo blob", zap.Error(err), zap.String("blobKey", photo.BlobKey))
	}
	return nil
}
