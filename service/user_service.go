// api/service/user_service.go
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

// IUserService defines the interface for user operations
type IUserService interface {
	CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User, updaterID string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string, deleterID string) error
	GetUser(ctx context.Context, userID string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	SearchUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error)
}

// UserService handles business logic for user operations
type UserService struct {
	userDAO         *dao.UserDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IUserService = &UserService{}

func NewUserService(userDAO *dao.UserDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *UserService {
	service := &UserService{
		userDAO:         userDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe("user.deleted", service.handleUserDeleted)

	return service
}

func (s *UserService) handleUserDeleted(ctx context.Context, event util.Event) error {
	userID := event.Payload.(string)
	logger.Info("User deleted event received", zap.String("userID", userID))

	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Warn("Failed to invalidate user cache", zap.Error(err), zap.String("userID", userID))
	}
	return nil
}

func (s *UserService) CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error) {
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, api_errors.ErrUserInvalid
	}

	now := time.Now()
	if user.MemberSince.IsZero() {
		user.MemberSince = now
	}
	user.CreatedByUserID = creatorID
	user.CreatedDate = now
	user.LastUpdatedByUserID = creatorID
	user.LastUpdatedDate = now

	userID, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		logger.Error("Error creating user", zap.Error(err))
		return nil, err
	}

	created, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *created); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user model.User, updaterID string) (*model.User, error) {
	existing, err := s.userDAO.GetUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	merged := *existing
	if user.UserName != "" {
		merged.UserName = user.UserName
	}
	if user.Email != "" {
		merged.Email = user.Email
	}
	if user.City != "" {
		merged.City = user.City
	}
	if user.Region != "" {
		merged.Region = user.Region
	}
	if !user.DateAgreedToWaiver.IsZero() {
		merged.DateAgreedToWaiver = user.DateAgreedToWaiver
	}
	merged.LastUpdatedByUserID = updaterID
	merged.LastUpdatedDate = time.Now()

	if err := s.validationUtil.ValidateUser(merged); err != nil {
		return nil, api_errors.ErrUserInvalid
	}

	updated, err := s.userDAO.UpdateUser(ctx, merged, updaterID)
	if err != nil {
		logger.Error("Error updating user", zap.Error(err), zap.String("userID", user.ID))
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *updated); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", user.ID))
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID string, deleterID string) error {
	if err := s.userDAO.DeleteUser(ctx, userID, deleterID); err != nil {
		return err
	}

	s.eventBus.Publish(ctx, "user.deleted", userID)
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if cached, err := s.cacheService.GetUser(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.String("userID", userID))
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.userDAO.GetUserByEmail(ctx, email)
}

func (s *UserService) SearchUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error) {
	if criteria.Limit <= 0 || criteria.Limit > 100 {
		criteria.Limit = 10
	}
	if criteria.Offset < 0 {
		criteria.Offset = 0
	}
	return s.userDAO.SearchUsers(ctx, criteria)
}
