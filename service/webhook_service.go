// api/service/webhook_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

// WebhookOutcome is the closed result set for identity-provider webhooks.
type WebhookOutcome string

const (
	WebhookValidationError WebhookOutcome = "ValidationError"
	WebhookFailed          WebhookOutcome = "Failed"
	WebhookUserNotFound    WebhookOutcome = "UserNotFound"
	WebhookSuccess         WebhookOutcome = "Success"
)

// IWebhookService defines the interface for identity-provider webhook
// processing
type IWebhookService interface {
	ProcessUserCreated(ctx context.Context, payload model.IdentityUserPayload) (WebhookOutcome, *model.User)
	ProcessUserDeleted(ctx context.Context, payload model.IdentityUserPayload) (WebhookOutcome, error)
}

type WebhookService struct {
	userService IUserService
}

var _ IWebhookService = &WebhookService{}

func NewWebhookService(userService IUserService) *WebhookService {
	return &WebhookService{userService: userService}
}

// ProcessUserCreated maps the identity provider's user-created callback onto
// a local user record. Every failure collapses into the outcome enum; the
// provider only understands the four values.
func (s *WebhookService) ProcessUserCreated(ctx context.Context, payload model.IdentityUserPayload) (WebhookOutcome, *model.User) {
	if strings.TrimSpace(payload.SubjectID) == "" ||
		strings.TrimSpace(payload.UserName) == "" ||
		strings.TrimSpace(payload.Email) == "" {
		return WebhookValidationError, nil
	}

	user := model.User{
		ID:          payload.SubjectID,
		UserName:    payload.UserName,
		Email:       payload.Email,
		MemberSince: time.Now(),
	}

	created, err := s.userService.CreateUser(ctx, user, payload.SubjectID)
	if err != nil {
		if errors.Is(err, api_errors.ErrUserConflict) || errors.Is(err, api_errors.ErrUserInvalid) {
			return WebhookValidationError, nil
		}
		logger.Error("Identity webhook user creation failed", zap.Error(err), zap.String("subjectID", payload.SubjectID))
		return WebhookFailed, nil
	}
	return WebhookSuccess, created
}

// ProcessUserDeleted removes the local record for a user deleted upstream.
func (s *WebhookService) ProcessUserDeleted(ctx context.Context, payload model.IdentityUserPayload) (WebhookOutcome, error) {
	if strings.TrimSpace(payload.SubjectID) == "" {
		return WebhookValidationError, nil
	}

	if err := s.userService.DeleteUser(ctx, payload.SubjectID, payload.SubjectID); err != nil {
		if errors.Is(err, api_errors.ErrUserNotFound) {
			return WebhookUserNotFound, nil
		}
		logger.Error("Identity webhook user deletion failed", zap.Error(err), zap.String("subjectID", payload.SubjectID))
		return WebhookFailed, err
	}
	return WebhookSuccess, nil
}
