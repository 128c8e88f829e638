// api/service/webhook_service_test.go
package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/test/mock"
)

func TestProcessUserCreated(t *testing.T) {
	payload := model.IdentityUserPayload{SubjectID: "sub1", UserName: "jamie", Email: "jamie@example.com"}

	t.Run("blank fields are a validation error", func(t *testing.T) {
		users := new(mock.MockUserService)
		svc := service.NewWebhookService(users)

		outcome, user := svc.ProcessUserCreated(context.Background(), model.IdentityUserPayload{SubjectID: "sub1"})
		assert.Equal(t, service.WebhookValidationError, outcome)
		assert.Nil(t, user)
		users.AssertNotCalled(t, "CreateUser", tmock.Anything, tmock.Anything, tmock.Anything)
	})

	t.Run("duplicate user is a validation error", func(t *testing.T) {
		users := new(mock.MockUserService)
		users.On("CreateUser", tmock.Anything, tmock.Anything, "sub1").Return(nil, api_errors.ErrUserConflict)
		svc := service.NewWebhookService(users)

		outcome, user := svc.ProcessUserCreated(context.Background(), payload)
		assert.Equal(t, service.WebhookValidationError, outcome)
		assert.Nil(t, user)
	})

	t.Run("infrastructure failure collapses to Failed", func(t *testing.T) {
		users := new(mock.MockUserService)
		users.On("CreateUser", tmock.Anything, tmock.Anything, "sub1").Return(nil, errors.New("bolt connection lost"))
		svc := service.NewWebhookService(users)

		outcome, user := svc.ProcessUserCreated(context.Background(), payload)
		assert.Equal(t, service.WebhookFailed, outcome)
		assert.Nil(t, user)
	})

	t.Run("success returns the created user", func(t *testing.T) {
		users := new(mock.MockUserService)
		users.On("CreateUser", tmock.Anything, tmock.Anything, "sub1").
			Return(&model.User{ID: "sub1", UserName: "jamie"}, nil)
		svc := service.NewWebhookService(users)

		outcome, user := svc.ProcessUserCreated(context.Background(), payload)
		assert.Equal(t, service.WebhookSuccess, outcome)
		assert.Equal(t, "sub1", user.ID)
	})
}

func TestProcessUserDeleted(t *testing.T) {
	t.Run("unknown user maps to UserNotFound", func(t *testing.T) {
		users := new(mock.MockUserService)
		users.On("DeleteUser", tmock.Anything, "sub1", "sub1").Return(api_errors.ErrUserNotFound)
		svc := service.NewWebhookService(users)

		outcome, err := svc.ProcessUserDeleted(context.Background(), model.IdentityUserPayload{SubjectID: "sub1"})
		assert.Equal(t, service.WebhookUserNotFound, outcome)
		assert.NoError(t, err)
	})

	t.Run("other failures keep the underlying error", func(t *testing.T) {
		users := new(mock.MockUserService)
		users.On("DeleteUser", tmock.Anything, "sub1", "sub1").Return(errors.New("graph write failed"))
		svc := service.NewWebhookService(users)

		outcome, err := svc.ProcessUserDeleted(context.Background(), model.IdentityUserPayload{SubjectID: "sub1"})
		assert.Equal(t, service.WebhookFailed, outcome)
		assert.EqualError(t, err, "graph write failed")
	})

	t.Run("blank subject is a validation error", func(t *testing.T) {
		users := new(mock.MockUserService)
		svc := service.NewWebhookService(users)

		outcome, err := svc.ProcessUserDeleted(context.Background(), model.IdentityUserPayload{})
		assert.Equal(t, service.WebhookValidationError, outcome)
		assert.NoError(t, err)
		users.AssertNotCalled(t, "DeleteUser", tmock.Anything, tmock.Anything, tmock.Anything)
	})
}
