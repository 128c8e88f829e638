// api/service/invite_service_test.go
package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmock "github.com/stretchr/testify/mock"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/test/mock"
	"github.com/trashmob-eco/trashmob-api/util"
)

func inviteEmails(n int) []string {
	emails := make([]string, 0, n)
	for i := 0; i < n; i++ {
		emails = append(emails, fmt.Sprintf("volunteer%d@example.com", i))
	}
	return emails
}

func TestSendBatch_QuotaArithmetic(t *testing.T) {
	t.Run("batch larger than the remainder is rejected with it", func(t *testing.T) {
		store := new(mock.MockInviteStore)
		store.On("CountInvitesSince", tmock.Anything, "u1", tmock.Anything).Return(45, nil)
		svc := service.NewInviteService(store, util.NewNotificationService(), 50)

		batch, remaining, err := svc.SendBatch(context.Background(),
			model.InviteBatchRequest{Emails: inviteEmails(6)}, "u1")

		assert.ErrorIs(t, err, api_errors.ErrInviteQuotaExceeded)
		assert.Nil(t, batch)
		assert.Equal(t, 5, remaining)
		store.AssertNotCalled(t, "CreateBatch", tmock.Anything, tmock.Anything, tmock.Anything)
	})

	t.Run("batch that exactly fits goes through", func(t *testing.T) {
		store := new(mock.MockInviteStore)
		store.On("CountInvitesSince", tmock.Anything, "u1", tmock.Anything).Return(45, nil)
		store.On("CreateBatch", tmock.Anything, tmock.Anything, tmock.Anything).Return("b1", nil)

		stored := make([]*model.UserInvite, 0, 5)
		for i, email := range inviteEmails(5) {
			stored = append(stored, &model.UserInvite{ID: fmt.Sprintf("inv%d", i), Email: email, Status: "pending"})
		}
		store.On("ListInvitesByBatch", tmock.Anything, "b1").Return(stored, nil)
		store.On("SetInviteStatus", tmock.Anything, tmock.Anything, "sent").Return(nil)
		store.On("UpdateBatchCounts", tmock.Anything, "b1", 5, 0).Return(nil)
		store.On("GetBatch", tmock.Anything, "b1").
			Return(&model.InviteBatch{ID: "b1", SentByUserID: "u1", TotalCount: 5, SentCount: 5}, nil)

		svc := service.NewInviteService(store, util.NewNotificationService(), 50)

		batch, remaining, err := svc.SendBatch(context.Background(),
			model.InviteBatchRequest{Emails: inviteEmails(5)}, "u1")

		require.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, "b1", batch.ID)
		assert.Equal(t, 0, remaining)
		store.AssertNumberOfCalls(t, "SetInviteStatus", 5)
	})

	t.Run("duplicate addresses collapse before the quota check", func(t *testing.T) {
		store := new(mock.MockInviteStore)
		store.On("CountInvitesSince", tmock.Anything, "u1", tmock.Anything).Return(49, nil)
		store.On("CreateBatch", tmock.Anything, tmock.Anything, tmock.Anything).Return("b2", nil)
		store.On("ListInvitesByBatch", tmock.Anything, "b2").
			Return([]*model.UserInvite{{ID: "inv0", Email: "volunteer@example.com", Status: "pending"}}, nil)
		store.On("SetInviteStatus", tmock.Anything, "inv0", "sent").Return(nil)
		store.On("UpdateBatchCounts", tmock.Anything, "b2", 1, 0).Return(nil)
		store.On("GetBatch", tmock.Anything, "b2").
			Return(&model.InviteBatch{ID: "b2", SentByUserID: "u1", TotalCount: 1, SentCount: 1}, nil)

		svc := service.NewInviteService(store, util.NewNotificationService(), 50)

		// Three spellings of the same address; only one invite fits and only
		// one is needed.
		req := model.InviteBatchRequest{Emails: []string{
			"volunteer@example.com",
			"Volunteer@Example.com",
			" volunteer@example.com ",
		}}
		batch, remaining, err := svc.SendBatch(context.Background(), req, "u1")

		require.NoError(t, err)
		require.NotNil(t, batch)
		assert.Equal(t, 0, remaining)
	})
}

func TestQuotaRemaining_NeverNegative(t *testing.T) {
	store := new(mock.MockInviteStore)
	store.On("CountInvitesSince", tmock.Anything, "u1", tmock.Anything).Return(53, nil)
	svc := service.NewInviteService(store, util.NewNotificationService(), 50)

	remaining, err := svc.QuotaRemaining(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
