// api/test/mock/store.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/trashmob-eco/trashmob-api/model"
)

// MockInviteStore is a mock of the invite service's persistence seam
type MockInviteStore struct {
	mock.Mock
}

func (m *MockInviteStore) CountInvitesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockInviteStore) CreateBatch(ctx context.Context, batch model.InviteBatch, invites []model.UserInvite) (string, error) {
	args := m.Called(ctx, batch, invites)
	return args.String(0), args.Error(1)
}

func (m *MockInviteStore) GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InviteBatch), args.Error(1)
}

func (m *MockInviteStore) UpdateBatchCounts(ctx context.Context, batchID string, sentCount, failedCount int) error {
	args := m.Called(ctx, batchID, sentCount, failedCount)
	return args.Error(0)
}

func (m *MockInviteStore) SetInviteStatus(ctx context.Context, inviteID, status string) error {
	args := m.Called(ctx, inviteID, status)
	return args.Error(0)
}

func (m *MockInviteStore) ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserInvite), args.Error(1)
}

func (m *MockInviteStore) DeleteInvite(ctx context.Context, inviteID string, userID string) error {
	args := m.Called(ctx, inviteID, userID)
	return args.Error(0)
}
