// test/mock/service.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
)

// MockTeamService is a mock implementation of service.ITeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) CreateTeam(ctx context.Context, team model.Team, creatorID string) (*model.Team, error) {
	args := m.Called(ctx, team, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, team model.Team, updaterID string) (*model.Team, error) {
	args := m.Called(ctx, team, updaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, teamID string, deleterID string) error {
	args := m.Called(ctx, teamID, deleterID)
	return args.Error(0)
}

func (m *MockTeamService) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamService) ListTeams(ctx context.Context, limit, offset int) ([]*model.Team, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Team), args.Error(1)
}

func (m *MockTeamService) IsNameAvailable(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamService) AddMember(ctx context.Context, teamID, userID, actingUserID string) error {
	args := m.Called(ctx, teamID, userID, actingUserID)
	return args.Error(0)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID, actingUserID string) error {
	args := m.Called(ctx, teamID, userID, actingUserID)
	return args.Error(0)
}

func (m *MockTeamService) ListMembers(ctx context.Context, teamID string) ([]*model.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TeamMember), args.Error(1)
}

func (m *MockTeamService) AddPhoto(ctx context.Context, teamID, caption string, data []byte, uploaderID string) (*model.TeamPhoto, error) {
	args := m.Called(ctx, teamID, caption, data, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamPhoto), args.Error(1)
}

func (m *MockTeamService) GetPhoto(ctx context.Context, photoID string) (*model.TeamPhoto, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamPhoto), args.Error(1)
}

func (m *MockTeamService) GetPhotoContent(ctx context.Context, photoID string) ([]byte, error) {
	args := m.Called(ctx, photoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockTeamService) ListPhotos(ctx context.Context, teamID, status string) ([]*model.TeamPhoto, error) {
	args := m.Called(ctx, teamID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TeamPhoto), args.Error(1)
}

func (m *MockTeamService) ListPhotosPendingModeration(ctx context.Context, limit, offset int) ([]*model.TeamPhoto, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TeamPhoto), args.Error(1)
}

func (m *MockTeamService) ModeratePhoto(ctx context.Context, photoID, status, moderatorID string) error {
	args := m.Called(ctx, photoID, status, moderatorID)
	return args.Error(0)
}

func (m *MockTeamService) DeletePhoto(ctx context.Context, photoID string, deleterID string) error {
	args := m.Called(ctx, photoID, deleterID)
	return args.Error(0)
}

// MockInviteService is a mock implementation of service.IInviteService
type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) SendBatch(ctx context.Context, req model.InviteBatchRequest, senderID string) (*model.InviteBatch, int, error) {
	args := m.Called(ctx, req, senderID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*model.InviteBatch), args.Int(1), args.Error(2)
}

func (m *MockInviteService) GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InviteBatch), args.Error(1)
}

func (m *MockInviteService) ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.UserInvite), args.Error(1)
}

func (m *MockInviteService) DeleteInvite(ctx context.Context, inviteID string, deleterID string) error {
	args := m.Called(ctx, inviteID, deleterID)
	return args.Error(0)
}

func (m *MockInviteService) QuotaRemaining(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// MockUserService is a mock implementation of service.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, user model.User, creatorID string) (*model.User, error) {
	args := m.Called(ctx, user, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, user model.User, updaterID string) (*model.User, error) {
	args := m.Called(ctx, user, updaterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, deleterID string) error {
	args := m.Called(ctx, userID, deleterID)
	return args.Error(0)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SearchUsers(ctx context.Context, criteria model.UserSearchCriteria) ([]*model.User, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockWebhookService is a mock implementation of service.IWebhookService
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) ProcessUserCreated(ctx context.Context, payload model.IdentityUserPayload) (service.WebhookOutcome, *model.User) {
	args := m.Called(ctx, payload)
	if args.Get(1) == nil {
		return args.Get(0).(service.WebhookOutcome), nil
	}
	return args.Get(0).(service.WebhookOutcome), args.Get(1).(*model.User)
}

func (m *MockWebhookService) ProcessUserDeleted(ctx context.Context, payload model.IdentityUserPayload) (service.WebhookOutcome, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(service.WebhookOutcome), args.Error(1)
}
