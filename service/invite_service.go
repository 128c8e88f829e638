// api/service/invite_service.go
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/trashmob-eco/trashmob-api/dao"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

const inviteSendConcurrency = 5

// IInviteService defines the interface for user invite operations
type IInviteService interface {
	// SendBatch returns the created batch, or the remaining monthly quota
	// alongside ErrInviteQuotaExceeded when the batch does not fit.
	SendBatch(ctx context.Context, req model.InviteBatchRequest, senderID string) (*model.InviteBatch, int, error)
	GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error)
	ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error)
	DeleteInvite(ctx context.Context, inviteID string, deleterID string) error
	QuotaRemaining(ctx context.Context, userID string) (int, error)
}

// InviteStore is the persistence surface the invite service needs;
// *dao.InviteDAO satisfies it.
type InviteStore interface {
	CountInvitesSince(ctx context.Context, userID string, since time.Time) (int, error)
	CreateBatch(ctx context.Context, batch model.InviteBatch, invites []model.UserInvite) (string, error)
	GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error)
	UpdateBatchCounts(ctx context.Context, batchID string, sentCount, failedCount int) error
	SetInviteStatus(ctx context.Context, inviteID, status string) error
	ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error)
	DeleteInvite(ctx context.Context, inviteID string, userID string) error
}

var _ InviteStore = &dao.InviteDAO{}

// InviteService handles business logic for user invite operations
type InviteService struct {
	inviteDAO          InviteStore
	notificationSvc    *util.NotificationService
	maxInvitesPerMonth int
}

var _ IInviteService = &InviteService{}

func NewInviteService(inviteDAO InviteStore, notificationSvc *util.NotificationService, maxInvitesPerMonth int) *InviteService {
	return &InviteService{
		inviteDAO:          inviteDAO,
		notificationSvc:    notificationSvc,
		maxInvitesPerMonth: maxInvitesPerMonth,
	}
}

func (s *InviteService) monthStart() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

func (s *InviteService) QuotaRemaining(ctx context.Context, userID string) (int, error) {
	used, err := s.inviteDAO.CountInvitesSince(ctx, userID, s.monthStart())
	if err != nil {
		return 0, err
	}
	remaining := s.maxInvitesPerMonth - used
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// SendBatch checks the monthly quota, persists the batch, then fans out the
// emails with bounded concurrency. The quota check is advisory; a concurrent
// batch can race past it, which is acceptable at this layer.
func (s *InviteService) SendBatch(ctx context.Context, req model.InviteBatchRequest, senderID string) (*model.InviteBatch, int, error) {
	emails := dedupeEmails(req.Emails)
	if len(emails) == 0 {
		return nil, 0, api_errors.ErrInviteInvalid
	}

	remaining, err := s.QuotaRemaining(ctx, senderID)
	if err != nil {
		return nil, 0, err
	}
	if len(emails) > remaining {
		logger.Warn("Invite quota exceeded",
			zap.String("senderID", senderID),
			zap.Int("requested", len(emails)),
			zap.Int("remaining", remaining))
		return nil, remaining, api_errors.ErrInviteQuotaExceeded
	}

	now := time.Now()
	batch := model.InviteBatch{
		SentByUserID: senderID,
		TotalCount:   len(emails),
		CreatedDate:  now,
	}

	invites := make([]model.UserInvite, 0, len(emails))
	for _, email := range emails {
		invites = append(invites, model.UserInvite{
			Email:           email,
			Status:          "pending",
			CreatedByUserID: senderID,
			CreatedDate:     now,
		})
	}

	batchID, err := s.inviteDAO.CreateBatch(ctx, batch, invites)
	if err != nil {
		return nil, 0, err
	}

	stored, err := s.inviteDAO.ListInvitesByBatch(ctx, batchID)
	if err != nil {
		return nil, 0, err
	}

	var sentCount, failedCount int
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, inviteSendConcurrency)
	for _, invite := range stored {
		invite := invite
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			status := "sent"
			if err := s.notificationSvc.SendEmail(gctx, invite.Email, "You're invited to join a cleanup community", req.Message); err != nil {
				logger.Warn("Failed to send invite email", zap.Error(err), zap.String("email", invite.Email))
				status = "failed"
			}
			if err := s.inviteDAO.SetInviteStatus(gctx, invite.ID, status); err != nil {
				logger.Warn("Failed to record invite status", zap.Error(err), zap.String("inviteID", invite.ID))
			}

			mu.Lock()
			if status == "sent" {
				sentCount++
			} else {
				failedCount++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if err := s.inviteDAO.UpdateBatchCounts(ctx, batchID, sentCount, failedCount); err != nil {
		logger.Warn("Failed to record batch counts", zap.Error(err), zap.String("batchID", batchID))
	}

	result, err := s.inviteDAO.GetBatch(ctx, batchID)
	if err != nil {
		return nil, 0, err
	}
	return result, remaining - len(emails), nil
}

func (s *InviteService) GetBatch(ctx context.Context, batchID string) (*model.InviteBatch, error) {
	return s.inviteDAO.GetBatch(ctx, batchID)
}

func (s *InviteService) ListInvitesByBatch(ctx context.Context, batchID string) ([]*model.UserInvite, error) {
	return s.inviteDAO.ListInvitesByBatch(ctx, batchID)
}

func (s *InviteService) DeleteInvite(ctx context.Context, inviteID string, deleterID string) error {
	return s.inviteDAO.DeleteInvite(ctx, inviteID, deleterID)
}

func dedupeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized := strings.ToLower(strings.TrimSpace(e))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
