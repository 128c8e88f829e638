// api/service/newsletter_service.go
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

// INewsletterService defines the interface for newsletter operations
type INewsletterService interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context, limit, offset int) ([]*model.NewsletterSubscription, error)
	RequestSend(ctx context.Context, req model.NewsletterSendRequest, requesterID string) error
}

// NewsletterService handles business logic for newsletter operations.
// Delivery is owned by an external sender; this layer persists subscriptions
// and enqueues send requests.
type NewsletterService struct {
	newsletterDAO *dao.NewsletterDAO
	queue         util.NewsletterQueue
}

var _ INewsletterService = &NewsletterService{}

func NewNewsletterService(newsletterDAO *dao.NewsletterDAO, queue util.NewsletterQueue) *NewsletterService {
	return &NewsletterService{newsletterDAO: newsletterDAO, queue: queue}
}

func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return api_errors.ErrSubscriptionInvalid
	}
	return s.newsletterDAO.Subscribe(ctx, email)
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return api_errors.ErrSubscriptionInvalid
	}
	return s.newsletterDAO.Unsubscribe(ctx, email)
}

func (s *NewsletterService) ListSubscribers(ctx context.Context, limit, offset int) ([]*model.NewsletterSubscription, error) {
	return s.newsletterDAO.ListSubscribers(ctx, limit, offset)
}

func (s *NewsletterService) RequestSend(ctx context.Context, req model.NewsletterSendRequest, requesterID string) error {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.BodyHTML) == "" {
		return api_errors.ErrSubscriptionInvalid
	}

	req.RequestedBy = requesterID
	req.RequestedAt = time.Now()

	logger.Info("Enqueueing newsletter send", zap.String("subject", req.Subject), zap.String("requestedBy", requesterID))
	return s.queue.EnqueueSend(ctx, req)
}
