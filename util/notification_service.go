// api/util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/model"
)

type NotificationService struct {
	// A message queue client would live here once outbound mail moves off
	// the in-process sender.
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}

func (n *NotificationService) NotifyEventChange(ctx context.Context, changeType string, event model.Event) error {
	switch changeType {
	case "created", "updated", "canceled":
		logger.Info("NOTIFICATION: Event "+changeType,
			zap.String("eventID", event.ID),
			zap.String("eventName", event.Name))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	return nil
}

func (n *NotificationService) NotifyPartnerChange(ctx context.Context, changeType string, partner model.Partner) error {
	logger.Info("Notifying partner change",
		zap.String("changeType", changeType),
		zap.String("partnerID", partner.ID),
		zap.String("partnerName", partner.Name))
	return nil
}

func (n *NotificationService) NotifyAreaChange(ctx context.Context, changeType string, area model.Area) error {
	logger.Info("Notifying area change",
		zap.String("changeType", changeType),
		zap.String("areaID", area.ID),
		zap.String("areaName", area.Name))
	return nil
}

func (n *NotificationService) NotifyTeamChange(ctx context.Context, changeType string, team model.Team) error {
	logger.Info("Notifying team change",
		zap.String("changeType", changeType),
		zap.String("teamID", team.ID),
		zap.String("teamName", team.Name))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
