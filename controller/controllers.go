// api/controller/controllers.go
package controller

import (
	"github.com/trashmob-eco/trashmob-api/config"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
)

type Controllers struct {
	Event      *EventController
	Partner    *PartnerController
	Area       *AreaController
	Team       *TeamController
	Waiver     *WaiverController
	Invite     *InviteController
	Newsletter *NewsletterController
	Stats      *StatsController
	CMS        *CMSController
	User       *UserController
	Webhook    *WebhookController
}

func InitializeControllers(services *service.Services, authorizer policy.Authorizer, cfg *config.Configuration) *Controllers {
	return &Controllers{
		Event:      NewEventController(services.Event, authorizer),
		Partner:    NewPartnerController(services.Partner, authorizer),
		Area:       NewAreaController(services.Area, services.Partner, authorizer),
		Team:       NewTeamController(services.Team, authorizer),
		Waiver:     NewWaiverController(services.Waiver, services.Partner, authorizer),
		Invite:     NewInviteController(services.Invite, authorizer),
		Newsletter: NewNewsletterController(services.Newsletter, authorizer),
		Stats:      NewStatsController(services.Stats, services.Partner, authorizer),
		CMS:        NewCMSController(services.CMS),
		User:       NewUserController(services.User, authorizer),
		Webhook:    NewWebhookController(services.Webhook, cfg.Webhooks.Secret),
	}
}
