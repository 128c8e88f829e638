// api/service/services.go
package service

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/trashmob-eco/trashmob-api/audit"
	"github.com/trashmob-eco/trashmob-api/config"
	"github.com/trashmob-eco/trashmob-api/dao"
	"github.com/trashmob-eco/trashmob-api/db"
	"github.com/trashmob-eco/trashmob-api/util"
)

type Services struct {
	Event      IEventService
	Partner    IPartnerService
	Area       IAreaService
	Team       ITeamService
	Waiver     IWaiverService
	Invite     IInviteService
	Newsletter INewsletterService
	Stats      IStatsService
	User       IUserService
	CMS        ICMSService
	Webhook    IWebhookService
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	blobStore db.BlobStore,
	cfg *config.Configuration,
) (*Services, error) {
	eventDAO := dao.NewEventDAO(driver, auditService)
	partnerDAO := dao.NewPartnerDAO(driver, auditService)
	areaDAO := dao.NewAreaDAO(driver, auditService)
	teamDAO := dao.NewTeamDAO(driver, auditService)
	waiverDAO := dao.NewWaiverDAO(driver, auditService)
	inviteDAO := dao.NewInviteDAO(driver, auditService)
	newsletterDAO := dao.NewNewsletterDAO(driver, auditService)
	statsDAO := dao.NewStatsDAO(driver)
	userDAO := dao.NewUserDAO(driver, auditService)

	newsletterQueue := util.NewBusNewsletterQueue(eventBus)
	generationQueue := util.NewBusAreaGenerationQueue(eventBus)

	userService := NewUserService(userDAO, validationUtil, cacheService, notificationSvc, eventBus)

	cmsTimeout, err := time.ParseDuration(cfg.CMS.Timeout)
	if err != nil {
		cmsTimeout = 10 * time.Second
	}

	services := &Services{
		Event:      NewEventService(eventDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Partner:    NewPartnerService(partnerDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Area:       NewAreaService(areaDAO, validationUtil, cacheService, notificationSvc, eventBus, generationQueue),
		Team:       NewTeamService(teamDAO, validationUtil, cacheService, notificationSvc, eventBus, blobStore),
		Waiver:     NewWaiverService(waiverDAO, validationUtil, eventBus),
		Invite:     NewInviteService(inviteDAO, notificationSvc, cfg.Invites.MaxInvitesPerMonth),
		Newsletter: NewNewsletterService(newsletterDAO, newsletterQueue),
		Stats:      NewStatsService(statsDAO),
		User:       userService,
		CMS:        NewCMSService(cfg.CMS.BaseURL, cmsTimeout),
		Webhook:    NewWebhookService(userService),
	}

	return services, nil
}
