// api/router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trashmob-eco/trashmob-api/controller"
	"github.com/trashmob-eco/trashmob-api/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Auth())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	api := router.Group("/api/v1")

	controllers.Event.RegisterRoutes(api)
	controllers.Partner.RegisterRoutes(api)
	controllers.Area.RegisterRoutes(api)
	controllers.Team.RegisterRoutes(api)
	controllers.Waiver.RegisterRoutes(api)
	controllers.Invite.RegisterRoutes(api)
	controllers.Newsletter.RegisterRoutes(api)
	controllers.Stats.RegisterRoutes(api)
	controllers.CMS.RegisterRoutes(api)
	controllers.User.RegisterRoutes(api)
	controllers.Webhook.RegisterRoutes(api)

	return router
}
