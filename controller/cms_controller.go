// api/controller/cms_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
)

type CMSController struct {
	cmsService service.ICMSService
}

func NewCMSController(cmsService service.ICMSService) *CMSController {
	return &CMSController{cmsService: cmsService}
}

// RegisterRoutes registers the API routes. CMS content is public.
func (cc *CMSController) RegisterRoutes(r *gin.RouterGroup) {
	cms := r.Group("/cms")
	{
		cms.GET("/posts", cc.GetPosts)
		cms.GET("/feed/rss", cc.GetNewsFeed)
	}
}

// GetPosts endpoint forwards the upstream JSON verbatim. An unconfigured or
// unreachable CMS answers 503.
func (cc *CMSController) GetPosts(c *gin.Context) {
	body, err := cc.cmsService.FetchJSON(c, "/posts")
	if err != nil {
		if err == api_errors.ErrCMSUnavailable {
			util.RespondWithError(c, http.StatusServiceUnavailable, "Content service unavailable", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch posts", err)
		}
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

// GetNewsFeed endpoint serves the news feed as RSS 2.0.
func (cc *CMSController) GetNewsFeed(c *gin.Context) {
	feed, err := cc.cmsService.NewsFeedRSS(c)
	if err != nil {
		if err == api_errors.ErrCMSUnavailable {
			util.RespondWithError(c, http.StatusServiceUnavailable, "Content service unavailable", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to build feed", err)
		}
		return
	}
	c.Data(http.StatusOK, "application/rss+xml", feed)
}
