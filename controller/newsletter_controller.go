// api/controller/newsletter_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
	helper_util "github.com/trashmob-eco/trashmob-api/util/helper"
)

type NewsletterController struct {
	newsletterService service.INewsletterService
	authorizer        policy.Authorizer
}

func NewNewsletterController(newsletterService service.INewsletterService, authorizer policy.Authorizer) *NewsletterController {
	return &NewsletterController{
		newsletterService: newsletterService,
		authorizer:        authorizer,
	}
}

// RegisterRoutes registers the API routes
func (nc *NewsletterController) RegisterRoutes(r *gin.RouterGroup) {
	newsletters := r.Group("/newsletters")
	{
		newsletters.POST("/subscribe", nc.Subscribe)
		newsletters.POST("/unsubscribe", nc.Unsubscribe)
		newsletters.GET("/subscribers", nc.ListSubscribers)
		newsletters.POST("/send", nc.RequestSend)
	}
}

// Subscribe endpoint. Public; re-subscribing reactivates.
func (nc *NewsletterController) Subscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid subscription data", api_errors.ErrSubscriptionInvalid)
		return
	}

	if err := nc.newsletterService.Subscribe(c, body.Email); err != nil {
		if err == api_errors.ErrSubscriptionInvalid {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid subscription data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to subscribe", err)
		}
		return
	}

	c.Status(http.StatusCreated)
}

// Unsubscribe endpoint. Public.
func (nc *NewsletterController) Unsubscribe(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid subscription data", api_errors.ErrSubscriptionInvalid)
		return
	}

	if err := nc.newsletterService.Unsubscribe(c, body.Email); err != nil {
		switch err {
		case api_errors.ErrSubscriptionNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Subscription not found", err)
		case api_errors.ErrSubscriptionInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid subscription data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to unsubscribe", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscribers endpoint. Admin only.
func (nc *NewsletterController) ListSubscribers(c *gin.Context) {
	if !authorize(c, nc.authorizer, policy.UserIsAdmin, policy.Target{Kind: "newsletter"}) {
		return
	}

	limit, offset := helper_util.GetPaginationParams(c)
	subs, err := nc.newsletterService.ListSubscribers(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list subscribers", err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

// RequestSend endpoint. Sending is delegated to the external queue; the
// API answers 202 once the request is enqueued.
func (nc *NewsletterController) RequestSend(c *gin.Context) {
	var req model.NewsletterSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid newsletter data", api_errors.ErrSubscriptionInvalid)
		return
	}

	if !authorize(c, nc.authorizer, policy.UserIsAdmin, policy.Target{Kind: "newsletter"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := nc.newsletterService.RequestSend(c, req, userID); err != nil {
		if err == api_errors.ErrSubscriptionInvalid {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid newsletter data", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to enqueue newsletter", err)
		}
		return
	}

	c.Status(http.StatusAccepted)
}
