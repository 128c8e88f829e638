// api/controller/invite_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
)

type InviteController struct {
	inviteService service.IInviteService
	authorizer    policy.Authorizer
}

func NewInviteController(inviteService service.IInviteService, authorizer policy.Authorizer) *InviteController {
	return &InviteController{
		inviteService: inviteService,
		authorizer:    authorizer,
	}
}

// RegisterRoutes registers the API routes
func (ic *InviteController) RegisterRoutes(r *gin.RouterGroup) {
	invites := r.Group("/invites")
	{
		invites.POST("", ic.SendBatch)
		invites.GET("/quota", ic.GetQuota)
		invites.GET("/batches/:batchId", ic.GetBatch)
		invites.GET("/batches/:batchId/invites", ic.ListInvites)
		invites.DELETE("/:inviteId", ic.DeleteInvite)
	}
}

// SendBatch endpoint. Exceeding the monthly quota answers 429 with how many
// invites the caller has left.
func (ic *InviteController) SendBatch(c *gin.Context) {
	var req model.InviteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid invite request", api_errors.ErrInviteInvalid)
		return
	}

	if !authorize(c, ic.authorizer, policy.ValidUser, policy.Target{Kind: "invite"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	batch, remaining, err := ic.inviteService.SendBatch(c, req, userID)
	if err != nil {
		switch err {
		case api_errors.ErrInviteQuotaExceeded:
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Monthly invite quota exceeded",
				"remaining": remaining,
			})
		case api_errors.ErrInviteInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid invite request", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to send invites", err)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/batches/"+batch.ID)
	c.JSON(http.StatusCreated, batch)
}

// GetQuota endpoint
func (ic *InviteController) GetQuota(c *gin.Context) {
	if !authorize(c, ic.authorizer, policy.ValidUser, policy.Target{Kind: "invite"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	remaining, err := ic.inviteService.QuotaRemaining(c, userID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to read invite quota", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining": remaining})
}

// GetBatch endpoint. Senders see their own batches; admins see all.
func (ic *InviteController) GetBatch(c *gin.Context) {
	batchID := c.Param("batchId")

	batch, err := ic.inviteService.GetBatch(c, batchID)
	if err != nil {
		if err == api_errors.ErrInviteNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Invite batch not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invite batch", err)
		}
		return
	}

	target := policy.Target{Kind: "invite_batch", ID: batch.ID, OwnerID: batch.SentByUserID}
	if !authorize(c, ic.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}

	c.JSON(http.StatusOK, batch)
}

// ListInvites endpoint
func (ic *InviteController) ListInvites(c *gin.Context) {
	batchID := c.Param("batchId")

	batch, err := ic.inviteService.GetBatch(c, batchID)
	if err != nil {
		if err == api_errors.ErrInviteNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Invite batch not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invite batch", err)
		}
		return
	}

	target := policy.Target{Kind: "invite_batch", ID: batch.ID, OwnerID: batch.SentByUserID}
	if !authorize(c, ic.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}

	invites, err := ic.inviteService.ListInvitesByBatch(c, batchID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list invites", err)
		return
	}
	c.JSON(http.StatusOK, invites)
}

// DeleteInvite endpoint. Hard delete, admin only.
func (ic *InviteController) DeleteInvite(c *gin.Context) {
	if !authorize(c, ic.authorizer, policy.UserIsAdmin, policy.Target{Kind: "invite"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ic.inviteService.DeleteInvite(c, c.Param("inviteId"), userID); err != nil {
		if err == api_errors.ErrInviteNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Invite not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invite", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
