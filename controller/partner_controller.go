// api/controller/partner_controller.go
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

type PartnerController struct {
	partnerService service.IPartnerService
	authorizer     policy.Authorizer
}

func NewPartnerController(partnerService service.IPartnerService, authorizer policy.Authorizer) *PartnerController {
	return &PartnerController{
		partnerService: partnerService,
		authorizer:     authorizer,
	}
}

// RegisterRoutes registers the API routes
func (pc *PartnerController) RegisterRoutes(r *gin.RouterGroup) {
	partners := r.Group("/partners")
	{
		partners.POST("", pc.CreatePartner)
		partners.GET("", pc.ListPartners)
		partners.GET("/slug-check", pc.CheckSlug)
		partners.GET("/by-slug/:slug", pc.GetPartnerBySlug)
		partners.GET("/:partnerId", pc.GetPartner)
		partners.PUT("/:partnerId", pc.UpdatePartner)
		partners.GET("/:partnerId/admins", pc.ListAdmins)
		partners.POST("/:partnerId/admins", pc.AddAdmin)
		partners.DELETE("/:partnerId/admins/:userId", pc.RemoveAdmin)
		partners.GET("/:partnerId/sponsors", pc.ListSponsors)
		partners.POST("/:partnerId/sponsors", pc.CreateSponsor)
		partners.DELETE("/:partnerId/sponsors/:sponsorId", pc.DeleteSponsor)
	}
}

// resolve loads the partner or writes the 404, returning nil when absent.
func (pc *PartnerController) resolve(c *gin.Context, partnerID string) *model.Partner {
	partner, err := pc.partnerService.GetPartner(c, partnerID)
	if err != nil {
		if err == api_errors.ErrPartnerNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve partner", err)
		}
		return nil
	}
	return partner
}

// CreatePartner endpoint. Community onboarding is an admin action.
func (pc *PartnerController) CreatePartner(c *gin.Context) {
	var partner model.Partner
	if err := c.ShouldBindJSON(&partner); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid partner data", api_errors.ErrPartnerInvalid)
		return
	}

	if !authorize(c, pc.authorizer, policy.UserIsAdmin, policy.Target{Kind: "partner"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	created, err := pc.partnerService.CreatePartner(c, partner, userID)
	if err != nil {
		switch err {
		case api_errors.ErrPartnerInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid partner data", err)
		case api_errors.ErrPartnerSlugTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Partner slug already in use", err)
		case api_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create partner", api_errors.ErrInternalServer)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// GetPartner endpoint. Partner pages are public.
func (pc *PartnerController) GetPartner(c *gin.Context) {
	partner := pc.resolve(c, c.Param("partnerId"))
	if partner == nil {
		return
	}
	c.JSON(http.StatusOK, partner)
}

// GetPartnerBySlug endpoint. Only active partners resolve by slug.
func (pc *PartnerController) GetPartnerBySlug(c *gin.Context) {
	partner, err := pc.partnerService.GetPartnerBySlug(c, c.Param("slug"))
	if err != nil {
		if err == api_errors.ErrPartnerNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve partner", err)
		}
		return
	}
	c.JSON(http.StatusOK, partner)
}

// UpdatePartner endpoint
func (pc *PartnerController) UpdatePartner(c *gin.Context) {
	partnerID := c.Param("partnerId")
	var update model.Partner
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid partner data", api_errors.ErrPartnerInvalid)
		return
	}

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	update.ID = partnerID
	updated, err := pc.partnerService.UpdatePartner(c, update, userID)
	if err != nil {
		switch err {
		case api_errors.ErrPartnerNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		case api_errors.ErrPartnerInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid partner data", err)
		case api_errors.ErrPartnerSlugTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Partner slug already in use", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Partner was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update partner", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListPartners endpoint. Public directory.
func (pc *PartnerController) ListPartners(c *gin.Context) {
	limit, offset := helper_util.GetPaginationParams(c)
	partners, err := pc.partnerService.ListPartners(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list partners", err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

// CheckSlug endpoint. Availability reads answer 200, collisions answer 409.
func (pc *PartnerController) CheckSlug(c *gin.Context) {
	if !authorize(c, pc.authorizer, policy.ValidUser, policy.Target{Kind: "partner"}) {
		return
	}

	slug := c.Query("slug")
	excludeID := c.Query("excludeId")

	available, err := pc.partnerService.IsSlugAvailable(c, slug, excludeID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to check slug", err)
		return
	}
	if !available {
		c.JSON(http.StatusConflict, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}

// AddAdmin endpoint
func (pc *PartnerController) AddAdmin(c *gin.Context) {
	partnerID := c.Param("partnerId")
	var body struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid admin data", api_errors.ErrPartnerInvalid)
		return
	}

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	if err := pc.partnerService.AddAdmin(c, partnerID, body.UserID, actingUserID); err != nil {
		switch err {
		case api_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case api_errors.ErrPartnerNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to add admin", err)
		}
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveAdmin endpoint
func (pc *PartnerController) RemoveAdmin(c *gin.Context) {
	partnerID := c.Param("partnerId")
	userID := c.Param("userId")

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	if err := pc.partnerService.RemoveAdmin(c, partnerID, userID, actingUserID); err != nil {
		if err == api_errors.ErrPartnerAdminNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Partner admin not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to remove admin", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListAdmins endpoint
func (pc *PartnerController) ListAdmins(c *gin.Context) {
	partnerID := c.Param("partnerId")

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}

	admins, err := pc.partnerService.ListAdmins(c, partnerID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list admins", err)
		return
	}
	c.JSON(http.StatusOK, admins)
}

// CreateSponsor endpoint
func (pc *PartnerController) CreateSponsor(c *gin.Context) {
	partnerID := c.Param("partnerId")
	var sponsor model.Sponsor
	if err := c.ShouldBindJSON(&sponsor); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid sponsor data", api_errors.ErrPartnerInvalid)
		return
	}

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "partner", ID: partner.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	sponsor.PartnerID = partnerID
	created, err := pc.partnerService.CreateSponsor(c, sponsor, userID)
	if err != nil {
		switch err {
		case api_errors.ErrPartnerInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid sponsor data", err)
		case api_errors.ErrPartnerNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create sponsor", err)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// ListSponsors endpoint. Sponsor rosters are public.
func (pc *PartnerController) ListSponsors(c *gin.Context) {
	partnerID := c.Param("partnerId")

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	sponsors, err := pc.partnerService.ListSponsors(c, partnerID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list sponsors", err)
		return
	}
	c.JSON(http.StatusOK, sponsors)
}

// DeleteSponsor endpoint. Sponsors are soft deleted.
func (pc *PartnerController) DeleteSponsor(c *gin.Context) {
	partnerID := c.Param("partnerId")
	sponsorID := c.Param("sponsorId")

	partner := pc.resolve(c, partnerID)
	if partner == nil {
		return
	}

	sponsor, err := pc.partnerService.GetSponsor(c, sponsorID)
	if err != nil {
		if err == api_errors.ErrSponsorNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Sponsor not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sponsor", err)
		}
		return
	}

	target := policy.Target{Kind: "sponsor", ID: sponsor.ID, PartnerID: partner.ID}
	if !authorize(c, pc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := pc.partnerService.DeleteSponsor(c, sponsorID, userID); err != nil {
		if err == api_errors.ErrSponsorNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Sponsor not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete sponsor", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
