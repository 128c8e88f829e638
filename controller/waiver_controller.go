// api/controller/waiver_controller.go
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

type WaiverController struct {
	waiverService  service.IWaiverService
	partnerService service.IPartnerService
	authorizer     policy.Authorizer
}

func NewWaiverController(waiverService service.IWaiverService, partnerService service.IPartnerService, authorizer policy.Authorizer) *WaiverController {
	return &WaiverController{
		waiverService:  waiverService,
		partnerService: partnerService,
		authorizer:     authorizer,
	}
}

// RegisterRoutes registers the API routes
func (wc *WaiverController) RegisterRoutes(r *gin.RouterGroup) {
	partnerWaivers := r.Group("/partners/:partnerId/waivers")
	{
		partnerWaivers.POST("", wc.CreateWaiver)
		partnerWaivers.GET("", wc.ListWaivers)
	}
	r.GET("/partners/:partnerId/exports/waivers.csv", wc.ExportCompliance)

	waivers := r.Group("/waivers")
	{
		waivers.GET("/:waiverId", wc.GetWaiver)
		waivers.PUT("/:waiverId", wc.UpdateWaiver)
		waivers.DELETE("/:waiverId", wc.DeleteWaiver)
		waivers.POST("/:waiverId/signatures", wc.SignWaiver)
		waivers.GET("/:waiverId/signatures", wc.ListSignatures)
	}
}

func (wc *WaiverController) resolvePartner(c *gin.Context, partnerID string) *model.Partner {
	partner, err := wc.partnerService.GetPartner(c, partnerID)
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

func (wc *WaiverController) resolveWaiver(c *gin.Context, waiverID string) *model.Waiver {
	waiver, err := wc.waiverService.GetWaiver(c, waiverID)
	if err != nil {
		if err == api_errors.ErrWaiverNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Waiver not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve waiver", err)
		}
		return nil
	}
	return waiver
}

// CreateWaiver endpoint
func (wc *WaiverController) CreateWaiver(c *gin.Context) {
	partnerID := c.Param("partnerId")
	var waiver model.Waiver
	if err := c.ShouldBindJSON(&waiver); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", api_errors.ErrWaiverInvalid)
		return
	}

	partner := wc.resolvePartner(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "waiver", PartnerID: partner.ID}
	if !authorize(c, wc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	waiver.PartnerID = partnerID
	created, err := wc.waiverService.CreateWaiver(c, waiver, userID)
	if err != nil {
		switch err {
		case api_errors.ErrWaiverInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", err)
		case api_errors.ErrPartnerNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create waiver", err)
		}
		return
	}

	c.Header("Location", "/api/v1/waivers/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// ListWaivers endpoint. Active waivers are public reading material.
func (wc *WaiverController) ListWaivers(c *gin.Context) {
	partnerID := c.Param("partnerId")

	if wc.resolvePartner(c, partnerID) == nil {
		return
	}

	waivers, err := wc.waiverService.ListWaiversByPartner(c, partnerID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list waivers", err)
		return
	}
	c.JSON(http.StatusOK, waivers)
}

// GetWaiver endpoint. Public.
func (wc *WaiverController) GetWaiver(c *gin.Context) {
	waiver := wc.resolveWaiver(c, c.Param("waiverId"))
	if waiver == nil {
		return
	}
	c.JSON(http.StatusOK, waiver)
}

// UpdateWaiver endpoint
func (wc *WaiverController) UpdateWaiver(c *gin.Context) {
	waiverID := c.Param("waiverId")
	var update model.Waiver
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", api_errors.ErrWaiverInvalid)
		return
	}

	waiver := wc.resolveWaiver(c, waiverID)
	if waiver == nil {
		return
	}

	target := policy.Target{Kind: "waiver", ID: waiver.ID, PartnerID: waiver.PartnerID}
	if !authorize(c, wc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	update.ID = waiverID
	updated, err := wc.waiverService.UpdateWaiver(c, update, userID)
	if err != nil {
		switch err {
		case api_errors.ErrWaiverNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Waiver not found", err)
		case api_errors.ErrWaiverInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid waiver data", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Waiver was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update waiver", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteWaiver endpoint. Soft delete; a second delete answers 404.
func (wc *WaiverController) DeleteWaiver(c *gin.Context) {
	waiverID := c.Param("waiverId")

	waiver := wc.resolveWaiver(c, waiverID)
	if waiver == nil {
		return
	}

	target := policy.Target{Kind: "waiver", ID: waiver.ID, PartnerID: waiver.PartnerID}
	if !authorize(c, wc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := wc.waiverService.DeleteWaiver(c, waiverID, userID); err != nil {
		if err == api_errors.ErrWaiverNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Waiver not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete waiver", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// SignWaiver endpoint. Callers sign for themselves.
func (wc *WaiverController) SignWaiver(c *gin.Context) {
	waiverID := c.Param("waiverId")
	var body struct {
		FullName string `json:"full_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid signature data", api_errors.ErrWaiverInvalid)
		return
	}

	waiver := wc.resolveWaiver(c, waiverID)
	if waiver == nil {
		return
	}

	if !authorize(c, wc.authorizer, policy.ValidUser, policy.Target{Kind: "waiver", ID: waiver.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := wc.waiverService.SignWaiver(c, waiverID, userID, body.FullName); err != nil {
		switch err {
		case api_errors.ErrWaiverInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid signature data", err)
		case api_errors.ErrSignatureConflict:
			util.RespondWithError(c, http.StatusBadRequest, "Waiver already signed", err)
		case api_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to record signature", err)
		}
		return
	}

	c.Status(http.StatusCreated)
}

// ListSignatures endpoint
func (wc *WaiverController) ListSignatures(c *gin.Context) {
	waiverID := c.Param("waiverId")

	waiver := wc.resolveWaiver(c, waiverID)
	if waiver == nil {
		return
	}

	target := policy.Target{Kind: "waiver", ID: waiver.ID, PartnerID: waiver.PartnerID}
	if !authorize(c, wc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}

	signatures, err := wc.waiverService.ListSignatures(c, waiverID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list signatures", err)
		return
	}
	c.JSON(http.StatusOK, signatures)
}

// ExportCompliance endpoint streams the waiver compliance report as CSV.
func (wc *WaiverController) ExportCompliance(c *gin.Context) {
	partnerID := c.Param("partnerId")

	partner := wc.resolvePartner(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "waiver", PartnerID: partner.ID}
	if !authorize(c, wc.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}

	csv, err := wc.waiverService.ExportComplianceCSV(c, partnerID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to build compliance export", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="waiver-compliance.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}
