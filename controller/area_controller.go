// api/controller/area_controller.go
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

type AreaController struct {
	areaService    service.IAreaService
	partnerService service.IPartnerService
	authorizer     policy.Authorizer
}

func NewAreaController(areaService service.IAreaService, partnerService service.IPartnerService, authorizer policy.Authorizer) *AreaController {
	return &AreaController{
		areaService:    areaService,
		partnerService: partnerService,
		authorizer:     authorizer,
	}
}

// RegisterRoutes registers the API routes
func (ac *AreaController) RegisterRoutes(r *gin.RouterGroup) {
	partnerAreas := r.Group("/partners/:partnerId/areas")
	{
		partnerAreas.POST("", ac.CreateArea)
		partnerAreas.GET("", ac.ListAreas)
		partnerAreas.POST("/generate", ac.RequestGeneration)
	}

	areas := r.Group("/areas")
	{
		areas.GET("/name-check", ac.CheckName)
		areas.GET("/:areaId", ac.GetArea)
		areas.PUT("/:areaId", ac.UpdateArea)
		areas.DELETE("/:areaId", ac.DeleteArea)
		areas.POST("/:areaId/adopt", ac.AdoptArea)
		areas.POST("/:areaId/release", ac.ReleaseArea)
		areas.POST("/:areaId/locations", ac.CreatePickupLocation)
		areas.GET("/:areaId/locations", ac.ListPickupLocations)
		areas.GET("/:areaId/locations/:locationId", ac.GetPickupLocation)
		areas.POST("/:areaId/locations/:locationId/pickup", ac.MarkPickedUp)
		areas.DELETE("/:areaId/locations/:locationId", ac.DeletePickupLocation)
	}
}

// resolveArea loads the area or writes the 404.
func (ac *AreaController) resolveArea(c *gin.Context, areaID string) *model.Area {
	area, err := ac.areaService.GetArea(c, areaID)
	if err != nil {
		if err == api_errors.ErrAreaNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve area", err)
		}
		return nil
	}
	return area
}

// resolvePartner loads the parent partner or writes the 404. A missing
// parent is 404 regardless of who asks.
func (ac *AreaController) resolvePartner(c *gin.Context, partnerID string) *model.Partner {
	partner, err := ac.partnerService.GetPartner(c, partnerID)
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

// CreateArea endpoint
func (ac *AreaController) CreateArea(c *gin.Context) {
	partnerID := c.Param("partnerId")
	var area model.Area
	if err := c.ShouldBindJSON(&area); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid area data", api_errors.ErrAreaInvalid)
		return
	}

	partner := ac.resolvePartner(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "area", PartnerID: partner.ID}
	if !authorize(c, ac.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	area.PartnerID = partnerID
	created, err := ac.areaService.CreateArea(c, area, userID)
	if err != nil {
		switch err {
		case api_errors.ErrAreaInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid area data", err)
		case api_errors.ErrAreaNameTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Area name already in use", err)
		case api_errors.ErrPartnerNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Partner not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create area", err)
		}
		return
	}

	c.Header("Location", "/api/v1/areas/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// ListAreas endpoint. Public.
func (ac *AreaController) ListAreas(c *gin.Context) {
	partnerID := c.Param("partnerId")

	if ac.resolvePartner(c, partnerID) == nil {
		return
	}

	limit, offset := helper_util.GetPaginationParams(c)
	areas, err := ac.areaService.ListAreasByPartner(c, partnerID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list areas", err)
		return
	}
	c.JSON(http.StatusOK, areas)
}

// GetArea endpoint. Public.
func (ac *AreaController) GetArea(c *gin.Context) {
	area := ac.resolveArea(c, c.Param("areaId"))
	if area == nil {
		return
	}
	c.JSON(http.StatusOK, area)
}

// UpdateArea endpoint
func (ac *AreaController) UpdateArea(c *gin.Context) {
	areaID := c.Param("areaId")
	var update model.Area
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid area data", api_errors.ErrAreaInvalid)
		return
	}

	area := ac.resolveArea(c, areaID)
	if area == nil {
		return
	}

	target := policy.Target{Kind: "area", ID: area.ID, PartnerID: area.PartnerID}
	if !authorize(c, ac.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	update.ID = areaID
	updated, err := ac.areaService.UpdateArea(c, update, userID)
	if err != nil {
		switch err {
		case api_errors.ErrAreaNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		case api_errors.ErrAreaInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid area data", err)
		case api_errors.ErrAreaNameTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Area name already in use", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Area was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update area", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteArea endpoint. Soft delete; a second delete answers 404.
func (ac *AreaController) DeleteArea(c *gin.Context) {
	areaID := c.Param("areaId")

	area := ac.resolveArea(c, areaID)
	if area == nil {
		return
	}

	target := policy.Target{Kind: "area", ID: area.ID, PartnerID: area.PartnerID}
	if !authorize(c, ac.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ac.areaService.DeleteArea(c, areaID, userID); err != nil {
		if err == api_errors.ErrAreaNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete area", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckName endpoint. Name uniqueness is scoped to the partner.
func (ac *AreaController) CheckName(c *gin.Context) {
	if !authorize(c, ac.authorizer, policy.ValidUser, policy.Target{Kind: "area"}) {
		return
	}

	partnerID := c.Query("partnerId")
	name := c.Query("name")
	excludeID := c.Query("excludeId")

	available, err := ac.areaService.IsNameAvailable(c, partnerID, name, excludeID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to check name", err)
		return
	}
	if !available {
		c.JSON(http.StatusConflict, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}

// AdoptArea endpoint
func (ac *AreaController) AdoptArea(c *gin.Context) {
	areaID := c.Param("areaId")
	var body struct {
		TeamID string `json:"team_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid adoption data", api_errors.ErrAreaInvalid)
		return
	}

	area := ac.resolveArea(c, areaID)
	if area == nil {
		return
	}

	if !authorize(c, ac.authorizer, policy.ValidUser, policy.Target{Kind: "area", ID: area.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	updated, err := ac.areaService.AdoptArea(c, areaID, body.TeamID, userID)
	if err != nil {
		switch err {
		case api_errors.ErrAreaNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		case api_errors.ErrAreaInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Area is already adopted", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Area was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to adopt area", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ReleaseArea endpoint
func (ac *AreaController) ReleaseArea(c *gin.Context) {
	areaID := c.Param("areaId")

	area := ac.resolveArea(c, areaID)
	if area == nil {
		return
	}

	if !authorize(c, ac.authorizer, policy.ValidUser, policy.Target{Kind: "area", ID: area.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	updated, err := ac.areaService.ReleaseArea(c, areaID, userID)
	if err != nil {
		switch err {
		case api_errors.ErrAreaNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Area was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to release area", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// RequestGeneration endpoint. The heavy lifting happens in an external
// worker; this only enqueues.
func (ac *AreaController) RequestGeneration(c *gin.Context) {
	partnerID := c.Param("partnerId")

	partner := ac.resolvePartner(c, partnerID)
	if partner == nil {
		return
	}

	target := policy.Target{Kind: "area", PartnerID: partner.ID}
	if !authorize(c, ac.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ac.areaService.RequestGeneration(c, partnerID, userID); err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to request area generation", err)
		return
	}

	c.Status(http.StatusAccepted)
}

// CreatePickupLocation endpoint
func (ac *AreaController) CreatePickupLocation(c *gin.Context) {
	areaID := c.Param("areaId")
	var location model.PickupLocation
	if err := c.ShouldBindJSON(&location); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pickup location data", api_errors.ErrAreaInvalid)
		return
	}

	area := ac.resolveArea(c, areaID)
	if area == nil {
		return
	}

	target := policy.Target{Kind: "pickup_location", PartnerID: area.PartnerID}
	if !authorize(c, ac.authorizer, policy.UserIsPartnerUserOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	location.AreaID = areaID
	created, err := ac.areaService.CreatePickupLocation(c, location, userID)
	if err != nil {
		switch err {
		case api_errors.ErrAreaInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid pickup location data", err)
		case api_errors.ErrAreaNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Area not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create pickup location", err)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// GetPickupLocation endpoint. Public.
func (ac *AreaController) GetPickupLocation(c *gin.Context) {
	if ac.resolveArea(c, c.Param("areaId")) == nil {
		return
	}

	location, err := ac.areaService.GetPickupLocation(c, c.Param("locationId"))
	if err != nil {
		if err == api_errors.ErrPickupLocationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Pickup location not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pickup location", err)
		}
		return
	}
	c.JSON(http.StatusOK, location)
}

// ListPickupLocations endpoint. Public.
func (ac *AreaController) ListPickupLocations(c *gin.Context) {
	areaID := c.Param("areaId")

	if ac.resolveArea(c, areaID) == nil {
		return
	}

	locations, err := ac.areaService.ListPickupLocations(c, areaID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list pickup locations", err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// MarkPickedUp endpoint
func (ac *AreaController) MarkPickedUp(c *gin.Context) {
	if ac.resolveArea(c, c.Param("areaId")) == nil {
		return
	}

	if !authorize(c, ac.authorizer, policy.ValidUser, policy.Target{Kind: "pickup_location"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ac.areaService.MarkPickedUp(c, c.Param("locationId"), userID); err != nil {
		if err == api_errors.ErrPickupLocationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Pickup location not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to mark pickup location", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePickupLocation endpoint. Hard delete.
// Todo: Tighten this down. Any signed-in user can currently delete a
// pickup location.
func (ac *AreaController) DeletePickupLocation(c *gin.Context) {
	if ac.resolveArea(c, c.Param("areaId")) == nil {
		return
	}

	if !authorize(c, ac.authorizer, policy.ValidUser, policy.Target{Kind: "pickup_location"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := ac.areaService.DeletePickupLocation(c, c.Param("locationId"), userID); err != nil {
		if err == api_errors.ErrPickupLocationNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Pickup location not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete pickup location", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
