// api/controller/team_controller.go
package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
	helper_util "github.com/trashmob-eco/trashmob-api/util/helper"
)

const maxPhotoBytes = 10 << 20

type TeamController struct {
	teamService service.ITeamService
	authorizer  policy.Authorizer
}

func NewTeamController(teamService service.ITeamService, authorizer policy.Authorizer) *TeamController {
	return &TeamController{
		teamService: teamService,
		authorizer:  authorizer,
	}
}

// RegisterRoutes registers the API routes
func (tc *TeamController) RegisterRoutes(r *gin.RouterGroup) {
	teams := r.Group("/teams")
	{
		teams.POST("", tc.CreateTeam)
		teams.GET("", tc.ListTeams)
		teams.GET("/name-check", tc.CheckName)
		teams.GET("/:teamId", tc.GetTeam)
		teams.PUT("/:teamId", tc.UpdateTeam)
		teams.DELETE("/:teamId", tc.DeleteTeam)
		teams.GET("/:teamId/members", tc.ListMembers)
		teams.POST("/:teamId/members", tc.JoinTeam)
		teams.DELETE("/:teamId/members/:userId", tc.RemoveMember)
		teams.GET("/:teamId/photos", tc.ListPhotos)
		teams.POST("/:teamId/photos", tc.AddPhoto)
		teams.GET("/:teamId/photos/:photoId/content", tc.GetPhotoContent)
		teams.DELETE("/:teamId/photos/:photoId", tc.DeletePhoto)
	}

	moderation := r.Group("/moderation/photos")
	{
		moderation.GET("", tc.ListPendingPhotos)
		moderation.POST("/:photoId", tc.ModeratePhoto)
	}
}

// resolve loads the team or writes the 404.
func (tc *TeamController) resolve(c *gin.Context, teamID string) *model.Team {
	team, err := tc.teamService.GetTeam(c, teamID)
	if err != nil {
		if err == api_errors.ErrTeamNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Team not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve team", err)
		}
		return nil
	}
	return team
}

// CreateTeam endpoint
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var team model.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", api_errors.ErrTeamInvalid)
		return
	}

	if !authorize(c, tc.authorizer, policy.ValidUser, policy.Target{Kind: "team"}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	created, err := tc.teamService.CreateTeam(c, team, userID)
	if err != nil {
		switch err {
		case api_errors.ErrTeamInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", err)
		case api_errors.ErrTeamNameTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Team name already in use", err)
		case api_errors.ErrDatabaseOperation:
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create team", api_errors.ErrInternalServer)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// GetTeam endpoint. Public.
func (tc *TeamController) GetTeam(c *gin.Context) {
	team := tc.resolve(c, c.Param("teamId"))
	if team == nil {
		return
	}
	c.JSON(http.StatusOK, team)
}

// UpdateTeam endpoint
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	teamID := c.Param("teamId")
	var update model.Team
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", api_errors.ErrTeamInvalid)
		return
	}

	team := tc.resolve(c, teamID)
	if team == nil {
		return
	}

	target := policy.Target{Kind: "team", ID: team.ID, OwnerID: team.CreatedByUserID}
	if !authorize(c, tc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	update.ID = teamID
	updated, err := tc.teamService.UpdateTeam(c, update, userID)
	if err != nil {
		switch err {
		case api_errors.ErrTeamNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Team not found", err)
		case api_errors.ErrTeamInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", err)
		case api_errors.ErrTeamNameTaken:
			util.RespondWithError(c, http.StatusBadRequest, "Team name already in use", err)
		case api_errors.ErrConcurrentModification:
			util.RespondWithError(c, http.StatusInternalServerError, "Team was modified concurrently", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update team", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTeam endpoint. Soft delete; a second delete answers 404.
func (tc *TeamController) DeleteTeam(c *gin.Context) {
	teamID := c.Param("teamId")

	team := tc.resolve(c, teamID)
	if team == nil {
		return
	}

	target := policy.Target{Kind: "team", ID: team.ID, OwnerID: team.CreatedByUserID}
	if !authorize(c, tc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := tc.teamService.DeleteTeam(c, teamID, userID); err != nil {
		if err == api_errors.ErrTeamNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Team not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete team", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTeams endpoint. Public directory.
func (tc *TeamController) ListTeams(c *gin.Context) {
	limit, offset := helper_util.GetPaginationParams(c)
	teams, err := tc.teamService.ListTeams(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// CheckName endpoint. Team names are unique platform-wide.
func (tc *TeamController) CheckName(c *gin.Context) {
	if !authorize(c, tc.authorizer, policy.ValidUser, policy.Target{Kind: "team"}) {
		return
	}

	name := c.Query("name")
	excludeID := c.Query("excludeId")

	available, err := tc.teamService.IsNameAvailable(c, name, excludeID)
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

// JoinTeam endpoint. Callers join themselves.
func (tc *TeamController) JoinTeam(c *gin.Context) {
	teamID := c.Param("teamId")

	team := tc.resolve(c, teamID)
	if team == nil {
		return
	}

	if !authorize(c, tc.authorizer, policy.ValidUser, policy.Target{Kind: "team", ID: team.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := tc.teamService.AddMember(c, teamID, userID, userID); err != nil {
		switch err {
		case api_errors.ErrTeamMemberConflict:
			util.RespondWithError(c, http.StatusBadRequest, "Already a member of this team", err)
		case api_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to join team", err)
		}
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveMember endpoint. Members may leave on their own; removing someone
// else takes the team owner or a site admin.
func (tc *TeamController) RemoveMember(c *gin.Context) {
	teamID := c.Param("teamId")
	userID := c.Param("userId")

	team := tc.resolve(c, teamID)
	if team == nil {
		return
	}

	pol := policy.UserOwnsEntityOrIsAdmin
	if util.GetUserIDFromContext(c) == userID {
		pol = policy.ValidUser
	}
	target := policy.Target{Kind: "team", ID: team.ID, OwnerID: team.CreatedByUserID}
	if !authorize(c, tc.authorizer, pol, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	if err := tc.teamService.RemoveMember(c, teamID, userID, actingUserID); err != nil {
		if err == api_errors.ErrTeamMemberNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Team member not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to remove member", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers endpoint. Public.
func (tc *TeamController) ListMembers(c *gin.Context) {
	teamID := c.Param("teamId")

	if tc.resolve(c, teamID) == nil {
		return
	}

	members, err := tc.teamService.ListMembers(c, teamID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list members", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AddPhoto endpoint. The photo binary is the request body; new photos wait
// in the moderation queue.
func (tc *TeamController) AddPhoto(c *gin.Context) {
	teamID := c.Param("teamId")

	team := tc.resolve(c, teamID)
	if team == nil {
		return
	}

	if !authorize(c, tc.authorizer, policy.ValidUser, policy.Target{Kind: "team_photo", ID: team.ID}) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPhotoBytes))
	if err != nil || len(data) == 0 {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid photo payload", api_errors.ErrTeamInvalid)
		return
	}

	created, err := tc.teamService.AddPhoto(c, teamID, c.Query("caption"), data, userID)
	if err != nil {
		switch err {
		case api_errors.ErrTeamInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid photo payload", err)
		case api_errors.ErrTeamNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Team not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to store photo", err)
		}
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+created.ID)
	c.JSON(http.StatusCreated, created)
}

// ListPhotos endpoint. Anonymous callers only see approved photos.
func (tc *TeamController) ListPhotos(c *gin.Context) {
	teamID := c.Param("teamId")

	if tc.resolve(c, teamID) == nil {
		return
	}

	status := c.Query("status")
	sub := util.GetSubject(c)
	if !sub.IsSiteAdmin {
		status = "approved"
	}

	photos, err := tc.teamService.ListPhotos(c, teamID, status)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list photos", err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// GetPhotoContent endpoint streams the photo binary.
func (tc *TeamController) GetPhotoContent(c *gin.Context) {
	if tc.resolve(c, c.Param("teamId")) == nil {
		return
	}

	data, err := tc.teamService.GetPhotoContent(c, c.Param("photoId"))
	if err != nil {
		if err == api_errors.ErrTeamPhotoNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Photo not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to read photo", err)
		}
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", data)
}

// DeletePhoto endpoint. Hard delete, blob included; uploader or admin only.
func (tc *TeamController) DeletePhoto(c *gin.Context) {
	if tc.resolve(c, c.Param("teamId")) == nil {
		return
	}

	photoID := c.Param("photoId")
	photo, err := tc.teamService.GetPhoto(c, photoID)
	if err != nil {
		if err == api_errors.ErrTeamPhotoNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Photo not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve photo", err)
		}
		return
	}

	target := policy.Target{Kind: "team_photo", ID: photo.ID, OwnerID: photo.CreatedByUserID}
	if !authorize(c, tc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := tc.teamService.DeletePhoto(c, photoID, userID); err != nil {
		if err == api_errors.ErrTeamPhotoNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Photo not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete photo", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// ListPendingPhotos endpoint. Moderation queue, admin only.
func (tc *TeamController) ListPendingPhotos(c *gin.Context) {
	if !authorize(c, tc.authorizer, policy.UserIsAdmin, policy.Target{Kind: "team_photo"}) {
		return
	}

	limit, offset := helper_util.GetPaginationParams(c)
	photos, err := tc.teamService.ListPhotosPendingModeration(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list pending photos", err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// ModeratePhoto endpoint. Admin approves or rejects a pending photo.
func (tc *TeamController) ModeratePhoto(c *gin.Context) {
	photoID := c.Param("photoId")
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid moderation data", api_errors.ErrTeamInvalid)
		return
	}

	photo, err := tc.teamService.GetPhoto(c, photoID)
	if err != nil {
		if err == api_errors.ErrTeamPhotoNotFound {
			util.RespondWithError(c, http.StatusNotFound, "Photo not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve photo", err)
		}
		return
	}

	target := policy.Target{Kind: "team_photo", ID: photo.ID, OwnerID: photo.CreatedByUserID}
	if !authorize(c, tc.authorizer, policy.UserIsAdmin, target) {
		return
	}
	userID := util.GetUserIDFromContext(c)

	if err := tc.teamService.ModeratePhoto(c, photoID, body.Status, userID); err != nil {
		switch err {
		case api_errors.ErrTeamInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid moderation status", err)
		case api_errors.ErrTeamPhotoNotFound:
			util.RespondWithError(c, http.StatusNotFound, "Photo not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to moderate photo", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
