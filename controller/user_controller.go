// api/controller/user_controller.go
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

type UserController struct {
	userService service.IUserService
	authorizer  policy.Authorizer
}

func NewUserController(userService service.IUserService, authorizer policy.Authorizer) *UserController {
	return &UserController{
		userService: userService,
		authorizer:  authorizer,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/:userId", uc.GetUser)
		users.PUT("/:userId", uc.UpdateUser)
		users.DELETE("/:userId", uc.DeleteUser)
		users.POST("/search", uc.SearchUsers)
	}
}

// resolve loads the user or writes the 404.
func (uc *UserController) resolve(c *gin.Context, userID string) *model.User {
	user, err := uc.userService.GetUser(c, userID)
	if err != nil {
		if err == api_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve user", err)
		}
		return nil
	}
	return user
}

// GetUser endpoint. Profiles are visible to their owner and site admins.
func (uc *UserController) GetUser(c *gin.Context) {
	user := uc.resolve(c, c.Param("userId"))
	if user == nil {
		return
	}

	target := policy.Target{Kind: "user", ID: user.ID, OwnerID: user.ID}
	if !authorize(c, uc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser endpoint
func (uc *UserController) UpdateUser(c *gin.Context) {
	userID := c.Param("userId")
	var update model.User
	if err := c.ShouldBindJSON(&update); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", api_errors.ErrUserInvalid)
		return
	}

	user := uc.resolve(c, userID)
	if user == nil {
		return
	}

	target := policy.Target{Kind: "user", ID: user.ID, OwnerID: user.ID}
	if !authorize(c, uc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	update.ID = userID
	updated, err := uc.userService.UpdateUser(c, update, actingUserID)
	if err != nil {
		switch err {
		case api_errors.ErrUserNotFound:
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case api_errors.ErrUserInvalid:
			util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update user", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteUser endpoint. Hard delete of the account record.
func (uc *UserController) DeleteUser(c *gin.Context) {
	userID := c.Param("userId")

	user := uc.resolve(c, userID)
	if user == nil {
		return
	}

	target := policy.Target{Kind: "user", ID: user.ID, OwnerID: user.ID}
	if !authorize(c, uc.authorizer, policy.UserOwnsEntityOrIsAdmin, target) {
		return
	}
	actingUserID := util.GetUserIDFromContext(c)

	if err := uc.userService.DeleteUser(c, userID, actingUserID); err != nil {
		if err == api_errors.ErrUserNotFound {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// SearchUsers endpoint. Admin only.
func (uc *UserController) SearchUsers(c *gin.Context) {
	var criteria model.UserSearchCriteria
	if err := c.ShouldBindJSON(&criteria); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid search criteria", api_errors.ErrUserInvalid)
		return
	}

	if !authorize(c, uc.authorizer, policy.UserIsAdmin, policy.Target{Kind: "user"}) {
		return
	}

	users, err := uc.userService.SearchUsers(c, criteria)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to search users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}
