// api/controller/gate.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/util"
)

// authorize runs the policy gate for an already-resolved target and writes
// the 403 itself on deny. Resolution happens before this is called, so a
// missing resource has already produced its 404 and the gate never sees a
// nil target.
func authorize(c *gin.Context, authz policy.Authorizer, pol policy.Policy, target policy.Target) bool {
	sub := util.GetSubject(c)
	decision, err := authz.Authorize(c, sub, pol, target)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Authorization check failed", err)
		return false
	}
	if !decision.Allowed {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", api_errors.ErrForbidden)
		return false
	}
	return true
}
