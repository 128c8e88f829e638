// api/controller/helpers_test.go
package controller_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/policy"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	os.Exit(m.Run())
}

// newTestRouter builds a bare engine with the calling principal injected the
// same way the auth middleware does it. A nil subject means anonymous.
func newTestRouter(sub *policy.Subject) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if sub != nil {
		s := *sub
		r.Use(func(c *gin.Context) {
			c.Set("userID", s.UserID)
			c.Set("isSiteAdmin", s.IsSiteAdmin)
		})
	}
	return r, r.Group("/")
}
