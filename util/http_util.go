// api/util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/trashmob-eco/trashmob-api/logging"
	"github.com/trashmob-eco/trashmob-api/policy"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetSubject builds the calling principal from context values set by the
// auth middleware. An absent userID yields an anonymous subject.
func GetSubject(c *gin.Context) policy.Subject {
	sub := policy.Subject{}
	if userID, exists := c.Get("userID"); exists {
		sub.UserID, _ = userID.(string)
	}
	if isAdmin, exists := c.Get("isSiteAdmin"); exists {
		sub.IsSiteAdmin, _ = isAdmin.(bool)
	}
	return sub
}

func GetUserIDFromContext(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := userID.(string)
	return id
}
