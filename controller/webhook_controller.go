// api/controller/webhook_controller.go
package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/util"
)

// WebhookController serves identity-provider callbacks. These endpoints are
// not JWT-gated; the provider authenticates with a shared secret header.
type WebhookController struct {
	webhookService service.IWebhookService
	secret         string
}

func NewWebhookController(webhookService service.IWebhookService, secret string) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		secret:         secret,
	}
}

// RegisterRoutes registers the API routes
func (wc *WebhookController) RegisterRoutes(r *gin.RouterGroup) {
	webhooks := r.Group("/webhooks/identity")
	{
		webhooks.POST("/user-created", wc.UserCreated)
		webhooks.POST("/user-deleted", wc.UserDeleted)
	}
}

func (wc *WebhookController) verifySecret(c *gin.Context) bool {
	if wc.secret == "" {
		util.RespondWithError(c, http.StatusServiceUnavailable, "Webhook endpoint not configured", api_errors.ErrInternalServer)
		return false
	}
	provided := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(wc.secret)) != 1 {
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", api_errors.ErrForbidden)
		return false
	}
	return true
}

// UserCreated endpoint. The provider only understands the closed outcome
// set, so every result is reported through it.
func (wc *WebhookController) UserCreated(c *gin.Context) {
	if !wc.verifySecret(c) {
		return
	}

	var payload model.IdentityUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"outcome": service.WebhookValidationError})
		return
	}

	outcome, user := wc.webhookService.ProcessUserCreated(c, payload)
	switch outcome {
	case service.WebhookValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"outcome": outcome})
	case service.WebhookFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"outcome": outcome})
	default:
		c.JSON(http.StatusOK, gin.H{"outcome": outcome, "user": user})
	}
}

// UserDeleted endpoint. Failures are never surfaced as bare errors; the
// provider gets a structured payload it can retry on.
func (wc *WebhookController) UserDeleted(c *gin.Context) {
	if !wc.verifySecret(c) {
		return
	}

	var payload model.IdentityUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"outcome": service.WebhookValidationError})
		return
	}

	outcome, err := wc.webhookService.ProcessUserDeleted(c, payload)
	switch outcome {
	case service.WebhookValidationError:
		c.JSON(http.StatusBadRequest, gin.H{"outcome": outcome})
	case service.WebhookUserNotFound:
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	case service.WebhookFailed:
		body := gin.H{"outcome": outcome}
		if err != nil {
			body["error"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	default:
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
	}
}
