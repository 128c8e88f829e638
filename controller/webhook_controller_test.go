// api/controller/webhook_controller_test.go
package controller_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmock "github.com/stretchr/testify/mock"

	"github.com/trashmob-eco/trashmob-api/controller"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/service"
	"github.com/trashmob-eco/trashmob-api/test/mock"
)

func setupWebhookRouter(t *testing.T, secret string) (*mock.MockWebhookService, http.Handler) {
	t.Helper()
	svc := new(mock.MockWebhookService)
	r, api := newTestRouter(nil)
	controller.NewWebhookController(svc, secret).RegisterRoutes(api)
	return svc, r
}

func webhookRequest(path, secret, body string) *http.Request {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	return req
}

func TestWebhook_UnconfiguredSecretIs503(t *testing.T) {
	svc, r := setupWebhookRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-created", "anything", `{}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	svc.AssertNotCalled(t, "ProcessUserCreated", tmock.Anything, tmock.Anything)
}

func TestWebhook_WrongSecretIs403(t *testing.T) {
	svc, r := setupWebhookRouter(t, "s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-created", "wrong", `{}`))

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "ProcessUserCreated", tmock.Anything, tmock.Anything)
}

func TestWebhook_UserCreatedOutcomes(t *testing.T) {
	payload := `{"subject_id":"sub1","user_name":"jamie","email":"jamie@example.com"}`

	t.Run("success returns the user", func(t *testing.T) {
		svc, r := setupWebhookRouter(t, "s3cret")
		svc.On("ProcessUserCreated", tmock.Anything, tmock.Anything).
			Return(service.WebhookSuccess, &model.User{ID: "sub1", UserName: "jamie"})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-created", "s3cret", payload))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Outcome string     `json:"outcome"`
			User    model.User `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Success", resp.Outcome)
		assert.Equal(t, "sub1", resp.User.ID)
	})

	t.Run("validation error is 400", func(t *testing.T) {
		svc, r := setupWebhookRouter(t, "s3cret")
		svc.On("ProcessUserCreated", tmock.Anything, tmock.Anything).
			Return(service.WebhookValidationError, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-created", "s3cret", payload))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("failure is 500", func(t *testing.T) {
		svc, r := setupWebhookRouter(t, "s3cret")
		svc.On("ProcessUserCreated", tmock.Anything, tmock.Anything).
			Return(service.WebhookFailed, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-created", "s3cret", payload))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestWebhook_UserDeletedOutcomes(t *testing.T) {
	payload := `{"subject_id":"sub1"}`

	t.Run("missing user still reports an outcome", func(t *testing.T) {
		svc, r := setupWebhookRouter(t, "s3cret")
		svc.On("ProcessUserDeleted", tmock.Anything, tmock.Anything).
			Return(service.WebhookUserNotFound, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-deleted", "s3cret", payload))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Outcome string `json:"outcome"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "UserNotFound", resp.Outcome)
	})

	t.Run("failure carries the error in a structured 500", func(t *testing.T) {
		svc, r := setupWebhookRouter(t, "s3cret")
		svc.On("ProcessUserDeleted", tmock.Anything, tmock.Anything).
			Return(service.WebhookFailed, errors.New("graph write failed"))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, webhookRequest("/webhooks/identity/user-deleted", "s3cret", payload))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp struct {
			Outcome string `json:"outcome"`
			Error   string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Failed", resp.Outcome)
		assert.Equal(t, "graph write failed", resp.Error)
	})
}
