// api/controller/invite_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmock "github.com/stretchr/testify/mock"

	"github.com/trashmob-eco/trashmob-api/controller"
	api_errors "github.com/trashmob-eco/trashmob-api/errors"
	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/policy"
	"github.com/trashmob-eco/trashmob-api/test/mock"
)

func setupInviteRouter(t *testing.T, sub *policy.Subject) (*mock.MockInviteService, http.Handler) {
	t.Helper()
	svc := new(mock.MockInviteService)
	r, api := newTestRouter(sub)
	controller.NewInviteController(svc, policy.NewAuthorizer(&mock.Relationships{}, nil)).RegisterRoutes(api)
	return svc, r
}

func TestSendBatch_QuotaExceededAnswers429WithRemaining(t *testing.T) {
	svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u1"})
	svc.On("SendBatch", tmock.Anything, tmock.Anything, "u1").
		Return(nil, 5, api_errors.ErrInviteQuotaExceeded)

	body := strings.NewReader(`{"emails":["a@example.com","b@example.com","c@example.com","d@example.com","e@example.com","f@example.com"]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/invites", body)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp struct {
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Remaining)
}

func TestSendBatch_Success(t *testing.T) {
	svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u1"})
	svc.On("SendBatch", tmock.Anything, tmock.Anything, "u1").
		Return(&model.InviteBatch{ID: "b1", SentByUserID: "u1", TotalCount: 2}, 43, nil)

	body := strings.NewReader(`{"emails":["a@example.com","b@example.com"]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/invites", body)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/invites/batches/b1", w.Header().Get("Location"))
}

func TestSendBatch_AnonymousIs403(t *testing.T) {
	svc, r := setupInviteRouter(t, nil)

	body := strings.NewReader(`{"emails":["a@example.com"]}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/invites", body)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "SendBatch", tmock.Anything, tmock.Anything, tmock.Anything)
}

func TestGetQuota(t *testing.T) {
	svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u1"})
	svc.On("QuotaRemaining", tmock.Anything, "u1").Return(12, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/invites/quota", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Remaining int `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Remaining)
}

func TestGetBatch(t *testing.T) {
	t.Run("owner sees own batch", func(t *testing.T) {
		svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u1"})
		svc.On("GetBatch", tmock.Anything, "b1").
			Return(&model.InviteBatch{ID: "b1", SentByUserID: "u1"}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/invites/batches/b1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's batch is 403", func(t *testing.T) {
		svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u2"})
		svc.On("GetBatch", tmock.Anything, "b1").
			Return(&model.InviteBatch{ID: "b1", SentByUserID: "u1"}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/invites/batches/b1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing batch is 404 before the gate", func(t *testing.T) {
		svc, r := setupInviteRouter(t, nil)
		svc.On("GetBatch", tmock.Anything, "nope").Return(nil, api_errors.ErrInviteNotFound)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/invites/batches/nope", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteInvite(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		svc, r := setupInviteRouter(t, &policy.Subject{UserID: "admin", IsSiteAdmin: true})
		svc.On("DeleteInvite", tmock.Anything, "i1", "admin").Return(nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/invites/i1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-admin is 403", func(t *testing.T) {
		svc, r := setupInviteRouter(t, &policy.Subject{UserID: "u1"})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/invites/i1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "DeleteInvite", tmock.Anything, tmock.Anything, tmock.Anything)
	})
}
