// api/controller/team_controller_test.go
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

func setupTeamRouter(t *testing.T, sub *policy.Subject) (*mock.MockTeamService, http.Handler) {
	t.Helper()
	svc := new(mock.MockTeamService)
	r, api := newTestRouter(sub)
	controller.NewTeamController(svc, policy.NewAuthorizer(&mock.Relationships{}, nil)).RegisterRoutes(api)
	return svc, r
}

func TestGetTeam_NotFound(t *testing.T) {
	svc, r := setupTeamRouter(t, nil)
	svc.On("GetTeam", tmock.Anything, "t1").Return(nil, api_errors.ErrTeamNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/teams/t1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTeam_MissingTeamIs404EvenForAdmins(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "admin", IsSiteAdmin: true})
	svc.On("GetTeam", tmock.Anything, "t1").Return(nil, api_errors.ErrTeamNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/teams/t1", strings.NewReader(`{"name":"New Name"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "UpdateTeam", tmock.Anything, tmock.Anything, tmock.Anything)
}

func TestUpdateTeam_AnonymousIs403WithoutServiceWrite(t *testing.T) {
	svc, r := setupTeamRouter(t, nil)
	svc.On("GetTeam", tmock.Anything, "t1").
		Return(&model.Team{ID: "t1", Name: "Litter Legends", CreatedByUserID: "owner"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/teams/t1", strings.NewReader(`{"name":"New Name"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "UpdateTeam", tmock.Anything, tmock.Anything, tmock.Anything)
}

func TestUpdateTeam_OwnerSucceeds(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "owner"})
	svc.On("GetTeam", tmock.Anything, "t1").
		Return(&model.Team{ID: "t1", Name: "Litter Legends", CreatedByUserID: "owner"}, nil)
	svc.On("UpdateTeam", tmock.Anything, tmock.Anything, "owner").
		Return(&model.Team{ID: "t1", Name: "New Name", CreatedByUserID: "owner"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/teams/t1", strings.NewReader(`{"name":"New Name"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got model.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "New Name", got.Name)
}

// A version-token mismatch where the record still exists is fatal, not a
// conflict the caller can resolve; 409 stays reserved for the name checks.
func TestUpdateTeam_ConcurrentModificationIsFatal(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "owner"})
	svc.On("GetTeam", tmock.Anything, "t1").
		Return(&model.Team{ID: "t1", Name: "Litter Legends", CreatedByUserID: "owner"}, nil)
	svc.On("UpdateTeam", tmock.Anything, tmock.Anything, "owner").
		Return(nil, api_errors.ErrConcurrentModification)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/teams/t1", strings.NewReader(`{"name":"New Name"}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteTeam_SecondDeleteIs404(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "owner"})
	// Reads still resolve an inactive team; the soft-delete write filters on
	// isActive and reports not-found the second time around.
	svc.On("GetTeam", tmock.Anything, "t1").
		Return(&model.Team{ID: "t1", Name: "Litter Legends", CreatedByUserID: "owner"}, nil)
	svc.On("DeleteTeam", tmock.Anything, "t1", "owner").Return(nil).Once()
	svc.On("DeleteTeam", tmock.Anything, "t1", "owner").Return(api_errors.ErrTeamNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/teams/t1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/teams/t1", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckName(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		svc, r := setupTeamRouter(t, &policy.Subject{UserID: "u1"})
		svc.On("IsNameAvailable", tmock.Anything, "Fresh Crew", "").Return(true, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/teams/name-check?name=Fresh+Crew", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]bool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body["available"])
	})

	t.Run("taken reports 409", func(t *testing.T) {
		svc, r := setupTeamRouter(t, &policy.Subject{UserID: "u1"})
		svc.On("IsNameAvailable", tmock.Anything, "Litter Legends", "t1").Return(false, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/teams/name-check?name=Litter+Legends&excludeId=t1", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)
		var body map[string]bool
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body["available"])
	})

	t.Run("anonymous is 403", func(t *testing.T) {
		svc, r := setupTeamRouter(t, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/teams/name-check?name=Fresh+Crew", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "IsNameAvailable", tmock.Anything, tmock.Anything, tmock.Anything)
	})
}

func TestListPhotos_NonAdminOnlySeesApproved(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "u1"})
	svc.On("GetTeam", tmock.Anything, "t1").
		Return(&model.Team{ID: "t1", Name: "Litter Legends", CreatedByUserID: "owner"}, nil)
	svc.On("ListPhotos", tmock.Anything, "t1", "approved").Return([]*model.TeamPhoto{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/teams/t1/photos?status=pending", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestModeratePhoto(t *testing.T) {
	t.Run("admin approves", func(t *testing.T) {
		svc, r := setupTeamRouter(t, &policy.Subject{UserID: "admin", IsSiteAdmin: true})
		svc.On("GetPhoto", tmock.Anything, "ph1").
			Return(&model.TeamPhoto{ID: "ph1", TeamID: "t1", ModerationStatus: "pending", CreatedByUserID: "u2"}, nil)
		svc.On("ModeratePhoto", tmock.Anything, "ph1", "approved", "admin").Return(nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/moderation/photos/ph1", strings.NewReader(`{"status":"approved"}`))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("non-admin is 403", func(t *testing.T) {
		svc, r := setupTeamRouter(t, &policy.Subject{UserID: "u2"})
		svc.On("GetPhoto", tmock.Anything, "ph1").
			Return(&model.TeamPhoto{ID: "ph1", TeamID: "t1", ModerationStatus: "pending", CreatedByUserID: "u2"}, nil)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/moderation/photos/ph1", strings.NewReader(`{"status":"approved"}`))
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertNotCalled(t, "ModeratePhoto", tmock.Anything, tmock.Anything, tmock.Anything, tmock.Anything)
	})
}

func TestCreateTeam_SetsLocationHeader(t *testing.T) {
	svc, r := setupTeamRouter(t, &policy.Subject{UserID: "u1"})
	svc.On("CreateTeam", tmock.Anything, tmock.Anything, "u1").
		Return(&model.Team{ID: "t9", Name: "Fresh Crew", CreatedByUserID: "u1"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/teams", strings.NewReader(`{"name":"Fresh Crew"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/teams/t9", w.Header().Get("Location"))
}
