// api/service/team_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trashmob-eco/trashmob-api/model"
	"github.com/trashmob-eco/trashmob-api/util"
)

func TestIsNameAvailable_BlankNeverHitsTheStore(t *testing.T) {
	// A nil DAO would panic on any datastore call; blank input must
	// short-circuit before that.
	svc := NewTeamService(nil, util.NewValidationUtil(), util.NewCacheService(), util.NewNotificationService(), util.NewEventBus(), nil)

	for _, name := range []string{"", "   ", "\t"} {
		available, err := svc.IsNameAvailable(context.Background(), name, "")
		require.NoError(t, err)
		assert.False(t, available, "%q should be unavailable", name)
	}
}

func TestMergeTeamUpdate(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC)

	existing := model.Team{
		ID:                  "t1",
		Name:                "Litter Legends",
		Description:         "Founded 2024",
		IsActive:            true,
		Version:             3,
		CreatedByUserID:     "founder",
		CreatedDate:         created,
		LastUpdatedByUserID: "founder",
		LastUpdatedDate:     created,
	}

	merged := mergeTeamUpdate(existing, model.Team{Name: "Bag Brigade"}, "editor", now)

	assert.Equal(t, "Bag Brigade", merged.Name)
	assert.Equal(t, "Founded 2024", merged.Description, "unset fields keep their stored value")
	assert.Equal(t, "t1", merged.ID)
	assert.Equal(t, 3, merged.Version)
	assert.Equal(t, "founder", merged.CreatedByUserID)
	assert.Equal(t, created, merged.CreatedDate)
	assert.Equal(t, "editor", merged.LastUpdatedByUserID)
	assert.Equal(t, now, merged.LastUpdatedDate)
}
