// api/service/area_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trashmob-eco/trashmob-api/util"
)

// A handler receiving a payload of the wrong type must drop it instead of
// panicking the bus dispatch goroutine.
func TestHandleAreaUpdated_IgnoresForeignPayload(t *testing.T) {
	s := &AreaService{}

	err := s.handleAreaUpdated(context.Background(), util.Event{Type: "area.updated", Payload: "not an area"})

	assert.NoError(t, err)
}

func TestHandleTeamUpdated_IgnoresForeignPayload(t *testing.T) {
	s := &TeamService{}

	err := s.handleTeamUpdated(context.Background(), util.Event{Type: "team.updated", Payload: 42})

	assert.NoError(t, err)
}
