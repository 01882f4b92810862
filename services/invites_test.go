// services/invites_test.go
package services

import (
	"testing"

	"exercise-game-system/models"

	"github.com/stretchr/testify/assert"
)

func TestPlanRedemption(t *testing.T) {
	gameID := int64(5)
	groupID := int64(9)

	t.Run("game invite registers a new player", func(t *testing.T) {
		invite := models.Invite{GameID: &gameID}
		assert.Equal(t, redeemSteps{Register: true}, planRedemption(&invite, 0))
	})

	t.Run("second redemption creates no second registration", func(t *testing.T) {
		invite := models.Invite{GameID: &gameID}
		assert.Equal(t, redeemSteps{}, planRedemption(&invite, 1))
	})

	t.Run("group invite always runs the idempotent enrollment", func(t *testing.T) {
		invite := models.Invite{GroupID: &groupID}
		assert.Equal(t, redeemSteps{Enroll: true}, planRedemption(&invite, 0))
		assert.Equal(t, redeemSteps{Enroll: true}, planRedemption(&invite, 3))
	})
}
