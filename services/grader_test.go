// services/grader_test.go
package services

import (
	"testing"
	"time"

	"exercise-game-system/models"
	"exercise-game-system/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecideOutcome(t *testing.T) {
	tests := []struct {
		name         string
		correct      bool
		priorCorrect int64
		exerciseLock bool
		moduleLock   float64
		want         gradeOutcome
	}{
		{"incorrect submission changes nothing", false, 0, true, 0.5, gradeOutcome{}},
		{"first correct solution advances progress", true, 0, false, 0, gradeOutcome{FirstSolution: true}},
		{"resubmission after a solve leaves progress alone", true, 1, false, 0, gradeOutcome{}},
		{"resubmission after many solves leaves progress alone", true, 3, false, 0, gradeOutcome{}},
		{"first solution in a sequentially gated game", true, 0, true, 0, gradeOutcome{FirstSolution: true, RecordUnlock: true}},
		{"first solution in a module gated game", true, 0, false, 0.5, gradeOutcome{FirstSolution: true, RecordUnlock: true}},
		{"resubmission still re-records the unlock", true, 2, true, 0, gradeOutcome{RecordUnlock: true}},
		{"ungated game records no unlock", true, 0, false, 0, gradeOutcome{FirstSolution: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decideOutcome(tt.correct, tt.priorCorrect, tt.exerciseLock, tt.moduleLock)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPlayerReward(t *testing.T) {
	game := models.Game{ID: 7, CourseID: 3}
	now := time.Now()

	t.Run("mints one instance with the template validity", func(t *testing.T) {
		reward := models.Reward{ID: 11, CourseID: 3, ValidPeriod: 3600}

		minted, err := buildPlayerReward(&reward, &game, 42, now)
		require.NoError(t, err)

		assert.Equal(t, int64(42), minted.PlayerID)
		assert.Equal(t, int64(11), minted.RewardID)
		require.NotNil(t, minted.GameID)
		assert.Equal(t, int64(7), *minted.GameID)
		assert.Equal(t, 1, minted.Count)
		assert.Equal(t, now, minted.ObtainedAt)
		assert.Equal(t, now.Add(time.Hour), minted.ExpiresAt)
	})

	t.Run("rejects a reward from another course", func(t *testing.T) {
		reward := models.Reward{ID: 12, CourseID: 9}

		minted, err := buildPlayerReward(&reward, &game, 42, now)
		require.Error(t, err)
		assert.Nil(t, minted)

		appErr := utils.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindUnprocessable, appErr.Kind)
	})
}
