// services/progression_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeExerciseStatusHiddenFollowsAuthoredFlag(t *testing.T) {
	hidden, locked := computeExerciseStatus(statusSnapshot{AuthoredHidden: true})
	assert.True(t, hidden)
	assert.False(t, locked)

	hidden, _ = computeExerciseStatus(statusSnapshot{AuthoredHidden: false})
	assert.False(t, hidden)
}

func TestComputeExerciseStatusExplicitUnlockWins(t *testing.T) {
	// unlock beats the authored lock, the module gate and the sequential gate
	snap := statusSnapshot{
		AuthoredLocked:          true,
		HasUnlock:               true,
		ModuleLock:              1.0,
		HasPrevModule:           true,
		PrevModuleExerciseCount: 4,
		SolvedInPrevModule:      0,
		ExerciseLock:            true,
		ExerciseOrder:           3,
		HasPrevExercise:         true,
		PrevExerciseSolved:      false,
	}
	_, locked := computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusAuthoredLockedBaseline(t *testing.T) {
	_, locked := computeExerciseStatus(statusSnapshot{AuthoredLocked: true})
	assert.True(t, locked)
}

func TestComputeExerciseStatusModuleGate(t *testing.T) {
	// half of a four-exercise module means two solved exercises required
	snap := statusSnapshot{
		ModuleLock:              0.5,
		HasPrevModule:           true,
		PrevModuleExerciseCount: 4,
	}

	snap.SolvedInPrevModule = 1
	_, locked := computeExerciseStatus(snap)
	assert.True(t, locked)

	snap.SolvedInPrevModule = 2
	_, locked = computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusModuleGateRoundsUp(t *testing.T) {
	// 0.5 * 3 = 1.5 rounds up to 2
	snap := statusSnapshot{
		ModuleLock:              0.5,
		HasPrevModule:           true,
		PrevModuleExerciseCount: 3,
		SolvedInPrevModule:      1,
	}
	_, locked := computeExerciseStatus(snap)
	assert.True(t, locked)

	snap.SolvedInPrevModule = 2
	_, locked = computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusFirstModuleNeverGated(t *testing.T) {
	snap := statusSnapshot{
		ModuleLock:    1.0,
		HasPrevModule: false,
	}
	_, locked := computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusSequentialGate(t *testing.T) {
	snap := statusSnapshot{
		ExerciseLock:    true,
		ExerciseOrder:   2,
		HasPrevExercise: true,
	}

	_, locked := computeExerciseStatus(snap)
	assert.True(t, locked)

	snap.PrevExerciseSolved = true
	_, locked = computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusSequentialGateFirstExerciseExempt(t *testing.T) {
	snap := statusSnapshot{
		ExerciseLock:  true,
		ExerciseOrder: 1,
	}
	_, locked := computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusSequentialGateOrderGapExempt(t *testing.T) {
	// authored ordering has a hole before this exercise
	snap := statusSnapshot{
		ExerciseLock:    true,
		ExerciseOrder:   5,
		HasPrevExercise: false,
	}
	_, locked := computeExerciseStatus(snap)
	assert.False(t, locked)
}

func TestComputeExerciseStatusBothGatesApply(t *testing.T) {
	// passing the module gate still leaves the sequential gate in force
	snap := statusSnapshot{
		ModuleLock:              0.5,
		HasPrevModule:           true,
		PrevModuleExerciseCount: 4,
		SolvedInPrevModule:      2,
		ExerciseLock:            true,
		ExerciseOrder:           2,
		HasPrevExercise:         true,
		PrevExerciseSolved:      false,
	}
	_, locked := computeExerciseStatus(snap)
	assert.True(t, locked)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, ProgressPercent(0, 10))
	assert.Equal(t, 50.0, ProgressPercent(5, 10))
	assert.Equal(t, 100.0, ProgressPercent(10, 10))
	assert.Equal(t, 100.0, ProgressPercent(12, 10))
	assert.Equal(t, 0.0, ProgressPercent(3, 0))
}
