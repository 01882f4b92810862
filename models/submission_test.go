// models/submission_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionCorrectIsStrictlyAboveThreshold(t *testing.T) {
	assert.False(t, (&Submission{Result: 0}).Correct())
	assert.False(t, (&Submission{Result: 50.0}).Correct())
	assert.True(t, (&Submission{Result: 50.1}).Correct())
	assert.True(t, (&Submission{Result: 100}).Correct())
}

func TestRewardValidity(t *testing.T) {
	reward := Reward{ValidPeriod: 3600}
	assert.Equal(t, time.Hour, reward.Validity())

	none := Reward{}
	assert.Equal(t, time.Duration(0), none.Validity())
}
