package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var bangkok = time.FixedZone("reset", 7*3600)

func TestNextResetDelayRollsToNextDay(t *testing.T) {
	// 08:00 in the shifted zone, one hour past the 07:00 target.
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, bangkok)

	delay := NextResetDelay(now, 7, bangkok)

	assert.Equal(t, 23*time.Hour, delay)
}

func TestNextResetDelayBeforeTargetHour(t *testing.T) {
	now := time.Date(2024, 5, 1, 6, 30, 0, 0, bangkok)

	delay := NextResetDelay(now, 7, bangkok)

	assert.Equal(t, 30*time.Minute, delay)
}

func TestNextResetDelayExactlyAtTargetHour(t *testing.T) {
	now := time.Date(2024, 5, 1, 7, 0, 0, 0, bangkok)

	delay := NextResetDelay(now, 7, bangkok)

	assert.Equal(t, 24*time.Hour, delay)
}

func TestNextResetDelayConvertsFromOtherZones(t *testing.T) {
	// Midnight UTC is 07:00 in UTC+7, so the next firing is a full day out.
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	delay := NextResetDelay(now, 7, bangkok)

	assert.Equal(t, 24*time.Hour, delay)
}

func TestLastScheduledReset(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, bangkok)
	last := lastScheduledReset(now, 7, bangkok)
	assert.Equal(t, time.Date(2024, 5, 1, 7, 0, 0, 0, bangkok).Unix(), last.Unix())

	now = time.Date(2024, 5, 1, 6, 0, 0, 0, bangkok)
	last = lastScheduledReset(now, 7, bangkok)
	assert.Equal(t, time.Date(2024, 4, 30, 7, 0, 0, 0, bangkok).Unix(), last.Unix())
}
