package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offsetDays int) time.Time {
	base := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, offsetDays)
}

func TestApplyDailyActivity_FirstActivity(t *testing.T) {
	stats := &UserStats{UserID: 1}

	stats.ApplyDailyActivity(day(0))

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
	require.NotNil(t, stats.LastActivityDate)
	// Дата активности усекается до календарного дня в UTC
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *stats.LastActivityDate)
}

func TestApplyDailyActivity_SameDayIsNoOp(t *testing.T) {
	stats := &UserStats{UserID: 1}
	stats.ApplyDailyActivity(day(0))

	// Вторая активность того же дня не меняет стрик
	stats.ApplyDailyActivity(day(0).Add(5 * time.Hour))

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
}

func TestApplyDailyActivity_ConsecutiveDays(t *testing.T) {
	stats := &UserStats{UserID: 1}

	for i := 0; i < 7; i++ {
		stats.ApplyDailyActivity(day(i))
	}

	assert.Equal(t, 7, stats.CurrentStreak)
	assert.Equal(t, 7, stats.LongestStreak)
}

func TestApplyDailyActivity_GapResetsStreak(t *testing.T) {
	stats := &UserStats{UserID: 1}
	stats.ApplyDailyActivity(day(0))
	stats.ApplyDailyActivity(day(1))
	stats.ApplyDailyActivity(day(2))

	// Пропуск одного дня сбрасывает текущий стрик, рекорд остаётся
	stats.ApplyDailyActivity(day(4))

	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
}

func TestApplyDailyActivity_LongestStreakTracksRecord(t *testing.T) {
	stats := &UserStats{UserID: 1, CurrentStreak: 2, LongestStreak: 10}
	last := day(-1).UTC().Truncate(24 * time.Hour)
	stats.LastActivityDate = &last

	stats.ApplyDailyActivity(day(0))

	assert.Equal(t, 3, stats.CurrentStreak)
	// Рекорд не перетирается меньшим значением
	assert.Equal(t, 10, stats.LongestStreak)
}
