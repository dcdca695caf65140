package service

import (
	"context"
	"sort"
	"time"

	"storyhub/internal/apperr"
	"storyhub/internal/microservices/http-api/repository"
)

// StreakCalculator derives consecutive reading days from progress activity.
type StreakCalculator struct {
	progress repository.ProgressRepository
	loc      *time.Location
	now      func() time.Time
}

// NewStreakCalculator cuts days in loc; nil means UTC.
func NewStreakCalculator(progress repository.ProgressRepository, loc *time.Location) *StreakCalculator {
	if loc == nil {
		loc = time.UTC
	}
	return &StreakCalculator{progress: progress, loc: loc, now: time.Now}
}

func (c *StreakCalculator) ComputeStreak(ctx context.Context, userID string) (int, error) {
	times, err := c.progress.ActivityTimes(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("load activity", err)
	}
	return CountStreak(times, c.now(), c.loc), nil
}

// CountStreak counts consecutive active calendar days ending today or
// yesterday. A run that ended before yesterday counts as 0, and activity
// after today is ignored.
func CountStreak(activity []time.Time, today time.Time, loc *time.Location) int {
	if len(activity) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.UTC
	}
	todayNum := dayNumber(today, loc)

	seen := make(map[int64]struct{}, len(activity))
	days := make([]int64, 0, len(activity))
	for _, t := range activity {
		d := dayNumber(t, loc)
		if d > todayNum {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	expected := todayNum
	if days[0] != todayNum {
		expected = todayNum - 1
	}
	streak := 0
	for _, d := range days {
		if d != expected {
			break
		}
		streak++
		expected--
	}
	return streak
}

// dayNumber maps t to a day count on the civil calendar of loc, so DST
// shifts never split or merge days.
func dayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
