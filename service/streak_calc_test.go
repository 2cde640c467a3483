package service

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStep(t *testing.T) {
	var f streakFold

	f, same := step(f, dayAt(0))
	assert.False(t, same)
	assert.Equal(t, 1, f.Current)

	f, same = step(f, dayAt(0).Add(5*time.Hour))
	assert.True(t, same)
	assert.Equal(t, 1, f.Current)
	assert.Equal(t, int64(2), f.TotalLogs)

	f, _ = step(f, dayAt(1))
	assert.Equal(t, 2, f.Current)
	assert.Equal(t, 2, f.Longest)

	// 跳过一天后重新开始
	f, _ = step(f, dayAt(3))
	assert.Equal(t, 1, f.Current)
	assert.Equal(t, 2, f.Longest)
	assert.Equal(t, int64(4), f.TotalLogs)
}

func TestRecompute_Empty(t *testing.T) {
	f := recompute(nil, time.UTC)
	assert.Equal(t, streakFold{}, f)
}

func TestRecompute_CurrentEndsAtLastActiveDay(t *testing.T) {
	times := []time.Time{dayAt(0), dayAt(1), dayAt(2), dayAt(5), dayAt(6), dayAt(6).Add(time.Hour)}
	f := recompute(times, time.UTC)

	assert.Equal(t, 2, f.Current)
	assert.Equal(t, 3, f.Longest)
	assert.Equal(t, int64(6), f.TotalLogs)
	assert.True(t, f.LastDay.Equal(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)))
}

func TestRecompute_UsesLocationForDayBoundary(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// UTC 3/10 15:30 与 3/10 17:00 在东八区分别是 3/10 23:30 和 3/11 01:00
	times := []time.Time{
		time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 1, recompute(times, time.UTC).Current)
	assert.Equal(t, 2, recompute(times, loc).Current)
}

// 任意打卡历史，逐条 step 与一次性 recompute 结果一致，且 longest >= current
func TestRecompute_MatchesIncrementalReplay(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		n := 1 + r.Intn(40)
		times := make([]time.Time, 0, n)
		for i := 0; i < n; i++ {
			offset := time.Duration(r.Intn(60*24)) * time.Hour
			times = append(times, day0.Add(offset))
		}
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

		var inc streakFold
		for _, ts := range times {
			inc, _ = step(inc, startOfDayUTC(ts))
			require.GreaterOrEqual(t, inc.Longest, inc.Current)
		}
		got := recompute(times, time.UTC)

		require.Equal(t, inc.Current, got.Current, "round %d", round)
		require.Equal(t, inc.Longest, got.Longest, "round %d", round)
		require.Equal(t, inc.TotalLogs, got.TotalLogs, "round %d", round)
		require.True(t, inc.LastDay.Equal(got.LastDay), "round %d", round)
	}
}

func TestMilestonesCrossed(t *testing.T) {
	assert.Equal(t, []int{3}, milestonesCrossed(2, 3))
	assert.Equal(t, []int{7}, milestonesCrossed(6, 7))
	assert.Empty(t, milestonesCrossed(3, 3))
	assert.Empty(t, milestonesCrossed(3, 4))
	assert.Empty(t, milestonesCrossed(0, 1))
	// 跳跃不补发中间的里程碑
	assert.Empty(t, milestonesCrossed(2, 5))
	assert.Equal(t, []int{30}, milestonesCrossed(29, 30))
}

func startOfDayUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
