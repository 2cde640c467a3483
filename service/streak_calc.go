package service

import (
	"Lumen/models"
	"Lumen/pkg/timeutil"
	"sort"
	"time"
)

// streakFold 连续打卡的折叠状态，LastDay 为零值表示从未打卡
type streakFold struct {
	Current   int
	Longest   int
	LastDay   time.Time
	TotalLogs int64
}

// step 追加一条落在 day（已归一到零点）的打卡。
// 与上次同一天只增加 totalLogs；相隔一天延续；否则从 1 重新开始。
// 早于 LastDay 的补卡不在这里处理，调用方需要走 recompute。
func step(f streakFold, day time.Time) (next streakFold, sameDay bool) {
	f.TotalLogs++
	if !f.LastDay.IsZero() {
		gap := timeutil.DaysBetween(f.LastDay, day)
		if gap <= 0 {
			return f, true
		}
		if gap == 1 {
			f.Current++
		} else {
			f.Current = 1
		}
	} else {
		f.Current = 1
	}
	if f.Current > f.Longest {
		f.Longest = f.Current
	}
	f.LastDay = day
	return f, false
}

// recompute 从完整打卡历史重建状态。
// current 取以最近一个打卡日结尾的连续天数，与逐条 step 的结果一致。
func recompute(times []time.Time, loc *time.Location) streakFold {
	if len(times) == 0 {
		return streakFold{}
	}

	days := make([]time.Time, 0, len(times))
	seen := make(map[time.Time]struct{}, len(times))
	for _, t := range times {
		d := timeutil.StartOfDay(t, loc)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if timeutil.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// 循环结束时 run 就是以最后一天结尾的连续天数
	return streakFold{
		Current:   run,
		Longest:   longest,
		LastDay:   days[len(days)-1],
		TotalLogs: int64(len(times)),
	}
}

// milestonesCrossed 本次从 prev 变为 cur 时恰好达到的里程碑
func milestonesCrossed(prev, cur int) []int {
	var hit []int
	for _, m := range models.StreakMilestones {
		if cur == m && prev < m {
			hit = append(hit, m)
		}
	}
	return hit
}

func foldOf(state *models.StreakState, loc *time.Location) streakFold {
	f := streakFold{
		Current:   state.CurrentStreak,
		Longest:   state.LongestStreak,
		TotalLogs: state.TotalLogs,
	}
	if state.LastLoggedDate != nil {
		f.LastDay = timeutil.StartOfDay(*state.LastLoggedDate, loc)
	}
	return f
}

func (f streakFold) applyTo(state *models.StreakState) {
	state.CurrentStreak = f.Current
	state.LongestStreak = f.Longest
	state.TotalLogs = f.TotalLogs
	if f.LastDay.IsZero() {
		state.LastLoggedDate = nil
	} else {
		day := f.LastDay
		state.LastLoggedDate = &day
	}
}
