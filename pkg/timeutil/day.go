// Package timeutil 按配置时区做自然日、自然周、自然月的切分。
package timeutil

import "time"

// Clock 当前时间来源，测试中替换为固定时间
type Clock func() time.Time

func SystemClock() Clock {
	return time.Now
}

// StartOfDay 返回 t 在 loc 时区下当天零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek 周日（weekday 0）为一周的第一天
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// DaysBetween 两个自然日之间相差的天数（b - a），跨夏令时也按日历计
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
