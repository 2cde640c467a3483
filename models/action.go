package models

import (
	"errors"
	"fmt"
)

var ErrUnknownActionKind = errors.New("unknown action kind")

// ActionKind 积分动作类型，只能取下面定义的常量
type ActionKind string

const (
	ActionEnrollProject          ActionKind = "ENROLL_PROJECT"
	ActionEnrollCourse           ActionKind = "ENROLL_COURSE"
	ActionEnrollSheet            ActionKind = "ENROLL_SHEET"
	ActionCompleteProjectChapter ActionKind = "COMPLETE_PROJECT_CHAPTER"
	ActionCompleteCourseChapter  ActionKind = "COMPLETE_COURSE_CHAPTER"
	ActionCompleteSheetQuestion  ActionKind = "COMPLETE_SHEET_QUESTION"
	ActionCompleteProject        ActionKind = "COMPLETE_PROJECT"
	ActionCompleteCourse         ActionKind = "COMPLETE_COURSE"
	ActionDailyLog               ActionKind = "DAILY_LOG"
	ActionStreak3                ActionKind = "STREAK_3"
	ActionStreak7                ActionKind = "STREAK_7"
	ActionStreak15               ActionKind = "STREAK_15"
	ActionStreak30               ActionKind = "STREAK_30"
)

// 动作 -> 积分，进程启动后只读
var catalog = map[ActionKind]int64{
	ActionEnrollProject:          5,
	ActionEnrollCourse:           5,
	ActionEnrollSheet:            5,
	ActionCompleteProjectChapter: 10,
	ActionCompleteCourseChapter:  10,
	ActionCompleteSheetQuestion:  10,
	ActionCompleteProject:        50,
	ActionCompleteCourse:         50,
	ActionDailyLog:               2,
	ActionStreak3:                15,
	ActionStreak7:                40,
	ActionStreak15:               100,
	ActionStreak30:               250,
}

// StreakMilestones 连续打卡里程碑，升序
var StreakMilestones = []int{3, 7, 15, 30}

var milestoneKinds = map[int]ActionKind{
	3:  ActionStreak3,
	7:  ActionStreak7,
	15: ActionStreak15,
	30: ActionStreak30,
}

// ValueOf 查询动作对应的积分
func ValueOf(kind ActionKind) (int64, error) {
	v, ok := catalog[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownActionKind, string(kind))
	}
	return v, nil
}

// ParseActionKind 外部传入的字符串只能通过这里转成 ActionKind
func ParseActionKind(s string) (ActionKind, error) {
	kind := ActionKind(s)
	if _, ok := catalog[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownActionKind, s)
	}
	return kind, nil
}

func StreakMilestoneKind(days int) (ActionKind, bool) {
	kind, ok := milestoneKinds[days]
	return kind, ok
}

func (k ActionKind) String() string {
	return string(k)
}
