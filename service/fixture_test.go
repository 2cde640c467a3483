package service

import (
	"Lumen/config"
	"Lumen/dao"
	"Lumen/pkg/keylock"
	"Lumen/pkg/testdb"
	"testing"
	"time"

	"gorm.io/gorm"
)

// 2025-03-10 是周一
var day0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db     *gorm.DB
	now    time.Time
	ledger *config.Ledger
	points *PointService
	streak *StreakService
	board  *LeaderboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.New(t)

	f := &fixture{
		db:     db,
		now:    day0,
		ledger: &config.Ledger{Timezone: "UTC", ArtifactPrefix: "leaderboard"},
	}
	clock := func() time.Time { return f.now }

	tx := dao.NewTx(db)
	pointDAO := dao.NewPoint(db)
	f.points = &PointService{Tx: tx, PointDAO: pointDAO, Clock: clock}
	f.streak = &StreakService{
		Tx:           tx,
		StreakDAO:    dao.NewStreak(db),
		DailyLogDAO:  dao.NewDailyLog(db),
		PointService: f.points,
		Locker:       keylock.New(),
		Ledger:       f.ledger,
		Clock:        clock,
	}
	f.board = &LeaderboardService{
		Tx:             tx,
		PointDAO:       pointDAO,
		LeaderboardDAO: dao.NewLeaderboard(db),
		Ledger:         f.ledger,
		Clock:          clock,
	}
	return f
}

// dayAt 第 n 天（相对 day0）的上午 9 点
func dayAt(n int) time.Time {
	return day0.AddDate(0, 0, n)
}
