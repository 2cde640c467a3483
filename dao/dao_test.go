package dao_test

import (
	"Lumen/dao"
	"Lumen/models"
	"Lumen/pkg/snowflake"
	"Lumen/pkg/testdb"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestPoint_ApplyDelta_CreatesAndClamps(t *testing.T) {
	db := testdb.New(t)
	p := dao.NewPoint(db)
	ctx := context.Background()

	acc, err := p.ApplyDelta(ctx, "u1", 5, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), acc.Points)
	assert.Equal(t, int64(5), acc.TotalEarned)

	acc, err = p.ApplyDelta(ctx, "u1", -10, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Points, "balance is clamped at zero")
	assert.Equal(t, int64(10), acc.TotalDeducted)

	acc, err = p.ApplyDelta(ctx, "u2", -3, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), acc.Points, "new account starts at zero before the deduction")

	var count int64
	require.NoError(t, db.Model(&models.PointsAccount{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestPoint_GetAccount_NotFound(t *testing.T) {
	p := dao.NewPoint(testdb.New(t))

	_, err := p.GetAccount(context.Background(), "nobody")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestPoint_ActionExists(t *testing.T) {
	p := dao.NewPoint(testdb.New(t))
	ctx := context.Background()
	key := "u1:ENROLL_PROJECT:p-1"

	require.NoError(t, p.CreateAction(ctx, &models.PointAction{
		ID: snowflake.GenID(), UserID: "u1", ActionType: models.ActionEnrollProject,
		PointsEarned: 5, BalanceAfter: 5, EventKey: &key, OccurredAt: t0,
	}))

	exists, err := p.ActionExists(ctx, "u1", key)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = p.ActionExists(ctx, "u2", key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPoint_SumInWindow(t *testing.T) {
	p := dao.NewPoint(testdb.New(t))
	ctx := context.Background()

	add := func(user string, pts int64, at time.Time) {
		require.NoError(t, p.CreateAction(ctx, &models.PointAction{
			ID: snowflake.GenID(), UserID: user, ActionType: models.ActionEnrollCourse,
			PointsEarned: pts, OccurredAt: at,
		}))
	}
	add("a", 10, t0)
	add("b", 10, t0.Add(time.Hour))
	add("c", 50, t0.Add(-48*time.Hour)) // 窗口外
	add("a", -10, t0.Add(2*time.Hour))  // 净值为 0
	add("d", 5, t0.Add(3*time.Hour))
	add("b", 5, t0.Add(4*time.Hour))

	rows, err := p.SumInWindow(ctx, t0, t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardEntry{
		{UserID: "b", Points: 15},
		{UserID: "d", Points: 5},
	}, rows)
}

func TestPoint_ListActions(t *testing.T) {
	p := dao.NewPoint(testdb.New(t))
	ctx := context.Background()

	for i, pts := range []int64{5, -5, 10, -10, 15} {
		require.NoError(t, p.CreateAction(ctx, &models.PointAction{
			ID: snowflake.GenID(), UserID: "u1", ActionType: models.ActionEnrollCourse,
			PointsEarned: pts, OccurredAt: t0.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := p.ListActions(ctx, "u1", "", 0, 10)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, int64(15), all[0].PointsEarned, "newest first")

	income, err := p.ListActions(ctx, "u1", "income", 0, 10)
	require.NoError(t, err)
	assert.Len(t, income, 3)

	expense, err := p.ListActions(ctx, "u1", "expense", all[0].ID, 10)
	require.NoError(t, err)
	require.Len(t, expense, 2)
	assert.Equal(t, int64(-10), expense[0].PointsEarned)
}

func TestTx_RollbackOnError(t *testing.T) {
	db := testdb.New(t)
	tx := dao.NewTx(db)
	p := dao.NewPoint(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.Run(ctx, func(ctx context.Context) error {
		if _, err := p.ApplyDelta(ctx, "u1", 5, t0); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = p.GetAccount(ctx, "u1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStreak_SaveVersion(t *testing.T) {
	s := dao.NewStreak(testdb.New(t))
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	state := &models.StreakState{UserID: "u1", CurrentStreak: 1, LongestStreak: 1, LastLoggedDate: &day, TotalLogs: 1}
	ok, err := s.Save(ctx, state)
	require.NoError(t, err)
	require.True(t, ok)

	loaded, err := s.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, int64(1), loaded.Version)

	stale := *loaded
	loaded.CurrentStreak = 2
	ok, err = s.Save(ctx, loaded)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2), loaded.Version)

	stale.CurrentStreak = 9
	ok, err = s.Save(ctx, &stale)
	require.NoError(t, err)
	assert.False(t, ok, "stale version must be rejected")

	loaded, err = s.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.CurrentStreak)

	missing, err := s.GetByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDailyLog_DeleteByOwner(t *testing.T) {
	d := dao.NewDailyLog(testdb.New(t))
	ctx := context.Background()

	log := &models.DailyLog{ID: snowflake.GenID(), UserID: "u1", Title: "read", OccurredAt: t0}
	require.NoError(t, d.Insert(ctx, log))

	n, err := d.DeleteByOwner(ctx, "u2", log.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = d.DeleteByOwner(ctx, "u1", log.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := d.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLeaderboard_UpsertReplaces(t *testing.T) {
	l := dao.NewLeaderboard(testdb.New(t))
	ctx := context.Background()

	first := &models.LeaderboardSnapshot{
		WindowType: models.WindowDaily, WindowStart: t0, WindowEnd: t0.Add(time.Hour), GeneratedAt: t0,
		Entries: []models.LeaderboardEntry{{UserID: "a", Points: 3}},
	}
	require.NoError(t, l.Upsert(ctx, first))

	second := &models.LeaderboardSnapshot{
		WindowType: models.WindowDaily, WindowStart: t0, WindowEnd: t0.Add(2 * time.Hour), GeneratedAt: t0.Add(time.Hour),
		Entries: []models.LeaderboardEntry{{UserID: "b", Points: 7}, {UserID: "a", Points: 3}},
	}
	require.NoError(t, l.Upsert(ctx, second))

	got, err := l.GetByWindow(ctx, models.WindowDaily)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []models.LeaderboardEntry{{UserID: "b", Points: 7}, {UserID: "a", Points: 3}}, []models.LeaderboardEntry(got.Entries))
	assert.True(t, got.GeneratedAt.Equal(t0.Add(time.Hour)))

	var count int64
	require.NoError(t, l.Model(ctx).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	none, err := l.GetByWindow(ctx, models.WindowMonthly)
	require.NoError(t, err)
	assert.Nil(t, none)
}
