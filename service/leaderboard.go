package service

import (
	"Lumen/config"
	"Lumen/dao"
	"Lumen/dao/cache"
	"Lumen/models"
	"Lumen/pkg/log"
	"Lumen/pkg/timeutil"
	"Lumen/types"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type LeaderboardService struct {
	Tx             *dao.Tx
	PointDAO       *dao.Point
	LeaderboardDAO *dao.Leaderboard
	Storage        *cache.LeaderboardStorage
	Publishers     []ArtifactPublisher
	Ledger         *config.Ledger
	Clock          timeutil.Clock
}

var _ ILeaderboardService = (*LeaderboardService)(nil)

type ILeaderboardService interface {
	// Generate 重新统计窗口内积分并覆盖该窗口的快照
	Generate(ctx context.Context, window models.WindowType, asOf time.Time) (*types.Leaderboard, error)
	GenerateAll(ctx context.Context, asOf time.Time) ([]*types.Leaderboard, error)

	Get(ctx context.Context, window models.WindowType) (*types.Leaderboard, error)
	GetCached(ctx context.Context, window models.WindowType) (*types.Leaderboard, error)
}

// Window 返回 [start, end)：DAILY 当天零点，WEEKLY 最近一个周日零点，MONTHLY 当月 1 号零点
func Window(window models.WindowType, asOf time.Time, loc *time.Location) (start, end time.Time, err error) {
	switch window {
	case models.WindowDaily:
		start = timeutil.StartOfDay(asOf, loc)
	case models.WindowWeekly:
		start = timeutil.StartOfWeek(asOf, loc)
	case models.WindowMonthly:
		start = timeutil.StartOfMonth(asOf, loc)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidWindow, window)
	}
	return start, asOf.In(loc), nil
}

func (l *LeaderboardService) Generate(ctx context.Context, window models.WindowType, asOf time.Time) (*types.Leaderboard, error) {
	began := time.Now()
	board, err := l.generate(ctx, window, asOf)

	result := "ok"
	if err != nil {
		result = "error"
	}
	leaderboardGenerateSeconds.WithLabelValues(string(window), result).Observe(time.Since(began).Seconds())
	if err != nil {
		return nil, err
	}

	l.publish(ctx, window, board)
	return board, nil
}

func (l *LeaderboardService) generate(ctx context.Context, window models.WindowType, asOf time.Time) (*types.Leaderboard, error) {
	if asOf.IsZero() {
		asOf = l.now()
	}
	start, end, err := Window(window, asOf, l.Ledger.Location())
	if err != nil {
		return nil, err
	}

	snapshot := &models.LeaderboardSnapshot{
		WindowType:  window,
		WindowStart: start,
		WindowEnd:   end,
		GeneratedAt: l.now(),
	}
	err = l.Tx.Run(ctx, func(ctx context.Context) error {
		entries, err := l.PointDAO.SumInWindow(ctx, start, end)
		if err != nil {
			return persistErr("sum points in window", err)
		}
		snapshot.Entries = entries
		if err := l.LeaderboardDAO.Upsert(ctx, snapshot); err != nil {
			return persistErr("upsert leaderboard snapshot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.L.Info("leaderboard generated",
		zap.String("window", string(window)),
		zap.Time("start", start),
		zap.Int("entries", len(snapshot.Entries)),
	)
	return l.toLeaderboard(snapshot), nil
}

// publish 同步镜像到各个静态存储，失败不影响快照本身
func (l *LeaderboardService) publish(ctx context.Context, window models.WindowType, board *types.Leaderboard) {
	if len(l.Publishers) == 0 {
		return
	}
	body, err := json.Marshal(board)
	if err != nil {
		log.L.Error("marshal leaderboard artifact", zap.Error(err))
		return
	}
	for _, p := range l.Publishers {
		if err := p.Put(ctx, window, body); err != nil {
			log.L.Warn("publish leaderboard artifact failed",
				zap.String("target", p.Name()),
				zap.String("window", string(window)),
				zap.Error(err),
			)
		}
	}
}

// GenerateAll 三个窗口并发生成，任一失败会返回合并后的错误，成功的窗口照常落库
func (l *LeaderboardService) GenerateAll(ctx context.Context, asOf time.Time) ([]*types.Leaderboard, error) {
	if asOf.IsZero() {
		asOf = l.now()
	}
	p := pool.NewWithResults[*types.Leaderboard]().WithErrors().WithContext(ctx)
	for _, w := range models.Windows {
		w := w
		p.Go(func(ctx context.Context) (*types.Leaderboard, error) {
			return l.Generate(ctx, w, asOf)
		})
	}
	return p.Wait()
}

func (l *LeaderboardService) Get(ctx context.Context, window models.WindowType) (*types.Leaderboard, error) {
	snapshot, err := l.LeaderboardDAO.GetByWindow(ctx, window)
	if err != nil {
		return nil, persistErr("get leaderboard snapshot", err)
	}
	if snapshot == nil {
		return &types.Leaderboard{Window: string(window), Entries: []types.RankEntry{}}, nil
	}
	return l.toLeaderboard(snapshot), nil
}

// GetCached 先读 redis 中的静态榜单，读不到或解析失败再查库
func (l *LeaderboardService) GetCached(ctx context.Context, window models.WindowType) (*types.Leaderboard, error) {
	if l.Storage != nil {
		body, err := l.Storage.Get(ctx, window)
		if err != nil {
			log.L.Warn("read leaderboard artifact", zap.String("window", string(window)), zap.Error(err))
		}
		if len(body) > 0 {
			var board types.Leaderboard
			if err := json.Unmarshal(body, &board); err == nil {
				return &board, nil
			}
		}
	}
	return l.Get(ctx, window)
}

func (l *LeaderboardService) toLeaderboard(snapshot *models.LeaderboardSnapshot) *types.Leaderboard {
	loc := l.Ledger.Location()
	board := &types.Leaderboard{
		Window:      string(snapshot.WindowType),
		WindowStart: snapshot.WindowStart.In(loc),
		WindowEnd:   snapshot.WindowEnd.In(loc),
		GeneratedAt: snapshot.GeneratedAt.In(loc),
		Entries:     make([]types.RankEntry, 0, len(snapshot.Entries)),
	}
	for i, e := range snapshot.Entries {
		board.Entries = append(board.Entries, types.RankEntry{Rank: i + 1, UserID: e.UserID, Points: e.Points})
	}
	return board
}

func (l *LeaderboardService) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}
