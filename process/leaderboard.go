package process

import (
	"Lumen/config"
	"Lumen/pkg/log"
	"Lumen/service"
	"context"
	"time"

	"go.uber.org/zap"
)

// LeaderboardJob 按固定间隔重新生成全部窗口的排行榜
type LeaderboardJob struct {
	Service service.ILeaderboardService
	Ledger  *config.Ledger
}

func (j *LeaderboardJob) Init() error {
	return nil
}

func (j *LeaderboardJob) Setup(ctx context.Context) error {
	log.L.Info("start leaderboard job", zap.Duration("interval", j.Ledger.LeaderboardInterval))

	// 启动时先生成一次，避免榜单空窗一个周期
	j.run(ctx)

	ticker := time.NewTicker(j.Ledger.LeaderboardInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			j.run(ctx)
		}
	}
}

func (j *LeaderboardJob) run(ctx context.Context) {
	boards, err := j.Service.GenerateAll(ctx, time.Time{})
	if err != nil {
		// 单个窗口失败不影响下一轮
		log.L.Error("generate leaderboards", zap.Error(err))
		return
	}
	log.L.Debug("leaderboards generated", zap.Int("windows", len(boards)))
}
