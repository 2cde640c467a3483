package service

import (
	"Lumen/dao"
	"Lumen/models"
	"Lumen/pkg/snowflake"
	"Lumen/pkg/timeutil"
	"Lumen/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const maxTopN = 100

type PointService struct {
	Tx       *dao.Tx
	PointDAO *dao.Point
	Clock    timeutil.Clock
}

var _ IPointService = (*PointService)(nil)

type IPointService interface {
	// Award 按动作加分；eventKey 非空时同一用户重复提交会返回 ErrDuplicateEvent
	Award(ctx context.Context, userID string, kind models.ActionKind, eventKey string) (*types.PointsAccount, error)
	// Deduct 按动作扣分，余额最低扣到 0
	Deduct(ctx context.Context, userID string, kind models.ActionKind, eventKey string) (*types.PointsAccount, error)

	// 查询
	GetAccount(ctx context.Context, userID string) (*models.PointsAccount, error)
	GetBalance(ctx context.Context, userID string) (*types.PointsBalance, error)
	TopN(ctx context.Context, n int) ([]types.RankEntry, error)
	ListPointRecords(ctx context.Context, userID string, direction string, cursor int64, limit int) (*types.ListPointsRecord, error)
}

func (p *PointService) Award(ctx context.Context, userID string, kind models.ActionKind, eventKey string) (*types.PointsAccount, error) {
	return p.apply(ctx, userID, kind, 1, eventKey)
}

func (p *PointService) Deduct(ctx context.Context, userID string, kind models.ActionKind, eventKey string) (*types.PointsAccount, error) {
	return p.apply(ctx, userID, kind, -1, eventKey)
}

// apply 余额调整和流水追加在同一个事务里完成
func (p *PointService) apply(ctx context.Context, userID string, kind models.ActionKind, sign int64, eventKey string) (*types.PointsAccount, error) {
	value, err := models.ValueOf(kind)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}

	delta := sign * value
	now := p.now()

	var key *string
	if eventKey = strings.TrimSpace(eventKey); eventKey != "" {
		key = &eventKey
	}

	var (
		account *models.PointsAccount
		action  models.PointAction
	)
	err = p.Tx.Run(ctx, func(ctx context.Context) error {
		// 1. 幂等检查
		if key != nil {
			exists, err := p.PointDAO.ActionExists(ctx, userID, eventKey)
			if err != nil {
				return persistErr("check event key", err)
			}
			if exists {
				return ErrDuplicateEvent
			}
		}

		// 2. 数据库侧原子加减，不存在则开户
		acc, err := p.PointDAO.ApplyDelta(ctx, userID, delta, now)
		if err != nil {
			return persistErr("apply points delta", err)
		}

		// 3. 追加流水
		action = models.PointAction{
			ID:           snowflake.GenID(),
			UserID:       userID,
			ActionType:   kind,
			PointsEarned: delta,
			BalanceAfter: acc.Points,
			EventKey:     key,
			OccurredAt:   now,
		}
		if err := p.PointDAO.CreateAction(ctx, &action); err != nil {
			// 并发下两个相同幂等键同时通过检查，由唯一索引兜底
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEvent
			}
			return persistErr("append point action", err)
		}
		account = acc
		return nil
	})
	if err != nil {
		return nil, err
	}

	direction := "award"
	if sign < 0 {
		direction = "deduct"
	}
	pointsActionsTotal.WithLabelValues(kind.String(), direction).Inc()

	return &types.PointsAccount{
		UserID:        account.UserID,
		Points:        account.Points,
		TotalEarned:   account.TotalEarned,
		TotalDeducted: account.TotalDeducted,
		Delta:         delta,
		ActionID:      action.ID,
	}, nil
}

// GetAccount 严格查询，没有账户返回 ErrAccountNotFound
func (p *PointService) GetAccount(ctx context.Context, userID string) (*models.PointsAccount, error) {
	account, err := p.PointDAO.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, persistErr("get account", err)
	}
	return account, nil
}

func (p *PointService) GetBalance(ctx context.Context, userID string) (*types.PointsBalance, error) {
	account, err := p.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// 新用户还没有账户，按 0 返回
			return &types.PointsBalance{UserID: userID}, nil
		}
		return nil, err
	}
	return &types.PointsBalance{UserID: userID, Points: account.Points, Exists: true}, nil
}

// TopN 全时段总积分排行，不区分窗口
func (p *PointService) TopN(ctx context.Context, n int) ([]types.RankEntry, error) {
	if n <= 0 {
		n = 1
	}
	if n > maxTopN {
		n = maxTopN
	}
	accounts, err := p.PointDAO.TopAccounts(ctx, n)
	if err != nil {
		return nil, persistErr("top accounts", err)
	}

	entries := make([]types.RankEntry, 0, len(accounts))
	for i, a := range accounts {
		entries = append(entries, types.RankEntry{Rank: i + 1, UserID: a.UserID, Points: a.Points})
	}
	return entries, nil
}

func (p *PointService) ListPointRecords(ctx context.Context, userID string, direction string, cursor int64, limit int) (*types.ListPointsRecord, error) {
	actions, err := p.PointDAO.ListActions(ctx, userID, direction, cursor, limit+1)
	if err != nil {
		return nil, persistErr("list point actions", err)
	}

	resp := &types.ListPointsRecord{
		Records: make([]types.PointRecord, 0, len(actions)),
	}
	if len(actions) > limit {
		resp.HasMore = true
		actions = actions[:limit]
		resp.NextCursor = actions[len(actions)-1].ID
	}

	for _, a := range actions {
		orderType := "INCOME"
		if a.PointsEarned < 0 {
			orderType = "EXPENSE"
		}
		resp.Records = append(resp.Records, types.PointRecord{
			ID:           a.ID,
			ActionType:   a.ActionType.String(),
			Amount:       a.PointsEarned,
			BalanceAfter: a.BalanceAfter,
			OrderType:    orderType,
			CreatedAt:    a.OccurredAt.Local().Format(time.DateTime),
		})
	}
	return resp, nil
}

func (p *PointService) now() time.Time {
	if p.Clock != nil {
		return p.Clock()
	}
	return time.Now()
}
