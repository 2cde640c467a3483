package types

// PointsAccount 加/扣分之后的账户概览
type PointsAccount struct {
	UserID        string `json:"user_id"`
	Points        int64  `json:"points"`         // 当前可用积分
	TotalEarned   int64  `json:"total_earned"`   // 历史累计获得
	TotalDeducted int64  `json:"total_deducted"` // 历史累计扣除
	Delta         int64  `json:"delta"`          // 本次流水记录的变动值
	ActionID      int64  `json:"action_id,string"`
}

// PointsBalance 余额查询，没有账户时 Exists=false
type PointsBalance struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
	Exists bool   `json:"exists"`
}

type RankEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

// PointRecord 每一条流水的细节
type PointRecord struct {
	ID           int64  `json:"id,string"`
	ActionType   string `json:"action_type"`
	Amount       int64  `json:"amount"`        // 变动数值（如 +10, -10）
	BalanceAfter int64  `json:"balance_after"` // 变动后余额
	OrderType    string `json:"order_type"`    // INCOME / EXPENSE
	CreatedAt    string `json:"created_at"`
}

// ListPointsRecord 流水列表包装
type ListPointsRecord struct {
	Records    []PointRecord `json:"records"`
	NextCursor int64         `json:"next_cursor,string"`
	HasMore    bool          `json:"has_more"`
}

// ChangePointsReq 协作方加/扣分请求
type ChangePointsReq struct {
	UserID   string `json:"user_id" binding:"required,max=64"`
	Action   string `json:"action" binding:"required"`
	EventKey string `json:"event_key" binding:"max=191"` // 幂等键，如 userId:action:sourceId
}

type ListPointRecordsReq struct {
	Action string `form:"action" binding:"omitempty,oneof=income expense"`
	Cursor int64  `form:"cursor"`
	Limit  int    `form:"limit,default=10" binding:"gte=1,lte=50"`
}

type TopNReq struct {
	N int `form:"n,default=10" binding:"gte=1,lte=100"`
}
