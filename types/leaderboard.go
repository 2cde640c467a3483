package types

import "time"

type Leaderboard struct {
	Window      string      `json:"window"`
	WindowStart time.Time   `json:"window_start"`
	WindowEnd   time.Time   `json:"window_end"`
	GeneratedAt time.Time   `json:"generated_at"` // 零值表示还没有生成过
	Entries     []RankEntry `json:"entries"`
}
