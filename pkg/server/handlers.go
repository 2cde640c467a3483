package server

import (
	"Lumen/handler"
)

type Handlers struct {
	Points      *handler.Point
	Streak      *handler.Streak
	Leaderboard *handler.Leaderboard
}
