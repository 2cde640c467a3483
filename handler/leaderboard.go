package handler

import (
	"Lumen/config"
	"Lumen/middleware"
	"Lumen/models"
	"Lumen/pkg/context"
	"Lumen/pkg/response"
	"Lumen/service"
	"time"

	"github.com/gin-gonic/gin"
)

type Leaderboard struct {
	Config             *config.Config
	LeaderboardService service.ILeaderboardService
}

func (l *Leaderboard) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(l.Config.Jwt.Secret))
	r.GET("/v1/leaderboard/:window", authorize, context.Wrap(l.Get))

	internal := r.Group("/internal/v1/leaderboard", middleware.ServiceToken(l.Config.Ledger.ServiceToken))
	internal.POST("/:window/generate", context.Wrap(l.Generate))
}

// Get 读静态榜单，window 取 daily/weekly/monthly
func (l *Leaderboard) Get(c *gin.Context) error {
	window, err := models.ParseWindowType(c.Param("window"))
	if err != nil {
		return bizError(err)
	}

	board, err := l.LeaderboardService.GetCached(c.Request.Context(), window)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, board)
	return nil
}

func (l *Leaderboard) Generate(c *gin.Context) error {
	window, err := models.ParseWindowType(c.Param("window"))
	if err != nil {
		return bizError(err)
	}

	board, err := l.LeaderboardService.Generate(c.Request.Context(), window, time.Time{})
	if err != nil {
		return bizError(err)
	}
	response.Success(c, board)
	return nil
}
