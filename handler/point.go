package handler

import (
	"Lumen/config"
	"Lumen/middleware"
	"Lumen/models"
	"Lumen/pkg/context"
	"Lumen/pkg/response"
	"Lumen/service"
	"Lumen/types"
	stdctx "context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Point struct {
	Config       *config.Config
	PointService service.IPointService
}

func (p *Point) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pointGroup := r.Group("/v1/points")
	pointGroup.GET("/balance", authorize, context.Wrap(p.Balance))
	pointGroup.GET("/records", authorize, context.Wrap(p.GetRecords))
	pointGroup.GET("/top", authorize, context.Wrap(p.Top))

	internal := r.Group("/internal/v1/points", middleware.ServiceToken(p.Config.Ledger.ServiceToken))
	internal.POST("/award", context.Wrap(p.Award))
	internal.POST("/deduct", context.Wrap(p.Deduct))
}

func (p *Point) Balance(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	balance, err := p.PointService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, balance)
	return nil
}

// GetRecords 积分流水，游标分页
func (p *Point) GetRecords(c *gin.Context) error {
	var req types.ListPointRecordsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	resp, err := p.PointService.ListPointRecords(c.Request.Context(), userID, req.Action, req.Cursor, req.Limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

// Top 全时段积分榜
func (p *Point) Top(c *gin.Context) error {
	var req types.TopNReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	entries, err := p.PointService.TopN(c.Request.Context(), req.N)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, entries)
	return nil
}

func (p *Point) Award(c *gin.Context) error {
	return p.change(c, p.PointService.Award)
}

func (p *Point) Deduct(c *gin.Context) error {
	return p.change(c, p.PointService.Deduct)
}

type changeFunc func(ctx stdctx.Context, userID string, kind models.ActionKind, eventKey string) (*types.PointsAccount, error)

func (p *Point) change(c *gin.Context, fn changeFunc) error {
	var req types.ChangePointsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	kind, err := models.ParseActionKind(req.Action)
	if err != nil {
		return bizError(err)
	}

	account, err := fn(c.Request.Context(), req.UserID, kind, req.EventKey)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, account)
	return nil
}
