package handler

import (
	"Lumen/config"
	"Lumen/middleware"
	"Lumen/pkg/context"
	"Lumen/pkg/response"
	"Lumen/service"
	"Lumen/types"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Streak struct {
	Config        *config.Config
	StreakService service.IStreakService
}

func (s *Streak) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(s.Config.Jwt.Secret))
	r.POST("/v1/logs", authorize, context.Wrap(s.RecordLog))
	r.GET("/v1/logs", authorize, context.Wrap(s.ListLogs))
	r.DELETE("/v1/logs/:log_id", authorize, context.Wrap(s.DeleteLog))
	r.GET("/v1/streak", authorize, context.Wrap(s.GetStreak))

	internal := r.Group("/internal/v1", middleware.ServiceToken(s.Config.Ledger.ServiceToken))
	internal.POST("/logs", context.Wrap(s.RecordLogFor))
	internal.POST("/streak/:user_id/recalculate", context.Wrap(s.Recalculate))
}

// RecordLog 当前用户打卡
func (s *Streak) RecordLog(c *gin.Context) error {
	var req types.RecordDailyLogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}
	return s.record(c, userID, &req)
}

// RecordLogFor 协作方代用户打卡
func (s *Streak) RecordLogFor(c *gin.Context) error {
	var req types.InternalRecordDailyLogReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	return s.record(c, req.UserID, &req.RecordDailyLogReq)
}

func (s *Streak) record(c *gin.Context, userID string, req *types.RecordDailyLogReq) error {
	var occurredAt time.Time
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	result, err := s.StreakService.RecordDailyLog(c.Request.Context(), userID, occurredAt, req.DailyLogPayload)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, result)
	return nil
}

func (s *Streak) DeleteLog(c *gin.Context) error {
	logID, err := strconv.ParseInt(c.Param("log_id"), 10, 64)
	if err != nil || logID <= 0 {
		return response.NewError(http.StatusBadRequest, "log_id参数错误")
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	result, err := s.StreakService.DeleteLogEvent(c.Request.Context(), userID, logID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, result)
	return nil
}

func (s *Streak) ListLogs(c *gin.Context) error {
	var req types.ListDailyLogsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	resp, err := s.StreakService.ListLogs(c.Request.Context(), userID, req.Cursor, req.Limit)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, resp)
	return nil
}

func (s *Streak) GetStreak(c *gin.Context) error {
	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	info, err := s.StreakService.GetStreak(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, info)
	return nil
}

// Recalculate 按完整历史修复连续打卡状态
func (s *Streak) Recalculate(c *gin.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return response.NewError(http.StatusBadRequest, "user_id参数错误")
	}

	result, err := s.StreakService.Recalculate(c.Request.Context(), userID)
	if err != nil {
		return bizError(err)
	}
	response.Success(c, result)
	return nil
}
