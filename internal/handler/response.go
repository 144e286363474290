package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AizaAsim/CampusConnect/internal/middleware"
	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError 按错误种类映射状态码，未知错误记日志并返回 500
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		log.Error("unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
		return
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
}

// parseID 解析路径参数，失败时已写入 400
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid " + name})
		return 0, false
	}
	return id, true
}

// currentUser 路由已挂 Auth 中间件，取不到视为未登录
func currentUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized"})
		return nil, false
	}
	return user, true
}
