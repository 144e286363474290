package handler

import (
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatisticsHandler struct {
	svc *service.StatisticsService
	log *zap.Logger
}

func NewStatisticsHandler(svc *service.StatisticsService, log *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{svc: svc, log: log}
}

func (h *StatisticsHandler) Overview(c *gin.Context) {
	stats, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// User userId 为 "me" 时取当前登录用户
func (h *StatisticsHandler) User(c *gin.Context) {
	var userID uint64
	if c.Param("userId") == "me" {
		caller, ok := currentUser(c)
		if !ok {
			return
		}
		userID = caller.ID
	} else {
		id, ok := parseID(c, "userId")
		if !ok {
			return
		}
		userID = id
	}
	stats, err := h.svc.User(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminDashboard 仅 ADMIN
func (h *StatisticsHandler) AdminDashboard(c *gin.Context) {
	dash, err := h.svc.AdminDashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
