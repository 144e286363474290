package handler

import (
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClubHandler struct {
	svc *service.ClubService
	log *zap.Logger
}

type CreateClubReq struct {
	Name        string  `json:"name" binding:"required,max=128"`
	Description string  `json:"description"`
	Category    *string `json:"category" binding:"omitempty,max=64"`
	MeetingTime *string `json:"meetingTime" binding:"omitempty,max=128"`
}

// UpdateClubReq 只更新出现的字段
type UpdateClubReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=128"`
	Description *string `json:"description"`
	Category    *string `json:"category" binding:"omitempty,max=64"`
	MeetingTime *string `json:"meetingTime" binding:"omitempty,max=128"`
}

func NewClubHandler(svc *service.ClubService, log *zap.Logger) *ClubHandler {
	return &ClubHandler{svc: svc, log: log}
}

// Create 创建社团，创建者成为社团管理员
func (h *ClubHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	club, err := h.svc.Create(c.Request.Context(), caller, service.ClubInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MeetingTime: req.MeetingTime,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *ClubHandler) List(c *gin.Context) {
	clubs, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

// Get 社团详情，含成员和活动
func (h *ClubHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	club, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

// ListByUser 用户管理或加入的社团
func (h *ClubHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	clubs, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clubs)
}

func (h *ClubHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	club, err := h.svc.Update(c.Request.Context(), caller, id, service.ClubPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		MeetingTime: req.MeetingTime,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
