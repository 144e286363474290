package handler

import (
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ClubMemberHandler struct {
	svc *service.ClubMemberService
	log *zap.Logger
}

// JoinClubReq userId 为空表示自己加入
type JoinClubReq struct {
	ClubID  uint64  `json:"clubId" binding:"required"`
	UserID  *uint64 `json:"userId"`
	IsAdmin bool    `json:"isAdmin"`
}

type UpdateMemberReq struct {
	IsAdmin *bool `json:"isAdmin"`
}

func NewClubMemberHandler(svc *service.ClubMemberService, log *zap.Logger) *ClubMemberHandler {
	return &ClubMemberHandler{svc: svc, log: log}
}

// Create 加入社团或由社团管理员添加成员
func (h *ClubMemberHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req JoinClubReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	member, err := h.svc.Create(c.Request.Context(), caller, service.JoinInput{
		ClubID:  req.ClubID,
		UserID:  req.UserID,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *ClubMemberHandler) ListByClub(c *gin.Context) {
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	members, err := h.svc.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *ClubMemberHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	members, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// Update 修改成员的社团内管理权限
func (h *ClubMemberHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	var req UpdateMemberReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	member, err := h.svc.Update(c.Request.Context(), caller, clubID, userID, req.IsAdmin)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// Delete 移除成员，本人可以退出
func (h *ClubMemberHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, clubID, userID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
