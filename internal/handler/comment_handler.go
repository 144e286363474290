package handler

import (
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	svc *service.CommentService
	log *zap.Logger
}

type CreateCommentReq struct {
	PostID  uint64 `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(svc *service.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

// Create 评论帖子
func (h *CommentHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	comment, err := h.svc.Create(c.Request.Context(), caller, req.PostID, req.Content)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, ok := parseID(c, "postId")
	if !ok {
		return
	}
	comments, err := h.svc.ListByPost(c.Request.Context(), postID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Delete 评论作者、帖子作者或 ADMIN 可删
func (h *CommentHandler) Delete(c *gin.Context) {
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
