package handler

import (
	"net/http"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	svc *service.EventService
	log *zap.Logger
}

// CreateEventReq dateTime 为 RFC3339
type CreateEventReq struct {
	Title       string    `json:"title" binding:"required,max=200"`
	Description string    `json:"description"`
	DateTime    time.Time `json:"dateTime" binding:"required"`
	Location    string    `json:"location" binding:"required,max=255"`
	ClubID      *uint64   `json:"clubId"`
}

type UpdateEventReq struct {
	Title       *string    `json:"title" binding:"omitempty,max=200"`
	Description *string    `json:"description"`
	DateTime    *time.Time `json:"dateTime"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	ClubID      *uint64    `json:"clubId"`
}

func NewEventHandler(svc *service.EventService, log *zap.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

// Create 创建活动，关联社团时通知社团成员
func (h *EventHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req CreateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	event, err := h.svc.Create(c.Request.Context(), caller, service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		ClubID:      req.ClubID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListFuture 未开始的活动
func (h *EventHandler) ListFuture(c *gin.Context) {
	events, err := h.svc.ListFuture(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	event, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListByClub(c *gin.Context) {
	clubID, ok := parseID(c, "clubId")
	if !ok {
		return
	}
	events, err := h.svc.ListByClub(c.Request.Context(), clubID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	event, err := h.svc.Update(c.Request.Context(), caller, id, service.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		DateTime:    req.DateTime,
		Location:    req.Location,
		ClubID:      req.ClubID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
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
