package handler

import (
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventAttendeeHandler struct {
	svc *service.EventAttendeeService
	log *zap.Logger
}

// RSVPReq status 缺省为 GOING
type RSVPReq struct {
	EventID uint64                 `json:"eventId" binding:"required"`
	UserID  *uint64                `json:"userId"`
	Status  model.AttendanceStatus `json:"status"`
}

type UpdateRSVPReq struct {
	Status model.AttendanceStatus `json:"status" binding:"required"`
}

func NewEventAttendeeHandler(svc *service.EventAttendeeService, log *zap.Logger) *EventAttendeeHandler {
	return &EventAttendeeHandler{svc: svc, log: log}
}

// Create 报名活动
func (h *EventAttendeeHandler) Create(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	var req RSVPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	a, err := h.svc.Create(c.Request.Context(), caller, service.RSVPInput{
		EventID: req.EventID,
		UserID:  req.UserID,
		Status:  req.Status,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *EventAttendeeHandler) ListByEvent(c *gin.Context) {
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	list, err := h.svc.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventAttendeeHandler) ListByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	list, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *EventAttendeeHandler) Update(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	var req UpdateRSVPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	a, err := h.svc.Update(c.Request.Context(), caller, eventID, userID, req.Status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Delete 取消报名
func (h *EventAttendeeHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		return
	}
	eventID, ok := parseID(c, "eventId")
	if !ok {
		return
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), caller, eventID, userID); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
