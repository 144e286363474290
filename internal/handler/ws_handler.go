package handler

import (
	"context"
	"net/http"

	"github.com/AizaAsim/CampusConnect/internal/middleware"
	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler 通知通道；连接后先发 authenticate 帧，或在升级请求上带 ?token=
type WSHandler struct {
	hub      *notification.Hub
	verifier middleware.SessionVerifier
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewWSHandler origins 为空或含 "*" 时不校验 Origin
func NewWSHandler(hub *notification.Hub, verifier middleware.SessionVerifier, origins []string, log *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		verifier: verifier,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func originChecker(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// Serve 升级连接并启动读写协程
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	client := notification.NewClient(h.hub, conn, h.log)
	s := &wsSession{h: h}

	if token := c.Query("token"); token != "" {
		s.authenticate(client, token)
	}
	client.Start(s.handle)
}

// wsSession 单条连接的会话状态，只在该连接的读协程内访问
type wsSession struct {
	h    *WSHandler
	user *model.User
}

func (s *wsSession) handle(c *notification.Client, in notification.Inbound) {
	switch in.Type {
	case notification.TypeAuthenticate:
		s.authenticate(c, in.Token)
	case notification.TypeTest:
		if s.user == nil {
			c.Send(notification.Ack(false, "Unauthorized"))
			return
		}
		title, msg := orDefault(in.Title, "Test Notification"), orDefault(in.Message, "This is a test notification")
		s.h.hub.SendToUser(s.user.ID, notification.Test(title, msg))
		c.Send(notification.Ack(true, ""))
	case notification.TypeBroadcast:
		if s.user == nil {
			c.Send(notification.Ack(false, "Unauthorized"))
			return
		}
		if !s.user.IsAdmin() {
			c.Send(notification.Ack(false, "Forbidden"))
			return
		}
		n := s.h.hub.Broadcast(notification.Broadcast(orDefault(in.Title, "Announcement"), in.Message))
		s.h.log.Info("broadcast sent", zap.Uint64("by", s.user.ID), zap.Int("channels", n))
		c.Send(notification.Ack(true, ""))
	default:
		c.Send(notification.ErrorMessage("unknown message type"))
	}
}

// authenticate 失败时通道保持打开但不注册；已认证的通道重新认证失败则解除原绑定
func (s *wsSession) authenticate(c *notification.Client, token string) {
	user := s.h.verifier.VerifySession(context.Background(), token)
	if user == nil {
		if s.user != nil {
			s.h.hub.Deauthenticate(c)
			s.user = nil
		}
		c.Send(notification.ErrorMessage("Unauthorized"))
		return
	}
	s.user = user
	s.h.hub.Register(c, user.ID)
	c.Send(notification.Authenticated(user.ID))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
