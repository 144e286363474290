package notification

import (
	"sync"

	"github.com/AizaAsim/CampusConnect/internal/metrics"

	"go.uber.org/zap"
)

// Hub 进程内的用户 -> 通知通道注册表
// conns 是全部打开的通道，owners 只含已认证的通道
type Hub struct {
	mu     sync.RWMutex
	conns  map[*Client]struct{}
	users  map[uint64]map[*Client]struct{}
	owners map[*Client]uint64
	log    *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		conns:  make(map[*Client]struct{}),
		users:  make(map[uint64]map[*Client]struct{}),
		owners: make(map[*Client]uint64),
		log:    log,
	}
}

// attach 通道打开时登记，未认证的通道只能收到广播
func (h *Hub) attach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// Register 认证成功后把通道挂到用户名下；同一通道重复认证则改挂新用户
func (h *Hub) Register(c *Client, userID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c] = struct{}{}
	if prev, ok := h.owners[c]; ok {
		if prev == userID {
			return
		}
		h.detach(c, prev)
	}
	set, ok := h.users[userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.users[userID] = set
	}
	set[c] = struct{}{}
	h.owners[c] = userID
	h.log.Debug("notification channel registered",
		zap.Uint64("user_id", userID), zap.Int("user_channels", len(set)))
}

// Unregister 通道关闭时调用
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c)
	if userID, ok := h.owners[c]; ok {
		h.detach(c, userID)
		h.log.Debug("notification channel unregistered", zap.Uint64("user_id", userID))
	}
}

// Deauthenticate 重新认证失败时解除用户绑定，通道保持打开
func (h *Hub) Deauthenticate(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userID, ok := h.owners[c]; ok {
		h.detach(c, userID)
		h.log.Debug("notification channel deauthenticated", zap.Uint64("user_id", userID))
	}
}

// detach 调用方持有写锁；集合为空时删除用户条目
func (h *Hub) detach(c *Client, userID uint64) {
	delete(h.owners, c)
	set := h.users[userID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.users, userID)
	}
}

// SendToUser 投递到该用户所有在线通道，离线不排队；返回成功入队的通道数
func (h *Hub) SendToUser(userID uint64, n Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.users[userID] {
		if h.push(c, n) {
			delivered++
		}
	}
	return delivered
}

// Broadcast 投递到所有打开的通道，包括未认证的；仅管理员可触发，权限在控制消息层校验
func (h *Hub) Broadcast(n Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.conns {
		if h.push(c, n) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub) push(c *Client, n Notification) bool {
	if c.Send(Message{Type: TypeNotification, Data: &n}) {
		metrics.NotificationsDelivered.WithLabelValues(n.Type).Inc()
		return true
	}
	metrics.NotificationsDropped.WithLabelValues(n.Type).Inc()
	h.log.Warn("notification dropped, channel buffer full",
		zap.Uint64("user_id", h.owners[c]), zap.String("type", n.Type))
	return false
}

// UserCount 在线用户数
func (h *Hub) UserCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

// ChannelCount 已认证通道数
func (h *Hub) ChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.owners)
}

// ConnectionCount 打开的通道数，含未认证的
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
