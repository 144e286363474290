package notification

import "time"

// 帧类型
const (
	TypeAuthenticate  = "authenticate"
	TypeTest          = "sendTestNotification"
	TypeBroadcast     = "sendBroadcastNotification"
	TypeAuthenticated = "authenticated"
	TypeNotification  = "notification"
	TypeAck           = "ack"
	TypeError         = "error"
)

// 通知种类
const (
	KindEvent     = "event"
	KindComment   = "comment"
	KindClub      = "club"
	KindTest      = "test"
	KindBroadcast = "broadcast"
)

// Notification 推送给客户端的通知内容
type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Inbound 客户端上行帧
type Inbound struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Message 服务端下行帧
type Message struct {
	Type    string        `json:"type"`
	Data    *Notification `json:"data,omitempty"`
	UserID  uint64        `json:"userId,omitempty"`
	Success *bool         `json:"success,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func Authenticated(userID uint64) Message {
	return Message{Type: TypeAuthenticated, UserID: userID}
}

func ErrorMessage(msg string) Message {
	return Message{Type: TypeError, Error: msg}
}

func Ack(success bool, errMsg string) Message {
	return Message{Type: TypeAck, Success: &success, Error: errMsg}
}
