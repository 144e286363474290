package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func newNotification(kind, title, message string, data map[string]any) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// EventCreated 社团新活动，发给社团成员
func EventCreated(eventID uint64, title string) Notification {
	return newNotification(KindEvent, title, "A new event has been created", map[string]any{"eventId": eventID})
}

// CommentCreated 帖子有新评论，发给帖子作者
func CommentCreated(postID, commentID uint64) Notification {
	return newNotification(KindComment, "New Comment", "Someone commented on your post", map[string]any{
		"postId":    postID,
		"commentId": commentID,
	})
}

// ClubChanged 社团被修改或删除，action 如 "updated"、"deleted"
func ClubChanged(clubID uint64, action string) Notification {
	return newNotification(KindClub, "Club Update", fmt.Sprintf("Club %s", action), map[string]any{"clubId": clubID})
}

func Test(title, message string) Notification {
	return newNotification(KindTest, title, message, nil)
}

func Broadcast(title, message string) Notification {
	return newNotification(KindBroadcast, title, message, nil)
}
