package service

import (
	"context"
	"strings"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"go.uber.org/zap"
)

type CommentService struct {
	comments CommentStore
	posts    PostStore
	notifier Notifier
	log      *zap.Logger
}

func NewCommentService(comments CommentStore, posts PostStore, notifier Notifier, log *zap.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, notifier: notifier, log: log}
}

// Create 评论他人帖子时通知帖子作者
func (s *CommentService) Create(ctx context.Context, caller *model.User, postID uint64, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content is required")
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, missing(err, "post with ID %d not found", postID)
	}
	c := &model.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: caller.ID,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	c.Author = caller

	if post.AuthorID != caller.ID {
		fanOut(s.notifier, []uint64{post.AuthorID}, notification.CommentCreated(postID, c.ID))
	}
	return c, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, missing(err, "post with ID %d not found", postID)
	}
	return s.comments.ListByPost(ctx, postID)
}

// Delete 评论作者、帖子作者或管理员
func (s *CommentService) Delete(ctx context.Context, caller *model.User, id uint64) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return missing(err, "comment with ID %d not found", id)
	}
	if !canDeleteComment(caller, c) {
		return forbidden("you do not have permission to delete this comment")
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return missing(err, "comment with ID %d not found", id)
	}
	s.log.Info("comment deleted", zap.Uint64("comment_id", id), zap.Uint64("by", caller.ID))
	return nil
}
