package service

import (
	"context"
	"strings"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"go.uber.org/zap"
)

type PostService struct {
	posts PostStore
	users UserStore
	log   *zap.Logger
}

func NewPostService(posts PostStore, users UserStore, log *zap.Logger) *PostService {
	return &PostService{posts: posts, users: users, log: log}
}

// PostPatch nil 字段保持不变
type PostPatch struct {
	Title   *string
	Content *string
}

func (s *PostService) Create(ctx context.Context, caller *model.User, title, content string) (*model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	post := &model.Post{
		Title:    title,
		Content:  content,
		AuthorID: caller.ID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = caller
	s.log.Info("post created", zap.Uint64("post_id", post.ID), zap.Uint64("author_id", caller.ID))
	return post, nil
}

// List 最新的在前
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.posts.FindDetail(ctx, id)
	if err != nil {
		return nil, missing(err, "post with ID %d not found", id)
	}
	return post, nil
}

func (s *PostService) ListByUser(ctx context.Context, userID uint64) ([]model.Post, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, missing(err, "user with ID %d not found", userID)
	}
	return s.posts.ListByAuthor(ctx, userID)
}

func (s *PostService) Update(ctx context.Context, caller *model.User, id uint64, p PostPatch) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "post with ID %d not found", id)
	}
	if !canManagePost(caller, post) {
		return nil, forbidden("you do not have permission to update this post")
	}

	fields := map[string]any{}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, invalid("title must not be empty")
		}
		fields["title"] = title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if err := s.posts.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	updated, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, missing(err, "post with ID %d not found", id)
	}
	return updated, nil
}

// Delete 级联范围见 PostStore.Delete
func (s *PostService) Delete(ctx context.Context, caller *model.User, id uint64) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return missing(err, "post with ID %d not found", id)
	}
	if !canManagePost(caller, post) {
		return forbidden("you do not have permission to delete this post")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return missing(err, "post with ID %d not found", id)
	}
	s.log.Info("post deleted", zap.Uint64("post_id", id), zap.Uint64("by", caller.ID))
	return nil
}
