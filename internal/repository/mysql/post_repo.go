package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.ActivityPostCreated, post.ID, post.AuthorID, map[string]any{
			"title": post.Title,
		})
	}))
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	if err := r.DB.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// FindDetail 帖子详情，评论按时间升序
func (r *PostRepository) FindDetail(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Comments.Author").
		First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// List 最新的在前，同一时间点用 id 打破并列
func (r *PostRepository) List(ctx context.Context) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, translate(err)
}

// ListByAuthor 走索引 (author_id, created_at)
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, translate(err)
}

func (r *PostRepository) Update(ctx context.Context, id uint64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error)
}

// Delete 先删评论，再删帖子
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
