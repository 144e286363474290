package mysql

import (
	"context"

	"github.com/AizaAsim/CampusConnect/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{DB: db}
}

// List 待投递的 outbox 记录：未发送，或发送失败且重试次数未超过 maxRetry
func (r *OutboxRepository) List(ctx context.Context, batchSize, maxRetry int) ([]model.ActivityOutbox, error) {
	var list []model.ActivityOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND retry < ?)", model.OutboxPending, model.OutboxFailed, maxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// RetryUpdate 投递失败，记失败并累加重试次数
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": model.OutboxFailed, "retry": gorm.Expr("retry + 1")}).Error)
}

// SuccessUpdate 投递成功
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return translate(r.DB.WithContext(ctx).Model(&model.ActivityOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error)
}
