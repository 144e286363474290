package mysql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/repository"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// GormConfig 所有 dialector 共用的 gorm 配置
// 级联删除由各仓储显式完成，不依赖外键
func GormConfig(log *zap.Logger) *gorm.Config {
	cfg := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	cfg.DisableForeignKeyConstraintWhenMigrating = true
	if log != nil {
		cfg.Logger = gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	} else {
		cfg.Logger = gormlogger.Discard
	}
	return cfg
}

// InitDB 连接 MySQL 并设置连接池
func InitDB(dsn string, pool PoolConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	return db, nil
}

// Migrate 自动建表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// translate 把驱动错误归一为 repository 包的错误
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateMessage(err):
		return repository.ErrDuplicate
	}
	return err
}

func isDuplicateMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// insertOutbox 在同一事务内写 outbox 表
func insertOutbox(tx *gorm.DB, eventType string, aggregateID, actorID uint64, fields map[string]any) error {
	body := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"id":         aggregateID,
		"actor":      actorID,
	}
	for k, v := range fields {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return tx.Create(&model.ActivityOutbox{
		EventType:   eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Payload:     string(payload),
		Status:      model.OutboxPending,
	}).Error
}

type countRow struct {
	ID uint64
	N  int64
}

// countBy 按 column 分组计数，key 为 column 的取值
func countBy(tx *gorm.DB, m any, column string, ids []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []countRow
	err := tx.Model(m).
		Select(column+" AS id, COUNT(*) AS n").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}
