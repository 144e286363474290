package service

import (
	"context"
	"strconv"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/metrics"
	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/pkg"

	"go.uber.org/zap"
)

type Sender func(ctx context.Context, ob *model.ActivityOutbox) error

// OutboxRelayer 定时把 activity_outbox 中待投递的记录交给 sender
type OutboxRelayer struct {
	repo      OutboxStore
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
	log       *zap.Logger
}

type RelayerConfig struct {
	BatchSize int
	MaxRetry  int
	Interval  time.Duration
}

func NewOutboxRelayer(repo OutboxStore, sender Sender, cfg RelayerConfig, log *zap.Logger) *OutboxRelayer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 5
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: cfg.BatchSize,
		maxRetry:  cfg.MaxRetry,
		interval:  cfg.Interval,
		sender:    sender,
		log:       log,
	}
}

// Run 阻塞直到 ctx 取消
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 按 id 顺序投递一批；单条失败记重试，不影响后续记录
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.log.Error("outbox query", zap.Error(err))
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		err := r.sender(ctx, &ob)
		metrics.RecordOutbox(ob.EventType, err)
		if err != nil {
			r.log.Warn("outbox send failed", zap.Uint64("outbox_id", ob.ID),
				zap.String("event_type", ob.EventType), zap.Int("retry", ob.Retry), zap.Error(err))
			if err := r.repo.RetryUpdate(ctx, ob.ID); err != nil {
				r.log.Error("outbox retry update", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			}
			continue
		}
		if err := r.repo.SuccessUpdate(ctx, ob.ID); err != nil {
			r.log.Error("outbox success update", zap.Uint64("outbox_id", ob.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// LogSender 未配置 kafka 时使用，只打日志
func LogSender(log *zap.Logger) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		log.Info("outbox send",
			zap.String("event_type", ob.EventType),
			zap.Uint64("aggregate_id", ob.AggregateID),
			zap.Uint64("actor_id", ob.ActorID),
			zap.String("payload", ob.Payload))
		return nil
	}
}

// Publisher 由 *pkg.KafkaProducer 实现
type Publisher interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// KafkaSender 以聚合 id 为 key，保证同一实体的事件有序
func KafkaSender(p Publisher) Sender {
	return func(ctx context.Context, ob *model.ActivityOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.AggregateID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
			"outbox_id":  strconv.FormatUint(ob.ID, 10),
		})
	}
}
