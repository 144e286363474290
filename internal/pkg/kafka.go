package pkg

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// KafkaProducer 同步写，同一 key 落同一分区
type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: empty topic")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,
	}
	if cfg.WriteTimeout > 0 {
		w.WriteTimeout = cfg.WriteTimeout
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Topic() string { return p.topic }

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// Send headers 可为空
func (p *KafkaProducer) Send(ctx context.Context, key string, value []byte, headers map[string]string) error {
	return p.writer.WriteMessages(ctx, newMessage(key, value, headers))
}

// newMessage header 按 key 排序，便于下游比对
func newMessage(key string, value []byte, headers map[string]string) kafka.Message {
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(headers[k])})
	}
	return msg
}

func MakeKeyFromID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
