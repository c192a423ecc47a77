package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/movingavg/internal/average"
	"github.com/sanspareilsmyn/movingavg/internal/config"
)

type kafkaZapLogger struct {
	log *zap.Logger
}

func (l kafkaZapLogger) Printf(msg string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(msg, args...))
}

type kafkaZapErrorLogger struct {
	log *zap.Logger
}

func (l kafkaZapErrorLogger) Printf(msg string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(msg, args...))
}

// messageWriter is the subset of *kafka.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes records to a Kafka topic, one message per minute.
// The message key is the record's date so records for a minute land on
// the same partition.
type KafkaSink struct {
	writer    messageWriter
	batchSize int
	cfg       config.KafkaConfig
	logger    *zap.Logger
}

// NewKafkaSink creates a sink backed by a kafka-go Writer.
func NewKafkaSink(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		logger.Error("Kafka sink configuration validation failed",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return nil, ErrInvalidKafkaConfig
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		RequiredAcks: kafka.RequireAll,
		Logger:       kafkaZapLogger{logger.Named("kafka-writer").WithOptions(zap.AddCallerSkip(1))},
		ErrorLogger:  kafkaZapErrorLogger{logger.Named("kafka-writer-error").WithOptions(zap.AddCallerSkip(1))},
	}

	logger.Info("Kafka sink created",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
		zap.Int("batch_size", cfg.BatchSize),
	)

	return newKafkaSink(w, cfg, logger), nil
}

func newKafkaSink(w messageWriter, cfg config.KafkaConfig, logger *zap.Logger) *KafkaSink {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &KafkaSink{
		writer:    w,
		batchSize: batchSize,
		cfg:       cfg,
		logger:    logger,
	}
}

// Write publishes records in order, in chunks of the configured batch size.
func (s *KafkaSink) Write(ctx context.Context, records []average.Record) error {
	lines := Lines(records)
	msgs := make([]kafka.Message, 0, len(lines))
	for _, line := range lines {
		value, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
		}
		msgs = append(msgs, kafka.Message{Key: []byte(line.Date), Value: value})
	}

	for start := 0; start < len(msgs); start += s.batchSize {
		end := min(start+s.batchSize, len(msgs))
		if err := s.writer.WriteMessages(ctx, msgs[start:end]...); err != nil {
			s.logger.Error("Failed to publish records",
				zap.String("topic", s.cfg.Topic),
				zap.Int("offset_in_run", start),
				zap.Error(err),
			)
			return fmt.Errorf("%w: %w", ErrKafkaPublishFailed, err)
		}
	}

	s.logger.Debug("Published records", zap.String("topic", s.cfg.Topic), zap.Int("count", len(msgs)))
	return nil
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	s.logger.Debug("Closing Kafka sink writer...")
	return s.writer.Close()
}
