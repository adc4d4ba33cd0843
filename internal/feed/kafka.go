package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"edupulse/internal/config"
	"edupulse/internal/model"
)

// StartKafka consumes activity records from the configured topic until the
// context ends. Redelivered payloads inside the dedupe window are dropped,
// so at-least-once delivery from the broker does not double-count students.
func StartKafka(ctx context.Context, cfg *config.Manager, out chan<- model.StudentActivity, logger *slog.Logger) {
	current := cfg.Get().Feed
	if !current.Kafka.Enabled {
		if logger != nil {
			logger.Info("kafka feed disabled")
		}
		return
	}
	if logger != nil {
		logger.Info("kafka feed enabled", "brokers", current.Kafka.Brokers, "topic", current.Kafka.Topic, "group_id", current.Kafka.GroupID)
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  current.Kafka.Brokers,
		Topic:    current.Kafka.Topic,
		GroupID:  current.Kafka.GroupID,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	dedupe := NewDedupeCache()
	go func() {
		defer reader.Close()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if logger != nil {
					logger.Warn("kafka read error", "err", err)
				}
				if !BackoffSleep(ctx, 500*time.Millisecond) {
					return
				}
				continue
			}
			window := cfg.Get().Feed.DedupeWindow
			if dedupe.Seen(PayloadKey(m.Value), time.Now().UTC(), window) {
				continue
			}
			rec, err := DecodeRecord(m.Value)
			if err != nil {
				if logger != nil {
					logger.Warn("kafka record decode failed", "err", err)
				}
				continue
			}
			act, err := rec.Normalize()
			if err != nil {
				if logger != nil {
					logger.Warn("kafka record rejected", "student_id", rec.StudentID, "course_id", rec.CourseID, "err", err)
				}
				continue
			}
			if !Send(ctx, out, act) {
				return
			}
		}
	}()
}
