package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"lockdown-service/internal/config"
	"lockdown-service/internal/repository/model"
	"sync"
	"time"
)

const topic = "lockdown-engine"

const (
	eventTypeApplied = "lockdown_applied"
	eventTypeRemoved = "lockdown_removed"
	eventTypeCleared = "lockdowns_cleared"
)

type kafkaNotifier struct {
	logger *zap.SugaredLogger
	w      *kafka.Writer
}

func NewKafkaNotifier(ctx context.Context, wg *sync.WaitGroup, logger *zap.SugaredLogger, cfg config.KafkaConfig) Notifier {
	w := &kafka.Writer{
		Addr:        kafka.TCP(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		Topic:       topic,
		Async:       true,
		Balancer:    &kafka.LeastBytes{},
		ErrorLogger: zap.NewStdLog(zap.L()),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("shutting down kafka writer")
		if err := w.Close(); err != nil {
			logger.Errorw("failed to close kafka writer", "error", err)
		}
	}()

	return &kafkaNotifier{
		logger: logger,
		w:      w,
	}
}

type lockdownEvent struct {
	CommunityId string    `json:"communityId"`
	LockdownId  string    `json:"lockdownId,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Count       int       `json:"count,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func (k *kafkaNotifier) LockdownApplied(ctx context.Context, lockdown *model.Lockdown) error {
	return k.publishMessage(ctx, eventTypeApplied, lockdownEvent{
		CommunityId: lockdown.CommunityId,
		LockdownId:  lockdown.Id.String(),
		Mode:        lockdown.Type,
		Reason:      lockdown.Reason,
		OccurredAt:  time.Now(),
	})
}

func (k *kafkaNotifier) LockdownRemoved(ctx context.Context, lockdown *model.Lockdown) error {
	return k.publishMessage(ctx, eventTypeRemoved, lockdownEvent{
		CommunityId: lockdown.CommunityId,
		LockdownId:  lockdown.Id.String(),
		Mode:        lockdown.Type,
		OccurredAt:  time.Now(),
	})
}

func (k *kafkaNotifier) LockdownsCleared(ctx context.Context, communityId string, count int) error {
	return k.publishMessage(ctx, eventTypeCleared, lockdownEvent{
		CommunityId: communityId,
		Count:       count,
		OccurredAt:  time.Now(),
	})
}

func (k *kafkaNotifier) publishMessage(ctx context.Context, eventType string, event lockdownEvent) error {
	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := k.w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.CommunityId),
		Value:   bytes,
		Headers: []kafka.Header{{Key: "X-Event-Type", Value: []byte(eventType)}},
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
