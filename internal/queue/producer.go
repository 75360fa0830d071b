package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	msg := Message{
		TaskType:   task.TaskType,
		BotID:      task.BotID,
		MeetingID:  task.MeetingID,
		CalendarID: task.CalendarID,
		SeriesID:   task.SeriesID,
		MeetingURL: task.MeetingURL,
	}
	if task.TraceID != nil {
		msg.TraceID = *task.TraceID
	}
	if err := validate(msg); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.TaskType, err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: messageValues(msg, attempt),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.TaskType, err)
	}

	p.logger.InfoContext(ctx, "enqueued task",
		"task_type", task.TaskType,
		"bot_id", task.BotID,
		"calendar_id", task.CalendarID,
		"attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
