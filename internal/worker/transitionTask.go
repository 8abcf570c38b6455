package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/infrastructure/events"
	"kiosk_commerce/pkg/logx"
)

const (
	TaskTypeDealTransition = "deal:transition"
	NotifyQueue            = "notify"

	defaultTaskMaxRetry = 5
	defaultTaskTimeout  = 30 * time.Second
)

type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TransitionEnqueuer ставит переход в очередь уведомлений.
type TransitionEnqueuer struct {
	client   TaskEnqueuer
	maxRetry int
}

func NewTransitionEnqueuer(client TaskEnqueuer) *TransitionEnqueuer {
	return &TransitionEnqueuer{
		client:   client,
		maxRetry: defaultTaskMaxRetry,
	}
}

func (e *TransitionEnqueuer) WithMaxRetry(n int) *TransitionEnqueuer {
	e.maxRetry = n
	return e
}

func NewTransitionTask(t entity.Transition) (*asynq.Task, error) {
	payload, err := events.Encode(t)
	if err != nil {
		return nil, fmt.Errorf("events.Encode: %w", err)
	}

	return asynq.NewTask(TaskTypeDealTransition, payload), nil
}

func (e *TransitionEnqueuer) Publish(ctx context.Context, t entity.Transition) error {
	task, err := NewTransitionTask(t)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue(NotifyQueue),
		asynq.MaxRetry(e.maxRetry),
		asynq.Timeout(defaultTaskTimeout),
	)
	if err != nil {
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Debug("transition enqueued",
		slog.String(logx.FieldTaskType, TaskTypeDealTransition),
		slog.String("task-id", info.ID),
		slog.String(logx.FieldDealID, t.DealID.String()),
	)

	return nil
}

type TransitionNotifier interface {
	SendTransition(ctx context.Context, t entity.Transition) error
}

// NewTransitionHandler returns the asynq handler for deal:transition tasks.
// A payload that cannot be decoded is not retried.
func NewTransitionHandler(notifier TransitionNotifier) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		t, err := events.Decode(task.Payload())
		if err != nil {
			logger(ctx).Error("invalid transition task",
				slog.String(logx.FieldTaskType, task.Type()),
				logx.Error(err),
			)

			return fmt.Errorf("events.Decode: %v: %w", err, asynq.SkipRetry)
		}

		if err := notifier.SendTransition(ctx, t); err != nil {
			return fmt.Errorf("notifier.SendTransition: %w", err)
		}

		return nil
	}
}
