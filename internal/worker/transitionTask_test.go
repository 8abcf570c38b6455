package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/worker"
)

type enqueuerMock struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (m *enqueuerMock) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.err != nil {
		return nil, m.err
	}

	m.tasks = append(m.tasks, task)
	m.opts = append(m.opts, opts)

	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type notifierMock struct {
	sent []entity.Transition
	err  error
}

func (m *notifierMock) SendTransition(_ context.Context, t entity.Transition) error {
	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, t)

	return nil
}

func TestTransitionEnqueuer_Publish(t *testing.T) {
	rq := require.New(t)

	client := &enqueuerMock{}
	enqueuer := worker.NewTransitionEnqueuer(client).WithMaxRetry(3)

	transition := entity.Transition{
		DealID: "D1",
		From:   value.DealStatusInitiated,
		To:     value.DealStatusVendorConfirmed,
		Report: entity.DealStatusReport{DealID: "D1", Status: value.DealStatusVendorConfirmed, Product: "Boat tour"},
	}

	rq.NoError(enqueuer.Publish(context.Background(), transition))
	rq.Len(client.tasks, 1)
	rq.Equal(worker.TaskTypeDealTransition, client.tasks[0].Type())
	rq.Len(client.opts[0], 3)

	notifier := &notifierMock{}
	handle := worker.NewTransitionHandler(notifier)

	rq.NoError(handle(context.Background(), client.tasks[0]))
	rq.Len(notifier.sent, 1)
	rq.Equal(transition.DealID, notifier.sent[0].DealID)
	rq.Equal(transition.To, notifier.sent[0].To)
	rq.Equal("Boat tour", notifier.sent[0].Report.Product)
}

func TestTransitionEnqueuer_PublishFails(t *testing.T) {
	rq := require.New(t)

	enqueuer := worker.NewTransitionEnqueuer(&enqueuerMock{err: errors.New("redis down")})

	err := enqueuer.Publish(context.Background(), entity.Transition{DealID: "D1", To: value.DealStatusClosed})
	rq.Error(err)
}

func TestTransitionHandler(t *testing.T) {
	rq := require.New(t)

	valid, err := worker.NewTransitionTask(entity.Transition{DealID: "D1", To: value.DealStatusExpired})
	rq.NoError(err)

	testCases := []struct {
		name          string
		task          *asynq.Task
		notifyErr     error
		wantErr       bool
		wantSkipRetry bool
	}{
		{
			name: "Delivered",
			task: valid,
		},
		{
			name:          "Broken payload is not retried",
			task:          asynq.NewTask(worker.TaskTypeDealTransition, []byte(`{"deal_id":"D1","to":"UNKNOWN"}`)),
			wantErr:       true,
			wantSkipRetry: true,
		},
		{
			name:      "Notifier failure is retried",
			task:      valid,
			notifyErr: errors.New("telegram unavailable"),
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			handle := worker.NewTransitionHandler(&notifierMock{err: tc.notifyErr})

			err := handle(context.Background(), tc.task)
			if !tc.wantErr {
				rq.NoError(err)
				return
			}

			rq.Error(err)
			rq.Equal(tc.wantSkipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
