package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

type AsynqServer struct {
	Connection  asynq.RedisClientOpt
	Concurrency int
}

// Run starts task processing and shuts the server down with ctx. asynq's own
// Run waits for OS signals, the application owns those.
func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.Connection, asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.Connection.Addr), slog.Int("redis-db", s.Connection.DB))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.Connection.Addr), slog.Int("redis-db", s.Connection.DB))

		return nil
	})
}
