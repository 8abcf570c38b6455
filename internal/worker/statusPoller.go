package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/metrics"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const DefaultPollInterval = 2 * time.Second

type StatusGetter interface {
	GetStatus(ctx context.Context, dealID value.DealID) (entity.DealStatusReport, error)
}

// TransitionFunc receives transitions in the order they were observed. It
// runs on the poller goroutine and must not call Stop.
type TransitionFunc func(context.Context, entity.Transition)

// StatusPoller polls one deal with a fixed delay between the end of a request
// and the start of the next, until the first terminal status or Stop.
type StatusPoller struct {
	getter       StatusGetter
	dealID       value.DealID
	onTransition TransitionFunc

	interval time.Duration
	clock    clock.Clock

	// owned by the Run goroutine
	last value.DealStatus

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
	done       chan struct{}
	doneOnce   sync.Once
}

func NewStatusPoller(
	getter StatusGetter,
	dealID value.DealID,
	initial value.DealStatus,
	onTransition TransitionFunc,
) *StatusPoller {
	return &StatusPoller{
		getter:       getter,
		dealID:       dealID,
		onTransition: onTransition,
		interval:     DefaultPollInterval,
		clock:        clock.New(),
		last:         initial,
		done:         make(chan struct{}),
	}
}

func (w *StatusPoller) WithInterval(interval time.Duration) *StatusPoller {
	if interval > 0 {
		w.interval = interval
	}
	return w
}

func (w *StatusPoller) WithClock(c clock.Clock) *StatusPoller {
	w.clock = c
	return w
}

func (w *StatusPoller) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("poller is already running")
	}

	select {
	case <-w.done:
		return errors.New("poller has already finished")
	default:
	}

	pollCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()

			cancel()
		}()

		if err := w.Run(pollCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("poller stopped with error",
				slog.String(logx.FieldDealID, w.dealID.String()),
				logx.Error(err),
			)
		}
	}()

	return nil
}

// Stop cancels polling and waits for an in-flight request to settle. It is
// safe to call more than once.
func (w *StatusPoller) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// IsRunning возвращает текущий статус
func (w *StatusPoller) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

// Done is closed once Run has returned.
func (w *StatusPoller) Done() <-chan struct{} {
	return w.done
}

func (w *StatusPoller) Run(ctx context.Context) error {
	defer w.doneOnce.Do(func() { close(w.done) })

	log := logger(ctx).With(slog.String(logx.FieldDealID, w.dealID.String()))

	if w.last.IsTerminal() {
		return nil
	}

	metrics.ActivePollers.Inc()
	defer metrics.ActivePollers.Dec()

	log.Debug("status poller started", slog.Duration("interval", w.interval))

	for {
		timer := w.clock.Timer(w.interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Debug("status poller stopped", slog.String(logx.FieldDealStatus, w.last.String()))
			return ctx.Err()
		case <-timer.C:
		}

		if w.poll(ctx, log) {
			log.Info("status poller finished", slog.String(logx.FieldDealStatus, w.last.String()))
			return nil
		}
	}
}

// poll makes one request and reports whether the deal reached a terminal
// status.
func (w *StatusPoller) poll(ctx context.Context, log *slog.Logger) bool {
	report, err := w.getter.GetStatus(ctx, w.dealID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}

		metrics.PollTicks.WithLabelValues(metrics.ResultFailed).Inc()
		log.Warn("status poll failed, skipping tick", logx.Error(err))

		return false
	}

	metrics.PollTicks.WithLabelValues(metrics.ResultOK).Inc()

	if ctx.Err() != nil {
		return false
	}

	if report.Status != w.last {
		transition := entity.Transition{
			DealID:     w.dealID,
			From:       w.last,
			To:         report.Status,
			Report:     report,
			ObservedAt: w.clock.Now(),
		}

		w.last = report.Status

		metrics.DealTransitions.WithLabelValues(transition.From.String(), transition.To.String()).Inc()

		if w.onTransition != nil {
			w.onTransition(ctx, transition)
		}
	}

	return report.Status.IsTerminal()
}
