package deal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/metrics"
	"kiosk_commerce/pkg/logx"
)

// TransitionSink receives every transition a view applies.
type TransitionSink interface {
	Publish(ctx context.Context, transition entity.Transition) error
}

type SinkFunc func(ctx context.Context, transition entity.Transition) error

func (f SinkFunc) Publish(ctx context.Context, transition entity.Transition) error {
	return f(ctx, transition)
}

type namedSink struct {
	name string
	sink TransitionSink
}

// FanOut publishes to every sink in order. A failing sink does not stop the
// others.
type FanOut struct {
	sinks []namedSink
}

func NewFanOut() *FanOut {
	return &FanOut{}
}

func (f *FanOut) With(name string, sink TransitionSink) *FanOut {
	f.sinks = append(f.sinks, namedSink{name: name, sink: sink})
	return f
}

func (f *FanOut) Len() int {
	return len(f.sinks)
}

func (f *FanOut) Publish(ctx context.Context, transition entity.Transition) error {
	var errs []error

	for _, s := range f.sinks {
		if err := s.sink.Publish(ctx, transition); err != nil {
			metrics.SinkFailures.WithLabelValues(s.name).Inc()

			logger(ctx).Warn("transition sink failed",
				slog.String("sink", s.name),
				slog.String(logx.FieldDealID, transition.DealID.String()),
				logx.Error(err),
			)

			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}

	return errors.Join(errs...)
}
