package deal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/xid"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/logx"
)

type Dependencies struct {
	Client  dealClient
	Pollers PollerFactory
	Sink    TransitionSink
	// MobileBaseURL is the origin of the phone deep link.
	MobileBaseURL string
}

// Registry owns the open deal views of one kiosk. Views are independent of
// each other. Closing the registry closes every view.
type Registry struct {
	ctx     context.Context
	deps    Dependencies
	clock   clock.Clock
	idleTTL time.Duration

	mu      sync.Mutex
	views   map[string]*View
	touched map[string]time.Time
	closed  bool
}

// NewRegistry binds views to ctx: their pollers stop when ctx is done.
func NewRegistry(ctx context.Context, deps Dependencies) *Registry {
	return &Registry{
		ctx:     ctx,
		deps:    deps,
		clock:   clock.New(),
		views:   make(map[string]*View),
		touched: make(map[string]time.Time),
	}
}

// WithIdleTTL enables eviction of settled views nobody has read for ttl.
func (r *Registry) WithIdleTTL(ttl time.Duration) *Registry {
	r.idleTTL = ttl
	return r
}

func (r *Registry) WithClock(c clock.Clock) *Registry {
	r.clock = c
	return r
}

// Open creates a view for product and initiates its deal.
func (r *Registry) Open(ctx context.Context, product entity.Product) (*View, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, domain.NewError(errcodes.ViewTransition, "Kiosk is shutting down")
	}

	view := newView(r.ctx, xid.New().String(), product, r.deps)
	r.views[view.ID()] = view
	r.touched[view.ID()] = r.clock.Now()
	r.mu.Unlock()

	logger(ctx).Info("deal view opened",
		slog.String(logx.FieldViewID, view.ID()),
		slog.String(logx.FieldProductID, product.ID.String()),
	)

	if err := view.Open(ctx); err != nil {
		return nil, fmt.Errorf("view.Open: %w", err)
	}

	return view, nil
}

func (r *Registry) Get(id string) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	view, ok := r.views[id]
	if !ok {
		return nil, domain.NewError(errcodes.ViewNotFound, "Deal view not found")
	}

	r.touched[id] = r.clock.Now()

	return view, nil
}

// Dismiss closes a successful view and forgets it.
func (r *Registry) Dismiss(id string) error {
	view, err := r.Get(id)
	if err != nil {
		return err
	}

	if err = view.Dismiss(); err != nil {
		return fmt.Errorf("view.Dismiss: %w", err)
	}

	r.forget(id)

	return nil
}

// Close closes a view from any phase and forgets it.
func (r *Registry) Close(id string) error {
	view, err := r.Get(id)
	if err != nil {
		return err
	}

	view.Close()
	r.forget(id)

	return nil
}

// CloseAll closes every view and rejects new ones.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	r.closed = true
	views := r.views
	r.views = make(map[string]*View)
	r.touched = make(map[string]time.Time)
	r.mu.Unlock()

	for _, view := range views {
		view.Close()
	}

	logger(r.ctx).Info("deal views closed", slog.Int("count", len(views)))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Run evicts idle settled views until ctx is done. Without an idle TTL it
// only waits for ctx.
func (r *Registry) Run(ctx context.Context) error {
	if r.idleTTL <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := r.clock.Ticker(r.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(); n > 0 {
				logger(ctx).Info("idle deal views evicted", slog.Int("count", n))
			}
		}
	}
}

// Evict closes and forgets settled views that were not read for the idle
// TTL. Views still initiating or polling are kept.
func (r *Registry) Evict() int {
	if r.idleTTL <= 0 {
		return 0
	}

	now := r.clock.Now()

	r.mu.Lock()
	var idle []*View
	for id, view := range r.views {
		if now.Sub(r.touched[id]) >= r.idleTTL && view.Settled() {
			idle = append(idle, view)
			delete(r.views, id)
			delete(r.touched, id)
		}
	}
	r.mu.Unlock()

	for _, view := range idle {
		view.Close()
	}

	return len(idle)
}

func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.views, id)
	delete(r.touched, id)
	r.mu.Unlock()

	logger(r.ctx).Info("deal view closed", slog.String(logx.FieldViewID, id))
}
