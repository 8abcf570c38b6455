package deal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/internal/metrics"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const sinkTimeout = 5 * time.Second

type dealClient interface {
	InitiateDeal(ctx context.Context, productID value.ProductID) (entity.InitiatedDeal, error)
}

// Poller is a running status poll for one deal.
type Poller interface {
	Start(ctx context.Context) error
	Stop()
	Done() <-chan struct{}
}

// PollerFactory creates a poller that reports transitions to onTransition.
type PollerFactory func(
	dealID value.DealID,
	initial value.DealStatus,
	onTransition func(context.Context, entity.Transition),
) Poller

// Snapshot is everything a screen needs to draw a deal view.
type Snapshot struct {
	ID        string
	Phase     Phase
	Product   entity.Product
	DealID    value.DealID
	Token     value.Token
	DeepLink  string
	Status    value.DealStatus
	Amount    value.Amount
	Message   string
	ExpiresAt time.Time
	Polling   bool
}

// View is one deal modal: it initiates a deal, shows its token, follows the
// status and owns the poller for as long as it is open.
type View struct {
	id            string
	product       entity.Product
	client        dealClient
	pollers       PollerFactory
	sink          TransitionSink
	mobileBaseURL string

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	machine *Machine
	deal    entity.InitiatedDeal
	status  value.DealStatus
	amount  value.Amount
	poller  Poller
	// generation changes on every initiation so late results are dropped.
	generation int
}

func newView(ctx context.Context, id string, product entity.Product, deps Dependencies) *View {
	viewCtx, cancel := context.WithCancel(ctx)

	sink := deps.Sink
	if sink == nil {
		sink = NewFanOut()
	}

	return &View{
		id:            id,
		product:       product,
		client:        deps.Client,
		pollers:       deps.Pollers,
		sink:          sink,
		mobileBaseURL: deps.MobileBaseURL,
		ctx:           viewCtx,
		cancel:        cancel,
		machine:       NewMachine(),
	}
}

func (v *View) ID() string {
	return v.id
}

// Open initiates the deal. Initiation failures move the view to ERROR and are
// not returned.
func (v *View) Open(ctx context.Context) error {
	v.mu.Lock()
	if v.machine.Phase() != PhaseInitiating || v.generation != 0 {
		err := v.transitionError("open")
		v.mu.Unlock()

		return err
	}
	v.generation++
	generation := v.generation
	v.mu.Unlock()

	metrics.ViewPhases.WithLabelValues(PhaseInitiating.String()).Inc()

	v.initiate(ctx, generation)

	return nil
}

// Retry starts a new deal from ERROR.
func (v *View) Retry(ctx context.Context) error {
	v.mu.Lock()
	if !v.machine.Apply(Retry()) {
		err := v.transitionError("retry")
		v.mu.Unlock()

		return err
	}

	poller := v.poller
	v.poller = nil
	v.deal = entity.InitiatedDeal{}
	v.status = ""
	v.amount = ""
	v.generation++
	generation := v.generation
	v.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}

	metrics.ViewPhases.WithLabelValues(PhaseInitiating.String()).Inc()

	v.initiate(ctx, generation)

	return nil
}

// Dismiss closes a view that reached SUCCESS.
func (v *View) Dismiss() error {
	v.mu.Lock()
	if !v.machine.Apply(Dismiss()) {
		err := v.transitionError("dismiss")
		v.mu.Unlock()

		return err
	}
	v.mu.Unlock()

	v.teardown()

	return nil
}

// Close tears the view down from any phase. Polling has stopped when Close
// returns. Calling it again is a no-op.
func (v *View) Close() {
	v.mu.Lock()
	v.machine.Apply(Close())
	v.mu.Unlock()

	v.teardown()
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snapshot := Snapshot{
		ID:        v.id,
		Phase:     v.machine.Phase(),
		Product:   v.product,
		DealID:    v.deal.DealID,
		Status:    v.status,
		Amount:    v.amount,
		Message:   v.machine.Message(),
		ExpiresAt: v.deal.ExpiresAt,
	}

	if snapshot.Amount.IsZero() {
		snapshot.Amount = v.product.Price
	}

	if snapshot.Phase == PhaseQRDisplay {
		snapshot.Token = v.deal.Token
		snapshot.DeepLink = qrcode.DeepLink(v.mobileBaseURL, v.deal.Token)
	}

	if v.poller != nil {
		select {
		case <-v.poller.Done():
		default:
			snapshot.Polling = true
		}
	}

	return snapshot
}

// Token returns the token to render, available only while the QR is shown.
func (v *View) Token() (value.Token, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.machine.Phase() != PhaseQRDisplay || v.deal.Token.IsZero() {
		return "", domain.NewError(errcodes.TokenNotIssued, "No token to display")
	}

	return v.deal.Token, nil
}

func (v *View) IsClosed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.machine.Phase() == PhaseClosed
}

// Settled reports whether the view waits only for the kiosk: it is in ERROR,
// SUCCESS or CLOSED and nothing is polling.
func (v *View) Settled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.machine.Phase() {
	case PhaseError, PhaseSuccess, PhaseClosed:
	default:
		return false
	}

	if v.poller == nil {
		return true
	}

	select {
	case <-v.poller.Done():
		return true
	default:
		return false
	}
}

func (v *View) initiate(ctx context.Context, generation int) {
	log := logger(v.ctx).With(
		slog.String(logx.FieldViewID, v.id),
		slog.String(logx.FieldProductID, v.product.ID.String()),
	)

	deal, err := v.client.InitiateDeal(ctx, v.product.ID)

	if initial, ok := v.applyInitiation(log, generation, deal, err); ok {
		v.publish(ctx, log, initial)
	}
}

// applyInitiation returns the initial transition when the backend answered
// with a status past INITIATED.
func (v *View) applyInitiation(
	log *slog.Logger,
	generation int,
	deal entity.InitiatedDeal,
	err error,
) (entity.Transition, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if generation != v.generation || v.machine.Phase() != PhaseInitiating {
		log.Info("dropping initiation result for a view that moved on")
		return entity.Transition{}, false
	}

	if err != nil {
		v.machine.Apply(InitiateFailed(domain.Message(err, "")))
		metrics.ViewPhases.WithLabelValues(PhaseError.String()).Inc()
		log.Warn("deal initiation failed", logx.Error(err))

		return entity.Transition{}, false
	}

	v.deal = deal
	v.status = deal.Status
	v.machine.Apply(InitiateSucceeded())
	metrics.ViewPhases.WithLabelValues(PhaseQRDisplay.String()).Inc()

	log.Info("deal view shows token", slog.String(logx.FieldDealID, deal.DealID.String()))

	var (
		initial    entity.Transition
		hasInitial bool
	)

	// фаза следует за абсолютным статусом, в том числе за первым
	if deal.Status != "" && deal.Status != value.DealStatusInitiated {
		initial = entity.Transition{
			DealID:    deal.DealID,
			ProductID: v.product.ID,
			To:        deal.Status,
			Report: entity.DealStatusReport{
				DealID:  deal.DealID,
				Status:  deal.Status,
				Product: v.product.Title,
				Amount:  v.product.Price,
			},
			ObservedAt: time.Now().UTC(),
		}
		hasInitial = true

		if v.machine.Apply(StatusObserved(deal.Status)) {
			metrics.ViewPhases.WithLabelValues(v.machine.Phase().String()).Inc()
			log.Info("deal view phase changed",
				slog.String("from", PhaseQRDisplay.String()),
				slog.String(logx.FieldPhase, v.machine.Phase().String()),
				slog.String(logx.FieldDealStatus, deal.Status.String()),
			)
		}
	}

	if v.pollers == nil || deal.Status.IsTerminal() {
		return initial, hasInitial
	}

	poller := v.pollers(deal.DealID, deal.Status, func(ctx context.Context, t entity.Transition) {
		v.observe(ctx, generation, t)
	})

	if err = poller.Start(v.ctx); err != nil {
		log.Error("poller.Start", logx.Error(err))
		return initial, hasInitial
	}

	v.poller = poller

	return initial, hasInitial
}

// observe runs on the poller goroutine.
func (v *View) observe(ctx context.Context, generation int, t entity.Transition) {
	t.ProductID = v.product.ID

	v.mu.Lock()
	if generation != v.generation || v.machine.Phase() == PhaseClosed {
		v.mu.Unlock()
		return
	}

	v.status = t.To
	if !t.Report.Amount.IsZero() {
		v.amount = t.Report.Amount
	}

	before := v.machine.Phase()
	applied := v.machine.Apply(StatusObserved(t.To))
	after := v.machine.Phase()
	v.mu.Unlock()

	log := logger(ctx).With(
		slog.String(logx.FieldViewID, v.id),
		slog.String(logx.FieldDealID, t.DealID.String()),
	)

	if applied {
		metrics.ViewPhases.WithLabelValues(after.String()).Inc()
		log.Info("deal view phase changed",
			slog.String("from", before.String()),
			slog.String(logx.FieldPhase, after.String()),
			slog.String(logx.FieldDealStatus, t.To.String()),
		)
	}

	v.publish(ctx, log, t)
}

func (v *View) publish(ctx context.Context, log *slog.Logger, t entity.Transition) {
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()

	if err := v.sink.Publish(sinkCtx, t); err != nil {
		log.Warn("transition not fully published", logx.Error(err))
	}
}

func (v *View) teardown() {
	v.mu.Lock()
	poller := v.poller
	v.mu.Unlock()

	v.cancel()

	if poller != nil {
		poller.Stop()
	}
}

// transitionError must be called with v.mu held.
func (v *View) transitionError(action string) error {
	return domain.WrapError(
		errors.New(action),
		errcodes.ViewTransition,
		fmt.Sprintf("Cannot %s a deal view in phase %s", action, v.machine.Phase()),
	)
}
