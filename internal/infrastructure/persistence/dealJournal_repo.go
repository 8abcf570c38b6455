package persistence

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/logx"
	"kiosk_commerce/pkg/lox"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const transitionColumns = `deal_id, product_id, product, amount, from_status, to_status, observed_at`

// DealJournalRepository пишет наблюдённые переходы статусов сделок.
// Запросы работают и на postgres, и на sqlite.
type DealJournalRepository struct {
	db *sqlx.DB
}

func NewDealJournalRepository(db *sqlx.DB) *DealJournalRepository {
	return &DealJournalRepository{db: db}
}

// Record сохраняет переход. Повторная запись того же статуса сделки
// игнорируется.
func (r *DealJournalRepository) Record(ctx context.Context, t entity.Transition) error {
	query := `
		INSERT INTO deal_transitions (` + transitionColumns + `)
		VALUES (:deal_id, :product_id, :product, :amount, :from_status, :to_status, :observed_at)
		ON CONFLICT (deal_id, to_status) DO NOTHING`

	res, err := r.db.NamedExecContext(ctx, query, fromTransition(t))
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to record transition")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		logger(ctx).Debug("transition already recorded",
			slog.String(logx.FieldDealID, t.DealID.String()),
			slog.String(logx.FieldDealStatus, t.To.String()),
		)
	}

	return nil
}

// ListByDeal возвращает переходы сделки в порядке наблюдения.
func (r *DealJournalRepository) ListByDeal(ctx context.Context, dealID value.DealID) ([]entity.Transition, error) {
	query := r.db.Rebind(`
		SELECT ` + transitionColumns + `
		FROM deal_transitions
		WHERE deal_id = ?
		ORDER BY observed_at, to_status`)

	var schemas []transitionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, dealID.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transitions")
	}

	return r.toDomain(schemas)
}

// ListRecent возвращает последние переходы по всем сделкам.
func (r *DealJournalRepository) ListRecent(ctx context.Context, limit int) ([]entity.Transition, error) {
	query := r.db.Rebind(`
		SELECT ` + transitionColumns + `
		FROM deal_transitions
		ORDER BY observed_at DESC
		LIMIT ?`)

	var schemas []transitionSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list transitions")
	}

	return r.toDomain(schemas)
}

func (r *DealJournalRepository) toDomain(schemas []transitionSchema) ([]entity.Transition, error) {
	transitions, err := lox.MapErr(schemas, transitionSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert transition")
	}

	return transitions, nil
}
