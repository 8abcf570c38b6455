package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/httpx/reply"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

type journalReader interface {
	ListByDeal(ctx context.Context, dealID value.DealID) ([]entity.Transition, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Transition, error)
}

// JournalServer отдает журнал наблюдавшихся переходов. Без журнала маршруты
// не регистрируются.
type JournalServer struct {
	journal journalReader
}

func NewJournalServer(journal journalReader) JournalServer {
	return JournalServer{
		journal: journal,
	}
}

func (s JournalServer) getV1DealTransitions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	dealID, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	transitions, err := s.journal.ListByDeal(ctx, dealID)
	if err != nil {
		return fmt.Errorf("journal.ListByDeal: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTransitions(transitions))

	return nil
}

func (s JournalServer) getV1Transitions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit := defaultJournalLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxJournalLimit {
			return failure.NewInvalidArgumentError(
				fmt.Sprintf("invalid limit %q", raw),
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription(fmt.Sprintf("limit must be between 1 and %d", maxJournalLimit)),
			)
		}

		limit = n
	}

	transitions, err := s.journal.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("journal.ListRecent: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTTransitions(transitions))

	return nil
}
