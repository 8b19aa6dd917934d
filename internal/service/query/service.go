package query

import (
	"context"
	"fmt"

	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
)

// Service is the read-only surface over the ledger. Reads run concurrently
// with each other and always observe the state left by some prefix of
// completed mutations, never a half-applied one.
type Service struct {
	ledger *ledger.Ledger
}

func New(led *ledger.Ledger) *Service {
	return &Service{ledger: led}
}

func (s *Service) Revenue(ctx context.Context) domain.RevenueSummary {
	return s.ledger.Revenue()
}

func (s *Service) Sales(ctx context.Context) []domain.Sale {
	return s.ledger.Sales()
}

func (s *Service) Schedule(ctx context.Context) []domain.ScheduleEvent {
	return s.ledger.Schedule()
}

// RaffleEntries returns the current pool for a raffle kind.
func (s *Service) RaffleEntries(ctx context.Context, kind string) ([]domain.RaffleEntry, error) {
	const op = "service.query.RaffleEntries"

	k, ok := domain.ParseTicketKind(kind)
	if !ok || !k.IsRaffle() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}

	return s.ledger.RaffleEntries(k), nil
}

// Watch returns the snapshot for a newly connected observer together with
// its live subscription. The two are captured atomically.
func (s *Service) Watch() (ledger.Snapshot, *hub.Subscriber) {
	return s.ledger.Watch()
}
