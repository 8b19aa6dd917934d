package raffle

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
)

type Service struct {
	ledger *ledger.Ledger
	gate   *auth.Gate

	// pick selects a winner index in [0, n). Injectable for tests.
	pick func(n int) int
}

func New(led *ledger.Ledger, gate *auth.Gate) *Service {
	return &Service{
		ledger: led,
		gate:   gate,
		pick:   rand.IntN,
	}
}

// Draw selects one entry uniformly at random from the kind's pool and
// broadcasts it. Entries are never removed by a draw: a buyer with five
// tickets has five chances every time, and repeated draws may pick the same
// entry again.
//
// The draw runs through the ledger's write path so the winner event lands
// in the same total order as real mutations.
func (s *Service) Draw(ctx context.Context, kind, secret string) (domain.RaffleEntry, error) {
	const op = "service.raffle.Draw"

	k, ok := domain.ParseTicketKind(kind)
	if !ok || !k.IsRaffle() {
		return domain.RaffleEntry{}, fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}

	if !s.gate.Authorize(secret) {
		return domain.RaffleEntry{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	var winner domain.RaffleEntry
	err := s.ledger.Do(func(tx *ledger.Tx) error {
		entries := tx.RaffleEntries(k)
		if len(entries) == 0 {
			return fmt.Errorf("%s: %w", op, ErrNoEntries)
		}

		winner = entries[s.pick(len(entries))]
		tx.Emit(hub.EventWinner, domain.WinnerAnnouncement{Kind: k, Winner: winner})
		return nil
	})
	if err != nil {
		return domain.RaffleEntry{}, err
	}

	return winner, nil
}

// Clear atomically empties the kind's pool. The change is not broadcast;
// observers pick it up on their next pull of the raffle entry view.
func (s *Service) Clear(ctx context.Context, kind, secret string) error {
	const op = "service.raffle.Clear"

	k, ok := domain.ParseTicketKind(kind)
	if !ok || !k.IsRaffle() {
		return fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}

	if !s.gate.Authorize(secret) {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return s.ledger.Do(func(tx *ledger.Tx) error {
		tx.ClearRaffle(k)
		return nil
	})
}
