package schedule

import (
	"context"
	"fmt"

	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
)

type Service struct {
	ledger *ledger.Ledger
	gate   *auth.Gate
}

func New(led *ledger.Ledger, gate *auth.Gate) *Service {
	return &Service{ledger: led, gate: gate}
}

type AddInput struct {
	Title       string
	Date        string
	Description string
	Secret      string
}

// Add creates a schedule event with a fresh id and creation timestamp and
// broadcasts the full updated schedule.
func (s *Service) Add(ctx context.Context, in AddInput) (domain.ScheduleEvent, error) {
	const op = "service.schedule.Add"

	if !s.gate.Authorize(in.Secret) {
		return domain.ScheduleEvent{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	var ev domain.ScheduleEvent
	err := s.ledger.Do(func(tx *ledger.Tx) error {
		ev = tx.AddScheduleEvent(in.Title, in.Date, in.Description)
		tx.Emit(hub.EventSchedule, tx.Schedule())
		return nil
	})
	if err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	return ev, nil
}

// Delete removes the event with the given id and broadcasts the full
// updated schedule. Deleting an unknown id is a no-op, not an error.
func (s *Service) Delete(ctx context.Context, id, secret string) error {
	const op = "service.schedule.Delete"

	if !s.gate.Authorize(secret) {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	return s.ledger.Do(func(tx *ledger.Tx) error {
		tx.DeleteScheduleEvent(id)
		tx.Emit(hub.EventSchedule, tx.Schedule())
		return nil
	})
}
