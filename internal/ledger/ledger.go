// Package ledger owns the authoritative in-memory state: the sales log, the
// two raffle pools, the schedule, and the revenue aggregate. All mutations
// are serialized behind one write lock and hand their change events to the
// dispatcher before the lock is released, so broadcast order always equals
// application order.
package ledger

import (
	"sync"

	"github.com/google/uuid"
	"github.com/inkfest/desk-go/internal/clock"
	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
)

// Dispatcher receives ordered change events and registers observers. The
// ledger only knows this interface; the broadcast hub implements it.
type Dispatcher interface {
	Publish(events ...hub.Event)
	Subscribe() *hub.Subscriber
}

// Snapshot is the full current view pushed to a newly connected observer.
// Raffle entries are pull-only and deliberately excluded.
type Snapshot struct {
	Revenue  domain.RevenueSummary
	Sales    []domain.Sale
	Schedule []domain.ScheduleEvent
}

type Ledger struct {
	mu       sync.RWMutex
	clock    clock.Clock
	dispatch Dispatcher

	sales    []domain.Sale
	raffles  map[domain.TicketKind][]domain.RaffleEntry
	schedule []domain.ScheduleEvent
	revenue  domain.RevenueSummary
}

func New(dispatch Dispatcher, clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Ledger{
		clock:    clk,
		dispatch: dispatch,
		raffles: map[domain.TicketKind][]domain.RaffleEntry{
			domain.KindTattoo: nil,
			domain.KindMerch:  nil,
		},
	}
}

// Do runs fn under the write lock. Events emitted by fn are published to
// the dispatcher, in emit order, before the lock is released. fn must
// return an error only before touching state; there is no rollback.
func (l *Ledger) Do(fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Tx{l: l}
	if err := fn(tx); err != nil {
		return err
	}
	if l.dispatch != nil && len(tx.events) > 0 {
		l.dispatch.Publish(tx.events...)
	}
	return nil
}

// Watch atomically captures a snapshot and registers an observer, so the
// observer misses no event after the snapshot and replays none before it.
func (l *Ledger) Watch() (Snapshot, *hub.Subscriber) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := Snapshot{
		Revenue:  l.revenue,
		Sales:    copySales(l.sales),
		Schedule: copySchedule(l.schedule),
	}
	return snap, l.dispatch.Subscribe()
}

func (l *Ledger) Revenue() domain.RevenueSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revenue
}

func (l *Ledger) Sales() []domain.Sale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copySales(l.sales)
}

func (l *Ledger) Schedule() []domain.ScheduleEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copySchedule(l.schedule)
}

func (l *Ledger) RaffleEntries(kind domain.TicketKind) []domain.RaffleEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyEntries(l.raffles[kind])
}

// Tx is the view handed to a mutation while the write lock is held. Its
// mutators keep the revenue aggregate and the sales log in step; no caller
// can update one without the other.
type Tx struct {
	l      *Ledger
	events []hub.Event
}

// Emit queues a change event for publication once the mutation completes.
func (tx *Tx) Emit(name string, data any) {
	tx.events = append(tx.events, hub.Event{Name: name, Data: data})
}

// AppendSale records one sale and bumps the revenue total plus the matching
// per-kind component by the sale price, as a single step.
func (tx *Tx) AppendSale(kind domain.TicketKind, quantity, price int, paymentMethod string) domain.Sale {
	sale := domain.Sale{
		ID:            uuid.NewString(),
		Kind:          kind,
		Item:          kind.Label(),
		Quantity:      quantity,
		Price:         price,
		PaymentMethod: paymentMethod,
		Timestamp:     tx.l.clock.Now(),
	}
	tx.l.sales = append(tx.l.sales, sale)

	tx.l.revenue.Total += price
	switch kind {
	case domain.KindTattoo:
		tx.l.revenue.TattooTotal += price
	case domain.KindMerch:
		tx.l.revenue.MerchTotal += price
	case domain.KindEntry:
		tx.l.revenue.EntryTotal += price
	}
	return sale
}

// AppendRaffleEntries adds n entries for one buyer to the kind's pool, each
// with its own id. One entry per ticket: a five-ticket bundle is five draw
// chances.
func (tx *Tx) AppendRaffleEntries(kind domain.TicketKind, name, phone string, n int) []domain.RaffleEntry {
	now := tx.l.clock.Now()
	added := make([]domain.RaffleEntry, 0, n)
	for range n {
		added = append(added, domain.RaffleEntry{
			ID:        uuid.NewString(),
			Name:      name,
			Phone:     phone,
			Timestamp: now,
		})
	}
	tx.l.raffles[kind] = append(tx.l.raffles[kind], added...)
	return added
}

func (tx *Tx) ClearRaffle(kind domain.TicketKind) {
	tx.l.raffles[kind] = nil
}

func (tx *Tx) AddScheduleEvent(title, date, description string) domain.ScheduleEvent {
	ev := domain.ScheduleEvent{
		ID:          uuid.NewString(),
		Title:       title,
		Date:        date,
		Description: description,
		CreatedAt:   tx.l.clock.Now(),
	}
	tx.l.schedule = append(tx.l.schedule, ev)
	return ev
}

// DeleteScheduleEvent removes the event with the given id. Removing an
// unknown id is a no-op, not an error.
func (tx *Tx) DeleteScheduleEvent(id string) {
	kept := tx.l.schedule[:0]
	for _, ev := range tx.l.schedule {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	tx.l.schedule = kept
}

func (tx *Tx) Revenue() domain.RevenueSummary { return tx.l.revenue }

func (tx *Tx) Sales() []domain.Sale { return copySales(tx.l.sales) }

func (tx *Tx) Schedule() []domain.ScheduleEvent { return copySchedule(tx.l.schedule) }

func (tx *Tx) RaffleEntries(kind domain.TicketKind) []domain.RaffleEntry {
	return copyEntries(tx.l.raffles[kind])
}

func copySales(s []domain.Sale) []domain.Sale {
	out := make([]domain.Sale, len(s))
	copy(out, s)
	return out
}

func copySchedule(s []domain.ScheduleEvent) []domain.ScheduleEvent {
	out := make([]domain.ScheduleEvent, len(s))
	copy(out, s)
	return out
}

func copyEntries(s []domain.RaffleEntry) []domain.RaffleEntry {
	out := make([]domain.RaffleEntry, len(s))
	copy(out, s)
	return out
}
