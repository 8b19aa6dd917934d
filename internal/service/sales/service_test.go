package sales

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/clock"
	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	events []hub.Event
}

func (f *fakeDispatcher) Publish(events ...hub.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, events...)
}

func (f *fakeDispatcher) Subscribe() *hub.Subscriber { return nil }

func (f *fakeDispatcher) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, ev := range f.events {
		out[i] = ev.Name
	}
	return out
}

type fakeSink struct {
	saved []domain.Sale
}

func (f *fakeSink) SaveSale(ctx context.Context, sale domain.Sale) {
	f.saved = append(f.saved, sale)
}

type fakeLimiter struct {
	allowed bool
}

func (f *fakeLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	return f.allowed, time.Second, nil
}

func newService(t *testing.T) (*Service, *fakeDispatcher, *ledger.Ledger) {
	t.Helper()
	disp := &fakeDispatcher{}
	led := ledger.New(disp, clock.NewFixed(time.Date(2025, 6, 21, 20, 0, 0, 0, time.UTC)))
	return New(led, auth.NewGate("hunter2"), nil, nil), disp, led
}

func TestPurchaseEntryTickets(t *testing.T) {
	svc, disp, led := newService(t)

	sale, err := svc.Purchase(context.Background(), PurchaseInput{
		Kind:          "entry",
		Quantity:      2,
		PaymentMethod: "venmo",
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sale.Price != 20 || sale.Quantity != 2 || sale.Item != "Entry Ticket" {
		t.Fatalf("unexpected sale: %+v", sale)
	}

	rev := led.Revenue()
	if rev.Total != 20 || rev.EntryTotal != 20 {
		t.Fatalf("unexpected revenue: %+v", rev)
	}

	if got, want := disp.names(), []string{hub.EventRevenue, hub.EventSales}; !reflect.DeepEqual(got, want) {
		t.Fatalf("broadcast %v, want %v", got, want)
	}
}

func TestPurchaseRaffleCreatesOneEntryPerTicket(t *testing.T) {
	svc, _, led := newService(t)

	sale, err := svc.Purchase(context.Background(), PurchaseInput{
		Kind:          "tattoo",
		Quantity:      5,
		PaymentMethod: "venmo",
		Name:          "Sam",
		Phone:         "555-0101",
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sale.Price != 20 {
		t.Fatalf("expected bundle price 20, got %d", sale.Price)
	}

	entries := led.RaffleEntries(domain.KindTattoo)
	if len(entries) != 5 {
		t.Fatalf("expected 5 raffle entries, got %d", len(entries))
	}
	ids := make(map[string]bool)
	for _, e := range entries {
		if e.Name != "Sam" || e.Phone != "555-0101" {
			t.Fatalf("entry missing buyer info: %+v", e)
		}
		ids[e.ID] = true
	}
	if len(ids) != 5 {
		t.Fatalf("expected distinct ids, got %d unique of 5", len(ids))
	}

	// One summarizing sale for the whole bundle, not one per entry.
	if sales := led.Sales(); len(sales) != 1 {
		t.Fatalf("expected a single sale record, got %d", len(sales))
	}
}

func TestPurchaseValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      PurchaseInput
		wantErr error
	}{
		{
			"unknown kind",
			PurchaseInput{Kind: "vip", Quantity: 1, PaymentMethod: "venmo"},
			ErrInvalidKind,
		},
		{
			"zero quantity",
			PurchaseInput{Kind: "entry", Quantity: 0, PaymentMethod: "venmo"},
			ErrInvalidQuantity,
		},
		{
			"negative quantity",
			PurchaseInput{Kind: "entry", Quantity: -3, PaymentMethod: "venmo"},
			ErrInvalidQuantity,
		},
		{
			"raffle without name",
			PurchaseInput{Kind: "merch", Quantity: 1, PaymentMethod: "venmo", Phone: "555-0101"},
			ErrBuyerInfoRequired,
		},
		{
			"raffle without phone",
			PurchaseInput{Kind: "merch", Quantity: 1, PaymentMethod: "venmo", Name: "Sam"},
			ErrBuyerInfoRequired,
		},
		{
			"cash without secret",
			PurchaseInput{Kind: "entry", Quantity: 1, PaymentMethod: "cash"},
			ErrUnauthorized,
		},
		{
			"cash with wrong secret",
			PurchaseInput{Kind: "entry", Quantity: 1, PaymentMethod: "cash", Secret: "nope"},
			ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, disp, led := newService(t)

			_, err := svc.Purchase(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// A failed purchase leaves no trace and broadcasts nothing.
			if rev := led.Revenue(); rev.Total != 0 {
				t.Fatalf("ledger mutated on failure: %+v", rev)
			}
			if len(led.Sales()) != 0 {
				t.Fatalf("sale recorded on failure")
			}
			if names := disp.names(); len(names) != 0 {
				t.Fatalf("events broadcast on failure: %v", names)
			}
		})
	}
}

func TestPurchaseCashWithSecret(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		Kind:          "entry",
		Quantity:      1,
		PaymentMethod: "cash",
		Secret:        "hunter2",
	})
	if err != nil {
		t.Fatalf("cash purchase with valid secret: %v", err)
	}
}

func TestPurchaseWriteThrough(t *testing.T) {
	disp := &fakeDispatcher{}
	led := ledger.New(disp, clock.NewFixed(time.Date(2025, 6, 21, 20, 0, 0, 0, time.UTC)))
	sink := &fakeSink{}
	svc := New(led, auth.NewGate("hunter2"), sink, nil)

	sale, err := svc.Purchase(context.Background(), PurchaseInput{
		Kind:          "entry",
		Quantity:      1,
		PaymentMethod: "venmo",
	})
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if len(sink.saved) != 1 || sink.saved[0].ID != sale.ID {
		t.Fatalf("expected sale handed to sink, got %v", sink.saved)
	}
}

func TestPurchaseRateLimited(t *testing.T) {
	disp := &fakeDispatcher{}
	led := ledger.New(disp, clock.NewFixed(time.Date(2025, 6, 21, 20, 0, 0, 0, time.UTC)))
	svc := New(led, auth.NewGate("hunter2"), nil, &fakeLimiter{allowed: false})

	_, err := svc.Purchase(context.Background(), PurchaseInput{
		Kind:          "entry",
		Quantity:      1,
		PaymentMethod: "venmo",
		RateKey:       "ip:10.0.0.1",
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if len(led.Sales()) != 0 {
		t.Fatalf("sale recorded despite rate limit")
	}
}

func TestConcurrentPurchasesKeepAggregateConsistent(t *testing.T) {
	svc, _, led := newService(t)

	const workers = 6
	const perWorker = 25

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kinds := []string{"entry", "tattoo", "merch"}
			for j := range perWorker {
				_, err := svc.Purchase(context.Background(), PurchaseInput{
					Kind:          kinds[(i+j)%len(kinds)],
					Quantity:      1 + j%5,
					PaymentMethod: "venmo",
					Name:          "Sam",
					Phone:         "555-0101",
				})
				if err != nil {
					t.Errorf("purchase: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	var total, tattoo, merch, entry int
	for _, s := range led.Sales() {
		total += s.Price
		switch s.Kind {
		case domain.KindTattoo:
			tattoo += s.Price
		case domain.KindMerch:
			merch += s.Price
		case domain.KindEntry:
			entry += s.Price
		}
	}

	rev := led.Revenue()
	if rev.Total != total || rev.TattooTotal != tattoo || rev.MerchTotal != merch || rev.EntryTotal != entry {
		t.Fatalf("revenue %+v inconsistent with sales log (total=%d tattoo=%d merch=%d entry=%d)",
			rev, total, tattoo, merch, entry)
	}
	if rev.Total != rev.TattooTotal+rev.MerchTotal+rev.EntryTotal {
		t.Fatalf("revenue components do not add up: %+v", rev)
	}
}
