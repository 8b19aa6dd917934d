package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/inkfest/desk-go/internal/auth"
	"github.com/inkfest/desk-go/internal/domain"
	"github.com/inkfest/desk-go/internal/hub"
	"github.com/inkfest/desk-go/internal/ledger"
	"github.com/inkfest/desk-go/internal/pricing"
)

// CashPayment is the payment label that requires admin authorization: there
// is no register confirmation for cash, so the secret stands in for one.
const CashPayment = "cash"

// SaleSink receives every committed sale, outside the ledger lock. A nil
// sink disables write-through.
type SaleSink interface {
	SaveSale(ctx context.Context, sale domain.Sale)
}

// RateLimiter throttles purchases per caller key. A nil limiter admits
// everything.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Service struct {
	ledger  *ledger.Ledger
	gate    *auth.Gate
	sink    SaleSink
	limiter RateLimiter
}

func New(led *ledger.Ledger, gate *auth.Gate, sink SaleSink, limiter RateLimiter) *Service {
	return &Service{
		ledger:  led,
		gate:    gate,
		sink:    sink,
		limiter: limiter,
	}
}

type PurchaseInput struct {
	Kind          string
	Quantity      int
	PaymentMethod string
	Name          string
	Phone         string
	Secret        string

	// RateKey scopes rate limiting, typically "ip:<addr>". Empty skips the
	// limiter.
	RateKey string
}

// Purchase validates and applies one purchase as a single atomic ledger
// update: for raffle kinds it appends one raffle entry per ticket, then
// records one summarizing sale and bumps the revenue aggregate. On success
// the updated revenue and sales views are broadcast; raffle entry views stay
// pull-only.
//
// All checks run strictly before any state change, so a failed purchase
// leaves the ledger untouched and emits nothing.
func (s *Service) Purchase(ctx context.Context, in PurchaseInput) (domain.Sale, error) {
	const op = "service.sales.Purchase"

	kind, ok := domain.ParseTicketKind(in.Kind)
	if !ok {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, ErrInvalidKind)
	}

	if in.Quantity <= 0 {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, ErrInvalidQuantity)
	}

	if kind.IsRaffle() {
		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, ErrBuyerInfoRequired)
		}
	}

	if in.PaymentMethod == CashPayment && !s.gate.Authorize(in.Secret) {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	if s.limiter != nil && in.RateKey != "" {
		ok, retry, err := s.limiter.Allow(ctx, in.RateKey)
		if err != nil {
			return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return domain.Sale{}, fmt.Errorf("%s: %w (retry in %s)", op, ErrRateLimited, retry)
		}
	}

	price := pricing.Price(kind, in.Quantity)

	var sale domain.Sale
	err := s.ledger.Do(func(tx *ledger.Tx) error {
		if kind.IsRaffle() {
			tx.AppendRaffleEntries(kind, in.Name, in.Phone, in.Quantity)
		}
		sale = tx.AppendSale(kind, in.Quantity, price, in.PaymentMethod)

		tx.Emit(hub.EventRevenue, tx.Revenue())
		tx.Emit(hub.EventSales, tx.Sales())
		return nil
	})
	if err != nil {
		return domain.Sale{}, fmt.Errorf("%s: %w", op, err)
	}

	if s.sink != nil {
		s.sink.SaveSale(ctx, sale)
	}

	return sale, nil
}
