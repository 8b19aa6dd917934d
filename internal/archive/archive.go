// Package archive is the optional write-through collaborator for sales.
// The in-memory ledger stays authoritative; the archive only appends a row
// per committed sale so the night's takings survive a restart. Failures are
// logged and never surface to the purchase path.
package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/inkfest/desk-go/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createSalesTable = `
CREATE TABLE IF NOT EXISTS sales (
	id             uuid PRIMARY KEY,
	kind           text NOT NULL,
	item           text NOT NULL,
	quantity       int  NOT NULL,
	price          int  NOT NULL,
	payment_method text NOT NULL,
	sold_at        timestamptz NOT NULL
)`

const insertSale = `
INSERT INTO sales (id, kind, item, quantity, price, payment_method, sold_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`

type Archive struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Archive {
	return &Archive{pool: pool, logger: logger}
}

// Init creates the sales table if it does not exist.
func (a *Archive) Init(ctx context.Context) error {
	_, err := a.pool.Exec(ctx, createSalesTable)
	return err
}

// SaveSale appends one sale row. Errors are logged, not returned: the
// archive must never fail a purchase that the ledger already committed.
func (a *Archive) SaveSale(ctx context.Context, sale domain.Sale) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := a.pool.Exec(ctx, insertSale,
		sale.ID,
		string(sale.Kind),
		sale.Item,
		sale.Quantity,
		sale.Price,
		sale.PaymentMethod,
		sale.Timestamp,
	)
	if err != nil {
		a.logger.Error("failed to archive sale", "sale_id", sale.ID, "error", err)
	}
}
