package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

var _ deal.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunDeal abre una transacción, pasa a fn repos de publicaciones y ofertas atados a ella
// y hace Commit si fn no falla; en cualquier otro caso Rollback.
func (r *TxRunner) RunDeal(ctx context.Context, fn func(
	listingRepo repository.ListingRepository,
	dealRepo repository.DealRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewListingRepository(tx), NewDealRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
