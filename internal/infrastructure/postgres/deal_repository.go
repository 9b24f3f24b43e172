package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

var _ repository.DealRepository = (*DealRepo)(nil)

const dealColumns = `id, listing_id, proposer_id, offer_amount, message, status, responded_at, created_at, updated_at`

// DealRepo implementación del puerto DealRepository sobre PostgreSQL (usable con pool o tx).
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador de persistencia para ofertas.
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

// Create persiste una oferta.
func (r *DealRepo) Create(ctx context.Context, d *entity.Deal) error {
	query := `
		INSERT INTO deals (` + dealColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.ListingID, d.ProposerID, d.OfferAmount, d.Message, d.Status, d.RespondedAt,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrListingNotFound
		}
		if isInvalidValue(err) {
			return fmt.Errorf("%w: importe fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID obtiene una oferta; (nil, nil) si no existe.
func (r *DealRepo) GetByID(ctx context.Context, id string) (*entity.Deal, error) {
	return r.findOne(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila de la oferta dentro de la transacción.
func (r *DealRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error) {
	return r.findOne(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id)
}

func (r *DealRepo) findOne(ctx context.Context, query, id string) (*entity.Deal, error) {
	d, err := scanDeal(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// ListByListing ofertas de una publicación en orden de llegada.
func (r *DealRepo) ListByListing(ctx context.Context, listingID string) ([]*entity.Deal, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE listing_id = $1 ORDER BY created_at, id`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// UpdateStatus resuelve la oferta solo si sigue pending. false = ya estaba resuelta.
// El índice único parcial sobre ofertas aceptadas convierte una segunda aceptación en ErrConflict.
func (r *DealRepo) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE deals SET status = $2, responded_at = now(), updated_at = now()
		WHERE id = $1 AND status = 'pending'`, id, status)
	if err != nil {
		if isUniqueViolation(err, "deals_one_accepted_per_listing") {
			return false, fmt.Errorf("%w: la publicación ya tiene una oferta aceptada", domain.ErrConflict)
		}
		return false, fmt.Errorf("update deal status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// RejectPendingSiblings rechaza las demás ofertas pending de la publicación.
func (r *DealRepo) RejectPendingSiblings(ctx context.Context, listingID, exceptDealID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE deals SET status = 'rejected', responded_at = now(), updated_at = now()
		WHERE listing_id = $1 AND id <> $2 AND status = 'pending'`, listingID, exceptDealID)
	if err != nil {
		return 0, fmt.Errorf("reject sibling deals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDeal(row pgx.Row) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(&d.ID, &d.ListingID, &d.ProposerID, &d.OfferAmount, &d.Message, &d.Status,
		&d.RespondedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
