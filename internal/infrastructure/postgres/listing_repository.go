package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

const listingColumns = `id, owner_id, title, slug, description, price, status, created_at, updated_at`

// ListingRepo implementación del puerto ListingRepository sobre PostgreSQL (usable con pool o tx).
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador de persistencia para publicaciones.
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

// Create persiste una publicación.
func (r *ListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OwnerID, l.Title, l.Slug, l.Description, l.Price, l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: slug repetido", domain.ErrConflict)
		}
		if isInvalidValue(err) {
			return fmt.Errorf("%w: precio fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID obtiene una publicación; (nil, nil) si no existe.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
// Solo tiene sentido con un Querier que sea pgx.Tx.
func (r *ListingRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	return r.findOne(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id)
}

func (r *ListingRepo) findOne(ctx context.Context, query, id string) (*entity.Listing, error) {
	l, err := scanListing(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return l, nil
}

// Update guarda título, slug, descripción, precio y estado. Nunca toca una publicación
// vendida: si una aceptación concurrente la marcó sold devuelve ErrListingSold.
func (r *ListingRepo) Update(ctx context.Context, l *entity.Listing) error {
	query := `
		UPDATE listings SET title = $2, slug = $3, description = $4, price = $5, status = $6, updated_at = $7
		WHERE id = $1 AND status <> 'sold'`
	tag, err := r.q.Exec(ctx, query, l.ID, l.Title, l.Slug, l.Description, l.Price, l.Status, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: slug repetido", domain.ErrConflict)
		}
		if isInvalidValue(err) {
			return fmt.Errorf("%w: precio fuera de rango", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update listing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, l.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrListingNotFound
		}
		return domain.ErrListingSold
	}
	return nil
}

// UpdateStatus cambia solo el estado.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE listings SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// List filtra publicaciones y devuelve la página pedida más el total de coincidencias.
func (r *ListingRepo) List(ctx context.Context, f entity.ListingFilter) ([]*entity.Listing, int, error) {
	where, args := listingWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM listings`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM listings%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		listingColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Listing, 0, f.Limit)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}

// listingWhere arma la cláusula WHERE con placeholders posicionales.
func listingWhere(f entity.ListingFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+escapeLike(q)+"%")
	}
	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.MinPrice != nil {
		add("price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("price <= $%d", *f.MaxPrice)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike evita que % y _ del usuario actúen como comodines.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Delete elimina la publicación; sus ofertas caen por ON DELETE CASCADE.
func (r *ListingRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var l entity.Listing
	err := row.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Slug, &l.Description, &l.Price, &l.Status,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
