package repository

import (
	"context"

	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
)

// ListingRepository define el puerto de persistencia para Listing.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (solo dentro de TxRunner).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter entity.ListingFilter) ([]*entity.Listing, int, error)
	Delete(ctx context.Context, id string) (bool, error)
}
