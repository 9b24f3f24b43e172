package repository

import (
	"context"

	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
)

// DealRepository define el puerto de persistencia para Deal.
type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, id string) (*entity.Deal, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (solo dentro de TxRunner).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Deal, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Deal, error)
	// UpdateStatus cambia el estado solo si la oferta sigue pending; devuelve false si no cambió nada.
	UpdateStatus(ctx context.Context, id, status string) (bool, error)
	// RejectPendingSiblings rechaza las demás ofertas pending de la publicación.
	RejectPendingSiblings(ctx context.Context, listingID, exceptDealID string) (int64, error)
}
