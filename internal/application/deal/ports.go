package deal

import (
	"context"

	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que publicación y oferta cambien juntas al aceptar.
type TxRunner interface {
	RunDeal(ctx context.Context, fn func(
		listingRepo repository.ListingRepository,
		dealRepo repository.DealRepository,
	) error) error
}
