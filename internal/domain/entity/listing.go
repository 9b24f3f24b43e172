package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Listing.
const (
	ListingActive    = "active"
	ListingSold      = "sold"
	ListingWithdrawn = "withdrawn"
)

// Listing es un negocio publicado en venta por un usuario.
// Status pasa a sold solo cuando se acepta una oferta (ver deal.RespondUseCase).
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Slug        string
	Description string
	Price       decimal.Decimal
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si la publicación acepta ofertas.
func (l *Listing) IsActive() bool {
	return l.Status == ListingActive
}

// ListingFilter filtros de búsqueda para el listado paginado.
type ListingFilter struct {
	Query    string // subcadena del título, sin distinguir mayúsculas
	OwnerID  string
	Status   string // vacío = todos
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Limit    int
	Offset   int
}
