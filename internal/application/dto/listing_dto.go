package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateListingRequest entrada para publicar un negocio.
type CreateListingRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lt=1000000000000"`
}

// UpdateListingRequest parche de publicación. Status solo admite active o withdrawn;
// sold se alcanza únicamente aceptando una oferta.
type UpdateListingRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gt=0,lt=1000000000000"`
	Status      *string          `json:"status" validate:"omitempty,oneof=active withdrawn"`
}

// ListListingsQuery filtros de GET /listings.
type ListListingsQuery struct {
	Q        string           `json:"q" validate:"omitempty,max=200"`
	OwnerID  string           `json:"owner_id" validate:"omitempty,uuid"`
	Status   string           `json:"status" validate:"omitempty,oneof=active sold withdrawn"`
	MinPrice *decimal.Decimal `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *decimal.Decimal `json:"max_price" validate:"omitempty,gte=0"`
	Page     PageRequest      `json:"page"`
}

// ListingResponse salida de una publicación.
type ListingResponse struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListingListResponse lista paginada de publicaciones.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
