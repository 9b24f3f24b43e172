package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProposeDealRequest términos de una oferta.
type ProposeDealRequest struct {
	OfferAmount decimal.Decimal `json:"offer_amount" validate:"gt=0,lt=1000000000000"`
	Message     string          `json:"message" validate:"omitempty,max=2000"`
}

// RespondDealRequest decisión del dueño de la publicación.
type RespondDealRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accept reject"`
}

// DealResponse salida de una oferta.
type DealResponse struct {
	ID          string          `json:"id"`
	ListingID   string          `json:"listing_id"`
	ProposerID  string          `json:"proposer_id"`
	OfferAmount decimal.Decimal `json:"offer_amount"`
	Message     string          `json:"message"`
	Status      string          `json:"status"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DealListResponse ofertas de una publicación.
type DealListResponse struct {
	Items []DealResponse `json:"items"`
}

// RespondDealResponse resultado de responder: la oferta y, si se aceptó, la publicación vendida.
type RespondDealResponse struct {
	Deal             DealResponse     `json:"deal"`
	Listing          *ListingResponse `json:"listing,omitempty"`
	RejectedSiblings int64            `json:"rejected_siblings"`
}
