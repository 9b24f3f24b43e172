package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de Deal: pending -> {accepted, rejected}; ambos terminales.
const (
	DealPending  = "pending"
	DealAccepted = "accepted"
	DealRejected = "rejected"
)

// Decisiones posibles al responder una oferta.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Deal es una oferta de un usuario sobre la publicación de otro.
type Deal struct {
	ID          string
	ListingID   string
	ProposerID  string
	OfferAmount decimal.Decimal
	Message     string
	Status      string
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsResolved indica si la oferta ya alcanzó un estado terminal.
func (d *Deal) IsResolved() bool {
	return d.Status != DealPending
}
