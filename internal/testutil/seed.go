package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
)

// SeedUser inserta un usuario con el rol indicado y devuelve su Actor.
func (s *Store) SeedUser(email, role string) entity.Actor {
	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         email,
		PasswordHash: "$2a$04$seeded",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users().Create(context.Background(), u); err != nil {
		panic(err)
	}
	return entity.Actor{UserID: u.ID, Role: role}
}

// SeedListing inserta una publicación del dueño indicado con el estado dado.
func (s *Store) SeedListing(ownerID, title, price, status string) *entity.Listing {
	now := time.Now()
	l := &entity.Listing{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Slug:      title,
		Price:     decimal.RequireFromString(price),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Listings().Create(context.Background(), l); err != nil {
		panic(err)
	}
	return l
}

// SeedDeal inserta una oferta con el estado dado.
func (s *Store) SeedDeal(listingID, proposerID, amount, status string) *entity.Deal {
	now := time.Now()
	d := &entity.Deal{
		ID:          uuid.NewString(),
		ListingID:   listingID,
		ProposerID:  proposerID,
		OfferAmount: decimal.RequireFromString(amount),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Deals().Create(context.Background(), d); err != nil {
		panic(err)
	}
	return d
}
