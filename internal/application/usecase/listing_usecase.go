package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

// ListingUseCase ciclo de vida de las publicaciones. El paso a sold ocurre solo al aceptar
// una oferta (deal.UseCase.Respond), nunca por parche.
type ListingUseCase struct {
	repo repository.ListingRepository
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(repo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{repo: repo}
}

// Create publica un negocio del actor con estado active.
func (uc *ListingUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateListingRequest) (*dto.ListingResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := time.Now()
	id := uuid.New().String()
	listing := &entity.Listing{
		ID:          id,
		OwnerID:     actor.UserID,
		Title:       in.Title,
		Slug:        makeSlug(in.Title, id),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Status:      entity.ListingActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return ToListingResponse(listing), nil
}

// GetByID obtiene una publicación. Las no activas solo son visibles para su dueño o un admin.
func (uc *ListingUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ListingResponse, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil || (!listing.IsActive() && !actor.CanManage(listing.OwnerID)) {
		return nil, domain.ErrListingNotFound
	}
	return ToListingResponse(listing), nil
}

// Update aplica el parche si el actor es dueño o admin. Una publicación vendida es inmutable.
func (uc *ListingUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	if !actor.CanManage(listing.OwnerID) {
		return nil, domain.ErrForbidden
	}
	if listing.Status == entity.ListingSold {
		return nil, domain.ErrListingSold
	}
	if in.Title != nil && *in.Title != listing.Title {
		listing.Title = *in.Title
		listing.Slug = makeSlug(listing.Title, listing.ID)
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		listing.Price = in.Price.Round(2)
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.ListingActive, entity.ListingWithdrawn:
			listing.Status = *in.Status
		default:
			return nil, validation.NewError("status", "debe ser uno de: active, withdrawn")
		}
	}
	listing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	return ToListingResponse(listing), nil
}

// Delete elimina la publicación (y sus ofertas) si el actor es dueño o admin.
func (uc *ListingUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing == nil {
		return domain.ErrListingNotFound
	}
	if !actor.CanManage(listing.OwnerID) {
		return domain.ErrForbidden
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrListingNotFound
	}
	return nil
}

// List lista publicaciones con filtros. Quien no es admin solo ve las activas, salvo las suyas.
func (uc *ListingUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListListingsQuery) (*dto.ListingListResponse, error) {
	q.Page.Normalize()
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return nil, validation.NewError("min_price", "no puede ser mayor que max_price")
	}
	filter := entity.ListingFilter{
		Query:    q.Q,
		OwnerID:  q.OwnerID,
		Status:   q.Status,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Limit:    q.Page.Limit,
		Offset:   q.Page.Offset,
	}
	// Como en GetByID: las no activas solo las ve su dueño (filtrando por su owner_id) o un admin.
	ownListings := actor.UserID != "" && q.OwnerID == actor.UserID
	if !actor.IsAdmin() && !ownListings {
		filter.Status = entity.ListingActive
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ListingResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *ToListingResponse(l))
	}
	return &dto.ListingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// makeSlug genera un slug legible con sufijo del id para que sea único.
func makeSlug(title, id string) string {
	base := slug.Make(title)
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// ToListingResponse convierte la entidad a DTO.
func ToListingResponse(l *entity.Listing) *dto.ListingResponse {
	if l == nil {
		return nil
	}
	return &dto.ListingResponse{
		ID:          l.ID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Slug:        l.Slug,
		Description: l.Description,
		Price:       l.Price,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
