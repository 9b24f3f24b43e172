package deal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

// UseCase ofertas sobre publicaciones: proponer, responder y consultar.
//
// Máquina de estados: pending -> accepted | rejected, ambos terminales.
// Aceptar marca la publicación como sold y rechaza el resto de ofertas pending
// de esa publicación, todo en la misma transacción.
type UseCase struct {
	tx          TxRunner
	listingRepo repository.ListingRepository
	dealRepo    repository.DealRepository
	now         func() time.Time
}

// NewUseCase construye el caso de uso. Los repos sueltos se usan para lecturas fuera de tx.
func NewUseCase(tx TxRunner, listingRepo repository.ListingRepository, dealRepo repository.DealRepository) *UseCase {
	return &UseCase{tx: tx, listingRepo: listingRepo, dealRepo: dealRepo, now: time.Now}
}

// Propose crea una oferta pending. La publicación se bloquea durante la inserción para que
// una aceptación concurrente no deje ofertas pending sobre una publicación vendida.
func (uc *UseCase) Propose(ctx context.Context, actor entity.Actor, listingID string, in dto.ProposeDealRequest) (*dto.DealResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	var created *entity.Deal
	err := uc.tx.RunDeal(ctx, func(listingRepo repository.ListingRepository, dealRepo repository.DealRepository) error {
		listing, err := listingRepo.GetByIDForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return domain.ErrListingNotFound
		}
		if !listing.IsActive() {
			return domain.ErrListingNotActive
		}
		if listing.OwnerID == actor.UserID {
			return domain.ErrOwnListing
		}
		now := uc.now()
		d := &entity.Deal{
			ID:          uuid.New().String(),
			ListingID:   listing.ID,
			ProposerID:  actor.UserID,
			OfferAmount: in.OfferAmount.Round(2),
			Message:     in.Message,
			Status:      entity.DealPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := dealRepo.Create(ctx, d); err != nil {
			return err
		}
		created = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDealResponse(created), nil
}

// Respond acepta o rechaza una oferta pending. Solo el dueño de la publicación o un admin.
// Una segunda respuesta devuelve ErrDealResolved sin modificar nada.
func (uc *UseCase) Respond(ctx context.Context, actor entity.Actor, dealID string, in dto.RespondDealRequest) (*dto.RespondDealResponse, error) {
	if in.Decision != entity.DecisionAccept && in.Decision != entity.DecisionReject {
		return nil, domain.ErrInvalidInput
	}
	// Lectura sin bloqueo solo para conocer la publicación: el orden de bloqueo es
	// siempre publicación -> oferta, igual que en Propose.
	peek, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if peek == nil {
		return nil, domain.ErrDealNotFound
	}

	out := &dto.RespondDealResponse{}
	err = uc.tx.RunDeal(ctx, func(listingRepo repository.ListingRepository, dealRepo repository.DealRepository) error {
		listing, err := listingRepo.GetByIDForUpdate(ctx, peek.ListingID)
		if err != nil {
			return err
		}
		d, err := dealRepo.GetByIDForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		if d == nil || listing == nil {
			return domain.ErrDealNotFound
		}
		if !actor.CanManage(listing.OwnerID) {
			return domain.ErrForbidden
		}
		if d.IsResolved() {
			return domain.ErrDealResolved
		}

		status := entity.DealRejected
		if in.Decision == entity.DecisionAccept {
			if !listing.IsActive() {
				return domain.ErrListingNotActive
			}
			status = entity.DealAccepted
			if err := listingRepo.UpdateStatus(ctx, listing.ID, entity.ListingSold); err != nil {
				return err
			}
		}
		changed, err := dealRepo.UpdateStatus(ctx, d.ID, status)
		if err != nil {
			return err
		}
		if !changed {
			return domain.ErrDealResolved
		}
		if status == entity.DealAccepted {
			n, err := dealRepo.RejectPendingSiblings(ctx, listing.ID, d.ID)
			if err != nil {
				return err
			}
			out.RejectedSiblings = n
			listing.Status = entity.ListingSold
			out.Listing = usecase.ToListingResponse(listing)
		}

		now := uc.now()
		d.Status = status
		d.RespondedAt = &now
		d.UpdatedAt = now
		out.Deal = *ToDealResponse(d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListForListing devuelve las ofertas de una publicación: todas para el dueño o un admin,
// solo las propias para cualquier otro usuario.
func (uc *UseCase) ListForListing(ctx context.Context, actor entity.Actor, listingID string) (*dto.DealListResponse, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	deals, err := uc.dealRepo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	seeAll := actor.CanManage(listing.OwnerID)
	items := make([]dto.DealResponse, 0, len(deals))
	for _, d := range deals {
		if seeAll || d.ProposerID == actor.UserID {
			items = append(items, *ToDealResponse(d))
		}
	}
	return &dto.DealListResponse{Items: items}, nil
}

// GetByID devuelve una oferta al proponente, al dueño de la publicación o a un admin.
func (uc *UseCase) GetByID(ctx context.Context, actor entity.Actor, dealID string) (*dto.DealResponse, error) {
	d, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrDealNotFound
	}
	if d.ProposerID != actor.UserID {
		listing, err := uc.listingRepo.GetByID(ctx, d.ListingID)
		if err != nil {
			return nil, err
		}
		if listing == nil || !actor.CanManage(listing.OwnerID) {
			return nil, domain.ErrForbidden
		}
	}
	return ToDealResponse(d), nil
}

// ToDealResponse convierte la entidad a DTO.
func ToDealResponse(d *entity.Deal) *dto.DealResponse {
	if d == nil {
		return nil
	}
	return &dto.DealResponse{
		ID:          d.ID,
		ListingID:   d.ListingID,
		ProposerID:  d.ProposerID,
		OfferAmount: d.OfferAmount,
		Message:     d.Message,
		Status:      d.Status,
		RespondedAt: d.RespondedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
