package deal_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/testutil"
)

type fixture struct {
	store   *testutil.Store
	uc      *deal.UseCase
	owner   entity.Actor
	buyer   entity.Actor
	other   entity.Actor
	admin   entity.Actor
	listing *entity.Listing
}

func setup(t *testing.T) *fixture {
	t.Helper()
	s := testutil.NewStore()
	f := &fixture{
		store: s,
		uc:    deal.NewUseCase(s, s.Listings(), s.Deals()),
		owner: s.SeedUser("owner@x.com", entity.RoleUser),
		buyer: s.SeedUser("buyer@x.com", entity.RoleUser),
		other: s.SeedUser("other@x.com", entity.RoleUser),
		admin: s.SeedUser("admin@x.com", entity.RoleAdmin),
	}
	f.listing = s.SeedListing(f.owner.UserID, "Cafetería centro", "100000", entity.ListingActive)
	return f
}

func offer(amount string) dto.ProposeDealRequest {
	return dto.ProposeDealRequest{OfferAmount: decimal.RequireFromString(amount), Message: "interesado"}
}

func (f *fixture) listingStatus(t *testing.T) string {
	l, err := f.store.Listings().GetByID(context.Background(), f.listing.ID)
	require.NoError(t, err)
	return l.Status
}

func (f *fixture) dealStatus(t *testing.T, id string) string {
	d, err := f.store.Deals().GetByID(context.Background(), id)
	require.NoError(t, err)
	return d.Status
}

func TestPropose_Pending(t *testing.T) {
	f := setup(t)
	d, err := f.uc.Propose(context.Background(), f.buyer, f.listing.ID, offer("90000.456"))
	require.NoError(t, err)
	assert.Equal(t, entity.DealPending, d.Status)
	assert.Equal(t, f.buyer.UserID, d.ProposerID)
	assert.True(t, decimal.RequireFromString("90000.46").Equal(d.OfferAmount))
}

func TestPropose_PublicacionNoActiva_Conflicto(t *testing.T) {
	f := setup(t)
	for _, status := range []string{entity.ListingSold, entity.ListingWithdrawn} {
		l := f.store.SeedListing(f.owner.UserID, "Otro negocio", "5000", status)
		_, err := f.uc.Propose(context.Background(), f.buyer, l.ID, offer("4000"))
		assert.ErrorIs(t, err, domain.ErrListingNotActive, status)
		assert.True(t, domain.IsConflict(err))
	}
}

func TestPropose_PublicacionInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Propose(context.Background(), f.buyer, "00000000-0000-0000-0000-000000000000", offer("1"))
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}

func TestPropose_SobrePublicacionPropia(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Propose(context.Background(), f.owner, f.listing.ID, offer("1"))
	assert.ErrorIs(t, err, domain.ErrOwnListing)
	assert.True(t, domain.IsForbidden(err))
}

func TestRespond_AceptarVendeYRechazaHermanas(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d1, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("90000"))
	require.NoError(t, err)
	d2, err := f.uc.Propose(ctx, f.other, f.listing.ID, offer("95000"))
	require.NoError(t, err)

	out, err := f.uc.Respond(ctx, f.owner, d1.ID, dto.RespondDealRequest{Decision: entity.DecisionAccept})
	require.NoError(t, err)

	assert.Equal(t, entity.DealAccepted, out.Deal.Status)
	require.NotNil(t, out.Listing)
	assert.Equal(t, entity.ListingSold, out.Listing.Status)
	assert.Equal(t, int64(1), out.RejectedSiblings)

	assert.Equal(t, entity.ListingSold, f.listingStatus(t))
	assert.Equal(t, entity.DealAccepted, f.dealStatus(t, d1.ID))
	assert.Equal(t, entity.DealRejected, f.dealStatus(t, d2.ID))

	_, err = f.uc.Respond(ctx, f.owner, d2.ID, dto.RespondDealRequest{Decision: entity.DecisionAccept})
	assert.ErrorIs(t, err, domain.ErrDealResolved)
}

func TestRespond_RechazarSoloCambiaLaOferta(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
	require.NoError(t, err)

	out, err := f.uc.Respond(ctx, f.admin, d.ID, dto.RespondDealRequest{Decision: entity.DecisionReject})
	require.NoError(t, err)
	assert.Equal(t, entity.DealRejected, out.Deal.Status)
	assert.Nil(t, out.Listing)
	assert.Equal(t, entity.ListingActive, f.listingStatus(t))
}

func TestRespond_SegundaRespuestaConflictoSinCambios(t *testing.T) {
	for _, first := range []string{entity.DecisionAccept, entity.DecisionReject} {
		for _, second := range []string{entity.DecisionAccept, entity.DecisionReject} {
			f := setup(t)
			ctx := context.Background()
			d, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
			require.NoError(t, err)

			_, err = f.uc.Respond(ctx, f.owner, d.ID, dto.RespondDealRequest{Decision: first})
			require.NoError(t, err)
			listingBefore := f.listingStatus(t)
			dealBefore := f.dealStatus(t, d.ID)

			_, err = f.uc.Respond(ctx, f.owner, d.ID, dto.RespondDealRequest{Decision: second})
			assert.ErrorIs(t, err, domain.ErrDealResolved, "%s luego %s", first, second)
			assert.Equal(t, listingBefore, f.listingStatus(t))
			assert.Equal(t, dealBefore, f.dealStatus(t, d.ID))
		}
	}
}

func TestRespond_SoloDuenoOAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
	require.NoError(t, err)

	for _, actor := range []entity.Actor{f.buyer, f.other} {
		_, err := f.uc.Respond(ctx, actor, d.ID, dto.RespondDealRequest{Decision: entity.DecisionAccept})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	}
	assert.Equal(t, entity.DealPending, f.dealStatus(t, d.ID))
	assert.Equal(t, entity.ListingActive, f.listingStatus(t))
}

func TestRespond_AceptarFallaAMitad_NoQuedaEstadoIntermedio(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
	require.NoError(t, err)

	f.store.FailOn = "deals.RejectPendingSiblings"
	_, err = f.uc.Respond(ctx, f.owner, d.ID, dto.RespondDealRequest{Decision: entity.DecisionAccept})
	require.ErrorIs(t, err, testutil.ErrInjected)

	assert.Equal(t, entity.ListingActive, f.listingStatus(t), "la publicación no debe quedar vendida")
	assert.Equal(t, entity.DealPending, f.dealStatus(t, d.ID), "la oferta no debe quedar aceptada")
}

func TestRespond_AceptarSobrePublicacionRetirada(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := f.store.SeedDeal(f.listing.ID, f.buyer.UserID, "1000", entity.DealPending)
	require.NoError(t, f.store.Listings().UpdateStatus(ctx, f.listing.ID, entity.ListingWithdrawn))

	_, err := f.uc.Respond(ctx, f.owner, d.ID, dto.RespondDealRequest{Decision: entity.DecisionAccept})
	assert.ErrorIs(t, err, domain.ErrListingNotActive)

	_, err = f.uc.Respond(ctx, f.owner, d.ID, dto.RespondDealRequest{Decision: entity.DecisionReject})
	assert.NoError(t, err, "rechazar sigue permitido")
}

func TestRespond_OfertaInexistente(t *testing.T) {
	f := setup(t)
	_, err := f.uc.Respond(context.Background(), f.owner, "nope", dto.RespondDealRequest{Decision: entity.DecisionAccept})
	assert.ErrorIs(t, err, domain.ErrDealNotFound)
}

func TestListForListing_Visibilidad(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
	require.NoError(t, err)
	_, err = f.uc.Propose(ctx, f.other, f.listing.ID, offer("2000"))
	require.NoError(t, err)

	all, err := f.uc.ListForListing(ctx, f.owner, f.listing.ID)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	all, err = f.uc.ListForListing(ctx, f.admin, f.listing.ID)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	mine, err := f.uc.ListForListing(ctx, f.buyer, f.listing.ID)
	require.NoError(t, err)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, f.buyer.UserID, mine.Items[0].ProposerID)
}

func TestGetByID_Permisos(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d, err := f.uc.Propose(ctx, f.buyer, f.listing.ID, offer("1000"))
	require.NoError(t, err)

	for _, actor := range []entity.Actor{f.buyer, f.owner, f.admin} {
		got, err := f.uc.GetByID(ctx, actor, d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, got.ID)
	}
	_, err = f.uc.GetByID(ctx, f.other, d.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
