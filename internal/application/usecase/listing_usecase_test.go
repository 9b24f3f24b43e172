package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/testutil"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestListingCreate_ActivaConSlug(t *testing.T) {
	store := testutil.NewStore()
	owner := store.SeedUser("owner@x.com", entity.RoleUser)
	uc := usecase.NewListingUseCase(store.Listings())

	out, err := uc.Create(context.Background(), owner, dto.CreateListingRequest{
		Title: "Panadería Ñandú", Description: "20 años", Price: decimal.RequireFromString("1500.005"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingActive, out.Status)
	assert.Equal(t, owner.UserID, out.OwnerID)
	assert.Regexp(t, `^panaderia-nandu-[0-9a-f]{8}$`, out.Slug)
	assert.True(t, decimal.RequireFromString("1500.01").Equal(out.Price))
}

func TestListingCreate_SinActor(t *testing.T) {
	uc := usecase.NewListingUseCase(testutil.NewStore().Listings())
	_, err := uc.Create(context.Background(), entity.Actor{}, dto.CreateListingRequest{Title: "abc", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListingUpdateDelete_Permisos(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		isOwner bool
		allowed bool
	}{
		{"dueño user", entity.RoleUser, true, true},
		{"dueño admin", entity.RoleAdmin, true, true},
		{"otro admin", entity.RoleAdmin, false, true},
		{"otro user", entity.RoleUser, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := testutil.NewStore()
			owner := store.SeedUser("owner@x.com", tc.role)
			actor := owner
			if !tc.isOwner {
				actor = store.SeedUser("actor@x.com", tc.role)
			}
			l := store.SeedListing(owner.UserID, "negocio", "100", entity.ListingActive)
			uc := usecase.NewListingUseCase(store.Listings())
			ctx := context.Background()

			_, err := uc.Update(ctx, actor, l.ID, dto.UpdateListingRequest{Title: strPtr("nuevo título")})
			if tc.allowed {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
				got, _ := store.Listings().GetByID(ctx, l.ID)
				assert.Equal(t, "negocio", got.Title)
			}

			err = uc.Delete(ctx, actor, l.ID)
			if tc.allowed {
				require.NoError(t, err)
				got, _ := store.Listings().GetByID(ctx, l.ID)
				assert.Nil(t, got)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
			}
		})
	}
}

func TestListingUpdate_VendidaInmutable(t *testing.T) {
	store := testutil.NewStore()
	owner := store.SeedUser("owner@x.com", entity.RoleUser)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	l := store.SeedListing(owner.UserID, "vendido", "100", entity.ListingSold)
	uc := usecase.NewListingUseCase(store.Listings())

	for _, actor := range []entity.Actor{owner, admin} {
		_, err := uc.Update(context.Background(), actor, l.ID, dto.UpdateListingRequest{Status: strPtr(entity.ListingActive)})
		assert.ErrorIs(t, err, domain.ErrListingSold)
		assert.True(t, domain.IsConflict(err))
	}
}

func TestListingUpdate_RetirarYReactivar(t *testing.T) {
	store := testutil.NewStore()
	owner := store.SeedUser("owner@x.com", entity.RoleUser)
	l := store.SeedListing(owner.UserID, "negocio", "100", entity.ListingActive)
	uc := usecase.NewListingUseCase(store.Listings())
	ctx := context.Background()

	out, err := uc.Update(ctx, owner, l.ID, dto.UpdateListingRequest{Status: strPtr(entity.ListingWithdrawn), Price: decPtr("80")})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingWithdrawn, out.Status)
	assert.True(t, decimal.NewFromInt(80).Equal(out.Price))

	out, err = uc.Update(ctx, owner, l.ID, dto.UpdateListingRequest{Status: strPtr(entity.ListingActive)})
	require.NoError(t, err)
	assert.Equal(t, entity.ListingActive, out.Status)

	_, err = uc.Update(ctx, owner, l.ID, dto.UpdateListingRequest{Status: strPtr(entity.ListingSold)})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListingGetByID_NoActivaSoloDuenoOAdmin(t *testing.T) {
	store := testutil.NewStore()
	owner := store.SeedUser("owner@x.com", entity.RoleUser)
	other := store.SeedUser("other@x.com", entity.RoleUser)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	l := store.SeedListing(owner.UserID, "retirado", "100", entity.ListingWithdrawn)
	uc := usecase.NewListingUseCase(store.Listings())
	ctx := context.Background()

	for _, actor := range []entity.Actor{owner, admin} {
		_, err := uc.GetByID(ctx, actor, l.ID)
		assert.NoError(t, err)
	}
	for _, actor := range []entity.Actor{other, {}} {
		_, err := uc.GetByID(ctx, actor, l.ID)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	}
}

func TestListingList_FiltrosYVisibilidad(t *testing.T) {
	store := testutil.NewStore()
	owner := store.SeedUser("owner@x.com", entity.RoleUser)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	store.SeedListing(owner.UserID, "Ferretería norte", "100", entity.ListingActive)
	store.SeedListing(owner.UserID, "Ferretería sur", "300", entity.ListingActive)
	store.SeedListing(owner.UserID, "Ferretería vendida", "200", entity.ListingSold)
	uc := usecase.NewListingUseCase(store.Listings())
	ctx := context.Background()

	out, err := uc.List(ctx, entity.Actor{}, dto.ListListingsQuery{Q: "ferre"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total, "anónimo solo ve activas")
	assert.Equal(t, dto.DefaultLimit, out.Page.Limit)

	out, err = uc.List(ctx, owner, dto.ListListingsQuery{Status: entity.ListingSold})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total, "el filtro de estado se ignora para no admins")

	out, err = uc.List(ctx, owner, dto.ListListingsQuery{OwnerID: owner.UserID})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Page.Total, "el dueño ve todas las suyas")

	out, err = uc.List(ctx, owner, dto.ListListingsQuery{OwnerID: owner.UserID, Status: entity.ListingSold})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)

	intruso := store.SeedUser("intruso@x.com", entity.RoleUser)
	out, err = uc.List(ctx, intruso, dto.ListListingsQuery{OwnerID: owner.UserID, Status: entity.ListingSold})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total, "otro usuario solo ve las activas de ese dueño")

	out, err = uc.List(ctx, admin, dto.ListListingsQuery{Status: entity.ListingSold})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page.Total)

	out, err = uc.List(ctx, admin, dto.ListListingsQuery{MinPrice: decPtr("150"), MaxPrice: decPtr("250")})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Ferretería vendida", out.Items[0].Title)

	out, err = uc.List(ctx, admin, dto.ListListingsQuery{Page: dto.PageRequest{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 3, out.Page.Total)

	_, err = uc.List(ctx, admin, dto.ListListingsQuery{MinPrice: decPtr("500"), MaxPrice: decPtr("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
