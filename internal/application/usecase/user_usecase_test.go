package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/testutil"
)

func TestUserGetUpdateDelete_SoloPropioOAdmin(t *testing.T) {
	store := testutil.NewStore()
	ana := store.SeedUser("ana@x.com", entity.RoleUser)
	luis := store.SeedUser("luis@x.com", entity.RoleUser)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	uc := usecase.NewUserUseCase(store.Users(), nil, bcrypt.MinCost)
	ctx := context.Background()

	_, err := uc.GetByID(ctx, luis, ana.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, luis, ana.UserID, dto.UpdateUserRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, luis, ana.UserID), domain.ErrForbidden)

	got, err := uc.GetByID(ctx, ana, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", got.Email)

	got, err = uc.GetByID(ctx, admin, ana.UserID)
	require.NoError(t, err)
	assert.Equal(t, ana.UserID, got.ID)

	require.NoError(t, uc.Delete(ctx, admin, luis.UserID))
	_, err = uc.GetByID(ctx, admin, luis.UserID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, admin, luis.UserID), domain.ErrUserNotFound)
}

func TestUserUpdate_CambioDeRolSoloAdmin(t *testing.T) {
	store := testutil.NewStore()
	ana := store.SeedUser("ana@x.com", entity.RoleUser)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	uc := usecase.NewUserUseCase(store.Users(), nil, bcrypt.MinCost)
	ctx := context.Background()

	_, err := uc.Update(ctx, ana, ana.UserID, dto.UpdateUserRequest{Role: strPtr(entity.RoleAdmin)})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Update(ctx, admin, ana.UserID, dto.UpdateUserRequest{Role: strPtr(entity.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Role)
}

func TestUserUpdate_EmailYPassword(t *testing.T) {
	store := testutil.NewStore()
	ana := store.SeedUser("ana@x.com", entity.RoleUser)
	store.SeedUser("luis@x.com", entity.RoleUser)
	uc := usecase.NewUserUseCase(store.Users(), nil, bcrypt.MinCost)
	ctx := context.Background()

	_, err := uc.Update(ctx, ana, ana.UserID, dto.UpdateUserRequest{Email: strPtr(" LUIS@x.com")})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	out, err := uc.Update(ctx, ana, ana.UserID, dto.UpdateUserRequest{
		Email: strPtr("Ana.Nueva@X.com"), Password: strPtr("clave-nueva-123"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.nueva@x.com", out.Email)

	stored, err := store.Users().GetByID(ctx, ana.UserID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-nueva-123")))
}

func TestUserList_Paginado(t *testing.T) {
	store := testutil.NewStore()
	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		store.SeedUser(e, entity.RoleUser)
	}
	uc := usecase.NewUserUseCase(store.Users(), nil, bcrypt.MinCost)

	out, err := uc.List(context.Background(), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Page.Total)
}

func TestUserUpdate_CambioDeRolInvalidaSesiones(t *testing.T) {
	store := testutil.NewStore()
	ana := store.SeedUser("ana@x.com", entity.RoleAdmin)
	admin := store.SeedUser("admin@x.com", entity.RoleAdmin)
	rev := testutil.NewMemoryRevoker()
	uc := usecase.NewUserUseCase(store.Users(), rev, bcrypt.MinCost)
	ctx := context.Background()

	_, err := uc.Update(ctx, admin, ana.UserID, dto.UpdateUserRequest{Name: strPtr("Ana")})
	require.NoError(t, err)
	gen, _ := rev.UserGeneration(ctx, ana.UserID)
	assert.EqualValues(t, 0, gen, "sin cambio de rol no se invalida nada")

	_, err = uc.Update(ctx, admin, ana.UserID, dto.UpdateUserRequest{Role: strPtr(entity.RoleAdmin)})
	require.NoError(t, err)
	gen, _ = rev.UserGeneration(ctx, ana.UserID)
	assert.EqualValues(t, 0, gen, "mismo rol")

	_, err = uc.Update(ctx, admin, ana.UserID, dto.UpdateUserRequest{Role: strPtr(entity.RoleUser)})
	require.NoError(t, err)
	gen, _ = rev.UserGeneration(ctx, ana.UserID)
	assert.EqualValues(t, 1, gen)

	require.NoError(t, uc.Delete(ctx, admin, ana.UserID))
	gen, _ = rev.UserGeneration(ctx, ana.UserID)
	assert.EqualValues(t, 2, gen)
}
