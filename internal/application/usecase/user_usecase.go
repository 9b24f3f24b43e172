package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
)

// UserUseCase administración de cuentas: el propio usuario o un admin.
type UserUseCase struct {
	repo       repository.UserRepository
	sessions   auth.TokenRevoker
	bcryptCost int
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia. sessions invalida
// los tokens vigentes de un usuario al cambiar su rol o borrarlo; nil = sin invalidación.
func NewUserUseCase(repo repository.UserRepository, sessions auth.TokenRevoker, bcryptCost int) *UserUseCase {
	if sessions == nil {
		sessions = auth.NoopRevoker{}
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserUseCase{repo: repo, sessions: sessions, bcryptCost: bcryptCost}
}

// List lista usuarios con paginación (la ruta exige admin).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID obtiene un usuario; solo el propio usuario o un admin.
func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if !actor.CanManage(id) {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// Update aplica el parche. Cambiar el rol exige admin; un email repetido devuelve ErrEmailAlreadyExists.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.CanManage(id) {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if email != user.Email {
			other, err := uc.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		if *in.Role != user.Role {
			// Antes de guardar: si falla no cambia nada; si falla el guardado solo obliga a reingresar.
			if _, err := uc.sessions.BumpUserGeneration(ctx, user.ID); err != nil {
				return nil, err
			}
		}
		user.Role = *in.Role
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Delete elimina la cuenta (y en cascada sus publicaciones y ofertas).
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if !actor.CanManage(id) {
		return domain.ErrForbidden
	}
	if _, err := uc.sessions.BumpUserGeneration(ctx, id); err != nil {
		return err
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	return nil
}
