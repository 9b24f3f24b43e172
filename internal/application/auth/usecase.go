package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/domain"
	"github.com/jhoicas/Acquisitions-api/internal/domain/entity"
	"github.com/jhoicas/Acquisitions-api/internal/domain/repository"
	"github.com/jhoicas/Acquisitions-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: signup, signin, signout y verificación de tokens.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	revoker    TokenRevoker
	jwtCfg     JWTConfig
	bcryptCost int
	// dummyHash iguala el tiempo de respuesta cuando el email no existe.
	dummyHash []byte
	now       func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. revoker puede ser nil (signout sin estado).
func NewAuthUseCase(userRepo repository.UserRepository, revoker TokenRevoker, jwtCfg JWTConfig, bcryptCost int) *AuthUseCase {
	if revoker == nil {
		revoker = NoopRevoker{}
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("acquisitions-dummy-password"), bcryptCost)
	return &AuthUseCase{
		userRepo:   userRepo,
		revoker:    revoker,
		jwtCfg:     jwtCfg,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		now:        time.Now,
	}
}

// Signup crea un usuario con la contraseña hasheada con bcrypt.
// Devuelve ErrEmailAlreadyExists si el email ya existe. El rol admin solo se concede
// cuando caller es un admin autenticado; en cualquier otro caso el rol es user.
func (uc *AuthUseCase) Signup(ctx context.Context, caller *entity.Actor, in dto.SignupRequest) (*dto.UserResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	role := entity.RoleUser
	if in.Role == entity.RoleAdmin && caller != nil && caller.IsAdmin() {
		role = entity.RoleAdmin
	}
	name := in.Name
	if name == "" {
		name = email
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// La restricción UNIQUE cubre la carrera entre GetByEmail y Create.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Signin verifica email/password y emite un token firmado.
// Email inexistente y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Signin(ctx context.Context, in dto.SigninRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	gen, err := uc.revoker.UserGeneration(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	claims := jwt.NewClaims(user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	claims.Gen = gen
	token, err := jwt.Sign(uc.jwtCfg.Secret, claims)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      *ToUserResponse(user),
	}, nil
}

// Verify valida el token y comprueba que no haya sido revocado ni invalidado por un cambio de rol.
func (uc *AuthUseCase) Verify(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.ID != "" {
		revoked, err := uc.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("consultar revocación: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("%w: token revocado", domain.ErrUnauthorized)
		}
	}
	// Un cambio de rol sube la generación: el rol del token ya no es el vigente.
	gen, err := uc.revoker.UserGeneration(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("consultar generación: %w", err)
	}
	if claims.Gen != gen {
		return nil, fmt.Errorf("%w: sesión invalidada", domain.ErrUnauthorized)
	}
	return claims, nil
}

// Signout revoca el token presentado hasta su expiración. Un token ausente o inválido
// no es un error: el cliente igualmente pierde la cookie.
func (uc *AuthUseCase) Signout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil || claims.ID == "" {
		return nil
	}
	ttl := claims.TTL(uc.now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// El token sobrevivió al borrado de la cuenta.
		return nil, domain.ErrUnauthorized
	}
	return ToUserResponse(user), nil
}

// ToUserResponse convierte la entidad a DTO sin el hash de la contraseña.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// IsUnauthorized indica si err proviene de credenciales o token inválidos.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
