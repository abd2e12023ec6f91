package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/domain/repository"
	"github.com/manosunidas/donaciones-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpDays    int
	Issuer            string
}

// AuthUseCase registro, login y refresco de sesión. El refresh token es
// rotativo: cada uso lo invalida y emite uno nuevo.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, refreshRepo repository.RefreshTokenRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, refreshRepo: refreshRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya está registrado.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleVoluntario
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password y emite JWT de acceso + refresh token.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}
	return uc.issueSession(user)
}

// Refresh valida el refresh token, lo rota y emite una nueva sesión.
// Un token vencido o desconocido devuelve ErrUnauthorized.
func (uc *AuthUseCase) Refresh(in dto.RefreshRequest) (*dto.LoginResponse, error) {
	stored, err := uc.refreshRepo.GetByToken(in.RefreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrUnauthorized
	}
	// Rotación: el token usado deja de ser válido, venza o no.
	if err := uc.refreshRepo.Delete(stored.ID); err != nil {
		return nil, err
	}
	if stored.Expired(time.Now()) {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(stored.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Status != "active" {
		return nil, domain.ErrUnauthorized
	}
	return uc.issueSession(user)
}

// Logout invalida todos los refresh tokens del usuario.
func (uc *AuthUseCase) Logout(userID string) error {
	return uc.refreshRepo.DeleteByUser(userID)
}

func (uc *AuthUseCase) issueSession(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	refresh := &entity.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: now.AddDate(0, 0, uc.jwtCfg.RefreshExpDays),
		CreatedAt: now,
	}
	if err := uc.refreshRepo.Create(refresh); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		RefreshToken: refresh.Token,
		User:         *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
