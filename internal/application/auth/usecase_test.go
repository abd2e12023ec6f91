package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manosunidas/donaciones-api/internal/application/auth"
	"github.com/manosunidas/donaciones-api/internal/application/dto"
	"github.com/manosunidas/donaciones-api/internal/domain"
	"github.com/manosunidas/donaciones-api/internal/domain/entity"
	"github.com/manosunidas/donaciones-api/internal/infrastructure/memory"
	"github.com/manosunidas/donaciones-api/pkg/jwt"
)

const testSecret = "secreto-de-test-no-usar-en-produccion"

func newAuthFixture(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo) {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepo(store)
	refreshRepo := memory.NewRefreshTokenRepo(store)
	uc := auth.NewAuthUseCase(userRepo, refreshRepo, auth.JWTConfig{
		Secret:         testSecret,
		ExpMinutes:     15,
		RefreshExpDays: 7,
		Issuer:         "donaciones-api-test",
	})
	return uc, userRepo
}

func TestRegisterUser(t *testing.T) {
	uc, userRepo := newAuthFixture(t)

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@manosunidas.org",
		Password: "secreta123",
		Name:     "Ana",
		Role:     entity.RoleCoordinador,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, entity.RoleCoordinador, out.Role)
	assert.Equal(t, "active", out.Status, "los usuarios nacen activos")

	stored, err := userRepo.GetByEmail("ana@manosunidas.org")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreta123", stored.PasswordHash, "la password nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthFixture(t)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "x1234567"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "otra1234"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_DefaultsDeRolYNombre(t *testing.T) {
	uc, _ := newAuthFixture(t)

	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "v@manosunidas.org", Password: "x1234567"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVoluntario, out.Role, "sin rol explícito queda voluntario")
	assert.Equal(t, "v@manosunidas.org", out.Name, "sin nombre se usa el email")
}

func TestLogin(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	session, err := uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.RefreshToken)

	// El JWT emitido es verificable con el mismo secreto.
	userID, email, role, err := jwt.Parse(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, userID)
	assert.Equal(t, "ana@manosunidas.org", email)
	assert.Equal(t, entity.RoleVoluntario, role)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@manosunidas.org", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, userRepo := newAuthFixture(t)
	out, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	stored, err := userRepo.GetByID(out.ID)
	require.NoError(t, err)
	stored.Status = "inactive"
	require.NoError(t, userRepo.Update(stored))

	_, err = uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "un usuario dado de baja no entra")
}

func TestRefresh_RotaElToken(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	session, err := uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	renewed, err := uc.Refresh(dto.RefreshRequest{RefreshToken: session.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken, "cada refresco emite un token nuevo")

	// El token ya usado quedó invalidado por la rotación.
	_, err = uc.Refresh(dto.RefreshRequest{RefreshToken: session.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// El nuevo sigue vivo.
	_, err = uc.Refresh(dto.RefreshRequest{RefreshToken: renewed.RefreshToken})
	assert.NoError(t, err)
}

func TestRefresh_TokenDesconocido(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.Refresh(dto.RefreshRequest{RefreshToken: "inventado"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout_InvalidaTodosLosRefresh(t *testing.T) {
	uc, _ := newAuthFixture(t)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	s1, err := uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)
	s2, err := uc.Login(dto.LoginRequest{Email: "ana@manosunidas.org", Password: "secreta123"})
	require.NoError(t, err)

	require.NoError(t, uc.Logout(s1.User.ID))

	for _, token := range []string{s1.RefreshToken, s2.RefreshToken} {
		_, err := uc.Refresh(dto.RefreshRequest{RefreshToken: token})
		assert.ErrorIs(t, err, domain.ErrUnauthorized,
			"el logout invalida todas las sesiones del usuario")
	}
}
