package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aurasoft-io/aura-pos/internal/application/dto"
	"github.com/aurasoft-io/aura-pos/internal/domain"
	"github.com/aurasoft-io/aura-pos/internal/domain/entity"
	pkgjwt "github.com/aurasoft-io/aura-pos/pkg/jwt"
)

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	users   map[string]*entity.User // por username
	touched []string
}

func (f *fakeUserRepo) Create(u *entity.User) error { f.users[u.Username] = u; return nil }

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(username string) (*entity.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) TouchLastAccess(id string) error {
	f.touched = append(f.touched, id)
	return nil
}

const testSecret = "test-secret-key-for-unit-tests"

func seededUserRepo(t *testing.T) *fakeUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse-8"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserRepo{users: map[string]*entity.User{
		"maria": {
			ID:           "user-1",
			Username:     "maria",
			Email:        "maria@acme.test",
			PasswordHash: string(hash),
			FullName:     "María López",
			Role:         entity.RoleAdmin,
			Active:       true,
			CreatedAt:    time.Now(),
		},
		"pedro": {
			ID:           "user-2",
			Username:     "pedro",
			PasswordHash: string(hash),
			Role:         entity.RoleSeller,
			Active:       false,
		},
	}}
}

func newUseCase(repo *fakeUserRepo) *UseCase {
	return NewUseCase(repo, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, "acme", testLogger())
}

func TestLogin_Exitoso(t *testing.T) {
	repo := seededUserRepo(t)
	uc := newUseCase(repo)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "correct-horse-8"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "maria", out.User.Username)
	assert.Equal(t, "ADMIN", out.User.Role)
	assert.Contains(t, repo.touched, "user-1", "el login debe registrar el último acceso")

	// El token debe venir atado al tenant y al rol.
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "acme", claims.TenantID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.NotEmpty(t, claims.SessionID(), "el token debe llevar un session id (jti)")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := newUseCase(seededUserRepo(t))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newUseCase(seededUserRepo(t))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "correct-horse-8"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"usuario inexistente y password incorrecto deben ser indistinguibles")
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	repo := seededUserRepo(t)
	uc := newUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "pedro", Password: "correct-horse-8"})
	assert.ErrorIs(t, err, domain.ErrAccountDisabled)
	assert.Empty(t, repo.touched, "una cuenta desactivada no debe registrar acceso")
}

func TestLogin_CamposVacios(t *testing.T) {
	uc := newUseCase(seededUserRepo(t))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
