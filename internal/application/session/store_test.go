package session

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/domain/repository"
	"github.com/jhoicas/electro-storefront/internal/infrastructure/storage"
	pkgjwt "github.com/jhoicas/electro-storefront/pkg/jwt"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del backend de auth
// ──────────────────────────────────────────────────────────────────────────────

type stubAuth struct {
	registerResp *dto.AuthResponse
	loginResp    *dto.AuthResponse
	profileResp  *entity.User
	passwordResp *dto.PasswordResponse
	err          error

	lastRegister dto.RegisterRequest
}

func (a *stubAuth) Register(_ context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	a.lastRegister = in
	return a.registerResp, a.err
}

func (a *stubAuth) Login(_ context.Context, _ dto.LoginRequest) (*dto.AuthResponse, error) {
	return a.loginResp, a.err
}

func (a *stubAuth) Me(_ context.Context) (*entity.User, error) { return a.profileResp, a.err }

func (a *stubAuth) UpdateProfile(_ context.Context, _ dto.UpdateProfileRequest) (*entity.User, error) {
	return a.profileResp, a.err
}

func (a *stubAuth) UpdatePassword(_ context.Context, _ dto.UpdatePasswordRequest) (*dto.PasswordResponse, error) {
	return a.passwordResp, a.err
}

func apiErr(status int, msg string) error {
	return &dto.APIError{Status: status, Code: dto.CodeForStatus(status), Message: msg}
}

func newStore(t *testing.T, kv repository.KeyValueStore, api *stubAuth) *Store {
	t.Helper()
	return NewStore(context.Background(), kv, api, logger.Nop())
}

func seedSession(t *testing.T, kv repository.KeyValueStore, token, userJSON string) {
	t.Helper()
	ctx := context.Background()
	if token != "" {
		require.NoError(t, kv.Set(ctx, repository.KeySessionToken, []byte(token)))
	}
	if userJSON != "" {
		require.NoError(t, kv.Set(ctx, repository.KeySessionUser, []byte(userJSON)))
	}
}

func assertKeysAbsent(t *testing.T, kv repository.KeyValueStore) {
	t.Helper()
	ctx := context.Background()
	_, err := kv.Get(ctx, repository.KeySessionToken)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = kv.Get(ctx, repository.KeySessionUser)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Hidratación
// ──────────────────────────────────────────────────────────────────────────────

func TestHydrate_SesionValida(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "opaque-token", `{"_id":"u1","name":"Ada","email":"ada@example.com","role":"admin"}`)

	s := newStore(t, kv, &stubAuth{})
	snap := s.Snapshot()
	require.True(t, snap.IsAuthenticated())
	assert.Equal(t, "u1", snap.User.ID)
	assert.Equal(t, entity.RoleAdmin, snap.User.Role)
	assert.Equal(t, entity.UserIdentity("u1"), s.Identity())
}

func TestHydrate_TokenSinUsuario_SeDescarta(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "opaque-token", "")

	s := newStore(t, kv, &stubAuth{})
	assert.False(t, s.IsAuthenticated())
	assert.True(t, s.Identity().IsGuest())
	assertKeysAbsent(t, kv)
}

func TestHydrate_UsuarioSinToken_SeDescarta(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "", `{"id":"u1"}`)

	s := newStore(t, kv, &stubAuth{})
	assert.Nil(t, s.Snapshot().User)
	assertKeysAbsent(t, kv)
}

func TestHydrate_UsuarioCorrupto_SeDescarta(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "opaque-token", `{not json`)

	s := newStore(t, kv, &stubAuth{})
	assert.False(t, s.IsAuthenticated())
	assertKeysAbsent(t, kv)
}

func TestHydrate_JWTVencido_SeDescarta(t *testing.T) {
	kv := storage.NewMemoryStore()
	tok, err := pkgjwt.Generate("backend-secret", "u1", "customer", "api", -5)
	require.NoError(t, err)
	seedSession(t, kv, tok, `{"id":"u1","role":"customer"}`)

	s := newStore(t, kv, &stubAuth{})
	assert.False(t, s.IsAuthenticated())
	assertKeysAbsent(t, kv)
}

// ──────────────────────────────────────────────────────────────────────────────
// Register / Login
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_PersisteTokenYUsuario(t *testing.T) {
	kv := storage.NewMemoryStore()
	api := &stubAuth{registerResp: &dto.AuthResponse{
		Token: "tok-1",
		User:  &entity.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
	}}
	s := newStore(t, kv, api)

	snap, err := s.Register(context.Background(), dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusIdle, snap.Status)
	assert.Equal(t, entity.RoleCustomer, snap.User.Role, "sin rol en respuesta ni petición se asume customer")

	tok, err := kv.Get(context.Background(), repository.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", string(tok))
	rawUser, err := kv.Get(context.Background(), repository.KeySessionUser)
	require.NoError(t, err)
	var persisted entity.User
	require.NoError(t, json.Unmarshal(rawUser, &persisted))
	assert.Equal(t, "u1", persisted.ID)
	assert.Equal(t, entity.RoleCustomer, persisted.Role)

	// La hidratación posterior recupera la misma sesión.
	again := newStore(t, kv, api)
	assert.Equal(t, "u1", again.Snapshot().User.ID)
}

func TestRegister_RolDeLaPeticionSiLaRespuestaNoTrae(t *testing.T) {
	api := &stubAuth{registerResp: &dto.AuthResponse{Token: "t", User: &entity.User{ID: "u1"}}}
	s := newStore(t, storage.NewMemoryStore(), api)

	snap, err := s.Register(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "x", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, snap.User.Role)
}

func TestRegister_FalloConMensajeDelBackend(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := newStore(t, kv, &stubAuth{err: apiErr(400, "User already exists")})

	snap, err := s.Register(context.Background(), dto.RegisterRequest{Email: "a@b.co"})
	require.Error(t, err)
	assert.Equal(t, entity.StatusError, snap.Status)
	assert.Equal(t, "User already exists", snap.Error)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assertKeysAbsent(t, kv)
}

func TestRegister_FalloDeRedUsaMensajeGenerico(t *testing.T) {
	netErr := &dto.APIError{Code: dto.CodeNetwork, Message: "dial tcp: connection refused", Err: errors.New("refused")}
	s := newStore(t, storage.NewMemoryStore(), &stubAuth{err: netErr})

	snap, err := s.Register(context.Background(), dto.RegisterRequest{})
	require.Error(t, err)
	assert.Equal(t, MsgRegistrationFailed, snap.Error)
}

func TestLogin_FallidoNoTocaLaSesionExistente(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "old-token", `{"id":"u1","role":"customer"}`)
	s := newStore(t, kv, &stubAuth{err: apiErr(401, "")})

	snap, err := s.Login(context.Background(), dto.LoginRequest{Email: "x@y.z", Password: "bad"})
	require.Error(t, err)
	assert.Equal(t, MsgLoginFailed, snap.Error)
	assert.Equal(t, "old-token", snap.Token)
	assert.Equal(t, "u1", snap.User.ID)

	tok, err := kv.Get(context.Background(), repository.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, "old-token", string(tok))
}

func TestLogin_RespuestaSinToken_EsFallo(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore(), &stubAuth{loginResp: &dto.AuthResponse{User: &entity.User{ID: "u1"}}})

	snap, err := s.Login(context.Background(), dto.LoginRequest{})
	require.Error(t, err)
	assert.Equal(t, MsgLoginFailed, snap.Error)
	assert.False(t, snap.IsAuthenticated())
}

func TestClearError(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore(), &stubAuth{err: apiErr(500, "boom")})
	_, _ = s.Login(context.Background(), dto.LoginRequest{})
	require.Equal(t, "boom", s.Snapshot().Error)

	s.ClearError()
	snap := s.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Equal(t, entity.StatusIdle, snap.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil y contraseña
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_ReemplazaUsuarioYConservaToken(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok", `{"id":"u1","name":"Old","role":"admin"}`)
	api := &stubAuth{profileResp: &entity.User{ID: "u1", Name: "New", Phone: "08012345678"}}
	s := newStore(t, kv, api)

	snap, err := s.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", snap.User.Name)
	assert.Equal(t, entity.RoleAdmin, snap.User.Role, "el rol se conserva si la respuesta no lo trae")
	assert.Equal(t, "tok", snap.Token)

	raw, err := kv.Get(context.Background(), repository.KeySessionUser)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"New"`)
}

func TestUpdateProfile_SinSesion(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore(), &stubAuth{})
	_, err := s.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestUpdateProfile_Fallo(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok", `{"id":"u1","name":"Old"}`)
	s := newStore(t, kv, &stubAuth{err: apiErr(422, "")})

	snap, err := s.UpdateProfile(context.Background(), dto.UpdateProfileRequest{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, MsgProfileUpdateFailed, snap.Error)
	assert.Equal(t, "Old", snap.User.Name)
}

func TestUpdatePassword_TokenNuevoReemplazaAlGuardado(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok-old", `{"id":"u1"}`)
	s := newStore(t, kv, &stubAuth{passwordResp: &dto.PasswordResponse{Token: "tok-new"}})

	snap, err := s.UpdatePassword(context.Background(), dto.UpdatePasswordRequest{CurrentPassword: "a", NewPassword: "b"})
	require.NoError(t, err)
	assert.Equal(t, "tok-new", snap.Token)
	raw, _ := kv.Get(context.Background(), repository.KeySessionToken)
	assert.Equal(t, "tok-new", string(raw))
}

func TestUpdatePassword_SinTokenEnRespuesta(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok-old", `{"id":"u1"}`)
	s := newStore(t, kv, &stubAuth{passwordResp: &dto.PasswordResponse{Message: "ok"}})

	snap, err := s.UpdatePassword(context.Background(), dto.UpdatePasswordRequest{})
	require.NoError(t, err)
	assert.Equal(t, "tok-old", snap.Token)
}

func TestUpdatePassword_Fallo(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok-old", `{"id":"u1"}`)
	s := newStore(t, kv, &stubAuth{err: apiErr(400, "Current password is incorrect")})

	snap, err := s.UpdatePassword(context.Background(), dto.UpdatePasswordRequest{})
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", snap.Error)
	assert.Equal(t, "tok-old", snap.Token)
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout / Invalidate
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_BorraClavesYEstado(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok", `{"id":"u1"}`)
	s := newStore(t, kv, &stubAuth{})
	require.True(t, s.IsAuthenticated())

	s.Logout(context.Background())
	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.Token)
	assert.Equal(t, entity.StatusIdle, snap.Status)
	assertKeysAbsent(t, kv)
}

func TestInvalidate_EquivaALogout(t *testing.T) {
	kv := storage.NewMemoryStore()
	seedSession(t, kv, "tok", `{"id":"u1"}`)
	s := newStore(t, kv, &stubAuth{})

	s.Invalidate(context.Background())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
	assertKeysAbsent(t, kv)
}
