// Package session mantiene la sesión autenticada de un dispositivo: usuario y token
// van siempre juntos, en memoria y en el almacenamiento local.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
	"github.com/jhoicas/electro-storefront/internal/domain/repository"
	"github.com/jhoicas/electro-storefront/pkg/jwt"
	"github.com/jhoicas/electro-storefront/pkg/logger"
)

// Mensajes cuando el backend no envía uno propio.
const (
	MsgRegistrationFailed   = "Registration failed"
	MsgLoginFailed          = "Login failed"
	MsgProfileUpdateFailed  = "Profile update failed"
	MsgPasswordUpdateFailed = "Password update failed"
)

// Store sesión de un dispositivo. Las operaciones concurrentes no se cancelan entre sí:
// gana la última en terminar.
type Store struct {
	mu    sync.Mutex
	state entity.Session

	kv  repository.KeyValueStore
	api ports.AuthAPI
	log *logger.Logger
	now func() time.Time
}

// NewStore construye el store y lo hidrata desde kv.
func NewStore(ctx context.Context, kv repository.KeyValueStore, api ports.AuthAPI, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{kv: kv, api: api, log: log, now: time.Now, state: entity.Session{Status: entity.StatusIdle}}
	s.hydrate(ctx)
	return s
}

// SetAPI asigna el cliente del backend cuando se construye después del store.
func (s *Store) SetAPI(api ports.AuthAPI) {
	s.mu.Lock()
	s.api = api
	s.mu.Unlock()
}

// hydrate lee token y usuario. Si falta alguno, el usuario está corrupto o el JWT
// ya venció, la sesión arranca vacía y se borran ambas claves.
func (s *Store) hydrate(ctx context.Context) {
	token, errTok := s.kv.Get(ctx, repository.KeySessionToken)
	rawUser, errUser := s.kv.Get(ctx, repository.KeySessionUser)
	if readFailed(errTok) || readFailed(errUser) {
		// Fallo del almacenamiento: no se borra nada, solo se arranca sin sesión.
		s.log.Warn().AnErr("token_err", errTok).AnErr("user_err", errUser).Msg("sesión: lectura del almacenamiento local")
		return
	}
	if errTok != nil || errUser != nil {
		if errTok == nil || errUser == nil {
			s.log.Debug().Msg("sesión: token y usuario desemparejados, se descartan")
			s.erase(ctx)
		}
		return
	}

	var user entity.User
	if err := json.Unmarshal(rawUser, &user); err != nil || user.ID == "" || len(token) == 0 {
		s.log.Warn().Err(err).Msg("sesión: usuario persistido corrupto, se descarta")
		s.erase(ctx)
		return
	}
	if jwt.Expired(string(token), s.now()) {
		s.log.Info().Str("user_id", user.ID).Msg("sesión: token persistido vencido, se descarta")
		s.erase(ctx)
		return
	}
	s.state.User = &user
	s.state.Token = string(token)
}

// Snapshot copia del estado actual.
func (s *Store) Snapshot() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// IsAuthenticated indica si hay usuario y token.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated()
}

// Identity identidad de carrito de la sesión actual.
func (s *Store) Identity() entity.CartIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Identity()
}

// Token bearer token actual ("" si no hay sesión).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Register crea la cuenta e inicia sesión.
func (s *Store) Register(ctx context.Context, in dto.RegisterRequest) (entity.Session, error) {
	s.begin()
	resp, err := s.api.Register(ctx, in)
	if err == nil {
		err = validAuthResponse(resp)
	}
	if err != nil {
		return s.fail(err, MsgRegistrationFailed)
	}
	user := *resp.User
	if user.Role == "" {
		user.Role = entity.Role(in.Role)
	}
	return s.authenticate(ctx, resp.Token, user), nil
}

// Login autentica con email y password.
func (s *Store) Login(ctx context.Context, in dto.LoginRequest) (entity.Session, error) {
	s.begin()
	resp, err := s.api.Login(ctx, in)
	if err == nil {
		err = validAuthResponse(resp)
	}
	if err != nil {
		return s.fail(err, MsgLoginFailed)
	}
	return s.authenticate(ctx, resp.Token, *resp.User), nil
}

// UpdateProfile reemplaza el usuario por el devuelto por el backend; el token no cambia.
func (s *Store) UpdateProfile(ctx context.Context, in dto.UpdateProfileRequest) (entity.Session, error) {
	if !s.IsAuthenticated() {
		return s.Snapshot(), domain.ErrNotAuthenticated
	}
	s.begin()
	user, err := s.api.UpdateProfile(ctx, in)
	if err == nil && (user == nil || user.ID == "") {
		err = &dto.APIError{Status: 200, Code: "INVALID_RESPONSE", Message: "", Err: domain.ErrCorruptedSnapshot}
	}
	if err != nil {
		return s.fail(err, MsgProfileUpdateFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = entity.StatusIdle
	if s.state.Token == "" {
		// La sesión se cerró mientras la petición estaba en curso.
		return s.state.Clone(), nil
	}
	u := *user
	if u.Role == "" && s.state.User != nil {
		u.Role = s.state.User.Role
	}
	s.state.User = &u
	s.persistUser(ctx, u)
	return s.state.Clone(), nil
}

// UpdatePassword cambia la contraseña; si el backend emite un token nuevo, reemplaza al guardado.
func (s *Store) UpdatePassword(ctx context.Context, in dto.UpdatePasswordRequest) (entity.Session, error) {
	if !s.IsAuthenticated() {
		return s.Snapshot(), domain.ErrNotAuthenticated
	}
	s.begin()
	resp, err := s.api.UpdatePassword(ctx, in)
	if err != nil {
		return s.fail(err, MsgPasswordUpdateFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = entity.StatusIdle
	if resp != nil && resp.Token != "" && s.state.User != nil {
		s.state.Token = resp.Token
		if err := s.kv.Set(ctx, repository.KeySessionToken, []byte(resp.Token)); err != nil {
			s.log.Warn().Err(err).Msg("sesión: persistir token")
		}
	}
	return s.state.Clone(), nil
}

// Logout cierra la sesión local; no llama al backend.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = entity.Session{Status: entity.StatusIdle}
	s.erase(ctx)
}

// Invalidate cierra la sesión tras un 401 del backend.
func (s *Store) Invalidate(ctx context.Context) {
	s.log.Info().Msg("sesión: token rechazado por el backend, cerrando sesión")
	s.Logout(ctx)
}

// ClearError limpia el mensaje de error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
	if s.state.Status == entity.StatusError {
		s.state.Status = entity.StatusIdle
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.state.Status = entity.StatusLoading
	s.state.Error = ""
	s.mu.Unlock()
}

// fail pasa a estado error con el mensaje del backend o el genérico; usuario y token no se tocan.
func (s *Store) fail(err error, fallback string) (entity.Session, error) {
	msg := fallback
	if apiErr, ok := dto.AsAPIError(err); ok && !apiErr.IsNetwork() && apiErr.Message != "" {
		msg = apiErr.Message
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = entity.StatusError
	s.state.Error = msg
	return s.state.Clone(), err
}

func (s *Store) authenticate(ctx context.Context, token string, user entity.User) entity.Session {
	if user.Role == "" {
		user.Role = entity.RoleCustomer
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = entity.Session{User: &user, Token: token, Status: entity.StatusIdle}
	if err := s.kv.Set(ctx, repository.KeySessionToken, []byte(token)); err != nil {
		s.log.Warn().Err(err).Msg("sesión: persistir token")
	}
	s.persistUser(ctx, user)
	return s.state.Clone()
}

func (s *Store) persistUser(ctx context.Context, user entity.User) {
	raw, err := json.Marshal(user)
	if err == nil {
		err = s.kv.Set(ctx, repository.KeySessionUser, raw)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("sesión: persistir usuario")
	}
}

func (s *Store) erase(ctx context.Context) {
	if err := s.kv.Delete(ctx, repository.KeySessionToken); err != nil {
		s.log.Warn().Err(err).Msg("sesión: borrar token")
	}
	if err := s.kv.Delete(ctx, repository.KeySessionUser); err != nil {
		s.log.Warn().Err(err).Msg("sesión: borrar usuario")
	}
}

func readFailed(err error) bool {
	return err != nil && !errors.Is(err, domain.ErrNotFound)
}

// validAuthResponse rechaza respuestas 2xx sin token o sin usuario.
func validAuthResponse(resp *dto.AuthResponse) error {
	if resp == nil || resp.Token == "" || resp.User == nil {
		return &dto.APIError{Status: 200, Code: "INVALID_RESPONSE", Err: domain.ErrCorruptedSnapshot}
	}
	return nil
}
