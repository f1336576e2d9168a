package entity

// SessionStatus estado transitorio de la sesión.
type SessionStatus string

const (
	StatusIdle    SessionStatus = "idle"
	StatusLoading SessionStatus = "loading"
	StatusError   SessionStatus = "error"
)

// Session usuario autenticado + bearer token, más el estado de la última operación.
// User y Token se asignan y se limpian juntos.
type Session struct {
	User   *User         `json:"user"`
	Token  string        `json:"-"`
	Status SessionStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// IsAuthenticated token y usuario presentes.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Identity identidad de carrito derivada de la sesión.
func (s Session) Identity() CartIdentity {
	if !s.IsAuthenticated() {
		return GuestIdentity()
	}
	return UserIdentity(s.User.ID)
}

// Clone copia el usuario para no compartir el puntero con el store.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
