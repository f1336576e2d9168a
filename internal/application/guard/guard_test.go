package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/electro-storefront/internal/application/guard"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

func session(role entity.Role) entity.Session {
	return entity.Session{Token: "tok", User: &entity.User{ID: "u1", Role: role}}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		session  entity.Session
		required entity.Role
		want     guard.Decision
	}{
		{"sin sesión", entity.Session{}, "", guard.RedirectLogin},
		{"sin sesión en vista admin", entity.Session{}, entity.RoleAdmin, guard.RedirectLogin},
		{"token sin usuario", entity.Session{Token: "tok"}, "", guard.RedirectLogin},
		{"customer en vista admin", session(entity.RoleCustomer), entity.RoleAdmin, guard.RedirectUnauthorized},
		{"admin en vista admin", session(entity.RoleAdmin), entity.RoleAdmin, guard.Allow},
		{"customer en vista autenticada", session(entity.RoleCustomer), "", guard.Allow},
		{"admin en vista autenticada", session(entity.RoleAdmin), "", guard.Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, guard.Decide(tc.session, tc.required))
		})
	}
}

func TestDecision_Target(t *testing.T) {
	assert.Equal(t, "/login", guard.RedirectLogin.Target())
	assert.Equal(t, "/unauthorized", guard.RedirectUnauthorized.Target())
	assert.Empty(t, guard.Allow.Target())
	assert.Equal(t, "redirect-unauthorized", guard.RedirectUnauthorized.String())
}
