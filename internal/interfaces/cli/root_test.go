package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcomandos(t *testing.T) {
	cmd := NewRootCommand(&Env{})

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"register", "login", "logout", "whoami", "products", "cart", "checkout", "orders", "purge"} {
		assert.True(t, names[want], "falta el comando %s", want)
	}
}

func TestRootCommand_FlagsGlobales(t *testing.T) {
	cmd := NewRootCommand(&Env{})

	for _, name := range []string{"verbose", "format", "db", "device"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "falta --%s", name)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, DefaultDevice, cmd.PersistentFlags().Lookup("device").DefValue)
}

func TestRun_FormatoInvalido(t *testing.T) {
	env, _ := newTestEnv(t)

	out, code := run(t, env, "cart", "list", "--format", "xml")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, out, "Error [COMMAND]")
	assert.Contains(t, out, "xml")
}

func TestRun_FlagDesconocido(t *testing.T) {
	env, _ := newTestEnv(t)

	_, code := run(t, env, "cart", "list", "--nope")
	assert.Equal(t, ExitCommandError, code)
}

func TestRun_AyudaNoFalla(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand(&Env{})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"cart", "--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Vacía el carrito")
}
