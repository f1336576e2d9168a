package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(messageView{Message: "hola"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"message": "hola"}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("EMPTY_CART", "el carrito está vacío"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_CART", resp.Error.Code)
	assert.NotContains(t, buf.String(), `"data"`)
}

func TestOutputFormatter_YAMLRespetaTagsYDecimales(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "yaml", Writer: buf}

	require.NoError(t, f.Success(placedView{dto.PlaceOrderResponse{
		OrderID:     "o1",
		OrderNumber: "ORD-1",
		Total:       decimal.RequireFromString("34250.50"),
	}}))

	var resp map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, "ORD-1", data["orderNumber"])
	assert.Equal(t, "34250.5", data["total"])
}

func TestOutputFormatter_TextUsaVista(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success(placedView{dto.PlaceOrderResponse{OrderID: "o1", OrderNumber: "ORD-1", Total: decimal.NewFromInt(2000)}}))
	assert.Equal(t, "Pedido ORD-1 creado (id o1) por ₦2,000.00\n", buf.String())

	buf.Reset()
	require.NoError(t, f.Error("VALIDATION", "Please fill in city"))
	assert.Equal(t, "Error [VALIDATION]: Please fill in city\n", buf.String())
}

func TestOutputFormatter_VerboseVaAErrWriter(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag}

	f.VerboseLog("oculto")
	assert.Empty(t, diag.String())

	f.Verbose = true
	f.VerboseLog("base local: %s", "shop.db")
	assert.Equal(t, "base local: shop.db\n", diag.String())
	assert.Empty(t, out.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "uso")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrap: %w", NewExitError(ExitFailure, "x"))))
}

func TestDescribeError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
		msg  string
	}{
		{"sesión requerida", WrapExitError(ExitFailure, MsgLoginRequired, domain.ErrNotAuthenticated), "LOGIN_REQUIRED", MsgLoginRequired},
		{"sesión vencida", domain.ErrSessionExpired, "LOGIN_REQUIRED", MsgLoginRequired},
		{"carrito vacío", domain.ErrEmptyCart, "EMPTY_CART", domain.ErrEmptyCart.Error()},
		{"validación", &checkout.ValidationError{Field: "city", Message: "Please fill in city"}, "VALIDATION", "Please fill in city"},
		{"backend", &dto.APIError{Status: 404, Code: "NOT_FOUND", Message: "Product not found"}, "NOT_FOUND", "Product not found"},
		{"uso", NewExitError(ExitCommandError, "argumentos inválidos"), "COMMAND", "argumentos inválidos"},
		{"otro", errors.New("boom"), "ERROR", "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := describeError(tc.err)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}
