package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/electro-storefront/internal/application/checkout"
	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/domain"
)

// Códigos de salida.
const (
	ExitSuccess      = 0 // ejecución correcta
	ExitFailure      = 1 // la operación falló (backend, validación, sesión requerida)
	ExitCommandError = 2 // uso incorrecto: flags, argumentos, base local
)

// MsgLoginRequired mensaje de los comandos que requieren sesión.
const MsgLoginRequired = "login required"

// ExitError error con código de salida.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError crea un ExitError.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError envuelve err con un código de salida.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode código de salida de err; ExitFailure si no es un ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// texter salida legible propia de una vista.
type texter interface {
	Text() string
}

// OutputFormatter escribe resultados en text, json o yaml.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnóstico en --verbose (por defecto Writer)
	Verbose   bool
}

// CLIResponse envelope de salida json/yaml.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError detalle del error en el envelope.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success escribe un resultado correcto.
func (f *OutputFormatter) Success(data any) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	if t, ok := data.(texter); ok {
		_, err := fmt.Fprintln(f.Writer, t.Text())
		return err
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error escribe un error.
func (f *OutputFormatter) Error(code, message string) error {
	switch f.Format {
	case "json", "yaml":
		return f.encode(CLIResponse{Status: "error", Error: &CLIError{Code: code, Message: message}})
	}
	_, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	return err
}

// encode json indentado; yaml pasa por json para respetar los tags y los decimales.
func (f *OutputFormatter) encode(resp CLIResponse) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(generic)
}

// VerboseLog escribe solo con --verbose, en ErrWriter para no ensuciar json/yaml.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// describeError código y mensaje estables para err.
func describeError(err error) (code, message string) {
	var vErr *checkout.ValidationError
	var exitErr *ExitError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrSessionExpired):
		return "LOGIN_REQUIRED", MsgLoginRequired
	case errors.Is(err, domain.ErrEmptyCart):
		return "EMPTY_CART", err.Error()
	case errors.Is(err, domain.ErrOutOfStock):
		return "OUT_OF_STOCK", err.Error()
	case errors.As(err, &vErr):
		return "VALIDATION", vErr.Message
	}
	if apiErr, ok := dto.AsAPIError(err); ok {
		return apiErr.Code, apiErr.Message
	}
	if errors.As(err, &exitErr) && exitErr.Code == ExitCommandError {
		return "COMMAND", err.Error()
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return "VALIDATION", err.Error()
	}
	return "ERROR", err.Error()
}
