package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jhoicas/electro-storefront/internal/application/dto"
	"github.com/jhoicas/electro-storefront/internal/application/ports"
	"github.com/jhoicas/electro-storefront/internal/domain"
	"github.com/jhoicas/electro-storefront/internal/domain/entity"
)

var messageStatuses = []string{entity.MessageUnread, entity.MessageRead, entity.MessageReplied}

// ContactUseCase formulario de contacto y bandeja del admin.
type ContactUseCase struct {
	api ports.ContactAPI
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(api ports.ContactAPI) *ContactUseCase {
	return &ContactUseCase{api: api}
}

// Submit envía un mensaje desde el formulario público.
func (uc *ContactUseCase) Submit(ctx context.Context, in dto.ContactRequest) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: nombre, asunto y mensaje son requeridos", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return uc.api.SubmitContact(ctx, in)
}

// List mensajes filtrados por estado (admin).
func (uc *ContactUseCase) List(ctx context.Context, status string) ([]entity.ContactMessage, error) {
	if status != "" && !oneOf(messageStatuses, status) {
		return nil, fmt.Errorf("%w: estado de mensaje %q", domain.ErrInvalidInput, status)
	}
	return uc.api.ListMessages(ctx, status)
}

func (uc *ContactUseCase) Get(ctx context.Context, id string) (*entity.ContactMessage, error) {
	return uc.api.GetMessage(ctx, id)
}

// Reply responde un mensaje; el estado por defecto es replied.
func (uc *ContactUseCase) Reply(ctx context.Context, id string, in dto.ReplyMessageRequest) (*entity.ContactMessage, error) {
	if strings.TrimSpace(in.Reply) == "" {
		return nil, fmt.Errorf("%w: la respuesta es requerida", domain.ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = entity.MessageReplied
	}
	if !oneOf(messageStatuses, in.Status) {
		return nil, fmt.Errorf("%w: estado de mensaje %q", domain.ErrInvalidInput, in.Status)
	}
	return uc.api.ReplyMessage(ctx, id, in)
}

func (uc *ContactUseCase) Delete(ctx context.Context, id string) error {
	return uc.api.DeleteMessage(ctx, id)
}
