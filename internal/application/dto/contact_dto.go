package dto

// ContactRequest mensaje enviado desde el formulario público.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ReplyMessageRequest respuesta del admin; Status por defecto "replied".
type ReplyMessageRequest struct {
	Reply  string `json:"reply"`
	Status string `json:"status,omitempty"`
}
