package entity

import (
	"encoding/json"
	"time"
)

// Estados de un mensaje de contacto.
const (
	MessageUnread  = "unread"
	MessageRead    = "read"
	MessageReplied = "replied"
)

// ContactMessage mensaje entrante del formulario de contacto.
type ContactMessage struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	Reply     string     `json:"reply,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	RepliedAt *time.Time `json:"repliedAt,omitempty"`
}

// UnmarshalJSON acepta tanto "id" como "_id".
func (m *ContactMessage) UnmarshalJSON(b []byte) error {
	type alias ContactMessage
	aux := struct {
		*alias
		MongoID string `json:"_id"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = aux.MongoID
	}
	return nil
}
