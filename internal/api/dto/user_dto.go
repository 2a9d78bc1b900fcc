package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse returns the session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the wire form of a staff account. The password hash never leaves the service.
type UserResponse struct {
	ID              string    `json:"id"`
	Attendant       string    `json:"atendente"`
	Phone           string    `json:"telefone"`
	Username        string    `json:"username"`
	Level1Access    bool      `json:"level1_access"`
	Level2Access    bool      `json:"level2_access"`
	Level3Access    bool      `json:"level3_access"`
	Active          bool      `json:"is_active"`
	WhatsAppEnabled bool      `json:"whatsapp_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ContactResponse tells the resolve dialog whether to offer the WhatsApp checkbox.
type ContactResponse struct {
	Attendant string `json:"atendente"`
	Phone     string `json:"telefone"`
	CanNotify bool   `json:"can_notify"`
}
