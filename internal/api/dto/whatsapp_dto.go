package dto

// SendWhatsAppResponse reports whether the messaging API accepted the notice.
type SendWhatsAppResponse struct {
	OK bool `json:"ok"`
}
