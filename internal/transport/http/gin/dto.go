package httpgin

import (
	"github.com/venuebook/bookgo/internal/domain"
)

type QuoteRequest struct {
	DurationHours float64                   `json:"duration_hours"`
	HourlyRate    float64                   `json:"hourly_rate"`
	Overrides     domain.PriceOverrideTable `json:"overrides"`
}

type QuoteResponse struct {
	Price int64 `json:"price"`
}

type AddonsRequest struct {
	Selections []domain.AddonSelection `json:"selections" binding:"required"`
}

type AddonsResponse struct {
	Items      []domain.LineItem `json:"items"`
	GrandTotal int64             `json:"grand_total"`
	ByName     []domain.LineItem `json:"by_name"`
}

type AttachmentInput struct {
	MIMEType   string `json:"mime_type"`
	DataBase64 string `json:"data_base64"`
	URI        string `json:"uri"`
}

type CommitRequest struct {
	SpaceID       string                    `json:"space_id" binding:"required"`
	EventType     string                    `json:"event_type"`
	Selection     domain.TimeSlotSelection  `json:"selection"`
	Guests        int64                     `json:"guests"`
	HourlyRate    float64                   `json:"hourly_rate"`
	Overrides     domain.PriceOverrideTable `json:"overrides"`
	Addons        []domain.AddonSelection   `json:"addons"`
	Extras        []domain.ExtraCharge      `json:"extras"`
	Attachment    *AttachmentInput          `json:"attachment"`
	Authenticated bool                      `json:"authenticated"`
}

type CommitResponse struct {
	State string               `json:"state"`
	Draft *domain.BookingDraft `json:"draft,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
