package entities

import "time"

type BookingResponse struct {
	Code          string    `json:"code"`
	OfferingID    int64     `json:"offering_id"`
	OfferingTitle string    `json:"offering_title,omitempty"`
	RequesterID   int64     `json:"requester_id"`
	RequesterName string    `json:"requester_name,omitempty"`
	OwnerID       int64     `json:"owner_id"`
	OwnerName     string    `json:"owner_name,omitempty"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	CheckoutURL   string    `json:"checkout_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
