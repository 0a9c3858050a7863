package entities

import "time"

type OfferingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DurationMin int      `json:"duration_min"`
	Price       int      `json:"price"` // cents; 0 means free
	Slots       []string `json:"slots"`
}

type BookedSlotResponse struct {
	Date string `json:"date"`
	Slot string `json:"slot"`
}

type OfferingResponse struct {
	ID          int64                `json:"id"`
	OwnerID     int64                `json:"owner_id"`
	OwnerName   string               `json:"owner_name,omitempty"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	DurationMin int                  `json:"duration_min"`
	Price       int                  `json:"price"`
	Slots       []string             `json:"slots"`
	BookedSlots []BookedSlotResponse `json:"booked_slots"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
