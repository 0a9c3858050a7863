package entities

type AvailabilityResponse struct {
	OfferingID  int64    `json:"offering_id"`
	Date        string   `json:"date"`
	Slots       []string `json:"slots"`
	DefaultSlot string   `json:"default_slot,omitempty"`
}
