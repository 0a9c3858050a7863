package entities

type BookingRequest struct {
	OfferingID int64  `json:"offering_id"`
	Slot       string `json:"slot"`
	Date       string `json:"date"` // YYYY-MM-DD
}

type TransitionRequest struct {
	Status string `json:"status"`
}
