package db

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

type Offering struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	DurationMin int
	Price       int // cents; 0 means free
	Slots       []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Booking struct {
	ID              int64
	Code            string
	OfferingID      int64
	RequesterID     int64
	OwnerID         int64
	Date            time.Time
	Slot            string
	Status          string
	PaymentStatus   string
	StripeSessionID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
