package entities

type BookingEmailData struct {
	UserName      string
	BookingCode   string
	OfferingTitle string
	DateFormatted string
	Slot          string
	Status        string
	CurrentYear   int
}
