package models

import "time"

// BookingRequest is the raw JSON body posted by the website's booking form.
// The form sends either a single fullName or separate firstName/lastName,
// depending on which page the visitor booked from.
type BookingRequest struct {
	FullName        string `json:"fullName"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	City            string `json:"city"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	CarName         string `json:"carName"`
	FeaturedImage   string `json:"featuredImage"`
	CarPrice        string `json:"carPrice"`
	CarModel        string `json:"carModel"`
	CarTransmission string `json:"carTransmission"`
	CarSeats        string `json:"carSeats"`
	CarFuel         string `json:"carFuel"`
	CarSpeed        string `json:"carSpeed"`
}

// BookingIntent is the validated, structured representation of one booking
// request. It is constructed only by the booking validator and never mutated
// afterwards; it lives for the duration of a single dispatch call and is not
// persisted.
type BookingIntent struct {
	FullName    string
	Email       string
	PhoneNumber string
	City        string

	// Stay window. Calendar dates at midnight UTC; EndDate is never
	// before StartDate.
	StartDate time.Time
	EndDate   time.Time

	CarName       string
	FeaturedImage string
	CarPrice      string

	// Optional descriptive attributes. Empty values render as "N/A".
	CarModel        string
	CarTransmission string
	CarSeats        string
	CarFuel         string
	CarSpeed        string
}

// DurationDays returns the length of the stay in whole days, inclusive of
// both endpoints: a booking from June 1st to June 3rd is 3 days.
func (b BookingIntent) DurationDays() int {
	return int(b.EndDate.Sub(b.StartDate).Hours()/24) + 1
}
