package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/locamarrakech/booking-backend/internal/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// dateLayout is the long en-US date format the operator sees in emails.
const dateLayout = "January 2, 2006"

// orNA substitutes "N/A" for absent optional car attributes.
func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// bookingText is the plain-text alternative of the booking email.
func bookingText(intent models.BookingIntent) string {
	speed := "N/A"
	if intent.CarSpeed != "" {
		speed = intent.CarSpeed + " km/h"
	}
	return fmt.Sprintf(`New Booking Received:
Full Name: %s
Email: %s
Phone: %s
City: %s
Booking Period: %s to %s
Car Name: %s
Car Price: %s€/day
Car Model: %s
Transmission: %s
Seats: %s
Fuel: %s
Max Speed: %s`,
		intent.FullName,
		intent.Email,
		intent.PhoneNumber,
		intent.City,
		formatDate(intent.StartDate),
		formatDate(intent.EndDate),
		intent.CarName,
		orNA(intent.CarPrice),
		orNA(intent.CarModel),
		orNA(intent.CarTransmission),
		orNA(intent.CarSeats),
		orNA(intent.CarFuel),
		speed,
	)
}

type bookingEmailData struct {
	FullName      string
	Email         string
	Phone         string
	City          string
	StartDate     string
	EndDate       string
	CarName       string
	FeaturedImage string
	Price         string
	Model         string
	Transmission  string
	Seats         string
	Fuel          string
	Speed         string
}

func renderBookingHTML(intent models.BookingIntent) (string, error) {
	data := bookingEmailData{
		FullName:      intent.FullName,
		Email:         intent.Email,
		Phone:         intent.PhoneNumber,
		City:          intent.City,
		StartDate:     formatDate(intent.StartDate),
		EndDate:       formatDate(intent.EndDate),
		CarName:       intent.CarName,
		FeaturedImage: intent.FeaturedImage,
		Price:         orNA(intent.CarPrice),
		Model:         orNA(intent.CarModel),
		Transmission:  orNA(intent.CarTransmission),
		Seats:         orNA(intent.CarSeats),
		Fuel:          orNA(intent.CarFuel),
		Speed:         intent.CarSpeed,
	}

	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, "booking.html.tmpl", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// contactText is the plain-text alternative of the contact email. The site
// audience is French-speaking, so contact emails keep the original wording.
func contactText(contact models.ContactMessage) string {
	return fmt.Sprintf(`Nouveau message de contact reçu:

Nom: %s
Email: %s
Téléphone: %s

Message:
%s

---
Ce message a été envoyé depuis le formulaire de contact de LocaMarrakech.`,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Message,
	)
}

func renderContactHTML(contact models.ContactMessage) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, "contact.html.tmpl", contact); err != nil {
		return "", err
	}
	return buf.String(), nil
}
