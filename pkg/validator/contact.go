package validator

import (
	"strings"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// ContactValidator validates contact-form submissions.
type ContactValidator struct{}

// NewContactValidator creates a contact validator.
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// Validate checks required-field presence and email shape. Same contract as
// BookingValidator.Validate: an empty Fields means the input is valid.
func (v *ContactValidator) Validate(req models.ContactRequest) (models.ContactMessage, Fields) {
	errs := Fields{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs["name"] = "Name is required"
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailRegex.MatchString(email) {
		errs["email"] = "Email address is not valid"
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		errs["phone"] = "Phone number is required"
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		errs["message"] = "Message is required"
	}

	if len(errs) > 0 {
		return models.ContactMessage{}, errs
	}

	return models.ContactMessage{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Message: message,
	}, errs
}
