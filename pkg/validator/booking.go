package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/locamarrakech/booking-backend/internal/models"
)

// Fields maps an input field name to a human-readable error message.
// An empty map means the input is valid. Field names match the JSON keys the
// website sends, so the frontend can highlight the offending inputs.
type Fields map[string]string

// emailRegex matches a basic local@domain shape. Deliverability is the SMTP
// transport's problem, not the validator's.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// dateLayouts are the accepted formats for startDate/endDate. The website
// sends plain ISO dates; full RFC 3339 timestamps are accepted and truncated
// to the calendar date.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// BookingValidator turns raw booking form input into a BookingIntent.
// It has no side effects: malformed values are reported as field errors,
// never as Go errors, and validating the same input twice yields the same
// result.
type BookingValidator struct {
	now func() time.Time // injectable for tests
}

// NewBookingValidator creates a booking validator using the wall clock.
func NewBookingValidator() *BookingValidator {
	return &BookingValidator{now: time.Now}
}

// Validate checks required-field presence, email shape and the stay window.
// On success the returned Fields is empty and the BookingIntent is fully
// populated; otherwise the intent is the zero value and Fields holds one
// message per offending field.
func (v *BookingValidator) Validate(req models.BookingRequest) (models.BookingIntent, Fields) {
	errs := Fields{}

	fullName := strings.TrimSpace(req.FullName)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if fullName == "" {
		if firstName == "" {
			errs["firstName"] = "First name is required"
		}
		if lastName == "" {
			errs["lastName"] = "Last name is required"
		}
		fullName = strings.TrimSpace(firstName + " " + lastName)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailRegex.MatchString(email) {
		errs["email"] = "Email address is not valid"
	}

	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		errs["phoneNumber"] = "Phone number is required"
	}

	city := strings.TrimSpace(req.City)
	if city == "" {
		errs["city"] = "City is required"
	}

	start, startOK := parseDate(req.StartDate, "startDate", "Start date", errs)
	end, endOK := parseDate(req.EndDate, "endDate", "End date", errs)

	if startOK && start.Before(v.today()) {
		errs["startDate"] = "Start date cannot be in the past"
	}
	// The window violation is reported against endDate specifically so the
	// frontend highlights the right picker.
	if startOK && endOK && end.Before(start) {
		errs["endDate"] = "End date cannot be before start date"
	}

	if len(errs) > 0 {
		return models.BookingIntent{}, errs
	}

	return models.BookingIntent{
		FullName:        fullName,
		Email:           email,
		PhoneNumber:     phone,
		City:            city,
		StartDate:       start,
		EndDate:         end,
		CarName:         strings.TrimSpace(req.CarName),
		FeaturedImage:   strings.TrimSpace(req.FeaturedImage),
		CarPrice:        strings.TrimSpace(req.CarPrice),
		CarModel:        strings.TrimSpace(req.CarModel),
		CarTransmission: strings.TrimSpace(req.CarTransmission),
		CarSeats:        strings.TrimSpace(req.CarSeats),
		CarFuel:         strings.TrimSpace(req.CarFuel),
		CarSpeed:        strings.TrimSpace(req.CarSpeed),
	}, errs
}

// today returns the current calendar date at midnight UTC.
func (v *BookingValidator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate parses a date field and records missing/malformed values in errs.
// The returned bool reports whether a usable date was produced.
func parseDate(value, field, label string, errs Fields) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		errs[field] = label + " is required"
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	errs[field] = label + " is not a valid date"
	return time.Time{}, false
}
