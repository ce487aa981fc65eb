package models

// ContactRequest is the raw JSON body posted by the website's contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ContactMessage is the validated representation of one contact-form
// submission. Like BookingIntent it is built only by the validator and is
// never persisted.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}
