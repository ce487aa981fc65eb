package whatsapp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/locamarrakech/booking-backend/internal/models"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// NormalizePhone converts a destination number to WhatsApp's digits-only
// international form: non-digits stripped, the international ("00") or trunk
// ("0") prefix removed, and the default country code prepended when the
// remaining number is 9 digits or fewer and not already prefixed.
//
// "0612345678" with country code "212" becomes "212612345678";
// "+212612345678" becomes "212612345678".
func NormalizePhone(phone, countryCode string) string {
	digits := nonDigits.ReplaceAllString(phone, "")

	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
	} else if strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}

	if digits != "" && len(digits) <= 9 && !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + digits
	}

	return digits
}

// messageDateLayout matches the long date format used in operator emails.
const messageDateLayout = "January 2, 2006"

// FormatBookingMessage builds the condensed chat summary of a booking.
// Optional car attributes are omitted rather than rendered as "N/A" to keep
// the message short.
func FormatBookingMessage(intent models.BookingIntent) string {
	days := intent.DurationDays()
	plural := ""
	if days > 1 {
		plural = "s"
	}

	price := intent.CarPrice
	if price == "" {
		price = "N/A"
	}

	var b strings.Builder
	b.WriteString("🚗 *NEW BOOKING RECEIVED* 🚗\n\n")

	b.WriteString("*Car Details:*\n")
	fmt.Fprintf(&b, "🏎️ %s\n", intent.CarName)
	fmt.Fprintf(&b, "💰 Price: %s€/day\n", price)
	if intent.CarModel != "" {
		fmt.Fprintf(&b, "📅 Model: %s\n", intent.CarModel)
	}
	if intent.CarTransmission != "" {
		fmt.Fprintf(&b, "⚙️ Transmission: %s\n", intent.CarTransmission)
	}
	if intent.CarSeats != "" {
		fmt.Fprintf(&b, "👥 Seats: %s\n", intent.CarSeats)
	}
	if intent.CarFuel != "" {
		fmt.Fprintf(&b, "⛽ Fuel: %s\n", intent.CarFuel)
	}

	b.WriteString("\n*Customer Details:*\n")
	fmt.Fprintf(&b, "👤 Name: %s\n", intent.FullName)
	fmt.Fprintf(&b, "📧 Email: %s\n", intent.Email)
	fmt.Fprintf(&b, "📱 Phone: %s\n", intent.PhoneNumber)
	fmt.Fprintf(&b, "📍 City: %s\n", intent.City)

	b.WriteString("\n*Booking Period:*\n")
	fmt.Fprintf(&b, "📅 From: %s\n", intent.StartDate.Format(messageDateLayout))
	fmt.Fprintf(&b, "📅 To: %s\n", intent.EndDate.Format(messageDateLayout))
	fmt.Fprintf(&b, "📆 Duration: %d day%s\n", days, plural)

	b.WriteString("\nPlease contact the customer to confirm the booking.")
	return b.String()
}
