package models

// Category is the machine-readable classification of a failed send attempt.
type Category string

const (
	// CategoryNotConfigured means a required configuration secret is
	// missing. Detected before any network call is made.
	CategoryNotConfigured Category = "not_configured"

	// CategoryAuthFailed means the transport rejected our credentials.
	CategoryAuthFailed Category = "auth_failed"

	// CategoryTransport covers connection and timeout failures.
	CategoryTransport Category = "transport_error"

	// CategoryNotReady means the channel's session was not established in
	// time. Only produced by the operator alert channel.
	CategoryNotReady Category = "channel_not_ready"

	// CategoryUnknown is everything else; Reason carries the raw
	// provider message.
	CategoryUnknown Category = "unknown"
)

// Outcome is the result of a single channel's send attempt.
type Outcome struct {
	OK        bool     `json:"ok"`
	MessageID string   `json:"message_id,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Category  Category `json:"category,omitempty"`
}

// Success returns a successful outcome carrying an opaque provider message id.
func Success(messageID string) Outcome {
	return Outcome{OK: true, MessageID: messageID}
}

// Failure returns a failed outcome with a classification and a
// human-readable reason.
func Failure(category Category, reason string) Outcome {
	return Outcome{OK: false, Category: category, Reason: reason}
}
