package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template+Data is set (rendered by the worker) or Subject plus
// Text/HTML are provided raw.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "account_created", "reset_password", "test_email"
	Data     map[string]any `json:"data,omitempty"`
}
