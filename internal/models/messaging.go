package models

// EmailMessage is the payload placed on the email queue.
type EmailMessage struct {
	To      string      `json:"to"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html"`
	Text    string      `json:"text,omitempty"`
	Kind    CodePurpose `json:"kind"`
}
