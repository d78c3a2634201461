package models

// OAuth flows reported back to the frontend after a Google sign-in.
const (
	FlowSuccess        = "success"
	FlowChangePassword = "changePassword"
)

// OAuthProfile is the identity returned by the provider.
type OAuthProfile struct {
	ID    string
	Email string
	Name  string
}

// OAuthTicket is the one-time handoff stored between the callback redirect and the frontend.
type OAuthTicket struct {
	Email string `json:"email"`
	Flow  string `json:"flow"`
}

// GoogleLoginResult describes what happened during a Google callback.
type GoogleLoginResult struct {
	Ticket  string
	Flow    string
	Message string
	Created bool
}

// TicketRedemption is returned when the frontend exchanges a ticket.
// Session is set only for the success flow of an active account.
type TicketRedemption struct {
	Email   string
	Flow    string
	Session *SignInResult
}
