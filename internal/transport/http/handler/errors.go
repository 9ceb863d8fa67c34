package handler

const (
	errInternalServer    = "Internal server error"
	errUnauthorized      = "Unauthorized"
	errMissingCode       = "Missing invitation code"
	errInvitationUnknown = "Invitation not found"
	errInvalidFeed       = "Invalid ICS feed"
)
