package domain

import (
	"errors"
	"time"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationUsed     = errors.New("invitation has already been used")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationRevoked  = errors.New("invitation has been revoked")
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationExpired  InvitationStatus = "expired"
	InvitationRevoked  InvitationStatus = "revoked"
)

// DefaultInvitationTTL applies when an invitation carries no explicit
// expires_at.
const DefaultInvitationTTL = 7 * 24 * time.Hour

type Invitation struct {
	ID           string
	Code         string
	InviterID    string
	InviteeEmail string
	Message      string
	Status       InvitationStatus
	CreatedAt    time.Time
	ExpiresAt    *time.Time // nil means created_at + DefaultInvitationTTL
}

// ExpiredBy reports whether the invitation should be considered expired
// at the given instant. ExpiresAt is authoritative when set; the 7-day
// window from CreatedAt is the fallback.
func (i *Invitation) ExpiredBy(now time.Time) bool {
	if i.ExpiresAt != nil {
		return now.After(*i.ExpiresAt)
	}
	return now.After(i.CreatedAt.Add(DefaultInvitationTTL))
}
