package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/email"
	"github.com/dentalking/geulpi-calendar/internal/metrics"
	"github.com/dentalking/geulpi-calendar/internal/repository"
)

// InvitationInfo is the public view of an invitation returned to the
// invitee before accepting.
type InvitationInfo struct {
	InviterName  string
	InviterEmail string
	InviteeEmail string
	Message      string
}

type InvitationUsecase struct {
	invitations repository.InvitationRepository
	users       repository.UserRepository
	email       email.Sender
	inviteBase  string
	logger      *slog.Logger
	now         func() time.Time
}

func NewInvitationUsecase(
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	emailSender email.Sender,
	inviteBase string,
	logger *slog.Logger,
) *InvitationUsecase {
	return &InvitationUsecase{
		invitations: invitations,
		users:       users,
		email:       emailSender,
		inviteBase:  inviteBase,
		logger:      logger.With("component", "invitation_usecase"),
		now:         time.Now,
	}
}

// Lookup resolves an invitation code for display. A pending invitation
// past its deadline is transitioned to expired here, so reads stay
// correct even between sweeper runs.
func (u *InvitationUsecase) Lookup(ctx context.Context, code string) (*InvitationInfo, error) {
	inv, err := u.invitations.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case domain.InvitationAccepted:
		return nil, domain.ErrInvitationUsed
	case domain.InvitationExpired:
		return nil, domain.ErrInvitationExpired
	case domain.InvitationRevoked:
		return nil, domain.ErrInvitationRevoked
	}

	if inv.ExpiredBy(u.now()) {
		transitioned, merr := u.invitations.MarkExpired(ctx, inv.ID)
		if merr != nil {
			return nil, fmt.Errorf("expire invitation: %w", merr)
		}
		if transitioned {
			metrics.InvitationsExpiredTotal.WithLabelValues("lookup").Inc()
			u.logger.Info("invitation expired on lookup", "invitation_id", inv.ID)
		}
		return nil, domain.ErrInvitationExpired
	}

	inviter, err := u.users.FindByID(ctx, inv.InviterID)
	if err != nil {
		return nil, fmt.Errorf("find inviter: %w", err)
	}

	return &InvitationInfo{
		InviterName:  inviter.Name,
		InviterEmail: inviter.Email,
		InviteeEmail: inv.InviteeEmail,
		Message:      inv.Message,
	}, nil
}

// Create stores a pending invitation with a random code and emails the
// invitee an accept link.
func (u *InvitationUsecase) Create(ctx context.Context, inviterID, inviteeEmail, message string) (*domain.Invitation, error) {
	inviter, err := u.users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, fmt.Errorf("find inviter: %w", err)
	}

	raw := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("generate invitation code: %w", err)
	}
	code := hex.EncodeToString(raw)

	created, err := u.invitations.Create(ctx, &domain.Invitation{
		Code:         code,
		InviterID:    inviterID,
		InviteeEmail: inviteeEmail,
		Message:      message,
		Status:       domain.InvitationPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	link := u.inviteBase + "/invite?code=" + code
	subject := fmt.Sprintf("%s invited you to Geulpi", inviter.Name)
	body := fmt.Sprintf(
		`<p>%s (%s) invited you to share calendars.</p><p><a href="%s">%s</a></p><p>The invitation expires in 7 days.</p>`,
		inviter.Name, inviter.Email, link, link,
	)
	if err := u.email.Send(ctx, inviteeEmail, subject, body); err != nil {
		return nil, fmt.Errorf("send invitation email: %w", err)
	}
	return created, nil
}
