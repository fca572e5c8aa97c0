// File: internal/usecase/invite_uc.go
package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
	"activation-service/internal/infra/logging"
)

// Compile-time check
var _ InviteUseCase = (*inviteUC)(nil)

type InviteUseCase interface {
	// Register records that inviteeID signed up through inviterID.
	// Returns domain.ErrInvalidArgument for self-invites and
	// domain.ErrAlreadyExists if the invitee was already registered.
	Register(ctx context.Context, inviterID, inviteeID string) (*model.InviteRecord, error)
}

type inviteUC struct {
	invites repository.InviteRepository
	log     *zerolog.Logger
}

func NewInviteUseCase(invites repository.InviteRepository, logger *zerolog.Logger) *inviteUC {
	return &inviteUC{invites: invites, log: logger}
}

func (u *inviteUC) Register(ctx context.Context, inviterID, inviteeID string) (*model.InviteRecord, error) {
	log := logging.With(ctx, u.log)

	inv, err := model.NewInviteRecord("", strings.TrimSpace(inviterID), strings.TrimSpace(inviteeID))
	if err != nil {
		return nil, err
	}
	if err := u.invites.Create(ctx, repository.NoTX, inv); err != nil {
		log.Warn().Err(err).Str("inviter_id", inv.InviterID).Msg("invite registration rejected")
		return nil, err
	}
	log.Info().Str("invite_id", inv.ID).Str("inviter_id", inv.InviterID).Msg("invite registered")
	return inv, nil
}
