package viewer

import (
	"context"
	"time"

	"github.com/xthome/home-manager/internal/auth"
	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
)

// AcceptInvite is the explicit acceptance transition: the invited viewer
// sets a permanent password, which claims every pending grant. Acceptance
// is no longer inferred from password-reset state.
type AcceptInvite struct {
	repo domain.Repository
}

func NewAcceptInvite(repo domain.Repository) *AcceptInvite {
	return &AcceptInvite{repo: repo}
}

func (uc *AcceptInvite) Execute(
	ctx context.Context,
	viewerID string,
	newPassword string,
) error {

	user, err := uc.repo.GetUserByID(ctx, viewerID)
	if err != nil {
		return err
	}
	if user == nil {
		return httperr.ErrBusiness(httperr.CodeUserNotFound)
	}

	// The password only changes while the invite's temporary-password
	// marker is live. An established account claims its pending grants
	// without touching credentials; password changes go through the
	// profile or reset flows.
	if user.MustChangePassword(time.Now()) {
		hashed, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}

		user.PasswordHash = hashed
		user.PasswordResetToken = nil
		user.PasswordResetTokenExpiry = nil
		if err := uc.repo.UpdateUser(ctx, user); err != nil {
			return err
		}
	}

	return uc.repo.AcceptPendingLinks(ctx, viewerID)
}
