package viewer

import (
	"context"

	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/mail"
)

type RevokeViewer struct {
	repo domain.Repository
	mail *mail.Dispatcher
}

func NewRevokeViewer(
	repo domain.Repository,
	mail *mail.Dispatcher,
) *RevokeViewer {
	return &RevokeViewer{
		repo: repo,
		mail: mail,
	}
}

// Execute soft-revokes the grant: the row stays, allow_viewer_access goes
// false. Revoking a missing or already-revoked grant is a no-op, not an
// error.
func (uc *RevokeViewer) Execute(
	ctx context.Context,
	adminID string,
	viewerID string,
	recordID uint,
) error {

	record, err := uc.repo.GetRecordOwned(ctx, recordID, adminID)
	if err != nil {
		return err
	}
	if record == nil {
		return httperr.ErrBusiness(httperr.CodeRecordNotFound)
	}

	link, err := uc.repo.GetViewerLink(ctx, recordID, viewerID)
	if err != nil {
		return err
	}
	if link == nil || !link.AllowViewerAccess {
		return nil
	}

	link.AllowViewerAccess = false
	if err := uc.repo.UpdateViewerLink(ctx, link); err != nil {
		return err
	}

	if viewer, err := uc.repo.GetUserByID(ctx, viewerID); err == nil && viewer != nil {
		uc.mail.Dispatch(mail.Message{
			Kind:      mail.KindRevoke,
			Recipient: viewer.Email,
			Params: map[string]string{
				"name":        viewer.FullName,
				"record_name": record.Name,
			},
		})
	}

	return nil
}
