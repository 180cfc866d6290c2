package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xthome/home-manager/internal/auth"
	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/mail"
	"github.com/xthome/home-manager/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type InviteViewerInput struct {
	Email string

	// RecordID is the canonical reference. RecordName is a deprecated
	// compatibility path for callers that still send names; first match
	// wins when an admin reuses a name.
	RecordID   uint
	RecordName string

	AdminID   string
	AdminName string
}

type InviteViewerOutput struct {
	User    *models.User
	Message string
}

// ======================================================
// USE CASE
// ======================================================

type InviteViewer struct {
	repo domain.Repository
	mail *mail.Dispatcher
}

func NewInviteViewer(
	repo domain.Repository,
	mail *mail.Dispatcher,
) *InviteViewer {
	return &InviteViewer{
		repo: repo,
		mail: mail,
	}
}

func (uc *InviteViewer) Execute(
	ctx context.Context,
	in InviteViewerInput,
) (*InviteViewerOutput, error) {

	record, err := uc.resolveRecord(ctx, in)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, httperr.ErrBusiness(httperr.CodeRecordNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := uc.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		link, err := uc.repo.GetViewerLink(ctx, record.ID, existing.ID)
		if err != nil {
			return nil, err
		}
		if link != nil {
			return nil, httperr.ErrBusiness(httperr.CodeAlreadyViewer)
		}

		if err := uc.repo.CreateViewerLink(ctx, &models.RecordViewer{
			RecordID:          record.ID,
			ViewerID:          existing.ID,
			AllowViewerAccess: true,
			IsAccepted:        false,
		}); err != nil {
			return nil, err
		}

		uc.mail.Dispatch(mail.Message{
			Kind:      mail.KindInvite,
			Recipient: existing.Email,
			Params: map[string]string{
				"name":         existing.FullName,
				"inviter_name": in.AdminName,
				"record_name":  record.Name,
			},
		})

		return &InviteViewerOutput{
			User:    existing,
			Message: fmt.Sprintf("User %s added as viewer for %s. Notification sent.", email, record.Name),
		}, nil
	}

	// No account yet: provision a viewer with a temporary password that
	// must be replaced within 24 hours.
	tempPassword := generateTempPassword()
	hashed, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(24 * time.Hour)
	newUser := &models.User{
		ID:                       uuid.NewString(),
		Email:                    email,
		FullName:                 strings.SplitN(email, "@", 2)[0],
		PasswordHash:             hashed,
		Role:                     models.RoleViewer,
		AdminID:                  &in.AdminID,
		PasswordResetTokenExpiry: &expiry,
	}
	if err := uc.repo.CreateUser(ctx, newUser); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateViewerLink(ctx, &models.RecordViewer{
		RecordID:          record.ID,
		ViewerID:          newUser.ID,
		AllowViewerAccess: true,
		IsAccepted:        false,
	}); err != nil {
		return nil, err
	}

	uc.mail.Dispatch(mail.Message{
		Kind:      mail.KindInvite,
		Recipient: newUser.Email,
		Params: map[string]string{
			"name":          newUser.FullName,
			"inviter_name":  in.AdminName,
			"record_name":   record.Name,
			"temp_password": tempPassword,
		},
	})

	return &InviteViewerOutput{
		User:    newUser,
		Message: fmt.Sprintf("New user %s invited as viewer for %s.", email, record.Name),
	}, nil
}

func (uc *InviteViewer) resolveRecord(
	ctx context.Context,
	in InviteViewerInput,
) (*models.Record, error) {
	if in.RecordID > 0 {
		return uc.repo.GetRecordOwned(ctx, in.RecordID, in.AdminID)
	}
	if in.RecordName != "" {
		return uc.repo.GetRecordOwnedByName(ctx, in.RecordName, in.AdminID)
	}
	return nil, nil
}

func generateTempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
