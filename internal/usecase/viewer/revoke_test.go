package viewer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/mail"
	"github.com/xthome/home-manager/internal/models"
)

func setupRevoke(t *testing.T) (*fakeRepo, *RevokeViewer) {
	t.Helper()
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: "admin-1", Email: "admin@x.com", Role: models.RoleAdmin})
	repo.addUser(&models.User{ID: "viewer-1", Email: "viewer@x.com", Role: models.RoleViewer})
	repo.addRecord(&models.Record{ID: 1, Name: "Lahore Milk", Type: models.RecordTypeMilk, OwnerID: "admin-1"})
	return repo, NewRevokeViewer(repo, mail.NewDispatcher(&captureMailer{}))
}

func TestRevoke_ActiveGrant(t *testing.T) {
	repo, uc := setupRevoke(t)
	repo.links = append(repo.links, &models.RecordViewer{
		RecordID: 1, ViewerID: "viewer-1", AllowViewerAccess: true, IsAccepted: true,
	})

	err := uc.Execute(context.Background(), "admin-1", "viewer-1", 1)
	require.NoError(t, err)

	link, _ := repo.GetViewerLink(context.Background(), 1, "viewer-1")
	require.NotNil(t, link)
	// Soft revoke: the row stays, access flag flips.
	assert.False(t, link.AllowViewerAccess)
	assert.True(t, link.IsAccepted)
}

func TestRevoke_MissingGrantIsNoop(t *testing.T) {
	_, uc := setupRevoke(t)

	err := uc.Execute(context.Background(), "admin-1", "viewer-1", 1)
	assert.NoError(t, err)
}

func TestRevoke_AlreadyRevokedIsNoop(t *testing.T) {
	repo, uc := setupRevoke(t)
	repo.links = append(repo.links, &models.RecordViewer{
		RecordID: 1, ViewerID: "viewer-1", AllowViewerAccess: false, IsAccepted: true,
	})

	err := uc.Execute(context.Background(), "admin-1", "viewer-1", 1)
	assert.NoError(t, err)
}

func TestRevoke_RecordNotOwned(t *testing.T) {
	repo, uc := setupRevoke(t)
	repo.addRecord(&models.Record{ID: 2, Name: "Other", OwnerID: "admin-2"})

	err := uc.Execute(context.Background(), "admin-1", "viewer-1", 2)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecordNotFound))
}
