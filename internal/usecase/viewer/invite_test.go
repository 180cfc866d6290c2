package viewer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/mail"
	"github.com/xthome/home-manager/internal/models"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func setupInvite(t *testing.T) (*fakeRepo, *InviteViewer) {
	t.Helper()
	repo := newFakeRepo()
	repo.addUser(&models.User{ID: "admin-1", Email: "admin@x.com", FullName: "Asim", Role: models.RoleAdmin})
	repo.addRecord(&models.Record{ID: 1, Name: "Lahore Milk", Type: models.RecordTypeMilk, OwnerID: "admin-1"})
	return repo, NewInviteViewer(repo, mail.NewDispatcher(&captureMailer{}))
}

func TestInvite_NewUserProvisioned(t *testing.T) {
	repo, uc := setupInvite(t)

	out, err := uc.Execute(context.Background(), InviteViewerInput{
		Email:     "viewer@x.com",
		RecordID:  1,
		AdminID:   "admin-1",
		AdminName: "Asim",
	})
	require.NoError(t, err)
	require.NotNil(t, out.User)

	assert.Equal(t, models.RoleViewer, out.User.Role)
	assert.Equal(t, "viewer@x.com", out.User.Email)
	require.NotNil(t, out.User.AdminID)
	assert.Equal(t, "admin-1", *out.User.AdminID)
	// Temporary-password marker set ~24h out.
	require.NotNil(t, out.User.PasswordResetTokenExpiry)
	assert.Contains(t, out.Message, "Lahore Milk")

	link, err := repo.GetViewerLink(context.Background(), 1, out.User.ID)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.True(t, link.AllowViewerAccess)
	assert.False(t, link.IsAccepted)
}

func TestInvite_ExistingUserLinked(t *testing.T) {
	repo, uc := setupInvite(t)
	repo.addUser(&models.User{ID: "viewer-1", Email: "viewer@x.com", FullName: "V", Role: models.RoleViewer})

	out, err := uc.Execute(context.Background(), InviteViewerInput{
		Email:    "Viewer@X.com", // normalization
		RecordID: 1,
		AdminID:  "admin-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "viewer-1", out.User.ID)

	link, _ := repo.GetViewerLink(context.Background(), 1, "viewer-1")
	require.NotNil(t, link)
	assert.False(t, link.IsAccepted)
}

func TestInvite_DuplicateReturnsAlreadyViewer(t *testing.T) {
	repo, uc := setupInvite(t)

	_, err := uc.Execute(context.Background(), InviteViewerInput{
		Email: "viewer@x.com", RecordID: 1, AdminID: "admin-1",
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), InviteViewerInput{
		Email: "viewer@x.com", RecordID: 1, AdminID: "admin-1",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyViewer))

	// Still exactly one link.
	assert.Len(t, repo.links, 1)
}

func TestInvite_RecordNotOwned(t *testing.T) {
	repo, uc := setupInvite(t)
	repo.addRecord(&models.Record{ID: 2, Name: "Other", Type: models.RecordTypeRent, OwnerID: "admin-2"})

	_, err := uc.Execute(context.Background(), InviteViewerInput{
		Email: "viewer@x.com", RecordID: 2, AdminID: "admin-1",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecordNotFound))
}

func TestInvite_LegacyNameLookup(t *testing.T) {
	_, uc := setupInvite(t)

	out, err := uc.Execute(context.Background(), InviteViewerInput{
		Email:      "viewer@x.com",
		RecordName: "Lahore Milk",
		AdminID:    "admin-1",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "Lahore Milk")
}

func TestInvite_NoRecordReference(t *testing.T) {
	_, uc := setupInvite(t)

	_, err := uc.Execute(context.Background(), InviteViewerInput{
		Email: "viewer@x.com", AdminID: "admin-1",
	})
	assert.True(t, httperr.IsBusiness(err, httperr.CodeRecordNotFound))
}
