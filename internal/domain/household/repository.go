package household

import (
	"context"

	"github.com/xthome/home-manager/internal/models"
)

// InvitedViewer is a viewer user annotated with the per-record state of
// every grant that touches the asking admin's records.
type InvitedViewer struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	FullName string        `json:"full_name"`
	Role     string        `json:"role"`
	Records  []SharedState `json:"records"`
}

type SharedState struct {
	RecordID   uint   `json:"record_id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Allowed    bool   `json:"allowed"`
	IsAccepted bool   `json:"is_accepted"`
}

// EntryCounts aggregates entry totals across a set of records.
type EntryCounts struct {
	Milk  int64
	Bills int64
	Rent  int64
}

type Repository interface {
	// -------- Records --------
	GetRecordByID(
		ctx context.Context,
		recordID uint,
	) (*models.Record, error)

	GetRecordOwned(
		ctx context.Context,
		recordID uint,
		ownerID string,
	) (*models.Record, error)

	ListRecordsOwned(
		ctx context.Context,
		ownerID string,
	) ([]models.Record, error)

	// Legacy compatibility: resolve by name within an owner's records.
	// Ambiguous when names collide; first match wins.
	GetRecordOwnedByName(
		ctx context.Context,
		name string,
		ownerID string,
	) (*models.Record, error)

	// -------- Users --------
	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	GetUserByID(
		ctx context.Context,
		userID string,
	) (*models.User, error)

	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	UpdateUser(
		ctx context.Context,
		user *models.User,
	) error

	// -------- Viewer links --------
	GetViewerLink(
		ctx context.Context,
		recordID uint,
		viewerID string,
	) (*models.RecordViewer, error)

	// ListViewerLinks returns every grant row held by the viewer,
	// regardless of accept/allow state.
	ListViewerLinks(
		ctx context.Context,
		viewerID string,
	) ([]models.RecordViewer, error)

	// CreateViewerLink relies on the storage-level unique constraint on
	// (record_id, viewer_id); concurrent duplicate invites surface here
	// as an error, never as a second row.
	CreateViewerLink(
		ctx context.Context,
		link *models.RecordViewer,
	) error

	UpdateViewerLink(
		ctx context.Context,
		link *models.RecordViewer,
	) error

	// AcceptPendingLinks marks every unaccepted grant of the viewer as
	// accepted.
	AcceptPendingLinks(
		ctx context.Context,
		viewerID string,
	) error

	ListInvitedViewers(
		ctx context.Context,
		adminID string,
	) ([]InvitedViewer, error)

	// CountEntries totals milk, bill, and rent entries within the given
	// records only.
	CountEntries(
		ctx context.Context,
		recordIDs []uint,
	) (EntryCounts, error)
}
