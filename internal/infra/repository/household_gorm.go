package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/xthome/home-manager/internal/domain/household"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/models"
)

type HouseholdGormRepository struct {
	db *gorm.DB
}

func NewHouseholdGormRepository(db *gorm.DB) *HouseholdGormRepository {
	return &HouseholdGormRepository{db: db}
}

var _ domain.Repository = (*HouseholdGormRepository)(nil)

// --------------------------------------------------
// Records
// --------------------------------------------------

func (r *HouseholdGormRepository) GetRecordByID(
	ctx context.Context,
	recordID uint,
) (*models.Record, error) {

	var record models.Record
	if err := r.db.WithContext(ctx).First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *HouseholdGormRepository) GetRecordOwned(
	ctx context.Context,
	recordID uint,
	ownerID string,
) (*models.Record, error) {

	var record models.Record
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", recordID, ownerID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *HouseholdGormRepository) ListRecordsOwned(
	ctx context.Context,
	ownerID string,
) ([]models.Record, error) {

	var records []models.Record
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *HouseholdGormRepository) GetRecordOwnedByName(
	ctx context.Context,
	name string,
	ownerID string,
) (*models.Record, error) {

	var record models.Record
	if err := r.db.WithContext(ctx).
		Where("name = ? AND owner_id = ?", name, ownerID).
		Order("id ASC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *HouseholdGormRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *HouseholdGormRepository) GetUserByID(
	ctx context.Context,
	userID string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *HouseholdGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return httperr.ErrBusiness(httperr.CodeEmailTaken)
	}
	return err
}

func (r *HouseholdGormRepository) UpdateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// --------------------------------------------------
// Viewer links
// --------------------------------------------------

func (r *HouseholdGormRepository) GetViewerLink(
	ctx context.Context,
	recordID uint,
	viewerID string,
) (*models.RecordViewer, error) {

	var link models.RecordViewer
	if err := r.db.WithContext(ctx).
		Where("record_id = ? AND viewer_id = ?", recordID, viewerID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (r *HouseholdGormRepository) ListViewerLinks(
	ctx context.Context,
	viewerID string,
) ([]models.RecordViewer, error) {

	var links []models.RecordViewer
	if err := r.db.WithContext(ctx).
		Where("viewer_id = ?", viewerID).
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *HouseholdGormRepository) CreateViewerLink(
	ctx context.Context,
	link *models.RecordViewer,
) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// the unique index on (record_id, viewer_id) caught a concurrent
		// duplicate invite
		return httperr.ErrBusiness(httperr.CodeAlreadyViewer)
	}
	return err
}

func (r *HouseholdGormRepository) UpdateViewerLink(
	ctx context.Context,
	link *models.RecordViewer,
) error {
	return r.db.WithContext(ctx).Save(link).Error
}

func (r *HouseholdGormRepository) AcceptPendingLinks(
	ctx context.Context,
	viewerID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.RecordViewer{}).
		Where("viewer_id = ? AND is_accepted = ?", viewerID, false).
		Update("is_accepted", true).Error
}

func (r *HouseholdGormRepository) ListInvitedViewers(
	ctx context.Context,
	adminID string,
) ([]domain.InvitedViewer, error) {

	var links []models.RecordViewer
	if err := r.db.WithContext(ctx).
		Joins("JOIN records ON records.id = record_viewers.record_id").
		Where("records.owner_id = ?", adminID).
		Preload("Record").
		Preload("Viewer").
		Find(&links).Error; err != nil {
		return nil, err
	}

	byViewer := make(map[string]*domain.InvitedViewer)
	var order []string
	for _, link := range links {
		if link.Viewer.Role != models.RoleViewer {
			continue
		}
		iv, ok := byViewer[link.ViewerID]
		if !ok {
			iv = &domain.InvitedViewer{
				ID:       link.Viewer.ID,
				Email:    link.Viewer.Email,
				FullName: link.Viewer.FullName,
				Role:     link.Viewer.Role,
			}
			byViewer[link.ViewerID] = iv
			order = append(order, link.ViewerID)
		}
		iv.Records = append(iv.Records, domain.SharedState{
			RecordID:   link.Record.ID,
			Name:       link.Record.Name,
			Type:       link.Record.Type,
			Allowed:    link.AllowViewerAccess,
			IsAccepted: link.IsAccepted,
		})
	}

	out := make([]domain.InvitedViewer, 0, len(order))
	for _, id := range order {
		out = append(out, *byViewer[id])
	}
	return out, nil
}

// --------------------------------------------------
// Entry counts
// --------------------------------------------------

func (r *HouseholdGormRepository) CountEntries(
	ctx context.Context,
	recordIDs []uint,
) (domain.EntryCounts, error) {

	var counts domain.EntryCounts
	if len(recordIDs) == 0 {
		return counts, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&models.MilkEntry{}).
		Where("record_id IN ?", recordIDs).
		Count(&counts.Milk).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.BillEntry{}).
		Where("record_id IN ?", recordIDs).
		Count(&counts.Bills).Error; err != nil {
		return counts, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.RentEntry{}).
		Where("record_id IN ?", recordIDs).
		Count(&counts.Rent).Error; err != nil {
		return counts, err
	}
	return counts, nil
}
