package models

import "time"

// RecordViewer is one viewer's access grant to one record. The composite
// unique index is what guarantees at most one grant per (record, viewer)
// pair under concurrent invites.
type RecordViewer struct {
	ID uint `gorm:"primaryKey" json:"-"`

	RecordID uint   `gorm:"uniqueIndex:idx_record_viewer;not null" json:"record_id"`
	Record   Record `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ViewerID string `gorm:"size:36;uniqueIndex:idx_record_viewer;not null" json:"viewer_id"`
	Viewer   User   `gorm:"foreignKey:ViewerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// false marks a revoked-but-retained grant.
	AllowViewerAccess bool `gorm:"default:true" json:"allow_viewer_access"`
	// set once the viewer claims the invite.
	IsAccepted bool `gorm:"default:false" json:"is_accepted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grants reports whether this link currently confers read access.
func (rv *RecordViewer) Grants() bool {
	return rv.AllowViewerAccess && rv.IsAccepted
}
