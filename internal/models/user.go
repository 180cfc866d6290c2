package models

import "time"

const (
	RoleAdmin  = "Admin"
	RoleViewer = "Viewer"
)

type User struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FullName     string `gorm:"size:100;not null" json:"full_name"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'Admin'" json:"role"`

	// For viewers: the admin who sent the invite. Informational only,
	// actual access goes through RecordViewer links.
	AdminID *string `gorm:"size:36" json:"admin_id,omitempty"`

	ImagePath string `gorm:"size:255" json:"image_path,omitempty"`

	PasswordResetToken       *string    `gorm:"size:128" json:"-"`
	PasswordResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MustChangePassword reports whether the user is still on the temporary
// password issued at invite time.
func (u *User) MustChangePassword(now time.Time) bool {
	return u.PasswordResetToken == nil &&
		u.PasswordResetTokenExpiry != nil &&
		u.PasswordResetTokenExpiry.After(now)
}

// EffectiveAdminScope is the admin identity whose data the user may act
// within: the inviting admin for viewers, the user itself for admins.
func (u *User) EffectiveAdminScope() string {
	if u.Role == RoleViewer && u.AdminID != nil && *u.AdminID != "" {
		return *u.AdminID
	}
	return u.ID
}
