package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/auth"
	"github.com/xthome/home-manager/internal/httperr"
	"github.com/xthome/home-manager/internal/imaging"
	"github.com/xthome/home-manager/internal/models"
	"github.com/xthome/home-manager/internal/storage"
)

const maxProfileImageBytes = 5 << 20

type UserHandler struct {
	db    *gorm.DB
	blobs storage.BlobStore
}

func NewUserHandler(db *gorm.DB, blobs storage.BlobStore) *UserHandler {
	return &UserHandler{db: db, blobs: blobs}
}

// Update changes the caller's own profile: full name, password, and an
// optional profile image. Images are re-encoded as webp before upload so
// the bucket holds one predictable format.
func (h *UserHandler) Update(c *gin.Context) {
	id := currentIdentity(c)

	targetID := c.Param("id")
	if targetID != id.UserID {
		httperr.Forbidden(c, httperr.CodeIdentityMismatch, "You can only update your own profile.")
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", id.UserID).First(&user).Error; err != nil {
		if isNotFound(err) {
			httperr.NotFound(c, httperr.CodeUserNotFound, "User not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Could not load the user.")
		return
	}

	if fullName := c.PostForm("full_name"); fullName != "" {
		user.FullName = fullName
	}

	if password := c.PostForm("password"); password != "" {
		if len(password) < 6 {
			httperr.BadRequest(c, "password_too_short", "Password must be at least 6 characters.")
			return
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Could not process the password.")
			return
		}
		user.PasswordHash = hashed
	}

	oldImage := ""
	if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
		if fh.Size > maxProfileImageBytes {
			httperr.BadRequest(c, "file_too_large", "Profile image exceeds the 5MB limit.")
			return
		}

		f, err := fh.Open()
		if err != nil {
			httperr.Internal(c, "failed_to_read_file", "Could not read the image.")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			httperr.Internal(c, "failed_to_read_file", "Could not read the image.")
			return
		}

		converted, err := imaging.ToWebP(data)
		if err != nil {
			httperr.BadRequest(c, "invalid_image", "Image must be a valid JPEG or PNG.")
			return
		}

		ref, err := h.blobs.Put(c.Request.Context(), converted, "image/webp", ".webp")
		if err != nil {
			logrus.Warnf("profile image upload failed: %v", err)
			httperr.Internal(c, "upload_failed", "Could not store the image.")
			return
		}

		oldImage = user.ImagePath
		user.ImagePath = ref
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update the profile.")
		return
	}

	if oldImage != "" {
		if err := h.blobs.Delete(c.Request.Context(), oldImage); err != nil {
			logrus.WithField("ref", oldImage).Warnf("failed to release old profile image: %v", err)
		}
	}

	c.JSON(http.StatusOK, userPayload(&user))
}
