package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

// MaxPhotoBytes caps a single upload.
const MaxPhotoBytes = 10 << 20

var photoExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

type PhotoService struct {
	db    *gorm.DB
	store clients.ObjectStore
	log   *logger.Logger
}

func NewPhotoService(db *gorm.DB, store clients.ObjectStore, log *logger.Logger) *PhotoService {
	return &PhotoService{db: db, store: store, log: log.With("service", "PhotoService")}
}

// PhotoKey places an object under its owner and customer. The ULID suffix
// sorts by upload time.
func PhotoKey(userID, customerID uuid.UUID, ext string) string {
	return fmt.Sprintf("%s/%s/%s%s", userID, customerID, ulid.Make().String(), ext)
}

func (s *PhotoService) List(ctx context.Context, userID, customerID uuid.UUID) ([]models.CustomerPhoto, error) {
	var photos []models.CustomerPhoto
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ?", userID, customerID).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, persistErr("list photos", err)
	}
	return photos, nil
}

// Upload stores the image and then records it. If recording fails the stored
// object is removed again.
func (s *PhotoService) Upload(ctx context.Context, userID, customerID uuid.UUID, filename, description string, body io.Reader) (*models.CustomerPhoto, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !photoExtensions[ext] {
		return nil, invalid("Upload a JPG, PNG, WEBP or GIF image.")
	}

	var owner models.Customer
	err := s.db.WithContext(ctx).Select("id").Where("user_id = ? AND id = ?", userID, customerID).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Customer not found")
	}
	if err != nil {
		return nil, persistErr("load customer", err)
	}

	key := PhotoKey(userID, customerID, ext)
	if err := s.store.Upload(ctx, key, io.LimitReader(body, MaxPhotoBytes)); err != nil {
		if errors.Is(err, clients.ErrStorageDisabled) {
			return nil, unavailable("Photo storage is not configured")
		}
		return nil, persistErr("upload photo", err)
	}

	photo := &models.CustomerPhoto{
		UserID:      userID,
		CustomerID:  customerID,
		ObjectKey:   key,
		PhotoURL:    s.store.PublicURL(key),
		Description: strings.TrimSpace(description),
	}
	if err := s.db.WithContext(ctx).Create(photo).Error; err != nil {
		s.removeObjects(ctx, []string{key})
		return nil, persistErr("save photo", err)
	}
	return photo, nil
}

func (s *PhotoService) Delete(ctx context.Context, userID, customerID, photoID uuid.UUID) error {
	var photo models.CustomerPhoto
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND customer_id = ? AND id = ?", userID, customerID, photoID).
		First(&photo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("Photo not found")
	}
	if err != nil {
		return persistErr("load photo", err)
	}
	if err := s.db.WithContext(ctx).Delete(&photo).Error; err != nil {
		return persistErr("delete photo", err)
	}
	s.removeObjects(ctx, []string{photo.ObjectKey})
	return nil
}

// removeObjects is best-effort: a leftover object never fails the request.
func (s *PhotoService) removeObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, clients.ErrStorageDisabled) {
			s.log.Warn("failed to delete photo object", "key", key, "error", err)
		}
	}
}
