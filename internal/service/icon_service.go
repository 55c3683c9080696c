package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
)

const (
	MaxIconSize    = 2 * 1024 * 1024 // 2MB
	MinIconSide    = 16
	IconSide       = 128
	IconURLExpiry  = 15 * time.Minute
	iconObjectPath = "categories/%d/icon.png"
)

var (
	ErrIconTooLarge             = errors.New("file too large. Maximum size is 2MB")
	ErrInvalidIconFormat        = errors.New("invalid format. Supported: JPEG, PNG, GIF")
	ErrIconTooSmall             = errors.New("image too small. Minimum 16x16 pixels")
	ErrInvalidIconData          = errors.New("invalid image data")
	ErrIconStorageNotConfigured = errors.New("icon storage not configured")
)

// AllowedIconExtensions lists the accepted upload extensions
var AllowedIconExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IconService resizes category icons and keeps them in object storage
type IconService struct {
	store      storage.ObjectStore
	categories *CategoryService
}

// NewIconService creates a new IconService. A nil store disables uploads.
func NewIconService(store storage.ObjectStore, categories *CategoryService) *IconService {
	return &IconService{store: store, categories: categories}
}

// IsEnabled indicates whether uploads/deletes are supported (storage configured).
func (s *IconService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// UploadCategoryIcon fits the image into an IconSide square, stores it as PNG
// and records the object key on the category
func (s *IconService) UploadCategoryIcon(ctx context.Context, userID uuid.UUID, categoryID int32, data []byte, filename string) (*domain.Category, error) {
	if !s.IsEnabled() {
		return nil, ErrIconStorageNotConfigured
	}

	category, err := s.categories.ownedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if len(data) > MaxIconSize {
		return nil, ErrIconTooLarge
	}
	if !AllowedIconExtensions[strings.ToLower(filepath.Ext(filename))] {
		return nil, ErrInvalidIconFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidIconData
	}
	if img.Bounds().Dx() < MinIconSide || img.Bounds().Dy() < MinIconSide {
		return nil, ErrIconTooSmall
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Fit(img, IconSide, IconSide, imaging.Lanczos), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode icon: %w", err)
	}

	key, err := s.store.Upload(ctx, fmt.Sprintf(iconObjectPath, categoryID), bytes.NewReader(buf.Bytes()), "image/png", int64(buf.Len()))
	if err != nil {
		log.Error().Err(err).Int32("category_id", categoryID).Msg("Failed to upload category icon")
		return nil, err
	}

	category.Icon = &key
	return s.categories.categoryRepo.Update(category)
}

// RemoveCategoryIcon deletes the stored icon and clears it on the category
func (s *IconService) RemoveCategoryIcon(ctx context.Context, userID uuid.UUID, categoryID int32) (*domain.Category, error) {
	if !s.IsEnabled() {
		return nil, ErrIconStorageNotConfigured
	}

	category, err := s.categories.ownedCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Icon == nil {
		return category, nil
	}

	if err := s.store.Delete(ctx, *category.Icon); err != nil {
		return nil, err
	}
	category.Icon = nil
	return s.categories.categoryRepo.Update(category)
}

// IconURL returns a short-lived download URL for a category icon, or "" when it has none
func (s *IconService) IconURL(ctx context.Context, category *domain.Category) (string, error) {
	if !s.IsEnabled() || category.Icon == nil {
		return "", nil
	}
	return s.store.GeneratePresignedURL(ctx, *category.Icon, IconURLExpiry)
}
