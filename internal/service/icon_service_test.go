package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
	"github.com/moneyflow/moneyflow-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func setupIcons(t *testing.T) (*IconService, *testutil.MockObjectStore, *testutil.MockCategoryRepository, uuid.UUID) {
	t.Helper()
	store := testutil.NewMockObjectStore()
	repo := testutil.NewMockCategoryRepository()
	userID := uuid.New()
	repo.AddCategory(&domain.Category{ID: 1, Name: "Food", Color: "#000000"})
	repo.AddCategory(&domain.Category{ID: 2, Name: "Games", Color: "#000000", UserID: &userID})
	return NewIconService(store, NewCategoryService(repo)), store, repo, userID
}

func TestIconService_UploadResizes(t *testing.T) {
	service, store, repo, userID := setupIcons(t)

	category, err := service.UploadCategoryIcon(context.Background(), userID, 2, testPNG(t, 512, 256), "icon.PNG")
	require.NoError(t, err)
	require.NotNil(t, category.Icon)
	assert.Equal(t, "categories/2/icon.png", *category.Icon)
	assert.Equal(t, "categories/2/icon.png", *repo.Categories[2].Icon)
	assert.Equal(t, "image/png", store.Types["categories/2/icon.png"])

	stored, err := png.Decode(bytes.NewReader(store.Objects["categories/2/icon.png"]))
	require.NoError(t, err)
	assert.Equal(t, IconSide, stored.Bounds().Dx())
	assert.Equal(t, IconSide/2, stored.Bounds().Dy())

	url, err := service.IconURL(context.Background(), category)
	require.NoError(t, err)
	assert.Contains(t, url, "categories/2/icon.png")
}

func TestIconService_Rejections(t *testing.T) {
	service, _, _, userID := setupIcons(t)
	ctx := context.Background()

	_, err := service.UploadCategoryIcon(ctx, userID, 1, testPNG(t, 64, 64), "icon.png")
	assert.ErrorIs(t, err, domain.ErrGlobalCategory)

	_, err = service.UploadCategoryIcon(ctx, uuid.New(), 2, testPNG(t, 64, 64), "icon.png")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = service.UploadCategoryIcon(ctx, userID, 2, testPNG(t, 64, 64), "icon.bmp")
	assert.ErrorIs(t, err, ErrInvalidIconFormat)

	_, err = service.UploadCategoryIcon(ctx, userID, 2, []byte("not an image"), "icon.png")
	assert.ErrorIs(t, err, ErrInvalidIconData)

	_, err = service.UploadCategoryIcon(ctx, userID, 2, testPNG(t, 8, 8), "icon.png")
	assert.ErrorIs(t, err, ErrIconTooSmall)

	_, err = service.UploadCategoryIcon(ctx, userID, 2, make([]byte, MaxIconSize+1), "icon.png")
	assert.ErrorIs(t, err, ErrIconTooLarge)
}

func TestIconService_UploadFailure(t *testing.T) {
	service, store, repo, userID := setupIcons(t)
	store.UploadErr = errors.New("bucket gone")

	_, err := service.UploadCategoryIcon(context.Background(), userID, 2, testPNG(t, 64, 64), "icon.png")
	assert.ErrorIs(t, err, store.UploadErr)
	assert.Nil(t, repo.Categories[2].Icon)
}

func TestIconService_Remove(t *testing.T) {
	service, store, repo, userID := setupIcons(t)
	_, err := service.UploadCategoryIcon(context.Background(), userID, 2, testPNG(t, 64, 64), "icon.png")
	require.NoError(t, err)

	category, err := service.RemoveCategoryIcon(context.Background(), userID, 2)
	require.NoError(t, err)
	assert.Nil(t, category.Icon)
	assert.Nil(t, repo.Categories[2].Icon)
	assert.Empty(t, store.Objects)
}

func TestIconService_Disabled(t *testing.T) {
	service := NewIconService(nil, NewCategoryService(testutil.NewMockCategoryRepository()))
	assert.False(t, service.IsEnabled())

	_, err := service.UploadCategoryIcon(context.Background(), uuid.New(), 1, nil, "icon.png")
	assert.ErrorIs(t, err, ErrIconStorageNotConfigured)

	url, err := service.IconURL(context.Background(), &domain.Category{})
	assert.NoError(t, err)
	assert.Empty(t, url)
}
