package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestBannerStore_ActiveOnly(t *testing.T) {
	db := newTestDB(t)
	banners := NewBannerStore(db, newRecordingBlobs())
	ctx := context.Background()

	spring, err := banners.Create(ctx, BannerInput{Name: "Spring", Image: pngUpload("spring.png")})
	require.NoError(t, err)
	assert.True(t, spring.Active, "active by default")

	_, err = banners.Create(ctx, BannerInput{Name: "Retired", Image: pngUpload("retired.png"), Active: boolPtr(false)})
	require.NoError(t, err)
	summer, err := banners.Create(ctx, BannerInput{Name: "Summer", Image: pngUpload("summer.png"), Active: boolPtr(true)})
	require.NoError(t, err)

	active, err := banners.ActiveOnly(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, summer.ID, active[0].ID)
	assert.Equal(t, spring.ID, active[1].ID)

	page, err := banners.List(ctx, BannerFilter{Active: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Retired", page.Results[0].Name)
	assert.False(t, page.Results[0].Active)

	page, err = banners.List(ctx, BannerFilter{Search: "umm"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, summer.ID, page.Results[0].ID)
}

func TestBannerStore_CreateValidation(t *testing.T) {
	blobs := newRecordingBlobs()
	banners := NewBannerStore(newTestDB(t), blobs)

	_, err := banners.Create(context.Background(), BannerInput{Name: " "})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "image")
	assert.Empty(t, blobs.objects)
}

func TestBannerStore_UpdateAndDelete(t *testing.T) {
	blobs := newRecordingBlobs()
	banners := NewBannerStore(newTestDB(t), blobs)
	ctx := context.Background()

	banner, err := banners.Create(ctx, BannerInput{Name: "Spring", Image: pngUpload("spring.png")})
	require.NoError(t, err)

	updated, err := banners.Update(ctx, banner.ID, BannerUpdate{Active: boolPtr(false), Image: pngUpload("autumn.png")})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, "Spring", updated.Name)
	assert.Equal(t, "banners/autumn.png", updated.Image)
	assert.False(t, blobs.has("banners/spring.png"))

	fetched, err := banners.Get(ctx, banner.ID)
	require.NoError(t, err)
	assert.False(t, fetched.Active)

	active, err := banners.ActiveOnly(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = banners.Update(ctx, 999, BannerUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, banners.Delete(ctx, banner.ID))
	assert.False(t, blobs.has("banners/autumn.png"))
	assert.ErrorIs(t, banners.Delete(ctx, banner.ID), ErrNotFound)
}
