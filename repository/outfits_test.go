package repository

import (
	"context"
	"dresssenseapi/dbhelper"
	"dresssenseapi/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutfitsNewestFirst(t *testing.T) {
	db := dbhelper.SetupTestDB()
	defer dbhelper.SetupCleaner(db)()
	repo := NewOutfitRepository(db)
	ctx := context.Background()

	older := &models.Outfit{
		UUIDModel:   models.UUIDModel{ID: "o1", CreatedAt: time.Now().Add(-time.Hour)},
		ImageURLs:   []string{"u1", "u2"},
		Prompt:      "office",
		Explanation: "smart",
	}
	newer := &models.Outfit{
		UUIDModel:   models.UUIDModel{ID: "o2", CreatedAt: time.Now()},
		ImageURLs:   []string{"u3"},
		StylingTips: "roll the sleeves",
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	outfits, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, outfits, 2)
	assert.Equal(t, "o2", outfits[0].ID)
	assert.Equal(t, "o1", outfits[1].ID)
	assert.Equal(t, []string{"u1", "u2"}, []string(outfits[1].ImageURLs))
}
