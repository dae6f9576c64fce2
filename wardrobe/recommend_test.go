package wardrobe

import (
	"context"
	"dresssenseapi/models"
	"dresssenseapi/test"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func seededStore(t *testing.T) *test.CatalogStoreMock {
	t.Helper()
	store := test.NewCatalogStoreMock()
	// still processing, must not take a position in the inventory
	require.NoError(t, store.Create(context.Background(), &models.Clothing{
		UUIDModel:  models.UUIDModel{ID: "in-flight"},
		Status:     models.StatusPending,
		Attributes: datatypes.NewJSONType(models.DefaultAttributeSchema.Filled(models.SentinelUnknown)),
	}))
	store.Add("top-1", models.Attributes{
		models.AttrCategory:       "Top",
		models.AttrPrimaryColor:   "blue",
		models.AttrTypeOfClothing: "shirt",
		models.AttrMaterial:       "cotton",
	})
	store.Add("bottom-1", models.Attributes{
		models.AttrCategory:       "Bottom",
		models.AttrPrimaryColor:   "black",
		models.AttrTypeOfClothing: "jeans",
		models.AttrMaterial:       "denim",
	})
	return store
}

func TestRecommendEndToEnd(t *testing.T) {
	store := seededStore(t)
	model := &test.LanguageModelMock{Response: `{"Outfit": [0,1], "Explanation": "casual pairing", "Styling Tips": "add sneakers"}`}
	recommender := NewRecommender(store, model, 0, zap.NewNop())

	rec, err := recommender.Recommend(context.Background(), "casual friday")
	require.NoError(t, err)

	assert.Equal(t, []string{store.Items["top-1"].ImageURL, store.Items["bottom-1"].ImageURL}, rec.Locators)
	assert.Equal(t, []string{"top-1", "bottom-1"}, rec.ItemIDs)
	assert.Equal(t, "casual pairing", rec.Explanation)
	assert.Equal(t, "add sneakers", rec.StylingTips)
	assert.Empty(t, rec.Warnings)

	assert.Equal(t, 1, store.ScanCalls)
	require.Len(t, model.Prompts, 1)
	assert.Contains(t, model.Prompts[0], "[Item 0] blue shirt, cotton")
	assert.Contains(t, model.Prompts[0], "[Item 1] black jeans, denim")
	assert.Contains(t, model.Prompts[0], "User request: casual friday")
	assert.NotContains(t, model.Prompts[0], "[Item 2]")
}

func TestRecommendWarnsOnDroppedIndex(t *testing.T) {
	store := seededStore(t)
	model := &test.LanguageModelMock{Response: `{"Outfit": [0, 5], "Explanation": "x", "Styling Tips": "y"}`}

	rec, err := NewRecommender(store, model, 0, zap.NewNop()).Recommend(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, []string{"top-1"}, rec.ItemIDs)
	assert.Len(t, rec.Warnings, 1)
}

func TestRecommendFailures(t *testing.T) {
	ctx := context.Background()

	_, err := NewRecommender(test.NewCatalogStoreMock(), &test.LanguageModelMock{}, 0, zap.NewNop()).Recommend(ctx, "office")
	assert.True(t, errors.Is(err, models.ErrEmptyInventory))

	_, err = NewRecommender(seededStore(t), &test.LanguageModelMock{}, 0, zap.NewNop()).Recommend(ctx, "   ")
	assert.True(t, errors.Is(err, models.ErrInvalidFieldValue))

	_, err = NewRecommender(seededStore(t), &test.LanguageModelMock{Err: context.DeadlineExceeded}, 0, zap.NewNop()).Recommend(ctx, "office")
	assert.True(t, errors.Is(err, models.ErrRecommendationFailed))

	_, err = NewRecommender(seededStore(t), &test.LanguageModelMock{Response: `{"Outfit": [0,1]}`}, 0, zap.NewNop()).Recommend(ctx, "office")
	assert.True(t, errors.Is(err, models.ErrMalformedRecommendation))

	_, err = NewRecommender(seededStore(t), &test.LanguageModelMock{Response: `{"Outfit": [9], "Explanation": "x", "Styling Tips": "y"}`}, 0, zap.NewNop()).Recommend(ctx, "office")
	assert.True(t, errors.Is(err, models.ErrEmptyResolvedOutfit))
}
