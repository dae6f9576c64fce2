package wardrobe

import (
	"context"
	"dresssenseapi/models"
	"strings"

	"github.com/google/uuid"
)

type OutfitStore interface {
	Create(ctx context.Context, outfit *models.Outfit) error
	List(ctx context.Context) ([]models.Outfit, error)
}

// OutfitBook saves recommendations the user wants to keep. Saved outfits are
// never modified.
type OutfitBook struct {
	Store OutfitStore
	NewID func() string
}

func NewOutfitBook(store OutfitStore) *OutfitBook {
	return &OutfitBook{Store: store, NewID: uuid.NewString}
}

func (b *OutfitBook) SaveOutfit(ctx context.Context, locators []string, prompt, explanation, stylingTips string) (*models.Outfit, error) {
	kept := make([]string, 0, len(locators))
	for _, locator := range locators {
		if locator = strings.TrimSpace(locator); locator != "" {
			kept = append(kept, locator)
		}
	}
	if len(kept) == 0 {
		return nil, models.ErrEmptyResolvedOutfit
	}

	outfit := &models.Outfit{
		UUIDModel:   models.UUIDModel{ID: b.NewID()},
		ImageURLs:   kept,
		Prompt:      prompt,
		Explanation: explanation,
		StylingTips: stylingTips,
	}
	if err := b.Store.Create(ctx, outfit); err != nil {
		return nil, err
	}
	return outfit, nil
}

func (b *OutfitBook) ListOutfits(ctx context.Context) ([]models.Outfit, error) {
	return b.Store.List(ctx)
}
