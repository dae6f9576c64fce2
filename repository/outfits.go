package repository

import (
	"context"
	"dresssenseapi/models"
	"fmt"

	"gorm.io/gorm"
)

type OutfitRepository struct {
	db *gorm.DB
}

func NewOutfitRepository(db *gorm.DB) *OutfitRepository {
	return &OutfitRepository{db: db}
}

func (r *OutfitRepository) Create(ctx context.Context, outfit *models.Outfit) error {
	if err := r.db.WithContext(ctx).Create(outfit).Error; err != nil {
		return fmt.Errorf("failed to save outfit: %w", err)
	}
	return nil
}

// List returns outfits newest first.
func (r *OutfitRepository) List(ctx context.Context) ([]models.Outfit, error) {
	var outfits []models.Outfit
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&outfits).Error; err != nil {
		return nil, fmt.Errorf("failed to list outfits: %w", err)
	}
	return outfits, nil
}
