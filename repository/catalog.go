package repository

import (
	"context"
	"dresssenseapi/models"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var inFlight = []string{string(models.StatusPending), string(models.StatusProcessing)}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Create(ctx context.Context, item *models.Clothing) error {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&models.Clothing{}).Where("id = ?", item.ID).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check clothing %s: %w", item.ID, err)
	}
	if existing > 0 {
		return fmt.Errorf("clothing id collision: %s", item.ID)
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create clothing %s: %w", item.ID, err)
	}
	return nil
}

func (r *CatalogRepository) MarkProcessing(ctx context.Context, id string, attrs models.Attributes) error {
	res := r.db.WithContext(ctx).Model(&models.Clothing{}).
		Where("id = ? AND status = ?", id, string(models.StatusPending)).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"attributes": datatypes.NewJSONType(attrs),
		})
	return r.checkTransition(ctx, id, res)
}

// UpdateAttributes is the single write that moves an item to processed.
func (r *CatalogRepository) UpdateAttributes(ctx context.Context, id string, attrs models.Attributes, processedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.Clothing{}).
		Where("id = ? AND status IN ?", id, inFlight).
		Updates(map[string]interface{}{
			"status":                models.StatusProcessed,
			"attributes":            datatypes.NewJSONType(attrs),
			"processed_at":          processedAt,
			"process_error_message": nil,
		})
	return r.checkTransition(ctx, id, res)
}

func (r *CatalogRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	res := r.db.WithContext(ctx).Model(&models.Clothing{}).
		Where("id = ? AND status IN ?", id, inFlight).
		Updates(map[string]interface{}{
			"status":                models.StatusFailed,
			"process_error_message": reason,
		})
	return r.checkTransition(ctx, id, res)
}

// UpdateFields renames the item and merges attrs into the stored attributes.
func (r *CatalogRepository) UpdateFields(ctx context.Context, id string, name *string, attrs models.Attributes) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Clothing
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return notFound(id, err)
		}

		updates := map[string]interface{}{}
		if name != nil {
			updates["name"] = *name
		}
		if len(attrs) > 0 {
			merged := models.Attributes{}
			for k, v := range item.Attributes.Data() {
				merged[k] = v
			}
			for k, v := range attrs {
				merged[k] = v
			}
			updates["attributes"] = datatypes.NewJSONType(merged)
		}
		if len(updates) == 0 {
			return models.ErrNoFieldsProvided
		}
		return tx.Model(&models.Clothing{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r *CatalogRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	res := r.db.WithContext(ctx).Model(&models.Clothing{}).Where("id = ?", id).Update("favorite", favorite)
	if res.Error != nil {
		return fmt.Errorf("failed to update favorite of %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *CatalogRepository) Get(ctx context.Context, id string) (*models.Clothing, error) {
	var item models.Clothing
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(id, err)
	}
	return &item, nil
}

// ScanAll returns every item in upload order.
func (r *CatalogRepository) ScanAll(ctx context.Context) ([]models.Clothing, error) {
	var items []models.Clothing
	if err := r.db.WithContext(ctx).Order("created_at asc, id asc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list clothes: %w", err)
	}
	return items, nil
}

func (r *CatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Clothing{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clothes: %w", err)
	}
	return count, nil
}

// FailStale marks items created before the cutoff that never left
// pending/processing as failed.
func (r *CatalogRepository) FailStale(ctx context.Context, before time.Time, reason string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Clothing{}).
		Where("status IN ? AND created_at < ?", inFlight, before).
		Updates(map[string]interface{}{
			"status":                models.StatusFailed,
			"process_error_message": reason,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep stale clothes: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *CatalogRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Clothing{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete clothing %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// checkTransition turns a conditional update that matched nothing into
// NotFound or InvalidTransition.
func (r *CatalogRepository) checkTransition(ctx context.Context, id string, res *gorm.DB) error {
	if res.Error != nil {
		return fmt.Errorf("failed to update clothing %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var item models.Clothing
	if err := r.db.WithContext(ctx).Select("id", "status").First(&item, "id = ?", id).Error; err != nil {
		return notFound(id, err)
	}
	return fmt.Errorf("clothing %s is %s: %w", id, item.Status, models.ErrInvalidTransition)
}

func notFound(id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	return fmt.Errorf("failed to load clothing %s: %w", id, err)
}
