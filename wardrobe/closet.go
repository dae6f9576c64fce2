package wardrobe

import (
	"context"
	"dresssenseapi/models"
	"dresssenseapi/services"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// CatalogStore persists catalog items. Conditional transitions report
// models.ErrInvalidTransition, unknown ids models.ErrNotFound.
type CatalogStore interface {
	Create(ctx context.Context, item *models.Clothing) error
	MarkProcessing(ctx context.Context, id string, attrs models.Attributes) error
	UpdateAttributes(ctx context.Context, id string, attrs models.Attributes, processedAt time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
	UpdateFields(ctx context.Context, id string, name *string, attrs models.Attributes) error
	SetFavorite(ctx context.Context, id string, favorite bool) error
	Get(ctx context.Context, id string) (*models.Clothing, error)
	ScanAll(ctx context.Context) ([]models.Clothing, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

// OrphanReporter hands stored objects that could not be deleted to a cleanup worker.
type OrphanReporter interface {
	ReportOrphanedImage(ctx context.Context, key string) error
}

type ImageProcessor interface {
	Process(raw []byte, fileName, contentType string) ([]byte, string, error)
}

type AttributeExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string, productName string) (models.Attributes, error)
}

// Upload is one file of an upload request.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
	// Optional display name, also passed to the extractor as product name.
	Name string
}

type UploadResult struct {
	FileName string
	Item     *models.Clothing
	Err      error
}

// Closet owns the item lifecycle: pending -> processing -> processed | failed.
type Closet struct {
	Store     CatalogStore
	Objects   services.ObjectStore
	Images    ImageProcessor
	Extractor AttributeExtractor
	Orphans   OrphanReporter
	Schema    models.AttributeSchema
	Logger    *zap.Logger

	NewID func() string
	Now   func() time.Time
}

func NewCloset(store CatalogStore, objects services.ObjectStore, images ImageProcessor, extractor AttributeExtractor, orphans OrphanReporter, schema models.AttributeSchema, logger *zap.Logger) *Closet {
	return &Closet{
		Store:     store,
		Objects:   objects,
		Images:    images,
		Extractor: extractor,
		Orphans:   orphans,
		Schema:    schema,
		Logger:    logger,
		NewID:     uuid.NewString,
		Now:       time.Now,
	}
}

// UploadItem runs one file through the pipeline. Errors before the row is
// created leave nothing behind. Once the row exists every error moves it to
// failed, and the failed item is returned together with the error.
func (c *Closet) UploadItem(ctx context.Context, upload Upload) (*models.Clothing, error) {
	if err := services.CheckFormat(upload.FileName, upload.ContentType); err != nil {
		return nil, err
	}
	processed, contentType, err := c.Images.Process(upload.Data, upload.FileName, upload.ContentType)
	if err != nil {
		return nil, err
	}

	productName := strings.TrimSpace(upload.Name)
	name := productName
	if name == "" {
		count, err := c.Store.Count(ctx)
		if err != nil {
			return nil, err
		}
		name = fmt.Sprintf("Clothing Piece %d", count+1)
	}

	id := c.NewID()
	key := services.ImageKey(id)
	locator, err := c.Objects.Put(ctx, key, processed, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image of %s: %w", upload.FileName, err)
	}

	item := &models.Clothing{
		UUIDModel:  models.UUIDModel{ID: id},
		Name:       name,
		ImageKey:   key,
		ImageURL:   locator,
		Status:     models.StatusPending,
		Attributes: datatypes.NewJSONType(c.Schema.Filled(models.SentinelUnknown)),
	}
	if err := c.Store.Create(ctx, item); err != nil {
		if delErr := c.Objects.Delete(ctx, key); delErr != nil {
			c.reportOrphan(ctx, key, delErr)
		}
		return nil, err
	}
	log := c.Logger.With(zap.String("clothing_id", id))
	log.Info("clothing created", zap.String("name", name))

	if err := c.Store.MarkProcessing(ctx, id, c.Schema.Filled(models.SentinelPending)); err != nil {
		return c.fail(ctx, id, log, fmt.Errorf("%w: mark processing: %v", models.ErrCatalogWriteFailed, err))
	}

	attrs, extractErr := c.Extractor.Extract(ctx, processed, contentType, productName)
	if extractErr != nil {
		log.Warn("extraction failed", zap.Error(extractErr))
		return c.fail(ctx, id, log, extractErr)
	}

	if err := c.Store.UpdateAttributes(ctx, id, attrs, c.Now()); err != nil {
		return c.fail(ctx, id, log, fmt.Errorf("%w: save attributes: %v", models.ErrCatalogWriteFailed, err))
	}
	log.Info("clothing processed")
	return c.Store.Get(ctx, id)
}

// fail moves an in-flight item to failed with cause as its error message and
// returns the failed item together with cause.
func (c *Closet) fail(ctx context.Context, id string, log *zap.Logger, cause error) (*models.Clothing, error) {
	sentry.CaptureException(cause)
	if err := c.Store.MarkFailed(ctx, id, cause.Error()); err != nil {
		log.Error("failed to mark clothing as failed", zap.Error(err))
		return nil, errors.Join(cause, err)
	}
	failed, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, errors.Join(cause, err)
	}
	return failed, cause
}

// UploadBatch processes uploads one after another. A failing item never
// aborts its siblings.
func (c *Closet) UploadBatch(ctx context.Context, uploads []Upload) []UploadResult {
	results := make([]UploadResult, 0, len(uploads))
	for _, upload := range uploads {
		item, err := c.UploadItem(ctx, upload)
		results = append(results, UploadResult{FileName: upload.FileName, Item: item, Err: err})
	}
	return results
}

func (c *Closet) List(ctx context.Context) ([]models.Clothing, error) {
	return c.Store.ScanAll(ctx)
}

func (c *Closet) Get(ctx context.Context, id string) (*models.Clothing, error) {
	return c.Store.Get(ctx, id)
}

// UpdateItem applies user edits. Only "name" and schema attribute keys are
// considered; other keys are ignored. Attribute edits need a processed item
// and never accept an empty or placeholder value.
func (c *Closet) UpdateItem(ctx context.Context, id string, fields map[string]interface{}) (*models.Clothing, error) {
	var name *string
	attrs := models.Attributes{}
	for key, raw := range fields {
		if key != "name" && !c.Schema.Has(key) {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", models.ErrInvalidFieldValue, key)
		}
		value = strings.TrimSpace(value)
		if key == "name" {
			if value == "" {
				return nil, fmt.Errorf("%w: name must not be empty", models.ErrInvalidFieldValue)
			}
			name = &value
			continue
		}
		if value == "" || models.IsSentinel(strings.ToLower(value)) {
			return nil, fmt.Errorf("%w: %s must be a real value, got %q", models.ErrInvalidFieldValue, key, value)
		}
		attrs[key] = value
	}
	if name == nil && len(attrs) == 0 {
		return nil, models.ErrNoFieldsProvided
	}

	item, err := c.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(attrs) > 0 && item.Status != models.StatusProcessed {
		return nil, fmt.Errorf("%w: attributes of a %s item cannot be edited", models.ErrInvalidTransition, item.Status)
	}
	if err := c.Store.UpdateFields(ctx, id, name, attrs); err != nil {
		return nil, err
	}
	return c.Store.Get(ctx, id)
}

func (c *Closet) ToggleFavorite(ctx context.Context, id string, favorite bool) (*models.Clothing, error) {
	if err := c.Store.SetFavorite(ctx, id, favorite); err != nil {
		return nil, err
	}
	return c.Store.Get(ctx, id)
}

// DeleteItem removes the stored image and the row. The row is removed even
// when the image delete fails; that case returns models.ErrObjectDeleteFailed.
func (c *Closet) DeleteItem(ctx context.Context, id string) error {
	item, err := c.Store.Get(ctx, id)
	if err != nil {
		return err
	}

	objectErr := c.Objects.Delete(ctx, item.ImageKey)
	rowErr := c.Store.Delete(ctx, id)

	if objectErr != nil {
		c.reportOrphan(ctx, item.ImageKey, objectErr)
		return errors.Join(fmt.Errorf("%w: %s: %v", models.ErrObjectDeleteFailed, item.ImageKey, objectErr), rowErr)
	}
	if rowErr != nil {
		return rowErr
	}
	c.Logger.Info("clothing deleted", zap.String("clothing_id", id))
	return nil
}

func (c *Closet) reportOrphan(ctx context.Context, key string, cause error) {
	c.Logger.Error("stored image left behind", zap.String("key", key), zap.Error(cause))
	sentry.CaptureException(cause)
	if c.Orphans == nil {
		return
	}
	if err := c.Orphans.ReportOrphanedImage(ctx, key); err != nil {
		c.Logger.Error("failed to report orphaned image", zap.String("key", key), zap.Error(err))
	}
}
