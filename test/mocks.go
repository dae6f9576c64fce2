package test

import (
	"context"
	"dresssenseapi/models"
	"dresssenseapi/services"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ObjectStoreMock struct {
	Objects     map[string][]byte
	PutCalls    int
	DeleteCalls int
	PutErr      error
	DeleteErr   error
}

func NewObjectStoreMock() *ObjectStoreMock {
	return &ObjectStoreMock{Objects: map[string][]byte{}}
}

func (m *ObjectStoreMock) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.PutCalls++
	if m.PutErr != nil {
		return "", m.PutErr
	}
	m.Objects[key] = data
	return m.Locator(key), nil
}

func (m *ObjectStoreMock) Delete(ctx context.Context, key string) error {
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Objects, key)
	return nil
}

func (m *ObjectStoreMock) Locator(key string) string {
	return services.ObjectLocator(services.S3Options{BucketName: "closet", Region: "us-east-1"}, key)
}

type ExtractorMock struct {
	Attributes models.Attributes
	Err        error
	Calls      int
	Names      []string
}

func (m *ExtractorMock) Extract(ctx context.Context, image []byte, mimeType string, productName string) (models.Attributes, error) {
	m.Calls++
	m.Names = append(m.Names, productName)
	if m.Err != nil {
		return nil, m.Err
	}
	attrs := models.DefaultAttributeSchema.Filled(models.NotSpecified)
	for k, v := range m.Attributes {
		attrs[k] = v
	}
	return attrs, nil
}

type ImageProcessorMock struct {
	Calls int
}

func (m *ImageProcessorMock) Process(raw []byte, fileName, contentType string) ([]byte, string, error) {
	m.Calls++
	if err := services.CheckFormat(fileName, contentType); err != nil {
		return nil, "", err
	}
	return append([]byte("processed:"), raw...), "image/png", nil
}

type VisionModelMock struct {
	Response string
	Err      error
	Calls    int
}

func (m *VisionModelMock) DescribeImage(ctx context.Context, image []byte, mimeType string, prompt string) (*services.LLMResponse, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.LLMResponse{Response: m.Response, InputTokenCount: 10, OutputTokenCount: 13, TotalTokenCount: 23}, nil
}

type LanguageModelMock struct {
	Response string
	Err      error
	Calls    int
	Prompts  []string
}

func (m *LanguageModelMock) Complete(ctx context.Context, prompt string) (*services.LLMResponse, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return nil, m.Err
	}
	return &services.LLMResponse{Response: m.Response, InputTokenCount: 10, OutputTokenCount: 13, TotalTokenCount: 23}, nil
}

type OrphanReporterMock struct {
	Keys []string
}

func (m *OrphanReporterMock) ReportOrphanedImage(ctx context.Context, key string) error {
	m.Keys = append(m.Keys, key)
	return nil
}

type URLCacheMock struct {
	MockUrl string
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	return fmt.Sprintf("%s/%s", m.MockUrl, objectKey), nil
}

// CatalogStoreMock keeps items in memory in insertion order and follows the
// transition rules of the gorm repository.
type CatalogStoreMock struct {
	Items      map[string]*models.Clothing
	order      []string
	ScanCalls  int
	WriteCalls int

	MarkProcessingErr   error
	UpdateAttributesErr error
}

func NewCatalogStoreMock() *CatalogStoreMock {
	return &CatalogStoreMock{Items: map[string]*models.Clothing{}}
}

// Add stores a processed item directly.
func (m *CatalogStoreMock) Add(id string, attrs models.Attributes) *models.Clothing {
	now := time.Now()
	item := &models.Clothing{
		UUIDModel:   models.UUIDModel{ID: id, CreatedAt: now},
		Name:        id,
		ImageKey:    services.ImageKey(id),
		ImageURL:    services.ObjectLocator(services.S3Options{BucketName: "closet", Region: "us-east-1"}, services.ImageKey(id)),
		Status:      models.StatusProcessed,
		Attributes:  datatypes.NewJSONType(attrs),
		ProcessedAt: &now,
	}
	m.Items[id] = item
	m.order = append(m.order, id)
	return item
}

func (m *CatalogStoreMock) Create(ctx context.Context, item *models.Clothing) error {
	m.WriteCalls++
	if _, ok := m.Items[item.ID]; ok {
		return fmt.Errorf("clothing id collision: %s", item.ID)
	}
	copied := *item
	copied.CreatedAt = time.Now()
	m.Items[item.ID] = &copied
	m.order = append(m.order, item.ID)
	return nil
}

func (m *CatalogStoreMock) transition(id string, from []models.ItemStatus) (*models.Clothing, error) {
	item, ok := m.Items[id]
	if !ok {
		return nil, fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	for _, status := range from {
		if item.Status == status {
			return item, nil
		}
	}
	return nil, fmt.Errorf("clothing %s is %s: %w", id, item.Status, models.ErrInvalidTransition)
}

func (m *CatalogStoreMock) MarkProcessing(ctx context.Context, id string, attrs models.Attributes) error {
	m.WriteCalls++
	if m.MarkProcessingErr != nil {
		return m.MarkProcessingErr
	}
	item, err := m.transition(id, []models.ItemStatus{models.StatusPending})
	if err != nil {
		return err
	}
	item.Status = models.StatusProcessing
	item.Attributes = datatypes.NewJSONType(attrs)
	return nil
}

func (m *CatalogStoreMock) UpdateAttributes(ctx context.Context, id string, attrs models.Attributes, processedAt time.Time) error {
	m.WriteCalls++
	if m.UpdateAttributesErr != nil {
		return m.UpdateAttributesErr
	}
	item, err := m.transition(id, []models.ItemStatus{models.StatusPending, models.StatusProcessing})
	if err != nil {
		return err
	}
	item.Status = models.StatusProcessed
	item.Attributes = datatypes.NewJSONType(attrs)
	item.ProcessedAt = &processedAt
	return nil
}

func (m *CatalogStoreMock) MarkFailed(ctx context.Context, id string, reason string) error {
	m.WriteCalls++
	item, err := m.transition(id, []models.ItemStatus{models.StatusPending, models.StatusProcessing})
	if err != nil {
		return err
	}
	item.Status = models.StatusFailed
	item.ProcessErrorMessage = services.StrPointer(reason)
	return nil
}

func (m *CatalogStoreMock) UpdateFields(ctx context.Context, id string, name *string, attrs models.Attributes) error {
	m.WriteCalls++
	item, ok := m.Items[id]
	if !ok {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	if name == nil && len(attrs) == 0 {
		return models.ErrNoFieldsProvided
	}
	if name != nil {
		item.Name = *name
	}
	if len(attrs) > 0 {
		merged := models.Attributes{}
		for k, v := range item.Attributes.Data() {
			merged[k] = v
		}
		for k, v := range attrs {
			merged[k] = v
		}
		item.Attributes = datatypes.NewJSONType(merged)
	}
	return nil
}

func (m *CatalogStoreMock) SetFavorite(ctx context.Context, id string, favorite bool) error {
	m.WriteCalls++
	item, ok := m.Items[id]
	if !ok {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	item.Favorite = favorite
	return nil
}

func (m *CatalogStoreMock) Get(ctx context.Context, id string) (*models.Clothing, error) {
	item, ok := m.Items[id]
	if !ok {
		return nil, fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (m *CatalogStoreMock) ScanAll(ctx context.Context) ([]models.Clothing, error) {
	m.ScanCalls++
	items := make([]models.Clothing, 0, len(m.order))
	for _, id := range m.order {
		if item, ok := m.Items[id]; ok {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *CatalogStoreMock) Count(ctx context.Context) (int64, error) {
	return int64(len(m.Items)), nil
}

func (m *CatalogStoreMock) Delete(ctx context.Context, id string) error {
	m.WriteCalls++
	if _, ok := m.Items[id]; !ok {
		return fmt.Errorf("clothing %s: %w", id, models.ErrNotFound)
	}
	delete(m.Items, id)
	return nil
}

type OutfitStoreMock struct {
	Outfits []models.Outfit
}

func (m *OutfitStoreMock) Create(ctx context.Context, outfit *models.Outfit) error {
	copied := *outfit
	copied.CreatedAt = time.Now()
	m.Outfits = append(m.Outfits, copied)
	return nil
}

func (m *OutfitStoreMock) List(ctx context.Context) ([]models.Outfit, error) {
	outfits := make([]models.Outfit, 0, len(m.Outfits))
	for i := len(m.Outfits) - 1; i >= 0; i-- {
		outfits = append(outfits, m.Outfits[i])
	}
	return outfits, nil
}
