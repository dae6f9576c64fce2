package models

import "errors"

var (
	ErrUnsupportedFormat       = errors.New("unsupported image format")
	ErrPayloadTooLarge         = errors.New("image exceeds the model payload limit")
	ErrExtractionFailed        = errors.New("feature extraction failed")
	ErrMalformedRecommendation = errors.New("malformed recommendation")
	ErrIndexOutOfRange         = errors.New("item index out of range")
	ErrEmptyResolvedOutfit     = errors.New("outfit has no items")
	ErrNoFieldsProvided        = errors.New("no updatable fields provided")
	ErrInvalidFieldValue       = errors.New("invalid field value")
	ErrNotFound                = errors.New("not found")
	ErrImageProcessing         = errors.New("image processing failed")
	ErrRecommendationFailed    = errors.New("recommendation failed")
	ErrInvalidTransition       = errors.New("invalid item state transition")
	ErrObjectDeleteFailed      = errors.New("stored image could not be deleted")
	ErrEmptyInventory          = errors.New("no processed items in the closet")
	ErrCatalogWriteFailed      = errors.New("catalog write failed")
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrUnsupportedFormat, "unsupported_format"},
	{ErrPayloadTooLarge, "payload_too_large"},
	{ErrExtractionFailed, "extraction_failed"},
	{ErrMalformedRecommendation, "malformed_recommendation"},
	{ErrIndexOutOfRange, "index_out_of_range"},
	{ErrEmptyResolvedOutfit, "empty_resolved_outfit"},
	{ErrNoFieldsProvided, "no_fields_provided"},
	{ErrInvalidFieldValue, "invalid_field_value"},
	{ErrNotFound, "not_found"},
	{ErrImageProcessing, "image_processing_failed"},
	{ErrRecommendationFailed, "recommendation_failed"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrObjectDeleteFailed, "object_delete_failed"},
	{ErrEmptyInventory, "empty_inventory"},
	{ErrCatalogWriteFailed, "catalog_write_failed"},
}

// ErrorKind returns the stable kind string of err, or "internal".
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "internal"
}
