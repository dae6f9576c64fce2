package services

import (
	"bytes"
	"context"
	"dresssenseapi/models"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	DefaultMaxImageBytes  = 4 << 20
	DefaultMinJPEGQuality = 30
	startJPEGQuality      = 90
	jpegQualityStep       = 10
)

// FeatureExtractor turns a garment photo into a fully populated attribute map.
type FeatureExtractor struct {
	Model          VisionModel
	Schema         models.AttributeSchema
	MaxImageBytes  int
	MinJPEGQuality int
	Timeout        time.Duration
	Logger         *zap.Logger
}

func NewFeatureExtractor(model VisionModel, schema models.AttributeSchema, maxImageBytes, minJPEGQuality int, timeout time.Duration, logger *zap.Logger) *FeatureExtractor {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	if minJPEGQuality <= 0 {
		minJPEGQuality = DefaultMinJPEGQuality
	}
	return &FeatureExtractor{
		Model:          model,
		Schema:         schema,
		MaxImageBytes:  maxImageBytes,
		MinJPEGQuality: minJPEGQuality,
		Timeout:        timeout,
		Logger:         logger,
	}
}

// Extract fits the image under the payload ceiling, asks the vision model for
// the schema attributes and parses the answer. Keys the model omits are set
// to "not specified".
func (e *FeatureExtractor) Extract(ctx context.Context, imageBytes []byte, mimeType string, productName string) (models.Attributes, error) {
	payload, payloadType, err := e.fitPayload(imageBytes, mimeType)
	if err != nil {
		return nil, err
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	response, err := e.Model.DescribeImage(ctx, payload, payloadType, BuildExtractionPrompt(e.Schema, productName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExtractionFailed, err)
	}
	e.Logger.Debug("vision model answered",
		zap.Int("payload_bytes", len(payload)),
		zap.Int32("total_tokens", response.TotalTokenCount),
	)

	attrs, err := ParseAttributes(e.Schema, response.Response)
	if err != nil {
		return nil, err
	}
	// a processed item never carries a sentinel value
	for _, key := range e.Schema.Keys() {
		value, ok := attrs[key]
		if !ok || models.IsSentinel(strings.ToLower(value)) {
			attrs[key] = models.NotSpecified
		}
	}
	return attrs, nil
}

// fitPayload returns the image untouched when it fits, otherwise flattens it
// onto white and re-encodes it as JPEG with decreasing quality.
func (e *FeatureExtractor) fitPayload(imageBytes []byte, mimeType string) ([]byte, string, error) {
	if len(imageBytes) <= e.MaxImageBytes {
		return imageBytes, mimeType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode oversized image: %v", models.ErrImageProcessing, err)
	}
	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	for _, quality := range jpegQualities(e.MinJPEGQuality) {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", fmt.Errorf("%w: failed to encode jpeg: %v", models.ErrImageProcessing, err)
		}
		if buf.Len() <= e.MaxImageBytes {
			e.Logger.Debug("recompressed image for model",
				zap.Int("original_bytes", len(imageBytes)),
				zap.Int("bytes", buf.Len()),
				zap.Int("quality", quality),
			)
			return buf.Bytes(), "image/jpeg", nil
		}
	}
	return nil, "", fmt.Errorf("%w: %d bytes, limit %d at jpeg quality %d", models.ErrPayloadTooLarge, len(imageBytes), e.MaxImageBytes, e.MinJPEGQuality)
}

// jpegQualities lists 90, 80, ... down to floor, floor always included.
func jpegQualities(floor int) []int {
	if floor > startJPEGQuality {
		return []int{floor}
	}
	var qualities []int
	for q := startJPEGQuality; q > floor; q -= jpegQualityStep {
		qualities = append(qualities, q)
	}
	return append(qualities, floor)
}

// BuildExtractionPrompt renders the instruction sent with every image.
func BuildExtractionPrompt(schema models.AttributeSchema, productName string) string {
	var b strings.Builder
	b.WriteString("You are a fashion expert. Analyze the clothing item in the image")
	if name := strings.TrimSpace(productName); name != "" {
		fmt.Fprintf(&b, " (product name: %q)", name)
	}
	b.WriteString(" and return a JSON object with exactly these keys:\n")
	for _, field := range schema {
		fmt.Fprintf(&b, "- %q: %s", field.Key, field.Label)
		if field.Hint != "" {
			fmt.Fprintf(&b, " (%s)", field.Hint)
		}
		b.WriteString("\n")
	}
	b.WriteString("Use \"not specified\" when a value cannot be determined. ")
	b.WriteString("Respond with the JSON object only, without markdown or commentary.")
	return b.String()
}

// ParseAttributes decodes the model answer. It tries the whole text first and
// then the span between the first '{' and the last '}'. Unknown keys are
// dropped; a result without any schema key is a failure.
func ParseAttributes(schema models.AttributeSchema, text string) (models.Attributes, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object in model response", models.ErrExtractionFailed)
		}
		raw = nil
		if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON in model response: %v", models.ErrExtractionFailed, err)
		}
	}

	attrs := models.Attributes{}
	for rawKey, rawValue := range raw {
		key, ok := schema.Canonical(rawKey)
		if !ok {
			continue
		}
		value := attributeValue(rawValue)
		if value == "" {
			continue
		}
		attrs[key] = value
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: response has no recognized attributes", models.ErrExtractionFailed)
	}
	return attrs, nil
}

func attributeValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if s := attributeValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return ""
		}
		return string(encoded)
	default:
		return fmt.Sprint(value)
	}
}
