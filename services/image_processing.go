package services

import (
	"bytes"
	"dresssenseapi/models"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var supportedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// CheckFormat rejects anything that is not png, jpeg or gif. A file name
// without extension is judged by its declared content type.
func CheckFormat(fileName, contentType string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != "" {
		if !supportedExtensions[ext] {
			return fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext)
		}
		return nil
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !supportedContentTypes[mediaType] {
		return fmt.Errorf("%w: %q has no extension and content type %q", models.ErrUnsupportedFormat, fileName, contentType)
	}
	return nil
}

type ImagePreprocessor struct {
	// Pixels at or above this luminance are treated as background.
	Threshold float64
	// Sigma of the gaussian blur applied to the background mask.
	BlurSigma float64
}

func NewImagePreprocessor(threshold, blurSigma float64) *ImagePreprocessor {
	return &ImagePreprocessor{Threshold: threshold, BlurSigma: blurSigma}
}

// Process validates the format and removes the background. The result is
// always a PNG.
func (p *ImagePreprocessor) Process(raw []byte, fileName, contentType string) ([]byte, string, error) {
	if err := CheckFormat(fileName, contentType); err != nil {
		return nil, "", err
	}
	processed, err := p.RemoveBackground(raw)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", models.ErrImageProcessing, fileName, err)
	}
	return processed, "image/png", nil
}

// RemoveBackground builds a luminance mask of the bright background, softens
// it with a gaussian blur and uses the inverted mask as the alpha channel.
func (p *ImagePreprocessor) RemoveBackground(imageBytes []byte) ([]byte, error) {
	originalImg, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := originalImg.Bounds()

	// White = background, black = garment.
	mask := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := originalImg.At(x, y).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			luminance := 0.299*float64(r8) + 0.587*float64(g8) + 0.114*float64(b8)
			if luminance >= p.Threshold {
				mask.SetGray(x, y, color.Gray{Y: 255})
			} else {
				mask.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}

	var softMask image.Image = mask
	if p.BlurSigma > 0 {
		softMask = imaging.Blur(mask, p.BlurSigma)
	}
	maskBounds := softMask.Bounds()

	finalImg := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBAModel.Convert(originalImg.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			m, _, _, _ := softMask.At(maskBounds.Min.X+x, maskBounds.Min.Y+y).RGBA()
			keep := 1.0 - float64(m)/65535.0
			c.A = uint8(float64(c.A) * keep)
			finalImg.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, finalImg); err != nil {
		return nil, fmt.Errorf("failed to encode image to png: %w", err)
	}
	return buf.Bytes(), nil
}
