package services

import (
	"bytes"
	"dresssenseapi/models"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// garmentPNG is a white canvas with a dark square in the middle.
func garmentPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 24 && x < 40 && y >= 24 && y < 40 {
				c = color.NRGBA{R: 20, G: 30, B: 90, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, CheckFormat("shirt.png", ""))
	assert.NoError(t, CheckFormat("shirt.JPG", "application/octet-stream"))
	assert.NoError(t, CheckFormat("shirt.jpeg", ""))
	assert.NoError(t, CheckFormat("shirt.gif", ""))
	assert.NoError(t, CheckFormat("blob", "image/jpeg"))

	for _, name := range []string{"shirt.bmp", "shirt.webp", "shirt.heic", "notes.txt"} {
		err := CheckFormat(name, "image/png")
		assert.True(t, errors.Is(err, models.ErrUnsupportedFormat), name)
	}
	assert.True(t, errors.Is(CheckFormat("blob", "text/plain"), models.ErrUnsupportedFormat))
}

func TestRemoveBackground(t *testing.T) {
	input := garmentPNG(t)
	p := NewImagePreprocessor(235, 2.0)

	output, contentType, err := p.Process(input, "shirt.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.NotEqual(t, input, output)

	decoded, err := png.Decode(bytes.NewReader(output))
	require.NoError(t, err)
	out := color.NRGBAModel.Convert(decoded.At(0, 0)).(color.NRGBA)
	assert.Equal(t, uint8(0), out.A, "background corner should be transparent")

	center := color.NRGBAModel.Convert(decoded.At(32, 32)).(color.NRGBA)
	assert.Equal(t, uint8(255), center.A, "garment should stay opaque")
	assert.Equal(t, uint8(20), center.R)
}

func TestProcessRejectsBeforeDecoding(t *testing.T) {
	p := NewImagePreprocessor(235, 2.0)

	_, _, err := p.Process([]byte("not an image"), "shirt.bmp", "image/bmp")
	assert.True(t, errors.Is(err, models.ErrUnsupportedFormat))

	_, _, err = p.Process([]byte("not an image"), "shirt.png", "image/png")
	assert.True(t, errors.Is(err, models.ErrImageProcessing))
}

// translucentGarmentPNG is garmentPNG with a half transparent square and a
// fully transparent top left pixel.
func translucentGarmentPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 24 && x < 40 && y >= 24 && y < 40 {
				c = color.NRGBA{R: 20, G: 30, B: 90, A: 128}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRemoveBackgroundScalesInputAlpha(t *testing.T) {
	p := NewImagePreprocessor(235, 2.0)

	output, err := p.RemoveBackground(translucentGarmentPNG(t))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(output))
	require.NoError(t, err)
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
	}

	center := at(32, 32)
	assert.Equal(t, uint8(128), center.A, "mask keeps the input alpha as is")
	assert.Equal(t, uint8(20), center.R)

	edge := at(24, 32)
	assert.Greater(t, edge.A, uint8(0))
	assert.Less(t, edge.A, uint8(128), "blurred mask scales the input alpha down")

	assert.Equal(t, uint8(0), at(0, 0).A, "transparent input stays transparent")
	assert.Equal(t, uint8(0), at(63, 63).A)
}
