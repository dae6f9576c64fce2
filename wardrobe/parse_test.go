package wardrobe

import (
	"dresssenseapi/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecommendation(t *testing.T) {
	rec, err := ParseRecommendation(`{"Outfit": [0,1], "Explanation": "casual pairing", "Styling Tips": "add sneakers"}`)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rec.Outfit)
	assert.Equal(t, "casual pairing", rec.Explanation)
	assert.Equal(t, "add sneakers", rec.StylingTips)
}

func TestParseRecommendationToleratesProse(t *testing.T) {
	text := "Here is my pick!\n```json\n{\n  \"Outfit\": [ 2, 0 , 7 ],\n  \"Explanation\": \"A \\\"smart\\\" look\\nfor work\",\n  \"Styling Tips\": \"Tuck the shirt in.\"\n}\n```\nHope you like it."

	rec, err := ParseRecommendation(text)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 7}, rec.Outfit)
	assert.Equal(t, "A \"smart\" look\nfor work", rec.Explanation)
	assert.Equal(t, "Tuck the shirt in.", rec.StylingTips)
}

func TestParseRecommendationMissingKeys(t *testing.T) {
	for _, text := range []string{
		`{"Outfit": [0,1]}`,
		`{"Outfit": [0,1], "Explanation": "x"}`,
		`{"Explanation": "x", "Styling Tips": "y"}`,
		`{"Outfit": "0,1", "Explanation": "x", "Styling Tips": "y"}`,
		`I could not find anything suitable.`,
	} {
		_, err := ParseRecommendation(text)
		assert.True(t, errors.Is(err, models.ErrMalformedRecommendation), text)
	}
}

func TestParseRecommendationNonIntegerElements(t *testing.T) {
	for _, text := range []string{
		`{"Outfit": [0, "1"], "Explanation": "x", "Styling Tips": "y"}`,
		`{"Outfit": [0, 1.5], "Explanation": "x", "Styling Tips": "y"}`,
		`{"Outfit": [0, ], "Explanation": "x", "Styling Tips": "y"}`,
		`{"Outfit": [null], "Explanation": "x", "Styling Tips": "y"}`,
	} {
		_, err := ParseRecommendation(text)
		assert.True(t, errors.Is(err, models.ErrMalformedRecommendation), text)
	}
}

func TestParseRecommendationEmptyOutfit(t *testing.T) {
	rec, err := ParseRecommendation(`{"Outfit": [], "Explanation": "x", "Styling Tips": "y"}`)
	require.NoError(t, err)
	assert.Empty(t, rec.Outfit)
}
