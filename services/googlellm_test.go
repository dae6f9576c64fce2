package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestResponseFromResult(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: `{"Outfit": [0]}`}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 5,
			TotalTokenCount:      17,
		},
	}

	response, err := responseFromResult(result)
	require.NoError(t, err)
	assert.Equal(t, `{"Outfit": [0]}`, response.Response)
	assert.Equal(t, int32(12), response.InputTokenCount)
	assert.Equal(t, int32(5), response.OutputTokenCount)
	assert.Equal(t, int32(17), response.TotalTokenCount)
}

func TestResponseFromResultBlocked(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:       &genai.Content{Parts: []*genai.Part{{Text: "x"}}},
			SafetyRatings: []*genai.SafetyRating{{Blocked: true, Category: genai.HarmCategoryHarassment}},
		}},
	}

	_, err := responseFromResult(result)
	assert.True(t, errors.Is(err, errContentBlocked))
}

func TestResponseFromResultEmpty(t *testing.T) {
	_, err := responseFromResult(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseFromResult(nil)
	assert.Error(t, err)
}
