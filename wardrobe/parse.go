package wardrobe

import (
	"dresssenseapi/models"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	outfitPattern      = regexp.MustCompile(`"Outfit"\s*:\s*\[([^\]]*)\]`)
	explanationPattern = regexp.MustCompile(`"Explanation"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	stylingTipsPattern = regexp.MustCompile(`"Styling Tips"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

type Recommendation struct {
	Outfit      []int  `json:"outfit"`
	Explanation string `json:"explanation"`
	StylingTips string `json:"styling_tips"`
}

// ParseRecommendation pulls the three answer fields out of free-form model
// text. Any missing field or non-integer outfit element is an error.
func ParseRecommendation(text string) (*Recommendation, error) {
	outfitMatch := outfitPattern.FindStringSubmatch(text)
	if outfitMatch == nil {
		return nil, fmt.Errorf(`%w: "Outfit" list not found`, models.ErrMalformedRecommendation)
	}
	explanationMatch := explanationPattern.FindStringSubmatch(text)
	if explanationMatch == nil {
		return nil, fmt.Errorf(`%w: "Explanation" not found`, models.ErrMalformedRecommendation)
	}
	stylingMatch := stylingTipsPattern.FindStringSubmatch(text)
	if stylingMatch == nil {
		return nil, fmt.Errorf(`%w: "Styling Tips" not found`, models.ErrMalformedRecommendation)
	}

	outfit, err := parseIndices(outfitMatch[1])
	if err != nil {
		return nil, err
	}
	explanation, err := unquote(explanationMatch[1])
	if err != nil {
		return nil, err
	}
	stylingTips, err := unquote(stylingMatch[1])
	if err != nil {
		return nil, err
	}
	return &Recommendation{Outfit: outfit, Explanation: explanation, StylingTips: stylingTips}, nil
}

func parseIndices(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return []int{}, nil
	}
	elements := strings.Split(list, ",")
	indices := make([]int, 0, len(elements))
	for _, element := range elements {
		element = strings.TrimSpace(element)
		index, err := strconv.Atoi(element)
		if err != nil {
			return nil, fmt.Errorf("%w: outfit element %q is not an integer", models.ErrMalformedRecommendation, element)
		}
		indices = append(indices, index)
	}
	return indices, nil
}

func unquote(raw string) (string, error) {
	var value string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &value); err != nil {
		return "", fmt.Errorf("%w: invalid string value: %v", models.ErrMalformedRecommendation, err)
	}
	return value, nil
}
