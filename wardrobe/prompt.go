package wardrobe

import (
	"strings"
)

const recommendationInstructions = `Rules:
1. Recommend only items from the inventory above and refer to them by their [Item N] number.
2. Every outfit must contain at least one top, one bottom and one footwear item.
3. Respond with a JSON object of exactly this shape:
{"Outfit": [item numbers as integers], "Explanation": "why these items work together", "Styling Tips": "how to wear them"}
4. Do not write anything outside the JSON object.`

// ComposeRecommendationPrompt is the full prompt sent to the language model.
func ComposeRecommendationPrompt(inventoryText, request string) string {
	var b strings.Builder
	b.WriteString("You are a personal stylist. These are the clothes in the user's closet:\n\n")
	b.WriteString(inventoryText)
	if !strings.HasSuffix(inventoryText, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(recommendationInstructions)
	b.WriteString("\n\nUser request: ")
	b.WriteString(strings.TrimSpace(request))
	b.WriteString("\n")
	return b.String()
}
