package wardrobe

import (
	"dresssenseapi/languageutil"
	"dresssenseapi/models"
	"fmt"
	"strings"
)

const otherCategory = "Other"

// Values that carry no information for a descriptor.
var nullValues = map[string]bool{
	"solid":          true,
	"not applicable": true,
	"n/a":            true,
	"not specified":  true,
	"none":           true,
	"":               true,
	"unknown":        true,
	"pending":        true,
}

func isNull(value string) bool {
	return nullValues[languageutil.Fold(value)]
}

// InventoryDescriptor ties a positional index to the item it describes. The
// index is only meaningful inside the recommendation request that built it.
type InventoryDescriptor struct {
	Index       int
	Description string
	Notes       string
	Item        *models.Clothing
}

type Inventory struct {
	Descriptors []InventoryDescriptor
	Text        string
}

type clause struct {
	key    string
	format string
}

var trailingClauses = []clause{
	{models.AttrStyle, "%s style"},
	{models.AttrMaterial, "%s"},
	{models.AttrFit, "%s fit"},
	{models.AttrNeckline, "%s neckline"},
	{models.AttrAccentColors, "with %s accents"},
	{models.AttrDesignElements, "featuring %s"},
	{models.AttrFunctionalFeatures, "(%s)"},
	{models.AttrBrand, "from %s"},
	{models.AttrShape, "%s shape"},
	{models.AttrOccasionSuitability, "suitable for %s"},
	{models.AttrWeatherAppropriateness, "%s weather"},
}

// Describe renders the comma separated clause list of one item.
func Describe(attrs models.Attributes) string {
	var base []string
	for _, key := range []string{models.AttrPattern, models.AttrPrimaryColor, models.AttrTypeOfClothing} {
		if value := strings.TrimSpace(attrs[key]); !isNull(value) {
			base = append(base, value)
		}
	}
	if len(base) == 0 {
		base = append(base, "clothing item")
	}

	clauses := []string{strings.Join(base, " ")}
	for _, c := range trailingClauses {
		value := strings.TrimSpace(attrs[c.key])
		if isNull(value) {
			continue
		}
		if c.key == models.AttrMaterial {
			if weight := strings.TrimSpace(attrs[models.AttrFabricWeight]); !isNull(weight) {
				value = weight + " " + value
			}
		}
		clauses = append(clauses, fmt.Sprintf(c.format, value))
	}
	return strings.Join(clauses, ", ")
}

// BuildInventory describes items in the given order and groups the rendered
// text by category. Index i always refers to items[i].
func BuildInventory(items []models.Clothing) Inventory {
	descriptors := make([]InventoryDescriptor, len(items))
	var order []string
	groups := map[string][]int{}
	headings := map[string]string{}

	for i := range items {
		attrs := items[i].Attributes.Data()
		notes := strings.TrimSpace(attrs[models.AttrAdditionalNotes])
		if isNull(notes) {
			notes = ""
		}
		descriptors[i] = InventoryDescriptor{
			Index:       i,
			Description: Describe(attrs),
			Notes:       notes,
			Item:        &items[i],
		}

		heading := otherCategory
		if category := attrs[models.AttrCategory]; !isNull(category) {
			heading = languageutil.Heading(category)
		}
		group := languageutil.Fold(heading)
		if _, seen := groups[group]; !seen {
			order = append(order, group)
			headings[group] = heading
		}
		groups[group] = append(groups[group], i)
	}

	var b strings.Builder
	for n, group := range order {
		if n > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", headings[group])
		for _, i := range groups[group] {
			d := descriptors[i]
			fmt.Fprintf(&b, "[Item %d] %s\n", d.Index, d.Description)
			if d.Notes != "" {
				fmt.Fprintf(&b, "  Notes: %s\n", d.Notes)
			}
		}
	}
	return Inventory{Descriptors: descriptors, Text: b.String()}
}
