package wardrobe

import (
	"dresssenseapi/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func processedItem(id string, attrs models.Attributes) models.Clothing {
	return models.Clothing{
		UUIDModel:  models.UUIDModel{ID: id},
		ImageURL:   "https://closet.example/" + id + ".png",
		Status:     models.StatusProcessed,
		Attributes: datatypes.NewJSONType(attrs),
	}
}

func TestDescribeClauseOrder(t *testing.T) {
	attrs := models.Attributes{
		models.AttrPattern:                "striped",
		models.AttrPrimaryColor:           "navy",
		models.AttrTypeOfClothing:         "t-shirt",
		models.AttrStyle:                  "casual",
		models.AttrMaterial:               "cotton",
		models.AttrFabricWeight:           "lightweight",
		models.AttrFit:                    "relaxed",
		models.AttrNeckline:               "crew",
		models.AttrAccentColors:           "white",
		models.AttrDesignElements:         "ribbed cuffs",
		models.AttrFunctionalFeatures:     "breathable",
		models.AttrBrand:                  "Uniqlo",
		models.AttrShape:                  "boxy",
		models.AttrOccasionSuitability:    "weekend errands",
		models.AttrWeatherAppropriateness: "warm",
		models.AttrAdditionalNotes:        "An easy summer staple.",
	}

	assert.Equal(t,
		"striped navy t-shirt, casual style, lightweight cotton, relaxed fit, crew neckline, with white accents, "+
			"featuring ribbed cuffs, (breathable), from Uniqlo, boxy shape, suitable for weekend errands, warm weather",
		Describe(attrs))
}

func TestDescribeSkipsNullValues(t *testing.T) {
	attrs := models.Attributes{
		models.AttrPattern:        "Solid",
		models.AttrPrimaryColor:   "black",
		models.AttrTypeOfClothing: "jeans",
		models.AttrNeckline:       "Not Applicable",
		models.AttrBrand:          "not specified",
		models.AttrMaterial:       "denim",
		models.AttrFabricWeight:   "N/A",
		models.AttrStyle:          "unknown",
		models.AttrFit:            " ",
	}
	assert.Equal(t, "black jeans, denim", Describe(attrs))
}

func TestBuildInventoryGroupsByCategory(t *testing.T) {
	items := []models.Clothing{
		processedItem("a", models.Attributes{
			models.AttrCategory:        "top",
			models.AttrPrimaryColor:    "navy",
			models.AttrTypeOfClothing:  "t-shirt",
			models.AttrAdditionalNotes: "Soft and boxy.",
		}),
		processedItem("b", models.Attributes{
			models.AttrCategory:       "Bottom",
			models.AttrPrimaryColor:   "black",
			models.AttrTypeOfClothing: "jeans",
			models.AttrMaterial:       "denim",
		}),
		processedItem("c", models.Attributes{
			models.AttrCategory:        "TOP",
			models.AttrPrimaryColor:    "white",
			models.AttrTypeOfClothing:  "shirt",
			models.AttrAdditionalNotes: "not specified",
		}),
		processedItem("d", models.Attributes{
			models.AttrCategory:       "unknown",
			models.AttrPrimaryColor:   "white",
			models.AttrTypeOfClothing: "sneakers",
		}),
	}

	inventory := BuildInventory(items)

	expected := "Top:\n" +
		"[Item 0] navy t-shirt\n" +
		"  Notes: Soft and boxy.\n" +
		"[Item 2] white shirt\n" +
		"\n" +
		"Bottom:\n" +
		"[Item 1] black jeans, denim\n" +
		"\n" +
		"Other:\n" +
		"[Item 3] white sneakers\n"
	assert.Equal(t, expected, inventory.Text)

	require.Len(t, inventory.Descriptors, 4)
	for i, d := range inventory.Descriptors {
		assert.Equal(t, i, d.Index)
		assert.Equal(t, items[i].ID, d.Item.ID)
	}
	assert.Equal(t, "Soft and boxy.", inventory.Descriptors[0].Notes)
	assert.Equal(t, "", inventory.Descriptors[2].Notes)
}

func TestDescriptorsRoundTripThroughResolver(t *testing.T) {
	var items []models.Clothing
	for _, id := range []string{"p", "q", "r", "s", "t"} {
		items = append(items, processedItem(id, models.Attributes{models.AttrTypeOfClothing: id}))
	}
	inventory := BuildInventory(items)

	indices := make([]int, len(items))
	var expected []string
	for i := range items {
		indices[i] = i
		expected = append(expected, items[i].ImageURL)
	}

	resolved, err := ResolveOutfit(indices, inventory.Descriptors)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved.Locators)
	assert.Empty(t, resolved.Warnings)
}
