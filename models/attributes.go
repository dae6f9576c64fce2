package models

import (
	"strings"
	"unicode"
)

// Attributes maps a canonical attribute key to its extracted value.
type Attributes map[string]string

const (
	SentinelUnknown = "unknown"
	SentinelPending = "pending"
	NotSpecified    = "not specified"
)

const (
	AttrCategory               = "category"
	AttrTypeOfClothing         = "typeOfClothing"
	AttrPrimaryColor           = "primaryColor"
	AttrAccentColors           = "accentColors"
	AttrPattern                = "pattern"
	AttrShape                  = "shape"
	AttrFit                    = "fit"
	AttrNeckline               = "neckline"
	AttrDesignElements         = "designElements"
	AttrBrand                  = "brand"
	AttrStyle                  = "style"
	AttrOccasionSuitability    = "occasionSuitability"
	AttrWeatherAppropriateness = "weatherAppropriateness"
	AttrMaterial               = "material"
	AttrFabricWeight           = "fabricWeight"
	AttrFunctionalFeatures     = "functionalFeatures"
	AttrAdditionalNotes        = "additionalNotes"
)

// AttributeField describes one key of the extraction schema. Label is the
// wording used in the model instruction, Hint lists example values.
type AttributeField struct {
	Key     string
	Label   string
	Hint    string
	Aliases []string
}

type AttributeSchema []AttributeField

var DefaultAttributeSchema = AttributeSchema{
	{Key: AttrCategory, Label: "Category", Hint: "either Outerwear, Top, Bottom, or Footwear"},
	{Key: AttrTypeOfClothing, Label: "Type of clothing", Aliases: []string{"type", "clothing type", "item type"}},
	{Key: AttrPrimaryColor, Label: "Primary Color", Aliases: []string{"color", "colour", "primary colour", "main color"}},
	{Key: AttrAccentColors, Label: "Accent Color(s)", Aliases: []string{"accent color", "accent colors", "accent colours"}},
	{Key: AttrPattern, Label: "Pattern"},
	{Key: AttrShape, Label: "Shape", Aliases: []string{"silhouette"}},
	{Key: AttrFit, Label: "Fit", Hint: "e.g., slim-fit, oversized, relaxed"},
	{Key: AttrNeckline, Label: "Neckline", Hint: "e.g., crew, v-neck, scoop, not applicable"},
	{Key: AttrDesignElements, Label: "Key design elements", Hint: "e.g., buttons, zippers, pleats, embellishments, stitching patterns", Aliases: []string{"design elements"}},
	{Key: AttrBrand, Label: "Brand", Hint: "if specified"},
	{Key: AttrStyle, Label: "Style", Hint: "e.g., streetwear, minimalist, athleisure, classic/traditional"},
	{Key: AttrOccasionSuitability, Label: "Occasion suitability", Hint: "e.g., casual, formal, sporty", Aliases: []string{"occasion"}},
	{Key: AttrWeatherAppropriateness, Label: "Weather appropriateness", Hint: "e.g., warm, cold, all-season", Aliases: []string{"weather", "season"}},
	{Key: AttrMaterial, Label: "Fabric Material", Hint: "e.g., cotton, wool, silk, denim", Aliases: []string{"material", "fabric"}},
	{Key: AttrFabricWeight, Label: "Fabric Weight", Aliases: []string{"weight"}},
	{Key: AttrFunctionalFeatures, Label: "Functional Features", Hint: "e.g., water resistant, moisture-wicking, insulated", Aliases: []string{"features"}},
	{Key: AttrAdditionalNotes, Label: "Additional Notes", Hint: "2-3 sentences describing the overall aesthetic of the piece and its essence", Aliases: []string{"notes"}},
}

// Keys returns the canonical keys in schema order.
func (s AttributeSchema) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, f := range s {
		keys = append(keys, f.Key)
	}
	return keys
}

func (s AttributeSchema) Has(key string) bool {
	for _, f := range s {
		if f.Key == key {
			return true
		}
	}
	return false
}

// Canonical resolves a free-form key ("Type of clothing", "primary_color",
// "Accent Color(s)") to its schema key. The second return is false when
// nothing matches.
func (s AttributeSchema) Canonical(raw string) (string, bool) {
	needle := foldKey(raw)
	if needle == "" {
		return "", false
	}
	for _, f := range s {
		if foldKey(f.Key) == needle || foldKey(f.Label) == needle {
			return f.Key, true
		}
		for _, alias := range f.Aliases {
			if foldKey(alias) == needle {
				return f.Key, true
			}
		}
	}
	return "", false
}

// Filled returns a map holding value for every schema key.
func (s AttributeSchema) Filled(value string) Attributes {
	attrs := make(Attributes, len(s))
	for _, f := range s {
		attrs[f.Key] = value
	}
	return attrs
}

func IsSentinel(value string) bool {
	return value == SentinelUnknown || value == SentinelPending
}

func foldKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
