package wardrobe

import (
	"dresssenseapi/models"
	"fmt"
)

type ResolvedOutfit struct {
	Locators []string
	ItemIDs  []string
	Items    []*models.Clothing
	// One entry per dropped index, each wrapping models.ErrIndexOutOfRange.
	Warnings []error
}

// ResolveOutfit maps indices back to the descriptors they were issued for.
// Out of range indices are dropped with a warning; nothing left is an error.
func ResolveOutfit(indices []int, descriptors []InventoryDescriptor) (*ResolvedOutfit, error) {
	resolved := &ResolvedOutfit{}
	for _, index := range indices {
		if index < 0 || index >= len(descriptors) {
			resolved.Warnings = append(resolved.Warnings,
				fmt.Errorf("%w: %d not in [0, %d)", models.ErrIndexOutOfRange, index, len(descriptors)))
			continue
		}
		item := descriptors[index].Item
		resolved.Locators = append(resolved.Locators, item.ImageURL)
		resolved.ItemIDs = append(resolved.ItemIDs, item.ID)
		resolved.Items = append(resolved.Items, item)
	}
	if len(resolved.Locators) == 0 {
		return resolved, fmt.Errorf("%w: %d indices, none resolved", models.ErrEmptyResolvedOutfit, len(indices))
	}
	return resolved, nil
}
