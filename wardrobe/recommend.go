package wardrobe

import (
	"context"
	"dresssenseapi/models"
	"dresssenseapi/services"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type OutfitRecommendation struct {
	Locators    []string `json:"image_urls"`
	ItemIDs     []string `json:"item_ids"`
	Explanation string   `json:"explanation"`
	StylingTips string   `json:"styling_tips"`
	Warnings    []string `json:"warnings,omitempty"`
}

type Recommender struct {
	Store   CatalogStore
	Model   services.LanguageModel
	Timeout time.Duration
	Logger  *zap.Logger
}

func NewRecommender(store CatalogStore, model services.LanguageModel, timeout time.Duration, logger *zap.Logger) *Recommender {
	return &Recommender{Store: store, Model: model, Timeout: timeout, Logger: logger}
}

// Recommend takes one catalog snapshot and uses it both to describe the
// inventory and to resolve the model's answer.
func (r *Recommender) Recommend(ctx context.Context, request string) (*OutfitRecommendation, error) {
	if strings.TrimSpace(request) == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", models.ErrInvalidFieldValue)
	}

	all, err := r.Store.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := make([]models.Clothing, 0, len(all))
	for _, item := range all {
		if item.Status == models.StatusProcessed {
			snapshot = append(snapshot, item)
		}
	}
	if len(snapshot) == 0 {
		return nil, models.ErrEmptyInventory
	}

	inventory := BuildInventory(snapshot)
	prompt := ComposeRecommendationPrompt(inventory.Text, request)

	modelCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		modelCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	response, err := r.Model.Complete(modelCtx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRecommendationFailed, err)
	}

	parsed, err := ParseRecommendation(response.Response)
	if err != nil {
		r.Logger.Warn("unparseable recommendation", zap.String("response", response.Response), zap.Error(err))
		return nil, err
	}
	resolved, err := ResolveOutfit(parsed.Outfit, inventory.Descriptors)
	if err != nil {
		return nil, err
	}

	result := &OutfitRecommendation{
		Locators:    resolved.Locators,
		ItemIDs:     resolved.ItemIDs,
		Explanation: parsed.Explanation,
		StylingTips: parsed.StylingTips,
	}
	for _, warning := range resolved.Warnings {
		r.Logger.Warn("dropped outfit index", zap.Error(warning))
		result.Warnings = append(result.Warnings, warning.Error())
	}
	return result, nil
}
