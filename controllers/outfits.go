package controllers

import (
	"dresssenseapi/models"
	"dresssenseapi/wardrobe"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RecommendationIn struct {
	Prompt string `json:"prompt" validate:"required,max=2000"`
}

type SaveOutfitIn struct {
	ImageURLs   []string `json:"image_urls" validate:"required"`
	Prompt      string   `json:"prompt" validate:"max=2000"`
	Explanation string   `json:"explanation"`
	StylingTips string   `json:"styling_tips"`
}

type OutfitResponse struct {
	ID          string   `json:"id"`
	ImageURLs   []string `json:"image_urls"`
	Prompt      string   `json:"prompt"`
	Explanation string   `json:"explanation"`
	StylingTips string   `json:"styling_tips"`
	CreatedAt   string   `json:"created_at"`
}

type OutfitsListResponse struct {
	Outfits []OutfitResponse `json:"outfits"`
}

type OutfitsController struct {
	Recommender *wardrobe.Recommender
	Outfits     *wardrobe.OutfitBook
	Logger      *zap.Logger
}

func (controller *OutfitsController) OutfitRoutes(g *echo.Group) {
	g.POST("/recommendations", controller.Recommend)
	g.POST("/outfits", controller.SaveOutfit)
	g.GET("/outfits", controller.ListOutfits)
}

func toOutfitResponse(outfit models.Outfit) OutfitResponse {
	return OutfitResponse{
		ID:          outfit.ID,
		ImageURLs:   outfit.ImageURLs,
		Prompt:      outfit.Prompt,
		Explanation: outfit.Explanation,
		StylingTips: outfit.StylingTips,
		CreatedAt:   outfit.CreatedAt.Format(time.RFC3339),
	}
}

func (controller *OutfitsController) Recommend(c echo.Context) error {
	var req RecommendationIn
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}
	recommendation, err := controller.Recommender.Recommend(c.Request().Context(), req.Prompt)
	if err != nil {
		if StatusFor(err) == http.StatusBadGateway {
			controller.Logger.Warn("recommendation failed", zap.Error(err))
		}
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, recommendation)
}

func (controller *OutfitsController) SaveOutfit(c echo.Context) error {
	var req SaveOutfitIn
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}
	outfit, err := controller.Outfits.SaveOutfit(c.Request().Context(), req.ImageURLs, req.Prompt, req.Explanation, req.StylingTips)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, toOutfitResponse(*outfit))
}

func (controller *OutfitsController) ListOutfits(c echo.Context) error {
	outfits, err := controller.Outfits.ListOutfits(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	response := OutfitsListResponse{Outfits: make([]OutfitResponse, 0, len(outfits))}
	for _, outfit := range outfits {
		response.Outfits = append(response.Outfits, toOutfitResponse(outfit))
	}
	return c.JSON(http.StatusOK, response)
}
