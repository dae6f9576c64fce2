package controllers

import (
	"context"
	"dresssenseapi/models"
	"dresssenseapi/services"
	"dresssenseapi/wardrobe"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ListItemsIn struct {
	Status   string `query:"status" validate:"omitempty,itemstatus"`
	Favorite *bool  `query:"favorite"`
}

type FavoriteIn struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

type ClothingResponse struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Status              string            `json:"status"`
	Attributes          map[string]string `json:"attributes"`
	Favorite            bool              `json:"favorite"`
	ImageURL            string            `json:"image_url"`
	DisplayURL          string            `json:"display_url,omitempty"`
	ProcessErrorMessage *string           `json:"process_error_message,omitempty"`
	ProcessedAt         *string           `json:"processed_at,omitempty"`
	CreatedAt           string            `json:"created_at"`
	UpdatedAt           string            `json:"updated_at"`
}

type UploadItemResult struct {
	FileName string            `json:"file_name"`
	Item     *ClothingResponse `json:"item,omitempty"`
	Error    string            `json:"error,omitempty"`
	Kind     string            `json:"kind,omitempty"`
}

type UploadItemsResponse struct {
	Results []UploadItemResult `json:"results"`
}

type ClothesListResponse struct {
	Items []ClothingResponse `json:"items"`
}

type ClothesController struct {
	Closet         *wardrobe.Closet
	URLCache       services.URLCacheServiceProvider
	Presigner      services.URLPresigner
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func (controller *ClothesController) ClothingRoutes(g *echo.Group) {
	g.POST("", controller.UploadItems)
	g.GET("", controller.ListItems)
	g.GET("/:id", controller.GetItem)
	g.PATCH("/:id", controller.UpdateItem)
	g.PUT("/:id/favorite", controller.ToggleFavorite)
	g.DELETE("/:id", controller.DeleteItem)
}

func toClothingResponse(item *models.Clothing) ClothingResponse {
	response := ClothingResponse{
		ID:                  item.ID,
		Name:                item.Name,
		Status:              string(item.Status),
		Attributes:          item.Attributes.Data(),
		Favorite:            item.Favorite,
		ImageURL:            item.ImageURL,
		ProcessErrorMessage: item.ProcessErrorMessage,
		CreatedAt:           item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ProcessedAt != nil {
		processedAt := item.ProcessedAt.Format(time.RFC3339)
		response.ProcessedAt = &processedAt
	}
	return response
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// UploadItems accepts repeated "files" parts and an optional "names" value
// per file, matched by position. A single-file upload answers with the
// error status of that file; batches answer 201 or 207 with per-file results.
func (controller *ClothesController) UploadItems(c echo.Context) error {
	if controller.MaxUploadBytes > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, controller.MaxUploadBytes)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errorResponse(c, fmt.Errorf("%w: request body exceeds %d bytes", models.ErrPayloadTooLarge, controller.MaxUploadBytes))
		}
		return badRequest(c, "Invalid multipart body")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return badRequest(c, "At least one file is required in the files field")
	}
	names := form.Value["names"]

	uploads := make([]wardrobe.Upload, 0, len(files))
	for i, header := range files {
		data, err := readPart(header)
		if err != nil {
			return badRequest(c, fmt.Sprintf("Could not read %s", header.Filename))
		}
		upload := wardrobe.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get(echo.HeaderContentType),
			Data:        data,
		}
		if i < len(names) {
			upload.Name = names[i]
		}
		uploads = append(uploads, upload)
	}

	results := controller.Closet.UploadBatch(c.Request().Context(), uploads)
	if len(results) == 1 && results[0].Err != nil {
		return errorResponse(c, results[0].Err)
	}

	response := UploadItemsResponse{Results: make([]UploadItemResult, 0, len(results))}
	status := http.StatusCreated
	for _, result := range results {
		entry := UploadItemResult{FileName: result.FileName}
		if result.Item != nil {
			item := toClothingResponse(result.Item)
			entry.Item = &item
		}
		if result.Err != nil {
			status = http.StatusMultiStatus
			entry.Error = result.Err.Error()
			entry.Kind = models.ErrorKind(result.Err)
		}
		response.Results = append(response.Results, entry)
	}
	return c.JSON(status, response)
}

// populateDisplayURLs presigns read URLs concurrently. A failing cache falls
// back to the presigner; an item without a URL does not fail the request.
func (controller *ClothesController) populateDisplayURLs(ctx context.Context, clothes []models.Clothing) []ClothingResponse {
	responses := make([]ClothingResponse, len(clothes))
	var wg sync.WaitGroup
	for i := range clothes {
		wg.Add(1)
		go func(index int, item *models.Clothing) {
			defer wg.Done()
			response := toClothingResponse(item)
			response.DisplayURL = controller.displayURL(ctx, item.ImageKey)
			responses[index] = response
		}(i, &clothes[i])
	}
	wg.Wait()
	return responses
}

func (controller *ClothesController) displayURL(ctx context.Context, objectKey string) string {
	if objectKey == "" || controller.URLCache == nil {
		return ""
	}
	url, err := controller.URLCache.GetReadURL(ctx, objectKey)
	if err == nil {
		return url
	}
	controller.Logger.Warn("url cache failed", zap.String("key", objectKey), zap.Error(err))
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("failure_type", "cache_system")
		scope.SetExtra("objectKey", objectKey)
		sentry.CaptureException(err)
	})
	if controller.Presigner == nil {
		return ""
	}
	url, err = controller.Presigner.GetPresignedFileReadURL(ctx, objectKey)
	if err != nil {
		controller.Logger.Error("presign fallback failed", zap.String("key", objectKey), zap.Error(err))
		sentry.CaptureException(err)
		return ""
	}
	return url
}

func (controller *ClothesController) ListItems(c echo.Context) error {
	var req ListItemsIn
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid query parameters")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}
	clothes, err := controller.Closet.List(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	filtered := clothes[:0]
	for _, item := range clothes {
		if req.Status != "" && string(item.Status) != req.Status {
			continue
		}
		if req.Favorite != nil && item.Favorite != *req.Favorite {
			continue
		}
		filtered = append(filtered, item)
	}
	return c.JSON(http.StatusOK, ClothesListResponse{Items: controller.populateDisplayURLs(c.Request().Context(), filtered)})
}

func (controller *ClothesController) GetItem(c echo.Context) error {
	item, err := controller.Closet.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	response := toClothingResponse(item)
	response.DisplayURL = controller.displayURL(c.Request().Context(), item.ImageKey)
	return c.JSON(http.StatusOK, response)
}

func (controller *ClothesController) UpdateItem(c echo.Context) error {
	var fields map[string]interface{}
	// BindBody only, path params would otherwise land in the map.
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		return badRequest(c, "Invalid request body")
	}
	item, err := controller.Closet.UpdateItem(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toClothingResponse(item))
}

func (controller *ClothesController) ToggleFavorite(c echo.Context) error {
	var req FavoriteIn
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(c, err.Error())
	}
	item, err := controller.Closet.ToggleFavorite(c.Request().Context(), c.Param("id"), *req.Favorite)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toClothingResponse(item))
}

func (controller *ClothesController) DeleteItem(c echo.Context) error {
	if err := controller.Closet.DeleteItem(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
