package controllers

import (
	"dresssenseapi/models"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{models.ErrUnsupportedFormat, http.StatusUnsupportedMediaType},
	{models.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
	{models.ErrNoFieldsProvided, http.StatusBadRequest},
	{models.ErrInvalidFieldValue, http.StatusBadRequest},
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrInvalidTransition, http.StatusConflict},
	{models.ErrMalformedRecommendation, http.StatusBadGateway},
	{models.ErrExtractionFailed, http.StatusBadGateway},
	{models.ErrRecommendationFailed, http.StatusBadGateway},
	{models.ErrObjectDeleteFailed, http.StatusBadGateway},
	{models.ErrEmptyResolvedOutfit, http.StatusUnprocessableEntity},
	{models.ErrEmptyInventory, http.StatusUnprocessableEntity},
	{models.ErrImageProcessing, http.StatusUnprocessableEntity},
	{models.ErrCatalogWriteFailed, http.StatusServiceUnavailable},
}

// StatusFor maps an error to the HTTP status it is answered with.
func StatusFor(err error) int {
	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

func errorResponse(c echo.Context, err error) error {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		sentry.CaptureException(err)
		return c.JSON(status, ErrorResponse{Error: "Something went wrong, please try again", Kind: models.ErrorKind(err)})
	}
	return c.JSON(status, ErrorResponse{Error: err.Error(), Kind: models.ErrorKind(err)})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Kind: "invalid_request"})
}
