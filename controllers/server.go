package controllers

import (
	"dresssenseapi/models"
	"dresssenseapi/services"
	"dresssenseapi/wardrobe"
	"net/http"

	"github.com/go-playground/validator"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ServerOptions carries the collaborators the HTTP layer is built from.
type ServerOptions struct {
	Closet      *wardrobe.Closet
	Recommender *wardrobe.Recommender
	Outfits     *wardrobe.OutfitBook
	URLCache    services.URLCacheServiceProvider
	// Used when the cache itself fails. Optional.
	Presigner   services.URLPresigner

	JWTSecret      string
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func SetupServer(opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	v := validator.New()
	v.RegisterValidation("itemstatus", models.ValidateItemStatus)
	e.Validator = &CustomValidator{validator: v}

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	closetGroup := e.Group("/closet")
	if opts.JWTSecret != "" {
		closetGroup.Use(echojwt.JWT([]byte(opts.JWTSecret)), SubjectMiddleware)
	} else {
		opts.Logger.Warn("JWT_SECRET is not set, /closet is served without authentication")
	}

	clothesController := ClothesController{
		Closet:         opts.Closet,
		URLCache:       opts.URLCache,
		Presigner:      opts.Presigner,
		MaxUploadBytes: opts.MaxUploadBytes,
		Logger:         opts.Logger,
	}
	clothesController.ClothingRoutes(closetGroup.Group("/items"))

	outfitsController := OutfitsController{
		Recommender: opts.Recommender,
		Outfits:     opts.Outfits,
		Logger:      opts.Logger,
	}
	outfitsController.OutfitRoutes(closetGroup)

	return e
}
