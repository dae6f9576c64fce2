package controllers

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// SubjectMiddleware rejects tokens without a subject and exposes it as
// "subject" on the context.
func SubjectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.ErrUnauthorized
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.ErrUnauthorized
		}
		subject, _ := claims["sub"].(string)
		if subject == "" {
			return echo.ErrUnauthorized
		}
		c.Set("subject", subject)
		return next(c)
	}
}
