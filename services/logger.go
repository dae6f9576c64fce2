package services

import (
	"go.uber.org/zap"
)

// NewLogger returns a JSON logger in production and a console logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
